package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/store"
	"github.com/Lixing-Zhang/kart-challenge/storefront/pkg/logger"
)

var errUnreachable = errors.New("dial tcp: connection refused")

// unreachableRemote fails every call
type unreachableRemote struct {
	inserts atomic.Int64
}

func (r *unreachableRemote) Name() string { return "unreachable" }

func (r *unreachableRemote) SelectProducts(context.Context) (store.Response, error) {
	return nil, errUnreachable
}

func (r *unreachableRemote) InsertProduct(context.Context, models.Product) error {
	r.inserts.Add(1)
	return errUnreachable
}

// flakyRemote is a memory store rejecting inserts of selected ids
type flakyRemote struct {
	*store.Memory
	rejectIDs map[int64]bool
}

func (r *flakyRemote) InsertProduct(ctx context.Context, p models.Product) error {
	if r.rejectIDs[p.ID] {
		return errors.New("violates check constraint")
	}
	return r.Memory.InsertProduct(ctx, p)
}

// rawRemote answers selects with a fixed payload
type rawRemote struct {
	body string
}

func (r rawRemote) Name() string { return "raw" }

func (r rawRemote) SelectProducts(context.Context) (store.Response, error) {
	return store.Response(r.body), nil
}

func (r rawRemote) InsertProduct(context.Context, models.Product) error { return nil }

var snapshotProducts = []models.Product{
	{ID: 1, Name: "Bissap", Price: 1000, Description: "Jus de bissap", Image: "img/bissap.png", Category: "Boissons"},
	{ID: 2, Name: "Thiakry", Price: 1500, Description: "Dessert au mil", Image: "img/thiakry.png", Category: "Desserts"},
	{ID: 3, Name: "Fataya", Price: 300, Description: "", Image: "https://cdn.example.com/fataya.jpg", Category: "Snacks"},
}

const snapshotJSON = `[
	{"id": 1, "name": "Bissap", "price": 1000, "description": "Jus de bissap", "image": "img/bissap.png", "category": "Boissons"},
	{"id": 2, "name": "Thiakry", "price": 1500, "description": "Dessert au mil", "image": "img/thiakry.png", "category": "Desserts"},
	{"id": 3, "name": "Fataya", "price": 300, "description": "", "image": "https://cdn.example.com/fataya.jpg", "category": "Snacks"}
]`

func writeSnapshot(c *qt.C, content string) string {
	c.Helper()

	path := filepath.Join(c.TempDir(), "products.json")
	c.Assert(os.WriteFile(path, []byte(content), 0o644), qt.IsNil)
	return path
}

func missingSnapshot(c *qt.C) string {
	return filepath.Join(c.TempDir(), "products.json")
}

func TestLoader_RemoteSuccess(t *testing.T) {
	c := qt.New(t)

	remoteProducts := []models.Product{{ID: 9, Name: "Yassa", Price: 2500, Image: "img/yassa.png", Category: "Plats"}}
	loader := NewLoader(store.NewMemory(remoteProducts), writeSnapshot(c, snapshotJSON), logger.Discard())

	result := loader.Load(context.Background())
	c.Assert(result.Source, qt.Equals, SourceRemote)
	c.Assert(result.Products, qt.DeepEquals, remoteProducts)
	c.Assert(result.Replication, qt.IsNil)
}

func TestLoader_RemoteShapesAreEquivalent(t *testing.T) {
	for _, shape := range []store.Shape{store.ShapeList, store.ShapeEnvelope, store.ShapeNestedEnvelope} {
		t.Run(shape.String(), func(t *testing.T) {
			c := qt.New(t)

			remote := store.NewMemory(snapshotProducts, store.WithShape(shape))
			loader := NewLoader(remote, missingSnapshot(c), logger.Discard())

			c.Assert(loader.GetAllProducts(context.Background()), qt.DeepEquals, snapshotProducts)
		})
	}
}

func TestLoader_RemoteAppliesDefaults(t *testing.T) {
	c := qt.New(t)

	loader := NewLoader(rawRemote{body: `{"data": [{"id": 5, "price": 750.0}]}`}, missingSnapshot(c), logger.Discard())

	products := loader.GetAllProducts(context.Background())
	c.Assert(products, qt.DeepEquals, []models.Product{{
		ID:          5,
		Name:        models.DefaultName,
		Price:       750,
		Description: "",
		Image:       models.DefaultImage,
		Category:    models.DefaultCategory,
	}})
}

func TestLoader_UnreachableRemoteReturnsSnapshot(t *testing.T) {
	c := qt.New(t)

	remote := &unreachableRemote{}
	loader := NewLoader(remote, writeSnapshot(c, snapshotJSON), logger.Discard())

	result := loader.Load(context.Background())
	c.Assert(result.Source, qt.Equals, SourceSnapshot)
	c.Assert(result.Products, qt.DeepEquals, snapshotProducts)

	// The emptiness check failed too, so every row was attempted and failed.
	c.Assert(result.Replication, qt.IsNotNil)
	c.Assert(result.Replication.Attempted, qt.Equals, 3)
	c.Assert(result.Replication.Failed, qt.Equals, 3)
	c.Assert(remote.inserts.Load(), qt.Equals, int64(3))
}

func TestLoader_InvalidSnapshotRecordKeepsTheRest(t *testing.T) {
	c := qt.New(t)

	loader := NewLoader(nil, writeSnapshot(c, `[
		{"id": 1, "name": "Bissap", "price": 1000, "description": "Jus de bissap", "image": "img/bissap.png", "category": "Boissons"},
		{"id": 9, "name": "Broken", "price": "n/a"}
	]`), logger.Discard())

	result := loader.Load(context.Background())
	c.Assert(result.Source, qt.Equals, SourceSnapshot)
	c.Assert(result.Products, qt.DeepEquals, snapshotProducts[:1])
}

func TestLoader_NothingAvailableReturnsEmpty(t *testing.T) {
	c := qt.New(t)

	remote := &unreachableRemote{}
	loader := NewLoader(remote, missingSnapshot(c), logger.Discard())

	result := loader.Load(context.Background())
	c.Assert(result.Source, qt.Equals, SourceEmpty)
	c.Assert(result.Products, qt.IsNotNil)
	c.Assert(result.Products, qt.HasLen, 0)
	c.Assert(result.Replication, qt.IsNil)
	c.Assert(remote.inserts.Load(), qt.Equals, int64(0))
}

func TestLoader_CorruptSnapshotReturnsEmpty(t *testing.T) {
	c := qt.New(t)

	loader := NewLoader(nil, writeSnapshot(c, `[{"id": 1,`), logger.Discard())

	products := loader.GetAllProducts(context.Background())
	c.Assert(products, qt.HasLen, 0)
}

func TestLoader_SnapshotOnlyMode(t *testing.T) {
	c := qt.New(t)

	loader := NewLoader(nil, writeSnapshot(c, snapshotJSON), logger.Discard())
	c.Assert(loader.HasRemote(), qt.IsFalse)

	result := loader.Load(context.Background())
	c.Assert(result.Source, qt.Equals, SourceSnapshot)
	c.Assert(result.Products, qt.DeepEquals, snapshotProducts)
	c.Assert(result.Replication, qt.IsNil)
}

func TestLoader_ReplicatesSnapshotIntoEmptyRemote(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()

	remote := store.NewMemory(nil)
	loader := NewLoader(remote, writeSnapshot(c, snapshotJSON), logger.Discard())

	first := loader.Load(ctx)
	c.Assert(first.Source, qt.Equals, SourceSnapshot)
	c.Assert(first.Products, qt.DeepEquals, snapshotProducts)
	c.Assert(first.Replication, qt.DeepEquals, &ReplicationReport{Attempted: 3, Inserted: 3})

	c.Assert(remote.Products(), qt.DeepEquals, snapshotProducts)

	second := loader.Load(ctx)
	c.Assert(second.Source, qt.Equals, SourceRemote)
	c.Assert(second.Products, qt.DeepEquals, snapshotProducts)
}

func TestLoader_ReplicationSkipsFailedRows(t *testing.T) {
	c := qt.New(t)

	remote := &flakyRemote{Memory: store.NewMemory(nil), rejectIDs: map[int64]bool{2: true}}
	loader := NewLoader(remote, writeSnapshot(c, snapshotJSON), logger.Discard())

	result := loader.Load(context.Background())
	c.Assert(result.Products, qt.DeepEquals, snapshotProducts)
	c.Assert(result.Replication.Attempted, qt.Equals, 3)
	c.Assert(result.Replication.Inserted, qt.Equals, 2)
	c.Assert(result.Replication.Failed, qt.Equals, 1)
	c.Assert(result.Replication.Errors, qt.HasLen, 1)

	stored := remote.Products()
	c.Assert(stored, qt.HasLen, 2)
	c.Assert(stored[0].ID, qt.Equals, int64(1))
	c.Assert(stored[1].ID, qt.Equals, int64(3))
}

func TestLoader_SchemaErrorFallsBackWithoutReplication(t *testing.T) {
	c := qt.New(t)

	loader := NewLoader(rawRemote{body: `[{"id": 1, "price": "free"}]`}, writeSnapshot(c, snapshotJSON), logger.Discard())

	result := loader.Load(context.Background())
	c.Assert(result.Source, qt.Equals, SourceSnapshot)
	c.Assert(result.Products, qt.DeepEquals, snapshotProducts)
	c.Assert(result.Replication, qt.IsNil)
}

func TestLoader_UnknownShapeTreatedAsEmpty(t *testing.T) {
	c := qt.New(t)

	loader := NewLoader(rawRemote{body: `{"rows": [{"id": 1}]}`}, writeSnapshot(c, snapshotJSON), logger.Discard())

	result := loader.Load(context.Background())
	c.Assert(result.Source, qt.Equals, SourceSnapshot)
	c.Assert(result.Replication, qt.DeepEquals, &ReplicationReport{Attempted: 3, Inserted: 3})
}

func TestLoader_SnapshotRoundTripAppliesDefaults(t *testing.T) {
	c := qt.New(t)

	path := writeSnapshot(c, `[
		{"id": 1, "name": "Bissap", "price": 1000, "description": "Jus", "image": "img/bissap.png", "category": "Boissons"},
		{"id": 2, "price": "800"}
	]`)
	loader := NewLoader(nil, path, logger.Discard())

	c.Assert(loader.GetAllProducts(context.Background()), qt.DeepEquals, []models.Product{
		{ID: 1, Name: "Bissap", Price: 1000, Description: "Jus", Image: "img/bissap.png", Category: "Boissons"},
		{ID: 2, Name: models.DefaultName, Price: 800, Description: "", Image: models.DefaultImage, Category: models.DefaultCategory},
	})
}

func TestLoader_Sync(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()

	c.Run("without remote", func(c *qt.C) {
		loader := NewLoader(nil, writeSnapshot(c, snapshotJSON), logger.Discard())
		_, err := loader.Sync(ctx, false)
		c.Assert(err, qt.ErrorIs, ErrRemoteNotConfigured)
	})

	c.Run("missing snapshot", func(c *qt.C) {
		loader := NewLoader(store.NewMemory(nil), missingSnapshot(c), logger.Discard())
		_, err := loader.Sync(ctx, false)
		c.Assert(err, qt.ErrorIs, ErrSnapshotNotFound)
	})

	c.Run("empty remote", func(c *qt.C) {
		remote := store.NewMemory(nil)
		loader := NewLoader(remote, writeSnapshot(c, snapshotJSON), logger.Discard())

		report, err := loader.Sync(ctx, false)
		c.Assert(err, qt.IsNil)
		c.Assert(report, qt.DeepEquals, ReplicationReport{Attempted: 3, Inserted: 3})
		c.Assert(remote.Products(), qt.DeepEquals, snapshotProducts)
	})

	c.Run("populated remote", func(c *qt.C) {
		remote := store.NewMemory(snapshotProducts[:1])
		loader := NewLoader(remote, writeSnapshot(c, snapshotJSON), logger.Discard())

		report, err := loader.Sync(ctx, false)
		c.Assert(err, qt.IsNil)
		c.Assert(report, qt.DeepEquals, ReplicationReport{Existing: 1})
		c.Assert(remote.Products(), qt.HasLen, 1)
	})

	c.Run("forced over populated remote", func(c *qt.C) {
		remote := store.NewMemory(snapshotProducts[:1])
		loader := NewLoader(remote, writeSnapshot(c, snapshotJSON), logger.Discard())

		report, err := loader.Sync(ctx, true)
		c.Assert(err, qt.IsNil)
		c.Assert(report.Attempted, qt.Equals, 3)
		c.Assert(report.Inserted, qt.Equals, 2)
		c.Assert(report.Failed, qt.Equals, 1)
		c.Assert(remote.Products(), qt.DeepEquals, snapshotProducts)
	})

	c.Run("unreachable remote", func(c *qt.C) {
		loader := NewLoader(&unreachableRemote{}, writeSnapshot(c, snapshotJSON), logger.Discard())
		_, err := loader.Sync(ctx, false)
		c.Assert(err, qt.ErrorIs, errUnreachable)
	})
}
