// Package catalog resolves the product list served by the storefront: the
// remote store when it has rows, otherwise the local snapshot, which is then
// pushed to an empty remote store.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/metrics"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/store"
)

var (
	ErrRemoteNotConfigured = errors.New("remote store not configured")
)

// Source names where a catalog load got its products
type Source string

const (
	SourceRemote   Source = "remote"
	SourceSnapshot Source = "snapshot"
	SourceEmpty    Source = "empty"
)

// Result is the outcome of a single catalog load
type Result struct {
	Products    []models.Product
	Source      Source
	Replication *ReplicationReport
}

// Loader loads the catalog. It holds no cache: every call re-reads the
// remote store and, on fallback, the snapshot file.
type Loader struct {
	remote       store.Remote
	snapshotPath string
	logger       *slog.Logger
}

// NewLoader creates a loader. A nil remote runs the loader in snapshot-only mode.
func NewLoader(remote store.Remote, snapshotPath string, logger *slog.Logger) *Loader {
	return &Loader{
		remote:       remote,
		snapshotPath: snapshotPath,
		logger:       logger,
	}
}

// HasRemote reports whether a remote store is configured
func (l *Loader) HasRemote() bool {
	return l.remote != nil
}

// GetAllProducts returns the current catalog. It never fails: when no source
// has products the result is empty.
func (l *Loader) GetAllProducts(ctx context.Context) []models.Product {
	return l.Load(ctx).Products
}

// Load runs the full load and reports where the products came from
func (l *Loader) Load(ctx context.Context) Result {
	if products, ok := l.loadRemote(ctx); ok {
		metrics.RecordCatalogLoad(string(SourceRemote))
		return Result{Products: products, Source: SourceRemote}
	}

	snapshot, err := ReadSnapshot(l.snapshotPath, l.logger)
	switch {
	case errors.Is(err, ErrSnapshotNotFound):
		l.logger.Warn("products snapshot missing", "path", l.snapshotPath)
	case err != nil:
		l.logger.Error("failed to load products snapshot", "path", l.snapshotPath, "error", err)
	}

	result := Result{Products: snapshot, Source: SourceSnapshot}
	if len(snapshot) == 0 {
		result.Products = []models.Product{}
		result.Source = SourceEmpty
	} else {
		l.logger.Debug("loaded products from snapshot", "count", len(snapshot), "path", l.snapshotPath)
	}

	if l.remote != nil && len(snapshot) > 0 {
		result.Replication = l.replicateIfEmpty(ctx, snapshot)
	}

	metrics.RecordCatalogLoad(string(result.Source))
	return result
}

// Sync pushes the snapshot to the remote store. Unless force is set, nothing
// is inserted when the remote store already has rows.
func (l *Loader) Sync(ctx context.Context, force bool) (ReplicationReport, error) {
	if l.remote == nil {
		return ReplicationReport{}, ErrRemoteNotConfigured
	}

	snapshot, err := ReadSnapshot(l.snapshotPath, l.logger)
	if err != nil {
		return ReplicationReport{}, err
	}

	if !force {
		resp, err := l.remote.SelectProducts(ctx)
		if err != nil {
			return ReplicationReport{}, fmt.Errorf("failed to check remote products: %w", err)
		}
		if records, _ := store.Normalize(resp); len(records) > 0 {
			l.logger.Info("remote store already populated", "store", l.remote.Name(), "count", len(records))
			return ReplicationReport{Existing: len(records)}, nil
		}
	}

	return Replicate(ctx, l.remote, snapshot, l.logger), nil
}

func (l *Loader) loadRemote(ctx context.Context) ([]models.Product, bool) {
	if l.remote == nil {
		return nil, false
	}

	resp, err := l.remote.SelectProducts(ctx)
	if err != nil {
		l.logger.Warn("remote products query failed, falling back to snapshot",
			"store", l.remote.Name(),
			"error", err,
		)
		return nil, false
	}

	records, shape := store.Normalize(resp)
	if len(records) == 0 {
		l.logger.Info("remote store returned no products, falling back to snapshot",
			"store", l.remote.Name(),
			"shape", shape.String(),
		)
		return nil, false
	}

	products, err := store.Products(records)
	if err != nil {
		l.logger.Warn("remote products rejected, falling back to snapshot",
			"store", l.remote.Name(),
			"error", err,
		)
		return nil, false
	}

	l.logger.Debug("loaded products from remote store",
		"store", l.remote.Name(),
		"count", len(products),
		"shape", shape.String(),
	)
	return products, true
}

func (l *Loader) replicateIfEmpty(ctx context.Context, snapshot []models.Product) *ReplicationReport {
	resp, err := l.remote.SelectProducts(ctx)
	if err != nil {
		l.logger.Warn("remote emptiness check failed, replicating snapshot anyway",
			"store", l.remote.Name(),
			"error", err,
		)
	} else if records, _ := store.Normalize(resp); len(records) > 0 {
		return nil
	}

	l.logger.Info("replicating snapshot to remote store",
		"store", l.remote.Name(),
		"count", len(snapshot),
	)
	report := Replicate(ctx, l.remote, snapshot, l.logger)
	return &report
}
