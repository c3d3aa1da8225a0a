package catalog

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/storefront/pkg/logger"
)

func TestReadSnapshot(t *testing.T) {
	c := qt.New(t)

	products, err := ReadSnapshot(writeSnapshot(c, snapshotJSON), logger.Discard())
	c.Assert(err, qt.IsNil)
	c.Assert(products, qt.DeepEquals, snapshotProducts)
}

func TestReadSnapshot_Missing(t *testing.T) {
	c := qt.New(t)

	_, err := ReadSnapshot(filepath.Join(c.TempDir(), "nope.json"), logger.Discard())
	c.Assert(err, qt.ErrorIs, ErrSnapshotNotFound)
}

func TestReadSnapshot_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", "products"},
		{"object instead of array", `{"id": 1}`},
		{"null row", `[{"id": 1}, null]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)

			_, err := ReadSnapshot(writeSnapshot(c, tt.content), logger.Discard())
			c.Assert(err, qt.ErrorMatches, "failed to parse snapshot .*")
		})
	}
}

func TestReadSnapshot_EmptyArray(t *testing.T) {
	c := qt.New(t)

	path := filepath.Join(c.TempDir(), "products.json")
	c.Assert(os.WriteFile(path, []byte("[]"), 0o644), qt.IsNil)

	products, err := ReadSnapshot(path, logger.Discard())
	c.Assert(err, qt.IsNil)
	c.Assert(products, qt.HasLen, 0)
}

func TestReadSnapshot_SkipsInvalidRecords(t *testing.T) {
	c := qt.New(t)

	var logs bytes.Buffer
	products, err := ReadSnapshot(writeSnapshot(c, `[
		{"id": 1, "name": "Bissap", "price": 1000},
		{"id": 2, "name": "Thiakry", "price": "a lot"},
		{"id": "three", "name": "Fataya", "price": 300},
		{"id": 4, "name": "Yassa", "price": "2500"}
	]`), logger.NewWithWriter(&logs, "warn"))
	c.Assert(err, qt.IsNil)

	c.Assert(products, qt.DeepEquals, []models.Product{
		{ID: 1, Name: "Bissap", Price: 1000, Image: models.DefaultImage, Category: models.DefaultCategory},
		{ID: 4, Name: "Yassa", Price: 2500, Image: models.DefaultImage, Category: models.DefaultCategory},
	})
	c.Assert(strings.Count(logs.String(), "skipping invalid snapshot record"), qt.Equals, 2)
}

func TestReadSnapshot_AllRecordsInvalid(t *testing.T) {
	c := qt.New(t)

	products, err := ReadSnapshot(writeSnapshot(c, `[{"id": 1, "price": "a lot"}]`), logger.Discard())
	c.Assert(err, qt.IsNil)
	c.Assert(products, qt.HasLen, 0)
}
