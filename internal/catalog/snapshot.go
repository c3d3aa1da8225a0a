package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/store"
)

var (
	ErrSnapshotNotFound = errors.New("products snapshot not found")
)

// ReadSnapshot reads the local products snapshot, a JSON array of product
// records. Defaults are applied to fields the file leaves out. A record whose
// id or price is not numeric is logged and skipped; the other records are kept.
func ReadSnapshot(path string, logger *slog.Logger) ([]models.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, path)
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	records, err := store.DecodeRecords(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse snapshot %s: %w", path, err)
	}

	products := make([]models.Product, 0, len(records))
	for i, record := range records {
		product, err := record.Product()
		if err != nil {
			logger.Warn("skipping invalid snapshot record", "path", path, "row", i, "error", err)
			continue
		}
		products = append(products, product)
	}
	return products, nil
}
