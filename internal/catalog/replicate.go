package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/metrics"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/store"
)

// ReplicationReport summarizes a best-effort copy of snapshot rows into the
// remote store
type ReplicationReport struct {
	Existing  int      `json:"existing"`
	Attempted int      `json:"attempted"`
	Inserted  int      `json:"inserted"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors,omitempty"`
}

// Replicate inserts products one at a time. A failed insert is recorded and
// skipped; it never stops the remaining inserts.
func Replicate(ctx context.Context, remote store.Remote, products []models.Product, logger *slog.Logger) ReplicationReport {
	report := ReplicationReport{}

	for _, product := range products {
		report.Attempted++

		if err := remote.InsertProduct(ctx, product); err != nil {
			report.Failed++
			report.Errors = append(report.Errors, fmt.Sprintf("product %d (%s): %v", product.ID, product.Name, err))
			metrics.RecordReplicationInsert(false)
			logger.Warn("failed to insert product",
				"store", remote.Name(),
				"product_id", product.ID,
				"name", product.Name,
				"error", err,
			)
			continue
		}

		report.Inserted++
		metrics.RecordReplicationInsert(true)
	}

	logger.Info("snapshot replication finished",
		"store", remote.Name(),
		"attempted", report.Attempted,
		"inserted", report.Inserted,
		"failed", report.Failed,
	)

	return report
}
