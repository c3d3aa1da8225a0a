package main

import (
	"encoding/json"
	"fmt"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/catalog"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/store/postgres"
)

const snapshotFlag = "snapshot"

var seedFlags = map[string]cobraflags.Flag{
	snapshotFlag: &cobraflags.StringFlag{
		Name:  snapshotFlag,
		Value: "",
		Usage: "Products snapshot to push (defaults to PRODUCTS_FILE under APP_ROOT)",
	},
}

func newSeedCommand(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Copy the local products snapshot into the remote store",
		Long: `Insert every product of the local snapshot into the configured remote store,
one row at a time. Rows that fail are reported and skipped.

Unless --force is given, nothing is inserted when the remote store already has products.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.seed(cmd, seedFlags[snapshotFlag].GetString(), force)
		},
	}

	cobraflags.RegisterMap(cmd, seedFlags)
	cmd.Flags().BoolVar(&force, "force", false, "Insert even when the remote store already has products")
	return cmd
}

func (a *app) seed(cmd *cobra.Command, snapshot string, force bool) error {
	ctx := cmd.Context()
	snapshotPath := a.cfg.Catalog.SnapshotPath()
	if snapshot != "" {
		snapshotPath = snapshot
	}

	remote, closeRemote, err := openRemote(ctx, a.cfg.Remote, a.log)
	if err != nil {
		return err
	}
	defer closeRemote()

	if pg, ok := remote.(*postgres.Store); ok {
		if err := pg.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("failed to prepare products table: %w", err)
		}
	}

	report, err := catalog.NewLoader(remote, snapshotPath, a.log).Sync(ctx, force)
	if err != nil {
		return fmt.Errorf("seed failed: %w", err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return err
	}

	if report.Failed > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d products could not be inserted\n", report.Failed, report.Attempted)
	}
	return nil
}
