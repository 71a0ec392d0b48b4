package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/statute-core/internal/adapters/driven/fixture"
	"github.com/custodia-labs/statute-core/internal/adapters/driven/postgres"
)

func newSeedCmd(cfg *config) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <bundle.yaml>...",
		Short: "Write statute bundles to PostgreSQL",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			bundles := make([]*fixture.Bundle, 0, len(args))
			for _, path := range args {
				b, err := fixture.Load(path)
				if err != nil {
					return err
				}
				bundles = append(bundles, b)
			}

			seedCfg := *cfg
			seedCfg.Bundles = nil
			rt, err := wire(ctx, &seedCfg)
			if err != nil {
				return err
			}
			defer rt.Close()

			writer := postgres.NewStatuteStore(rt.db)
			for i, b := range bundles {
				if err := fixture.Seed(ctx, writer, b); err != nil {
					return fmt.Errorf("%s: %w", args[i], err)
				}
				n, err := rt.service.Invalidate(ctx, b.Document.ID)
				if err != nil {
					return err
				}
				log.Printf("Seeded %s (%d sections, %d amendments, %d cached results dropped)",
					b.Document.ID, len(b.Sections), len(b.Amendments), n)
			}
			return nil
		},
	}
}
