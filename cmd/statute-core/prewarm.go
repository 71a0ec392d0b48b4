package main

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/statute-core/internal/core/domain"
	"github.com/custodia-labs/statute-core/internal/core/ports/driving"
)

func newPrewarmCmd(cfg *config) *cobra.Command {
	var documents, dates []string
	var mode string

	cmd := &cobra.Command{
		Use:   "prewarm",
		Short: "Compute and cache versions ahead of requests",
		Long: `Compute and cache versions ahead of requests.
Without --date, each document is warmed for today and every date it changed on.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			parsed := make([]time.Time, 0, len(dates))
			for _, d := range dates {
				t, err := domain.ParseDate(d)
				if err != nil {
					return err
				}
				parsed = append(parsed, t)
			}
			vm, err := domain.ParseVersionMode(mode)
			if err != nil {
				return err
			}

			rt, err := wire(ctx, cfg)
			if err != nil {
				return err
			}
			defer rt.Close()

			targets := make([]driving.PrewarmTarget, len(documents))
			for i, id := range documents {
				targets[i] = driving.PrewarmTarget{DocumentID: id, Dates: parsed, Mode: vm}
			}

			result, err := rt.service.Prewarm(ctx, targets)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
	cmd.Flags().StringSliceVar(&documents, "document", nil, "Document id to warm (repeatable)")
	cmd.Flags().StringSliceVar(&dates, "date", nil, "Date to warm, YYYY-MM-DD (repeatable)")
	cmd.Flags().StringVar(&mode, "mode", "historical", "historical or preview")
	_ = cmd.MarkFlagRequired("document")
	return cmd
}
