package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/statute-core/internal/adapters/driven/fixture"
	"github.com/custodia-labs/statute-core/internal/core/domain"
	"github.com/custodia-labs/statute-core/internal/core/versioning"
)

// engineFlags are shared by the offline commands, which run the engine
// directly over a bundle without any store or cache
type engineFlags struct {
	mode string
	now  string
	cfg  *config
}

func (f *engineFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.mode, "mode", "historical", "historical or preview")
	cmd.Flags().StringVar(&f.now, "now", "", "Reference day, YYYY-MM-DD (default today)")
}

func (f *engineFlags) load(path string) (versioning.Input, versioning.Options, error) {
	var opts versioning.Options
	b, err := fixture.Load(path)
	if err != nil {
		return versioning.Input{}, opts, err
	}
	in, err := b.Input()
	if err != nil {
		return in, opts, err
	}

	if opts.Mode, err = domain.ParseVersionMode(f.mode); err != nil {
		return in, opts, err
	}
	loc, err := time.LoadLocation(f.cfg.ReferenceTimezone)
	if err != nil {
		return in, opts, fmt.Errorf("reference timezone: %w", err)
	}
	opts.Now = domain.DayIn(time.Now(), loc)
	if f.now != "" {
		if opts.Now, err = domain.ParseDate(f.now); err != nil {
			return in, opts, err
		}
	}
	return in, opts, nil
}

func newVersionCmd(cfg *config) *cobra.Command {
	flags := engineFlags{cfg: cfg}
	cmd := &cobra.Command{
		Use:   "version <bundle.yaml> <date>",
		Short: "Print a bundle's statute as it read on a date",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, opts, err := flags.load(args[0])
			if err != nil {
				return err
			}
			date, err := domain.ParseDate(args[1])
			if err != nil {
				return err
			}
			v, err := versioning.Reconstruct(in, opts, date)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), v)
		},
	}
	flags.register(cmd)
	return cmd
}

func newDiffCmd(cfg *config) *cobra.Command {
	flags := engineFlags{cfg: cfg}
	var diffOpts domain.DiffOptions
	cmd := &cobra.Command{
		Use:   "diff <bundle.yaml> <date> <date>",
		Short: "Compare a bundle's statute on two dates",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, opts, err := flags.load(args[0])
			if err != nil {
				return err
			}
			from, err := domain.ParseDate(args[1])
			if err != nil {
				return err
			}
			to, err := domain.ParseDate(args[2])
			if err != nil {
				return err
			}
			result, err := versioning.DiffByDate(in, opts, from, to, diffOpts)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&diffOpts.ChangedOnly, "changed-only", false, "Omit unchanged sections")
	cmd.Flags().BoolVar(&diffOpts.IncludePatch, "patch", false, "Include a unified patch per changed section")
	cmd.Flags().IntVar(&diffOpts.Context, "context", versioning.DefaultPatchContext, "Patch context lines")
	return cmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
