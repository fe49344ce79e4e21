package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/hyperpipe/internal/align"
	"github.com/roach88/hyperpipe/internal/ir"
	"github.com/roach88/hyperpipe/internal/store"
	"github.com/roach88/hyperpipe/internal/table"
)

// AlignOptions holds flags for the align command.
type AlignOptions struct {
	*RootOptions
	Output   string
	Stages   string
	Database string
	Progress bool
	Preview  int
	NA       string

	// IDGenerator allows overriding the run ID generator (for testing).
	// If nil, the store's UUIDv7 generator is used.
	IDGenerator store.IDGenerator
}

// AlignSummary is the result of one align invocation.
type AlignSummary struct {
	Source    string `json:"source"`
	Records   int    `json:"records"`
	Excluded  int    `json:"excluded"`
	Missing   int    `json:"missing"`
	Entities  int    `json:"entities"`
	Stages    int    `json:"stages"`
	Seed      string `json:"seed,omitempty"`
	Digest    string `json:"digest"`
	CSV       string `json:"csv,omitempty"`
	StageList string `json:"stage_list,omitempty"`
	RunID     string `json:"run_id,omitempty"`
	Stored    bool   `json:"stored,omitempty"`
}

// NewAlignCommand creates the align command.
func NewAlignCommand(rootOpts *RootOptions) *cobra.Command {
	return newAlignCommand(&AlignOptions{RootOptions: rootOpts})
}

func newAlignCommand(opts *AlignOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "align <log>",
		Short: "Align a pass-dump log into a master pipeline",
		Long: `Parse a pass-dump log, align every function's pass trace into one
master pipeline and assemble the per-function property table.

The function with the longest trace seeds the pipeline; the rest are folded
in first-seen order. Use "-" to read the log from stdin.

Example:
  hyperpipe align dump.log -o funcs.csv --stages passes.txt
  hyperpipe align dump.log --db runs.db --progress`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAlign(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "out", "o", "", "write the property table as CSV to this path")
	cmd.Flags().StringVar(&opts.Stages, "stages", "", "write the master stage list to this path")
	cmd.Flags().StringVar(&opts.Database, "db", "", "store the run in this SQLite database")
	cmd.Flags().BoolVar(&opts.Progress, "progress", false, "show a progress bar on stderr when it is a terminal")
	cmd.Flags().IntVar(&opts.Preview, "preview", 0, "preview this many pipeline positions (0 disables; default from config)")
	cmd.Flags().StringVar(&opts.NA, "na", "", "CSV marker for missing cells (default from config)")

	return cmd
}

func runAlign(opts *AlignOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	opts.setupLogging(cmd.ErrOrStderr())

	cfg, err := opts.Settings()
	if err != nil {
		return fail(formatter, "load config", err)
	}
	if cmd.Flags().Changed("preview") {
		cfg.Output.PreviewPositions = opts.Preview
	}
	if cmd.Flags().Changed("na") {
		cfg.Output.NA = opts.NA
	}

	loaded, err := LoadLog(path, cmd.InOrStdin(), cfg)
	if err != nil {
		return fail(formatter, "load log", err)
	}
	summary := AlignSummary{
		Source:   loaded.Source,
		Records:  loaded.Stats.Records,
		Excluded: loaded.Stats.Excluded,
		Missing:  loaded.Stats.Missing,
		Entities: loaded.Stats.Entities,
	}

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	progress := newFoldProgress(cmd.ErrOrStderr(), loaded.Buffer.Len()-1, opts.Progress)
	res, err := align.MergeAll(ctx, loaded.Buffer, align.WithObserver(progress.observe))
	progress.finish()
	if err != nil {
		return fail(formatter, "align", err)
	}
	summary.Seed = string(res.Seed)
	summary.Stages = res.Pipeline.Len()

	summary.Digest, err = ir.PipelineDigest(res.Pipeline)
	if err != nil {
		return fail(formatter, "digest", err)
	}

	tbl, err := table.Assemble(res.Pipeline, cfg.Properties)
	if err != nil {
		return fail(formatter, "assemble table", err)
	}

	if opts.Output != "" {
		err := writeFile(opts.Output, func(w io.Writer) error {
			return table.WriteCSV(w, tbl, table.CSVOptions{NA: cfg.Output.NA})
		})
		if err != nil {
			return fail(formatter, "write csv", err)
		}
		summary.CSV = opts.Output
		slog.Debug("csv written", "path", opts.Output, "rows", len(tbl.Rows))
	}
	if opts.Stages != "" {
		err := writeFile(opts.Stages, func(w io.Writer) error {
			return table.WriteStageList(w, tbl)
		})
		if err != nil {
			return fail(formatter, "write stage list", err)
		}
		summary.StageList = opts.Stages
	}

	if opts.Database != "" {
		id, inserted, err := storeRun(ctx, opts, loaded.Source, res.Pipeline)
		if err != nil {
			return fail(formatter, "store run", err)
		}
		summary.RunID, summary.Stored = id, inserted
	}

	return formatter.Result(summary, func(w io.Writer) error {
		writeAlignSummary(w, summary)
		if cfg.Output.PreviewPositions <= 0 || len(tbl.Rows) == 0 {
			return nil
		}
		preview, err := table.Render(tbl, table.PreviewOptions{
			Property:     cfg.Output.PreviewProperty,
			MaxPositions: cfg.Output.PreviewPositions,
			MaxEntities:  cfg.Output.PreviewEntities,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, preview)
		return nil
	})
}

func storeRun(ctx context.Context, opts *AlignOptions, source string, p *ir.Pipeline) (string, bool, error) {
	st, err := store.Open(opts.Database, store.WithIDGenerator(opts.IDGenerator))
	if err != nil {
		return "", false, &CommandError{Code: ErrCodeStoreFailed, Message: fmt.Sprintf("open database: %v", err), Err: err}
	}
	defer closeStore(st)

	id, inserted, err := st.WriteRun(ctx, source, p)
	if err != nil {
		return "", false, &CommandError{Code: ErrCodeStoreFailed, Message: err.Error(), Err: err}
	}
	slog.Info("run stored", "run", id, "new", inserted)
	return id, inserted, nil
}

func writeAlignSummary(w io.Writer, s AlignSummary) {
	if s.Entities == 0 {
		fmt.Fprintf(w, "✓ No entities to align in %s\n", s.Source)
	} else {
		fmt.Fprintf(w, "✓ Aligned %d entities onto %d stages (seed: %s)\n", s.Entities, s.Stages, s.Seed)
	}
	fmt.Fprintf(w, "  records: %d  excluded: %d  empty blocks: %d\n", s.Records, s.Excluded, s.Missing)
	fmt.Fprintf(w, "  digest: %s\n", s.Digest)
	if s.CSV != "" {
		fmt.Fprintf(w, "  csv: %s\n", s.CSV)
	}
	if s.StageList != "" {
		fmt.Fprintf(w, "  stages: %s\n", s.StageList)
	}
	if s.RunID != "" {
		state := "existing"
		if s.Stored {
			state = "new"
		}
		fmt.Fprintf(w, "  run: %s (%s)\n", s.RunID, state)
	}
}
