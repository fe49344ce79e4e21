package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/hyperpipe/internal/ir"
	"github.com/roach88/hyperpipe/internal/store"
	"github.com/roach88/hyperpipe/internal/table"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	Database string
	Run      string
	Entity   string
	Output   string
	Stages   string
	Preview  int
}

// ShowResult is a stored run with its assembled table.
type ShowResult struct {
	Run   store.RunSummary `json:"run"`
	Table *table.Table     `json:"table"`
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a stored alignment run",
		Long: `Load a stored run (the latest one unless --run is given), rebuild its
property table and render or export it.

Example:
  hyperpipe show --db runs.db
  hyperpipe show --db runs.db --run <id> --entity main
  hyperpipe show --db runs.db -o funcs.csv`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.Run, "run", "", "run ID (default: latest run)")
	cmd.Flags().StringVar(&opts.Entity, "entity", "", "show one entity's observed stages")
	cmd.Flags().StringVarP(&opts.Output, "out", "o", "", "write the property table as CSV to this path")
	cmd.Flags().StringVar(&opts.Stages, "stages", "", "write the master stage list to this path")
	cmd.Flags().IntVar(&opts.Preview, "preview", 0, "preview this many pipeline positions (default from config)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runShow(opts *ShowOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	opts.setupLogging(cmd.ErrOrStderr())

	cfg, err := opts.Settings()
	if err != nil {
		return fail(formatter, "load config", err)
	}
	if cmd.Flags().Changed("preview") {
		cfg.Output.PreviewPositions = opts.Preview
	}

	st, err := openExistingStore(opts.Database)
	if err != nil {
		return fail(formatter, "open database", err)
	}
	defer closeStore(st)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	var run store.Run
	if opts.Run != "" {
		run, err = st.ReadRun(ctx, opts.Run)
	} else {
		run, err = st.LatestRun(ctx)
	}
	if err != nil {
		return fail(formatter, "read run", err)
	}

	tbl, err := table.Assemble(run.Pipeline, cfg.Properties)
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
	}
	if opts.Stages != "" {
		if err := writeFile(opts.Stages, func(w io.Writer) error { return table.WriteStageList(w, tbl) }); err != nil {
			return fail(formatter, "write stage list", err)
		}
	}

	summary := store.RunSummary{
		ID:       run.ID,
		Source:   run.Source,
		Digest:   run.Digest,
		Entities: len(run.Pipeline.Entities),
		Stages:   run.Pipeline.Len(),
		Seq:      run.Seq,
	}

	if opts.Entity != "" {
		id := ir.EntityID(opts.Entity)
		_, inTable := tbl.Lookup(id)
		trace, ok := run.Pipeline.Trace(id)
		if !inTable || !ok {
			return fail(formatter, "show entity", &CommandError{
				Code:    ErrCodeNotFound,
				Message: fmt.Sprintf("entity %q not in run %s", opts.Entity, run.ID),
			})
		}
		return formatter.Result(trace, func(w io.Writer) error {
			fmt.Fprintf(w, "%s: %d of %d stages observed\n\n", opts.Entity, trace.Len(), run.Pipeline.Len())
			fmt.Fprintln(w, renderTrace(trace, cfg.Properties))
			return nil
		})
	}

	return formatter.Result(ShowResult{Run: summary, Table: tbl}, func(w io.Writer) error {
		fmt.Fprintf(w, "Run %s (#%d) from %s\n", summary.ID, summary.Seq, summary.Source)
		fmt.Fprintf(w, "  entities: %d  stages: %d\n", summary.Entities, summary.Stages)
		fmt.Fprintf(w, "  digest: %s\n", summary.Digest)
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

// renderTrace lays out one entity's observed stages, one line per stage.
func renderTrace(trace ir.EntityTrace, properties []string) string {
	headers := append([]string{"#", "Stage"}, properties...)
	aligns := []table.Alignment{table.AlignRight, table.AlignLeft}
	for range properties {
		aligns = append(aligns, table.AlignRight)
	}

	rows := make([][]string, 0, trace.Len())
	for k, stage := range trace.Stages {
		line := []string{strconv.Itoa(k), string(stage)}
		for _, p := range properties {
			v, ok := trace.Snapshots[k].Get(p)
			if !ok {
				v = "-"
			}
			line = append(line, v)
		}
		rows = append(rows, line)
	}
	return table.RenderGrid(headers, rows, aligns)
}
