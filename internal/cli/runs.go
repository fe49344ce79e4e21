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

// RunsOptions holds flags for the runs command.
type RunsOptions struct {
	*RootOptions
	Database string
	Entity   string
}

// NewRunsCommand creates the runs command.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "runs",
		Short:         "List stored alignment runs",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuns(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.Entity, "entity", "", "only list runs that contain this entity")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runRuns(opts *RunsOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	opts.setupLogging(cmd.ErrOrStderr())

	st, err := openExistingStore(opts.Database)
	if err != nil {
		return fail(formatter, "open database", err)
	}
	defer closeStore(st)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	var runs []store.RunSummary
	if opts.Entity != "" {
		runs, err = st.RunsContaining(ctx, ir.EntityID(opts.Entity))
	} else {
		runs, err = st.ListRuns(ctx)
	}
	if err != nil {
		return fail(formatter, "list runs", &CommandError{Code: ErrCodeStoreFailed, Message: err.Error(), Err: err})
	}

	return formatter.Result(runs, func(w io.Writer) error {
		if len(runs) == 0 {
			fmt.Fprintln(w, "No runs stored")
			return nil
		}
		fmt.Fprintln(w, renderRuns(runs))
		return nil
	})
}

func renderRuns(runs []store.RunSummary) string {
	headers := []string{"Seq", "ID", "Entities", "Stages", "Digest", "Source"}
	aligns := []table.Alignment{
		table.AlignRight, table.AlignLeft, table.AlignRight,
		table.AlignRight, table.AlignLeft, table.AlignLeft,
	}
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			strconv.FormatInt(r.Seq, 10),
			r.ID,
			strconv.Itoa(r.Entities),
			strconv.Itoa(r.Stages),
			shortDigest(r.Digest),
			r.Source,
		})
	}
	return table.RenderGrid(headers, rows, aligns)
}

// shortDigest abbreviates a content digest for display.
func shortDigest(d string) string {
	if len(d) > 12 {
		return d[:12]
	}
	return d
}
