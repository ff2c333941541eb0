package main

import (
	"fmt"

	"github.com/sandevgo/querybot/internal/service/query"
	"github.com/spf13/cobra"
)

var (
	queryPage     int
	queryPageSize int
)

var queryCmd = &cobra.Command{
	Use:   "query <description>",
	Short: "Run a query description directly, without the language model",
	Long: `Executes a query description given as extended JSON, for example:

  querybot query '{"database":"sales","collection":"orders","filter":{"status":"open"}}'`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		loadEnv(ctx)

		exec, closeData, err := newExecutor(ctx)
		if err != nil {
			return err
		}
		defer closeData()

		out := exec.ExecuteText(ctx, args[0], queryPage, queryPageSize)
		if out.Failed() {
			return out.Err
		}

		w := cmd.OutOrStdout()
		if out.Empty() {
			fmt.Fprintln(w, out.Text)
			return nil
		}
		fmt.Fprint(w, query.ToTable(query.Normalize(out.Items())).String())
		return nil
	},
}

func init() {
	queryCmd.Flags().IntVar(&queryPage, "page", 0, "zero-based page number")
	queryCmd.Flags().IntVar(&queryPageSize, "page-size", query.MaxPageSize, fmt.Sprintf("rows per page, at most %d", query.MaxPageSize))
	rootCmd.AddCommand(queryCmd)
}
