package cmd

import (
	"database/sql"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"green2/internal/schema"
	"green2/internal/tables"
)

var (
	queryColumns    []string
	queryConditions []string
	queryLimit      int
)

var queryCmd = &cobra.Command{
	Use:   "query <table>",
	Short: "Query the existing columns of a table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := declaredTable(args[0])
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		p, conn, err := openConnection(ctx)
		if err != nil {
			return err
		}
		defer conn.Close()

		query, err := conn.GenerateSearchQuery(ctx, table, queryColumns, queryConditions)
		if err != nil {
			return err
		}
		d, err := p.Dialect()
		if err != nil {
			return err
		}
		query = d.LimitRows(query, queryLimit)
		fmt.Fprintln(cmd.OutOrStdout(), query)

		result, err := conn.ExecQuery(ctx, query)
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), result)
	},
}

func declaredTable(name string) (schema.Table, error) {
	var names []string
	for _, t := range tables.All() {
		if strings.EqualFold(t.Name(), name) {
			return t, nil
		}
		names = append(names, t.Name())
	}
	return nil, fmt.Errorf("unknown table %q (known: %s)", name, strings.Join(names, ", "))
}

func printResult(out io.Writer, result [][]sql.NullString) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, row := range result {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = v.String
			if !v.Valid {
				cells[i] = "NULL"
			}
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	if len(result) > 0 {
		fmt.Fprintf(w, "(%d rows)\n", len(result)-1)
	}
	return w.Flush()
}

func init() {
	RootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringSliceVarP(&queryColumns, "column", "c", nil, "columns to select (default all existing ones)")
	queryCmd.Flags().StringArrayVarP(&queryConditions, "where", "w", nil, "condition joined with AND, dropped if it mentions a missing column")
	queryCmd.Flags().IntVar(&queryLimit, "limit", 0, "maximum number of rows (0 means unlimited)")
}
