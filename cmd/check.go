package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"green2/internal/schema"
)

var assumeYes bool

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Create missing tables and report missing columns",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		_, conn, err := openConnection(ctx)
		if err != nil {
			return err
		}
		defer conn.Close()

		out := cmd.OutOrStdout()
		in := bufio.NewReader(cmd.InOrStdin())
		ok, err := conn.CreateTablesIfNeeded(ctx, func(missing []schema.Table) bool {
			return assumeYes || confirm(in, out, missing)
		})
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Some tables are still missing.")
		}

		missing, err := conn.MissingColumns(ctx)
		if err != nil {
			return err
		}
		if missing == nil {
			fmt.Fprintln(out, "✓ All required columns exist.")
			return nil
		}
		fmt.Fprintf(out, "Missing required columns:\n%s\n", missing)
		return nil
	},
}

func confirm(in *bufio.Reader, out io.Writer, missing []schema.Table) bool {
	names := make([]string, len(missing))
	for i, t := range missing {
		names[i] = t.Name()
	}
	fmt.Fprintf(out, "Create the missing tables %s? [y/N] ", strings.Join(names, ", "))
	answer, err := in.ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes", "j", "ja":
		return true
	}
	return false
}

func init() {
	RootCmd.AddCommand(checkCmd)
	checkCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "create missing tables without asking")
}
