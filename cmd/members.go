package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"green2/internal/people"
	"green2/internal/tables"
)

var membersCmd = &cobra.Command{
	Use:   "members",
	Short: "List all members",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		_, conn, err := openConnection(ctx)
		if err != nil {
			return err
		}
		defer conn.Close()

		byNumber, err := tables.AllMembers(ctx, conn)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, m := range people.Members(byNumber) {
			fmt.Fprintln(out, m)
		}
		fmt.Fprintf(out, "%d members\n", len(byNumber))
		return nil
	},
}

var nicknamesCmd = &cobra.Command{
	Use:   "nicknames",
	Short: "List all nicknames",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		_, conn, err := openConnection(ctx)
		if err != nil {
			return err
		}
		defer conn.Close()

		nicknames, err := tables.AllNicknames(ctx, conn)
		if err != nil {
			return err
		}
		names := make([]string, 0, len(nicknames))
		for name := range nicknames {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", name, nicknames[name])
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(membersCmd)
	RootCmd.AddCommand(nicknamesCmd)
}
