package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"green2/internal/engine"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean all data from tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		_, conn, err := openConnection(ctx)
		if err != nil {
			return err
		}
		defer conn.Close()

		if err := engine.Clean(ctx, conn); err != nil {
			return err
		}
		log.Info().Msg("Database cleaned")
		fmt.Fprintln(cmd.OutOrStdout(), "✓ All tables are empty.")
		return nil
	},
}

func init() {
	RootCmd.AddCommand(cleanCmd)
}
