package cmd

import (
	"fmt"
	"time"

	"github.com/gosuri/uiprogress"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"green2/internal/engine"
)

var (
	count  int
	clean  bool
	dryRun bool
	seed   int64
)

var fillCmd = &cobra.Command{
	Use:   "fill",
	Short: "Fill the database with random members",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		_, conn, err := openConnection(ctx)
		if err != nil {
			return err
		}
		defer conn.Close()

		// Flag > Config > Default
		targetCount := viper.GetInt("settings.default_count")
		if count > 0 {
			targetCount = count
		}
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		gen := engine.NewGenerator(seed, time.Now())

		if dryRun {
			log.Info().Msg("Dry run, no data will be written")
			for i := 1; i <= min(targetCount, 10); i++ {
				m, err := gen.Member(i)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", m, m.AccountHolder.IBAN, m.Home.Place)
			}
			return nil
		}

		if clean {
			if err := engine.Clean(ctx, conn); err != nil {
				return err
			}
		}

		log.Info().Int("count", targetCount).Int64("seed", seed).Msg("Starting pump")
		start := time.Now()

		uiprogress.Start()
		bar := uiprogress.AddBar(targetCount + len(engine.Nicknames)).AppendCompleted().PrependElapsed()
		bar.PrependFunc(func(b *uiprogress.Bar) string {
			return "Processing: "
		})

		results, err := engine.Pump(ctx, conn, gen, targetCount, func() {
			bar.Incr()
		})

		uiprogress.Stop()

		if err != nil {
			return err
		}

		verifiedResults := engine.VerifyInjection(ctx, conn, results)
		elapsed := time.Since(start)

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "\n📊 Summary Report:")
		total := 0
		for i, r := range verifiedResults {
			icon := "✓"
			if r.Status != "VERIFIED_OK" {
				icon = "!"
			}
			statusDisplay := r.Status
			if statusDisplay == "VERIFIED_OK" {
				statusDisplay = "OK (Verified)"
			}

			fmt.Fprintf(out, "[%s] [%02d/%02d] %-20s : %d rows (Target: %d) - %s\n",
				icon, i+1, len(verifiedResults), r.TableName, r.Actual, r.Target, statusDisplay)
			if r.ErrorMsg != "" {
				fmt.Fprintf(out, "    └ Error: %s\n", r.ErrorMsg)
			}
			total += r.Actual
		}
		fmt.Fprintln(out, "--------------------------------------------------")
		fmt.Fprintf(out, "Total Rows: %d\n", total)
		log.Info().Dur("elapsed", elapsed).Msg("Pump done")
		return nil
	},
}

func init() {
	RootCmd.AddCommand(fillCmd)

	fillCmd.Flags().IntVar(&count, "count", 0, "number of members to generate (overrides config)")
	fillCmd.Flags().BoolVar(&clean, "clean", false, "clean tables before filling")
	fillCmd.Flags().BoolVar(&dryRun, "dry-run", false, "print some generated members without writing to the database")
	fillCmd.Flags().Int64Var(&seed, "seed", 0, "seed of the random generator (default is the current time)")

	viper.BindPFlag("settings.default_count", fillCmd.Flags().Lookup("count"))
}
