package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"green2/internal/people"
	"green2/internal/sepa"
	"green2/internal/tables"
)

var (
	sepaOutput   string
	sepaSequence string
	sepaBOM      bool
)

var sepaCmd = &cobra.Command{
	Use:   "sepa",
	Short: "Create a SEPA direct debit file of all contributions",
	RunE: func(cmd *cobra.Command, args []string) error {
		seq, err := sepa.ParseSequenceType(sepaSequence)
		if err != nil {
			return err
		}
		originator, err := loadOriginator()
		if err != nil {
			return err
		}
		if err := originator.Validate(); err != nil {
			return err
		}

		ctx := cmd.Context()
		p, conn, err := openConnection(ctx)
		if err != nil {
			return err
		}
		defer conn.Close()

		byNumber, err := tables.AllMembers(ctx, conn)
		if err != nil {
			return err
		}
		var debited []*people.Member
		for _, m := range people.Members(byNumber) {
			if m.ContributionFree {
				log.Debug().Int("member", m.MembershipNumber).Msg("Skipping contribution free member")
				continue
			}
			debited = append(debited, m)
		}

		useBOM := p.SEPAWithBOM
		if cmd.Flags().Changed("bom") {
			useBOM = sepaBOM
		}
		invalid, err := sepa.CreateXMLFile(debited, originator, seq, sepaOutput, useBOM)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(invalid) > 0 {
			fmt.Fprintf(out, "[!] %d members can not be debited:\n", len(invalid))
			for _, i := range invalid {
				fmt.Fprintf(out, "    └ %s\n", i)
			}
		}
		if len(invalid) == len(debited) {
			fmt.Fprintln(out, "No SEPA file was written.")
			return nil
		}
		fmt.Fprintf(out, "[✓] %d direct debits written to %s\n", len(debited)-len(invalid), sepaOutput)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(sepaCmd)
	sepaCmd.Flags().StringVarP(&sepaOutput, "output", "o", "sepa.xml", "file to write the direct debits to")
	sepaCmd.Flags().StringVar(&sepaSequence, "sequence", string(sepa.SequenceRecurring), "sequence type (FRST, RCUR, OOFF or FNAL)")
	sepaCmd.Flags().BoolVar(&sepaBOM, "bom", false, "start the file with a byte order mark (default from profile)")
}
