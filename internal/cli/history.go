package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/teamcutter/extractr/internal/domain"
)

func newHistoryCmd(flags *globalFlags) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past extractions",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, closeFn, err := newManager(flags, "")
			if err != nil {
				return err
			}
			defer closeFn()

			records, err := mgr.History(limit)
			if err != nil {
				return err
			}

			if len(records) == 0 {
				fmt.Printf("%s No extractions recorded\n", dim("○"))
				return nil
			}

			for _, rec := range records {
				when := dim(humanize.Time(rec.CreatedAt))
				if rec.Status == domain.StatusFailed {
					fmt.Printf("%s %s %s\n  %s\n", red("✗"), bold(rec.Archive), when, dim(rec.Error))
					continue
				}
				fmt.Printf("%s %s %s\n  %s %s (%d files)\n",
					green("✓"), bold(rec.Archive), when, cyan(rec.Adapter+":"), rec.OutputDir, rec.Files)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of entries to show (0 for all)")
	cmd.AddCommand(newHistoryClearCmd(flags))
	return cmd
}

func newHistoryClearCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Forget all recorded extractions",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, closeFn, err := newManager(flags, "")
			if err != nil {
				return err
			}
			defer closeFn()

			if err := mgr.ClearHistory(); err != nil {
				return fmt.Errorf("failed to clear history: %w", err)
			}

			fmt.Printf("%s History cleared\n", green("✓"))
			return nil
		},
	}
}
