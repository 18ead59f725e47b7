package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newCacheCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Show the size of downloaded archives",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, closeFn, err := newManager(flags, "")
			if err != nil {
				return err
			}
			defer closeFn()

			size, err := mgr.CacheSize()
			if err != nil {
				return err
			}

			fmt.Printf("%s %s\n", cyan("cache:"), humanize.Bytes(uint64(size)))
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove downloaded archives",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, closeFn, err := newManager(flags, "")
			if err != nil {
				return err
			}
			defer closeFn()

			size, _ := mgr.CacheSize()

			if err := mgr.ClearCache(); err != nil {
				return fmt.Errorf("failed to clear cache: %w", err)
			}

			fmt.Printf("%s Cache cleared (%s freed)\n", green("✓"), humanize.Bytes(uint64(size)))
			return nil
		},
	})

	return cmd
}
