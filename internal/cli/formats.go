package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newFormatsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List supported archive extensions",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, closeFn, err := newManager(flags, "")
			if err != nil {
				return err
			}
			defer closeFn()

			fmt.Printf("Supported formats:\n\n")
			for _, f := range mgr.Formats() {
				mark := green("●")
				status := ""
				if !f.Available {
					mark = red("○")
					status = dim("(not available)")
				}
				fmt.Printf(" %s %-10s %s %s\n", mark, "."+f.Extension, cyan(f.Identifier), status)
			}
			return nil
		},
	}
}
