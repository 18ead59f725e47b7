package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teamcutter/extractr/internal/manager"
)

type extractOutput struct {
	Source    string   `json:"source"`
	Archive   string   `json:"archive"`
	Adapter   string   `json:"adapter,omitempty"`
	OutputDir string   `json:"output_dir,omitempty"`
	Files     []string `json:"files,omitempty"`
	Error     string   `json:"error,omitempty"`
}

func newExtractCmd(flags *globalFlags) *cobra.Command {
	var outputDir string
	var sha256 string
	var asJSON bool
	var listFiles bool

	cmd := &cobra.Command{
		Use:   "extract <path|url>...",
		Short: "Extract one or more archives",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, closeFn, err := newManager(flags, outputDir)
			if err != nil {
				return err
			}
			defer closeFn()

			stop := func() {}
			if !asJSON {
				stop = withSpinner(cmd.Context(), fmt.Sprintf("Extracting %d archive(s)...", len(args)))
			}
			outcomes := mgr.Extract(cmd.Context(), args, sha256)
			stop()

			var failed int
			for _, o := range outcomes {
				if o.Err != nil {
					failed++
				}
			}

			if asJSON {
				if err := printJSON(outcomes); err != nil {
					return err
				}
			} else {
				printOutcomes(outcomes, listFiles)
			}

			if failed > 0 {
				return fmt.Errorf("failed to extract %d archive(s)", failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Directory to extract into (one subdirectory per archive)")
	cmd.Flags().StringVar(&sha256, "sha256", "", "Expected SHA256 checksum of downloaded archives")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print results as JSON")
	cmd.Flags().BoolVarP(&listFiles, "list", "l", false, "List extracted files")
	return cmd
}

func printOutcomes(outcomes []manager.Outcome, listFiles bool) {
	fmt.Println()
	for _, o := range outcomes {
		if o.Err != nil {
			fmt.Printf("%s %s: %v\n", red("✗"), o.Source, o.Err)
			continue
		}

		fmt.Printf("%s %s %s\n", green("✓"), bold(o.Source), dim("("+o.Adapter+")"))
		fmt.Printf("  %s %s\n", cyan("path:"), o.Result.Dir)
		fmt.Printf("  %s %d (%s)\n", cyan("files:"), len(o.Result.Files), resultSize(o.Result))
		if listFiles {
			for _, f := range o.Result.Files {
				fmt.Printf("    %s %s\n", dim("↳"), f)
			}
		}
		if len(o.Result.Files) == 0 {
			fmt.Printf("  %s archive was empty\n", yellow("!"))
		}
	}
}

func printJSON(outcomes []manager.Outcome) error {
	out := make([]extractOutput, 0, len(outcomes))
	for _, o := range outcomes {
		item := extractOutput{Source: o.Source, Archive: o.Archive, Adapter: o.Adapter}
		if o.Result != nil {
			item.OutputDir = o.Result.Dir
			item.Files = o.Result.Files
		}
		if o.Err != nil {
			item.Error = o.Err.Error()
		}
		out = append(out, item)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
