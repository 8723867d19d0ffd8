// Command webspec-lens serves spec-coverage analysis over stdio LSP, or
// runs the same analysis non-interactively against a list of files.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "webspec-lens",
		Short: "Track source comments' coverage of numbered spec algorithm steps",
		Long: `webspec-lens scans source comments that cite spec URLs and numbered
algorithm steps, matches them against the cited spec's text, and reports
which steps are implemented, missing, or have drifted from the spec.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newScanCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
