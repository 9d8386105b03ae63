// Command progressctl inspects the application progress tables offline.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Stderr.WriteString(errorMsg("%v", err) + "\n")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "progressctl",
		Short:         "Inspect application progress steppers",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.AddCommand(
		domainsCmd(),
		resolveCmd(),
		transitionsCmd(),
		validateCmd(),
	)
	return root
}
