// Command prefillctl inspects and manages prefill configuration offline.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "prefillctl",
		Short:         "Inspect and manage form prefill configuration",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newMappingCmd())
	root.AddCommand(newAllowListCmd())
	root.AddCommand(newTokenCmd())
	root.AddCommand(newSiteCmd())
	return root
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}
