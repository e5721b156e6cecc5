package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version is set by build flags.
	Version = "0.1.0-dev"
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "fgh",
	Short: "fgh evaluates JQ-like filter expressions against JSON values",
	Long: `fgh compiles and runs filter expressions over JSON input, in the
style of jq: a filter maps one input value to a sequence of output values
via field access, iteration, construction, and a small set of builtins.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
`))
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print compile/eval diagnostics to stderr")
}
