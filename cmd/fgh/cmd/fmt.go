package cmd

import (
	"fmt"

	"github.com/platformatic/fgh"
	"github.com/spf13/cobra"
)

var (
	fmtPretty bool
	fmtIndent string
)

var fmtCmd = &cobra.Command{
	Use:   "fmt <filter>",
	Short: "Parse a filter and print it back in canonical form",
	Long: `fmt parses <filter> and reprints it from the resulting AST, which
normalizes whitespace and parenthesization without changing meaning.`,
	Args: cobra.ExactArgs(1),
	RunE: runFmtCmd,
}

func init() {
	rootCmd.AddCommand(fmtCmd)
	fmtCmd.Flags().BoolVarP(&fmtPretty, "pretty", "p", false, "multi-line, indented output")
	fmtCmd.Flags().StringVar(&fmtIndent, "indent", "  ", "indent unit used with --pretty")
}

func runFmtCmd(_ *cobra.Command, args []string) error {
	node, err := fgh.Parse(args[0])
	if err != nil {
		return fmt.Errorf("parsing filter: %w", err)
	}
	fmt.Println(fgh.Format(node, fgh.WithPretty(fmtPretty), fgh.WithIndent(fmtIndent)))
	return nil
}
