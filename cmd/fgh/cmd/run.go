package cmd

import (
	"fmt"
	"os"

	"github.com/platformatic/fgh"
	"github.com/platformatic/fgh/pkg/value"
	"github.com/spf13/cobra"
)

var rawOutput bool

var runCmd = &cobra.Command{
	Use:   "run <filter> [file]",
	Short: "Compile a filter and apply it to a JSON input",
	Long: `run compiles <filter> and applies it to the JSON value read from
[file], or from standard input when no file is given. Every value the
filter produces is printed on its own line, encoded as JSON.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runFilter,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVarP(&rawOutput, "raw-output", "r", false, "print string outputs without JSON quoting")
}

func runFilter(_ *cobra.Command, args []string) error {
	source := args[0]

	in := os.Stdin
	if len(args) == 2 {
		f, err := os.Open(args[1])
		if err != nil {
			return fmt.Errorf("opening %s: %w", args[1], err)
		}
		defer f.Close()
		in = f
	}

	input, err := value.Parse(in)
	if err != nil {
		return fmt.Errorf("decoding input JSON: %w", err)
	}

	filter, err := fgh.Compile(source)
	if err != nil {
		return fmt.Errorf("compiling filter: %w", err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "compiled: %s\n", fgh.Format(filter.AST()))
	}

	out, err := filter.Apply(input)
	if err != nil {
		return fmt.Errorf("evaluating filter: %w", err)
	}

	for _, v := range out {
		if rawOutput && v.Kind() == value.KindString {
			fmt.Println(v.Str())
			continue
		}
		b, err := v.MarshalJSON()
		if err != nil {
			return fmt.Errorf("encoding output: %w", err)
		}
		fmt.Println(string(b))
	}
	return nil
}
