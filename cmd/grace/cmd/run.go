package cmd

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/blorente/gograce/internal/evaluator"
	"github.com/blorente/gograce/internal/lexer"
	"github.com/blorente/gograce/internal/parser"
)

var (
	evalExpr string
	dumpAST  bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a Grace file or expression to completion",
	Long: `Execute a Grace program from a file or inline expression.

Examples:
  # Run a script file
  grace run script.grace

  # Evaluate an inline expression
  grace run -e "1 + 2"

  # Run with AST dump (for debugging)
  grace run --dump-ast script.grace`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline code instead of reading from file")
	runCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "dump the parsed AST before evaluating")
}

func runScript(_ *cobra.Command, args []string) error {
	input, filename, err := readSource(evalExpr, args)
	if err != nil {
		return err
	}

	l := lexer.New(input)
	p := parser.New(l)
	program := p.ParseProgram()
	if len(p.Errors()) > 0 {
		for _, e := range p.Errors() {
			exitWithError("%s", e)
		}
		return fmt.Errorf("parsing %s failed with %d error(s)", filename, len(p.Errors()))
	}

	if dumpAST {
		fmt.Println("AST:")
		fmt.Println(program.String())
		fmt.Println()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	sessionID := uuid.New()
	if verbose {
		fmt.Fprintf(os.Stderr, "[session %s] running %s (max recursion %d)\n", sessionID, filename, cfg.MaxRecursionDepth)
	}

	e := evaluator.NewWithDepthLimit(nil, cfg.MaxRecursionDepth)
	result, err := e.EvaluateAST(program)
	if err != nil {
		exitWithError("%s", err)
		return fmt.Errorf("execution of %s failed: %w", filename, err)
	}

	fmt.Println(result.String())
	return nil
}

// readSource determines whether to run an inline expression (evalExpr) or
// a file path (the first positional arg), matching the teacher's
// eval-flag-or-file convention.
func readSource(evalExpr string, args []string) (input, filename string, err error) {
	if evalExpr != "" {
		return evalExpr, "<eval>", nil
	}
	if len(args) == 1 {
		filename = args[0]
		content, readErr := os.ReadFile(filename)
		if readErr != nil {
			return "", "", fmt.Errorf("failed to read file %s: %w", filename, readErr)
		}
		return string(content), filename, nil
	}
	return "", "", fmt.Errorf("either provide a file path or use -e flag for inline code")
}
