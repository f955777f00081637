package cmd

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/blorente/gograce/internal/debugger"
	"github.com/blorente/gograce/internal/evaluator"
	"github.com/blorente/gograce/internal/lexer"
	"github.com/blorente/gograce/internal/parser"
)

var debugCmd = &cobra.Command{
	Use:   "debug <file>",
	Short: "Step through a Grace file interactively",
	Long: `Run a Grace program under the interactive debugger, pausing before
each node. Supported commands:

  step (s)          execute the current node, pause before the next one
  continue (c)       run until the next breakpoint or program end
  break (b) <line>   set a breakpoint at the given source line
  inspect (i) <name> print the value of name in the current scope chain
  globals (g)        list the current scope's field names
  export (x)         print the current scope's primitive fields as JSON
  stack              print heap diagnostics
  quit (q)            stop the debug session`,
	Args: cobra.ExactArgs(1),
	RunE: runDebug,
}

func init() {
	rootCmd.AddCommand(debugCmd)
}

func runDebug(_ *cobra.Command, args []string) error {
	filename := args[0]
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	l := lexer.New(string(content))
	p := parser.New(l)
	program := p.ParseProgram()
	if len(p.Errors()) > 0 {
		for _, e := range p.Errors() {
			exitWithError("%s", e)
		}
		return fmt.Errorf("parsing %s failed with %d error(s)", filename, len(p.Errors()))
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	sessionID := uuid.New()
	fmt.Fprintf(os.Stderr, "[session %s] debugging %s\n", sessionID, filename)

	dbg := debugger.New(os.Stdin, os.Stdout)
	dbg.SetStepping(cfg.StartPaused)
	dbg.SetLocale(locale)
	for _, line := range cfg.Breakpoints {
		dbg.AddBreakpoint(line)
	}

	e := evaluator.NewWithDepthLimit(dbg, cfg.MaxRecursionDepth)
	result, err := e.EvaluateAST(program)
	if dbg.HaltError() != nil {
		fmt.Fprintln(os.Stderr, dbg.HaltError())
		return dbg.HaltError()
	}
	if err != nil {
		exitWithError("%s", err)
		return fmt.Errorf("execution of %s failed: %w", filename, err)
	}

	fmt.Println(result.String())
	return nil
}
