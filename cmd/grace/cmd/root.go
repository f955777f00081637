package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/blorente/gograce/internal/config"
)

var (
	// Version information (set by build flags).
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	verbose    bool
	configPath string
	envPath    string
	configJSON string
	locale     string
)

var rootCmd = &cobra.Command{
	Use:   "grace",
	Short: "Grace interpreter and debugger",
	Long: `grace runs programs written in a small object-oriented expression
language in the Grace family: everything is an object with fields and
methods, method requests dispatch against a receiver, and blocks are
first-class closures over the scope they were declared in.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", ".gracerc.yaml", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&envPath, "env-file", "", "optional .env file to load GRACE_* variables from")
	rootCmd.PersistentFlags().StringVar(&configJSON, "config-json", "", "inline JSON config overrides, e.g. '{\"max_recursion_depth\":200}'")
	rootCmd.PersistentFlags().StringVar(&locale, "locale", "", "locale for the debugger's globals sort order, e.g. \"en\"")
}

// loadConfig runs the full cascade documented for this CLI: YAML file,
// then .env-sourced environment variables, then inline --config-json,
// each layer overriding the one before it.
func loadConfig() (config.EvaluatorConfig, error) {
	cfg, err := config.LoadFile(configPath, config.DefaultConfig())
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}
	cfg = config.LoadEnv(envPath, cfg)
	cfg = config.LoadJSONOverride(configJSON, cfg)
	return cfg, nil
}

// colorEnabled reports whether diagnostic output should be colorized:
// only when stderr is an actual terminal, so piped/redirected output stays
// plain.
func colorEnabled() bool {
	return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
}

func errorColor() *color.Color {
	return color.New(color.FgRed, color.Bold)
}

func exitWithError(msg string, args ...any) {
	if colorEnabled() {
		errorColor().Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
		return
	}
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
}
