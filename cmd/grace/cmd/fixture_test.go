package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// TestGraceFixtures runs `grace run` over every .grace fixture under
// testdata/fixtures and snapshots its stdout with go-snaps, the same
// golden-testing approach the teacher applies to its own .pas fixtures
// (internal/interp/fixture_test.go), adapted here to Grace source and the
// cobra-driven CLI surface rather than an in-process interpreter call.
func TestGraceFixtures(t *testing.T) {
	paths, err := filepath.Glob("../../../testdata/fixtures/*.grace")
	if err != nil || len(paths) == 0 {
		t.Fatalf("no fixtures found: %v", err)
	}

	for _, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), ".grace")
		t.Run(name, func(t *testing.T) {
			out, runErr := runCLI(t, "run", path)
			snaps.MatchSnapshot(t, name+"_stdout", out)
			if runErr != nil {
				snaps.MatchSnapshot(t, name+"_err", runErr.Error())
			}
		})
	}
}

// runCLI executes the root command with args, capturing everything written
// to the real os.Stdout (run.go prints its result with plain fmt.Println,
// not through cobra's own OutOrStdout writer) so the snapshot reflects
// exactly what a user running the compiled binary would see.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	saved := os.Stdout
	os.Stdout = w

	rootCmd.SetArgs(args)
	runErr := rootCmd.Execute()

	os.Stdout = saved
	_ = w.Close()

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String(), runErr
}
