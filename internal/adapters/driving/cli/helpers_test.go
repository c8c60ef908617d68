package cli

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// execute runs the command tree with fresh flag values and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	dataDirFlag = ""
	verboseFlag = false
	settingsListJSON = false
	engineListJSON = false
	dbRevertYes = false
	pathsJSON = false

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	shutdown()
	return buf.String(), err
}

// run executes a command against dataDir and fails the test on error.
func run(t *testing.T, dataDir string, args ...string) string {
	t.Helper()
	out, err := execute(t, append([]string{"--data-dir", dataDir}, args...)...)
	if err != nil {
		t.Fatalf("enginedesk %v: %v\n%s", args, err, out)
	}
	return out
}

func newGoldie(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}
