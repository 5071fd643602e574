package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sadopc/pathlen/internal/report"
)

const helperEnvKey = "GO_WANT_PATHLEN_HELPER_PROCESS"

type cliResult struct {
	stdout   string
	stderr   string
	exitCode int
}

func TestCLIHelperProcess(t *testing.T) {
	if os.Getenv(helperEnvKey) != "1" {
		return
	}

	sep := -1
	for i, arg := range os.Args {
		if arg == "--" {
			sep = i
			break
		}
	}
	if sep == -1 {
		fmt.Fprintln(os.Stderr, "missing -- argument separator for helper process")
		os.Exit(2)
	}

	os.Args = append([]string{os.Args[0]}, os.Args[sep+1:]...)
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)

	main()
	os.Exit(0)
}

// fixtureLines lists the fixture below root "R" in traversal order.
func fixtureLines() []string {
	return []string{
		"6: " + filepath.Join("R", "keep"),
		"12: " + filepath.Join("R", "keep", "a.txt"),
		"10: " + filepath.Join("R", "keep", "sub"),
		"15: " + filepath.Join("R", "keep", "sub", "b.go"),
		"7: " + filepath.Join("R", "z.txt"),
	}
}

func TestE2E_TextOutputInTraversalOrder(t *testing.T) {
	root := createSearchFixture(t)

	result := runCLI(t, "-replace", "R", root)
	requireExit(t, result, 0)

	want := strings.Join(fixtureLines(), "\n") + "\n"
	if result.stdout != want {
		t.Fatalf("unexpected stdout:\n%s\nwant:\n%s", result.stdout, want)
	}
	if result.stderr != "" {
		t.Fatalf("expected empty stderr, got:\n%s", result.stderr)
	}
}

func TestE2E_LengthBoundsAreInclusive(t *testing.T) {
	root := createSearchFixture(t)

	result := runCLI(t, "-replace", "R", "-min", "10", "-max", "12", root)
	requireExit(t, result, 0)

	lines := fixtureLines()
	want := lines[1] + "\n" + lines[2] + "\n"
	if result.stdout != want {
		t.Fatalf("unexpected stdout:\n%s\nwant:\n%s", result.stdout, want)
	}
}

func TestE2E_SortedCSVWithoutLengths(t *testing.T) {
	root := createSearchFixture(t)

	result := runCLI(t, "-replace", "R", "-format", "csv", "-sort", "length", "-no-length", root)
	requireExit(t, result, 0)

	want := strings.Join([]string{
		`"Path"`,
		`"` + filepath.Join("R", "keep", "sub", "b.go") + `"`,
		`"` + filepath.Join("R", "keep", "a.txt") + `"`,
		`"` + filepath.Join("R", "keep", "sub") + `"`,
		`"` + filepath.Join("R", "z.txt") + `"`,
		`"` + filepath.Join("R", "keep") + `"`,
	}, "\n") + "\n"
	if result.stdout != want {
		t.Fatalf("unexpected stdout:\n%s\nwant:\n%s", result.stdout, want)
	}
}

func TestE2E_KeyValueParameters(t *testing.T) {
	root := createSearchFixture(t)

	result := runCLI(t, "RootDirectory="+root, "RootDirectoryReplacement=R", "Output=MaxLength")
	requireExit(t, result, 0)
	if result.stdout != "15\n" {
		t.Fatalf("unexpected max length output: %q", result.stdout)
	}

	result = runCLI(t, "RootDirectory="+root, "RootDirectoryReplacement=R", "SearchOption=TopDirectory", "TypesToInclude=OnlyFiles")
	requireExit(t, result, 0)
	if want := "7: " + filepath.Join("R", "z.txt") + "\n"; result.stdout != want {
		t.Fatalf("unexpected stdout: %q, want %q", result.stdout, want)
	}

	result = runCLI(t, "RootDirectory="+root, "Colour=red")
	requireExit(t, result, 1)
	if !strings.Contains(result.stderr, "unrecognized parameter") {
		t.Fatalf("unexpected stderr:\n%s", result.stderr)
	}
}

func TestE2E_SummaryOutput(t *testing.T) {
	root := createSearchFixture(t)

	result := runCLI(t, "-replace", "R", "-output", "summary", root)
	requireExit(t, result, 0)
	if want := "count: 5\nshortest: 6\nlongest: 15\n"; result.stdout != want {
		t.Fatalf("unexpected summary:\n%s", result.stdout)
	}

	result = runCLI(t, "-min", "1000", "-output", "min", root)
	requireExit(t, result, 0)
	if result.stdout != "0\n" {
		t.Fatalf("expected 0 for an empty result, got %q", result.stdout)
	}
}

func TestE2E_ConfigFileDefaults(t *testing.T) {
	root := createSearchFixture(t)
	cfgPath := filepath.Join(t.TempDir(), "pathlen.toml")
	cfg := fmt.Sprintf("root = %q\nroot_replacement = \"R\"\nmin_length = 15\n", root)
	mustWriteFile(t, cfgPath, cfg)

	result := runCLI(t, "-config", cfgPath)
	requireExit(t, result, 0)
	if want := fixtureLines()[3] + "\n"; result.stdout != want {
		t.Fatalf("unexpected stdout: %q, want %q", result.stdout, want)
	}

	mustWriteFile(t, cfgPath, "colour = \"red\"\n")
	result = runCLI(t, "-config", cfgPath, root)
	requireExit(t, result, 1)
	if !strings.Contains(result.stderr, "failed to parse config") {
		t.Fatalf("unexpected stderr:\n%s", result.stderr)
	}
}

func TestE2E_ExportImportRoundTrip(t *testing.T) {
	root := createSearchFixture(t)
	exportPath := filepath.Join(t.TempDir(), "search.json")

	result := runCLI(t, "-replace", "R", "-export", exportPath, root)
	requireExit(t, result, 0)
	if !strings.Contains(result.stdout, "Exported to "+exportPath) {
		t.Fatalf("expected export confirmation in stdout, got:\n%s", result.stdout)
	}

	imported, err := report.ImportJSON(exportPath)
	if err != nil {
		t.Fatalf("importing exported JSON failed: %v", err)
	}
	if imported.Options.RootDirectory != root || len(imported.Paths) != 5 || imported.ScanID == "" {
		t.Fatalf("unexpected imported result: %+v", imported)
	}

	result = runCLI(t, "-import", exportPath)
	requireExit(t, result, 0)
	if want := strings.Join(fixtureLines(), "\n") + "\n"; result.stdout != want {
		t.Fatalf("unexpected re-rendered output:\n%s", result.stdout)
	}

	reExportPath := filepath.Join(t.TempDir(), "again.json")
	result = runCLI(t, "-import", exportPath, "-export", reExportPath)
	requireExit(t, result, 0)
	again, err := report.ImportJSON(reExportPath)
	if err != nil {
		t.Fatalf("importing re-exported JSON failed: %v", err)
	}
	if again.ScanID != imported.ScanID || len(again.Paths) != len(imported.Paths) {
		t.Fatalf("re-export changed the result: %+v", again)
	}
}

func TestE2E_ExportToStdoutWritesJSONOnly(t *testing.T) {
	root := createSearchFixture(t)

	result := runCLI(t, "-export", "-", root)
	requireExit(t, result, 0)
	if strings.Contains(result.stdout, "Exported to") {
		t.Fatalf("expected stdout to contain only JSON, got:\n%s", result.stdout)
	}
	if strings.TrimSpace(result.stderr) != "" {
		t.Fatalf("expected empty stderr, got:\n%s", result.stderr)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(result.stdout), &doc); err != nil {
		t.Fatalf("expected valid JSON in stdout, got error: %v\nstdout:\n%s", err, result.stdout)
	}
	for _, key := range []string{"header", "search", "paths"} {
		if _, ok := doc[key]; !ok {
			t.Fatalf("missing %q in export", key)
		}
	}
}

func TestE2E_ImportFailsWhenFileMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.json")

	result := runCLI(t, "-import", missing)
	requireExit(t, result, 1)
	if !strings.Contains(result.stderr, "Error: importing:") {
		t.Fatalf("expected import error message, got:\n%s", result.stderr)
	}
}

func TestE2E_ImportRejectsSearchTargets(t *testing.T) {
	importPath := filepath.Join(t.TempDir(), "search.json")

	result := runCLI(t, "-import", importPath, "alice@10.0.0.2")
	requireExit(t, result, 1)
	if !strings.Contains(result.stderr, "-import cannot be used with search targets") {
		t.Fatalf("unexpected error message:\n%s", result.stderr)
	}
}

func TestE2E_MissingRootFails(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")

	result := runCLI(t, missing)
	requireExit(t, result, 1)
	if !strings.Contains(result.stderr, "root directory not found") {
		t.Fatalf("unexpected stderr:\n%s", result.stderr)
	}
	if result.stdout != "" {
		t.Fatalf("expected no output, got:\n%s", result.stdout)
	}
}

func TestE2E_MinGreaterThanMaxFails(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")

	// Bounds are checked before the root is looked at.
	result := runCLI(t, "-min", "5", "-max", "2", missing)
	requireExit(t, result, 1)
	if !strings.Contains(result.stderr, "can not be greater than the maximum") {
		t.Fatalf("unexpected stderr:\n%s", result.stderr)
	}
}

func TestE2E_VerboseLogsToStderr(t *testing.T) {
	root := createSearchFixture(t)

	result := runCLI(t, "-v", "-output", "max", root)
	requireExit(t, result, 0)
	if !strings.Contains(result.stderr, "search starting") || !strings.Contains(result.stderr, "matched=5") {
		t.Fatalf("expected diagnostics on stderr, got:\n%s", result.stderr)
	}
}

func TestE2E_TUIRequiresTerminal(t *testing.T) {
	root := createSearchFixture(t)

	result := runCLI(t, "-tui", root)
	requireExit(t, result, 1)
	if !strings.Contains(result.stderr, "-tui requires a terminal") {
		t.Fatalf("unexpected stderr:\n%s", result.stderr)
	}
}

func requireExit(t *testing.T, result cliResult, code int) {
	t.Helper()
	if result.exitCode != code {
		t.Fatalf("expected exit code %d, got %d\nstdout:\n%s\nstderr:\n%s", code, result.exitCode, result.stdout, result.stderr)
	}
}

func runCLI(t *testing.T, args ...string) cliResult {
	t.Helper()

	cmdArgs := append([]string{"-test.run=^TestCLIHelperProcess$", "--"}, args...)
	cmd := exec.Command(os.Args[0], cmdArgs...)
	cmd.Env = append(os.Environ(), helperEnvKey+"=1")

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := cliResult{
		stdout: stdout.String(),
		stderr: stderr.String(),
	}

	if err == nil {
		return result
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("failed to execute helper process: %v", err)
	}

	result.exitCode = exitErr.ExitCode()
	return result
}

// createSearchFixture builds:
//
//	keep/
//	keep/a.txt
//	keep/sub/
//	keep/sub/b.go
//	z.txt
func createSearchFixture(t *testing.T) string {
	t.Helper()

	root := t.TempDir()

	mustMkdirAll(t, filepath.Join(root, "keep", "sub"))
	mustWriteFile(t, filepath.Join(root, "keep", "a.txt"), "alpha")
	mustWriteFile(t, filepath.Join(root, "keep", "sub", "b.go"), "package main\n")
	mustWriteFile(t, filepath.Join(root, "z.txt"), "zulu")

	return root
}

func mustMkdirAll(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("mkdir %q: %v", path, err)
	}
}

func mustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %q: %v", path, err)
	}
}
