package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRender_SingleRecipient(t *testing.T) {
	out, err := execute(t, "render", "--recipient", "blue")
	if err != nil {
		t.Fatalf("render returned error: %v", err)
	}
	if !strings.Contains(out, "=== weapon attacks: blue ===") {
		t.Fatalf("expected blue header, got:\n%s", out)
	}
	if !strings.Contains(out, "delivered=8 redacted=5 failed=0") {
		t.Fatalf("expected blue counts, got:\n%s", out)
	}
	if !strings.Contains(out, "fires at ???? with ????;") {
		t.Fatalf("expected masked weapon line, got:\n%s", out)
	}
	if strings.Contains(out, "=== weapon attacks: red ===") {
		t.Fatalf("expected only blue, got:\n%s", out)
	}
}

func TestRender_AllKeepsRecipientOrder(t *testing.T) {
	out, err := execute(t, "render", "--all")
	if err != nil {
		t.Fatalf("render returned error: %v", err)
	}
	red := strings.Index(out, ": red ===")
	blue := strings.Index(out, ": blue ===")
	referee := strings.Index(out, ": referee ===")
	if red < 0 || blue < red || referee < blue {
		t.Fatalf("expected red, blue, referee in order, got indexes %d %d %d", red, blue, referee)
	}
	if !strings.Contains(out, "<hidden>resolution order 3100, 3115, 3120</hidden>") {
		t.Fatalf("expected referee debug line, got:\n%s", out)
	}
}

func TestRender_MetricsCountEveryDeliveredEntry(t *testing.T) {
	out, err := execute(t, "render", "--all", "--metrics")
	if err != nil {
		t.Fatalf("render returned error: %v", err)
	}
	if !strings.Contains(out, "metric report.resolutions=24\n") {
		t.Fatalf("expected 7+8+9 resolutions, got:\n%s", out)
	}
	if !strings.Contains(out, "metric report.resolution_errors=0\n") {
		t.Fatalf("expected no resolution errors, got:\n%s", out)
	}

	out, err = execute(t, "render", "--recipient", "red")
	if err != nil {
		t.Fatalf("render returned error: %v", err)
	}
	if strings.Contains(out, "metric ") {
		t.Fatalf("expected no metrics without --metrics, got:\n%s", out)
	}
}

func TestRender_RecipientFlagsAreExclusive(t *testing.T) {
	if _, err := execute(t, "render"); err == nil {
		t.Fatal("expected error without --recipient or --all")
	}
	if _, err := execute(t, "render", "--all", "--recipient", "red"); err == nil {
		t.Fatal("expected error with both --recipient and --all")
	}
	if _, err := execute(t, "render", "--recipient", "green"); err == nil {
		t.Fatal("expected error for unknown recipient")
	}
}

func TestRender_ScenarioAndCatalogFiles(t *testing.T) {
	dir := t.TempDir()
	cat := filepath.Join(dir, "messages.txt")
	script := filepath.Join(dir, "phase.yaml")
	writeFile(t, cat, "100::<data> took <data> damage.\n")
	writeFile(t, script, `phase: damage
recipients:
  - {id: 1, name: red}
  - {id: 2, name: blue}
sight:
  red: [10]
entries:
  - id: 100
    subject: 10
    values:
      - text: Atlas
        obscure: false
      - int: 25
`)

	out, err := execute(t, "render", "--catalog", cat, "--scenario", script, "--all")
	if err != nil {
		t.Fatalf("render returned error: %v", err)
	}
	if !strings.Contains(out, "Atlas took 25 damage.") {
		t.Fatalf("expected red full view, got:\n%s", out)
	}
	if !strings.Contains(out, "Atlas took ???? damage.") {
		t.Fatalf("expected blue redacted view, got:\n%s", out)
	}
}

func TestReplay_IgnoresLaterSpotting(t *testing.T) {
	out, err := execute(t, "replay", "--recipient", "blue", "--spot", "10")
	if err != nil {
		t.Fatalf("replay returned error: %v", err)
	}
	if !strings.Contains(out, "fires at ???? with ????;") {
		t.Fatalf("expected replay to keep the original redaction, got:\n%s", out)
	}
	if !strings.Contains(out, "delivered=8 redacted=5") {
		t.Fatalf("expected original counts, got:\n%s", out)
	}
}

func TestLint_BuiltInCatalog(t *testing.T) {
	out, err := execute(t, "lint")
	if err != nil {
		t.Fatalf("lint returned error: %v", err)
	}
	if !strings.HasPrefix(out, "OK: ") {
		t.Fatalf("expected OK line, got: %s", out)
	}
}

func TestLint_ReportsBrokenReferences(t *testing.T) {
	cat := filepath.Join(t.TempDir(), "messages.txt")
	writeFile(t, cat, "1::<msg:2,3>\n2::ok\n")

	out, err := execute(t, "lint", "--catalog", cat)
	if !errors.Is(err, errLintProblems) {
		t.Fatalf("expected errLintProblems, got %v", err)
	}
	if !strings.Contains(out, "message 1: references missing message 3") {
		t.Fatalf("expected missing reference problem, got: %s", out)
	}
}

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
