package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tdpool/internal/grading"
)

// setupCLITestEnv points the CLI at temp directories through the TDPOOL env
// overrides so commands never touch the real home directory.
func setupCLITestEnv(t *testing.T) string {
	t.Helper()

	base := t.TempDir()
	t.Setenv("TDPOOL_CONFIG", filepath.Join(base, "missing-config.toml"))
	t.Setenv("TDPOOL_DATA_DIR", filepath.Join(base, "data"))
	t.Setenv("TDPOOL_LOG_DIR", filepath.Join(base, "logs"))
	return base
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("output %q does not contain %q", haystack, needle)
	}
}

func writeCSV(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestConfigInitWritesSample(t *testing.T) {
	base := setupCLITestEnv(t)

	target := filepath.Join(base, "config.toml")
	out, err := runCLI(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	// A second init must refuse to overwrite.
	if _, err := runCLI(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected an error on overwrite")
	}
}

func TestResolveCommandPrintsBestMatch(t *testing.T) {
	setupCLITestEnv(t)

	out, err := runCLI(t, "resolve", "Mahomes", "Patrick Mahomes", "Travis Kelce")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	requireContains(t, out, "Best match for \"Mahomes\"")
	requireContains(t, out, "Patrick Mahomes")
}

func TestBulkReviewRespectsGradingLock(t *testing.T) {
	base := setupCLITestEnv(t)

	lock, err := grading.AcquireRunLock(filepath.Join(base, "data", "grading.lock"))
	if err != nil {
		t.Fatalf("AcquireRunLock failed: %v", err)
	}
	defer lock.Release()

	if _, err := runCLI(t, "review", "approve-all"); !errors.Is(err, grading.ErrLockHeld) {
		t.Fatalf("expected ErrLockHeld, got %v", err)
	}
	if _, err := runCLI(t, "review", "revert-approved"); !errors.Is(err, grading.ErrLockHeld) {
		t.Fatalf("expected ErrLockHeld, got %v", err)
	}
}

func TestImportAndGradeEndToEnd(t *testing.T) {
	base := setupCLITestEnv(t)

	games := writeCSV(t, base, "games.csv",
		"game_id,season,week,home,away\ng1,2025,1,KC,BUF\n")
	scorers := writeCSV(t, base, "scorers.csv",
		"game_id,player,team,player_id,first\ng1,Isiah Pacheco,KC,,1\ng1,Travis Kelce,KC,,0\n")
	picks := writeCSV(t, base, "picks.csv",
		"game_id,owner,kind,player,odds,stake\ng1,sam,ftd,Pacheco,900,2\ng1,alex,atts,Justin Jefferson,300,4\n")

	for _, step := range [][]string{
		{"import", "games", games},
		{"import", "scorers", scorers},
		{"import", "picks", picks},
	} {
		out, err := runCLI(t, step...)
		if err != nil {
			t.Fatalf("%v: %v\n%s", step, err, out)
		}
		requireContains(t, out, "Imported")
	}

	out, err := runCLI(t, "grade", "week", "1", "--season", "2025")
	if err != nil {
		t.Fatalf("grade week: %v\n%s", err, out)
	}
	requireContains(t, out, "graded 1 games")

	out, err = runCLI(t, "picks", "list", "--week", "1", "--season", "2025")
	if err != nil {
		t.Fatalf("picks list: %v\n%s", err, out)
	}
	requireContains(t, out, "win")
	requireContains(t, out, "loss")
}
