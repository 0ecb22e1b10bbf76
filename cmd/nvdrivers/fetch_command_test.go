package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFetchWritesReport(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"fetch"}, env.configPath)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	requireContains(t, out, "Total unique driver entries merged: 4")
	requireContains(t, out, "Saved results to "+env.reportPath)

	data, err := os.ReadFile(env.reportPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	report := string(data)
	requireContains(t, report, "共找到 4 个版本")
	requireContains(t, report, "### 537.70 | 2023-11-07 | DCH | Studio | 台式机 & 笔记本\n")
	requireContains(t, report, "471.41-notebook-win10-win11-64bit-international-dch-whql.exe")

	if strings.Index(report, "### 546.33") > strings.Index(report, "### 471.41") {
		t.Fatal("expected newest drivers first")
	}
	if got := len(env.server.Requests()); got != 3 {
		t.Fatalf("expected 3 lookups, got %d", got)
	}
}

func TestFetchOutputFlag(t *testing.T) {
	env := setupCLITestEnv(t)
	target := filepath.Join(env.baseDir, "custom", "drivers.md")

	out, _, err := runCLI(t, []string{"fetch", "--output", target}, env.configPath)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	requireContains(t, out, "Saved results to "+target)
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected report at %s: %v", target, err)
	}
	if _, err := os.Stat(env.reportPath); !os.IsNotExist(err) {
		t.Fatalf("expected configured report path to be untouched, stat err %v", err)
	}
}

func TestFetchRecordsHistory(t *testing.T) {
	env := setupCLITestEnv(t, withHistory())

	out, _, err := runCLI(t, []string{"fetch"}, env.configPath)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	requireContains(t, out, "New versions since last run: 4")

	out, _, err = runCLI(t, []string{"fetch"}, env.configPath)
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	requireContains(t, out, "New versions since last run: 0")

	out, _, err = runCLI(t, []string{"history", "--limit", "2"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "FIRST SEEN")
	if strings.Count(out, "546.33") != 2 || strings.Contains(out, "471.41") {
		t.Fatalf("expected the two newest entries only, got:\n%s", out)
	}
}

func TestHistoryRequiresEnabled(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err == nil {
		t.Fatal("expected error when history is disabled")
	}
	requireContains(t, err.Error(), "disabled")
}

func TestListPrintsTable(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"list"}, env.configPath)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	requireContains(t, out, "VERSION")
	requireContains(t, out, "546.33")
	requireContains(t, out, "4 versions from 3 lookups (0 failed)")
	if _, err := os.Stat(env.reportPath); !os.IsNotExist(err) {
		t.Fatalf("list must not write the report, stat err %v", err)
	}
}

func TestDoctor(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"doctor"}, env.configPath)
	if err != nil {
		t.Fatalf("doctor: %v\n%s", err, out)
	}
	requireContains(t, out, "== Checks ==")
	requireContains(t, out, "[OK] reachable")
	requireContains(t, out, "GTX 1080 (psid 101, pfid 815)")
	requireContains(t, out, "[INFO] "+env.configPath+"\n")
}
