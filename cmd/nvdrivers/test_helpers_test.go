package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"nvdrivers/internal/nvidia"
	"nvdrivers/internal/testsupport"
)

type cliTestEnv struct {
	server     *testsupport.LookupServer
	configPath string
	reportPath string
	historyDir string
	baseDir    string
}

type envOption func(*envSettings)

type envSettings struct {
	history bool
}

func withHistory() envOption {
	return func(s *envSettings) { s.history = true }
}

func setupCLITestEnv(t *testing.T, opts ...envOption) *cliTestEnv {
	t.Helper()

	settings := envSettings{}
	for _, opt := range opts {
		opt(&settings)
	}

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("NVDRIVERS_OUTPUT", "")
	t.Setenv("NVDRIVERS_LANGUAGE", "")
	chdir(t, base)

	srv := testsupport.NewLookupServer(t, map[string]nvidia.LookupResponse{
		testsupport.LookupKey(true, false): testsupport.Response(
			testsupport.Driver("546.33", "2023-12-12", "https://dl.example/546.33/546.33-desktop-win10-win11-64bit-international-dch-whql.exe"),
			testsupport.Driver("471.41", "2021-07-19", "https://dl.example/471.41/471.41-desktop-win10-win11-64bit-international-dch-whql.exe"),
		),
		testsupport.LookupKey(false, false): testsupport.Response(
			testsupport.Driver("546.33", "2023-12-12", "https://dl.example/546.33/546.33-desktop-win10-win11-64bit-international-whql.exe"),
		),
		testsupport.LookupKey(true, true): testsupport.Response(
			testsupport.Driver("537.70", "2023-11-07", "https://dl.example/537.70/537.70-desktop-win10-win11-64bit-international-nsd-dch-whql.exe"),
		),
	})

	env := &cliTestEnv{
		server:     srv,
		configPath: filepath.Join(homeDir, ".config", "nvdrivers", "config.toml"),
		reportPath: filepath.Join(base, "out", "README.md"),
		historyDir: filepath.Join(base, "state"),
		baseDir:    base,
	}
	writeTestConfig(t, env, settings)
	return env
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, env *cliTestEnv, settings envSettings) {
	t.Helper()
	content := fmt.Sprintf(
		"[api]\nbase_url = %q\ntimeout_seconds = 5\n\n[report]\npath = %q\n\n[history]\nenabled = %t\npath = %q\n\n[logging]\nlevel = \"warn\"\n",
		env.server.URL,
		env.reportPath,
		settings.history,
		filepath.Join(env.historyDir, "history.db"),
	)
	if err := os.MkdirAll(filepath.Dir(env.configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
