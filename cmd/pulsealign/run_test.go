package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-pulse/dsp/window"
	"github.com/cwbudde/algo-pulse/internal/testutil"
)

// writeShotFile writes a tab-separated shot with columns time, B, Vxx, I.
func writeShotFile(t *testing.T, dir, name string, length, peakAt int, peak float64) string {
	t.Helper()
	b := testutil.FieldPulse(length, peakAt, peak)

	var buf bytes.Buffer
	buf.WriteString("time\tB\tVxx\tI\n")
	for i, v := range b {
		fmt.Fprintf(&buf, "%d\t%g\t%g\t%g\n", i, v, 0.5*v+0.01, v+1)
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

func writeConfig(t *testing.T, dir string, shots ...string) string {
	t.Helper()
	doc := "shots: [" + strings.Join(shots, ", ") + "]\n" + `
channels:
  - {name: B, column: 1}
  - {name: Vxx, column: 2}
  - {name: I, column: 3}
`
	path := filepath.Join(dir, "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
	return path
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	a := writeShotFile(t, dir, "shotA.txt", 300, 100, 0.1)
	b := writeShotFile(t, dir, "shotB.txt", 250, 80, 0.08)
	cfg := writeConfig(t, dir, a, b)
	out := filepath.Join(dir, "aligned")

	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs([]string{"run", "-c", cfg, "-o", out, "--log-level", "debug"})
	require.NoError(t, root.ExecuteContext(context.Background()))

	for _, name := range []string{"shotA_rising.tsv", "shotA_falling.tsv", "shotB_rising.tsv", "shotB_falling.tsv"} {
		raw, err := os.ReadFile(filepath.Join(out, name))
		require.NoError(t, err, name)
		lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
		assert.Equal(t, "B\tVxx\tI\tRxx", lines[0], name)
		assert.Greater(t, len(lines), 2, name)
	}

	// both shots share the reference grid
	ra, err := os.ReadFile(filepath.Join(out, "shotA_rising.tsv"))
	require.NoError(t, err)
	rb, err := os.ReadFile(filepath.Join(out, "shotB_rising.tsv"))
	require.NoError(t, err)
	assert.Equal(t, strings.Count(string(ra), "\n"), strings.Count(string(rb), "\n"))

	report := stdout.String()
	assert.Contains(t, report, "shotB.txt")
	assert.Contains(t, report, "segment")
	assert.Contains(t, report, "align")
	assert.Regexp(t, `shotB\.txt\s+0\.0\d+\s+\d+\s+\d+\s+\*`, report)

	logs := stderr.String()
	assert.Contains(t, logs, "run=")
	assert.Contains(t, logs, "msg=aligned")
	assert.Contains(t, logs, "msg=loaded")
}

func TestRunCommandDuplicateBaseNames(t *testing.T) {
	dir := t.TempDir()
	for _, sub := range []string{"day1", "day2"} {
		require.NoError(t, os.Mkdir(filepath.Join(dir, sub), 0o755))
	}
	a := writeShotFile(t, filepath.Join(dir, "day1"), "shot.txt", 300, 100, 0.1)
	b := writeShotFile(t, filepath.Join(dir, "day2"), "shot.txt", 250, 80, 0.08)
	cfg := writeConfig(t, dir, a, b)
	out := filepath.Join(dir, "aligned")

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"run", "-c", cfg, "-o", out})
	require.NoError(t, root.ExecuteContext(context.Background()))

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{
		"00_shot_rising.tsv", "00_shot_falling.tsv",
		"01_shot_rising.tsv", "01_shot_falling.tsv",
	}, names)
}

func TestRunCommandErrors(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir, filepath.Join(dir, "missing.txt"))

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no config", []string{"run"}, "no configuration"},
		{"missing shot", []string{"run", "-c", cfg}, "missing.txt"},
		{"bad window", []string{"run", "-c", cfg, "--window", "kaiser"}, "window.kind"},
		{"bad log level", []string{"run", "-c", cfg, "--log-level", "loud"}, "log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := newRootCmd()
			root.SetOut(&bytes.Buffer{})
			root.SetErr(&bytes.Buffer{})
			root.SetArgs(tt.args)
			err := root.ExecuteContext(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestResolveConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, "a.txt")

	t.Setenv("PULSEALIGN_CONFIG", cfgPath)
	t.Setenv("PULSEALIGN_WINDOW_LENGTH", "0")
	t.Setenv("PULSEALIGN_DOWNSAMPLE", "3")

	v := viper.New()
	cmd := runCmd(v)
	require.NoError(t, cmd.ParseFlags([]string{"--threshold", "0.1", "--window", "bartlett"}))

	cfg, err := resolveConfig(v, []string{"x.txt", "y.txt"})
	require.NoError(t, err)

	assert.Equal(t, 0.1, *cfg.Threshold)
	assert.Equal(t, 0, *cfg.Window.Length)
	assert.Equal(t, 3, cfg.Downsample)
	assert.Equal(t, []string{"x.txt", "y.txt"}, cfg.Shots)

	pc, err := cfg.Pipeline()
	require.NoError(t, err)
	assert.Equal(t, window.Bartlett, pc.Window)
}

func TestResolveConfigFlagBeatsEnv(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, "a.txt")
	t.Setenv("PULSEALIGN_THRESHOLD", "0.2")

	v := viper.New()
	cmd := runCmd(v)
	require.NoError(t, cmd.ParseFlags([]string{"-c", cfgPath, "--threshold", "0.3"}))

	cfg, err := resolveConfig(v, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.3, *cfg.Threshold)
	assert.Equal(t, []string{"a.txt"}, cfg.Shots)
}

func TestWindowsCommand(t *testing.T) {
	var stdout bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetArgs([]string{"windows", "-n", "21", "hann", "flat"})
	require.NoError(t, root.Execute())

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[2], "hanning")
	assert.Contains(t, lines[3], "flat")
	assert.Contains(t, lines[3], "1.000000")

	stdout.Reset()
	root = newRootCmd()
	root.SetOut(&stdout)
	root.SetArgs([]string{"windows", "--length", "21", "hanning", "blackman"})
	require.NoError(t, root.Execute())
	lines = strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[2], "21")
	assert.Contains(t, lines[3], "blackman")

	root = newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"windows", "kaiser"})
	require.Error(t, root.Execute())
}

func TestWindowsCommandAll(t *testing.T) {
	var stdout bytes.Buffer
	require.NoError(t, printWindows(&stdout, window.Kinds(), 11))
	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	assert.Len(t, lines, 2+len(window.Kinds()))
}
