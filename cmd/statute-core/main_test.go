package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/statute-core/internal/core/domain"
)

var bundle = filepath.Join("..", "..", "internal", "adapters", "driven", "fixture", "testdata", "arbetsmiljolag.yaml")

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version", bundle, "2010-01-01", "--now", "2024-06-01")
	require.NoError(t, err)

	var v domain.ReconstructedVersion
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, "1977:1160", v.DocumentID)

	sv, ok := v.Section(domain.SectionKey{Chapter: "4", Section: "3"})
	require.True(t, ok)
	assert.Equal(t, domain.Present("A"), sv.Text)
}

func TestVersionCommand_NotYetInForce(t *testing.T) {
	_, err := run(t, "version", bundle, "1970-01-01", "--now", "2024-06-01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not yet in force")
}

func TestDiffCommand(t *testing.T) {
	out, err := run(t, "diff", bundle, "2010-01-01", "2020-01-01", "--now", "2024-06-01", "--changed-only", "--patch")
	require.NoError(t, err)

	var r domain.DiffResult
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, domain.DiffSummary{Added: 1, Removed: 1, Modified: 1, LinesAdded: 2, LinesRemoved: 2}, r.Summary)
	require.NotEmpty(t, r.Sections)
	assert.True(t, strings.Contains(r.Sections[0].Patch, "+B"))
}

func TestCommandArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"version needs a date", []string{"version", bundle}},
		{"bad date", []string{"version", bundle, "yesterday"}},
		{"bad mode", []string{"version", bundle, "2010-01-01", "--mode", "sideways"}},
		{"missing bundle", []string{"diff", "absent.yaml", "2010-01-01", "2020-01-01"}},
		{"prewarm needs documents", []string{"prewarm"}},
		{"bad log level", []string{"--log-level", "loud", "version", bundle, "2010-01-01"}},
		{"unknown timezone", []string{"--timezone", "Mars/Olympus", "version", bundle, "2010-01-01"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(&buf, "warn", "json")
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "document_id", "1977:1160")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"document_id":"1977:1160"`)

	_, err = newLogger(&buf, "info", "xml")
	assert.Error(t, err)
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("CACHE_MAX_ENTRIES", "42")
	t.Setenv("PREWARM_CONCURRENCY", "many")

	assert.Equal(t, 42, getEnvInt("CACHE_MAX_ENTRIES", 500))
	assert.Equal(t, 4, getEnvInt("PREWARM_CONCURRENCY", 4))
	assert.Equal(t, "fallback", getEnv("STATUTE_UNSET_FOR_TEST", "fallback"))
}
