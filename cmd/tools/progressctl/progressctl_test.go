package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"carecase-workers/internal/progress"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestDomains(t *testing.T) {
	out, err := run(t, "domains")
	require.NoError(t, err)
	assert.Contains(t, out, "cancer-treatment")
	assert.Contains(t, out, "home-visit")
	assert.Contains(t, out, "with-follow-up(5)")
}

func TestResolve_Text(t *testing.T) {
	out, err := run(t, "resolve", "--domain", "cancer-treatment", "--status", "Interview Process", "--date", "interview_date=2024-03-05")
	require.NoError(t, err)
	assert.Contains(t, out, "2 of 5")
	assert.Contains(t, out, "2. Interview Process")
	assert.Contains(t, out, "March 5, 2024")
	assert.NotContains(t, out, "not in the")
}

func TestResolve_UnknownStatusWarns(t *testing.T) {
	out, err := run(t, "resolve", "--domain", "home-visit", "--status", "Archived")
	require.NoError(t, err)
	assert.Contains(t, out, "not in the home-visit table")
	assert.Contains(t, out, "1 of 4")
}

func TestResolve_JSON(t *testing.T) {
	out, err := run(t, "resolve", "--domain", "post-treatment", "--status", "Closed", "--follow-up", "--json")
	require.NoError(t, err)

	var res progress.Resolution
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "with-follow-up", res.Variant)
	assert.Equal(t, 4, res.ActiveStep)
}

func TestResolve_UnknownDomain(t *testing.T) {
	_, err := run(t, "resolve", "--domain", "dental")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown domain")
}

func TestTransitions(t *testing.T) {
	out, err := run(t, "transitions", "--domain", "post-treatment", "--from", "Follow-up Required")
	require.NoError(t, err)
	assert.Contains(t, out, `"Follow-up Required" -> Closed`)
	assert.Contains(t, out, `-> Rejected`)

	out, err = run(t, "transitions", "--domain", "post-treatment", "--from", "Rejected")
	require.NoError(t, err)
	assert.Contains(t, out, "terminal")
}

func TestValidate(t *testing.T) {
	out, err := run(t, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "registry: 5 activities")
	assert.Contains(t, out, "individual-screening")
}

func TestValidate_BadRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"activities":[]}`), 0o600))

	out, err := run(t, "validate", "--registry", path)
	require.Error(t, err)
	assert.Contains(t, out, "registry contains no activities")
}
