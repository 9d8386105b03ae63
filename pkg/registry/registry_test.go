// pkg/registry/registry_test.go
package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_ListsEveryWorker(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	for _, taskType := range []string{
		"resolve-application-progress",
		"update-application-status",
		"send-notification",
		"index-application-progress",
	} {
		a, ok := reg.Find(taskType)
		require.True(t, ok, taskType)
		assert.NotEmpty(t, a.InputSchema, taskType)
		assert.NotEmpty(t, reg.InputSchema(taskType), taskType)
	}
}

func TestFind_Unknown(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	_, ok := reg.Find("crm-user-create")
	assert.False(t, ok)
	assert.Nil(t, reg.InputSchema("crm-user-create"))
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":"2","activities":[{"id":"a","taskType":"a"}]}`), 0o600))

	reg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "2", reg.Version)
	assert.Len(t, reg.Activities, 1)
}

func TestLoad_EmptyPathUsesDefault(t *testing.T) {
	reg, err := Load("")
	require.NoError(t, err)
	assert.Len(t, reg.Activities, 5)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("{"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)
	assert.NoError(t, reg.Validate())

	assert.Error(t, (&ActivityRegistry{}).Validate())

	dup := &ActivityRegistry{Activities: []Activity{
		{ID: "a", DisplayName: "A", TaskType: "a", Category: "x"},
		{ID: "b", DisplayName: "B", TaskType: "a", Category: "x"},
	}}
	err = dup.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate task type")

	missing := &ActivityRegistry{Activities: []Activity{{ID: "a", TaskType: "a", Category: "x"}}}
	assert.ErrorContains(t, missing.Validate(), "DisplayName")
}
