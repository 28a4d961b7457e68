package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigShowDefaults(t *testing.T) {
	output, err := execute(t, "config", "show")
	require.NoError(t, err)

	assert.Contains(t, output, "repo_name: spacerift")
	assert.Contains(t, output, "remote: origin")
	assert.Contains(t, output, "timeout: 30s")
	assert.Contains(t, output, "path: /")
}

func TestConfigShowMergesSources(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pagesdrop.yaml")
	require.NoError(t, os.WriteFile(path, []byte("deploy:\n  repo_name: my-site\n"), 0o600))
	t.Setenv("PAGESDROP_DEPLOY_REMOTE", "upstream")

	output, err := execute(t, "--config", path, "--dir", "/srv/site", "config", "show")
	require.NoError(t, err)

	assert.Contains(t, output, "repo_name: my-site")
	assert.Contains(t, output, "remote: upstream")
	assert.Contains(t, output, "work_dir: /srv/site")
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	output, err := execute(t, "config", "init", "--path", path)
	require.NoError(t, err)
	assert.Contains(t, output, "Config written to "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "repo_name: spacerift")

	_, err = execute(t, "config", "init", "--path", path)
	assert.Error(t, err)

	_, err = execute(t, "config", "init", "--path", path, "--force")
	assert.NoError(t, err)
}
