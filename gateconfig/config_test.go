package gateconfig

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefault(t *testing.T) {
	cfg := NewDefault()
	assert.Equal(t, "aws", cfg.Partition)
	assert.Equal(t, "prod", cfg.StageName)
	assert.True(t, cfg.DeployOnAttach)
}

func TestValidateAndSetDefaults(t *testing.T) {
	cfg := NewDefault()
	cfg.ConfigPath = filepath.Join(t.TempDir(), "config.yaml")

	err := cfg.ValidateAndSetDefaults()
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "RestAPIID"))

	cfg.RestAPIID = "api-123"
	require.NoError(t, cfg.ValidateAndSetDefaults())
	assert.False(t, cfg.UpdatedAt.IsZero())

	cfg.StageName = ""
	assert.Error(t, cfg.ValidateAndSetDefaults())
	cfg.DeployOnAttach = false
	assert.NoError(t, cfg.ValidateAndSetDefaults())
}

func TestLoadSync(t *testing.T) {
	cfg := NewDefault()
	cfg.ConfigPath = filepath.Join(t.TempDir(), "config.yaml")
	cfg.RestAPIID = "api-123"
	cfg.AllowedOrgIDs = "o-aaaa1111,o-bbbb2222"
	require.NoError(t, cfg.ValidateAndSetDefaults())

	loaded, err := Load(cfg.ConfigPath)
	require.NoError(t, err)
	assert.Equal(t, cfg.RestAPIID, loaded.RestAPIID)
	assert.Equal(t, cfg.AllowedOrgIDs, loaded.AllowedOrgIDs)
	assert.Equal(t, cfg.StageName, loaded.StageName)
	assert.Equal(t, cfg.ConfigPath, loaded.ConfigPath)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	assert.Error(t, err)
}

func TestAPIARN(t *testing.T) {
	cfg := NewDefault()
	cfg.Region = "eu-west-1"
	cfg.RestAPIID = "api-123"
	cfg.AWSAccountID = "111111111111"
	assert.Equal(t, "arn:aws:execute-api:eu-west-1:111111111111:api-123/*", cfg.APIARN())
}

func TestColorize(t *testing.T) {
	cfg := NewDefault()
	cfg.LogColor = false
	assert.Equal(t, "hello", cfg.Colorize("[light_green]hello"))
}
