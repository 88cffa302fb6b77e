package logging

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesToProfileLog(t *testing.T) {
	dir := t.TempDir()

	logger, err := New(dir, false)
	require.NoError(t, err)
	logger.Debug("hidden")
	logger.Info("visible")
	_ = logger.Sync()

	data, err := os.ReadFile(Path(dir))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"visible"`)
	assert.NotContains(t, string(data), "hidden")
}

func TestVerboseKeepsDebug(t *testing.T) {
	dir := t.TempDir()

	logger, err := New(dir, true)
	require.NoError(t, err)
	logger.Debug("details")
	_ = logger.Sync()

	data, err := os.ReadFile(Path(dir))
	require.NoError(t, err)
	assert.Contains(t, string(data), "details")
}
