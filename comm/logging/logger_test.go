package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateLoggerAsLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "smpp.log")
	logger, flush, err := CreateLoggerAsLocalFile(path, InfoLevel)
	require.NoError(t, err)

	logger.Debugf("[%-9s] hidden", "Test")
	logger.Infof("[%-9s] bind ok, seq=%d", "Test", 7)
	_ = flush()

	bts, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(bts), "bind ok, seq=7")
	assert.NotContains(t, string(bts), "hidden")
}

func TestCreateLoggerAsLocalFile_EmptyPath(t *testing.T) {
	_, _, err := CreateLoggerAsLocalFile("", InfoLevel)
	assert.Error(t, err)
}

func TestSetDefaultLogger(t *testing.T) {
	old := GetDefaultLogger()
	defer SetDefaultLoggerAndFlusher(old, nil)

	SetDefaultLoggerAndFlusher(NopLogger(), nil)
	Infof("dropped %d", 1)
	Cleanup()
	assert.NotNil(t, GetDefaultLogger())
}
