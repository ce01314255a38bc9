package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aaronwong1989/gosmpp/codec/smpp"
	"github.com/aaronwong1989/gosmpp/comm/yml_config"
)

func TestConfigDefaults(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 10*time.Second, cfg.ResponseTimeout())
	assert.Equal(t, 30*time.Second, cfg.EnquireLinkInterval())
	assert.Equal(t, cfg.ResponseTimeout(), cfg.EnquireLinkTimeout())
	assert.Equal(t, 10, cfg.MaxInFlight)
	assert.Equal(t, smpp.DefaultMaxPduBytes, cfg.MaxPduBytes)
	assert.Equal(t, WindowBlock, cfg.WindowPolicy)
	assert.Equal(t, 5*time.Second, cfg.ConnectTimeout())
	assert.Equal(t, Transceiver, cfg.Mode())
	assert.NoError(t, cfg.Validate())

	cfg = Config{EnquireLinkIntervalMs: -1}.WithDefaults()
	assert.Equal(t, time.Duration(0), cfg.EnquireLinkInterval())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"window policy", Config{WindowPolicy: "drop"}},
		{"max pdu", Config{MaxPduBytes: 8}},
		{"submit rate", Config{SubmitRate: -1}},
		{"bind mode", Config{BindMode: "both"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.cfg.WithDefaults().Validate())
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "smppc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
host: smsc.example.com
port: 2775
system-id: user1
password: pw
bind-mode: tx
response-timeout-ms: 3000
enquire-link-interval-ms: -1
max-in-flight: 50
window-policy: fail-fast
submit-rate: 20
`), 0600))
	yc, err := yml_config.Load(path)
	require.NoError(t, err)

	cfg, err := LoadConfig(yc)
	require.NoError(t, err)
	assert.Equal(t, "smsc.example.com:2775", cfg.Addr())
	assert.Equal(t, 3*time.Second, cfg.ResponseTimeout())
	assert.Equal(t, 3*time.Second, cfg.EnquireLinkTimeout())
	assert.Equal(t, time.Duration(0), cfg.EnquireLinkInterval())
	assert.Equal(t, 50, cfg.MaxInFlight)
	assert.True(t, cfg.failFast())
	assert.Equal(t, 20.0, cfg.SubmitRate)
	assert.Equal(t, Transmitter, cfg.Mode())
	assert.Equal(t, BindParams{SystemId: "user1", Password: "pw"}, cfg.Params())

	require.NoError(t, os.WriteFile(path, []byte("window-policy: drop\n"), 0600))
	yc, err = yml_config.Load(path)
	require.NoError(t, err)
	_, err = LoadConfig(yc)
	assert.Error(t, err)
}

func TestSweepInterval(t *testing.T) {
	assert.Equal(t, time.Second, sweepInterval(30*time.Second))
	assert.Equal(t, 100*time.Millisecond, sweepInterval(10*time.Second, time.Second))
	assert.Equal(t, 10*time.Millisecond, sweepInterval(50*time.Millisecond))
}
