package main

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(vars map[string]string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		v, ok := vars[name]
		return v, ok
	}
}

func TestParseConfiguration(t *testing.T) {
	conf, err := parseConfiguration(nil, envOf(map[string]string{
		"FUNDPOOL_HOME":      "/var/lib/fundpool",
		"FUNDPOOL_HTTP":      "127.0.0.1:9000",
		"FUNDPOOL_LOG_LEVEL": "debug",
		"FUNDPOOL_DEBUG":     "true",
	}))
	require.NoError(t, err)
	assert.Equal(t, configuration{
		Home:            "/var/lib/fundpool",
		HTTP:            "127.0.0.1:9000",
		Genesis:         filepath.Join("/var/lib/fundpool", "genesis.json"),
		LogLevel:        "debug",
		Debug:           true,
		ShutdownTimeout: 10 * time.Second,
	}, conf)
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	conf, err := parseConfiguration(
		[]string{"-http", ":1234", "-genesis", "/tmp/g.json", "-shutdown_timeout", "3s"},
		envOf(map[string]string{
			"FUNDPOOL_HTTP":    ":9000",
			"FUNDPOOL_GENESIS": "/etc/genesis.json",
		}))
	require.NoError(t, err)
	assert.Equal(t, ":1234", conf.HTTP)
	assert.Equal(t, "/tmp/g.json", conf.Genesis)
	assert.Equal(t, 3*time.Second, conf.ShutdownTimeout)
	assert.Equal(t, "info", conf.LogLevel)
}

func TestInvalidConfiguration(t *testing.T) {
	cases := map[string]struct {
		args []string
		env  map[string]string
	}{
		"debug is not a boolean": {env: map[string]string{"FUNDPOOL_DEBUG": "maybe"}},
		"unknown log level":      {env: map[string]string{"FUNDPOOL_LOG_LEVEL": "loud"}},
		"bad timeout":            {env: map[string]string{"FUNDPOOL_SHUTDOWN_TIMEOUT": "soon"}},
		"negative timeout":       {args: []string{"-shutdown_timeout", "-1s"}},
		"unknown flag":           {args: []string{"-color"}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseConfiguration(tc.args, envOf(tc.env))
			assert.Error(t, err)
		})
	}
}
