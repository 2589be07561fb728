package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected *Config
		name     string
		args     []string
		wantErr  bool
	}{
		{name: "all flags", args: []string{"-a", "http://10.0.0.1:8000", "-t", "30"},
			expected: &Config{ServerURL: "http://10.0.0.1:8000", RequestTimeout: 30 * time.Second}},
		{name: "unrelated flags ignored", args: []string{"-x", "1", "-a", "http://h:1"},
			expected: &Config{ServerURL: "http://h:1", RequestTimeout: 10 * time.Second}},
		{name: "no flags keeps defaults", args: []string{},
			expected: &Config{ServerURL: "http://127.0.0.1:8000", RequestTimeout: 10 * time.Second}},
		{name: "bad timeout", args: []string{"-t", "abc"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{}
			config.LoadDefaults()

			err := parseFlags(config, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}

func TestParseFlags_TimeoutUntouchedWithoutFlag(t *testing.T) {
	config := &Config{ServerURL: "http://h", RequestTimeout: 1500 * time.Millisecond}
	require.NoError(t, parseFlags(config, nil))
	assert.Equal(t, 1500*time.Millisecond, config.RequestTimeout)
}
