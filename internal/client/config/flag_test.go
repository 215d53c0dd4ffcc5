package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    Config
		wantErr bool
	}{
		{
			name: "all flags",
			args: []string{"-u", "https://x.supabase.co", "-k", "anon", "-i", "5", "-d", "/tmp/game"},
			want: Config{BaseURL: "https://x.supabase.co", AnonKey: "anon", PollInterval: 5 * time.Second, DataDir: "/tmp/game"},
		},
		{
			name: "unrelated flags ignored",
			args: []string{"-x", "1", "-u", "https://y"},
			want: Config{BaseURL: "https://y", PollInterval: 2 * time.Second},
		},
		{name: "non-numeric interval", args: []string{"-i", "abc"}, wantErr: true},
		{name: "zero interval", args: []string{"-i", "0"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{PollInterval: 2 * time.Second}
			err := parseFlags(cfg, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, *cfg)
		})
	}
}
