package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate value",
			args:    []string{"-u", "https://x.supabase.co", "-v"},
			allowed: []string{"-u"},
			want:    []string{"-u", "https://x.supabase.co"},
		},
		{
			name:    "equals form",
			args:    []string{"-k=anon", "-u", "https://x"},
			allowed: []string{"-k"},
			want:    []string{"-k=anon"},
		},
		{
			name:    "value that looks like a flag is not consumed",
			args:    []string{"-c", "-i", "5"},
			allowed: []string{"-c", "-i"},
			want:    []string{"-c", "-i", "5"},
		},
		{
			name:    "trailing flag without value",
			args:    []string{"-d"},
			allowed: []string{"-d"},
			want:    []string{"-d"},
		},
		{
			name:    "unknown flags and positionals dropped",
			args:    []string{"top", "-x", "1", "--y=2"},
			allowed: []string{"-u"},
			want:    []string{},
		},
		{
			name:    "repeated flag keeps order",
			args:    []string{"-i", "1", "-i", "2"},
			allowed: []string{"-i"},
			want:    []string{"-i", "1", "-i", "2"},
		},
		{
			name:    "empty",
			args:    nil,
			allowed: []string{"-c"},
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestConfigPath(t *testing.T) {
	t.Run("short flag", func(t *testing.T) {
		t.Setenv(ConfigEnv, "")
		assert.Equal(t, "/etc/game.json", ConfigPath([]string{"-c", "/etc/game.json"}))
	})

	t.Run("long flag, last wins", func(t *testing.T) {
		t.Setenv(ConfigEnv, "")
		assert.Equal(t, "/b.json", ConfigPath([]string{"-c", "/a.json", "-config", "/b.json"}))
	})

	t.Run("environment fallback", func(t *testing.T) {
		t.Setenv(ConfigEnv, "/env.json")
		assert.Equal(t, "/env.json", ConfigPath([]string{"-u", "https://x"}))
	})

	t.Run("flag beats environment", func(t *testing.T) {
		t.Setenv(ConfigEnv, "/env.json")
		assert.Equal(t, "/flag.json", ConfigPath([]string{"-config=/flag.json"}))
	})

	t.Run("nothing", func(t *testing.T) {
		t.Setenv(ConfigEnv, "")
		assert.Empty(t, ConfigPath(nil))
	})
}
