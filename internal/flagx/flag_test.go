package flagx

import (
	"os"
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
			args:    []string{"-d", "wallet.db", "-a", "http://api"},
			allowed: []string{"-d"},
			want:    []string{"-d", "wallet.db"},
		},
		{
			name:    "equals form",
			args:    []string{"-config=alt.json", "-x", "1"},
			allowed: []string{"-c", "-config"},
			want:    []string{"-config=alt.json"},
		},
		{
			name:    "unknown flags and positionals dropped",
			args:    []string{"-x", "1", "--y=2", "positional"},
			allowed: []string{"-c"},
			want:    []string{},
		},
		{
			name:    "trailing flag without value",
			args:    []string{"-c"},
			allowed: []string{"-c"},
			want:    []string{"-c"},
		},
		{
			name:    "next token that looks like a flag is not a value",
			args:    []string{"-c", "-l", "debug"},
			allowed: []string{"-c"},
			want:    []string{"-c"},
		},
		{
			name:    "order and repeats preserved",
			args:    []string{"-s", "memory", "-c", "one.json", "-s", "sqlite"},
			allowed: []string{"-s", "-c"},
			want:    []string{"-s", "memory", "-c", "one.json", "-s", "sqlite"},
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

func TestConfigFileFlag(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	cases := map[string]struct {
		args []string
		want string
	}{
		"short":           {args: []string{"bin", "-c", "/etc/wallet.json"}, want: "/etc/wallet.json"},
		"long":            {args: []string{"bin", "-config", "/etc/wallet.json"}, want: "/etc/wallet.json"},
		"absent":          {args: []string{"bin", "-a", "http://api"}, want: ""},
		"last one wins":   {args: []string{"bin", "-c", "1.json", "-config", "2.json"}, want: "2.json"},
		"mixed with more": {args: []string{"bin", "-l", "debug", "-c=x.json"}, want: "x.json"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			os.Args = tc.args
			assert.Equal(t, tc.want, ConfigFileFlag())
		})
	}
}
