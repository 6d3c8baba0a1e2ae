package main

import (
	"flag"
	"testing"
)

func TestFlagDefaults(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"map-dir", "."},
		{"output", "map.png"},
		{"config", ""},
		{"upscale", "0"},
		{"svg", "false"},
		{"timestamp", ""},
		{"debug", "false"},
		{"probe-only", "false"},
	}
	for _, tt := range tests {
		f := flag.Lookup(tt.name)
		if f == nil {
			t.Errorf("flag -%s not registered", tt.name)
			continue
		}
		if f.DefValue != tt.want {
			t.Errorf("flag -%s default = %q, want %q", tt.name, f.DefValue, tt.want)
		}
	}
}
