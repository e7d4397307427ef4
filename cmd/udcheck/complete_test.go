package main

import (
	"reflect"
	"testing"
)

func TestGetCompletions(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"empty", nil, nil},
		{"all commands start with a", []string{"udcheck", "a"}, []string{"analyze", "annotate"}},
		{"exact", []string{"udcheck", "transfer"}, []string{"transfer"}},
		{"hidden command", []string{"udcheck", "comp"}, []string{"compare"}},
		{"global flags", []string{"udcheck", "--log"}, []string{"--log-level", "--log-file"}},
		{"command flags", []string{"udcheck", "analyze", "--no"}, []string{"--no-nil", "--no-word-order"}},
		{"unknown command", []string{"udcheck", "foo", "--"}, nil},
		{"argument", []string{"udcheck", "analyze", "dev"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := getCompletions(tt.args)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("getCompletions(%v) = %v, want %v", tt.args, got, tt.want)
			}
		})
	}
}
