package preview

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseInput(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Action
	}{
		{"wasd", "wasd", []Action{ActionUp, ActionLeft, ActionDown, ActionRight}},
		{"upper case", "WD", []Action{ActionUp, ActionRight}},
		{"arrows", "\x1b[A\x1b[B\x1b[C\x1b[D", []Action{ActionUp, ActionDown, ActionRight, ActionLeft}},
		{"mode and world", "m\t", []Action{ActionCycleMode, ActionNextWorld}},
		{"quit", "q", []Action{ActionQuit}},
		{"ctrl-c", "\x03", []Action{ActionQuit}},
		{"unknown keys ignored", "xyz", nil},
		{"truncated escape", "\x1b[", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseInput([]byte(tt.in))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseInput(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}
