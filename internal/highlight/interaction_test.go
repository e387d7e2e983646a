package highlight

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name    string
		command string
		args    map[string]any
		want    Kind
		ok      bool
	}{
		{"move", "move", map[string]any{"by": "characters"}, KindCaretMove, true},
		{"drag select", "drag_select", nil, KindDragSelect, true},
		{"move motion", "set_motion", map[string]any{"motion": "move_to"}, KindMotion, true},
		{"other motion", "set_motion", map[string]any{"motion": "expand_selection"}, 0, false},
		{"motion without args", "set_motion", nil, 0, false},
		{"non-string motion", "set_motion", map[string]any{"motion": 3}, 0, false},
		{"unrelated", "insert", map[string]any{"characters": "x"}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseCommand(tt.command, tt.args)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestKind_String(t *testing.T) {
	require.Equal(t, "caret_move", KindCaretMove.String())
	require.Equal(t, "drag_select", KindDragSelect.String())
	require.Equal(t, "motion", KindMotion.String())
	require.Equal(t, "unknown", Kind(0).String())
}
