package tables

import (
	"github.com/wippyai/rom-export/diag"
	"github.com/wippyai/rom-export/errors"
	"github.com/wippyai/rom-export/internal/binary"
)

const tutorRecordLen = 4

// DefaultTutorLayout matches the tutor move block inside the field overlay.
var DefaultTutorLayout = Layout{Offset: 0x23AE0, Count: TutorMoveCount}

// DecodeTutors reads Count entries of (move u16, cost u8, tutor u8).
// A source shorter than the full block is a format error.
func DecodeTutors(data []byte, layout Layout, _ *diag.Sink) (*Table, error) {
	raw := slice(data, layout.Offset)
	want := layout.Count * tutorRecordLen
	if len(raw) < want {
		return nil, errors.New(errors.PhaseDecode, errors.KindFormat).
			Value(len(raw)).
			Detail("File too short: expected %d bytes from offset %d, got %d.", want, layout.Offset, len(raw)).
			Build()
	}

	t := &Table{Header: []string{"tutorable_move", "move_id", "tutor_cost", "tutor_id"}}
	c := binary.NewCursor(raw[:want])
	for i := 0; i < layout.Count; i++ {
		move, err := c.ReadU16LE("move_id")
		if err != nil {
			return nil, err
		}
		cost, err := c.ReadU8("tutor_cost")
		if err != nil {
			return nil, err
		}
		tutor, err := c.ReadU8("tutor_id")
		if err != nil {
			return nil, err
		}
		t.Rows = append(t.Rows, []string{itoa(i + 1), itoa(move), itoa(cost), itoa(tutor)})
	}
	return t, nil
}
