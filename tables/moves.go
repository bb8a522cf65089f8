package tables

import (
	"github.com/wippyai/rom-export/diag"
	"github.com/wippyai/rom-export/internal/binary"
)

const moveRecordLen = 16

// DefaultMoveLayout matches the move table; Count 0 reads to the end of the file.
var DefaultMoveLayout = Layout{Offset: 0xEEC, SkipFirst: true}

// Move is one decoded move record.
type Move struct {
	Effect           uint16
	Range            uint16
	Priority         int
	Category         uint8
	Power            uint8
	Type             uint8
	Accuracy         uint8
	PP               uint8
	SideEffectRate   uint8
	Flags            uint8
	ContestAppeal    uint8
	ContestCondition uint8
}

// DecodeMoves reads 16-byte move records.
func DecodeMoves(data []byte, layout Layout, sink *diag.Sink) (*Table, error) {
	raw := slice(data, layout.Offset)
	count := len(raw) / moveRecordLen
	if layout.Count > 0 {
		count = min(count, layout.Count)
	}

	t := &Table{Header: []string{
		"move_id", "move_effect_script_id", "category", "power", "type",
		"accuracy", "power_points", "side_effect_rate", "range", "priority",
		"contest_appeal", "contest_condition",
	}}
	c := binary.NewCursor(raw)
	for id := 0; id < count; id++ {
		m, pad, err := decodeMove(c)
		if err != nil {
			return nil, err
		}
		if layout.SkipFirst && id == 0 {
			continue
		}
		if pad[0] != 0 || pad[1] != 0 {
			sink.Warn(diag.NoTrainer, "Padding not 00 00 for move_id %d", id)
		}
		t.Rows = append(t.Rows, []string{
			itoa(id), itoa(m.Effect), itoa(m.Category), itoa(m.Power), itoa(m.Type),
			itoa(m.Accuracy), itoa(m.PP), itoa(m.SideEffectRate), itoa(m.Range), itoa(m.Priority),
			itoa(m.ContestAppeal), itoa(m.ContestCondition),
		})
	}
	return t, nil
}

func decodeMove(c *binary.Cursor) (Move, []byte, error) {
	var (
		m   Move
		err error
	)
	start := c.Position()
	if m.Effect, err = c.ReadU16LE("effect"); err != nil {
		return m, nil, err
	}
	fields := []*uint8{&m.Category, &m.Power, &m.Type, &m.Accuracy, &m.PP, &m.SideEffectRate}
	for _, dst := range fields {
		if *dst, err = c.ReadU8("move field"); err != nil {
			return m, nil, err
		}
	}
	if m.Range, err = c.ReadU16LE("range"); err != nil {
		return m, nil, err
	}
	prio, err := c.ReadU8("priority")
	if err != nil {
		return m, nil, err
	}
	// priority is signed; raw values above 10 wrap negative
	m.Priority = int(prio)
	if prio > 10 {
		m.Priority = int(prio) - 256
	}
	for _, dst := range []*uint8{&m.Flags, &m.ContestAppeal, &m.ContestCondition} {
		if *dst, err = c.ReadU8("move field"); err != nil {
			return m, nil, err
		}
	}
	pad, err := c.ReadBytes("padding", 2)
	if err != nil {
		return m, nil, err
	}
	if err := c.ExpectConsumed("move", start, moveRecordLen); err != nil {
		return m, nil, err
	}
	return m, pad, nil
}
