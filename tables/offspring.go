package tables

import (
	"github.com/wippyai/rom-export/diag"
	"github.com/wippyai/rom-export/internal/binary"
)

// DefaultOffspringLayout reads the whole offspring file.
var DefaultOffspringLayout = Layout{SkipFirst: true}

// DecodeOffspring reads one u16 offspring species per species.
func DecodeOffspring(data []byte, layout Layout, sink *diag.Sink) (*Table, error) {
	raw := slice(data, layout.Offset)
	if len(raw)%2 != 0 {
		sink.Warn(diag.NoTrainer, "File size (%d bytes) is not divisible by 2. Data may be corrupted.", len(raw))
	}
	count := len(raw) / 2
	if layout.Count > 0 {
		count = min(count, layout.Count)
	}

	t := &Table{Header: []string{"species_id", "offspring_species_id"}}
	c := binary.NewCursor(raw)
	for id := 0; id < count; id++ {
		child, err := c.ReadU16LE("offspring")
		if err != nil {
			return nil, err
		}
		if layout.SkipFirst && id == 0 {
			continue
		}
		t.Rows = append(t.Rows, []string{itoa(id), itoa(child)})
	}
	if extra := len(raw) - count*2; extra > 0 {
		sink.Warn(diag.NoTrainer, "Extra %d bytes found beyond expected data range.", extra)
	}
	return t, nil
}
