package tables

import (
	"github.com/wippyai/rom-export/diag"
	"github.com/wippyai/rom-export/internal/binary"
)

const weightRecordLen = 4

// DefaultWeightLayout matches the species weight table.
var DefaultWeightLayout = Layout{Offset: 0xB1C, Count: 494, SkipFirst: true}

// DecodeWeights reads u16 weights padded to 4 bytes per species.
func DecodeWeights(data []byte, layout Layout, sink *diag.Sink) (*Table, error) {
	raw := slice(data, layout.Offset)
	want := layout.Count * weightRecordLen
	if len(raw) > want {
		raw = raw[:want]
	}
	if len(raw) < want {
		sink.Warn(diag.NoTrainer, "Expected %d bytes but found only %d from offset 0x%X.", want, len(raw), layout.Offset)
	}

	t := &Table{Header: []string{"species_id", "weight"}}
	c := binary.NewCursor(raw)
	count := min(layout.Count, len(raw)/weightRecordLen)
	for id := 0; id < count; id++ {
		weight, err := c.ReadU16LE("weight")
		if err != nil {
			return nil, err
		}
		pad, err := c.ReadBytes("padding", 2)
		if err != nil {
			return nil, err
		}
		if pad[0] != 0 || pad[1] != 0 {
			sink.Warn(diag.NoTrainer, "Non-zero padding (%s) at species_id %d.", diag.Hex(pad), id)
		}
		if layout.SkipFirst && id == 0 {
			continue
		}
		t.Rows = append(t.Rows, []string{itoa(id), itoa(weight)})
	}
	return t, nil
}
