package tables

import (
	"github.com/wippyai/rom-export/diag"
	"github.com/wippyai/rom-export/internal/binary"
)

const (
	evolutionSlots   = 7
	evolutionSlotLen = 6
	evolutionRecord  = evolutionSlots*evolutionSlotLen + 2
)

// DefaultEvolutionLayout matches the evolution table.
var DefaultEvolutionLayout = Layout{Offset: 0x1014, Count: 508, SkipFirst: true}

// DecodeEvolutions reads seven (method, parameter, target) slots per species.
// Empty slots are skipped, so a species yields zero to seven rows.
func DecodeEvolutions(data []byte, layout Layout, sink *diag.Sink) (*Table, error) {
	raw := slice(data, layout.Offset)
	want := layout.Count * evolutionRecord
	if len(raw) != want {
		sink.Warn(diag.NoTrainer, "Data length mismatch: expected %d bytes, got %d", want, len(raw))
	}

	t := &Table{Header: []string{"species_id", "evolution_method", "evolution_parameter", "target_species_id"}}
	c := binary.NewCursor(raw)
	count := min(layout.Count, len(raw)/evolutionRecord)
	for id := 0; id < count; id++ {
		if err := c.Seek(id * evolutionRecord); err != nil {
			return nil, err
		}
		for slot := 0; slot < evolutionSlots; slot++ {
			method, err := c.ReadU16LE("method")
			if err != nil {
				return nil, err
			}
			param, err := c.ReadU16LE("parameter")
			if err != nil {
				return nil, err
			}
			target, err := c.ReadU16LE("target")
			if err != nil {
				return nil, err
			}
			if (layout.SkipFirst && id == 0) || (method == 0 && param == 0 && target == 0) {
				continue
			}
			t.Rows = append(t.Rows, []string{itoa(id), itoa(method), itoa(param), itoa(target)})
		}
	}
	return t, nil
}
