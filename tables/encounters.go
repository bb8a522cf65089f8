package tables

import (
	"fmt"

	"github.com/wippyai/rom-export/diag"
	"github.com/wippyai/rom-export/errors"
	"github.com/wippyai/rom-export/internal/binary"
)

// EncounterRecordLen is the stride of one encounter set.
const EncounterRecordLen = 196

// DefaultEncounterLayout matches both version encounter files.
var DefaultEncounterLayout = Layout{Offset: 0x4A4}

type encounterField struct {
	name string
	size int // 1, 2, or 0 for zero padding
}

var encounterPlan = buildEncounterPlan()

func buildEncounterPlan() []encounterField {
	var plan []encounterField
	for _, n := range []string{"walk", "surf", "rock_smash", "old_rod", "good_rod", "super_rod"} {
		plan = append(plan, encounterField{n + "_rate", 1})
	}
	plan = append(plan, encounterField{"", 2})
	for i := 1; i <= 12; i++ {
		plan = append(plan, encounterField{fmt.Sprintf("walk_slot_%02d_level", i), 1})
	}
	for i := 1; i <= 12; i++ {
		plan = append(plan, encounterField{fmt.Sprintf("walk_slot_%02d_species", i), 2})
	}
	for _, method := range []string{"surf", "old_rod", "good_rod", "super_rod"} {
		for i := 1; i <= 5; i++ {
			slot := fmt.Sprintf("%s_slot_%02d_", method, i)
			plan = append(plan,
				encounterField{slot + "min_level", 1},
				encounterField{slot + "max_level", 1},
				encounterField{slot + "species", 2},
			)
		}
	}
	for _, n := range []string{"walk_swarm", "surf_swarm", "rod_night", "rod_swarm"} {
		plan = append(plan, encounterField{n + "_species", 2})
	}
	return plan
}

// EncounterHeader returns the encounter CSV header.
func EncounterHeader() []string {
	h := []string{"encounterset_id"}
	for _, f := range encounterPlan {
		if f.name != "" {
			h = append(h, f.name)
		}
	}
	return h
}

// DecodeEncounters reads 196-byte encounter sets. source names the file in
// diagnostics. Trailing bytes short of a full set are ignored with a warning.
func DecodeEncounters(data []byte, layout Layout, source string, sink *diag.Sink) (*Table, error) {
	if len(data) < layout.Offset {
		return nil, errors.New(errors.PhaseDecode, errors.KindFormat).
			Path(source).
			Detail("File shorter than START_OFFSET: %s", source).
			Build()
	}
	raw := data[layout.Offset:]
	if extra := len(raw) % EncounterRecordLen; extra != 0 {
		sink.Warn(diag.NoTrainer, "Data length (%d) not multiple of %d in %s. Ignoring trailing %d byte(s).",
			len(raw), EncounterRecordLen, source, extra)
		raw = raw[:len(raw)-extra]
	}
	count := len(raw) / EncounterRecordLen
	if layout.Count > 0 {
		count = min(count, layout.Count)
	}

	t := &Table{Header: EncounterHeader()}
	for set := 0; set < count; set++ {
		rec := raw[set*EncounterRecordLen : (set+1)*EncounterRecordLen]
		row, err := encounterRow(set, rec, sink)
		if err != nil {
			return nil, err
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func encounterRow(set int, rec []byte, sink *diag.Sink) ([]string, error) {
	c := binary.NewCursor(rec)
	row := make([]string, 0, len(encounterPlan)+1)
	row = append(row, itoa(set))
	for _, f := range encounterPlan {
		switch {
		case f.name == "":
			pad, err := c.ReadBytes("padding", f.size)
			if err != nil {
				return nil, err
			}
			if pad[0] != 0 || pad[1] != 0 {
				sink.Warn(diag.NoTrainer, "Non-zero padding at set %d (bytes=%s).", set, diag.Hex(pad))
			}
		case f.size == 1:
			v, err := c.ReadU8(f.name)
			if err != nil {
				return nil, err
			}
			row = append(row, itoa(v))
		default:
			v, err := c.ReadU16LE(f.name)
			if err != nil {
				return nil, err
			}
			row = append(row, itoa(v))
		}
	}
	return row, nil
}
