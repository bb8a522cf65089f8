package tables

import (
	"fmt"

	"github.com/wippyai/rom-export/diag"
	"github.com/wippyai/rom-export/internal/binary"
)

const (
	personalRecordLen = 44
	machineOffset     = 28
	machineCount      = 100
)

// DefaultPersonalLayout matches the species personal data table; Count 0 reads to the end of the file.
var DefaultPersonalLayout = Layout{Offset: 0x1014, SkipFirst: true}

var personalHeader = []string{
	"species_id", "base_stat_hp", "base_stat_atk", "base_stat_def",
	"base_stat_spd", "base_stat_spatk", "base_stat_spdef",
	"type_1", "type_2", "catch_rate", "base_exp_yield",
	"ev_yield_hp", "ev_yield_atk", "ev_yield_def", "ev_yield_spd",
	"ev_yield_spatk", "ev_yield_spdef",
	"held_item_1", "held_item_2",
	"gender_ratio", "hatch_steps_rate", "base_friendship",
	"growth_rate", "egg_group_1", "egg_group_2",
	"ability_1", "ability_2", "flee_rate", "colour",
}

// EVYield is the effort value yield packed into two bits per stat.
type EVYield uint16

// Stat bit positions inside EVYield, in CSV column order.
var evYieldShifts = [6]uint{8, 10, 12, 14, 0, 2}

// Values returns hp, atk, def, spd, spatk and spdef yields.
func (e EVYield) Values() [6]uint16 {
	var out [6]uint16
	for i, shift := range evYieldShifts {
		out[i] = uint16(e>>shift) & 0x03
	}
	return out
}

// Personal holds both tables decoded from the personal data file.
type Personal struct {
	Species  *Table
	Machines *Table
}

// DecodePersonal reads 44-byte species records. Each record yields one
// personal data row and one row of 100 machine compatibility flags.
func DecodePersonal(data []byte, layout Layout, sink *diag.Sink) (*Personal, error) {
	raw := slice(data, layout.Offset)
	count := len(raw) / personalRecordLen
	if len(raw)%personalRecordLen != 0 && (layout.Count == 0 || layout.Count > count) {
		sink.Warn(diag.NoTrainer, "Incomplete data for species_id %d", count)
	}
	if layout.Count > 0 {
		if layout.Count > count {
			sink.Warn(diag.NoTrainer, "Expected %d species records but found only %d from offset 0x%X.", layout.Count, count, layout.Offset)
		}
		count = min(count, layout.Count)
	}

	machineHeader := make([]string, 0, machineCount+1)
	machineHeader = append(machineHeader, "species_id")
	for i := 1; i <= machineCount; i++ {
		machineHeader = append(machineHeader, fmt.Sprintf("machine_%03d", i))
	}
	p := &Personal{
		Species:  &Table{Header: append([]string(nil), personalHeader...)},
		Machines: &Table{Header: machineHeader},
	}

	c := binary.NewCursor(raw)
	for id := 0; id < count; id++ {
		rec, err := c.ReadBytes("species record", personalRecordLen)
		if err != nil {
			return nil, err
		}
		if layout.SkipFirst && id == 0 {
			continue
		}
		row, err := personalRow(id, rec)
		if err != nil {
			return nil, err
		}
		p.Species.Rows = append(p.Species.Rows, row)
		p.Machines.Rows = append(p.Machines.Rows, machineRow(id, rec[machineOffset:]))
	}
	return p, nil
}

func personalRow(id int, rec []byte) ([]string, error) {
	c := binary.NewCursor(rec)
	row := make([]string, 0, len(personalHeader))
	row = append(row, itoa(id))

	// base stats, types, catch rate, exp yield
	head, err := c.ReadBytes("stats", 10)
	if err != nil {
		return nil, err
	}
	for _, b := range head {
		row = append(row, itoa(b))
	}
	ev, err := c.ReadU16LE("ev_yield")
	if err != nil {
		return nil, err
	}
	for _, v := range EVYield(ev).Values() {
		row = append(row, itoa(v))
	}
	for _, field := range []string{"held_item_1", "held_item_2"} {
		item, err := c.ReadU16LE(field)
		if err != nil {
			return nil, err
		}
		row = append(row, itoa(item))
	}
	tail, err := c.ReadBytes("breeding", 10)
	if err != nil {
		return nil, err
	}
	for _, b := range tail {
		row = append(row, itoa(b))
	}
	return row, nil
}

func machineRow(id int, bits []byte) []string {
	row := make([]string, 0, machineCount+1)
	row = append(row, itoa(id))
	for i := 0; i < machineCount; i++ {
		row = append(row, itoa(int(bits[i/8]>>(i%8))&1))
	}
	return row
}
