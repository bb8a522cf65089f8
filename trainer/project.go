package trainer

import (
	"fmt"
	"strconv"
)

const (
	slotColumns   = 11
	scalarColumns = 5 + 4 + aiFlagCount + 1
)

// ColumnCount is the width of every projected row.
const ColumnCount = scalarColumns + MaxPartySize*slotColumns

var header = buildHeader()

func buildHeader() []string {
	cols := make([]string, 0, ColumnCount)
	cols = append(cols,
		"trainer_id",
		"party_flag_explicit_moves",
		"party_flag_enable_held_items",
		"trainer_class_id",
		"party_size",
		"trainer_item_id_1",
		"trainer_item_id_2",
		"trainer_item_id_3",
		"trainer_item_id_4",
	)
	cols = append(cols, AIFlagNames[:]...)
	cols = append(cols, "battle_flag_doubles")
	for slot := 1; slot <= MaxPartySize; slot++ {
		p := fmt.Sprintf("party_member_%d_", slot)
		cols = append(cols,
			p+"dv",
			p+"ability_slot",
			p+"gender",
			p+"level",
			p+"species_id",
			p+"held_item",
			p+"explicit_move_id_1",
			p+"explicit_move_id_2",
			p+"explicit_move_id_3",
			p+"explicit_move_id_4",
			p+"ball_seal",
		)
	}
	return cols
}

// Header returns the CSV column names.
func Header() []string {
	return append([]string(nil), header...)
}

// Row projects a trainer into one CSV row of ColumnCount cells.
func Row(t *Trainer) []string {
	p := t.Properties
	row := make([]string, 0, ColumnCount)
	row = append(row,
		strconv.Itoa(t.ID),
		boolCell(t.Schema.MovesEnabled),
		boolCell(t.Schema.ItemsEnabled),
		uintCell(p.ClassID),
		uintCell(p.PartySize),
	)
	for _, item := range p.Items {
		row = append(row, uintCell(item))
	}
	for bit := AIFlag(0); bit < aiFlagCount; bit++ {
		row = append(row, boolCell(p.AIFlags.Has(bit)))
	}
	row = append(row, boolCell(p.BattleFlags.Doubles()))

	for slot := 0; slot < MaxPartySize; slot++ {
		if slot >= int(p.PartySize) || slot >= len(t.Members) {
			row = append(row, make([]string, slotColumns)...)
			continue
		}
		row = append(row, memberCells(t.Schema, &t.Members[slot])...)
	}
	return row
}

func memberCells(s Schema, m *PartyMember) []string {
	cells := make([]string, 0, slotColumns)
	cells = append(cells,
		uintCell(m.DV),
		m.Ability.String(),
		m.Gender.String(),
		uintCell(m.Level),
		uintCell(m.Species),
	)
	if s.ItemsEnabled && m.HeldItem != nil {
		cells = append(cells, uintCell(*m.HeldItem))
	} else {
		cells = append(cells, "")
	}
	if s.MovesEnabled && m.Moves != nil {
		for _, mv := range m.Moves {
			cells = append(cells, uintCell(mv))
		}
	} else {
		cells = append(cells, "", "", "", "")
	}
	return append(cells, uintCell(m.BallSeal))
}

// Project returns one row per trainer, skipping the sentinel.
func Project(trainers []*Trainer) [][]string {
	rows := make([][]string, 0, len(trainers))
	for _, t := range trainers {
		if t.ID == SentinelID {
			continue
		}
		rows = append(rows, Row(t))
	}
	return rows
}

func boolCell(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func uintCell[T uint8 | uint16](v T) string {
	return strconv.FormatUint(uint64(v), 10)
}
