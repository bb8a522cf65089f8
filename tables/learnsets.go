package tables

import (
	"fmt"

	"github.com/wippyai/rom-export/diag"
	"github.com/wippyai/rom-export/internal/binary"
)

// DefaultLevelUpLayout matches the level-up learnset table.
var DefaultLevelUpLayout = Layout{Offset: 0x1014, SkipFirst: true}

// DefaultEggLayout skips the container header in front of the egg move list.
var DefaultEggLayout = Layout{Offset: 0x3C}

// DefaultTutorLearnsetLayout reads the whole tutor compatibility file.
var DefaultTutorLearnsetLayout = Layout{}

const (
	// EggMoveLimit is the number of egg move columns per species.
	EggMoveLimit   = 16
	eggSpeciesBase = 20000
	eggTerminator  = 0xFFFF

	// TutorMoveCount is the number of tutorable moves.
	TutorMoveCount      = 58
	tutorLearnsetRecord = 8
)

// TutorSkippedSpecies are species ids with no tutor compatibility record (Egg and Bad Egg).
var TutorSkippedSpecies = []int{494, 495}

// DecodeLevelUpLearnsets reads variable-length per-species lists of
// (move, level) pairs. Each list ends with FF FF, optionally followed by 00 00.
func DecodeLevelUpLearnsets(data []byte, layout Layout, sink *diag.Sink) (*Table, error) {
	raw := slice(data, layout.Offset)
	t := &Table{Header: []string{"species_id", "move_id", "level"}}

	offset := 0
	for species := 0; offset < len(raw); species++ {
		if layout.Count > 0 && species >= layout.Count {
			break
		}
		entries, next := levelUpList(raw, offset)
		if next == offset {
			sink.Warn(diag.NoTrainer, "Parser did not advance at 0x%X. Aborting.", offset+layout.Offset)
			break
		}
		if !(layout.SkipFirst && species == 0) {
			for _, e := range entries {
				t.Rows = append(t.Rows, []string{itoa(species), itoa(e.move), itoa(e.level)})
			}
		}
		offset = next
	}
	return t, nil
}

type levelUpEntry struct {
	move  uint16
	level uint16
}

// levelUpList decodes one species list starting at off and returns the offset after it.
func levelUpList(raw []byte, off int) ([]levelUpEntry, int) {
	var out []levelUpEntry
	i := off
	for i+1 < len(raw) {
		lo, hi := raw[i], raw[i+1]
		if lo == 0xFF && hi == 0xFF {
			if i+3 < len(raw) && raw[i+2] == 0 && raw[i+3] == 0 {
				return out, i + 4
			}
			return out, i + 2
		}
		// bit 0 of the high byte is move bit 8; the remaining bits are the level
		out = append(out, levelUpEntry{
			move:  uint16(lo) | uint16(hi&1)<<8,
			level: uint16(hi >> 1),
		})
		i += 2
	}
	return out, i
}

// DecodeEggLearnsets reads a u16 stream where values of 20000 and above open
// a new species (value - 20000) and smaller values are its egg moves.
// The stream ends at FF FF or at the end of the data.
func DecodeEggLearnsets(data []byte, layout Layout, sink *diag.Sink) (*Table, error) {
	raw := slice(data, layout.Offset)
	header := make([]string, 0, EggMoveLimit+1)
	header = append(header, "species_id")
	for i := 1; i <= EggMoveLimit; i++ {
		header = append(header, fmt.Sprintf("egg_move_%02d", i))
	}
	t := &Table{Header: header}

	var (
		species = -1
		moves   []uint16
	)
	flush := func() {
		if species < 0 {
			return
		}
		if len(moves) > EggMoveLimit {
			sink.Warn(diag.NoTrainer, "Species %d has %d egg moves (max %d)", species, len(moves), EggMoveLimit)
		}
		row := make([]string, EggMoveLimit+1)
		row[0] = itoa(species)
		for i, mv := range moves[:min(len(moves), EggMoveLimit)] {
			row[i+1] = itoa(mv)
		}
		t.Rows = append(t.Rows, row)
	}

	c := binary.NewCursor(raw)
	for c.Remaining() >= 2 {
		v, err := c.ReadU16LE("egg entry")
		if err != nil {
			return nil, err
		}
		if v == eggTerminator {
			break
		}
		if v >= eggSpeciesBase {
			flush()
			species = int(v - eggSpeciesBase)
			moves = moves[:0]
			continue
		}
		moves = append(moves, v)
	}
	flush()
	return t, nil
}

// DecodeTutorLearnsets reads 8-byte compatibility bitfields, LSB first, one
// per species starting at species 1. Species in TutorSkippedSpecies have no
// record and are stepped over.
func DecodeTutorLearnsets(data []byte, layout Layout, sink *diag.Sink) (*Table, error) {
	raw := slice(data, layout.Offset)
	if len(raw)%tutorLearnsetRecord != 0 {
		sink.Warn(diag.NoTrainer, "File length (%d bytes) is not a multiple of %d. Possible corruption or unexpected data size.",
			len(raw), tutorLearnsetRecord)
	}
	count := len(raw) / tutorLearnsetRecord
	if layout.Count > 0 {
		count = min(count, layout.Count)
	}

	header := make([]string, 0, TutorMoveCount+1)
	header = append(header, "species_id")
	for i := 1; i <= TutorMoveCount; i++ {
		header = append(header, fmt.Sprintf("tutorable_move_%02d", i))
	}
	t := &Table{Header: header}

	c := binary.NewCursor(raw)
	species := 1
	for i := 0; i < count; i++ {
		for isTutorSkipped(species) {
			species++
		}
		bits, err := c.ReadBytes("tutor bits", tutorLearnsetRecord)
		if err != nil {
			return nil, err
		}
		row := make([]string, 0, TutorMoveCount+1)
		row = append(row, itoa(species))
		for b := 0; b < TutorMoveCount; b++ {
			row = append(row, itoa(int(bits[b/8]>>(b%8))&1))
		}
		t.Rows = append(t.Rows, row)
		species++
	}

	sink.Info(diag.NoTrainer, "Adjusted for missing Egg and Bad Egg entries (species %d-%d). Output species IDs aligned correctly.",
		TutorSkippedSpecies[0], TutorSkippedSpecies[len(TutorSkippedSpecies)-1])
	return t, nil
}

func isTutorSkipped(species int) bool {
	for _, s := range TutorSkippedSpecies {
		if s == species {
			return true
		}
	}
	return false
}
