package trainer

import (
	"github.com/wippyai/rom-export/errors"
)

// PartyFlags is the first byte of a properties record.
type PartyFlags uint8

const (
	FlagExplicitMoves PartyFlags = 0x01
	FlagHeldItems     PartyFlags = 0x02

	supportedFlags = FlagExplicitMoves | FlagHeldItems
)

// Supported reports whether only known bits are set.
func (f PartyFlags) Supported() bool {
	return f&^supportedFlags == 0
}

// FieldKind identifies a party member field.
type FieldKind uint8

const (
	FieldDV FieldKind = iota
	FieldAttr
	FieldLevel
	FieldSpecies
	FieldHeldItem
	FieldMove
	FieldBallSeal
)

// Field is one entry of a member layout.
type Field struct {
	Name  string
	Kind  FieldKind
	Width int
}

var (
	headFields = []Field{
		{Name: "dv", Kind: FieldDV, Width: 1},
		{Name: "attr", Kind: FieldAttr, Width: 1},
		{Name: "level", Kind: FieldLevel, Width: 2},
		{Name: "species", Kind: FieldSpecies, Width: 2},
	}
	heldItemField = Field{Name: "held_item", Kind: FieldHeldItem, Width: 2}
	moveFields    = []Field{
		{Name: "move_1", Kind: FieldMove, Width: 2},
		{Name: "move_2", Kind: FieldMove, Width: 2},
		{Name: "move_3", Kind: FieldMove, Width: 2},
		{Name: "move_4", Kind: FieldMove, Width: 2},
	}
	ballSealField = Field{Name: "ball_seal", Kind: FieldBallSeal, Width: 2}
)

// Schema is the member layout selected by a trainer's party flags.
type Schema struct {
	MovesEnabled bool
	ItemsEnabled bool
}

// ResolveSchema maps party flags to a member layout.
func ResolveSchema(trainerID int, flags PartyFlags) (Schema, error) {
	if !flags.Supported() {
		return Schema{}, errors.SchemaViolation(trainerID, "unsupported party_flags 0x%02X", uint8(flags))
	}
	return Schema{
		MovesEnabled: flags&FlagExplicitMoves != 0,
		ItemsEnabled: flags&FlagHeldItems != 0,
	}, nil
}

// Plan returns the member fields in storage order.
func (s Schema) Plan() []Field {
	plan := make([]Field, 0, len(headFields)+1+len(moveFields)+1)
	plan = append(plan, headFields...)
	if s.ItemsEnabled {
		plan = append(plan, heldItemField)
	}
	if s.MovesEnabled {
		plan = append(plan, moveFields...)
	}
	return append(plan, ballSealField)
}

// Stride returns the byte width of one member.
func (s Schema) Stride() int {
	n := 0
	for _, f := range s.Plan() {
		n += f.Width
	}
	return n
}
