package trainer

import (
	"github.com/wippyai/rom-export/errors"
	"github.com/wippyai/rom-export/internal/binary"
)

// PropertiesSize is the fixed length of a properties record.
const PropertiesSize = 20

// MaxPartySize is the largest party a trainer may declare.
const MaxPartySize = 6

// AIFlag is a bit position in AIFlags.
type AIFlag uint8

const (
	AIBasic AIFlag = iota
	AIEvaluateAttack
	AIExpert
	AISetup
	AIRisky
	AIDamagePriority
	AIBatonPass
	AITagStrategy
	AICheckHP
	AIWeather
	AIHarassment

	aiFlagCount = 11
)

// AIFlagNames holds the CSV column name of each AI flag, indexed by bit.
var AIFlagNames = [aiFlagCount]string{
	"ai_flag_00_basic",
	"ai_flag_01_evaluate_attack",
	"ai_flag_02_expert",
	"ai_flag_03_setup",
	"ai_flag_04_risky",
	"ai_flag_05_damage_priority",
	"ai_flag_06_baton_pass",
	"ai_flag_07_tag_strategy",
	"ai_flag_08_check_hp",
	"ai_flag_09_weather",
	"ai_flag_10_harassment",
}

// AIFlags is the trainer AI capability bitfield.
type AIFlags uint32

// Has reports whether bit f is set.
func (a AIFlags) Has(f AIFlag) bool {
	return a>>f&1 != 0
}

// BattleFlags is the trainer battle-mode bitfield.
type BattleFlags uint32

const battleDoubles BattleFlags = 0x02

// Doubles reports whether the trainer fights double battles.
func (b BattleFlags) Doubles() bool {
	return b&battleDoubles != 0
}

// Properties is a decoded 20-byte properties record.
type Properties struct {
	Items       [4]uint16
	AIFlags     AIFlags
	BattleFlags BattleFlags
	PartyFlags  PartyFlags
	ClassID     uint8
	Reserved    uint8
	PartySize   uint8
}

// DecodeProperties decodes a properties record. The reserved byte is
// returned as read; DecodeTrainer reports it once the record is accepted.
func DecodeProperties(trainerID int, blob []byte) (Properties, error) {
	if len(blob) != PropertiesSize {
		return Properties{}, errors.SchemaViolation(trainerID, "properties file size %d != %d", len(blob), PropertiesSize)
	}

	var p Properties
	c := binary.NewCursor(blob)
	flags, err := c.ReadU8("party_flags")
	if err != nil {
		return Properties{}, propertiesError(trainerID, err)
	}
	p.PartyFlags = PartyFlags(flags)
	if p.ClassID, err = c.ReadU8("trainer_class"); err != nil {
		return Properties{}, propertiesError(trainerID, err)
	}
	if p.Reserved, err = c.ReadU8("unused"); err != nil {
		return Properties{}, propertiesError(trainerID, err)
	}
	if p.PartySize, err = c.ReadU8("party_size"); err != nil {
		return Properties{}, propertiesError(trainerID, err)
	}
	for i := range p.Items {
		if p.Items[i], err = c.ReadU16LE("item"); err != nil {
			return Properties{}, propertiesError(trainerID, err)
		}
	}
	ai, err := c.ReadU32LE("ai_flags")
	if err != nil {
		return Properties{}, propertiesError(trainerID, err)
	}
	p.AIFlags = AIFlags(ai)
	battle, err := c.ReadU32LE("battle_flags")
	if err != nil {
		return Properties{}, propertiesError(trainerID, err)
	}
	p.BattleFlags = BattleFlags(battle)
	if err := c.ExpectConsumed("properties", 0, PropertiesSize); err != nil {
		return Properties{}, propertiesError(trainerID, err)
	}
	return p, nil
}

func propertiesError(trainerID int, err error) error {
	return errors.New(errors.PhaseDecode, errors.KindSchemaViolation).
		Path(errors.TrainerPath(trainerID), "properties").
		Value(trainerID).
		Cause(err).
		Build()
}
