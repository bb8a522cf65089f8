package trainer

import (
	"bytes"
	"fmt"

	"github.com/wippyai/rom-export/diag"
	"github.com/wippyai/rom-export/errors"
	"github.com/wippyai/rom-export/internal/binary"
)

// SentinelID is the reserved trainer index that is validated but never exported.
const SentinelID = 0

// sentinelParty is the only party record accepted for the sentinel.
var sentinelParty = make([]byte, 8)

// Trainer is a fully decoded roster entry.
type Trainer struct {
	Members     []PartyMember
	Properties  Properties
	Schema      Schema
	ID          int
	ExpectedLen int
	ActualLen   int
	Trailing    Trailing
	Region      Region
}

// DecodeTrainer decodes one trainer from its properties and party records.
// Structural violations are returned as errors; trailing-byte anomalies go to sink.
func DecodeTrainer(id int, propBlob, partyBlob []byte, sink *diag.Sink) (*Trainer, error) {
	props, err := DecodeProperties(id, propBlob)
	if err != nil {
		return nil, err
	}
	schema, err := ResolveSchema(id, props.PartyFlags)
	if err != nil {
		return nil, err
	}
	if props.Reserved != 0 {
		sink.Warn(id, "expected unused byte 0x00 but found 0x%02X", props.Reserved)
	}

	stride := schema.Stride()
	t := &Trainer{
		ID:          id,
		Properties:  props,
		Schema:      schema,
		ExpectedLen: int(props.PartySize) * stride,
		ActualLen:   len(partyBlob),
	}

	if id == SentinelID {
		if props.PartySize != 0 {
			return nil, errors.SchemaViolation(id, "expected party_size=0 but found %d", props.PartySize)
		}
		if !bytes.Equal(partyBlob, sentinelParty) {
			return nil, errors.SchemaViolation(id, "expected 8 bytes of zeros but found %s", diag.Hex(partyBlob))
		}
		return t, nil
	}

	if props.PartySize == 0 {
		return nil, errors.SchemaViolation(id, "party_size=0 is invalid")
	}
	if props.PartySize > MaxPartySize {
		return nil, errors.SchemaViolation(id, "party_size %d outside expected range 1..%d", props.PartySize, MaxPartySize)
	}
	if t.ActualLen < t.ExpectedLen {
		return nil, errors.New(errors.PhaseDecode, errors.KindSchemaViolation).
			Path(errors.TrainerPath(id), "party").
			Value(id).
			Detail("party file too short. party_flags=0x%02X moves=%t items=%t party_size=%d per_mon=%d expected_len=%d actual_len=%d properties_20_bytes=%s party_bytes_preview=%s",
				uint8(props.PartyFlags), schema.MovesEnabled, schema.ItemsEnabled, props.PartySize,
				stride, t.ExpectedLen, t.ActualLen, diag.Hex(propBlob), diag.Preview(partyBlob, 32)).
			Build()
	}

	t.Trailing = ClassifyTrailing(sink, id, stride, t.ExpectedLen, partyBlob)
	t.Region = InspectAlignmentRegion(sink, id, t.ExpectedLen, partyBlob)

	members, err := decodeMembers(schema, int(props.PartySize), partyBlob[:t.ExpectedLen])
	if err != nil {
		return nil, errors.New(errors.PhaseDecode, errors.KindSchemaViolation).
			Path(errors.TrainerPath(id), "party").
			Value(id).
			Detail("failed to parse party payload").
			Cause(err).
			Build()
	}
	t.Members = members
	return t, nil
}

func decodeMembers(schema Schema, count int, payload []byte) ([]PartyMember, error) {
	plan := schema.Plan()
	stride := schema.Stride()
	c := binary.NewCursor(payload)

	members := make([]PartyMember, count)
	for i := range members {
		start := c.Position()
		if err := decodeMember(c, plan, &members[i]); err != nil {
			return nil, fmt.Errorf("member %d: %w", i+1, err)
		}
		if err := c.ExpectConsumed(fmt.Sprintf("member %d", i+1), start, stride); err != nil {
			return nil, err
		}
	}
	if err := c.ExpectConsumed("party", 0, len(payload)); err != nil {
		return nil, err
	}
	return members, nil
}

func decodeMember(c *binary.Cursor, plan []Field, m *PartyMember) error {
	move := 0
	for _, f := range plan {
		switch f.Width {
		case 1:
			v, err := c.ReadU8(f.Name)
			if err != nil {
				return err
			}
			switch f.Kind {
			case FieldDV:
				m.DV = v
			case FieldAttr:
				m.Attr = v
				m.Gender, m.Ability = DecodeAttr(v)
			}
		case 2:
			v, err := c.ReadU16LE(f.Name)
			if err != nil {
				return err
			}
			switch f.Kind {
			case FieldLevel:
				m.Level = v
			case FieldSpecies:
				m.Species = v
			case FieldHeldItem:
				m.HeldItem = &v
			case FieldMove:
				if m.Moves == nil {
					m.Moves = new([4]uint16)
				}
				m.Moves[move] = v
				move++
			case FieldBallSeal:
				m.BallSeal = v
			}
		default:
			return fmt.Errorf("field %s: unsupported width %d", f.Name, f.Width)
		}
	}
	return nil
}
