package trainer

// Gender is the gender selector stored in a member's attr byte.
type Gender uint8

const (
	GenderAuto Gender = iota
	GenderMale
	GenderFemale
)

func (g Gender) String() string {
	switch g {
	case GenderMale:
		return "explicit_male"
	case GenderFemale:
		return "explicit_female"
	default:
		return "auto"
	}
}

// AbilitySlot is the ability selector stored in a member's attr byte.
type AbilitySlot uint8

const (
	AbilityAuto AbilitySlot = iota
	AbilitySlot1
	AbilitySlot2
)

func (a AbilitySlot) String() string {
	switch a {
	case AbilitySlot1:
		return "explicit_1"
	case AbilitySlot2:
		return "explicit_2"
	default:
		return "auto"
	}
}

const (
	attrGenderMask  = 0x03
	attrAbilityMask = 0x30
)

// DecodeAttr splits an attr byte into gender (bits 0-1) and ability slot (bits 4-5).
// The value 3 in either field means auto.
func DecodeAttr(attr uint8) (Gender, AbilitySlot) {
	gender := GenderAuto
	switch attr & attrGenderMask {
	case 0x01:
		gender = GenderMale
	case 0x02:
		gender = GenderFemale
	}

	ability := AbilityAuto
	switch attr & attrAbilityMask {
	case 0x10:
		ability = AbilitySlot1
	case 0x20:
		ability = AbilitySlot2
	}
	return gender, ability
}

// PartyMember is one decoded party slot. HeldItem and Moves are nil when the
// trainer's schema does not store them.
type PartyMember struct {
	HeldItem *uint16
	Moves    *[4]uint16
	Level    uint16
	Species  uint16
	BallSeal uint16
	DV       uint8
	Attr     uint8
	Gender   Gender
	Ability  AbilitySlot
}
