package trainer

import (
	"encoding/binary"
)

type propSpec struct {
	flags, class, reserved, size byte
	items                        [4]uint16
	ai, battle                   uint32
}

func (p propSpec) bytes() []byte {
	b := make([]byte, PropertiesSize)
	b[0], b[1], b[2], b[3] = p.flags, p.class, p.reserved, p.size
	for i, it := range p.items {
		binary.LittleEndian.PutUint16(b[4+2*i:], it)
	}
	binary.LittleEndian.PutUint32(b[12:], p.ai)
	binary.LittleEndian.PutUint32(b[16:], p.battle)
	return b
}

type memberSpec struct {
	dv, attr                 byte
	level, species, ballSeal uint16
	heldItem                 uint16
	moves                    [4]uint16
}

// encodeParty lays members out in storage order for the given flags.
func encodeParty(flags byte, members ...memberSpec) []byte {
	var out []byte
	u16 := func(v uint16) {
		out = binary.LittleEndian.AppendUint16(out, v)
	}
	for _, m := range members {
		out = append(out, m.dv, m.attr)
		u16(m.level)
		u16(m.species)
		if flags&0x02 != 0 {
			u16(m.heldItem)
		}
		if flags&0x01 != 0 {
			for _, mv := range m.moves {
				u16(mv)
			}
		}
		u16(m.ballSeal)
	}
	return out
}

func sentinelProps() []byte {
	return propSpec{}.bytes()
}
