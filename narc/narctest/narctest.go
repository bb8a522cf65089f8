// Package narctest builds NARC containers for tests.
package narctest

import (
	"encoding/binary"
)

// Range is a raw (start, end) allocation table entry.
type Range struct {
	Start, End uint32
}

// Builder assembles a NARC image. The zero value plus Files produces a
// well-formed archive; the other fields break specific parts of it.
type Builder struct {
	Files [][]byte

	// Magic replaces the 4-byte magic when non-empty.
	Magic string
	// HeaderSize overrides the header size field when non-zero.
	HeaderSize uint16
	// BlockCount overrides the block count field when non-nil.
	BlockCount *uint16
	// Ranges replaces the computed allocation entries when non-nil.
	Ranges []Range
	// FileCount overrides the declared file count when non-nil.
	FileCount *uint16
	// OmitAllocation and OmitImage drop the BTAF or GMIF block.
	OmitAllocation bool
	OmitImage      bool
	// AlignImage pads each member to a 4-byte boundary in the image.
	AlignImage bool
}

// Build packs files into a well-formed archive.
func Build(files ...[]byte) []byte {
	return (&Builder{Files: files}).Bytes()
}

// Bytes renders the archive.
func (b *Builder) Bytes() []byte {
	var image []byte
	ranges := b.Ranges
	computed := ranges == nil
	for _, f := range b.Files {
		start := uint32(len(image))
		image = append(image, f...)
		if computed {
			ranges = append(ranges, Range{Start: start, End: uint32(len(image))})
		}
		if b.AlignImage {
			for len(image)%4 != 0 {
				image = append(image, 0xFF)
			}
		}
	}

	fileCount := uint16(len(ranges))
	if b.FileCount != nil {
		fileCount = *b.FileCount
	}

	var blocks [][]byte
	if !b.OmitAllocation {
		fat := make([]byte, 12+8*len(ranges))
		binary.LittleEndian.PutUint16(fat[8:], fileCount)
		for i, r := range ranges {
			binary.LittleEndian.PutUint32(fat[12+8*i:], r.Start)
			binary.LittleEndian.PutUint32(fat[16+8*i:], r.End)
		}
		blocks = append(blocks, tagBlock("BTAF", fat))
	}

	// minimal name table: one root directory entry
	fnt := make([]byte, 16)
	binary.LittleEndian.PutUint32(fnt[8:], 4)
	binary.LittleEndian.PutUint16(fnt[14:], 1)
	blocks = append(blocks, tagBlock("BTNF", fnt))

	if !b.OmitImage {
		blocks = append(blocks, tagBlock("GMIF", append(make([]byte, 8), image...)))
	}

	headerSize := uint16(16)
	if b.HeaderSize != 0 {
		headerSize = b.HeaderSize
	}
	blockCount := uint16(len(blocks))
	if b.BlockCount != nil {
		blockCount = *b.BlockCount
	}

	out := make([]byte, 16)
	magic := "NARC"
	if b.Magic != "" {
		magic = b.Magic
	}
	copy(out, magic)
	binary.LittleEndian.PutUint16(out[4:], 0xFFFE)
	binary.LittleEndian.PutUint16(out[6:], 0x0100)
	binary.LittleEndian.PutUint16(out[headerSizeField:], headerSize)
	binary.LittleEndian.PutUint16(out[blockCountField:], blockCount)
	for _, blk := range blocks {
		out = append(out, blk...)
	}
	binary.LittleEndian.PutUint32(out[8:], uint32(len(out)))
	return out
}

const (
	headerSizeField = 0x0C
	blockCountField = 0x0E
)

// tagBlock fills in the tag and size of a block whose first 8 bytes are reserved for them.
func tagBlock(tag string, body []byte) []byte {
	copy(body, tag)
	binary.LittleEndian.PutUint32(body[4:], uint32(len(body)))
	return body
}

// U16 returns a pointer to v, for the override fields.
func U16(v uint16) *uint16 {
	return &v
}
