package narc

import (
	"fmt"

	"github.com/wippyai/rom-export/errors"
	"github.com/wippyai/rom-export/internal/binary"
)

// Container constants.
const (
	Magic          = "NARC"
	TagAllocation  = "BTAF"
	TagImage       = "GMIF"
	TagNames       = "BTNF"
	MinHeaderSize  = 16
	BlockHeaderLen = 8

	headerSizeOffset = 0x0C
	blockCountOffset = 0x0E
	// file count (u16) plus two reserved bytes precede the entries
	allocEntriesOffset = BlockHeaderLen + 4
	allocEntryLen      = 8
)

// Archive is an ordered list of member files.
type Archive struct {
	Files [][]byte
}

// Len returns the number of member files.
func (a *Archive) Len() int {
	return len(a.Files)
}

// File returns member i, or nil if i is out of range.
func (a *Archive) File(i int) []byte {
	if i < 0 || i >= len(a.Files) {
		return nil
	}
	return a.Files[i]
}

type block struct {
	offset int
	size   int
}

// Decode parses a NARC container. Member files are sub-slices of data.
func Decode(data []byte) (*Archive, error) {
	if len(data) < MinHeaderSize || string(data[:4]) != Magic {
		return nil, errors.Format("missing NARC magic")
	}

	c := binary.NewCursor(data)
	if err := c.Seek(headerSizeOffset); err != nil {
		return nil, formatCause("header", err)
	}
	headerSize, err := c.ReadU16LE("header size")
	if err != nil {
		return nil, formatCause("header", err)
	}
	blockCount, err := c.ReadU16LE("block count")
	if err != nil {
		return nil, formatCause("header", err)
	}
	if int(headerSize) < MinHeaderSize || int(headerSize) > len(data) {
		return nil, errors.New(errors.PhaseArchive, errors.KindFormat).
			Path("header").
			Value(headerSize).
			Detail("invalid NARC header size %d (buffer %d bytes)", headerSize, len(data)).
			Build()
	}

	alloc, image, err := walkBlocks(data, int(headerSize), int(blockCount))
	if err != nil {
		return nil, err
	}

	imageData := data[image.offset+BlockHeaderLen : image.offset+image.size]
	return readAllocationTable(data, alloc, imageData)
}

func walkBlocks(data []byte, start, count int) (alloc, image *block, err error) {
	c := binary.NewCursor(data)
	off := start
	for i := 0; i < count; i++ {
		if off+BlockHeaderLen > len(data) {
			return nil, nil, errors.New(errors.PhaseArchive, errors.KindFormat).
				Path(fmt.Sprintf("block %d", i)).
				Detail("truncated block header at offset 0x%X", off).
				Build()
		}
		if err := c.Seek(off); err != nil {
			return nil, nil, formatCause("block", err)
		}
		tag, err := c.ReadBytes("block tag", 4)
		if err != nil {
			return nil, nil, formatCause("block", err)
		}
		size, err := c.ReadU32LE("block size")
		if err != nil {
			return nil, nil, formatCause("block", err)
		}
		if size < BlockHeaderLen || uint64(off)+uint64(size) > uint64(len(data)) {
			return nil, nil, errors.New(errors.PhaseArchive, errors.KindFormat).
				Path(fmt.Sprintf("block %d", i), string(tag)).
				Value(size).
				Detail("invalid block size %d at offset 0x%X", size, off).
				Build()
		}

		b := &block{offset: off, size: int(size)}
		switch string(tag) {
		case TagAllocation:
			alloc = b
		case TagImage:
			image = b
		}
		off += int(size)
	}

	if alloc == nil || image == nil {
		return nil, nil, errors.Format("missing %s or %s block", TagAllocation, TagImage)
	}
	return alloc, image, nil
}

func readAllocationTable(data []byte, alloc *block, image []byte) (*Archive, error) {
	table := binary.NewCursor(data[alloc.offset : alloc.offset+alloc.size])
	if err := table.Seek(BlockHeaderLen); err != nil {
		return nil, formatCause(TagAllocation, err)
	}
	fileCount, err := table.ReadU16LE("file count")
	if err != nil {
		return nil, errors.New(errors.PhaseArchive, errors.KindFormat).
			Path(TagAllocation).Detail("allocation table truncated").Cause(err).Build()
	}
	if allocEntriesOffset+int(fileCount)*allocEntryLen > alloc.size {
		return nil, errors.New(errors.PhaseArchive, errors.KindFormat).
			Path(TagAllocation).
			Value(fileCount).
			Detail("allocation table truncated: %d entries do not fit in %d bytes", fileCount, alloc.size).
			Build()
	}
	if err := table.Seek(allocEntriesOffset); err != nil {
		return nil, formatCause(TagAllocation, err)
	}

	files := make([][]byte, fileCount)
	for idx := range files {
		start, err := table.ReadU32LE("start")
		if err != nil {
			return nil, formatCause(TagAllocation, err)
		}
		end, err := table.ReadU32LE("end")
		if err != nil {
			return nil, formatCause(TagAllocation, err)
		}
		if end < start || uint64(end) > uint64(len(image)) {
			return nil, errors.New(errors.PhaseArchive, errors.KindFormat).
				Path(TagAllocation, fmt.Sprintf("file %d", idx)).
				Value(idx).
				Detail("invalid FATB range for file %d: %d-%d (fimg_len=%d)", idx, start, end, len(image)).
				Build()
		}
		files[idx] = image[start:end:end]
	}

	return &Archive{Files: files}, nil
}

func formatCause(where string, err error) error {
	return errors.New(errors.PhaseArchive, errors.KindFormat).Path(where).Cause(err).Build()
}
