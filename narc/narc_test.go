package narc_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"strings"
	"testing"

	rerrors "github.com/wippyai/rom-export/errors"
	"github.com/wippyai/rom-export/narc"
	"github.com/wippyai/rom-export/narc/narctest"
)

func TestDecodeFiles(t *testing.T) {
	files := [][]byte{
		{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
		{0x01, 0x02, 0x03},
		{},
		bytes.Repeat([]byte{0xAB}, 40),
	}

	archive, err := narc.Decode(narctest.Build(files...))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if archive.Len() != len(files) {
		t.Fatalf("Len = %d, want %d", archive.Len(), len(files))
	}
	for i, want := range files {
		if !bytes.Equal(archive.File(i), want) {
			t.Errorf("file %d = %X, want %X", i, archive.File(i), want)
		}
	}
	if archive.File(-1) != nil || archive.File(len(files)) != nil {
		t.Error("out of range File should return nil")
	}
}

func TestDecodeCountMatchesAllocationTable(t *testing.T) {
	for _, n := range []int{0, 1, 2, 17, 300} {
		files := make([][]byte, n)
		for i := range files {
			files[i] = bytes.Repeat([]byte{byte(i)}, i%7)
		}
		b := &narctest.Builder{Files: files, AlignImage: true}
		archive, err := narc.Decode(b.Bytes())
		if err != nil {
			t.Fatalf("n=%d: Decode: %v", n, err)
		}
		if archive.Len() != n {
			t.Errorf("n=%d: Len = %d", n, archive.Len())
		}
		for i := range files {
			if !bytes.Equal(archive.File(i), files[i]) {
				t.Errorf("n=%d file %d mismatch", n, i)
			}
		}
	}
}

func TestDecodeOverlappingRanges(t *testing.T) {
	b := &narctest.Builder{
		Files:  [][]byte{{1, 2, 3, 4}},
		Ranges: []narctest.Range{{Start: 0, End: 4}, {Start: 2, End: 4}, {Start: 4, End: 4}},
	}
	archive, err := narc.Decode(b.Bytes())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(archive.File(1), []byte{3, 4}) {
		t.Errorf("file 1 = %v", archive.File(1))
	}
	if len(archive.File(2)) != 0 {
		t.Errorf("file 2 should be empty")
	}
}

func TestDecodeFormatErrors(t *testing.T) {
	valid := narctest.Build([]byte{1, 2})

	truncatedBlock := append([]byte(nil), valid...)
	binary.LittleEndian.PutUint16(truncatedBlock[0x0E:], 9)

	oversizeBlock := append([]byte(nil), valid...)
	binary.LittleEndian.PutUint32(oversizeBlock[16+4:], 0xFFFFFFF0)

	undersizeBlock := append([]byte(nil), valid...)
	binary.LittleEndian.PutUint32(undersizeBlock[16+4:], 4)

	tests := []struct {
		name    string
		data    []byte
		message string
	}{
		{"empty", nil, "missing NARC magic"},
		{"short", []byte("NARC"), "missing NARC magic"},
		{"bad magic", (&narctest.Builder{Magic: "CRAN"}).Bytes(), "missing NARC magic"},
		{"header too small", (&narctest.Builder{HeaderSize: 8}).Bytes(), "invalid NARC header size"},
		{"header too large", (&narctest.Builder{HeaderSize: 0xFFF0}).Bytes(), "invalid NARC header size"},
		{"truncated block header", truncatedBlock, "truncated block header"},
		{"oversize block", oversizeBlock, "invalid block size"},
		{"undersize block", undersizeBlock, "invalid block size"},
		{"missing allocation", (&narctest.Builder{Files: [][]byte{{1}}, OmitAllocation: true}).Bytes(), "missing BTAF or GMIF"},
		{"missing image", (&narctest.Builder{Files: [][]byte{{1}}, OmitImage: true}).Bytes(), "missing BTAF or GMIF"},
		{"allocation truncated", (&narctest.Builder{Files: [][]byte{{1}}, FileCount: narctest.U16(5)}).Bytes(), "allocation table truncated"},
		{"end before start", (&narctest.Builder{Files: [][]byte{{1, 2, 3}}, Ranges: []narctest.Range{{Start: 0, End: 3}, {Start: 2, End: 1}}}).Bytes(), "invalid FATB range for file 1: 2-1"},
		{"end past image", (&narctest.Builder{Files: [][]byte{{1, 2, 3}}, Ranges: []narctest.Range{{Start: 0, End: 4}}}).Bytes(), "invalid FATB range for file 0: 0-4 (fimg_len=3)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := narc.Decode(tt.data)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, &rerrors.Error{Phase: rerrors.PhaseArchive, Kind: rerrors.KindFormat}) {
				t.Errorf("expected format error, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.message) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.message)
			}
		})
	}
}

func TestDecodeInvalidRangeReportsIndex(t *testing.T) {
	b := &narctest.Builder{
		Files:  [][]byte{{1, 2, 3}},
		Ranges: []narctest.Range{{Start: 0, End: 1}, {Start: 1, End: 2}, {Start: 0, End: 9}},
	}
	_, err := narc.Decode(b.Bytes())

	var e *rerrors.Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *errors.Error, got %T", err)
	}
	if e.Value != 2 {
		t.Errorf("Value = %v, want offending index 2", e.Value)
	}
}
