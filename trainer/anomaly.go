package trainer

import (
	"github.com/wippyai/rom-export/diag"
)

// Trailing classifies bytes past the expected party length.
type Trailing uint8

const (
	TrailingNone Trailing = iota
	TrailingPadding
	TrailingPhantom
	TrailingIrregular
)

func (t Trailing) String() string {
	switch t {
	case TrailingPadding:
		return "alignment_padding"
	case TrailingPhantom:
		return "phantom_record"
	case TrailingIrregular:
		return "irregular_tail"
	default:
		return "none"
	}
}

// Region classifies the bytes between the expected length and the next 4-byte boundary.
type Region uint8

const (
	RegionNone Region = iota
	RegionZero
	RegionFF
	RegionMixed
)

func (r Region) String() string {
	switch r {
	case RegionZero:
		return "zero"
	case RegionFF:
		return "ff"
	case RegionMixed:
		return "mixed"
	default:
		return "none"
	}
}

const previewLen = 16

// Align4 rounds n up to a multiple of 4.
func Align4(n int) int {
	return (n + 3) &^ 3
}

// ClassifyTrailing labels blob[expectedLen:] and records the result in sink.
func ClassifyTrailing(sink *diag.Sink, trainerID, stride, expectedLen int, blob []byte) Trailing {
	actualLen := len(blob)
	extraLen := actualLen - expectedLen
	if extraLen <= 0 {
		return TrailingNone
	}

	if expectedLen%4 == 2 && extraLen == 2 && actualLen == Align4(expectedLen) {
		sink.Info(trainerID, "alignment padding detected (ignored). expected_len=%d actual_len=%d",
			expectedLen, actualLen)
		return TrailingPadding
	}

	if stride > 0 && extraLen%stride == 0 {
		preview := diag.Preview(blob[expectedLen:], min(stride, previewLen))
		sink.Warn(trainerID, "phantom party member data detected (ignored). expected_len=%d actual_len=%d inferred_extra_members=%d preview=%s",
			expectedLen, actualLen, extraLen/stride, preview)
		return TrailingPhantom
	}

	preview := diag.Preview(blob[expectedLen:], min(previewLen, extraLen))
	sink.Warn(trainerID, "unexpected trailing bytes beyond alignment region (ignored). expected_len=%d actual_len=%d extra_len=%d preview=%s",
		expectedLen, actualLen, extraLen, preview)
	return TrailingIrregular
}

// InspectAlignmentRegion checks blob[expectedLen:min(len(blob), Align4(expectedLen))].
// Zero fill is silent, 0xFF fill is INFO and anything else is WARN.
func InspectAlignmentRegion(sink *diag.Sink, trainerID, expectedLen int, blob []byte) Region {
	if len(blob) <= expectedLen {
		return RegionNone
	}
	pad := blob[expectedLen:min(len(blob), Align4(expectedLen))]
	if len(pad) == 0 {
		return RegionNone
	}
	if allBytes(pad, 0x00) {
		return RegionZero
	}
	if allBytes(pad, 0xFF) {
		sink.Info(trainerID, "alignment-region bytes use 0xFF (%s).", diag.Hex(pad))
		return RegionFF
	}
	sink.Warn(trainerID, "unexpected bytes in alignment region after payload: %s", diag.Hex(pad))
	return RegionMixed
}

func allBytes(b []byte, v byte) bool {
	for _, x := range b {
		if x != v {
			return false
		}
	}
	return true
}
