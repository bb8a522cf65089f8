// Package tables decodes game data tables and text archives into CSV rows.
//
// Most decoders read records at a fixed offset and width; learnsets and text
// archives are variable length. Padding checks and length mismatches are
// reported to a diag.Sink; no identifier ranges are validated.
package tables

import (
	"strconv"
)

// Table is a decoded CSV table.
type Table struct {
	Header []string
	Rows   [][]string
}

// Layout locates a table inside its source file.
type Layout struct {
	Offset    int
	Count     int
	SkipFirst bool
}

func slice(data []byte, offset int) []byte {
	if offset >= len(data) {
		return nil
	}
	return data[offset:]
}

func itoa[T uint8 | uint16 | int](v T) string {
	return strconv.Itoa(int(v))
}
