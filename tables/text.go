package tables

import (
	"bytes"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/wippyai/rom-export/diag"
)

// Text transforms applied to each text archive record.
const (
	TransformDefault      = "default"
	TransformTrainerName  = "trainer_name"
	TransformTrainerClass = "trainer_class"
	TransformMoveDesc     = "move_desc"
	TransformDesc2        = "desc2"
)

// Transforms lists every known transform name.
var Transforms = []string{TransformDefault, TransformTrainerName, TransformTrainerClass, TransformMoveDesc, TransformDesc2}

// TextSpec describes one text archive export.
type TextSpec struct {
	Name       string // file name used in diagnostics
	IDColumn   string
	TextColumn string
	Transform  string
}

var (
	trainerNameRE = regexp.MustCompile(`^\{TRAINER_NAME:\s*(.*?)\}$`)
	spaceRunRE    = regexp.MustCompile(`\s{2,}`)
)

const literalNewline = `\n`

// DecodeTextArchive turns an extracted text archive into (id, text) rows.
// The first line is the archive header and is skipped; record ids start at 0.
// It returns nil without error when the archive holds no records; the
// condition is logged as an ERROR entry.
func DecodeTextArchive(data []byte, spec TextSpec, sink *diag.Sink) *Table {
	lines := splitLines(decodeText(data, spec.Name, sink))
	if len(lines) < 2 {
		sink.Error(diag.NoTrainer, "%s: expected at least 2 lines (file header + one record).", spec.Name)
		return nil
	}

	t := &Table{Header: []string{spec.IDColumn, spec.TextColumn}}
	for i, raw := range lines[1:] {
		ctx := spec.Name + ":record_index=" + itoa(i) + ",raw_line=" + itoa(i+2)
		t.Rows = append(t.Rows, []string{itoa(i), applyTransform(spec.Transform, raw, ctx, sink)})
	}
	return t
}

// decodeText strips a UTF-8 BOM and replaces invalid sequences with U+FFFD.
func decodeText(data []byte, name string, sink *diag.Sink) string {
	if !utf8.Valid(data) {
		sink.Warn(diag.NoTrainer, "%s: utf-8 strict decode failed; used utf-8 with replacement.", name)
	}
	out, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
	if err != nil {
		return strings.ToValidUTF8(string(bytes.TrimPrefix(data, []byte("\xEF\xBB\xBF"))), "\uFFFD")
	}
	return string(out)
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

func applyTransform(kind, s, ctx string, sink *diag.Sink) string {
	switch kind {
	case TransformDefault, "":
		return s
	case TransformTrainerName:
		if m := trainerNameRE.FindStringSubmatch(s); m != nil {
			return strings.TrimSpace(m[1])
		}
		sink.Info(diag.NoTrainer, "%s: trainer name did not match wrapper; kept raw value.", ctx)
		return s
	case TransformTrainerClass:
		return strings.ReplaceAll(s, "[PK][MN]", "Pokémon")
	case TransformMoveDesc:
		n := strings.Count(s, literalNewline)
		switch n {
		case 4:
		case 3, 5:
			sink.Info(diag.NoTrainer, "%s: expected 4 literal \\n sequences, found %d.", ctx, n)
		default:
			sink.Warn(diag.NoTrainer, "%s: expected 4 literal \\n sequences, found %d.", ctx, n)
		}
		return joinLiteralLines(s)
	case TransformDesc2:
		if n := strings.Count(s, literalNewline); n >= 3 {
			sink.Warn(diag.NoTrainer, "%s: unexpected literal \\n count %d.", ctx, n)
		}
		return joinLiteralLines(s)
	default:
		sink.Warn(diag.NoTrainer, "%s: unknown transform kind '%s'; kept raw value.", ctx, kind)
		return s
	}
}

// joinLiteralLines drops trailing literal \n markers, turns the rest into
// spaces and collapses whitespace runs.
func joinLiteralLines(s string) string {
	for strings.HasSuffix(s, literalNewline) {
		s = strings.TrimSuffix(s, literalNewline)
	}
	s = strings.ReplaceAll(s, literalNewline, " ")
	return strings.TrimSpace(spaceRunRE.ReplaceAllString(s, " "))
}
