// Package errors provides structured error types for rom-export.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries a location path (archive member, trainer id, field), a
// human-readable detail, the offending value and the cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindSchemaViolation).
//		Path("trainer 12", "party").
//		Detail("party file too short: expected %d, got %d", 32, 16).
//		Build()
//
// Or use convenience constructors for the common fatal conditions:
//
//	err := errors.Format("missing NARC magic")
//	err := errors.CountMismatch(5, 4)
//	err := errors.SchemaViolation(12, "party_size %d outside expected range 1..6", 7)
//
// Non-fatal anomalies are not errors; they are recorded in a diag.Sink.
// All errors implement the standard error interface and support errors.Is/As.
package errors
