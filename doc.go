// Package romexport extracts CSV tables from the binary data files of an
// unpacked game ROM.
//
// The trainer roster is the central export: trainer properties and party
// records live in two parallel NARC archives, and each party record's member
// width depends on flags stored in the matching properties record.
// Species, move, learnset, tutor and encounter tables and the text archive
// lookup tables are exported alongside it.
//
// # Architecture Overview
//
//	romexport/
//	├── narc/            NARC container decoding (BTAF allocation table, GMIF image)
//	├── trainer/         Roster schema, record decoding, trailing-byte anomalies, CSV projection
//	├── tables/          Game data table and text archive decoders
//	├── diag/            INFO/WARN/ERROR diagnostics collected per export
//	├── export/          Exporter registry, atomic CSV output, run summary
//	├── config/          YAML configuration with built-in defaults
//	├── errors/          Structured error types
//	├── internal/binary/ Bounds-checked little-endian cursor
//	└── cmd/romexport/   Command line tool
//
// # Quick Start
//
// Run every exporter against a ROM directory:
//
//	env := export.Env{
//	    SourceRoot: "rom",
//	    OutputDir:  export.DefaultOutputDir("output", time.Now()),
//	    Config:     config.Default(),
//	}
//	results, err := export.RunAll(ctx, env, export.Exporters(), nil)
//
// Or decode the roster directly:
//
//	props, err := narc.Decode(propertiesData)
//	party, err := narc.Decode(partyData)
//	sink := diag.NewSink()
//	trainers, err := trainer.DecodeRoster(props, party, sink)
//	rows := trainer.Project(trainers)
//
// # Failure Model
//
// Structural problems (bad container, mismatched archive counts, unsupported
// party flags, short party records) abort the whole trainer export and no CSV
// is written. Trailing bytes after a party payload are anomalies: they are
// classified, reported to the diagnostics sink and never change decoded data.
package romexport
