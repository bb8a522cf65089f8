// Package export runs exporters against an unpacked ROM directory.
//
// Each exporter reads its sources relative to Env.SourceRoot, writes one CSV
// into Env.OutputDir and, when it recorded any diagnostics, a log file next
// to it. CSV files are written through CSVFile so a failed run leaves no
// partial output. RunAll runs a list of exporters and writes a summary file.
package export
