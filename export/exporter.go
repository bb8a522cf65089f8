package export

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wippyai/rom-export/config"
	"github.com/wippyai/rom-export/diag"
	"github.com/wippyai/rom-export/tables"
)

// Env is the shared context handed to every exporter.
type Env struct {
	Config     *config.Config
	Logger     *zap.Logger
	SourceRoot string
	OutputDir  string
}

func (e Env) logger() *zap.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return Logger()
}

func (e Env) source(rel string) string {
	return filepath.Join(e.SourceRoot, filepath.FromSlash(rel))
}

func (e Env) output(name string) string {
	return filepath.Join(e.OutputDir, name)
}

// Exporter produces one or more CSV files and an optional diagnostics log.
type Exporter interface {
	Name() string
	Run(ctx context.Context, env Env) (Result, error)
}

// Result summarizes one exporter run.
type Result struct {
	Err        error
	Exporter   string
	OutputPath string // first committed CSV
	LogPath    string
	Outputs    []string // every committed CSV, in write order
	Rows       int
	Infos      int
	Warnings   int
	Errors     int
}

// OK reports whether at least one CSV was committed.
func (r Result) OK() bool {
	return r.Err == nil && r.OutputPath != ""
}

// Status is the one-word outcome used in summaries. A committed export that
// logged warnings or non-fatal errors is WARN.
func (r Result) Status() string {
	switch {
	case !r.OK():
		return "ERROR"
	case r.Warnings > 0, r.Errors > 0:
		return "WARN"
	default:
		return "OK"
	}
}

func (r *Result) committed(path string, rows int) {
	if r.OutputPath == "" {
		r.OutputPath = path
	}
	r.Outputs = append(r.Outputs, path)
	r.Rows += rows
}

func (r *Result) tally(sink *diag.Sink) {
	r.Infos = sink.Count(diag.LevelInfo)
	r.Warnings = sink.Count(diag.LevelWarn)
	r.Errors = sink.Count(diag.LevelError)
}

// finish records a fatal err in sink, flushes the log and tallies the result.
func finish(logPath string, sink *diag.Sink, res Result, err error) (Result, error) {
	if err != nil {
		recordFatal(sink, err)
		res.OutputPath = ""
		res.Outputs = nil
		res.Rows = 0
		res.Err = err
	}

	written, lerr := WriteLog(logPath, sink)
	if written {
		res.LogPath = logPath
	}
	res.tally(sink)
	if err == nil && lerr != nil {
		res.Err = lerr
		err = lerr
	}
	return res, err
}

// writeCSV commits header and rows to path, or leaves nothing there.
func writeCSV(path string, header []string, rows [][]string) error {
	return writeCSVs([]string{path}, []*tables.Table{{Header: header, Rows: rows}})
}

// writeCSVs writes every table before committing any of them. On failure
// none of the paths is left behind.
func writeCSVs(paths []string, ts []*tables.Table) error {
	files := make([]*CSVFile, 0, len(paths))
	abort := func(err error) error {
		for _, f := range files {
			err = multierr.Append(err, f.Abort())
		}
		return err
	}
	for i, path := range paths {
		f, err := CreateCSV(path)
		if err != nil {
			return abort(err)
		}
		files = append(files, f)
		if err := f.Write(ts[i].Header); err != nil {
			return abort(err)
		}
		if err := f.WriteAll(ts[i].Rows); err != nil {
			return abort(err)
		}
	}
	for i, f := range files {
		if err := f.Commit(); err != nil {
			for _, done := range paths[:i] {
				err = multierr.Append(err, removeIfExists(done))
			}
			return abort(err)
		}
	}
	return nil
}

// Exporters returns every exporter in run order.
func Exporters() []Exporter {
	return []Exporter{
		&PersonalExporter{},
		NewTableExporter("evolutions", tables.DecodeEvolutions, func(c *config.Config) config.TableConfig { return c.Evolutions }),
		NewTableExporter("weight", tables.DecodeWeights, func(c *config.Config) config.TableConfig { return c.Weight }),
		NewTableExporter("offspring", tables.DecodeOffspring, func(c *config.Config) config.TableConfig { return c.Offspring }),
		NewTableExporter("moves", tables.DecodeMoves, func(c *config.Config) config.TableConfig { return c.Moves }),
		NewTableExporter("level_up_learnsets", tables.DecodeLevelUpLearnsets, func(c *config.Config) config.TableConfig { return c.LevelUpLearnsets }),
		NewTableExporter("egg_learnsets", tables.DecodeEggLearnsets, func(c *config.Config) config.TableConfig { return c.EggLearnsets }),
		NewTableExporter("tutors", tables.DecodeTutors, func(c *config.Config) config.TableConfig { return c.Tutors }),
		NewTableExporter("tutor_learnsets", tables.DecodeTutorLearnsets, func(c *config.Config) config.TableConfig { return c.TutorLearnsets }),
		&EncounterExporter{},
		&TrainerExporter{},
		&ConstantsExporter{},
	}
}

// Lookup returns the exporters named in names, in run order.
// The first unknown name, in argument order, is reported.
func Lookup(names ...string) ([]Exporter, error) {
	all := Exporters()
	if len(names) == 0 {
		return all, nil
	}

	known := make(map[string]bool, len(all))
	for _, e := range all {
		known[e.Name()] = true
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		if !known[n] {
			return nil, fmt.Errorf("unknown exporter %q", n)
		}
		want[n] = true
	}
	var out []Exporter
	for _, e := range all {
		if want[e.Name()] {
			out = append(out, e)
		}
	}
	return out, nil
}
