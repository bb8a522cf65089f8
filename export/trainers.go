package export

import (
	"context"
	stderrors "errors"
	"os"

	"go.uber.org/zap"

	"github.com/wippyai/rom-export/diag"
	"github.com/wippyai/rom-export/errors"
	"github.com/wippyai/rom-export/narc"
	"github.com/wippyai/rom-export/trainer"
)

// TrainerExporter writes the trainer roster CSV from the properties and party archives.
type TrainerExporter struct{}

// Name implements Exporter.
func (*TrainerExporter) Name() string { return "trainers" }

// Run decodes both archives and commits the CSV only when every trainer decoded.
// Fatal conditions are logged as ERROR entries and the CSV is never written.
func (x *TrainerExporter) Run(ctx context.Context, env Env) (Result, error) {
	log := env.logger().With(zap.String("exporter", x.Name()))
	sink := diag.NewSink().WithLogger(log)
	res := Result{Exporter: x.Name()}

	err := x.run(ctx, env, sink, &res)
	return finish(env.output(env.Config.Trainers.Log), sink, res, err)
}

func (x *TrainerExporter) run(ctx context.Context, env Env, sink *diag.Sink, res *Result) error {
	cfg := env.Config.Trainers

	props, err := readArchive(env.source(cfg.Properties), "properties")
	if err != nil {
		return err
	}
	party, err := readArchive(env.source(cfg.Party), "party")
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	trainers, err := trainer.DecodeRoster(props, party, sink)
	if err != nil {
		return err
	}

	var rows [][]string
	if !cfg.SkipFirst && len(trainers) > 0 {
		rows = append(rows, trainer.Row(trainers[trainer.SentinelID]))
	}
	rows = append(rows, trainer.Project(trainers)...)

	path := env.output(cfg.Output)
	if err := writeCSV(path, trainer.Header(), rows); err != nil {
		return err
	}

	res.committed(path, len(rows))
	return nil
}

// archiveError marks an archive that could not be decoded.
type archiveError struct {
	err  error
	name string
}

func (e *archiveError) Error() string {
	return "Failed to parse " + e.name + " NARC: " + describe(e.err)
}

func (e *archiveError) Unwrap() error { return e.err }

// sourceMissingError marks a source file that does not exist.
type sourceMissingError struct {
	err  error
	path string
}

func (e *sourceMissingError) Error() string { return "Source file not found: " + e.path }

func (e *sourceMissingError) Unwrap() error { return e.err }

func readSource(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		ioErr := errors.IO(errors.PhaseExport, path, err)
		if os.IsNotExist(err) {
			return nil, &sourceMissingError{err: ioErr, path: path}
		}
		return nil, ioErr
	}
	return data, nil
}

func readArchive(path, name string) (*narc.Archive, error) {
	data, err := readSource(path)
	if err != nil {
		return nil, err
	}
	a, err := narc.Decode(data)
	if err != nil {
		return nil, &archiveError{err: err, name: name}
	}
	return a, nil
}

// reportedError marks a failure whose ERROR entries are already in the sink.
type reportedError struct {
	msg string
}

func (e *reportedError) Error() string { return e.msg }

// recordFatal logs err as an ERROR entry, attributed to a trainer when it names one.
func recordFatal(sink *diag.Sink, err error) {
	var (
		reported *reportedError
		missing  *sourceMissingError
		archive  *archiveError
		e        *errors.Error
	)
	switch {
	case stderrors.As(err, &reported):
	case stderrors.As(err, &missing), stderrors.As(err, &archive):
		sink.Error(diag.NoTrainer, "%v", err)
	case stderrors.As(err, &e) && e.Kind == errors.KindSchemaViolation:
		id, ok := e.Value.(int)
		if !ok {
			id = diag.NoTrainer
		}
		sink.Error(id, "%s", fatalDetail(e))
	case stderrors.As(err, &e) && (e.Kind == errors.KindCountMismatch || e.Kind == errors.KindFormat):
		sink.Error(diag.NoTrainer, "%s", fatalDetail(e))
	default:
		sink.Error(diag.NoTrainer, "%v", err)
	}
}

func fatalDetail(e *errors.Error) string {
	switch {
	case e.Cause == nil:
		return e.Detail
	case e.Detail == "":
		return e.Cause.Error()
	default:
		return e.Detail + ": " + e.Cause.Error()
	}
}

// describe renders err without the phase and kind prefix.
func describe(err error) string {
	e, ok := err.(*errors.Error)
	if !ok {
		return err.Error()
	}
	if e.Kind == errors.KindSchemaViolation && len(e.Path) > 0 {
		return e.Path[0] + ": " + fatalDetail(e)
	}
	return fatalDetail(e)
}
