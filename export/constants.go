package export

import (
	"context"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"github.com/wippyai/rom-export/diag"
	"github.com/wippyai/rom-export/tables"
)

// ConstantsExporter writes one lookup CSV per extracted text archive.
// Every source must exist before anything is written. An archive that holds
// no records is logged and skipped.
type ConstantsExporter struct{}

// Name implements Exporter.
func (*ConstantsExporter) Name() string { return "constants" }

// Run implements Exporter.
func (x *ConstantsExporter) Run(ctx context.Context, env Env) (Result, error) {
	log := env.logger().With(zap.String("exporter", x.Name()))
	sink := diag.NewSink().WithLogger(log)
	res := Result{Exporter: x.Name()}

	err := x.run(ctx, env, sink, &res)
	return finish(env.output(env.Config.Constants.Log), sink, res, err)
}

func (x *ConstantsExporter) run(ctx context.Context, env Env, sink *diag.Sink, res *Result) error {
	archives := env.Config.Constants.Archives

	var missing int
	for _, a := range archives {
		path := env.source(a.Source)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			sink.Error(diag.NoTrainer, "Missing source file: %s", path)
			missing++
		}
	}
	if missing > 0 {
		return &reportedError{msg: "Missing " + strconv.Itoa(missing) + " required text archive file(s)."}
	}

	for _, a := range archives {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := readSource(env.source(a.Source))
		if err != nil {
			return err
		}
		table := tables.DecodeTextArchive(data, tables.TextSpec{
			Name:       filepath.Base(a.Source),
			IDColumn:   a.IDColumn,
			TextColumn: a.TextColumn,
			Transform:  a.Transform,
		}, sink)
		if table == nil {
			continue
		}

		path := env.output(a.Output)
		if err := writeCSV(path, table.Header, table.Rows); err != nil {
			return err
		}
		res.committed(path, len(table.Rows))
	}
	if len(res.Outputs) == 0 {
		return &reportedError{msg: "No outputs produced."}
	}
	return nil
}
