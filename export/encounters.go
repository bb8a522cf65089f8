package export

import (
	"context"

	"go.uber.org/zap"

	"github.com/wippyai/rom-export/diag"
	"github.com/wippyai/rom-export/tables"
)

// EncounterExporter writes one encounter CSV per game version into a shared log.
// A version that fails is logged and skipped; the run fails only when no
// version exported.
type EncounterExporter struct{}

// Name implements Exporter.
func (*EncounterExporter) Name() string { return "encounters" }

// Run implements Exporter.
func (x *EncounterExporter) Run(ctx context.Context, env Env) (Result, error) {
	log := env.logger().With(zap.String("exporter", x.Name()))
	sink := diag.NewSink().WithLogger(log)
	res := Result{Exporter: x.Name()}

	err := x.run(ctx, env, log, sink, &res)
	return finish(env.output(env.Config.Encounters.Log), sink, res, err)
}

func (x *EncounterExporter) run(ctx context.Context, env Env, log *zap.Logger, sink *diag.Sink, res *Result) error {
	cfg := env.Config.Encounters
	for _, v := range cfg.Versions {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := x.version(env, v.Source, v.Output, sink, res); err != nil {
			log.Warn("encounter version failed", zap.String("version", v.Name), zap.Error(err))
			recordFatal(sink, err)
		}
	}
	if len(res.Outputs) == 0 {
		return &reportedError{msg: "No encounters exported."}
	}
	return nil
}

func (x *EncounterExporter) version(env Env, source, output string, sink *diag.Sink, res *Result) error {
	data, err := readSource(env.source(source))
	if err != nil {
		return err
	}
	table, err := tables.DecodeEncounters(data, env.Config.Encounters.Layout(), source, sink)
	if err != nil {
		return err
	}

	path := env.output(output)
	if err := writeCSV(path, table.Header, table.Rows); err != nil {
		return err
	}
	res.committed(path, len(table.Rows))
	return nil
}
