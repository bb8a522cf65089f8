package export

import (
	"context"

	"go.uber.org/zap"

	"github.com/wippyai/rom-export/diag"
	"github.com/wippyai/rom-export/tables"
)

// PersonalExporter writes the species personal data and machine compatibility CSVs.
type PersonalExporter struct{}

// Name implements Exporter.
func (*PersonalExporter) Name() string { return "personal" }

// Run implements Exporter. Both CSVs are committed together or not at all.
func (x *PersonalExporter) Run(ctx context.Context, env Env) (Result, error) {
	cfg := env.Config.Personal
	log := env.logger().With(zap.String("exporter", x.Name()))
	sink := diag.NewSink().WithLogger(log)
	res := Result{Exporter: x.Name()}

	err := x.run(ctx, env, sink, &res)
	return finish(env.output(cfg.Log), sink, res, err)
}

func (x *PersonalExporter) run(ctx context.Context, env Env, sink *diag.Sink, res *Result) error {
	cfg := env.Config.Personal

	data, err := readSource(env.source(cfg.Source))
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	p, err := tables.DecodePersonal(data, cfg.Layout(), sink)
	if err != nil {
		return err
	}

	paths := []string{env.output(cfg.Output), env.output(cfg.MachineOutput)}
	if err := writeCSVs(paths, []*tables.Table{p.Species, p.Machines}); err != nil {
		return err
	}
	res.committed(paths[0], len(p.Species.Rows))
	res.committed(paths[1], len(p.Machines.Rows))
	return nil
}
