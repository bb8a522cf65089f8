package export

import (
	"context"

	"go.uber.org/zap"

	"github.com/wippyai/rom-export/config"
	"github.com/wippyai/rom-export/diag"
	"github.com/wippyai/rom-export/tables"
)

// TableDecoder decodes a table from a raw source file.
type TableDecoder func(data []byte, layout tables.Layout, sink *diag.Sink) (*tables.Table, error)

// TableExporter writes one decoded table as CSV.
type TableExporter struct {
	decode   TableDecoder
	settings func(*config.Config) config.TableConfig
	name     string
}

// NewTableExporter returns an exporter that reads its source and layout from settings.
func NewTableExporter(name string, decode TableDecoder, settings func(*config.Config) config.TableConfig) *TableExporter {
	return &TableExporter{name: name, decode: decode, settings: settings}
}

// Name implements Exporter.
func (x *TableExporter) Name() string { return x.name }

// Run implements Exporter.
func (x *TableExporter) Run(ctx context.Context, env Env) (Result, error) {
	cfg := x.settings(env.Config)
	log := env.logger().With(zap.String("exporter", x.name))
	sink := diag.NewSink().WithLogger(log)
	res := Result{Exporter: x.name}

	err := x.run(ctx, env, cfg, sink, &res)
	return finish(env.output(cfg.Log), sink, res, err)
}

func (x *TableExporter) run(ctx context.Context, env Env, cfg config.TableConfig, sink *diag.Sink, res *Result) error {
	data, err := readSource(env.source(cfg.Source))
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	table, err := x.decode(data, cfg.Layout(), sink)
	if err != nil {
		return err
	}

	path := env.output(cfg.Output)
	if err := writeCSV(path, table.Header, table.Rows); err != nil {
		return err
	}

	res.committed(path, len(table.Rows))
	return nil
}
