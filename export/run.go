package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wippyai/rom-export/errors"
)

const (
	dirLayout       = "2006-01-02_150405"
	timestampLayout = "2006-01-02 15:04:05"
)

// DefaultOutputDir returns the timestamped run directory under root.
func DefaultOutputDir(root string, now time.Time) string {
	return filepath.Join(root, now.Format(dirLayout))
}

// RunAll runs exporters in order and writes the run summary into env.OutputDir.
// Every exporter runs even when an earlier one fails; ctx is checked between
// exporters. The returned error combines every exporter failure.
func RunAll(ctx context.Context, env Env, exporters []Exporter, progress func(Result)) ([]Result, error) {
	log := env.logger()
	started := time.Now()

	if err := os.MkdirAll(env.OutputDir, 0o755); err != nil {
		return nil, errors.IO(errors.PhaseExport, env.OutputDir, err)
	}

	var (
		results []Result
		errs    error
	)
	for _, x := range exporters {
		if err := ctx.Err(); err != nil {
			errs = multierr.Append(errs, err)
			break
		}

		log.Debug("exporter started", zap.String("exporter", x.Name()))
		res, err := x.Run(ctx, env)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", x.Name(), err))
			log.Error("exporter failed", zap.String("exporter", x.Name()), zap.Error(err))
		} else {
			log.Info("exporter finished",
				zap.String("exporter", x.Name()),
				zap.Int("rows", res.Rows),
				zap.Int("warnings", res.Warnings),
			)
		}
		results = append(results, res)
		if progress != nil {
			progress(res)
		}
	}

	path := filepath.Join(env.OutputDir, env.Config.Summary)
	if err := os.WriteFile(path, []byte(Summary(started, env, results)), 0o644); err != nil {
		errs = multierr.Append(errs, errors.IO(errors.PhaseExport, path, err))
	}
	return results, errs
}

// Summary renders the run summary text.
func Summary(started time.Time, env Env, results []Result) string {
	var b strings.Builder
	b.WriteString("Export Summary\n")
	fmt.Fprintf(&b, "Timestamp: %s\n", started.Format(timestampLayout))
	fmt.Fprintf(&b, "Source: %s\n", env.SourceRoot)
	fmt.Fprintf(&b, "Output: %s\n\n", env.OutputDir)

	var failed, warned int
	for _, r := range results {
		b.WriteString(StatusLine(r))
		b.WriteByte('\n')
		switch r.Status() {
		case "ERROR":
			failed++
		case "WARN":
			warned++
		}
	}
	fmt.Fprintf(&b, "\n%d exporters, %d failed, %d with warnings\n", len(results), failed, warned)
	return b.String()
}

// StatusLine renders one result as "[STATUS] name ..." for summaries and console output.
func StatusLine(r Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", r.Status(), r.Exporter)
	if !r.OK() {
		if r.Err != nil {
			fmt.Fprintf(&b, ": %s", describe(r.Err))
		}
	} else {
		outputs := r.Outputs
		if len(outputs) == 0 {
			outputs = []string{r.OutputPath}
		}
		names := make([]string, len(outputs))
		for i, o := range outputs {
			names[i] = filepath.Base(o)
		}
		fmt.Fprintf(&b, " -> %s (%d rows", strings.Join(names, ", "), r.Rows)
		if r.Warnings > 0 {
			fmt.Fprintf(&b, ", %d warnings", r.Warnings)
		}
		if r.Errors > 0 {
			fmt.Fprintf(&b, ", %d errors", r.Errors)
		}
		if r.Infos > 0 {
			fmt.Fprintf(&b, ", %d info", r.Infos)
		}
		b.WriteByte(')')
	}
	if r.LogPath != "" {
		fmt.Fprintf(&b, " see %s", filepath.Base(r.LogPath))
	}
	return b.String()
}
