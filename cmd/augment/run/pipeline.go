package run

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/kbukum/augment/config"
	"github.com/kbukum/augment/deform"
	"github.com/kbukum/augment/errors"
	"github.com/kbukum/augment/jams"
	"github.com/kbukum/augment/logger"
	"github.com/kbukum/augment/observability"
	"github.com/kbukum/augment/stream"
)

const beatNamespace = "beat"

func runPipeline(ctx context.Context, out io.Writer, cfg *config.Config, opts options) error {
	runID := uuid.NewString()
	logger.Init(cfg.Logging, cfg.Name)
	log := logger.WithComponent("run").WithFields(logger.Fields(logger.FieldRunID, runID))

	shutdown, err := initTelemetry(ctx, cfg)
	if err != nil {
		return err
	}
	defer shutdown(context.WithoutCancel(ctx))

	metrics, err := observability.NewMetrics(observability.Meter(cfg.Name))
	if err != nil {
		return err
	}

	registry := deform.DefaultRegistry(deform.WithStageMiddleware(func(stage string) deform.Middleware {
		return deform.Chain(
			deform.WithLogging(log, stage),
			deform.WithTracing(stage),
			deform.WithMetrics(metrics, stage),
		)
	}))
	t, err := registry.Build(cfg.Pipeline.Stage)
	if err != nil {
		return err
	}

	ctx, span := observability.StartSpan(ctx, "run."+cfg.Pipeline.Name)
	defer span.End()

	it := t.Transform(syntheticDocument(opts.title, opts.duration))
	defer it.Close()

	log.Info("pipeline started", logger.Fields("pipeline", cfg.Pipeline.Name))
	n, err := emitVariants(ctx, out, cfg.Pipeline.Name, it, opts.limit)
	if err != nil {
		observability.SetSpanError(ctx, err)
		return err
	}
	log.Info("pipeline finished", logger.Fields(logger.FieldVariants, n))
	return nil
}

// emitVariants prints one line per variant pulled from it, stopping after
// limit variants when limit is positive. A failing sequence is reported as
// DEFORMATION_FAILED for the pipeline, with the stage error as cause.
func emitVariants(ctx context.Context, out io.Writer, pipeline string, it stream.Iterator[*jams.Document], limit int) (int, error) {
	n := 0
	for limit <= 0 || n < limit {
		doc, ok, err := it.Next(ctx)
		if err != nil {
			return n, errors.DeformationFailed(pipeline, err)
		}
		if !ok {
			break
		}
		if _, err := fmt.Fprintf(out, "%d\t%.3f\t%s\n", n, doc.File.Duration, historyChain(doc)); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// initTelemetry starts the exporters enabled in cfg and returns a function
// that flushes and stops them.
func initTelemetry(ctx context.Context, cfg *config.Config) (func(context.Context), error) {
	var stops []func(context.Context) error
	if cfg.Tracing.Enabled {
		tp, err := observability.InitTracer(ctx, &cfg.Tracing)
		if err != nil {
			return nil, err
		}
		stops = append(stops, tp.Shutdown)
	}
	if cfg.Metrics.Enabled {
		mp, err := observability.InitMeter(ctx, &cfg.Metrics)
		if err != nil {
			return nil, err
		}
		stops = append(stops, mp.Shutdown)
	}
	return func(ctx context.Context) {
		for _, stop := range stops {
			if err := stop(ctx); err != nil {
				logger.Warn("telemetry shutdown failed", logger.ErrorFields("shutdown", err))
			}
		}
	}, nil
}

// syntheticDocument builds a document with one beat per second.
func syntheticDocument(title string, duration float64) *jams.Document {
	doc := jams.New(title, duration)
	var beats []jams.Observation
	for t := 0.0; t < duration; t++ {
		beats = append(beats, jams.Observation{Time: t, Value: int(t) + 1, Confidence: 1})
	}
	doc.AddAnnotation(beatNamespace, beats...)
	return doc
}

// historyChain renders the deformation history, or "original" when empty.
func historyChain(doc *jams.Document) string {
	history := doc.History()
	if len(history) == 0 {
		return "original"
	}
	parts := make([]string, len(history))
	for i, h := range history {
		if len(h.State) == 0 {
			parts[i] = h.Transformer
			continue
		}
		keys := slices.Sorted(maps.Keys(h.State))
		args := make([]string, len(keys))
		for j, k := range keys {
			args[j] = fmt.Sprintf("%s=%v", k, h.State[k])
		}
		parts[i] = h.Transformer + "(" + strings.Join(args, ",") + ")"
	}
	return strings.Join(parts, " > ")
}
