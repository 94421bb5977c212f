package deform

import (
	"context"
	"time"

	"github.com/kbukum/augment/errors"
	"github.com/kbukum/augment/jams"
	"github.com/kbukum/augment/observability"
	"github.com/kbukum/augment/stream"
)

// WithMetrics records a variant count for every yielded document and one
// stage measurement when the sequence completes.
func WithMetrics(metrics *observability.Metrics, stage string) Middleware {
	return func(inner Transformer) Transformer {
		return &metricsTransformer{inner: inner, metrics: metrics, stage: stage}
	}
}

type metricsTransformer struct {
	inner   Transformer
	metrics *observability.Metrics
	stage   string
}

func (m *metricsTransformer) Transform(doc *jams.Document) stream.Iterator[*jams.Document] {
	return &metricsIter{
		source:  stream.Defer(func() stream.Iterator[*jams.Document] { return m.inner.Transform(doc) }),
		metrics: m.metrics,
		stage:   m.stage,
	}
}

type metricsIter struct {
	source  stream.Iterator[*jams.Document]
	metrics *observability.Metrics
	stage   string
	ctx     context.Context
	start   time.Time
	done    bool
}

func (it *metricsIter) Next(ctx context.Context) (*jams.Document, bool, error) {
	if it.ctx == nil {
		it.start = time.Now()
	}
	it.ctx = ctx
	doc, ok, err := it.source.Next(ctx)
	if it.done {
		return doc, ok, err
	}
	switch {
	case err != nil:
		it.metrics.RecordError(ctx, errorType(err), it.stage)
		it.finish(ctx, statusError)
	case !ok:
		it.finish(ctx, statusOK)
	default:
		it.metrics.RecordVariant(ctx, it.stage)
	}
	return doc, ok, err
}

func (it *metricsIter) finish(ctx context.Context, status string) {
	it.done = true
	it.metrics.RecordStage(ctx, it.stage, status, time.Since(it.start))
}

func (it *metricsIter) Close() error {
	if it.ctx != nil && !it.done {
		it.finish(context.WithoutCancel(it.ctx), statusClosed)
	}
	return it.source.Close()
}

func errorType(err error) string {
	if appErr, ok := errors.As(err); ok {
		return string(appErr.Code)
	}
	return "error"
}
