package deform

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/augment/jams"
	"github.com/kbukum/augment/observability"
	"github.com/kbukum/augment/stream"
)

// WithTracing records one span named "deform.<stage>" per sequence. The span
// starts on the first pull and ends when the sequence is exhausted, fails,
// or is closed. Nested stages pulled from inside it become child spans.
// Under WithLogging the span carries the same call id as the log lines.
func WithTracing(stage string) Middleware {
	return func(inner Transformer) Transformer {
		return &tracingTransformer{inner: inner, stage: stage}
	}
}

type tracingTransformer struct {
	inner Transformer
	stage string
}

func (t *tracingTransformer) Transform(doc *jams.Document) stream.Iterator[*jams.Document] {
	return &tracingIter{
		source: stream.Defer(func() stream.Iterator[*jams.Document] { return t.inner.Transform(doc) }),
		stage:  t.stage,
	}
}

type tracingIter struct {
	source stream.Iterator[*jams.Document]
	stage  string
	span   trace.Span
	start  time.Time
	count  int
	done   bool
}

func (it *tracingIter) Next(ctx context.Context) (*jams.Document, bool, error) {
	if it.span == nil {
		attrs := []attribute.KeyValue{attribute.String(observability.AttrStage, it.stage)}
		if id, ok := callIDFrom(ctx); ok {
			attrs = append(attrs, attribute.String(observability.AttrCallID, id))
		}
		it.start = time.Now()
		_, it.span = observability.StartSpan(ctx, observability.SpanDeformPrefix+it.stage,
			trace.WithAttributes(attrs...),
		)
	}
	doc, ok, err := it.source.Next(trace.ContextWithSpan(ctx, it.span))
	if it.done {
		return doc, ok, err
	}
	switch {
	case err != nil:
		it.span.RecordError(err)
		it.span.SetStatus(codes.Error, err.Error())
		it.span.SetAttributes(attribute.String(observability.AttrErrorMessage, err.Error()))
		it.end(statusError)
	case !ok:
		it.end(statusOK)
	default:
		it.count++
	}
	return doc, ok, err
}

func (it *tracingIter) end(status string) {
	it.done = true
	it.span.SetAttributes(
		attribute.Int(observability.AttrVariants, it.count),
		attribute.String(observability.AttrStatus, status),
		attribute.Int64(observability.AttrDurationMs, time.Since(it.start).Milliseconds()),
	)
	it.span.End()
}

func (it *tracingIter) Close() error {
	if it.span != nil && !it.done {
		it.end(statusClosed)
	}
	return it.source.Close()
}
