package deform

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/augment/jams"
	"github.com/kbukum/augment/logger"
	"github.com/kbukum/augment/stream"
)

// WithLogging logs the sequence produced by each Transform call: one debug
// line per variant, one info line when the sequence is exhausted, and an
// error line if it fails. Every call is tagged with a fresh call id, which
// is also handed down the context so WithTracing can put it on its span.
func WithLogging(log *logger.Logger, stage string) Middleware {
	return func(inner Transformer) Transformer {
		return &loggingTransformer{inner: inner, log: log, stage: stage}
	}
}

type loggingTransformer struct {
	inner Transformer
	log   *logger.Logger
	stage string
}

func (l *loggingTransformer) Transform(doc *jams.Document) stream.Iterator[*jams.Document] {
	callID := uuid.NewString()
	return &loggingIter{
		source: stream.Defer(func() stream.Iterator[*jams.Document] { return l.inner.Transform(doc) }),
		callID: callID,
		log: l.log.WithFields(logger.Fields(
			logger.FieldStage, l.stage,
			logger.FieldCallID, callID,
		)),
	}
}

type loggingIter struct {
	source  stream.Iterator[*jams.Document]
	callID  string
	log     *logger.Logger
	start   time.Time
	count   int
	started bool
	done    bool
}

func (it *loggingIter) Next(ctx context.Context) (*jams.Document, bool, error) {
	if !it.started {
		it.started = true
		it.start = time.Now()
	}
	doc, ok, err := it.source.Next(withCallID(ctx, it.callID))
	if it.done {
		return doc, ok, err
	}
	switch {
	case err != nil:
		it.done = true
		it.log.Error("stage failed", map[string]interface{}{
			logger.FieldError:    err.Error(),
			logger.FieldVariants: it.count,
			logger.FieldDuration: time.Since(it.start).Milliseconds(),
		})
	case !ok:
		it.done = true
		it.log.Info("stage exhausted", map[string]interface{}{
			logger.FieldVariants: it.count,
			logger.FieldDuration: time.Since(it.start).Milliseconds(),
		})
	default:
		it.log.Debug("variant", logger.Fields(logger.FieldVariant, it.count))
		it.count++
	}
	return doc, ok, err
}

func (it *loggingIter) Close() error {
	if it.started && !it.done {
		it.done = true
		it.log.Debug("stage closed early", logger.Fields(logger.FieldVariants, it.count))
	}
	return it.source.Close()
}
