package deform

import (
	"github.com/kbukum/augment/errors"
	"github.com/kbukum/augment/jams"
	"github.com/kbukum/augment/stream"
)

const invalidTransformerReason = "wrapped value is not a valid Transformer"

// Bypass makes a transformer optional: its sequence starts with the
// untouched input, followed by everything the wrapped transformer yields.
//
// A Bypass is immutable once built and keeps no per-call state.
type Bypass struct {
	transformer Transformer
}

// NewBypass wraps t. A nil t, including a typed nil, is rejected with an
// INVALID_ARGUMENT error.
func NewBypass(t Transformer) (*Bypass, error) {
	if isNil(t) {
		return nil, errors.InvalidArgument("transformer", invalidTransformerReason)
	}
	return &Bypass{transformer: t}, nil
}

// BypassOf wraps a value whose type is only known at runtime, such as the
// output of a registry factory. v must implement Transformer.
func BypassOf(v any) (*Bypass, error) {
	t, ok := v.(Transformer)
	if !ok {
		return nil, errors.InvalidArgument("transformer", invalidTransformerReason).
			WithDetail("type", typeName(v))
	}
	return NewBypass(t)
}

// Transformer returns the wrapped transformer.
func (b *Bypass) Transformer() Transformer {
	return b.transformer
}

// Transform yields doc itself, then the outputs of the wrapped transformer
// in order. The wrapped transformer is not called until the second value is
// pulled, and its errors are returned unchanged.
func (b *Bypass) Transform(doc *jams.Document) stream.Iterator[*jams.Document] {
	inner := b.transformer
	return stream.Concat(
		stream.Of(doc),
		stream.Defer(func() stream.Iterator[*jams.Document] {
			return inner.Transform(doc)
		}),
	)
}
