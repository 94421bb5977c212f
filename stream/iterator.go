package stream

import "context"

// Iterator provides pull-based sequential access to a stream of values.
type Iterator[T any] interface {
	// Next returns the next value. Returns (zero, false, nil) when exhausted.
	Next(ctx context.Context) (T, bool, error)
	// Close releases any resources held by the iterator.
	Close() error
}

// Of returns an iterator over the given values.
func Of[T any](vals ...T) Iterator[T] {
	return &sliceIter[T]{items: vals}
}

// FromSlice returns an iterator over items. The slice is not copied.
func FromSlice[T any](items []T) Iterator[T] {
	return &sliceIter[T]{items: items}
}

// Empty returns an exhausted iterator.
func Empty[T any]() Iterator[T] {
	return &sliceIter[T]{}
}

// Defer returns an iterator whose source is built by fn on the first call to
// Next. If Close is called before any Next, fn is never called.
func Defer[T any](fn func() Iterator[T]) Iterator[T] {
	return &deferIter[T]{fn: fn}
}

// --- Terminals ---

// Collect pulls every value from it and closes it. On error the values
// gathered so far are returned together with the error.
func Collect[T any](ctx context.Context, it Iterator[T]) ([]T, error) {
	defer it.Close()
	var result []T
	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		val, ok, err := it.Next(ctx)
		if err != nil {
			return result, err
		}
		if !ok {
			return result, nil
		}
		result = append(result, val)
	}
}

// ForEach pulls every value from it and calls fn for each, closing it when
// done. The first error from it or fn stops the loop.
func ForEach[T any](ctx context.Context, it Iterator[T], fn func(context.Context, T) error) error {
	defer it.Close()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		val, ok, err := it.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := fn(ctx, val); err != nil {
			return err
		}
	}
}

// --- Internal iterators ---

type sliceIter[T any] struct {
	items []T
	index int
}

func (it *sliceIter[T]) Next(_ context.Context) (T, bool, error) {
	if it.index >= len(it.items) {
		var zero T
		return zero, false, nil
	}
	val := it.items[it.index]
	it.index++
	return val, true, nil
}

func (it *sliceIter[T]) Close() error { return nil }

type deferIter[T any] struct {
	fn     func() Iterator[T]
	source Iterator[T]
	closed bool
}

func (it *deferIter[T]) Next(ctx context.Context) (T, bool, error) {
	if it.closed {
		var zero T
		return zero, false, nil
	}
	if it.source == nil {
		it.source = it.fn()
		if it.source == nil {
			it.source = Empty[T]()
		}
	}
	return it.source.Next(ctx)
}

func (it *deferIter[T]) Close() error {
	it.closed = true
	if it.source != nil {
		return it.source.Close()
	}
	return nil
}
