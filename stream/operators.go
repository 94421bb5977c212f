package stream

import "context"

// Map transforms each value using fn.
func Map[I, O any](it Iterator[I], fn func(context.Context, I) (O, error)) Iterator[O] {
	return &mapIter[I, O]{source: it, fn: fn}
}

// FlatMap transforms each value into an iterator and flattens the results.
// Each inner iterator is drained and closed before the next source value is
// pulled.
func FlatMap[I, O any](it Iterator[I], fn func(context.Context, I) (Iterator[O], error)) Iterator[O] {
	return &flatMapIter[I, O]{source: it, fn: fn}
}

// Concat joins iterators sequentially. All values from the first are
// yielded before the second is pulled, and so on. An error from a member is
// returned unchanged.
func Concat[T any](iters ...Iterator[T]) Iterator[T] {
	return &concatIter[T]{iters: iters}
}

// Interleave pulls from its members round-robin, dropping each one once it
// is exhausted. The relative order of every member's values is preserved.
func Interleave[T any](iters ...Iterator[T]) Iterator[T] {
	live := make([]Iterator[T], len(iters))
	copy(live, iters)
	return &interleaveIter[T]{all: iters, live: live}
}

// --- Iterator implementations ---

// mapIter applies fn to each source value. Errors from the source or from
// fn end the current pull; nothing is retried.
type mapIter[I, O any] struct {
	source Iterator[I]
	fn     func(context.Context, I) (O, error)
}

func (it *mapIter[I, O]) Next(ctx context.Context) (result O, ok bool, err error) {
	val, ok, err := it.source.Next(ctx)
	if err != nil || !ok {
		var zero O
		return zero, false, err
	}
	out, err := it.fn(ctx, val)
	if err != nil {
		var zero O
		return zero, false, err
	}
	return out, true, nil
}

func (it *mapIter[I, O]) Close() error { return it.source.Close() }

// flatMapIter keeps at most one inner iterator open at a time.
type flatMapIter[I, O any] struct {
	source  Iterator[I]
	fn      func(context.Context, I) (Iterator[O], error)
	current Iterator[O]
}

func (it *flatMapIter[I, O]) Next(ctx context.Context) (result O, ok bool, err error) {
	for {
		if it.current != nil {
			val, ok, err := it.current.Next(ctx)
			if err != nil {
				var zero O
				return zero, false, err
			}
			if ok {
				return val, true, nil
			}
			_ = it.current.Close()
			it.current = nil
		}
		in, ok, err := it.source.Next(ctx)
		if err != nil || !ok {
			var zero O
			return zero, false, err
		}
		inner, err := it.fn(ctx, in)
		if err != nil {
			var zero O
			return zero, false, err
		}
		it.current = inner
	}
}

func (it *flatMapIter[I, O]) Close() error {
	if it.current != nil {
		_ = it.current.Close()
		it.current = nil
	}
	return it.source.Close()
}

// concatIter drains iters in order and closes each member as soon as it is
// exhausted. An error does not advance past the failing member: a further
// Next pulls from that member again, and Close still closes it.
type concatIter[T any] struct {
	iters []Iterator[T]
	index int
}

func (it *concatIter[T]) Next(ctx context.Context) (result T, ok bool, err error) {
	for it.index < len(it.iters) {
		val, ok, err := it.iters[it.index].Next(ctx)
		switch {
		case err != nil:
			return result, false, err
		case ok:
			return val, true, nil
		}
		closeErr := it.iters[it.index].Close()
		it.index++
		if closeErr != nil {
			return result, false, closeErr
		}
	}
	return result, false, nil
}

// Close closes the members not yet exhausted.
func (it *concatIter[T]) Close() error {
	var firstErr error
	for _, iter := range it.iters[it.index:] {
		if err := iter.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	it.index = len(it.iters)
	return firstErr
}

type interleaveIter[T any] struct {
	all  []Iterator[T]
	live []Iterator[T]
	next int
}

func (it *interleaveIter[T]) Next(ctx context.Context) (result T, ok bool, err error) {
	for len(it.live) > 0 {
		if it.next >= len(it.live) {
			it.next = 0
		}
		val, ok, err := it.live[it.next].Next(ctx)
		if err != nil {
			var zero T
			return zero, false, err
		}
		if !ok {
			it.live = append(it.live[:it.next], it.live[it.next+1:]...)
			continue
		}
		it.next++
		return val, true, nil
	}
	var zero T
	return zero, false, nil
}

func (it *interleaveIter[T]) Close() error {
	var firstErr error
	for _, iter := range it.all {
		if err := iter.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
