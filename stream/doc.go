// Package stream provides lazy, pull-based iterators used to carry document
// variants through transformer chains.
//
// No work happens until a value is pulled. Each operator pulls from its
// members on demand, so a consumer that stops early never pays for values it
// did not ask for.
//
//   - Of, FromSlice, Empty: fixed sources
//   - Defer: build the source on first pull
//   - Concat: members one after another
//   - Interleave: members round-robin
//   - Map, FlatMap: per-element transforms
//   - Collect, ForEach: terminals that drain and close
//
// # Usage
//
//	it := stream.Concat(stream.Of(doc), stream.Defer(func() stream.Iterator[*jams.Document] {
//	    return inner.Transform(doc)
//	}))
//	variants, err := stream.Collect(ctx, it)
package stream
