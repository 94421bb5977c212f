// Package deform composes document transformers.
//
// A Transformer maps one annotated document to a lazy sequence of variants.
// Nothing runs until the caller pulls from the returned iterator.
//
//	stretch, _ := deform.NewTimeStretch(0.9, 1.1)
//	bypass, _ := deform.NewBypass(stretch)
//	variants, err := stream.Collect(ctx, bypass.Transform(doc))
//	// variants[0] == doc, followed by the two stretched copies
//
// Composition:
//
//   - Bypass: the input, then everything the wrapped transformer yields
//   - Serial: each step applied to every output of the previous step
//   - Union: several transformers on the same input, interleaved
//
// Stage trees can also be built from configuration through a Registry.
// Middleware adds logging, tracing, and metrics around any stage.
package deform
