package deform

import (
	"github.com/kbukum/augment/jams"
	"github.com/kbukum/augment/stream"
)

// Union applies each step to the same input and interleaves the results
// round-robin.
type Union struct {
	steps []Step
}

// NewUnion builds a Union with the same step rules as NewSerial.
func NewUnion(steps ...Step) (*Union, error) {
	if err := checkSteps(steps); err != nil {
		return nil, err
	}
	return &Union{steps: copySteps(steps)}, nil
}

// Steps returns a copy of the configured steps.
func (u *Union) Steps() []Step {
	return copySteps(u.steps)
}

// Transform interleaves the outputs of every step applied to doc.
func (u *Union) Transform(doc *jams.Document) stream.Iterator[*jams.Document] {
	iters := make([]stream.Iterator[*jams.Document], len(u.steps))
	for i, step := range u.steps {
		t := step.Transformer
		iters[i] = stream.Defer(func() stream.Iterator[*jams.Document] {
			return t.Transform(doc)
		})
	}
	return stream.Interleave(iters...)
}
