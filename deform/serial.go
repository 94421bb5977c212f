package deform

import (
	"context"

	"github.com/kbukum/augment/jams"
	"github.com/kbukum/augment/stream"
)

// Serial applies its steps in sequence. Every output of one step is fed to
// the next, depth first, so n steps yielding k variants each produce k^n
// outputs.
type Serial struct {
	steps []Step
}

// NewSerial builds a Serial. At least one step is required and step names
// must be non-empty and unique.
func NewSerial(steps ...Step) (*Serial, error) {
	if err := checkSteps(steps); err != nil {
		return nil, err
	}
	return &Serial{steps: copySteps(steps)}, nil
}

// Steps returns a copy of the configured steps.
func (s *Serial) Steps() []Step {
	return copySteps(s.steps)
}

// Transform yields every path through the steps.
func (s *Serial) Transform(doc *jams.Document) stream.Iterator[*jams.Document] {
	it := stream.Of(doc)
	for _, step := range s.steps {
		t := step.Transformer
		it = stream.FlatMap(it, func(_ context.Context, d *jams.Document) (stream.Iterator[*jams.Document], error) {
			return t.Transform(d), nil
		})
	}
	return it
}
