package deform

import (
	"fmt"

	"github.com/kbukum/augment/errors"
)

// Step is a named transformer inside a Serial or Union.
type Step struct {
	Name        string
	Transformer Transformer
}

func checkSteps(steps []Step) error {
	if len(steps) == 0 {
		return errors.InvalidArgument("steps", "at least one step is required")
	}
	seen := make(map[string]bool, len(steps))
	for i, s := range steps {
		if s.Name == "" {
			return errors.InvalidArgument("steps", fmt.Sprintf("step %d has no name", i))
		}
		if seen[s.Name] {
			return errors.InvalidArgument("steps", fmt.Sprintf("duplicate step name %q", s.Name))
		}
		seen[s.Name] = true
		if isNil(s.Transformer) {
			return errors.InvalidArgument("steps", fmt.Sprintf("step %q: %s", s.Name, invalidTransformerReason))
		}
	}
	return nil
}

func copySteps(steps []Step) []Step {
	out := make([]Step, len(steps))
	copy(out, steps)
	return out
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", v)
}
