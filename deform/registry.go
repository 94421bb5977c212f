package deform

import (
	"fmt"
	"sort"
	"sync"

	"github.com/go-viper/mapstructure/v2"

	"github.com/kbukum/augment/errors"
	"github.com/kbukum/augment/validation"
)

// Built-in stage types.
const (
	TypeBypass      = "bypass"
	TypeSerial      = "serial"
	TypeUnion       = "union"
	TypeTimeStretch = "timestretch"
	TypeIdentity    = "identity"
)

// StageSpec describes one node of a stage tree, usually read from config.
type StageSpec struct {
	Name   string         `yaml:"name" mapstructure:"name" validate:"required"`
	Type   string         `yaml:"type" mapstructure:"type" validate:"required"`
	Params map[string]any `yaml:"params" mapstructure:"params"`
	Stages []StageSpec    `yaml:"stages" mapstructure:"stages" validate:"dive"`
}

// Factory builds a stage from its spec and already-built children.
// Factories return any because they may come from outside this package;
// Registry.Build checks the result.
type Factory func(spec StageSpec, children []any) (any, error)

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithStageMiddleware wraps every built stage with the middleware returned
// for its name.
func WithStageMiddleware(fn func(stage string) Middleware) RegistryOption {
	return func(r *Registry) {
		r.middleware = fn
	}
}

// Registry maps stage type names to factories.
type Registry struct {
	mu         sync.RWMutex
	factories  map[string]Factory
	middleware func(stage string) Middleware
}

// NewRegistry creates an empty Registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// DefaultRegistry creates a Registry with the built-in stage types.
func DefaultRegistry(opts ...RegistryOption) *Registry {
	r := NewRegistry(opts...)
	r.Register(TypeBypass, bypassFactory)
	r.Register(TypeSerial, serialFactory)
	r.Register(TypeUnion, unionFactory)
	r.Register(TypeTimeStretch, timeStretchFactory)
	r.Register(TypeIdentity, identityFactory)
	return r
}

// Register adds or replaces the factory for a stage type.
func (r *Registry) Register(stageType string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[stageType] = factory
}

// Types returns the registered stage types, sorted.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build validates spec and builds the stage tree it describes, children
// first.
func (r *Registry) Build(spec StageSpec) (Transformer, error) {
	if err := validation.Validate(spec); err != nil {
		return nil, err
	}
	return r.build(spec)
}

func (r *Registry) build(spec StageSpec) (Transformer, error) {
	r.mu.RLock()
	factory, ok := r.factories[spec.Type]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.NotFound("stage type", spec.Type).WithDetail("stage", spec.Name)
	}

	children := make([]any, len(spec.Stages))
	for i, child := range spec.Stages {
		t, err := r.build(child)
		if err != nil {
			return nil, err
		}
		children[i] = t
	}

	v, err := factory(spec, children)
	if err != nil {
		return nil, fmt.Errorf("building stage %q: %w", spec.Name, err)
	}
	t, ok := v.(Transformer)
	if !ok || isNil(t) {
		return nil, errors.InvalidArgument("transformer",
			fmt.Sprintf("stage %q: factory for %q returned %s", spec.Name, spec.Type, typeName(v)))
	}
	if r.middleware != nil {
		if mw := r.middleware(spec.Name); mw != nil {
			t = mw(t)
		}
	}
	return t, nil
}

// --- built-in factories ---

func bypassFactory(spec StageSpec, children []any) (any, error) {
	if err := validation.New().Count("stages", len(children), 1, 1).Validate(); err != nil {
		return nil, err
	}
	return BypassOf(children[0])
}

func serialFactory(spec StageSpec, children []any) (any, error) {
	steps, err := stepsOf(spec, children)
	if err != nil {
		return nil, err
	}
	return NewSerial(steps...)
}

func unionFactory(spec StageSpec, children []any) (any, error) {
	steps, err := stepsOf(spec, children)
	if err != nil {
		return nil, err
	}
	return NewUnion(steps...)
}

type timeStretchParams struct {
	Rates []float64 `mapstructure:"rates"`
}

func timeStretchFactory(spec StageSpec, children []any) (any, error) {
	if err := validation.New().Count("stages", len(children), 0, 0).Validate(); err != nil {
		return nil, err
	}
	var params timeStretchParams
	if err := decodeParams(spec.Params, &params); err != nil {
		return nil, err
	}
	return NewTimeStretch(params.Rates...)
}

func identityFactory(_ StageSpec, children []any) (any, error) {
	if err := validation.New().Count("stages", len(children), 0, 0).Validate(); err != nil {
		return nil, err
	}
	return Identity, nil
}

func stepsOf(spec StageSpec, children []any) ([]Step, error) {
	if err := validation.New().Count("stages", len(children), 1, -1).Validate(); err != nil {
		return nil, err
	}
	steps := make([]Step, len(children))
	for i, c := range children {
		t, ok := c.(Transformer)
		if !ok {
			return nil, errors.InvalidArgument("transformer", invalidTransformerReason).
				WithDetail("stage", spec.Stages[i].Name)
		}
		steps[i] = Step{Name: spec.Stages[i].Name, Transformer: t}
	}
	return steps, nil
}

func decodeParams(params map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return errors.Internal(err)
	}
	if err := dec.Decode(params); err != nil {
		return errors.InvalidInput("params", err.Error()).WithCause(err)
	}
	return nil
}
