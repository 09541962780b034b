package engine

import (
	"fmt"
	"image"
	"image/color"
	"sort"

	"github.com/mitchellh/mapstructure"
)

// Settings are the image settings operators may change for later operators
// and for the final write.
type Settings struct {
	Quality    int
	Background color.Color
}

func defaultSettings() *Settings {
	return &Settings{Background: color.White}
}

// Operator is one command-line option of the built-in engine, applied in
// command order to every image read so far.
type Operator interface {
	Name() string
	Apply(images []image.Image, settings *Settings) ([]image.Image, error)
}

// OperatorFactory builds an operator from its parameters. Options taking an
// argument receive it under the "value" key.
type OperatorFactory func(params map[string]any) (Operator, error)

type registration struct {
	arity   int
	factory OperatorFactory
}

// OperatorRegistry maps option names (without the leading dash) to factories.
type OperatorRegistry struct {
	factories map[string]registration
}

func NewOperatorRegistry() *OperatorRegistry {
	return &OperatorRegistry{factories: make(map[string]registration)}
}

// Register adds a factory; arity is the number of arguments the option consumes.
func (r *OperatorRegistry) Register(name string, arity int, factory OperatorFactory) error {
	if name == "" {
		return fmt.Errorf("operator name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("operator factory cannot be nil")
	}
	if arity < 0 || arity > 1 {
		return fmt.Errorf("operator %s: unsupported arity %d", name, arity)
	}
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("operator %s is already registered", name)
	}
	r.factories[name] = registration{arity: arity, factory: factory}
	return nil
}

// Arity reports the argument count of a registered operator.
func (r *OperatorRegistry) Arity(name string) (int, bool) {
	reg, ok := r.factories[name]
	return reg.arity, ok
}

// Create instantiates an operator by name with the given parameters
func (r *OperatorRegistry) Create(name string, params map[string]any) (Operator, error) {
	reg, exists := r.factories[name]
	if !exists {
		return nil, fmt.Errorf("unknown operator: %s", name)
	}
	return reg.factory(params)
}

func (r *OperatorRegistry) IsRegistered(name string) bool {
	_, exists := r.factories[name]
	return exists
}

// RegisteredNames returns the operator names in sorted order.
func (r *OperatorRegistry) RegisteredNames() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry holds the built-in operators.
var DefaultRegistry = NewOperatorRegistry()

// decodeParams decodes a parameter map into a typed struct, converting
// string arguments to the field types and rejecting unknown keys.
func decodeParams(params map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(params); err != nil {
		return fmt.Errorf("invalid argument: %w", err)
	}
	return nil
}
