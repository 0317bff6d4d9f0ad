package methods

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tcroft/mcdm/pkg/core/mcdm"
)

// Registry resolves a case-insensitive method name, or a known full-name
// alias, to a method constructor.
type Registry struct {
	constructors map[string]func() Method
	aliases      map[string]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		constructors: map[string]func() Method{},
		aliases:      map[string]string{},
	}
}

// Register adds a constructor under the method's short name and records its
// full name as an alias. Registering a duplicate name or a constructor that
// produces an incomplete method fails explicitly.
func (r *Registry) Register(ctor func() Method) error {
	if ctor == nil {
		return fmt.Errorf("nil method constructor")
	}
	m := ctor()
	if m == nil || m.Name() == "" {
		return fmt.Errorf("method constructor produced no usable method")
	}
	name := strings.ToUpper(m.Name())
	if _, exists := r.constructors[name]; exists {
		return fmt.Errorf("method %q is already registered", m.Name())
	}
	r.constructors[name] = ctor
	if full := strings.ToUpper(m.FullName()); full != "" && full != name {
		r.aliases[full] = name
	}
	return nil
}

// RegisterAlias maps an extra alias onto an already registered method name.
func (r *Registry) RegisterAlias(alias, name string) error {
	canonical := strings.ToUpper(name)
	if _, exists := r.constructors[canonical]; !exists {
		return fmt.Errorf("cannot alias unregistered method %q", name)
	}
	r.aliases[strings.ToUpper(alias)] = canonical
	return nil
}

func (r *Registry) resolve(name string) (func() Method, error) {
	key := strings.ToUpper(strings.TrimSpace(name))
	if canonical, ok := r.aliases[key]; ok {
		key = canonical
	}
	ctor, ok := r.constructors[key]
	if !ok {
		return nil, mcdm.NewValidationError(
			fmt.Sprintf("MCDM method not available: %s", name),
			fmt.Sprintf("available methods: %s", strings.Join(r.Available(), ", ")))
	}
	return ctor, nil
}

// Create instantiates the method registered under name or one of its aliases.
func (r *Registry) Create(name string) (Method, error) {
	ctor, err := r.resolve(name)
	if err != nil {
		return nil, err
	}
	return ctor(), nil
}

// CreateWithParams instantiates a method and validates the parameter map
// against it before returning.
func (r *Registry) CreateWithParams(name string, params Params) (Method, error) {
	m, err := r.Create(name)
	if err != nil {
		return nil, err
	}
	if params != nil {
		if err := m.ValidateParameters(params); err != nil {
			return nil, mcdm.NewValidationError(
				fmt.Sprintf("invalid parameters for method %s", m.Name()), err.Error())
		}
	}
	return m, nil
}

// Available lists the registered short names, sorted.
func (r *Registry) Available() []string {
	names := make([]string, 0, len(r.constructors))
	for name := range r.constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MethodInfo is the registry's descriptive view of one method.
type MethodInfo struct {
	Name              string `json:"name"`
	FullName          string `json:"full_name"`
	Description       string `json:"description"`
	DefaultParameters Params `json:"default_parameters"`
}

// Info describes a registered method without executing it.
func (r *Registry) Info(name string) (MethodInfo, error) {
	m, err := r.Create(name)
	if err != nil {
		return MethodInfo{}, err
	}
	return MethodInfo{
		Name:              m.Name(),
		FullName:          m.FullName(),
		Description:       m.Description(),
		DefaultParameters: m.DefaultParameters(),
	}, nil
}

// defaultRegistry holds the four built-in method families, registered at
// startup.
var defaultRegistry = func() *Registry {
	r := NewRegistry()
	for _, ctor := range []func() Method{
		func() Method { return NewAHP() },
		func() Method { return NewELECTRE() },
		func() Method { return NewPROMETHEE() },
		func() Method { return NewTOPSIS() },
	} {
		if err := r.Register(ctor); err != nil {
			panic(err)
		}
	}
	// The literature knows ELECTRE under both the French and English
	// expansions; the French one is the registered FullName.
	if err := r.RegisterAlias("Elimination and Choice Expressing Reality", "ELECTRE"); err != nil {
		panic(err)
	}
	return r
}()

// Default returns the registry with the built-in methods.
func Default() *Registry { return defaultRegistry }

// Create resolves name against the default registry.
func Create(name string) (Method, error) { return defaultRegistry.Create(name) }

// Available lists the default registry's method names.
func Available() []string { return defaultRegistry.Available() }

// Info describes a method in the default registry.
func Info(name string) (MethodInfo, error) { return defaultRegistry.Info(name) }
