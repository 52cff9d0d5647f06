package runtime

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUndefinedVariable is wrapped by lookups and assignments that find no
// binding.
var ErrUndefinedVariable = errors.New("undefined variable")

// Environment is one lexical scope. Closures keep their defining
// environment alive by holding a pointer to it.
type Environment struct {
	values map[string]Value
	parent *Environment
}

// NewEnvironment creates a new environment, optionally nested under a parent.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		values: make(map[string]Value),
		parent: parent,
	}
}

// Parent exposes the lexical parent (nil when global).
func (e *Environment) Parent() *Environment {
	return e.parent
}

// Define inserts or shadows a binding in the current scope.
func (e *Environment) Define(name string, value Value) {
	e.values[name] = value
}

// Delete removes a binding from the current scope, ignoring parents.
func (e *Environment) Delete(name string) {
	delete(e.values, name)
}

// Has reports whether name is bound in this scope, ignoring parents.
func (e *Environment) Has(name string) bool {
	_, ok := e.values[name]
	return ok
}

// Get retrieves a binding, searching outward through the scope chain.
func (e *Environment) Get(name string) (Value, error) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.values[name]; ok {
			return v, nil
		}
	}
	return nil, undefined(name)
}

// Assign updates an existing binding in the first scope where it appears.
// It never creates a binding.
func (e *Environment) Assign(name string, value Value) error {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.values[name]; ok {
			env.values[name] = value
			return nil
		}
	}
	return undefined(name)
}

// Ancestor returns the environment distance hops up the chain, or nil when
// the chain is shorter than that.
func (e *Environment) Ancestor(distance int) *Environment {
	env := e
	for i := 0; i < distance && env != nil; i++ {
		env = env.parent
	}
	return env
}

// GetAt reads name from exactly the scope distance hops away.
func (e *Environment) GetAt(distance int, name string) (Value, error) {
	env := e.Ancestor(distance)
	if env == nil {
		return nil, undefined(name)
	}
	v, ok := env.values[name]
	if !ok {
		return nil, undefined(name)
	}
	return v, nil
}

// AssignAt overwrites name in exactly the scope distance hops away.
func (e *Environment) AssignAt(distance int, name string, value Value) error {
	env := e.Ancestor(distance)
	if env == nil || !env.Has(name) {
		return undefined(name)
	}
	env.values[name] = value
	return nil
}

// Keys returns the bindings in sorted order (useful for determinism in tests).
func (e *Environment) Keys() []string {
	keys := make([]string, 0, len(e.values))
	for k := range e.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func undefined(name string) error {
	return fmt.Errorf("%w '%s'", ErrUndefinedVariable, name)
}
