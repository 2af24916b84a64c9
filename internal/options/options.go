// Package options implements the functional option pattern used by plugin.Open
// and archive.NewDirArchiver.
package options

import "fmt"

// Option configures a target of type T.
type Option[T any] interface {
	apply(T) error
}

// Func is an Option backed by a function.
type Func[T any] struct {
	name      string
	applyFunc func(T) error
}

func (f *Func[T]) apply(target T) error {
	return f.applyFunc(target)
}

// String returns the option name, used in error messages.
func (f *Func[T]) String() string {
	return f.name
}

// New creates an option that may fail. The name identifies the option in errors.
func New[T any](name string, fn func(T) error) *Func[T] {
	return &Func[T]{name: name, applyFunc: fn}
}

// NoError creates an option that cannot fail.
func NoError[T any](name string, fn func(T)) *Func[T] {
	return &Func[T]{
		name: name,
		applyFunc: func(target T) error {
			fn(target)
			return nil
		},
	}
}

// Apply applies opts to target in order and stops at the first error. Nil
// options are skipped.
func Apply[T any](target T, opts ...Option[T]) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt.apply(target); err != nil {
			if s, ok := opt.(fmt.Stringer); ok && s.String() != "" {
				return fmt.Errorf("option %s: %w", s.String(), err)
			}

			return err
		}
	}

	return nil
}
