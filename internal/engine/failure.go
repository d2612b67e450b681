package engine

import (
	"errors"
	"fmt"
)

// Kind identifies the category of an engine failure.
type Kind int

const (
	KindUnexpected Kind = iota
	KindUnsupportedImage
	KindMissingDependency
	KindDependencyLoad
	KindTypeLoad
)

func (k Kind) String() string {
	switch k {
	case KindUnsupportedImage:
		return "unsupported_image"
	case KindMissingDependency:
		return "missing_dependency"
	case KindDependencyLoad:
		return "dependency_load"
	case KindTypeLoad:
		return "type_load"
	default:
		return "unexpected"
	}
}

// Failure is an error raised while loading or exploring a binary.
type Failure struct {
	Kind   Kind
	Source string
	// Name is the dependency file name for dependency failures and the
	// type name for type-load failures.
	Name       string
	Message    string
	Underlying error
}

// Error implements the error interface.
func (f *Failure) Error() string {
	msg := f.Message
	if msg == "" {
		msg = f.Kind.String()
	}
	if f.Name != "" {
		msg = fmt.Sprintf("%s (%s)", msg, f.Name)
	}
	if f.Underlying != nil {
		return fmt.Sprintf("%s: %s: %v", f.Source, msg, f.Underlying)
	}
	return fmt.Sprintf("%s: %s", f.Source, msg)
}

// Unwrap returns the underlying error.
func (f *Failure) Unwrap() error {
	return f.Underlying
}

// NewFailure creates a Failure of the given kind.
func NewFailure(kind Kind, source, name, msg string) *Failure {
	return &Failure{
		Kind:    kind,
		Source:  source,
		Name:    name,
		Message: msg,
	}
}

// AsFailure extracts a *Failure from err's chain.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
