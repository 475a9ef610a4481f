package schema

import "fmt"

// ModelError reports a schema-model invariant violation: an unknown
// type name handed to a path/lookup operation, or a TypeRef combination
// outside the five the introspection wire format supports. These are
// the "fatal" tier in the error taxonomy — callers should treat them as
// a bug or a server speaking a materially different dialect, not retry.
type ModelError struct {
	Op      string
	Message string
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("schema: %s: %s", e.Op, e.Message)
}

func errUnknownType(name string) error {
	return &ModelError{Op: "unknown-type", Message: fmt.Sprintf("type %q not in schema", name)}
}

func errUnsupportedShape(t TypeRef) error {
	return &ModelError{
		Op: "unsupported-type-shape",
		Message: fmt.Sprintf(
			"typeref %+v does not match any of the supported shapes T, T!, [T], [T!], [T!]!", t,
		),
	}
}
