package schema

import "encoding/json"

// Kind tags a Type or a TypeRef use site.
type Kind string

const (
	SCALAR       Kind = "SCALAR"
	OBJECT       Kind = "OBJECT"
	INTERFACE    Kind = "INTERFACE"
	UNION        Kind = "UNION"
	ENUM         Kind = "ENUM"
	INPUT_OBJECT Kind = "INPUT_OBJECT"
	LIST         Kind = "LIST"
	NON_NULL     Kind = "NON_NULL"
)

// builtinScalars is the set of scalar names that never need a Type
// entry of their own; schema.New seeds the type map with String and ID
// only.
var builtinScalars = map[string]bool{
	"Int":     true,
	"Float":   true,
	"String":  true,
	"Boolean": true,
	"ID":      true,
}

// TypeRef is a value-typed reference to a type at a use site: a field's
// return type or an argument's declared type. Only the five
// combinations the GraphQL introspection wire format supports are
// representable on the wire: T, T!, [T], [T!], [T!]!.
type TypeRef struct {
	Name               string
	Kind               Kind
	IsList             bool
	IsListItemNullable bool
	IsNullable         bool
}

// NamedRef builds a plain, nullable reference to a named type (the "T"
// shape).
func NamedRef(name string, kind Kind) TypeRef {
	return TypeRef{Name: name, Kind: kind, IsNullable: true}
}

// typeRefWire is the canonical introspection-JSON nesting of a TypeRef:
// NON_NULL around LIST around NON_NULL around the named type.
type typeRefWire struct {
	Kind   Kind         `json:"kind"`
	Name   *string      `json:"name"`
	OfType *typeRefWire `json:"ofType"`
}

func namedWire(name string, kind Kind) *typeRefWire {
	n := name
	return &typeRefWire{Kind: kind, Name: &n}
}

// toWire encodes t into the canonical nested form. Fails with
// "unsupported-type-shape" for any combination outside {T, T!, [T],
// [T!], [T!]!}.
func (t TypeRef) toWire() (*typeRefWire, error) {
	named := namedWire(t.Name, t.Kind)

	switch {
	case !t.IsList && t.IsNullable:
		// T
		return named, nil
	case !t.IsList && !t.IsNullable:
		// T!
		return &typeRefWire{Kind: NON_NULL, OfType: named}, nil
	case t.IsList && t.IsListItemNullable && t.IsNullable:
		// [T]
		return &typeRefWire{Kind: LIST, OfType: named}, nil
	case t.IsList && !t.IsListItemNullable && t.IsNullable:
		// [T!]
		return &typeRefWire{
			Kind:   LIST,
			OfType: &typeRefWire{Kind: NON_NULL, OfType: named},
		}, nil
	case t.IsList && !t.IsListItemNullable && !t.IsNullable:
		// [T!]!
		return &typeRefWire{
			Kind: NON_NULL,
			OfType: &typeRefWire{
				Kind:   LIST,
				OfType: &typeRefWire{Kind: NON_NULL, OfType: named},
			},
		}, nil
	default:
		// t.IsList && t.IsListItemNullable && !t.IsNullable → "[T]!",
		// not one of the five supported shapes.
		return nil, errUnsupportedShape(t)
	}
}

// MarshalJSON encodes t in the canonical introspection nesting.
func (t TypeRef) MarshalJSON() ([]byte, error) {
	wire, err := t.toWire()
	if err != nil {
		return nil, err
	}
	return json.Marshal(wire)
}

// UnmarshalJSON decodes the canonical introspection nesting back into a
// TypeRef. Mirrors the original's field_or_arg_type_from_json: only
// nesting depths of 0-3 "ofType" hops are understood.
func (t *TypeRef) UnmarshalJSON(data []byte) error {
	var wire typeRefWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	ref, err := fromWire(&wire)
	if err != nil {
		return err
	}
	*t = ref
	return nil
}

func fromWire(w *typeRefWire) (TypeRef, error) {
	if w.Kind != NON_NULL && w.Kind != LIST {
		return TypeRef{Name: deref(w.Name), Kind: w.Kind, IsNullable: true}, nil
	}

	if w.OfType == nil {
		return TypeRef{}, &ModelError{Op: "unsupported-type-shape", Message: "NON_NULL/LIST with nil ofType"}
	}

	if w.OfType.OfType == nil {
		// depth 1: T! or [T]
		inner := w.OfType
		switch w.Kind {
		case NON_NULL:
			return TypeRef{Name: deref(inner.Name), Kind: inner.Kind, IsNullable: false}, nil
		case LIST:
			return TypeRef{
				Name: deref(inner.Name), Kind: inner.Kind,
				IsList: true, IsListItemNullable: true, IsNullable: true,
			}, nil
		}
	}

	if w.OfType.OfType.OfType == nil {
		// depth 2: [T!] (NON_NULL at this depth is meaningless/unused)
		inner := w.OfType.OfType
		if w.Kind == LIST {
			return TypeRef{
				Name: deref(inner.Name), Kind: inner.Kind,
				IsList: true, IsListItemNullable: false, IsNullable: true,
			}, nil
		}
		// NON_NULL wrapping a LIST wrapping a plain type isn't expected
		// at this depth without a third hop; fall through to error.
	} else if w.OfType.OfType.OfType.OfType == nil {
		// depth 3: [T!]!
		inner := w.OfType.OfType.OfType
		return TypeRef{
			Name: deref(inner.Name), Kind: inner.Kind,
			IsList: true, IsListItemNullable: false, IsNullable: false,
		}, nil
	}

	return TypeRef{}, &ModelError{Op: "unsupported-type-shape", Message: "typeref does not match T, T!, [T], [T!], or [T!]!"}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
