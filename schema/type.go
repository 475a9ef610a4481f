package schema

// InputValue is a named argument (on an output field) or a named
// input-object member (no arguments of its own). Default values and
// descriptions are never populated — the oracle has no way to observe
// them.
type InputValue struct {
	Name string
	Type TypeRef
}

// Field is a named selection within an Object, Interface, or
// InputObject. Args is empty for input-object members.
type Field struct {
	Name string
	Type TypeRef
	Args []InputValue
}

// AddArg appends arg, rejecting a duplicate name (spec.md §3: "Arguments
// are compared by name; duplicates are rejected").
func (f *Field) AddArg(arg InputValue) bool {
	for _, a := range f.Args {
		if a.Name == arg.Name {
			return false
		}
	}
	f.Args = append(f.Args, arg)
	return true
}

// Type is a named schema entity: an object, interface, input object, or
// scalar. Fields of OBJECT/INTERFACE are output fields (may carry
// arguments); fields of INPUT_OBJECT are input fields (never carry
// arguments). Scalars carry no fields.
type Type struct {
	Name   string
	Kind   Kind
	Fields []Field
}

// AddField appends f, rejecting a duplicate field name.
func (t *Type) AddField(f Field) bool {
	for _, existing := range t.Fields {
		if existing.Name == f.Name {
			return false
		}
	}
	t.Fields = append(t.Fields, f)
	return true
}

// HasField reports whether name is already a known field of t.
func (t *Type) HasField(name string) bool {
	for _, f := range t.Fields {
		if f.Name == name {
			return true
		}
	}
	return false
}
