package schema

import "strings"

// Schema is a mapping from type name to Type, plus up to three root
// pointers (queryType/mutationType/subscriptionType). It owns its
// Types; each Type owns its Fields; each Field owns its InputValues.
// TypeRefs are values, copied freely.
type Schema struct {
	QueryType        string
	MutationType     string
	SubscriptionType string

	types map[string]*Type
	// order preserves type-insertion order so that operations with an
	// unspecified-but-deterministic tie-break (GetTypeWithoutFields) are
	// reproducible — Go map iteration order is randomized, the
	// original's dict iteration is not.
	order []string
}

// New constructs an empty Schema seeded with the built-in scalars
// {String, ID} and empty root objects named by the caller. A root name
// of "" means that root is absent.
func New(queryType, mutationType, subscriptionType string) *Schema {
	s := &Schema{
		QueryType:        queryType,
		MutationType:     mutationType,
		SubscriptionType: subscriptionType,
		types:            make(map[string]*Type),
	}
	s.AddType("String", SCALAR)
	s.AddType("ID", SCALAR)
	if queryType != "" {
		s.AddType(queryType, OBJECT)
	}
	if mutationType != "" {
		s.AddType(mutationType, OBJECT)
	}
	if subscriptionType != "" {
		s.AddType(subscriptionType, OBJECT)
	}
	return s
}

// AddType inserts an empty Type named name if absent. It is idempotent:
// a second call with the same name, regardless of kind, is a no-op —
// kind is never downgraded (or upgraded) once set.
func (s *Schema) AddType(name string, kind Kind) {
	if _, ok := s.types[name]; ok {
		return
	}
	s.types[name] = &Type{Name: name, Kind: kind}
	s.order = append(s.order, name)
}

// Type returns the Type named name, or nil if unknown.
func (s *Schema) Type(name string) *Type {
	return s.types[name]
}

// HasType reports whether name is a known type. Of the builtin scalars,
// only String and ID (seeded by New) are registered as Types.
func (s *Schema) HasType(name string) bool {
	_, ok := s.types[name]
	return ok
}

// IsBuiltinScalar reports whether name is one of {Int, Float, String,
// Boolean, ID}, which never require a Type entry.
func IsBuiltinScalar(name string) bool {
	return builtinScalars[name]
}

// Types returns the known types in insertion order.
func (s *Schema) Types() []*Type {
	out := make([]*Type, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.types[name])
	}
	return out
}

// GetTypeWithoutFields returns the name of any Type whose kind is not
// INPUT_OBJECT, whose field list is empty, and whose name is not in
// ignore. Candidates are scanned in insertion order, fixing the
// otherwise-unspecified tie-break deterministically. Returns "" when
// none remain — the discovery loop's termination signal.
func (s *Schema) GetTypeWithoutFields(ignore map[string]bool) string {
	for _, name := range s.order {
		t := s.types[name]
		if len(t.Fields) == 0 && t.Kind != INPUT_OBJECT && !ignore[name] {
			return name
		}
	}
	return ""
}

// roots returns the set of configured root type names.
func (s *Schema) roots() map[string]bool {
	r := make(map[string]bool, 3)
	for _, name := range []string{s.QueryType, s.MutationType, s.SubscriptionType} {
		if name != "" {
			r[name] = true
		}
	}
	return r
}

// GetPathFromRoot returns an ordered sequence of field names that,
// starting from the matching root operation type, reaches the type
// named name. Fails with "unknown-type" if name isn't in the schema.
func (s *Schema) GetPathFromRoot(name string) ([]string, error) {
	if _, ok := s.types[name]; !ok {
		return nil, errUnknownType(name)
	}

	roots := s.roots()
	var path []string
	target := name

	for !roots[target] {
		found := false
		for _, tname := range s.order {
			t := s.types[tname]
			for _, f := range t.Fields {
				if f.Type.Name == target {
					path = append([]string{f.Name}, path...)
					target = tname
					found = true
					break
				}
			}
			if found {
				break
			}
		}
		if !found {
			// No field anywhere returns `target`; target is unreachable
			// from any root. This indicates a schema-model invariant
			// violation equivalent to the Python original's infinite
			// loop guard never firing — surface it rather than spin.
			return nil, &ModelError{Op: "unreachable-type", Message: "type " + target + " is not reachable from any root"}
		}
	}

	path = append([]string{target}, path...)
	return path, nil
}

// ConvertPathToDocument folds path into nested selection braces with
// the literal token FUZZ at the deepest position, wrapped in the root
// operation keyword matching path's head.
func (s *Schema) ConvertPathToDocument(path []string) string {
	doc := "FUZZ"
	for i := len(path) - 1; i >= 1; i-- {
		doc = path[i] + " { " + doc + " }"
	}

	kind := s.RootKind(path[0])
	if kind == "" {
		return doc
	}
	return kind + " { " + doc + " }"
}

// RootKind reports which root path[0] (the head of a path produced by
// GetPathFromRoot) matches, as the keyword used by ConvertPathToDocument.
func (s *Schema) RootKind(rootTypeName string) string {
	switch rootTypeName {
	case s.QueryType:
		return "query"
	case s.MutationType:
		return "mutation"
	case s.SubscriptionType:
		return "subscription"
	default:
		return ""
	}
}

// RegisterNamedType registers a field or argument's return/value named
// type as INPUT_OBJECT (by the "Input" name-suffix convention spec.md
// §4.2 specifies) or OBJECT, then ensures the type exists in the
// schema. Builtin scalars are skipped; no Type entry is added for them.
func (s *Schema) RegisterNamedType(name string) {
	if name == "" || IsBuiltinScalar(name) {
		return
	}
	kind := OBJECT
	if strings.HasSuffix(name, "Input") {
		kind = INPUT_OBJECT
	}
	s.AddType(name, kind)
}
