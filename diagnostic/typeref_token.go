package diagnostic

import "strings"

// TypeRefFacts is the decoded form of a bracketed/bang-suffixed type
// token (e.g. "[User!]!") as it appears embedded in a diagnostic
// message — everything ParseTypeRefToken can recover about a TypeRef
// without consulting the schema. Field names kept deliberately close to
// schema.TypeRef's so callers can build one directly.
type TypeRefFacts struct {
	Name               string
	IsInputObject      bool
	IsBuiltinScalar    bool
	IsList             bool
	IsListItemNullable bool
	IsNullable         bool
}

// ParseTypeRefToken decodes a token matching
// [_A-Za-z\[\]!][_0-9a-zA-Z\[\]!]* per spec.md §4.2:
//   - IsList: tk contains both '[' and ']'
//   - IsListItemNullable: IsList and NOT tk contains "!]" (false for
//     non-list tokens, as in schema.NamedRef)
//   - IsNullable: NOT tk ends with '!'
//   - Name: tk with all '!', '[', ']' removed
//   - IsInputObject: Name ends with "Input"
//   - IsBuiltinScalar: Name is one of {Int, Float, String, Boolean, ID}
//
// ok is false if tk doesn't match the token grammar at all.
func ParseTypeRefToken(tk string) (TypeRefFacts, bool) {
	if !typerefTokenRe.MatchString(tk) {
		return TypeRefFacts{}, false
	}

	isList := strings.Contains(tk, "[") && strings.Contains(tk, "]")
	nonNullItem := isList && strings.Contains(tk, "!]")
	nonNull := strings.HasSuffix(tk, "!")
	name := strings.NewReplacer("!", "", "[", "", "]", "").Replace(tk)

	return TypeRefFacts{
		Name:               name,
		IsInputObject:      strings.HasSuffix(name, "Input"),
		IsBuiltinScalar:    isBuiltinScalarName(name),
		IsList:             isList,
		IsListItemNullable: isList && !nonNullItem,
		IsNullable:         !nonNull,
	}, true
}

func isBuiltinScalarName(name string) bool {
	switch name {
	case "Int", "Float", "String", "Boolean", "ID":
		return true
	default:
		return false
	}
}
