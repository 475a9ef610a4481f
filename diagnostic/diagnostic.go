// Package diagnostic turns the natural-language error strings a
// standards-conforming GraphQL engine returns for a malformed query
// into typed facts: valid field names, valid argument names, valid
// input-object member names, type references, and the typename of the
// current selection context.
//
// Every pattern below is declared in the one var block. The class
// patterns are anchored full-string matches (not substring); the two
// name extractors used by InvalidField and InvalidArg are unanchored
// and match anywhere in the message. Each extraction function tries
// its patterns in a fixed priority order, and the first match wins.
package diagnostic

import "regexp"

var (
	noSubfieldsRe = regexp.MustCompile(
		`^Field "[_A-Za-z][_0-9A-Za-z]*" must not have a selection since type "([0-9a-zA-Z\[\]!]+)" has no subfields\.$`)

	multiSuggestionFieldRe = regexp.MustCompile(
		`^Cannot query field "([_A-Za-z][_0-9A-Za-z]*)" on type "[_A-Za-z][_0-9A-Za-z]*"\. Did you mean ((?:"[_A-Za-z][_0-9A-Za-z]*", )+)(?:or "([_A-Za-z][_0-9A-Za-z]*)")?\?$`)

	orSuggestionFieldRe = regexp.MustCompile(
		`^Cannot query field "[_A-Za-z][_0-9A-Za-z]*" on type "[_A-Za-z][_0-9A-Za-z]*"\. Did you mean "([_A-Za-z][_0-9A-Za-z]*)" or "([_A-Za-z][_0-9A-Za-z]*)"\?$`)

	singleSuggestionFieldRe = regexp.MustCompile(
		`^Cannot query field "([_A-Za-z][_0-9A-Za-z]*)" on type "[_A-Za-z][_0-9A-Za-z]*"\. Did you mean "([_A-Za-z][_0-9A-Za-z]*)"\?$`)

	unknownFieldRe = regexp.MustCompile(
		`^Cannot query field "[_A-Za-z][_0-9A-Za-z]*" on type "[_A-Za-z][_0-9A-Za-z]*"\.$`)

	unknownFieldTypenameRe = regexp.MustCompile(
		`^Cannot query field "[_A-Za-z][_0-9A-Za-z]*" on type "([_A-Za-z][_0-9A-Za-z]*)"\.$`)

	selectionRequiredRe = regexp.MustCompile(
		`^Field "([_A-Za-z][_0-9A-Za-z]*)" of type "([_A-Za-z\[\]!][_0-9a-zA-Z\[\]!]*)" must have a selection of subfields\. Did you mean "[_A-Za-z][_0-9A-Za-z]* \{ \.\.\. \}"\?$`)

	unknownArgRe = regexp.MustCompile(
		`^Unknown argument "[_A-Za-z][_0-9A-Za-z]*" on field "[_A-Za-z][_0-9A-Za-z.]*" of type "[_A-Za-z][_0-9A-Za-z]*"\.$`)

	singleSuggestionArgRe = regexp.MustCompile(
		`^Unknown argument "[_A-Za-z][_0-9A-Za-z]*" on field "[_A-Za-z][_0-9A-Za-z.]*" of type "[_A-Za-z][_0-9A-Za-z]*"\. Did you mean "([_A-Za-z][_0-9A-Za-z]*)"\?$`)

	doubleSuggestionArgRe = regexp.MustCompile(
		`^Unknown argument "[_A-Za-z][_0-9A-Za-z]*" on field "[_A-Za-z][_0-9A-Za-z.]*" of type "[_A-Za-z][_0-9A-Za-z]*"\. Did you mean "([_A-Za-z][_0-9A-Za-z]*)" or "([_A-Za-z][_0-9A-Za-z]*)"\?$`)

	argRequiredRe = regexp.MustCompile(
		`^Field "[_A-Za-z][_0-9A-Za-z]*" argument "[_A-Za-z][_0-9A-Za-z]*" of type "[_A-Za-z\[\]!][_0-9a-zA-Z\[\]!]*" is required, but it was not provided\.$`)

	argRequiredTyperefRe = regexp.MustCompile(
		`^Field "[_A-Za-z][_0-9A-Za-z]*" argument "[_A-Za-z][_0-9A-Za-z]*" of type "([_A-Za-z\[\]!][_0-9a-zA-Z\[\]!]*)" is required, but it was not provided\.$`)

	expectedTypeRe = regexp.MustCompile(
		`^Expected type ([_A-Za-z\[\]!][_0-9a-zA-Z\[\]!]*), found .+\.$`)

	inputFieldRequiredRe = regexp.MustCompile(
		`^Field ([_A-Za-z][_0-9A-Za-z]*)\.([_A-Za-z][_0-9A-Za-z]*) of required type [_A-Za-z\[\]!][_0-9a-zA-Z\[\]!]* was not provided\.$`)

	inputFieldNotDefinedRe = regexp.MustCompile(
		`^Field "([_A-Za-z][_0-9A-Za-z]*)" is not defined by type "?[_A-Za-z][_0-9A-Za-z]*"?\.$`)

	cannotQueryFieldRe = regexp.MustCompile(
		`Cannot query field "([_A-Za-z][_0-9A-Za-z]*)"`)

	unknownArgNameRe = regexp.MustCompile(
		`Unknown argument "([_A-Za-z][_0-9A-Za-z]*)" on field "[_A-Za-z][_0-9A-Za-z.]*"`)

	typerefTokenRe = regexp.MustCompile(`^[_A-Za-z\[\]!][_0-9a-zA-Z\[\]!]*$`)
)

// NoSubfields reports whether message is the "has no subfields"
// diagnostic that signals the current context is a scalar and probing
// should stop. When true, field/arg probes return the empty set
// regardless of wordlist (spec.md §8 property 5).
func NoSubfields(message string) bool {
	return noSubfieldsRe.MatchString(message)
}

// ValidFieldSuggestions extracts every field name suggested by a
// "Cannot query field" diagnostic: zero, one, or many names depending
// on which of the multi/or/single-suggestion classes matched. Returns
// nil (no suggestions, field simply invalid) for unknown-field and
// no-subfields messages, and for any unrecognized message.
func ValidFieldSuggestions(message string) []string {
	if NoSubfields(message) {
		return nil
	}

	if m := multiSuggestionFieldRe.FindStringSubmatch(message); m != nil {
		var names []string
		for _, quoted := range regexp.MustCompile(`"([_A-Za-z][_0-9A-Za-z]*)"`).FindAllStringSubmatch(m[2], -1) {
			names = append(names, quoted[1])
		}
		if m[3] != "" {
			names = append(names, m[3])
		}
		return names
	}
	if m := orSuggestionFieldRe.FindStringSubmatch(message); m != nil {
		return []string{m[1], m[2]}
	}
	if m := singleSuggestionFieldRe.FindStringSubmatch(message); m != nil {
		return []string{m[2]}
	}
	if unknownFieldRe.MatchString(message) {
		return nil
	}
	if m := selectionRequiredRe.FindStringSubmatch(message); m != nil {
		// The field itself ("f" in "Field \"f\" ... must have a
		// selection") is valid; its TypeRef is recovered separately by
		// FieldTypeRef.
		return []string{m[1]}
	}
	return nil
}

// InvalidField extracts the field name reported as unqueryable by a
// "Cannot query field" diagnostic (any of its sub-classes), so callers
// can discard it from a probe's working set. Returns "" if message
// isn't a "Cannot query field" diagnostic.
func InvalidField(message string) string {
	if m := cannotQueryFieldRe.FindStringSubmatch(message); m != nil {
		return m[1]
	}
	return ""
}

// ValidArgSuggestions extracts argument names suggested by an "Unknown
// argument" diagnostic. The skip patterns (argument required,
// selection-required, a bare "Unknown argument ... on field ... of
// type ...." with no suggestion) yield no names.
func ValidArgSuggestions(message string) []string {
	if unknownArgRe.MatchString(message) ||
		selectionRequiredRe.MatchString(message) ||
		argRequiredRe.MatchString(message) {
		return nil
	}
	if m := doubleSuggestionArgRe.FindStringSubmatch(message); m != nil {
		return []string{m[1], m[2]}
	}
	if m := singleSuggestionArgRe.FindStringSubmatch(message); m != nil {
		return []string{m[1]}
	}
	return nil
}

// InvalidArg extracts the argument name reported as unknown by an
// "Unknown argument" diagnostic. Returns "" if message doesn't match.
func InvalidArg(message string) string {
	if m := unknownArgNameRe.FindStringSubmatch(message); m != nil {
		return m[1]
	}
	return ""
}

// ValidInputField extracts the member name revealed by a "Field T.f of
// required type TR was not provided." diagnostic, along with the
// containing input type's name. ok is false if message doesn't match.
func ValidInputField(message string) (typeName, fieldName string, ok bool) {
	m := inputFieldRequiredRe.FindStringSubmatch(message)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// InvalidInputField extracts the member name reported as not defined by
// an input type, so callers can discard it from a probe's working set.
func InvalidInputField(message string) (fieldName string, ok bool) {
	m := inputFieldNotDefinedRe.FindStringSubmatch(message)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// FieldContext and InputValueContext select which regex family
// FieldOrArgTypeRef consults — the original's probe_typeref dispatches
// on a string literal ("Field" vs "InputValue"); named constants make
// the call sites self-documenting.
type Context int

const (
	FieldContext Context = iota
	InputValueContext
)

// FieldOrArgTypeRef extracts the TypeRef token embedded in a
// diagnostic, for either a field's return type or an argument's
// declared type, and decodes it via ParseTypeRefToken. Returns ok=false
// if no pattern in ctx's family matches.
func FieldOrArgTypeRef(message string, ctx Context) (tr TypeRefFacts, ok bool) {
	var token string

	switch ctx {
	case FieldContext:
		if m := selectionRequiredRe.FindStringSubmatch(message); m != nil {
			token = m[2]
			break
		}
		if m := noSubfieldsRe.FindStringSubmatch(message); m != nil {
			token = m[1]
			break
		}
		if m := unknownFieldTypenameRe.FindStringSubmatch(message); m != nil {
			token = m[1]
			break
		}
	case InputValueContext:
		// The selection-required message is a deliberate skip here:
		// it's the field-context signal, and if it shows up while
		// probing an argument's TypeRef it must not be misread as one.
		if selectionRequiredRe.MatchString(message) {
			return TypeRefFacts{}, false
		}
		if m := argRequiredTyperefRe.FindStringSubmatch(message); m != nil {
			token = m[1]
			break
		}
		if m := expectedTypeRe.FindStringSubmatch(message); m != nil {
			token = m[1]
			break
		}
	}

	if token == "" {
		return TypeRefFacts{}, false
	}
	return ParseTypeRefToken(token)
}

// Typename extracts the typename of the current selection context from
// the diagnostic produced when probing with the fixed unlikely field
// name "imwrongfield": either a "Cannot query field" diagnostic or the
// no-subfields phrasing. Returns ok=false if message matches neither.
func Typename(message string) (name string, ok bool) {
	if m := unknownFieldTypenameRe.FindStringSubmatch(message); m != nil {
		return stripTypeModifiers(m[1]), true
	}
	if m := noSubfieldsRe.FindStringSubmatch(message); m != nil {
		return stripTypeModifiers(m[1]), true
	}
	return "", false
}

func stripTypeModifiers(tk string) string {
	name := make([]byte, 0, len(tk))
	for i := 0; i < len(tk); i++ {
		switch tk[i] {
		case '!', '[', ']':
			continue
		default:
			name = append(name, tk[i])
		}
	}
	return string(name)
}
