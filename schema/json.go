package schema

import "encoding/json"

// introspectionDoc is the root of the standard GraphQL introspection
// JSON shape: {"data":{"__schema":{...}}}.
type introspectionDoc struct {
	Data struct {
		Schema introspectionSchema `json:"__schema"`
	} `json:"data"`
}

type introspectionSchema struct {
	QueryType        *namedRef          `json:"queryType"`
	MutationType     *namedRef          `json:"mutationType"`
	SubscriptionType *namedRef          `json:"subscriptionType"`
	Types            []introspectionType `json:"types"`
	Directives       []json.RawMessage   `json:"directives"`
}

type namedRef struct {
	Name string `json:"name"`
}

type introspectionType struct {
	Kind          Kind                 `json:"kind"`
	Name          string               `json:"name"`
	Description   *string              `json:"description"`
	Fields        []introspectionField `json:"fields"`
	InputFields   []introspectionInputValue `json:"inputFields"`
	Interfaces    []json.RawMessage    `json:"interfaces"`
	EnumValues    *json.RawMessage     `json:"enumValues"`
	PossibleTypes *json.RawMessage     `json:"possibleTypes"`
}

type introspectionField struct {
	Name              string                   `json:"name"`
	Description       *string                  `json:"description"`
	Args              []introspectionInputValue `json:"args"`
	Type              TypeRef                  `json:"type"`
	IsDeprecated      bool                     `json:"isDeprecated"`
	DeprecationReason *string                  `json:"deprecationReason"`
}

type introspectionInputValue struct {
	Name         string  `json:"name"`
	Description  *string `json:"description"`
	Type         TypeRef `json:"type"`
	DefaultValue *string `json:"defaultValue"`
}

// dummyFieldName is the placeholder field emitted for an OBJECT,
// INTERFACE, or INPUT_OBJECT that has no discovered fields, because the
// introspection JSON schema requires a non-empty `fields` or
// `inputFields` list.
const dummyFieldName = "dummy"

func toIntrospectionField(f Field) introspectionField {
	args := make([]introspectionInputValue, 0, len(f.Args))
	for _, a := range f.Args {
		args = append(args, introspectionInputValue{Name: a.Name, Type: a.Type})
	}
	return introspectionField{
		Name: f.Name,
		Args: args,
		Type: f.Type,
	}
}

func toIntrospectionInputValue(f Field) introspectionInputValue {
	return introspectionInputValue{Name: f.Name, Type: f.Type}
}

// MarshalJSON encodes s in the standard GraphQL introspection JSON
// shape. Any OBJECT/INTERFACE/INPUT_OBJECT type with no discovered
// fields gets the "dummy: String" placeholder field.
func (s *Schema) MarshalJSON() ([]byte, error) {
	var doc introspectionDoc
	if s.QueryType != "" {
		doc.Data.Schema.QueryType = &namedRef{Name: s.QueryType}
	}
	if s.MutationType != "" {
		doc.Data.Schema.MutationType = &namedRef{Name: s.MutationType}
	}
	if s.SubscriptionType != "" {
		doc.Data.Schema.SubscriptionType = &namedRef{Name: s.SubscriptionType}
	}
	doc.Data.Schema.Directives = []json.RawMessage{}

	for _, name := range s.order {
		t := s.types[name]
		out := introspectionType{Kind: t.Kind, Name: t.Name}

		fields := t.Fields
		switch t.Kind {
		case OBJECT, INTERFACE, INPUT_OBJECT:
			if len(fields) == 0 {
				fields = []Field{{Name: dummyFieldName, Type: NamedRef("String", SCALAR)}}
			}
		}

		switch t.Kind {
		case INPUT_OBJECT:
			for _, f := range fields {
				out.InputFields = append(out.InputFields, toIntrospectionInputValue(f))
			}
		default:
			for _, f := range fields {
				out.Fields = append(out.Fields, toIntrospectionField(f))
			}
		}

		doc.Data.Schema.Types = append(doc.Data.Schema.Types, out)
	}

	return json.Marshal(doc)
}

// UnmarshalJSON decodes the standard GraphQL introspection JSON shape
// into s, filtering out the "dummy" placeholder field on the way in.
func (s *Schema) UnmarshalJSON(data []byte) error {
	var doc introspectionDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	*s = Schema{types: make(map[string]*Type)}
	if doc.Data.Schema.QueryType != nil {
		s.QueryType = doc.Data.Schema.QueryType.Name
	}
	if doc.Data.Schema.MutationType != nil {
		s.MutationType = doc.Data.Schema.MutationType.Name
	}
	if doc.Data.Schema.SubscriptionType != nil {
		s.SubscriptionType = doc.Data.Schema.SubscriptionType.Name
	}

	for _, it := range doc.Data.Schema.Types {
		t := &Type{Name: it.Name, Kind: it.Kind}

		switch it.Kind {
		case INPUT_OBJECT:
			for _, f := range it.InputFields {
				if f.Name == dummyFieldName {
					continue
				}
				t.Fields = append(t.Fields, Field{Name: f.Name, Type: f.Type})
			}
		default:
			for _, f := range it.Fields {
				if f.Name == dummyFieldName {
					continue
				}
				field := Field{Name: f.Name, Type: f.Type}
				for _, a := range f.Args {
					field.Args = append(field.Args, InputValue{Name: a.Name, Type: a.Type})
				}
				t.Fields = append(t.Fields, field)
			}
		}

		s.types[t.Name] = t
		s.order = append(s.order, t.Name)
	}

	return nil
}
