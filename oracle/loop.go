package oracle

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mchoji/clairvoyancex/config"
	"github.com/mchoji/clairvoyancex/schema"
	"github.com/mchoji/clairvoyancex/transport"
	"github.com/rs/zerolog"
)

// baseScalarNames seeds the loop's ignore set so GetTypeWithoutFields
// never re-selects one of the five builtin scalars.
var baseScalarNames = []string{"Int", "Float", "String", "Boolean", "ID"}

// RunOption customizes Run.
type RunOption func(*runConfig)

type runConfig struct {
	onIteration func(*schema.Schema)
	log         zerolog.Logger
}

// WithOnIteration registers a callback invoked with the current schema
// after every iteration of the loop, before it re-parses the schema
// for the next one. A CLI driver uses this to persist partial progress
// (spec.md §4.4 step 5's "emit the current schema").
func WithOnIteration(fn func(*schema.Schema)) RunOption {
	return func(c *runConfig) { c.onIteration = fn }
}

// WithLogger sets the zerolog.Logger the loop and its probes log
// through. Defaults to a no-op logger.
func WithLogger(l zerolog.Logger) RunOption {
	return func(c *runConfig) { c.log = l }
}

// Run drives the full discovery loop described in spec.md §4.4: it
// resolves root typenames (unless seed already supplies a schema),
// then repeatedly probes the current selection context's typename and
// fields, resolves each field's type and arguments, and advances to
// the next type with unresolved fields until none remain. The returned
// schema is the fixed point of that process.
func Run(ctx context.Context, cfg *config.Config, tr transport.Transport, wordlist []string, seed *schema.Schema, opts ...RunOption) (*schema.Schema, error) {
	rc := runConfig{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&rc)
	}

	sch := seed
	if sch == nil {
		queryType, mutationType, subscriptionType, err := FetchRootTypenames(ctx, tr, cfg, rc.log)
		if err != nil {
			return nil, err
		}
		sch = schema.New(queryType, mutationType, subscriptionType)
	}

	ignore := make(map[string]bool, len(baseScalarNames))
	for _, name := range baseScalarNames {
		ignore[name] = true
	}

	currentDoc := cfg.Document

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if err := runIteration(ctx, cfg, tr, wordlist, sch, currentDoc, rc.log); err != nil {
			return nil, err
		}

		if rc.onIteration != nil {
			rc.onIteration(sch)
		}

		next := sch.GetTypeWithoutFields(ignore)
		if next == "" {
			break
		}
		ignore[next] = true

		path, err := sch.GetPathFromRoot(next)
		if err != nil {
			return nil, err
		}
		currentDoc = sch.ConvertPathToDocument(path)

		reparsed, err := roundTrip(sch)
		if err != nil {
			return nil, err
		}
		sch = reparsed
	}

	return sch, nil
}

// runIteration resolves the typename of currentDoc's selection context
// and fills in every probeable field (and each field's arguments) that
// the type doesn't already have.
func runIteration(ctx context.Context, cfg *config.Config, tr transport.Transport, wordlist []string, sch *schema.Schema, currentDoc string, log zerolog.Logger) error {
	typename, ok := ProbeTypename(ctx, tr, cfg, currentDoc, log)
	if !ok {
		return fmt.Errorf("oracle: could not resolve typename for context %q", currentDoc)
	}

	if !sch.HasType(typename) {
		sch.AddType(typename, schema.OBJECT)
	}
	currentType := sch.Type(typename)

	fieldNames := ProbeValidFields(ctx, tr, cfg, wordlist, currentDoc, log)

	for _, fieldName := range fieldNames {
		if currentType.HasField(fieldName) {
			continue
		}

		fieldRef, ok := ProbeFieldType(ctx, tr, cfg, fieldName, currentDoc, log)
		if !ok {
			log.Warn().Str("type", typename).Str("field", fieldName).Msg("skipping field: type unresolved")
			continue
		}

		field := schema.Field{Name: fieldName, Type: *fieldRef}
		sch.RegisterNamedType(fieldRef.Name)

		if !schema.IsBuiltinScalar(fieldRef.Name) {
			argNames := ProbeArgs(ctx, tr, cfg, fieldName, wordlist, currentDoc, log)
			for _, argName := range argNames {
				argRef, ok := ProbeArgTypeRef(ctx, tr, cfg, fieldName, argName, currentDoc, log)
				if !ok {
					log.Warn().Str("type", typename).Str("field", fieldName).Str("arg", argName).
						Msg("skipping argument: type unresolved")
					continue
				}
				if !field.AddArg(schema.InputValue{Name: argName, Type: *argRef}) {
					log.Warn().Str("arg", argName).Msg("skipping duplicate argument")
					continue
				}
				sch.RegisterNamedType(argRef.Name)
			}
		}

		if !currentType.AddField(field) {
			log.Warn().Str("field", fieldName).Msg("skipping duplicate field")
		}
	}

	return nil
}

// roundTrip re-parses sch from its own JSON wire form. spec.md §9
// specifies the loop's fixed point in terms of this encode/decode
// cycle rather than in terms of the in-memory representation, so each
// iteration boundary performs it explicitly instead of mutating sch in
// place indefinitely.
func roundTrip(sch *schema.Schema) (*schema.Schema, error) {
	data, err := json.Marshal(sch)
	if err != nil {
		return nil, err
	}
	var out schema.Schema
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
