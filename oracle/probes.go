// Package oracle implements the feedback-driven discovery loop: it
// treats a GraphQL server as a black box, sends deliberately malformed
// queries, and interprets the natural-language diagnostics that come
// back through package diagnostic to populate a schema.Schema.
package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/mchoji/clairvoyancex/config"
	"github.com/mchoji/clairvoyancex/diagnostic"
	"github.com/mchoji/clairvoyancex/schema"
	"github.com/mchoji/clairvoyancex/transport"
	"github.com/rs/zerolog"
)

// wrongFieldName is the fixed unlikely field name substituted for FUZZ
// when probing the typename of the current selection context.
const wrongFieldName = "imwrongfield"

// stringSet mirrors the original's idiom of treating a Python set as
// "the identity element for union" — probes build one of these, mutate
// it in place, and the caller reads it back with Names().
type stringSet map[string]bool

func newStringSet(words []string) stringSet {
	s := make(stringSet, len(words))
	for _, w := range words {
		s[w] = true
	}
	return s
}

// Names returns s's members sorted, so callers iterate deterministically.
func (s stringSet) Names() []string {
	out := make([]string, 0, len(s))
	for name := range s {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func chunks(words []string, size int) [][]string {
	if size <= 0 {
		size = len(words)
	}
	var out [][]string
	for i := 0; i < len(words); i += size {
		end := i + size
		if end > len(words) {
			end = len(words)
		}
		out = append(out, words[i:end])
	}
	return out
}

// doRequest issues one GraphQL request and logs + swallows the
// recoverable-error cases from spec.md §7: a context deadline/timeout
// and a non-JSON response. ok is false in either case.
func doRequest(ctx context.Context, tr transport.Transport, cfg *config.Config, document string, log zerolog.Logger) (*transport.Response, bool) {
	method := transport.Method(cfg.Command)
	resp, err := tr.Request(ctx, method, cfg.URL, cfg.Headers, cfg.Params, document)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			log.Warn().Str("document", document).Msg("timeout on probe request, skipping")
		} else {
			log.Warn().Err(err).Str("document", document).Msg("invalid response for probe request, skipping")
		}
		return nil, false
	}
	return resp, true
}

func substituteFuzz(document, payload string) string {
	return strings.Replace(document, "FUZZ", payload, 1)
}

// ProbeTypename substitutes the fixed unlikely field name "imwrongfield"
// for FUZZ, issues one request, and returns the typename extracted from
// the resulting diagnostic. ok is false if no diagnostic matched or the
// request itself failed ("typename-unresolved").
func ProbeTypename(ctx context.Context, tr transport.Transport, cfg *config.Config, contextDoc string, log zerolog.Logger) (string, bool) {
	doc := substituteFuzz(contextDoc, wrongFieldName)

	resp, ok := doRequest(ctx, tr, cfg, doc, log)
	if !ok {
		return "", false
	}

	for _, e := range resp.Errors {
		if name, ok := diagnostic.Typename(e.Message); ok {
			return name, true
		}
	}

	log.Error().Str("document", doc).Msg("typename-unresolved")
	return "", false
}

// ProbeValidFields partitions wordlist into cfg.BucketSize buckets. For
// each bucket it substitutes a space-separated list of candidate names
// for FUZZ, issues one request, removes any name reported invalid, and
// adds any suggested name. If any bucket's response signals the
// context has no subfields, probing stops immediately and the empty
// set is returned (spec.md §8 property 5).
func ProbeValidFields(ctx context.Context, tr transport.Transport, cfg *config.Config, wordlist []string, contextDoc string, log zerolog.Logger) []string {
	valid := newStringSet(wordlist)

	for _, bucket := range chunks(wordlist, cfg.BucketSize) {
		doc := substituteFuzz(contextDoc, strings.Join(bucket, " "))

		resp, ok := doRequest(ctx, tr, cfg, doc, log)
		if !ok {
			continue
		}

		for _, e := range resp.Errors {
			if diagnostic.NoSubfields(e.Message) {
				return nil
			}
			if invalid := diagnostic.InvalidField(e.Message); invalid != "" {
				delete(valid, invalid)
			}
			for _, name := range diagnostic.ValidFieldSuggestions(e.Message) {
				valid[name] = true
			}
		}
	}

	return valid.Names()
}

// ProbeArgs inserts "field(a1: 7, a2: 7, …)" at FUZZ for each bucket of
// wordlist and interprets the "Unknown argument" diagnostics
// analogously to ProbeValidFields. The value 7 is an intentional
// wrong-type sentinel used to force argument-level errors without
// running the field.
func ProbeArgs(ctx context.Context, tr transport.Transport, cfg *config.Config, field string, wordlist []string, contextDoc string, log zerolog.Logger) []string {
	var all stringSet = stringSet{}

	for _, bucket := range chunks(wordlist, cfg.BucketSize) {
		bucketValid := probeArgsBucket(ctx, tr, cfg, field, bucket, contextDoc, log)
		for name := range bucketValid {
			all[name] = true
		}
	}

	return all.Names()
}

func probeArgsBucket(ctx context.Context, tr transport.Transport, cfg *config.Config, field string, bucket []string, contextDoc string, log zerolog.Logger) stringSet {
	valid := newStringSet(bucket)

	args := make([]string, 0, len(bucket))
	for _, w := range bucket {
		args = append(args, w+": 7")
	}
	doc := substituteFuzz(contextDoc, fmt.Sprintf("%s(%s)", field, strings.Join(args, ", ")))

	resp, ok := doRequest(ctx, tr, cfg, doc, log)
	if !ok {
		return stringSet{}
	}

	for _, e := range resp.Errors {
		if diagnostic.NoSubfields(e.Message) {
			return stringSet{}
		}
		if invalid := diagnostic.InvalidArg(e.Message); invalid != "" {
			delete(valid, invalid)
		}
		for _, name := range diagnostic.ValidArgSuggestions(e.Message) {
			valid[name] = true
		}
	}

	return valid
}

// ProbeInputFields issues a fresh mutation "mutation { field(arg: { k1:
// 7, k2: 7, … }) }" and harvests valid input-object members.
func ProbeInputFields(ctx context.Context, tr transport.Transport, cfg *config.Config, field, arg string, wordlist []string, log zerolog.Logger) []string {
	valid := newStringSet(wordlist)

	members := make([]string, 0, len(wordlist))
	for _, w := range wordlist {
		members = append(members, w+": 7")
	}
	doc := fmt.Sprintf("mutation { %s(%s: { %s }) }", field, arg, strings.Join(members, ", "))

	resp, ok := doRequest(ctx, tr, cfg, doc, log)
	if !ok {
		return nil
	}

	for _, e := range resp.Errors {
		if invalid, ok := diagnostic.InvalidInputField(e.Message); ok {
			delete(valid, invalid)
		}
		if _, fieldName, ok := diagnostic.ValidInputField(e.Message); ok {
			valid[fieldName] = true
		}
	}

	return valid.Names()
}

// toSchemaTypeRef converts the diagnostic grammar's decoded facts into
// a schema.TypeRef, resolving kind from the facts captured at parse
// time (spec.md §4.2's name→kind rule).
func toSchemaTypeRef(f diagnostic.TypeRefFacts) schema.TypeRef {
	kind := schema.OBJECT
	switch {
	case f.IsInputObject:
		kind = schema.INPUT_OBJECT
	case f.IsBuiltinScalar:
		kind = schema.SCALAR
	}
	return schema.TypeRef{
		Name:               f.Name,
		Kind:               kind,
		IsList:             f.IsList,
		IsListItemNullable: f.IsListItemNullable,
		IsNullable:         f.IsNullable,
	}
}

// probeTypeRef issues docs in order and returns the TypeRef extracted
// from the first diagnostic that yields one. A request failure
// (timeout or non-JSON) aborts immediately without trying the
// remaining documents, mirroring the original's probe_typeref.
func probeTypeRef(ctx context.Context, tr transport.Transport, cfg *config.Config, docs []string, dctx diagnostic.Context, log zerolog.Logger) (*schema.TypeRef, bool) {
	for _, doc := range docs {
		resp, ok := doRequest(ctx, tr, cfg, doc, log)
		if !ok {
			return nil, false
		}
		for _, e := range resp.Errors {
			if facts, ok := diagnostic.FieldOrArgTypeRef(e.Message, dctx); ok {
				ref := toSchemaTypeRef(facts)
				return &ref, true
			}
		}
	}

	log.Error().Strs("documents", docs).Msg("unable to resolve typeref")
	return nil, false
}

// ProbeFieldType issues "FUZZ → field" then "FUZZ → field { lol }" and
// returns the first TypeRef either yields: the first (selection-
// required) resolves object-typed fields, the second (no-subfields)
// resolves scalar-typed fields.
func ProbeFieldType(ctx context.Context, tr transport.Transport, cfg *config.Config, field, contextDoc string, log zerolog.Logger) (*schema.TypeRef, bool) {
	docs := []string{
		substituteFuzz(contextDoc, field),
		substituteFuzz(contextDoc, field+" { lol }"),
	}
	return probeTypeRef(ctx, tr, cfg, docs, diagnostic.FieldContext, log)
}

// ProbeArgTypeRef issues three documents in sequence: "field(arg: 7)",
// "field(arg: {})", and "field(arg_trimmed: 7)" — the last with the
// final character removed from arg, to reliably trigger an
// unknown-argument suggestion even when the original name was correct.
func ProbeArgTypeRef(ctx context.Context, tr transport.Transport, cfg *config.Config, field, arg, contextDoc string, log zerolog.Logger) (*schema.TypeRef, bool) {
	trimmed := arg
	if len(arg) > 0 {
		trimmed = arg[:len(arg)-1]
	}
	docs := []string{
		substituteFuzz(contextDoc, fmt.Sprintf("%s(%s: 7)", field, arg)),
		substituteFuzz(contextDoc, fmt.Sprintf("%s(%s: {})", field, arg)),
		substituteFuzz(contextDoc, fmt.Sprintf("%s(%s: 7)", field, trimmed)),
	}
	return probeTypeRef(ctx, tr, cfg, docs, diagnostic.InputValueContext, log)
}

// FetchRootTypenames issues the three trivial queries "query {
// __typename }", "mutation { __typename }", "subscription {
// __typename }" and returns whichever typenames the server resolves. A
// request failure for one root leaves it empty rather than aborting
// the others — spec.md §5's general recoverable-error rule applies
// here just as it does to every other probe.
func FetchRootTypenames(ctx context.Context, tr transport.Transport, cfg *config.Config, log zerolog.Logger) (queryType, mutationType, subscriptionType string, err error) {
	roots := []struct {
		doc string
		dst *string
	}{
		{"query { __typename }", &queryType},
		{"mutation { __typename }", &mutationType},
		{"subscription { __typename }", &subscriptionType},
	}

	for _, r := range roots {
		resp, ok := doRequest(ctx, tr, cfg, r.doc, log)
		if !ok {
			continue
		}
		var data struct {
			Typename string `json:"__typename"`
		}
		if len(resp.Data) > 0 {
			if jerr := json.Unmarshal(resp.Data, &data); jerr == nil {
				*r.dst = data.Typename
			}
		}
	}

	if queryType == "" && mutationType == "" && subscriptionType == "" {
		return "", "", "", errors.New("oracle: unreachable-schema: server resolved no root typenames")
	}

	log.Debug().Str("queryType", queryType).Str("mutationType", mutationType).
		Str("subscriptionType", subscriptionType).Msg("resolved root typenames")

	return queryType, mutationType, subscriptionType, nil
}
