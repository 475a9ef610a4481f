// Package ioutil handles the oracle's three file-I/O concerns: loading
// a candidate-name wordlist, loading a seed schema to resume discovery
// from, and writing the schema back out after each iteration (spec.md
// §4.7). Files are addressed through gocloud.dev's blob.Bucket
// abstraction via its local fileblob driver: every path is opened as a
// file:// bucket, and no other bucket URL scheme is supported.
package ioutil

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mchoji/clairvoyancex/schema"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
)

// LoadWordlist reads path line by line, trimming whitespace and
// skipping blank lines and "#"-prefixed comments.
func LoadWordlist(ctx context.Context, path string) ([]string, error) {
	data, err := readFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("ioutil: loading wordlist %s: %w", path, err)
	}

	var words []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("ioutil: scanning wordlist %s: %w", path, err)
	}
	return words, nil
}

// LoadSeedSchema reads and decodes path as an introspection-JSON
// document. An empty path means "no seed" — the loop starts fresh from
// the root typenames.
func LoadSeedSchema(ctx context.Context, path string) (*schema.Schema, error) {
	if path == "" {
		return nil, nil
	}

	data, err := readFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("ioutil: loading seed schema %s: %w", path, err)
	}

	var sch schema.Schema
	if err := json.Unmarshal(data, &sch); err != nil {
		return nil, fmt.Errorf("ioutil: parsing seed schema %s: %w", path, err)
	}
	return &sch, nil
}

// WriteSchema encodes sch as indented introspection JSON and writes it
// to path, overwriting any prior contents. Called after every loop
// iteration so an interrupted run still leaves its partial progress on
// disk (spec.md §4.4 step 5).
func WriteSchema(ctx context.Context, path string, sch *schema.Schema) error {
	data, err := json.MarshalIndent(sch, "", "  ")
	if err != nil {
		return fmt.Errorf("ioutil: encoding schema: %w", err)
	}
	if err := writeFile(ctx, path, data); err != nil {
		return fmt.Errorf("ioutil: writing schema %s: %w", path, err)
	}
	return nil
}

func readFile(ctx context.Context, path string) ([]byte, error) {
	dir, file := splitDirFile(path)
	bucket, err := blob.OpenBucket(ctx, "file://"+dir)
	if err != nil {
		return nil, err
	}
	defer bucket.Close()
	return bucket.ReadAll(ctx, file)
}

func writeFile(ctx context.Context, path string, data []byte) error {
	dir, file := splitDirFile(path)
	bucket, err := blob.OpenBucket(ctx, "file://"+dir)
	if err != nil {
		return err
	}
	defer bucket.Close()
	return bucket.WriteAll(ctx, file, data, nil)
}

// splitDirFile splits path into the directory fileblob opens as a
// bucket and the key within it. A path with no separator is addressed
// relative to the current directory.
func splitDirFile(path string) (dir, file string) {
	idx := strings.LastIndexAny(path, "/\\")
	if idx < 0 {
		return ".", path
	}
	return path[:idx], path[idx+1:]
}
