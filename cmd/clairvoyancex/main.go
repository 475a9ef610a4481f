// Command clairvoyancex reconstructs as much of a GraphQL schema as
// possible from a server with introspection disabled, by sending
// deliberately malformed queries and reading the resulting error
// diagnostics (spec.md §1).
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/mchoji/clairvoyancex/config"
	"github.com/mchoji/clairvoyancex/internal/ioutil"
	"github.com/mchoji/clairvoyancex/oracle"
	"github.com/mchoji/clairvoyancex/schema"
	"github.com/mchoji/clairvoyancex/transport"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type cliFlags struct {
	verbosity  int
	insecure   bool
	inputPath  string
	outputPath string
	document   string
	timeout    int
	wordlist   string
	proxy      string
	command    string
	headers    []string
	params     []string
	http2      bool
	bucketSize int
}

func newRootCmd() *cobra.Command {
	var flags cliFlags

	cmd := &cobra.Command{
		Use:   "clairvoyancex <url>",
		Short: "Reconstruct a GraphQL schema from a server with introspection disabled",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0], flags)
		},
	}

	cmd.Flags().CountVarP(&flags.verbosity, "verbose", "v", "increase logging verbosity (-v, -vv)")
	cmd.Flags().BoolVarP(&flags.insecure, "insecure", "k", false, "disable server's certificate verification")
	cmd.Flags().StringVarP(&flags.inputPath, "input", "i", "", "input file containing a JSON schema to supplement")
	cmd.Flags().StringVarP(&flags.outputPath, "output", "o", "", "output file for the JSON schema (default stdout)")
	cmd.Flags().StringVarP(&flags.document, "document", "d", "query { FUZZ }", "starting selection-context document")
	cmd.Flags().IntVarP(&flags.timeout, "timeout", "t", 5, "per-request timeout, in seconds")
	cmd.Flags().StringVarP(&flags.wordlist, "wordlist", "w", "", "wordlist used for every brute-force probe (required)")
	cmd.Flags().StringVarP(&flags.proxy, "proxy", "x", "", "route requests through this proxy")
	cmd.Flags().StringVarP(&flags.command, "request", "X", "POST", "HTTP method to use: GET or POST")
	cmd.Flags().StringArrayVarP(&flags.headers, "header", "H", nil, `custom header, e.g. "User-Agent: custom" (repeatable)`)
	cmd.Flags().StringArrayVarP(&flags.params, "param", "P", nil, `custom URL query parameter, e.g. "env: prod" (repeatable)`)
	cmd.Flags().BoolVar(&flags.http2, "http2", false, "enable HTTP/2")
	cmd.Flags().IntVar(&flags.bucketSize, "bucketsize", 4096, "max number of candidate names probed per request")

	_ = cmd.MarkFlagRequired("wordlist")

	return cmd
}

func run(cmd *cobra.Command, targetURL string, flags cliFlags) error {
	configureLogging(flags.verbosity)
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()

	ctx := cmd.Context()

	wordlist, err := ioutil.LoadWordlist(ctx, flags.wordlist)
	if err != nil {
		return err
	}

	cfg, err := buildConfig(targetURL, flags)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("clairvoyancex: invalid configuration: %w", err)
	}

	var proxyURL *url.URL
	if cfg.Proxy != "" {
		proxyURL, err = url.Parse(cfg.Proxy)
		if err != nil {
			return fmt.Errorf("clairvoyancex: invalid proxy URL: %w", err)
		}
	}
	tr := transport.NewHTTPTransport(
		transport.WithInsecureSkipVerify(!cfg.Verify),
		transport.WithHTTP2(cfg.HTTP2),
		transport.WithProxy(proxyURL),
		transport.WithTimeout(cfg.Timeout),
		transport.WithLogger(log),
	)

	if proto, err := tr.NegotiatedProtocol(ctx, cfg.URL); err != nil {
		log.Warn().Err(err).Msg("could not retrieve HTTP version from server")
	} else {
		log.Info().Str("protocol", proto).Msg("target server negotiated protocol")
	}

	seed, err := ioutil.LoadSeedSchema(ctx, flags.inputPath)
	if err != nil {
		return err
	}

	sch, err := oracle.Run(ctx, cfg, tr, wordlist, seed,
		oracle.WithLogger(log),
		oracle.WithOnIteration(func(partial *schema.Schema) {
			if err := emitSchema(ctx, flags.outputPath, partial); err != nil {
				log.Warn().Err(err).Msg("could not persist partial schema")
			}
		}),
	)
	if err != nil {
		return err
	}

	return emitSchema(ctx, flags.outputPath, sch)
}

func buildConfig(targetURL string, flags cliFlags) (*config.Config, error) {
	opts := []config.Option{
		config.WithCommand(strings.ToUpper(flags.command)),
		config.WithBucketSize(flags.bucketSize),
		config.WithTimeout(time.Duration(flags.timeout) * time.Second),
		config.WithVerify(!flags.insecure),
		config.WithHTTP2(flags.http2),
		config.WithDocument(flags.document),
	}
	if flags.proxy != "" {
		opts = append(opts, config.WithProxy(flags.proxy))
	}
	for _, h := range flags.headers {
		k, v, ok := splitKeyValue(h)
		if !ok {
			return nil, fmt.Errorf("clairvoyancex: malformed header %q, expected \"Key: value\"", h)
		}
		opts = append(opts, config.WithHeader(k, v))
	}
	for _, p := range flags.params {
		k, v, ok := splitKeyValue(p)
		if !ok {
			return nil, fmt.Errorf("clairvoyancex: malformed param %q, expected \"key: value\"", p)
		}
		opts = append(opts, config.WithParam(k, v))
	}
	return config.New(targetURL, opts...), nil
}

func configureLogging(verbosity int) {
	switch {
	case verbosity >= 2:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case verbosity == 1:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}
}

// emitSchema writes sch as indented introspection JSON to outputPath,
// or to stdout when outputPath is empty.
func emitSchema(ctx context.Context, outputPath string, sch *schema.Schema) error {
	if outputPath == "" {
		data, err := json.MarshalIndent(sch, "", "  ")
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	}
	return ioutil.WriteSchema(ctx, outputPath, sch)
}

func splitKeyValue(s string) (key, value string, ok bool) {
	idx := strings.Index(s, ":")
	if idx < 0 {
		return "", "", false
	}
	return strings.TrimSpace(s[:idx]), strings.TrimSpace(s[idx+1:]), true
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
