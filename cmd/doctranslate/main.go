// Command doctranslate translates structured documents from the command line.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/pricofy/document-translator/internal/config"
	"github.com/pricofy/document-translator/internal/document"
	"github.com/pricofy/document-translator/internal/job"
	"github.com/pricofy/document-translator/internal/logging"
	"github.com/pricofy/document-translator/internal/pipeline"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "doctranslate",
		Short: "Translate structured documents through a remote translation service",
		Long: `doctranslate extracts the translatable leaves of JSON or YAML documents,
sends them to the translation service in size-bounded batches and writes
documents holding only the translated leaves.

A leaf is an object with a "#text" string. It is translated only when
"#translate" is true.`,
		SilenceUsage: true,
	}

	root.AddCommand(newTranslateCmd(), newExtractCmd())
	return root
}

type translateOptions struct {
	source        string
	target        string
	outDir        string
	format        string
	backend       string
	apiKey        string
	apiURL        string
	function      string
	maxBatchSize  int
	maxBatchChars int
	timeout       time.Duration
	concurrency   int
	verbose       bool
}

func newTranslateCmd() *cobra.Command {
	var opts translateOptions

	cmd := &cobra.Command{
		Use:   "translate FILE...",
		Short: "Translate documents",
		Long: `Translate one or more documents.

With a single file and no --out-dir the result is written to stdout.
Otherwise each result is written to --out-dir under the input's base name.
A failed document does not stop the others; the command exits non-zero if
any document failed.

Examples:
  doctranslate translate --source en --target fr node.json
  doctranslate translate --source en --target de --out-dir out/ a.yaml b.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(cmd, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.source, "source", "", "Source language code (required)")
	cmd.Flags().StringVar(&opts.target, "target", "", "Target language code (required)")
	cmd.Flags().StringVar(&opts.outDir, "out-dir", "", "Directory for translated documents")
	cmd.Flags().StringVar(&opts.format, "format", "", "Document format: json or yaml (default: from file extension)")
	cmd.Flags().StringVar(&opts.backend, "backend", "", "Translator backend: langbly or lambda (or TRANSLATOR_BACKEND env var)")
	cmd.Flags().StringVar(&opts.apiKey, "api-key", "", "Langbly API key (or LANGBLY_API_KEY env var)")
	cmd.Flags().StringVar(&opts.apiURL, "api-url", "", "Langbly API base URL")
	cmd.Flags().StringVar(&opts.function, "function", "", "Translator Lambda function name (lambda backend)")
	cmd.Flags().IntVar(&opts.maxBatchSize, "max-batch-size", 0, "Maximum strings per request (0 = config default)")
	cmd.Flags().IntVar(&opts.maxBatchChars, "max-batch-chars", 0, "Maximum characters per request (0 = config default)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Timeout per request (0 = config default)")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 0, "Documents translated at once (0 = config default)")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("target")

	return cmd
}

func newExtractCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "extract FILE",
		Short: "List the translatable units of a document",
		Long:  `Print each translatable unit as "key|path<TAB>text" in traversal order. Does not call the translation service.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(args[0], format)
			if err != nil {
				return err
			}
			units, err := document.Extract(doc)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, u := range units {
				fmt.Fprintf(out, "%s\t%s\n", u.Path, u.Text)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "Document format: json or yaml (default: from file extension)")
	return cmd
}

func runTranslate(cmd *cobra.Command, opts translateOptions, files []string) error {
	if len(files) > 1 && opts.outDir == "" {
		return fmt.Errorf("--out-dir is required when translating more than one file")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applyOverrides(cfg, opts)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tr, err := config.NewTranslator(ctx, cfg, logger)
	if err != nil {
		return err
	}

	items := make([]job.Item, len(files))
	for i, file := range files {
		doc, err := readDocument(file, opts.format)
		if err != nil {
			return err
		}
		items[i] = job.Item{ID: file, Document: doc}
	}

	p := pipeline.New(tr,
		pipeline.WithLimits(cfg.Batch.Limits()),
		pipeline.WithTimeout(cfg.RequestTimeout),
		pipeline.WithLogger(logger),
	)
	results := job.NewRunner(p, cfg.Concurrency, logger).Run(ctx, job.Job{
		SourceLang: opts.source,
		TargetLang: opts.target,
		Items:      items,
	})

	failed := 0
	for _, res := range results {
		for _, msg := range res.Messages {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s: %s\n", res.ID, msg.Severity, msg.Text)
		}
		if res.Status == job.StatusFailed {
			failed++
			continue
		}

		format := formatOf(res.ID, opts.format)
		if opts.outDir == "" {
			if err := writeDocument(cmd.OutOrStdout(), res.Document, format); err != nil {
				return err
			}
			continue
		}
		if err := writeFile(filepath.Join(opts.outDir, filepath.Base(res.ID)), res.Document, format); err != nil {
			return err
		}
		logger.Info("document written", zap.String("file", res.ID), zap.Int("batches", res.Batches))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(results))
	}
	return nil
}

func applyOverrides(cfg *config.Config, opts translateOptions) {
	if opts.backend != "" {
		cfg.Backend = opts.backend
	}
	if opts.apiKey != "" {
		cfg.Langbly.APIKey = opts.apiKey
	}
	if opts.apiURL != "" {
		cfg.Langbly.APIURL = opts.apiURL
	}
	if opts.function != "" {
		cfg.Lambda.FunctionName = opts.function
	}
	if opts.maxBatchSize > 0 {
		cfg.Batch.MaxSize = opts.maxBatchSize
	}
	if opts.maxBatchChars > 0 {
		cfg.Batch.MaxChars = opts.maxBatchChars
	}
	if opts.timeout > 0 {
		cfg.RequestTimeout = opts.timeout
	}
	if opts.concurrency > 0 {
		cfg.Concurrency = opts.concurrency
	}
	if opts.verbose {
		cfg.LogLevel = "debug"
	}
}

func formatOf(path, format string) string {
	if format != "" {
		return strings.ToLower(format)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

func readDocument(path, format string) (*document.Internal, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	doc := document.New()
	switch formatOf(path, format) {
	case "yaml":
		err = yaml.Unmarshal(data, doc)
	case "json":
		err = json.Unmarshal(data, doc)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return doc, nil
}

func writeDocument(w io.Writer, doc *document.Internal, format string) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func writeFile(path string, doc *document.Internal, format string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeDocument(f, doc, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
