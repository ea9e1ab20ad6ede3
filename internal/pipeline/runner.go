// Package pipeline runs the file-level preprocessing job: read raw records,
// normalize them, write the table and describe the run.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"productprep/internal/config"
	"productprep/internal/logger"
	"productprep/internal/metrics"
	"productprep/internal/models"
	"productprep/internal/normalizer"
	"productprep/internal/sink"
	"productprep/internal/source"
	"productprep/internal/tokenizer"
	"productprep/pkg/metadata"
)

// Defaults for Runner settings.
const (
	DefaultBatchSize     = 512
	DefaultProgressEvery = 10000
)

// Output describes where Preprocess writes its table.
type Output struct {
	// Format is a sink format; empty infers it from the output path.
	Format        string
	Sink          sink.Options
	WriteManifest bool
}

// Result summarizes one Preprocess call.
type Result struct {
	Table    *models.Table
	Layout   string
	Format   string
	Output   string
	Manifest string
	RunID    string
	Duration time.Duration
}

// Runner normalizes record files with a bounded worker pool.
type Runner struct {
	processor     *normalizer.Processor
	log           *logger.Logger
	metrics       *metrics.Metrics
	output        Output
	stemmer       string
	workers       int
	batchSize     int
	progressEvery int
}

// Option configures a Runner.
type Option func(*Runner)

// WithTokenizer sets the tokenizer used for every free-text field.
func WithTokenizer(tok *tokenizer.Tokenizer, stemmer string) Option {
	return func(r *Runner) {
		r.processor = normalizer.NewProcessor(tok)
		r.stemmer = stemmer
	}
}

// WithWorkers sets the number of concurrent normalizers.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithBatchSize sets how many records are read before a batch is normalized.
func WithBatchSize(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

// WithProgressEvery logs progress each n records; 0 disables it.
func WithProgressEvery(n int) Option {
	return func(r *Runner) {
		if n >= 0 {
			r.progressEvery = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.log = l
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Runner) {
		if m != nil {
			r.metrics = m
		}
	}
}

// WithOutput sets how Preprocess writes results.
func WithOutput(o Output) Option {
	return func(r *Runner) {
		r.output = o
	}
}

// New creates a runner. Without options it uses the default tokenizer, one
// worker, and writes a manifest next to file outputs.
func New(opts ...Option) *Runner {
	r := &Runner{
		processor:     normalizer.NewProcessor(nil),
		log:           logger.Discard(),
		metrics:       metrics.New(),
		output:        Output{WriteManifest: true},
		stemmer:       tokenizer.StemmerPorter,
		workers:       1,
		batchSize:     DefaultBatchSize,
		progressEvery: DefaultProgressEvery,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// NewFromConfig builds the tokenizer and runner described by cfg.
func NewFromConfig(cfg *config.Config, log *logger.Logger, m *metrics.Metrics) (*Runner, error) {
	tok, err := NewTokenizer(cfg.Tokenizer)
	if err != nil {
		return nil, err
	}

	stemmer := cfg.Tokenizer.Stemmer
	if stemmer == "" {
		stemmer = tokenizer.StemmerPorter
	}

	return New(
		WithTokenizer(tok, stemmer),
		WithWorkers(cfg.Preprocess.Workers),
		WithBatchSize(cfg.Preprocess.BatchSize),
		WithProgressEvery(cfg.Preprocess.ProgressEvery),
		WithLogger(log),
		WithMetrics(m),
		WithOutput(Output{
			Format: cfg.Output.Format,
			Sink: sink.Options{
				DSN:    cfg.Output.DSN,
				Table:  cfg.Output.Table,
				Sheet:  cfg.Output.Sheet,
				Pretty: cfg.Output.PrettyPrint,
			},
			WriteManifest: cfg.Output.WriteManifest,
		}),
	), nil
}

// NewTokenizer builds a tokenizer from its configuration.
func NewTokenizer(cfg config.TokenizerConfig) (*tokenizer.Tokenizer, error) {
	stemmer, err := tokenizer.NewStemmer(cfg.Stemmer)
	if err != nil {
		return nil, err
	}

	if cfg.StemCache > 0 {
		stemmer = tokenizer.NewCachedStemmer(stemmer, cfg.StemCache)
	}

	stopwords := tokenizer.EnglishStopwords()
	if len(cfg.ExtraStopwords) > 0 {
		stopwords = stopwords.With(cfg.ExtraStopwords...)
	}

	return tokenizer.New(
		tokenizer.WithStemmer(stemmer),
		tokenizer.WithStopwords(stopwords),
	), nil
}

// Metrics returns the runner's metrics.
func (r *Runner) Metrics() *metrics.Metrics {
	return r.metrics
}

// Run reads and normalizes every record in the file at inputPath.
func (r *Runner) Run(ctx context.Context, inputPath string) (*models.Table, error) {
	src, err := source.Open(inputPath)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	r.log.Debug("Reading records", "input", inputPath, "layout", src.Format().String())

	return r.Process(ctx, src)
}

// Process normalizes every record of src. Row order matches source order for
// any worker count. The first source or validation error aborts the run.
func (r *Runner) Process(ctx context.Context, src *source.Source) (*models.Table, error) {
	table := models.NewTable(r.batchSize)
	batch := make([]models.RawRecord, 0, r.batchSize)

	for raw, err := range src.Records() {
		if err != nil {
			r.metrics.SourceErrors.Inc()
			return nil, fmt.Errorf("failed to read records: %w", err)
		}

		batch = append(batch, raw)
		if len(batch) < r.batchSize {
			continue
		}

		if err := r.flush(ctx, table, batch); err != nil {
			return nil, err
		}

		batch = batch[:0]
	}

	if err := r.flush(ctx, table, batch); err != nil {
		return nil, err
	}

	return table, nil
}

// flush normalizes batch and appends the results to table.
func (r *Runner) flush(ctx context.Context, table *models.Table, batch []models.RawRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(batch) == 0 {
		return nil
	}

	offset := table.Len()
	results := make([]models.NormalizedRecord, len(batch))
	errs := make([]error, len(batch))

	workers := min(r.workers, len(batch))
	if workers <= 1 {
		for i := range batch {
			results[i], errs[i] = r.processor.Process(batch[i])
		}
	} else {
		jobs := make(chan int)

		var wg sync.WaitGroup

		for range workers {
			wg.Go(func() {
				for i := range jobs {
					results[i], errs[i] = r.processor.Process(batch[i])
				}
			})
		}

		for i := range batch {
			jobs <- i
		}

		close(jobs)
		wg.Wait()
	}

	for i, err := range errs {
		if err != nil {
			return fmt.Errorf("record %d: %w", offset+i, err)
		}
	}

	for i := range results {
		r.metrics.Observe(&results[i])
		table.Append(results[i])

		if n := table.Len(); r.progressEvery > 0 && n%r.progressEvery == 0 {
			r.log.Info("Normalized records", "count", n)
		}
	}

	return nil
}

// Preprocess runs the whole job: normalize inputPath, write the table to
// outputPath through the configured sink, and write the run manifest.
func (r *Runner) Preprocess(ctx context.Context, inputPath, outputPath string) (*Result, error) {
	start := time.Now()

	format := r.output.Format
	if format == "" {
		var err error
		if format, err = sink.FormatFromPath(outputPath); err != nil {
			return nil, err
		}
	}

	writer, err := sink.New(format, outputPath, r.output.Sink)
	if err != nil {
		return nil, err
	}

	if sink.IsFile(format) {
		if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	r.log.Info("Preprocessing", "input", inputPath, "output", outputPath, "format", format, "workers", r.workers)

	src, err := source.Open(inputPath)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	table, err := r.Process(ctx, src)
	if err != nil {
		return nil, err
	}

	if err := writer.Write(ctx, table); err != nil {
		return nil, fmt.Errorf("failed to write %s output: %w", format, err)
	}

	res := &Result{
		Table:  table,
		Layout: src.Format().String(),
		Format: format,
		Output: outputPath,
	}

	if sw, ok := writer.(*sink.SQLWriter); ok {
		res.RunID = sw.RunID()
	}

	if r.output.WriteManifest && sink.IsFile(format) {
		if res.Manifest, err = r.writeManifest(inputPath, res); err != nil {
			return nil, err
		}
	}

	r.metrics.ObserveRun(start)
	res.Duration = time.Since(start)

	r.log.Info("Preprocessing complete", "records", table.Len(), "output", outputPath, "duration", res.Duration)

	return res, nil
}

func (r *Runner) writeManifest(inputPath string, res *Result) (string, error) {
	m, err := metadata.New(inputPath)
	if err != nil {
		return "", err
	}

	m.Records = res.Table.Len()
	m.Format = res.Format
	m.Output = res.Output
	m.Stemmer = r.stemmer
	m.RunID = res.RunID
	m.InputFormat = res.Layout

	path := metadata.PathFor(res.Output)
	if err := m.Write(path); err != nil {
		return "", err
	}

	return path, nil
}
