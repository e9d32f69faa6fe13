package catalogsnap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pevans/catalogsnap/catalog"
	"github.com/pevans/catalogsnap/discovery"
	"github.com/pevans/catalogsnap/export"
	"github.com/pevans/catalogsnap/scraper"
	"github.com/pevans/catalogsnap/snapshots"
)

// Source kinds understood by the pipeline.
const (
	SourceHTML = "html"
	SourceFeed = "feed"
)

// PipelineConfig holds everything a run needs. There is no package-level
// state; each Pipeline owns its copy.
type PipelineConfig struct {
	// Listing URL without the page parameter
	BaseURL string
	// Pages 1..NumPages are fetched
	NumPages int
	// Attempts per page
	Retries int
	// Pause between attempts for the same page
	RetryDelay time.Duration
	// Pause after a page that was fetched successfully
	PageDelay time.Duration
	// HTTP client timeout per attempt
	FetchTimeout time.Duration
	// SourceHTML or SourceFeed
	Source string
	// Table written at the end of the run; ".csv" selects CSV, anything else
	// an xlsx workbook
	OutputPath string
	// Launch the default viewer for the table when done
	OpenOutput bool
	UserAgent  string
}

// DefaultPipelineConfig returns the settings the catalog snapshot was
// designed around.
func DefaultPipelineConfig() *PipelineConfig {
	return &PipelineConfig{
		BaseURL:      "https://rutube.ru/feeds/top/",
		NumPages:     3,
		Retries:      discovery.DefaultRetries,
		RetryDelay:   discovery.DefaultRetryDelay,
		PageDelay:    1 * time.Second,
		FetchTimeout: discovery.DefaultFetchTimeout,
		Source:       SourceHTML,
		OutputPath:   "films_data.xlsx",
		OpenOutput:   true,
		UserAgent:    discovery.DefaultUserAgent,
	}
}

// Validate checks the configuration before any network activity.
func (c *PipelineConfig) Validate() error {
	if c.BaseURL == "" {
		return errors.New("base URL is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base URL must use http or https scheme")
	}
	if c.NumPages < 0 {
		return fmt.Errorf("number of pages must not be negative (got %d)", c.NumPages)
	}
	if c.Source != SourceHTML && c.Source != SourceFeed {
		return fmt.Errorf("source must be %q or %q (got %q)", SourceHTML, SourceFeed, c.Source)
	}
	if c.OutputPath == "" {
		return errors.New("output path is required")
	}
	return nil
}

// PageURL returns baseURL with the page query parameter set. Existing query
// parameters are kept.
func PageURL(baseURL string, page int) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		return fmt.Sprintf("%s?page=%d", baseURL, page)
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String()
}

// PageExtractor turns the content of one listing page into records.
type PageExtractor interface {
	ExtractPage(content string) ([]catalog.Record, error)
}

// Archive stores the final records of a run.
type Archive interface {
	Save(sourceURL string, records []catalog.Record) (*snapshots.Snapshot, error)
}

// Result summarizes a run.
type Result struct {
	// Unique records in first-seen order
	Records []catalog.Record
	// Size of the title set at the end of collection
	UniqueTitles int
	PagesFetched int
	PagesFailed  int
	// Records skipped because their title was already seen
	Duplicates int
	// Records removed by the final full-record pass
	Removed    int
	OutputPath string
	Opened     bool
	// uuid.Nil when no archive is configured or saving failed
	SnapshotID uuid.UUID
	Duration   time.Duration
}

// Pipeline fetches listing pages, extracts and deduplicates records, and
// writes them out. A Pipeline runs sequentially on the calling goroutine.
type Pipeline struct {
	config    *PipelineConfig
	fetcher   *discovery.PageFetcher
	extractor PageExtractor
	opener    export.Opener
	archive   Archive
	logger    *log.Logger
	out       io.Writer
	sleep     func(time.Duration)
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger for progress and warnings.
func WithLogger(logger *log.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// WithOutput sets where the final record dump is printed.
func WithOutput(w io.Writer) Option {
	return func(p *Pipeline) { p.out = w }
}

// WithOpener replaces the viewer launcher.
func WithOpener(opener export.Opener) Option {
	return func(p *Pipeline) { p.opener = opener }
}

// WithArchive enables snapshot archiving.
func WithArchive(archive Archive) Option {
	return func(p *Pipeline) { p.archive = archive }
}

// WithFetcher replaces the page fetcher.
func WithFetcher(fetcher *discovery.PageFetcher) Option {
	return func(p *Pipeline) { p.fetcher = fetcher }
}

// WithExtractor replaces the page extractor chosen from Source.
func WithExtractor(extractor PageExtractor) Option {
	return func(p *Pipeline) { p.extractor = extractor }
}

// WithSleeper replaces time.Sleep for page and retry delays.
func WithSleeper(sleep func(time.Duration)) Option {
	return func(p *Pipeline) { p.sleep = sleep }
}

// New creates a pipeline. A nil config means DefaultPipelineConfig.
func New(config *PipelineConfig, opts ...Option) *Pipeline {
	if config == nil {
		config = DefaultPipelineConfig()
	}

	p := &Pipeline{
		config: config,
		logger: log.Default(),
		out:    os.Stdout,
		sleep:  time.Sleep,
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.fetcher == nil {
		p.fetcher = discovery.NewPageFetcher(
			discovery.WithHTTPClient(&http.Client{Timeout: config.FetchTimeout}),
			discovery.WithRetryDelay(config.RetryDelay),
			discovery.WithUserAgent(config.UserAgent),
			discovery.WithLogger(p.logger),
			discovery.WithSleeper(p.sleep),
		)
	}
	if p.extractor == nil {
		if config.Source == SourceFeed {
			p.extractor = discovery.NewFeedExtractor()
		} else {
			p.extractor = discovery.NewItemExtractor(scraper.CatalogSelectors)
		}
	}
	if p.opener == nil {
		p.opener = export.NewSystemOpener()
	}

	return p
}

// Run performs one complete snapshot. Fetch and parse failures only skip the
// affected page; the returned error is non-nil when the configuration is
// invalid, ctx was cancelled before collection finished, or the output table
// could not be written. A cancelled run writes, opens and archives nothing.
// When only the write failed the Result is still returned.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	if err := p.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	startTime := time.Now()
	result := &Result{OutputPath: p.config.OutputPath}

	seen := catalog.NewSeenTitles()
	collected := p.collect(ctx, seen, result)
	if err := ctx.Err(); err != nil {
		p.logger.Printf("WARN: Run cancelled after %d of %d pages; output left untouched.",
			result.PagesFetched+result.PagesFailed, p.config.NumPages)
		return nil, fmt.Errorf("run cancelled: %w", err)
	}

	result.Records = catalog.Unique(collected)
	result.Removed = len(collected) - len(result.Records)
	result.UniqueTitles = seen.Len()

	writeErr := export.WriteFile(p.config.OutputPath, result.Records)
	if writeErr != nil {
		p.logger.Printf("ERROR: Failed to write %s: %v", p.config.OutputPath, writeErr)
	} else {
		p.openOutput(result)
	}

	p.archiveResult(result)

	result.Duration = time.Since(startTime)
	p.report(result)

	if writeErr != nil {
		return result, fmt.Errorf("failed to write output: %w", writeErr)
	}
	return result, nil
}

// collect walks the page range and returns the records that passed the title
// check, in the order they were extracted.
func (p *Pipeline) collect(ctx context.Context, seen *catalog.SeenTitles, result *Result) []catalog.Record {
	var collected []catalog.Record

	for page := 1; page <= p.config.NumPages; page++ {
		if ctx.Err() != nil {
			break
		}

		pageURL := PageURL(p.config.BaseURL, page)
		p.logger.Printf("INFO: Loading page %d of %d...", page, p.config.NumPages)

		content, ok := p.fetcher.Fetch(ctx, pageURL, p.config.Retries)
		if !ok && ctx.Err() != nil {
			break
		}
		if !ok {
			p.logger.Printf("ERROR: Failed to load page %d.", page)
			result.PagesFailed++
			continue
		}

		p.logger.Printf("INFO: Parsing page %d...", page)
		records, err := p.extractor.ExtractPage(content)
		if err != nil {
			p.logger.Printf("ERROR: Failed to parse page %d: %v", page, err)
			result.PagesFailed++
		} else {
			for _, record := range records {
				if !seen.Add(record.Title) {
					p.logger.Printf("INFO: '%s' already added, skipping.", record.Title)
					result.Duplicates++
					continue
				}
				collected = append(collected, record)
			}
			result.PagesFetched++
			p.logger.Printf("INFO: Page %d processed successfully (%d items).", page, len(records))
		}

		if page < p.config.NumPages {
			p.sleep(p.config.PageDelay)
		}
	}

	return collected
}

// openOutput launches the viewer for the written table unless it is disabled
// or the file looks busy.
func (p *Pipeline) openOutput(result *Result) {
	path := p.config.OutputPath
	if !p.config.OpenOutput {
		return
	}

	if export.IsFileInUse(path) {
		p.logger.Printf("WARN: File '%s' is open in another application; not opening it.", path)
		return
	}

	if err := p.opener.Open(path); err != nil {
		p.logger.Printf("WARN: Failed to open file: %v", err)
		return
	}

	result.Opened = true
	p.logger.Printf("INFO: File '%s' was created and opened.", path)
}

// archiveResult saves the snapshot when an archive is configured. Failures
// are logged only.
func (p *Pipeline) archiveResult(result *Result) {
	if p.archive == nil {
		return
	}

	snapshot, err := p.archive.Save(p.config.BaseURL, result.Records)
	if err != nil {
		p.logger.Printf("WARN: Failed to archive snapshot: %v", err)
		return
	}

	result.SnapshotID = snapshot.SnapshotID
	p.logger.Printf("INFO: Archived snapshot %s (%d records)", snapshot.SnapshotID, snapshot.RecordCount)
}

// report prints every surviving record and the unique-title count.
func (p *Pipeline) report(result *Result) {
	if len(result.Records) == 0 {
		fmt.Fprintln(p.out, "No video data was collected.")
	}
	for _, r := range result.Records {
		fmt.Fprintf(p.out, "%s | %s | %s | %s | %s\n", r.Title, r.Author, r.AddedDate, r.ViewCount, r.Duration)
	}
	fmt.Fprintf(p.out, "Unique titles: %d\n", result.UniqueTitles)
}
