package browse

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"wallgrab/internal/domain"
)

// Warmer warms the preview cache for a list of source URLs and returns
// the number of entries it completed. Blocking; failures are counted
// inside, never raised.
type Warmer interface {
	Warm(ctx context.Context, urls []string) int
}

// Session is the pagination controller: fetch page, display the
// selectable list, interpret the selection, loop until a terminal
// outcome. All state lives here; lower components get explicit values,
// never ambient configuration.
type Session struct {
	source   domain.CatalogSource
	selector domain.Selector
	warmer   Warmer             // Used only when preload is enabled
	preview  func(line string)  // Per-highlight callback for the selector
	logger   *slog.Logger

	startPage int
	preload   bool
}

// NewSession assembles a browse session. preview may be nil when no
// render pipeline is attached (the selector then shows lines only).
func NewSession(source domain.CatalogSource, selector domain.Selector, warmer Warmer, preview func(line string), startPage int, preload bool, logger *slog.Logger) *Session {
	if startPage < 1 {
		startPage = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		source:    source,
		selector:  selector,
		warmer:    warmer,
		preview:   preview,
		logger:    logger,
		startPage: startPage,
		preload:   preload,
	}
}

// Run drives the browse loop and returns the source URLs the user
// chose for download. Terminal failures: ErrSourceUnavailable,
// ErrEmptyResult, ErrCancelled, ErrNoValidSelection. No downloads are
// persisted on any failure path; the caller owns persistence.
func (s *Session) Run(ctx context.Context) ([]string, error) {
	currentPage := s.startPage

	for {
		if err := ctx.Err(); err != nil {
			return nil, domain.ErrCancelled
		}

		page, err := s.source.FetchPage(ctx, currentPage)
		if err != nil {
			if errors.Is(err, domain.ErrSourceUnavailable) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
		}
		s.logger.Info("fetched page", "page", currentPage, "records", len(page.Records), "lastPage", page.LastPage)

		if len(page.Records) == 0 {
			// Only an empty page 1 means the query has no results; an
			// empty later page still offers pagination so the user can
			// navigate back out (a start page past the end included)
			if currentPage == 1 {
				return nil, domain.ErrEmptyResult
			}
			s.logger.Warn("empty page past the first, offering pagination only", "page", currentPage)
		}

		if s.preload && s.warmer != nil && len(page.Records) > 0 {
			urls := make([]string, len(page.Records))
			for i, r := range page.Records {
				urls[i] = r.SourceURL
			}
			// Strict barrier: the page is not shown until the cache
			// is as warm as it is going to get
			s.warmer.Warm(ctx, urls)
		}

		lines := buildLines(currentPage, page)

		selected, err := s.selector.Select(ctx, lines, s.preview)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil, domain.ErrCancelled
			}
			return nil, err
		}
		if len(selected) == 0 {
			return nil, domain.ErrCancelled
		}

		downloads, pagination := s.resolveBatch(selected)

		// Downloads win over pagination in a mixed batch: a user who
		// multi-selects images plus a pseudo-line wants the images.
		if len(downloads) > 0 {
			return downloads, nil
		}

		switch pagination {
		case IntentNextPage:
			currentPage++
			if currentPage > page.LastPage {
				currentPage = page.LastPage
			}
		case IntentPrevPage:
			currentPage--
			if currentPage < 1 {
				currentPage = 1
			}
		default:
			return nil, domain.ErrNoValidSelection
		}
	}
}

// resolveBatch runs the resolver over every selected line, returning
// the download URLs (deduplicated, selection order) and the first
// pagination intent if any. Unrecognized lines are logged, never
// silently dropped.
func (s *Session) resolveBatch(selected []string) ([]string, IntentKind) {
	var downloads []string
	seen := make(map[string]struct{})
	pagination := IntentNone

	for _, line := range selected {
		intent := Resolve(line)
		switch intent.Kind {
		case IntentDownload:
			if _, dup := seen[intent.URL]; !dup {
				seen[intent.URL] = struct{}{}
				downloads = append(downloads, intent.URL)
			}
		case IntentNextPage, IntentPrevPage:
			if pagination == IntentNone {
				pagination = intent.Kind
			}
		default:
			s.logger.Warn("unrecognized selection line", "line", intent.Raw)
		}
	}
	return downloads, pagination
}

// buildLines produces the ordered selectable list: pagination
// pseudo-lines first, then one line per record.
func buildLines(currentPage int, page *domain.Page) []string {
	lines := make([]string, 0, len(page.Records)+2)
	if currentPage < page.LastPage {
		lines = append(lines, domain.NextPageLine)
	}
	if currentPage > 1 {
		lines = append(lines, domain.PrevPageLine)
	}
	for _, r := range page.Records {
		lines = append(lines, r.DisplayLine())
	}
	return lines
}
