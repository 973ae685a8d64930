package catalog

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"wallgrab/internal/domain"
)

// mapPage converts a search response into a domain Page
func mapPage(resp *searchResponse) *domain.Page {
	records := make([]domain.ImageRecord, 0, len(resp.Data))
	for _, dto := range resp.Data {
		if dto.Path == "" {
			continue
		}
		records = append(records, domain.ImageRecord{
			ID:         dto.ID,
			Resolution: dto.Resolution,
			SourceURL:  dto.Path,
		})
	}

	lastPage := resp.Meta.LastPage
	if lastPage < 1 {
		lastPage = 1
	}
	number := resp.Meta.CurrentPage
	if number < 1 {
		number = 1
	}

	return &domain.Page{
		Number:   number,
		Records:  records,
		LastPage: lastPage,
	}
}

// Canonical names in API bit order
var (
	categoryNames = []string{"general", "anime", "people"}
	purityNames   = []string{"sfw", "sketchy", "nsfw"}
)

// encodeCategories converts a comma-separated list of (possibly partial)
// category names into the API's three-bit flag string, e.g.
// "general,anim" -> "110". Unmatched names are ignored; an empty result
// falls back to all categories.
func encodeCategories(list string) string {
	return encodeFlags(list, categoryNames, "111")
}

// encodePurity converts purity names into the API flag string,
// defaulting to SFW-only when nothing matches.
func encodePurity(list string) string {
	return encodeFlags(list, purityNames, "100")
}

func encodeFlags(list string, names []string, fallback string) string {
	bits := []byte("000")
	matched := false
	for _, raw := range strings.Split(list, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		// Loose matching so "anim" or "sketch" resolve to the canonical name
		ranks := fuzzy.RankFindNormalizedFold(raw, names)
		if len(ranks) == 0 {
			continue
		}
		best := ranks[0]
		for _, r := range ranks[1:] {
			if r.Distance < best.Distance {
				best = r
			}
		}
		bits[best.OriginalIndex] = '1'
		matched = true
	}
	if !matched {
		return fallback
	}
	return string(bits)
}
