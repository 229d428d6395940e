package catalog

import (
	"sort"
	"strings"

	"github.com/uzhavan/disai/core"
)

// Index is the immutable, matcher-facing view of a catalog: pages in document
// order, the flattened (page, keyword) candidate list, and a fingerprint of
// the candidate stream. Reloading a catalog builds a fresh Index; an Index is
// never mutated after construction and is safe for concurrent readers.
type Index struct {
	pages       []core.Page
	byName      map[string]int
	candidates  []core.Candidate
	fingerprint core.ID
}

// NewIndex flattens the catalog into candidates. A page with N keywords
// contributes N candidates in keyword order; pages appear in document order.
// Duplicate page names resolve to the first occurrence for lookups, matching
// the linear-scan behavior the serving API is specified against.
func NewIndex(c *Catalog) (*Index, error) {
	if c == nil || len(c.Pages) == 0 {
		return nil, core.ErrEmptyCatalog
	}

	idx := &Index{
		pages:  c.Pages,
		byName: make(map[string]int, len(c.Pages)),
	}

	var stream strings.Builder
	for i, page := range c.Pages {
		if _, seen := idx.byName[page.Name]; !seen {
			idx.byName[page.Name] = i
		}
		for _, keyword := range page.Keywords {
			idx.candidates = append(idx.candidates, core.Candidate{
				Page:    page.Name,
				Keyword: keyword,
			})
			stream.WriteString(page.Name)
			stream.WriteByte(0)
			stream.WriteString(keyword)
			stream.WriteByte(0x1e)
		}
	}

	idx.fingerprint = core.IDFromContent(stream.String())
	return idx, nil
}

// Candidates returns the flattened (page, keyword) pairs in catalog order.
// Callers must not modify the returned slice.
func (idx *Index) Candidates() []core.Candidate {
	return idx.candidates
}

// Pages returns the pages in catalog order. Callers must not modify the
// returned slice.
func (idx *Index) Pages() []core.Page {
	return idx.pages
}

// Page looks up a page by name. Duplicate names resolve to the first
// occurrence.
func (idx *Index) Page(name string) (*core.Page, bool) {
	i, ok := idx.byName[name]
	if !ok {
		return nil, false
	}
	return &idx.pages[i], true
}

// Description returns a page's description, or the empty string when the page
// is unknown or carries none.
func (idx *Index) Description(name string) string {
	page, ok := idx.Page(name)
	if !ok {
		return ""
	}
	return page.Description
}

// Fingerprint identifies the candidate stream. Two catalogs with the same
// pages, keywords, and ordering share a fingerprint; any edit changes it.
func (idx *Index) Fingerprint() core.ID {
	return idx.fingerprint
}

// Stats summarizes the catalog shape for the /stats endpoint.
func (idx *Index) Stats() core.CatalogStats {
	counts := make([]int, len(idx.pages))
	total := 0
	for i, page := range idx.pages {
		counts[i] = len(page.Keywords)
		total += counts[i]
	}

	stats := core.CatalogStats{
		TotalPages:    len(idx.pages),
		TotalKeywords: total,
	}
	if stats.TotalPages > 0 {
		stats.AvgKeywordsPerPage = float64(total) / float64(stats.TotalPages)
	}
	if len(counts) > 0 {
		sorted := make([]int, len(counts))
		copy(sorted, counts)
		sort.Ints(sorted)
		stats.KeywordDistribution = core.KeywordDistribution{
			Min:    sorted[0],
			Max:    sorted[len(sorted)-1],
			Median: median(sorted),
		}
	}
	return stats
}

// median expects a sorted slice. Even-length input averages the two middle
// values.
func median(sorted []int) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return float64(sorted[n/2])
	}
	return (float64(sorted[n/2-1]) + float64(sorted[n/2])) / 2
}
