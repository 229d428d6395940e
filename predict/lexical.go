package predict

import (
	"context"
	"sort"
	"strings"

	"github.com/uzhavan/disai/catalog"
	"github.com/uzhavan/disai/core"
)

type lexKeyword struct {
	original string
	folded   string
	pages    []string
}

type pageKeyword struct {
	original string
	folded   string
}

// LexicalMatcher ranks pages by substring containment between query words and
// catalog keywords. It needs no embedding service and no network, which makes
// it the fallback strategy when none is reachable.
//
// Scoring walks the distinct keywords of the whole catalog: a query word and
// a keyword match when either contains the other (case-folded), and every
// page owning that keyword earns one point per match. Results are per page,
// unlike the embedding strategy's per-candidate results.
type LexicalMatcher struct {
	index *catalog.Index

	// keywords holds each distinct keyword once, in catalog order, together
	// with every page that lists it. A page listing the same keyword twice
	// appears twice in pages and earns double points, matching the weight
	// the catalog author gave it.
	keywords     []lexKeyword
	pageOrder    []string
	pageKeywords map[string][]pageKeyword
}

var _ Matcher = (*LexicalMatcher)(nil)

// NewLexicalMatcher builds the keyword view of the index.
func NewLexicalMatcher(index *catalog.Index) (*LexicalMatcher, error) {
	if index == nil {
		return nil, ErrIndexRequired
	}

	m := &LexicalMatcher{
		index:        index,
		pageKeywords: make(map[string][]pageKeyword),
	}

	seen := make(map[string]int)
	for _, page := range index.Pages() {
		if _, ok := m.pageKeywords[page.Name]; !ok {
			m.pageOrder = append(m.pageOrder, page.Name)
			kws := make([]pageKeyword, len(page.Keywords))
			for i, kw := range page.Keywords {
				kws[i] = pageKeyword{original: kw, folded: strings.ToLower(kw)}
			}
			m.pageKeywords[page.Name] = kws
		}
		for _, kw := range page.Keywords {
			i, ok := seen[kw]
			if !ok {
				i = len(m.keywords)
				seen[kw] = i
				m.keywords = append(m.keywords, lexKeyword{
					original: kw,
					folded:   strings.ToLower(kw),
				})
			}
			m.keywords[i].pages = append(m.keywords[i].pages, page.Name)
		}
	}

	return m, nil
}

// Predict scores every page against the query words and returns the top-k.
// When nothing matches at all, every page is returned with score 0 in catalog
// order, still capped at k. The score is the match count divided by the
// number of query words, so it can exceed 1 when several keywords hit the
// same word.
func (m *LexicalMatcher) Predict(ctx context.Context, query string, topK int) ([]core.Prediction, error) {
	topK = normalizeTopK(topK)

	words := core.FoldTokens(core.NormalizeText(query))

	counts := make(map[string]int)
	order := make([]string, 0, len(m.pageOrder))

	for _, word := range words {
		for _, kw := range m.keywords {
			if !strings.Contains(kw.folded, word) && !strings.Contains(word, kw.folded) {
				continue
			}
			for _, page := range kw.pages {
				if _, scored := counts[page]; !scored {
					order = append(order, page)
				}
				counts[page]++
			}
		}
	}

	if len(order) == 0 {
		order = append(order, m.pageOrder...)
	}

	// Stable sort keeps first-scored order among equal counts.
	sort.SliceStable(order, func(a, b int) bool {
		return counts[order[a]] > counts[order[b]]
	})

	if topK > len(order) {
		topK = len(order)
	}

	divisor := len(words)
	if divisor < 1 {
		divisor = 1
	}

	results := make([]core.Prediction, 0, topK)
	for _, page := range order[:topK] {
		results = append(results, core.Prediction{
			PageName:    page,
			Keyword:     m.matchedKeyword(page, words),
			Score:       float32(counts[page]) / float32(divisor),
			Description: m.index.Description(page),
		})
	}
	return results, nil
}

// matchedKeyword reports which of the page's keywords to surface: the first
// one containing any query word. The check is narrower than the scoring
// check, so a page scored only through a keyword shorter than the query word
// falls back to its first keyword.
func (m *LexicalMatcher) matchedKeyword(page string, words []string) string {
	kws := m.pageKeywords[page]
	for _, kw := range kws {
		for _, word := range words {
			if strings.Contains(kw.folded, word) {
				return kw.original
			}
		}
	}
	if len(kws) > 0 {
		return kws[0].original
	}
	return ""
}

// Strategy identifies the matching algorithm.
func (m *LexicalMatcher) Strategy() Strategy {
	return StrategyLexical
}
