package core

import (
	"encoding/binary"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier derived from content hashing.
// Identical content always produces the identical ID.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Page is one entry of the catalog: a navigable destination together with the
// curated Tamil keyword phrases that should lead to it. Pages are immutable
// once a catalog is loaded.
type Page struct {
	Name          string   `json:"page_name"`
	Keywords      []string `json:"keywords"`
	Description   string   `json:"description"`
	ActionMessage string   `json:"action_message"`
}

// Candidate is a single (page, keyword) pair eligible for matching. A page
// with N keywords contributes N candidates; candidate order follows catalog
// order and is the tie-break key during ranking.
type Candidate struct {
	Page    string
	Keyword string
}

// Prediction is one ranked answer for a query: the page, the keyword that
// carried the match, the relevance score, and the page's description.
// Field names mirror the serving API.
type Prediction struct {
	PageName    string  `json:"page_name"`
	Keyword     string  `json:"keyword"`
	Score       float32 `json:"similarity_score"`
	Description string  `json:"description"`
}

// KeywordDistribution summarizes the spread of per-page keyword counts.
type KeywordDistribution struct {
	Min    int     `json:"min"`
	Max    int     `json:"max"`
	Median float64 `json:"median"`
}

// CatalogStats aggregates shape information about a loaded catalog.
type CatalogStats struct {
	TotalPages          int                 `json:"total_pages"`
	TotalKeywords       int                 `json:"total_keywords"`
	AvgKeywordsPerPage  float64             `json:"avg_keywords_per_page"`
	KeywordDistribution KeywordDistribution `json:"keyword_distribution"`
}
