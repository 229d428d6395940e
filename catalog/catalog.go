// Package catalog loads and indexes the page knowledge base.
//
// A catalog document is a JSON object with a "features" array, each entry
// naming a page and its curated Tamil keyword phrases. Documents are authored
// by hand, so the parser accepts JSONC (// line comments, /* block comments */,
// trailing commas) and strips it to plain JSON before unmarshaling.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"

	"github.com/uzhavan/disai/core"
)

// Catalog is a parsed knowledge base document. Page order is document order
// and is significant: it drives candidate order, which is the ranking
// tie-break key.
type Catalog struct {
	Pages []core.Page
}

type document struct {
	Features []core.Page `json:"features"`
}

// Parse strips JSONC syntax from data and unmarshals the page list. Page
// names and keywords are NFKC-normalized on the way in so that matching never
// sees mixed Unicode forms. Returns ErrMalformedCatalog for unparseable input
// or a page without a name, ErrEmptyCatalog for a document with no pages.
func Parse(data []byte) (*Catalog, error) {
	stripped := jsonc.ToJSON(data)

	var doc document
	if err := json.Unmarshal(stripped, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrMalformedCatalog, err)
	}

	if len(doc.Features) == 0 {
		return nil, core.ErrEmptyCatalog
	}

	pages := make([]core.Page, len(doc.Features))
	for i, feature := range doc.Features {
		page := feature
		page.Name = core.NormalizeText(page.Name)
		page.Keywords = core.NormalizeAll(page.Keywords)

		if err := core.ValidatePage(&page); err != nil {
			return nil, fmt.Errorf("feature %d: %w", i, err)
		}
		pages[i] = page
	}

	return &Catalog{Pages: pages}, nil
}

// Load reads a catalog document from disk and parses it.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	cat, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cat, nil
}
