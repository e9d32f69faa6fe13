package discovery

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pevans/catalogsnap/catalog"
	"github.com/pevans/catalogsnap/scraper"
)

// nbsp is removed from view counts, which the catalog groups by thousands
// with non-breaking spaces.
const nbsp = "\u00a0"

// ItemExtractor turns item nodes of a listing page into records.
type ItemExtractor struct {
	selectors scraper.Selectors
}

// NewItemExtractor creates an extractor for the given selectors.
func NewItemExtractor(selectors scraper.Selectors) *ItemExtractor {
	return &ItemExtractor{selectors: selectors}
}

// ParseItems parses html and returns every node matching the item selector.
func (e *ItemExtractor) ParseItems(html string) ([]*goquery.Selection, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var items []*goquery.Selection
	doc.Find(e.selectors.ItemSelector).Each(func(_ int, s *goquery.Selection) {
		items = append(items, s)
	})
	return items, nil
}

// Extract builds a record from one item node. A field whose node is absent
// gets its placeholder; absence is never an error.
func (e *ItemExtractor) Extract(item *goquery.Selection) catalog.Record {
	return catalog.Record{
		Title:     fieldText(item, e.selectors.TitleSelector, catalog.TitleNotFound, false),
		Author:    fieldText(item, e.selectors.AuthorSelector, catalog.NoData, false),
		AddedDate: fieldText(item, e.selectors.DateSelector, catalog.NoData, false),
		ViewCount: fieldText(item, e.selectors.ViewsSelector, catalog.NoData, true),
		Duration:  fieldText(item, e.selectors.DurationSelector, catalog.NoData, false),
	}
}

// ExtractPage parses html and extracts a record for every item node, in
// document order.
func (e *ItemExtractor) ExtractPage(html string) ([]catalog.Record, error) {
	items, err := e.ParseItems(html)
	if err != nil {
		return nil, err
	}

	records := make([]catalog.Record, 0, len(items))
	for _, item := range items {
		records = append(records, e.Extract(item))
	}
	return records, nil
}

// fieldText returns the trimmed text of the first descendant of item matching
// selector, or placeholder when there is none.
func fieldText(item *goquery.Selection, selector, placeholder string, stripNBSP bool) string {
	node := item.Find(selector).First()
	if node.Length() == 0 {
		return placeholder
	}

	text := node.Text()
	if stripNBSP {
		text = strings.ReplaceAll(text, nbsp, "")
	}
	return strings.TrimSpace(text)
}
