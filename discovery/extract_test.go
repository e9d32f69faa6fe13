package discovery

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/pevans/catalogsnap/catalog"
	"github.com/pevans/catalogsnap/scraper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper: build one catalog card; empty arguments omit the field node
func card(title, author, added, views, duration string) string {
	var b strings.Builder
	b.WriteString(`<div class="card-original-wrapper-module__cardOriginalWrap">`)
	if duration != "" {
		b.WriteString(`<span class="wdp-poster-badge-module__poster-badge wdp-card-video-options-module__duration">` + duration + `</span>`)
	}
	if title != "" {
		b.WriteString(`<a class="wdp-link-module__link wdp-card-description-module__title wdp-card-description-module__url wdp-card-description-module__videoTitle" href="/video/1">` + title + `</a>`)
	}
	if author != "" {
		b.WriteString(`<a class="wdp-link-module__link wdp-card-description-module__author wdp-card-description-module__url" href="/channel/1">` + author + `</a>`)
	}
	if added != "" {
		b.WriteString(`<div class="wdp-card-description-meta-info-module__metaInfoPublishDate">` + added + `</div>`)
	}
	if views != "" {
		b.WriteString(`<div class="wdp-card-description-meta-info-module__metaInfoViewsCountNumber">` + views + `</div>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}

func page(cards ...string) string {
	return "<html><body><main>" + strings.Join(cards, "\n") + "</main></body></html>"
}

// Test helper: parse a single card and return its item node
func singleItem(t *testing.T, html string) *goquery.Selection {
	t.Helper()
	items, err := NewItemExtractor(scraper.CatalogSelectors).ParseItems(page(html))
	require.NoError(t, err)
	require.Len(t, items, 1)
	return items[0]
}

// TestExtract_AllFieldsPresent verifies each field is read and trimmed
func TestExtract_AllFieldsPresent(t *testing.T) {
	item := singleItem(t, card("  Big Match Highlights \n", " Sports TV ", " 3 hours ago ", "12 345 views", " 10:02 "))

	record := NewItemExtractor(scraper.CatalogSelectors).Extract(item)

	assert.Equal(t, catalog.Record{
		Title:     "Big Match Highlights",
		Author:    "Sports TV",
		AddedDate: "3 hours ago",
		ViewCount: "12 345 views",
		Duration:  "10:02",
	}, record)
}

// TestExtract_AllFieldsMissing verifies every field falls back to its exact
// placeholder
func TestExtract_AllFieldsMissing(t *testing.T) {
	item := singleItem(t, card("", "", "", "", ""))

	record := NewItemExtractor(scraper.CatalogSelectors).Extract(item)

	assert.Equal(t, catalog.TitleNotFound, record.Title)
	assert.Equal(t, catalog.NoData, record.Author)
	assert.Equal(t, catalog.NoData, record.AddedDate)
	assert.Equal(t, catalog.NoData, record.ViewCount)
	assert.Equal(t, catalog.NoData, record.Duration)
}

// TestExtract_EachFieldMissing verifies placeholders are applied per field
func TestExtract_EachFieldMissing(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected catalog.Record
	}{
		{
			name:     "missing title",
			html:     card("", "A", "D", "1", "1:00"),
			expected: catalog.Record{Title: catalog.TitleNotFound, Author: "A", AddedDate: "D", ViewCount: "1", Duration: "1:00"},
		},
		{
			name:     "missing author",
			html:     card("T", "", "D", "1", "1:00"),
			expected: catalog.Record{Title: "T", Author: catalog.NoData, AddedDate: "D", ViewCount: "1", Duration: "1:00"},
		},
		{
			name:     "missing date",
			html:     card("T", "A", "", "1", "1:00"),
			expected: catalog.Record{Title: "T", Author: "A", AddedDate: catalog.NoData, ViewCount: "1", Duration: "1:00"},
		},
		{
			name:     "missing views",
			html:     card("T", "A", "D", "", "1:00"),
			expected: catalog.Record{Title: "T", Author: "A", AddedDate: "D", ViewCount: catalog.NoData, Duration: "1:00"},
		},
		{
			name:     "missing duration",
			html:     card("T", "A", "D", "1", ""),
			expected: catalog.Record{Title: "T", Author: "A", AddedDate: "D", ViewCount: "1", Duration: catalog.NoData},
		},
	}

	extractor := NewItemExtractor(scraper.CatalogSelectors)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := extractor.Extract(singleItem(t, tt.html))
			assert.Equal(t, tt.expected, record)
		})
	}
}

// TestExtract_ViewCountStripsNBSP verifies non-breaking spaces are removed
// from view counts only
func TestExtract_ViewCountStripsNBSP(t *testing.T) {
	item := singleItem(t, card("T\u00a0One", "A", "D", " 1\u00a0234 ", "1:00"))

	record := NewItemExtractor(scraper.CatalogSelectors).Extract(item)

	assert.Equal(t, "1234", record.ViewCount)
	assert.Equal(t, "T\u00a0One", record.Title, "other fields keep non-breaking spaces")
}

// TestExtract_NestedFieldText verifies text of nested markup is collected
func TestExtract_NestedFieldText(t *testing.T) {
	item := singleItem(t, card("<span>Part</span> <b>Two</b>", "A", "D", "1", "1:00"))

	record := NewItemExtractor(scraper.CatalogSelectors).Extract(item)

	assert.Equal(t, "Part Two", record.Title)
}

// TestExtract_FirstMatchWins verifies only the first matching node is used
func TestExtract_FirstMatchWins(t *testing.T) {
	html := `<div class="card-original-wrapper-module__cardOriginalWrap">
		<div class="wdp-card-description-meta-info-module__metaInfoPublishDate">first</div>
		<div class="wdp-card-description-meta-info-module__metaInfoPublishDate">second</div>
	</div>`
	item := singleItem(t, html)

	record := NewItemExtractor(scraper.CatalogSelectors).Extract(item)

	assert.Equal(t, "first", record.AddedDate)
}

// TestExtract_PresentButEmptyNode verifies only absence yields a placeholder
func TestExtract_PresentButEmptyNode(t *testing.T) {
	html := `<div class="card-original-wrapper-module__cardOriginalWrap">
		<span class="wdp-poster-badge-module__poster-badge wdp-card-video-options-module__duration">   </span>
	</div>`
	item := singleItem(t, html)

	record := NewItemExtractor(scraper.CatalogSelectors).Extract(item)

	assert.Equal(t, "", record.Duration)
}

// TestExtract_SearchIsScopedToItem verifies fields are not taken from a
// neighbouring card
func TestExtract_SearchIsScopedToItem(t *testing.T) {
	extractor := NewItemExtractor(scraper.CatalogSelectors)
	items, err := extractor.ParseItems(page(card("First", "", "", "", ""), card("Second", "Owner", "", "", "")))
	require.NoError(t, err)
	require.Len(t, items, 2)

	first := extractor.Extract(items[0])

	assert.Equal(t, "First", first.Title)
	assert.Equal(t, catalog.NoData, first.Author)
}

// TestParseItems_NoItems verifies a page without cards yields nothing
func TestParseItems_NoItems(t *testing.T) {
	items, err := NewItemExtractor(scraper.CatalogSelectors).ParseItems("<html><body><p>empty</p></body></html>")

	require.NoError(t, err)
	assert.Empty(t, items)
}

// TestExtractPage_DocumentOrder verifies records follow document order
func TestExtractPage_DocumentOrder(t *testing.T) {
	html := page(
		card("One", "A", "D", "1", "1:00"),
		card("Two", "", "D", "2", "2:00"),
		card("Three", "C", "D", "3", "3:00"),
	)

	records, err := NewItemExtractor(scraper.CatalogSelectors).ExtractPage(html)

	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "One", records[0].Title)
	assert.Equal(t, "Two", records[1].Title)
	assert.Equal(t, catalog.NoData, records[1].Author)
	assert.Equal(t, "Three", records[2].Title)
}
