package discovery

import (
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"
	"github.com/pevans/catalogsnap/catalog"
)

// FeedExtractor reads listing pages published as RSS or Atom instead of
// HTML. The gofeed library detects the format.
type FeedExtractor struct {
	parser *gofeed.Parser
}

// NewFeedExtractor creates a feed extractor.
func NewFeedExtractor() *FeedExtractor {
	return &FeedExtractor{parser: gofeed.NewParser()}
}

// ExtractPage parses a feed document and converts each entry to a record.
func (e *FeedExtractor) ExtractPage(content string) ([]catalog.Record, error) {
	feed, err := e.parser.ParseString(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	records := make([]catalog.Record, 0, len(feed.Items))
	for _, item := range feed.Items {
		records = append(records, FeedItemToRecord(item))
	}
	return records, nil
}

// FeedItemToRecord maps a feed entry onto the record fields, applying the
// same placeholders as HTML extraction.
func FeedItemToRecord(item *gofeed.Item) catalog.Record {
	return catalog.Record{
		Title:     orPlaceholder(item.Title, catalog.TitleNotFound),
		Author:    orPlaceholder(feedAuthor(item), catalog.NoData),
		AddedDate: orPlaceholder(feedDate(item), catalog.NoData),
		ViewCount: orPlaceholder(feedViews(item), catalog.NoData),
		Duration:  orPlaceholder(feedDuration(item), catalog.NoData),
	}
}

// feedAuthor prefers the structured author, then the authors list, then the
// Dublin Core creator.
func feedAuthor(item *gofeed.Item) string {
	if item.Author != nil && item.Author.Name != "" {
		return item.Author.Name
	}
	for _, author := range item.Authors {
		if author != nil && author.Name != "" {
			return author.Name
		}
	}
	if item.DublinCoreExt != nil {
		for _, creator := range item.DublinCoreExt.Creator {
			if creator != "" {
				return creator
			}
		}
	}
	return ""
}

// feedDate keeps the publish date as written in the feed.
func feedDate(item *gofeed.Item) string {
	if item.Published != "" {
		return item.Published
	}
	return item.Updated
}

// feedViews reads <media:community><media:statistics views="..."/>, which
// video platforms include in their feeds.
func feedViews(item *gofeed.Item) string {
	media, ok := item.Extensions["media"]
	if !ok {
		return ""
	}

	// YouTube nests community under media:group
	candidates := append([]ext.Extension{}, media["community"]...)
	for _, group := range media["group"] {
		candidates = append(candidates, group.Children["community"]...)
	}

	for _, community := range candidates {
		for _, stats := range community.Children["statistics"] {
			if views := stats.Attrs["views"]; views != "" {
				return strings.ReplaceAll(views, nbsp, "")
			}
		}
	}
	return ""
}

// feedDuration reads the iTunes duration, if any.
func feedDuration(item *gofeed.Item) string {
	if item.ITunesExt != nil {
		return item.ITunesExt.Duration
	}
	return ""
}

func orPlaceholder(value, placeholder string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return placeholder
	}
	return value
}
