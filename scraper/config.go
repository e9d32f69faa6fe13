package scraper

// Selectors defines where the fields of a catalog entry live in listing
// markup. ItemSelector is matched against the whole page; the field
// selectors are matched against each item node.
type Selectors struct {
	ItemSelector     string `json:"item_selector"`
	TitleSelector    string `json:"title_selector"`
	AuthorSelector   string `json:"author_selector"`
	DateSelector     string `json:"date_selector"`
	ViewsSelector    string `json:"views_selector"`
	DurationSelector string `json:"duration_selector"`
}

// CatalogSelectors are the compiled-in selectors for the video catalog's
// card layout. They are not configurable at run time.
var CatalogSelectors = Selectors{
	ItemSelector: "div.card-original-wrapper-module__cardOriginalWrap",
	TitleSelector: "a.wdp-link-module__link.wdp-card-description-module__title" +
		".wdp-card-description-module__url.wdp-card-description-module__videoTitle",
	AuthorSelector: "a.wdp-link-module__link.wdp-card-description-module__author" +
		".wdp-card-description-module__url",
	DateSelector:     "div.wdp-card-description-meta-info-module__metaInfoPublishDate",
	ViewsSelector:    "div.wdp-card-description-meta-info-module__metaInfoViewsCountNumber",
	DurationSelector: "span.wdp-poster-badge-module__poster-badge.wdp-card-video-options-module__duration",
}
