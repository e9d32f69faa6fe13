package catalog

// Placeholder literals substituted when a field node is missing from an item.
// The title marker differs from the one shared by the other four fields.
const (
	TitleNotFound = "Title not found"
	NoData        = "No data"
)

// Columns is the fixed column order of the output table.
var Columns = []string{"Title", "Author", "Added", "Views", "Duration"}

// Record represents one video entry scraped from a catalog listing. Every
// field is always populated: missing source data is replaced by a placeholder
// at extraction time.
type Record struct {
	Title     string `json:"title"`
	Author    string `json:"author"`
	AddedDate string `json:"added_date"`
	ViewCount string `json:"view_count"`
	Duration  string `json:"duration"`
}

// Row returns the record's fields in Columns order.
func (r Record) Row() []string {
	return []string{r.Title, r.Author, r.AddedDate, r.ViewCount, r.Duration}
}
