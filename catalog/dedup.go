package catalog

// SeenTitles is the per-run set of titles already accepted during
// collection. It only grows.
type SeenTitles struct {
	titles map[string]struct{}
}

// NewSeenTitles creates an empty title set.
func NewSeenTitles() *SeenTitles {
	return &SeenTitles{titles: make(map[string]struct{})}
}

// Add records title and reports whether it was new. A false return means the
// caller should discard the record carrying it.
func (s *SeenTitles) Add(title string) bool {
	if _, ok := s.titles[title]; ok {
		return false
	}
	s.titles[title] = struct{}{}
	return true
}

// Contains reports whether title has been accepted already.
func (s *SeenTitles) Contains(title string) bool {
	_, ok := s.titles[title]
	return ok
}

// Len returns the number of distinct titles seen.
func (s *SeenTitles) Len() int {
	return len(s.titles)
}

// Unique returns the records that are distinct across all five fields,
// keeping the first occurrence of each and preserving first-seen order.
func Unique(records []Record) []Record {
	seen := make(map[Record]struct{}, len(records))
	unique := make([]Record, 0, len(records))
	for _, r := range records {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		unique = append(unique, r)
	}
	return unique
}
