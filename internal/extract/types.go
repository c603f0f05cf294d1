package extract

// UnknownField is the sentinel the model is instructed to use for fields it
// cannot determine from the source text. Stored as-is; the catalog does not
// validate field content.
const UnknownField = "unknown"

// PaperInfo is the full bibliographic structure extracted for cataloguing.
type PaperInfo struct {
	Year    int    `json:"year"`
	Journal string `json:"journal"`
	Title   string `json:"title"`
	Authors string `json:"authors"` // comma-joined
	Summary string `json:"summary"`
}

// CitationInfo is the reduced structure extracted for filename synthesis:
// no summary, and a single primary author instead of the full list.
type CitationInfo struct {
	Year    int    `json:"year"`
	Journal string `json:"journal"`
	Title   string `json:"title"`
	Author  string `json:"author"`
}

// SearchResult is the ranking structure returned for a retrieval question.
type SearchResult struct {
	RelevantIDs []int64 `json:"relevant_ids"`
	Answer      string  `json:"answer"`
}
