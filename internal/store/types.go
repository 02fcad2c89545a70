package store

// SearchResult is one entry of a search response. The JSON tags match the
// persisted cache representation and the upstream API field names.
type SearchResult struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Snippet     string `json:"snippet"`
	DisplayLink string `json:"displayLink"`
	ImageURL    string `json:"image,omitempty"`
}

// QueryCount is one row of the top-queries ranking.
type QueryCount struct {
	Query string
	Count int64
}

// Summary aggregates bot usage for the admin stats command.
type Summary struct {
	TotalSearches int64
	UniqueUsers   int64
	CachedEntries int64
	TopQueries    []QueryCount
}
