package models

// SearchFilter is the filter object accepted by the search entry point.
// All supplied fields are ANDed; zero values mean "not supplied".
// DateFrom/DateTo accept "2006-01-02" or RFC 3339 timestamps.
type SearchFilter struct {
	Query         string   `json:"query,omitempty"`
	Categories    []string `json:"categories,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	DateFrom      string   `json:"dateFrom,omitempty"`
	DateTo        string   `json:"dateTo,omitempty"`
	DocumentType  string   `json:"documentType,omitempty"`
	HasEmails     bool     `json:"hasEmails,omitempty"`
	HasPhones     bool     `json:"hasPhones,omitempty"`
	HasAmounts    bool     `json:"hasAmounts,omitempty"`
	MinConfidence float64  `json:"minConfidence,omitempty"`
}

// IsEmpty reports whether no filter field was supplied.
func (f *SearchFilter) IsEmpty() bool {
	return f.Query == "" && len(f.Categories) == 0 && len(f.Tags) == 0 &&
		f.DateFrom == "" && f.DateTo == "" && f.DocumentType == "" &&
		!f.HasEmails && !f.HasPhones && !f.HasAmounts && f.MinConfidence == 0
}
