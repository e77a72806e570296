package models

// DocumentType is the heuristic classification of a document's content.
type DocumentType string

const (
	TypeInvoice  DocumentType = "invoice"
	TypeReceipt  DocumentType = "receipt"
	TypeContract DocumentType = "contract"
	TypeResume   DocumentType = "resume"
	TypeID       DocumentType = "id"
	TypeReport   DocumentType = "report"
	TypeOther    DocumentType = "other"
)

// StructuredText is the payload derived from raw extracted text.
type StructuredText struct {
	RawText       string       `json:"rawText"`
	ProcessedText string       `json:"processedText"`
	Entities      Entities     `json:"entities"`
	Sections      Sections     `json:"sections"`
	DocumentType  DocumentType `json:"documentType"`
	Confidence    float64      `json:"confidence"`
	Metadata      TextMetadata `json:"metadata"`
}

// Entities holds pattern-extracted substrings in first-match order.
// Slices are never nil; duplicates are kept.
type Entities struct {
	Emails           []string `json:"emails"`
	Phones           []string `json:"phones"`
	Dates            []string `json:"dates"`
	Amounts          []string `json:"amounts"`
	Names            []string `json:"names"`
	Addresses        []string `json:"addresses"`
	ReferenceNumbers []string `json:"referenceNumbers"`
}

// Sections splits a document's non-empty lines into title, header, body, and footer.
// Short documents may yield empty or overlapping header/footer.
type Sections struct {
	Title  string   `json:"title,omitempty"`
	Header []string `json:"header"`
	Body   []string `json:"body"`
	Footer []string `json:"footer"`
}

// TextMetadata carries simple statistics about the processed text.
type TextMetadata struct {
	LineCount    int    `json:"lineCount"`
	WordCount    int    `json:"wordCount"`
	HasTable     bool   `json:"hasTable"`
	HasSignature bool   `json:"hasSignature"`
	Language     string `json:"language"`
}
