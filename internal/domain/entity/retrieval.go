package entity

// ItemKind discriminates the two retrieval item variants.
type ItemKind string

const (
	ItemKindProperty ItemKind = "property"
	ItemKindDocChunk ItemKind = "chunk"
)

// MatchSource records which retrieval path produced an item. An item found
// by both the directory and the vector index is the highest-confidence match.
type MatchSource string

const (
	SourceVector    MatchSource = "vector"
	SourceDirectory MatchSource = "directory"
	SourceBoth      MatchSource = "both"
)

// RetrievalItem is one grounding candidate, ranked by Score descending.
type RetrievalItem struct {
	ID   string   `json:"id"`
	Kind ItemKind `json:"kind"`

	// Property fields
	Title       string  `json:"title,omitempty"`
	Location    string  `json:"location,omitempty"`
	Price       float64 `json:"price,omitempty"`
	Bedrooms    int     `json:"bedrooms,omitempty"`
	Bathrooms   int     `json:"bathrooms,omitempty"`
	AreaSqm     float64 `json:"area_sqm,omitempty"`
	Available   bool    `json:"available,omitempty"`
	Description string  `json:"description,omitempty"`

	// Document chunk fields
	DocumentID  string `json:"document_id,omitempty"`
	ChunkIndex  int    `json:"chunk_index,omitempty"`
	TotalChunks int    `json:"total_chunks,omitempty"`
	Content     string `json:"content,omitempty"`

	Score  float32     `json:"score"`
	Source MatchSource `json:"source,omitempty"`
}

// PropertyFilters are the optional, AND-combined structured filters extracted
// from a message. Nil / empty fields mean "no constraint".
type PropertyFilters struct {
	Type      string   `json:"type,omitempty"` // "rent" or "sale"
	Category  string   `json:"category,omitempty"`
	Location  string   `json:"location,omitempty"`
	Bedrooms  *int     `json:"bedrooms,omitempty"`
	Bathrooms *int     `json:"bathrooms,omitempty"`
	MinPrice  *float64 `json:"min_price,omitempty"`
	MaxPrice  *float64 `json:"max_price,omitempty"`
	Featured  *bool    `json:"featured,omitempty"`
}

// Empty reports whether no filter was recognized at all.
func (f PropertyFilters) Empty() bool {
	return f.Type == "" && f.Category == "" && f.Location == "" &&
		f.Bedrooms == nil && f.Bathrooms == nil &&
		f.MinPrice == nil && f.MaxPrice == nil && f.Featured == nil
}

// IndexHit is a raw nearest-neighbor result from the vector index.
type IndexHit struct {
	ID       string
	Score    float32
	Metadata map[string]any
}

// IndexPoint is one vector plus payload handed to the index on ingestion.
type IndexPoint struct {
	ID      string
	Vector  []float32
	Payload map[string]any
}

// PropertyRecord is the ingestion payload for one listing.
type PropertyRecord struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Location    string   `json:"location"`
	AreaSqm     float64  `json:"area_sqm"`
	Bedrooms    int      `json:"bedrooms"`
	Bathrooms   int      `json:"bathrooms"`
	Price       float64  `json:"price"`
	Available   bool     `json:"available"`
	Type        string   `json:"type,omitempty"`
	Category    string   `json:"category,omitempty"`
	Featured    bool     `json:"featured,omitempty"`
	Description string   `json:"description,omitempty"`
	Features    []string `json:"features,omitempty"`
}
