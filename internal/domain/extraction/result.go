// Package extraction defines the pipeline's terminal result shape and its
// provenance metadata. A Result is constructed once at the end of a run and
// never mutated after return.
package extraction

import "github.com/decklens/decklens/internal/domain/record"

// Confidence tiers reported with every result.
type Confidence string

const (
	// ConfidenceHigh: vector-mode retrieval fed a successfully parsed generation.
	ConfidenceHigh Confidence = "high"
	// ConfidenceMedium: keyword-mode retrieval fed a successfully parsed generation.
	ConfidenceMedium Confidence = "medium"
	// ConfidenceLow: generation or parsing failed; the record is sentinel-filled.
	ConfidenceLow Confidence = "low"
)

// RetrievalMode names which scoring regime selected the context chunks.
type RetrievalMode string

const (
	// ModeVector ranks chunks by cosine similarity against the query embedding.
	ModeVector RetrievalMode = "vector"
	// ModeKeyword ranks chunks by distinct-keyword hits when no real
	// embeddings exist.
	ModeKeyword RetrievalMode = "keyword"
)

// Result wraps the extraction record plus provenance metadata.
type Result struct {
	Success         bool                    `json:"success"`
	Data            record.ExtractionRecord `json:"data"`
	ExtractionID    string                  `json:"extractionId"`
	Source          string                  `json:"source"`
	RAGUsed         bool                    `json:"ragUsed"`
	ChunkCount      int                     `json:"chunkCount"`
	RetrievedChunks int                     `json:"retrievedChunks"`
	DegradedChunks  int                     `json:"degradedChunks"`
	RetrievalMode   RetrievalMode           `json:"retrievalMode"`
	TopScore        float64                 `json:"topScore"`
	Confidence      Confidence              `json:"confidence"`
	ProcessingTime  int64                   `json:"processingTime"`
	AIError         string                  `json:"aiError,omitempty"`
	NextSteps       []string                `json:"nextSteps,omitempty"`
}
