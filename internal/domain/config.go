package domain

// KeyPrefix namespaces every key written to the shared KV store.
const KeyPrefix = "hervoice:"

// Retrieval constants shared by the pipeline stages.
const (
	// CandidatePoolSize bounds the coarse recall output.
	CandidatePoolSize = 8
	// TopK is the number of entries returned to the caller.
	TopK = 5
	// KeywordWeight scales the keyword match count in the fused score.
	KeywordWeight = 0.3
	// SimilarityWeight scales the semantic similarity in the fused score.
	SimilarityWeight = 0.7
	// SituationBonus is added to similarity when the query situation equals the entry situation.
	SituationBonus = 0.1
	// EntryTranscriptPrefix is how many characters of the transcript go into the entry text.
	EntryTranscriptPrefix = 300
)
