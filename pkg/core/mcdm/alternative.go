package mcdm

// Alternative is one candidate option being ranked.
//
// Metadata holds optional numeric annotations. The AHP method reads
// "criterion_<id>" keys from it when asked to auto-generate pairwise
// comparisons from metadata instead of matrix cells.
type Alternative struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Metadata    map[string]float64 `json:"metadata,omitempty"`
}

// MetadataValue returns the metadata entry for key, or fallback when absent.
func (a Alternative) MetadataValue(key string, fallback float64) float64 {
	if v, ok := a.Metadata[key]; ok {
		return v
	}
	return fallback
}
