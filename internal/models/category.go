package models

// RawCategory is one entry of the provider's category taxonomy. Only the
// id -> name mapping is consumed by the pipeline.
type RawCategory struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	ParentID string `json:"parent_id,omitempty" yaml:"parent_id,omitempty"`
}
