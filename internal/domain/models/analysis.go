package models

import "time"

// AnalysisRun is the envelope returned for one completed analysis.
// Elements holds the validated results as returned by the resolver;
// Text is set instead for narrative features.
type AnalysisRun struct {
	ID        string           `json:"id"`
	Feature   string           `json:"feature"`
	Elements  []map[string]any `json:"elements,omitempty"`
	Text      string           `json:"text,omitempty"`
	Tokens    int              `json:"tokens"`
	Cost      string           `json:"cost"` // decimal string
	StartedAt time.Time        `json:"startedAt"`
	Elapsed   time.Duration    `json:"elapsed"`
}
