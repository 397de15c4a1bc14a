// Package model holds the shared domain types persisted by the store.
package model

import "time"

// RunStatus is the lifecycle state of a render run.
type RunStatus string

const (
	RunStatusQueued   RunStatus = "queued"
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// RenderJob describes one requested map build.
type RenderJob struct {
	Title       string `json:"title" yaml:"title"`
	TablePath   string `json:"table_path" yaml:"table"`
	Boundary    string `json:"boundary" yaml:"boundary"`
	PropertyKey string `json:"property_key" yaml:"property_key"`
	XCol        string `json:"x_col" yaml:"x_col"`
	YCol        string `json:"y_col" yaml:"y_col"`
	IDCol       string `json:"id_col" yaml:"id_col"`
	NameCol     string `json:"name_col" yaml:"name_col"`
	Palette     string `json:"palette" yaml:"palette"`
	Output      string `json:"output" yaml:"output"`
}

// Run is one recorded render run.
type Run struct {
	ID         string    `json:"id"`
	Job        RenderJob `json:"job"`
	Status     RunStatus `json:"status"`
	OutputPath string    `json:"output_path,omitempty"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// BoundaryCache is a cached remote boundary file body keyed by URL.
type BoundaryCache struct {
	URL       string    `json:"url"`
	ETag      string    `json:"etag,omitempty"`
	Body      []byte    `json:"-"`
	FetchedAt time.Time `json:"fetched_at"`
}
