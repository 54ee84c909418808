package models

import "time"

// OperationSpec describes one step of a transform pipeline.
// Factor and Mid are pointers so that an omitted value can fall back to the
// operation default.
type OperationSpec struct {
	Name       string      `json:"name" binding:"required"`
	Factor     *float64    `json:"factor,omitempty"`
	Mid        *float64    `json:"mid,omitempty"`
	KernelSize int         `json:"kernel_size,omitempty"`
	Kernel     [][]float64 `json:"kernel,omitempty"`
	KernelY    [][]float64 `json:"kernel_y,omitempty"`
}

// TransformRequest represents a request to transform an image
type TransformRequest struct {
	URL        string          `json:"url" binding:"required,url"`
	Operations []OperationSpec `json:"operations" binding:"required,min=1,dive"`
	Format     string          `json:"format,omitempty"`
	Channels   int             `json:"channels,omitempty"`
	Store      bool            `json:"store,omitempty"`
}

// TransformResponse is returned instead of image bytes when the result is stored
type TransformResponse struct {
	ImageURL          string              `json:"image_url"`
	StoredURL         string              `json:"stored_url,omitempty"`
	Format            string              `json:"format"`
	ContentType       string              `json:"content_type"`
	Width             int                 `json:"width"`
	Height            int                 `json:"height"`
	Channels          int                 `json:"channels"`
	Operations        []string            `json:"operations"`
	Statistics        []ChannelStatistics `json:"statistics,omitempty"`
	ProcessingTimeSec float64             `json:"processing_time_sec"`
	Timestamp         time.Time           `json:"timestamp"`
}

// StatisticsRequest asks for per-channel statistics, optionally after
// running a pipeline
type StatisticsRequest struct {
	URL        string          `json:"url" binding:"required,url"`
	Operations []OperationSpec `json:"operations,omitempty" binding:"omitempty,dive"`
	Channels   int             `json:"channels,omitempty"`
}

// StatisticsResponse carries per-channel statistics
type StatisticsResponse struct {
	ImageURL          string              `json:"image_url"`
	Width             int                 `json:"width"`
	Height            int                 `json:"height"`
	Channels          int                 `json:"channels"`
	Operations        []string            `json:"operations,omitempty"`
	Statistics        []ChannelStatistics `json:"statistics"`
	ProcessingTimeSec float64             `json:"processing_time_sec"`
	Timestamp         time.Time           `json:"timestamp"`
}

// ChannelStatistics summarizes one channel of an image in [0, 1] units
type ChannelStatistics struct {
	Channel int     `json:"channel"`
	Mean    float64 `json:"mean"`
	StdDev  float64 `json:"std_dev"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// OperationInfo documents a supported operation
type OperationInfo struct {
	Name        string   `json:"name"`
	Aliases     []string `json:"aliases,omitempty"`
	Parameters  []string `json:"parameters,omitempty"`
	Description string   `json:"description"`
}

// OperationsResponse lists the supported operations
type OperationsResponse struct {
	Operations []OperationInfo `json:"operations"`
	Formats    []string        `json:"formats"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Details string `json:"details,omitempty"`
}
