package api

import "concord/internal/scheduler"

// ItemResponse is returned by GET /api/next.
type ItemResponse struct {
	ItemID   int64              `json:"item_id"`
	Split    string             `json:"split"`
	Fields   map[string]string  `json:"fields"`
	Text     string             `json:"text"`
	Progress scheduler.Progress `json:"progress"`
}

// ExhaustedResponse is returned with 410 Gone when a split has no unlabeled items.
type ExhaustedResponse struct {
	Exhausted bool               `json:"exhausted"`
	Split     string             `json:"split"`
	Progress  scheduler.Progress `json:"progress"`
}

// SubmitRequest is the body of POST /api/submit.
type SubmitRequest struct {
	ItemID *int64 `json:"item_id"`
	Label  string `json:"label"`
}

// SplitsResponse is returned by GET /api/splits.
type SplitsResponse struct {
	Default    string               `json:"default"`
	Splits     []scheduler.Progress `json:"splits"`
	Vocabulary []string             `json:"vocabulary,omitempty"`
}

// ErrorResponse carries a failure message.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}
