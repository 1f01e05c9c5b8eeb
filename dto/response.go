package dto

import "errors"

// Custom errors
var (
	ErrTemplateNotFound = errors.New("spreadsheet template not found or unreadable")
	ErrNoItems          = errors.New("no line items to synthesize")
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// ExtractionResponse is the final response structure for /extract
type ExtractionResponse struct {
	Location         ExtractedLocation  `json:"location"`
	Items            []ContractLineItem `json:"items"`
	HasTable         bool               `json:"has_table"`
	Validation       *ValidationResult  `json:"validation,omitempty"`
	AddendumStatuses []AddendumStatus   `json:"addendum_statuses"`
	ProcessedAt      string             `json:"processed_at"`
}
