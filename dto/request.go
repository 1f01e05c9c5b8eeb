package dto

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"strings"
)

// ContractExtractRequest represents the incoming extraction request
type ContractExtractRequest struct {
	Email        *multipart.FileHeader
	AddendumURLs string // optional JSON array, manual override for auto-detection
}

// Validate performs basic validation on the request
func (r *ContractExtractRequest) Validate() error {
	if r.Email == nil {
		return fmt.Errorf("email file is required")
	}

	filename := strings.ToLower(r.Email.Filename)
	validExtensions := []string{".eml", ".msg", ".mime", ".txt", ".html"}
	valid := false
	for _, ext := range validExtensions {
		if strings.HasSuffix(filename, ext) {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid file type. Supported: EML, MSG, MIME, TXT, HTML")
	}

	return nil
}

// ParseAddendumURLs decodes the optional manual override list.
func (r *ContractExtractRequest) ParseAddendumURLs() ([]string, error) {
	if strings.TrimSpace(r.AddendumURLs) == "" {
		return nil, nil
	}
	var urls []string
	if err := json.Unmarshal([]byte(r.AddendumURLs), &urls); err != nil {
		return nil, fmt.Errorf("invalid addendum_urls JSON: %w", err)
	}
	return urls, nil
}

// SynthesizeRequest carries an edited item sequence back for rendering
type SynthesizeRequest struct {
	Location ExtractedLocation  `json:"location"`
	Items    []ContractLineItem `json:"items" binding:"required"`
}

// ValidateTotalsRequest asks for a totals check against a declared total
type ValidateTotalsRequest struct {
	Items      []ContractLineItem `json:"items"`
	GrandTotal float64            `json:"grand_total"`
}
