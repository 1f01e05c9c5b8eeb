package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/salesops/contract-extractor/dto"
	"github.com/salesops/contract-extractor/utils/addendum"
	"github.com/salesops/contract-extractor/utils/contracttable"
	"github.com/salesops/contract-extractor/utils/ordermeta"
)

// ExtractionService runs the full pipeline: decode the email, flatten the
// primary items table, resolve linked addenda, merge, and validate totals.
// Data flows strictly downstream; every stage hands the next a fresh value.
type ExtractionService struct {
	resolver *AddendumResolver
}

func NewExtractionService(resolver *AddendumResolver) *ExtractionService {
	return &ExtractionService{resolver: resolver}
}

// ExtractContract processes one raw email. manualURLs, when non-empty,
// replaces marker auto-detection with caller-supplied addendum links.
// Malformed input produces an inspectable empty response, not an error.
func (s *ExtractionService) ExtractContract(ctx context.Context, raw []byte, manualURLs []string) (*dto.ExtractionResponse, error) {
	msg := DecodeMessage(raw)

	extract := contracttable.ParseItemsTable(msg.HTML)
	location := ordermeta.ParseLocation(primaryBody(msg))

	refs := s.collectReferences(msg, extract.HasTable, manualURLs)

	addendumRows, statuses := s.resolver.Resolve(ctx, refs)

	items := make([]dto.ContractLineItem, 0, len(extract.Items)+len(addendumRows))
	items = append(items, extract.Items...)
	items = append(items, addendumRows...)

	resp := &dto.ExtractionResponse{
		Location:         location,
		Items:            items,
		HasTable:         extract.HasTable,
		AddendumStatuses: statuses,
		ProcessedAt:      time.Now().Format(time.RFC3339),
	}
	if location.GrandTotal != nil {
		v := ValidateTotals(items, *location.GrandTotal)
		resp.Validation = &v
	}

	log.Printf("Extraction complete: %d rows, %d references, hasTable=%v",
		len(items), len(statuses), extract.HasTable)
	return resp, nil
}

// collectReferences scans the rendered text (body plus any PDF attachment
// text) for reference markers, or builds explicit references from the
// manual override list.
func (s *ExtractionService) collectReferences(msg *dto.DecodedMessage, hasTable bool, manualURLs []string) []dto.AddendumReference {
	if len(manualURLs) > 0 {
		refs := addendum.ManualReferences(manualURLs)
		if hasTable {
			refs = append([]dto.AddendumReference{{
				Type:     dto.RefTypeOriginal,
				Selected: true,
			}}, refs...)
		}
		return refs
	}

	var scanText strings.Builder
	scanText.WriteString(msg.Text)
	scanText.WriteString("\n")
	scanText.WriteString(msg.HTML)
	for _, att := range msg.Attachments {
		if !strings.Contains(strings.ToLower(att.ContentType), "pdf") {
			continue
		}
		text, err := extractPDFText(att.Data)
		if err != nil {
			log.Printf("Skipping unreadable PDF attachment %s: %v", att.Filename, err)
			continue
		}
		scanText.WriteString("\n")
		scanText.WriteString(text)
	}

	refs := addendum.ScanReferences(scanText.String(), hasTable)
	return addendum.ResolveURLs(refs, msg.HTML, "")
}

// primaryBody picks the richest rendering of the message for metadata
// parsing.
func primaryBody(msg *dto.DecodedMessage) string {
	if strings.TrimSpace(msg.HTML) != "" {
		return msg.HTML
	}
	return msg.Text
}
