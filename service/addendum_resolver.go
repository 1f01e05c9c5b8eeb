package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/salesops/contract-extractor/client"
	"github.com/salesops/contract-extractor/dto"
	"github.com/salesops/contract-extractor/utils/contracttable"
)

// AddendumResolver fetches each selected reference's document and runs it
// back through the tabular structure extractor. Fetches are concurrent and
// isolated: one slow or failing reference never blocks or aborts the
// others, and the batch latency is bounded by the slowest successful fetch
// plus the per-fetch timeout.
type AddendumResolver struct {
	fetcher      *client.DocumentFetcher
	fetchTimeout time.Duration
}

func NewAddendumResolver(fetcher *client.DocumentFetcher, fetchTimeout time.Duration) *AddendumResolver {
	return &AddendumResolver{
		fetcher:      fetcher,
		fetchTimeout: fetchTimeout,
	}
}

type resolveOutcome struct {
	status dto.AddendumStatus
	items  []dto.ContractLineItem
}

// Resolve processes every reference and returns the addendum rows in
// reference order plus a per-reference status list. Rows carry their
// provenance: SourceLabel "Addendum" and the addendum or package number.
func (r *AddendumResolver) Resolve(ctx context.Context, refs []dto.AddendumReference) ([]dto.ContractLineItem, []dto.AddendumStatus) {
	outcomes := make([]resolveOutcome, len(refs))
	var wg sync.WaitGroup

	for i, ref := range refs {
		// References that need no fetch settle synchronously.
		if ref.Type == dto.RefTypeOriginal {
			outcomes[i] = resolveOutcome{status: dto.AddendumStatus{
				Reference: ref,
				Status:    dto.StatusSuccess,
				Detail:    "rows extracted from primary document",
			}}
			continue
		}
		if !ref.Selected {
			outcomes[i] = resolveOutcome{status: dto.AddendumStatus{
				Reference: ref,
				Status:    dto.StatusSuccess,
				Detail:    "not selected; skipped",
			}}
			continue
		}
		if ref.ResolvedURL == "" {
			outcomes[i] = resolveOutcome{status: dto.AddendumStatus{
				Reference: ref,
				Status:    dto.StatusWarning,
				Detail:    "no resolvable link found for reference",
			}}
			continue
		}

		wg.Add(1)
		go func(slot int, ref dto.AddendumReference) {
			defer wg.Done()
			outcomes[slot] = r.resolveOne(ctx, ref)
		}(i, ref)
	}

	wg.Wait()

	var merged []dto.ContractLineItem
	statuses := make([]dto.AddendumStatus, 0, len(refs))
	for _, out := range outcomes {
		merged = append(merged, out.items...)
		statuses = append(statuses, out.status)
	}
	return merged, statuses
}

func (r *AddendumResolver) resolveOne(ctx context.Context, ref dto.AddendumReference) resolveOutcome {
	fetchCtx, cancel := context.WithTimeout(ctx, r.fetchTimeout)
	defer cancel()

	doc, err := r.fetcher.Fetch(fetchCtx, ref.ResolvedURL)
	if err != nil {
		log.Printf("Addendum fetch failed for %s: %v", describeRef(ref), err)
		return resolveOutcome{status: dto.AddendumStatus{
			Reference: ref,
			Status:    dto.StatusFailure,
			Detail:    err.Error(),
		}}
	}

	var extract dto.TableExtract
	if doc.IsPDF() {
		text, pdfErr := extractPDFText(doc.Body)
		if pdfErr != nil {
			return resolveOutcome{status: dto.AddendumStatus{
				Reference: ref,
				Status:    dto.StatusFailure,
				Detail:    fmt.Sprintf("PDF text extraction failed: %v", pdfErr),
			}}
		}
		extract = contracttable.ParseItemsText(text)
	} else {
		extract = contracttable.ParseItemsTable(string(doc.Body))
	}

	if !extract.HasTable {
		return resolveOutcome{status: dto.AddendumStatus{
			Reference: ref,
			Status:    dto.StatusWarning,
			Detail:    "document contained no recognizable items table",
		}}
	}

	items := tagProvenance(extract.Items, ref)
	log.Printf("Resolved %s: %d rows", describeRef(ref), len(items))

	return resolveOutcome{
		items: items,
		status: dto.AddendumStatus{
			Reference: ref,
			Status:    dto.StatusSuccess,
			Detail:    fmt.Sprintf("%d rows merged", len(items)),
		},
	}
}

// tagProvenance stamps resolved rows with their source. Each stage
// produces a fresh sequence; the extractor's output is not mutated.
func tagProvenance(items []dto.ContractLineItem, ref dto.AddendumReference) []dto.ContractLineItem {
	tagged := make([]dto.ContractLineItem, len(items))
	for i, item := range items {
		item.SourceLabel = dto.SourceAddendum
		if ref.Number != nil {
			n := *ref.Number
			item.AddendumNumber = &n
		}
		tagged[i] = item
	}
	return tagged
}

func describeRef(ref dto.AddendumReference) string {
	switch ref.Type {
	case dto.RefTypeOptionalPackage:
		if ref.Number != nil {
			return fmt.Sprintf("optional package %d", *ref.Number)
		}
		return "optional package"
	case dto.RefTypeAddendum:
		if ref.Number != nil {
			return fmt.Sprintf("addendum %d", *ref.Number)
		}
		return "addendum"
	default:
		return "original contract"
	}
}
