package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesops/contract-extractor/client"
	"github.com/salesops/contract-extractor/dto"
)

const addendumTableHTML = `
<table class="order-items">
	<tr><th>Description</th><th>Qty</th><th>Rate</th><th>Amount</th></tr>
	<tr><td>Pool heater</td><td>1</td><td>2500.00</td><td>2500.00</td></tr>
</table>`

func intp(n int) *int { return &n }

func newResolver(timeout time.Duration) *AddendumResolver {
	return NewAddendumResolver(client.NewDocumentFetcher(timeout), timeout)
}

func TestResolveFailureIsolation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/add2":
			w.Write([]byte(addendumTableHTML))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	refs := []dto.AddendumReference{
		{Type: dto.RefTypeAddendum, Number: intp(1), Selected: true, ResolvedURL: srv.URL + "/add1"},
		{Type: dto.RefTypeAddendum, Number: intp(2), Selected: true, ResolvedURL: srv.URL + "/add2"},
	}

	items, statuses := newResolver(5 * time.Second).Resolve(context.Background(), refs)

	// The 404 on addendum 1 must not suppress addendum 2's rows.
	require.Len(t, items, 1)
	assert.Equal(t, "Pool heater", items[0].ProductService)
	assert.Equal(t, dto.SourceAddendum, items[0].SourceLabel)
	require.NotNil(t, items[0].AddendumNumber)
	assert.Equal(t, 2, *items[0].AddendumNumber)

	require.Len(t, statuses, 2)
	assert.Equal(t, dto.StatusFailure, statuses[0].Status)
	assert.NotEmpty(t, statuses[0].Detail)
	assert.Equal(t, dto.StatusSuccess, statuses[1].Status)
}

func TestResolveSkipsUnselected(t *testing.T) {
	requested := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = true
		w.Write([]byte(addendumTableHTML))
	}))
	defer srv.Close()

	refs := []dto.AddendumReference{
		{Type: dto.RefTypeOptionalPackage, Number: intp(1), Selected: false, ResolvedURL: srv.URL + "/pkg1"},
	}

	items, statuses := newResolver(5 * time.Second).Resolve(context.Background(), refs)

	assert.False(t, requested, "unselected references must not be fetched")
	assert.Empty(t, items)
	require.Len(t, statuses, 1)
	assert.Equal(t, dto.StatusSuccess, statuses[0].Status)
}

func TestResolveSelectedOptionalPackage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(addendumTableHTML))
	}))
	defer srv.Close()

	refs := []dto.AddendumReference{
		{Type: dto.RefTypeOptionalPackage, Number: intp(3), Selected: true, ResolvedURL: srv.URL + "/pkg3"},
	}

	items, statuses := newResolver(5 * time.Second).Resolve(context.Background(), refs)

	require.Len(t, items, 1)
	assert.Equal(t, dto.SourceAddendum, items[0].SourceLabel)
	require.NotNil(t, items[0].AddendumNumber)
	assert.Equal(t, 3, *items[0].AddendumNumber)
	assert.Equal(t, dto.StatusSuccess, statuses[0].Status)
}

func TestResolveOriginalReference(t *testing.T) {
	refs := []dto.AddendumReference{
		{Type: dto.RefTypeOriginal, Selected: true},
	}

	items, statuses := newResolver(time.Second).Resolve(context.Background(), refs)

	assert.Empty(t, items)
	require.Len(t, statuses, 1)
	assert.Equal(t, dto.StatusSuccess, statuses[0].Status)
}

func TestResolveMissingURLIsWarning(t *testing.T) {
	refs := []dto.AddendumReference{
		{Type: dto.RefTypeAddendum, Number: intp(1), Selected: true},
	}

	items, statuses := newResolver(time.Second).Resolve(context.Background(), refs)

	assert.Empty(t, items)
	require.Len(t, statuses, 1)
	assert.Equal(t, dto.StatusWarning, statuses[0].Status)
}

func TestResolveDocumentWithoutTableIsWarning(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>See office for details.</p></body></html>"))
	}))
	defer srv.Close()

	refs := []dto.AddendumReference{
		{Type: dto.RefTypeAddendum, Number: intp(1), Selected: true, ResolvedURL: srv.URL},
	}

	items, statuses := newResolver(5 * time.Second).Resolve(context.Background(), refs)

	assert.Empty(t, items)
	require.Len(t, statuses, 1)
	assert.Equal(t, dto.StatusWarning, statuses[0].Status)
}

func TestResolvePDFAddendum(t *testing.T) {
	pdfData := buildPDF(t, []string{
		"PLUMBING",
		"Heater   1   2500.00   2500.00",
	})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write(pdfData)
	}))
	defer srv.Close()

	refs := []dto.AddendumReference{
		{Type: dto.RefTypeAddendum, Number: intp(1), Selected: true, ResolvedURL: srv.URL + "/addendum.pdf"},
	}

	items, statuses := newResolver(5 * time.Second).Resolve(context.Background(), refs)

	require.Len(t, statuses, 1)
	assert.Equal(t, dto.StatusSuccess, statuses[0].Status)

	require.Len(t, items, 2)
	heater := items[1]
	assert.Equal(t, "Heater", heater.ProductService)
	assert.Equal(t, dto.SourceAddendum, heater.SourceLabel)
	require.NotNil(t, heater.AddendumNumber)
	assert.Equal(t, 1, *heater.AddendumNumber)
	require.NotNil(t, heater.Amount)
	assert.Equal(t, 2500.0, *heater.Amount)
}

func TestResolveMalformedPDFIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/broken.pdf":
			w.Header().Set("Content-Type", "application/pdf")
			w.Write([]byte("%PDF-1.4\nnot really a pdf"))
		default:
			w.Write([]byte(addendumTableHTML))
		}
	}))
	defer srv.Close()

	refs := []dto.AddendumReference{
		{Type: dto.RefTypeAddendum, Number: intp(1), Selected: true, ResolvedURL: srv.URL + "/broken.pdf"},
		{Type: dto.RefTypeAddendum, Number: intp(2), Selected: true, ResolvedURL: srv.URL + "/add2"},
	}

	items, statuses := newResolver(5 * time.Second).Resolve(context.Background(), refs)

	// The unreadable PDF fails on its own; addendum 2's rows survive.
	require.Len(t, statuses, 2)
	assert.Equal(t, dto.StatusFailure, statuses[0].Status)
	assert.NotEmpty(t, statuses[0].Detail)
	assert.Equal(t, dto.StatusSuccess, statuses[1].Status)

	require.Len(t, items, 1)
	assert.Equal(t, "Pool heater", items[0].ProductService)
	assert.Equal(t, 2, *items[0].AddendumNumber)
}

func TestResolveSlowReferenceTimesOut(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Write([]byte(addendumTableHTML))
	}))
	defer slow.Close()
	fast := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(addendumTableHTML))
	}))
	defer fast.Close()

	refs := []dto.AddendumReference{
		{Type: dto.RefTypeAddendum, Number: intp(1), Selected: true, ResolvedURL: slow.URL},
		{Type: dto.RefTypeAddendum, Number: intp(2), Selected: true, ResolvedURL: fast.URL},
	}

	items, statuses := newResolver(50 * time.Millisecond).Resolve(context.Background(), refs)

	require.Len(t, items, 1)
	assert.Equal(t, 2, *items[0].AddendumNumber)
	assert.Equal(t, dto.StatusFailure, statuses[0].Status)
	assert.Equal(t, dto.StatusSuccess, statuses[1].Status)
}
