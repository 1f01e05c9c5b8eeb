// Package ordermeta parses contract header metadata (order number,
// customer identity, dates, totals) independently of the items table.
package ordermeta

import (
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/salesops/contract-extractor/dto"
	"github.com/salesops/contract-extractor/utils/contracttable"
)

var (
	orderNumberPattern = regexp.MustCompile(`(?i)(?:order|contract|estimate)\s*(?:no\.?|number|#)[\s:]*([A-Z0-9][A-Z0-9\-]*)`)
	grandTotalPattern  = regexp.MustCompile(`(?i)(?:grand\s+)?total\s+contract(?:\s+(?:value|price|amount))?[\s:]*\$?\s*([0-9,]+\.?\d*)`)
	totalPattern       = regexp.MustCompile(`(?i)(?:grand\s+)?total[\s:]*\$?\s*([0-9,]+\.?\d*)`)
	balanceDuePattern  = regexp.MustCompile(`(?i)balance\s+due[\s:]*\$?\s*([0-9,]+\.?\d*)`)
	// Labelled captures are bounded to their own line: metadata renders one
	// label per line and letting them run on swallows the next label.
	salesRepPattern = regexp.MustCompile(`(?i)(?:sales[ \t]*rep(?:resentative)?|consultant|designer)[ \t:]+([^\r\n<|]+)`)
	emailPattern    = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	customerPattern = regexp.MustCompile(`(?i)(?:customer|client|sold[ \t]+to|prepared[ \t]+for)[ \t:]+([^\r\n<|]+)`)
	addressPattern  = regexp.MustCompile(`(?i)(?:job\s+)?(?:site\s+)?address[\s:]*([0-9][^\r\n|]{4,80})`)

	orderDatePattern  = regexp.MustCompile(`(?i)(?:order|contract)\s+date[\s:]*([A-Za-z0-9,/ \-]{6,30})`)
	signedDatePattern = regexp.MustCompile(`(?i)(?:signed|signature)\s+(?:date|on)[\s:]*([A-Za-z0-9,/ \-]{6,30})`)
)

var dateLayouts = []string{
	"01/02/2006",
	"1/2/2006",
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2 2006",
}

// ParseLocation extracts contract metadata from the rendered document.
// Missing fields stay zero-valued; metadata parsing never fails.
func ParseLocation(htmlStr string) dto.ExtractedLocation {
	text := renderText(htmlStr)
	loc := dto.ExtractedLocation{}

	if m := orderNumberPattern.FindStringSubmatch(text); len(m) > 1 {
		loc.OrderNumber = strings.TrimSpace(m[1])
	}
	if m := customerPattern.FindStringSubmatch(text); len(m) > 1 {
		loc.CustomerName = strings.TrimSpace(m[1])
	}
	if m := addressPattern.FindStringSubmatch(text); len(m) > 1 {
		loc.CustomerAddress = strings.TrimSpace(m[1])
	}
	if m := emailPattern.FindString(text); m != "" {
		loc.CustomerEmail = m
	}
	if m := salesRepPattern.FindStringSubmatch(text); len(m) > 1 {
		loc.SalesRep = strings.TrimSpace(m[1])
	}

	// "Total Contract" is the declared value; a bare "Total" is the
	// fallback when the renderer omits the long label.
	if m := grandTotalPattern.FindStringSubmatch(text); len(m) > 1 {
		loc.GrandTotal = contracttable.ParseMoney(m[1])
	} else if m := totalPattern.FindStringSubmatch(text); len(m) > 1 {
		loc.GrandTotal = contracttable.ParseMoney(m[1])
	}
	if m := balanceDuePattern.FindStringSubmatch(text); len(m) > 1 {
		loc.BalanceDue = contracttable.ParseMoney(m[1])
	}

	if m := orderDatePattern.FindStringSubmatch(text); len(m) > 1 {
		loc.OrderDate = parseDate(m[1])
	}
	if m := signedDatePattern.FindStringSubmatch(text); len(m) > 1 {
		loc.SignedDate = parseDate(m[1])
	}

	return loc
}

// renderText flattens markup into scannable text. Plain-text input passes
// through unchanged.
func renderText(input string) string {
	if !strings.Contains(input, "<") {
		return input
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(input))
	if err != nil {
		return input
	}
	var b strings.Builder
	doc.Find("body, body *").Not("script, style").Each(func(_ int, s *goquery.Selection) {
		// Only leaf text, once per node, with line separation preserved.
		if s.Children().Length() == 0 {
			b.WriteString(strings.TrimSpace(s.Text()))
			b.WriteString("\n")
		}
	})
	if b.Len() == 0 {
		return doc.Text()
	}
	return b.String()
}

func parseDate(raw string) *time.Time {
	cleaned := strings.TrimSpace(strings.Trim(raw, " .,-"))
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return &t
		}
	}
	return nil
}
