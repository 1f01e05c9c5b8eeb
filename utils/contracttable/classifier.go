package contracttable

import (
	"regexp"
	"strings"

	"github.com/salesops/contract-extractor/dto"
)

// tableCell is one <td> flattened to what classification needs.
type tableCell struct {
	text       string
	class      string
	emphasized bool     // wrapped in b/strong/em or a heading class
	lines      []string // text split on <br>/block boundaries
}

// tableRow is one <tr> with its resolved column values.
type tableRow struct {
	cells  []tableCell
	class  string
	desc   tableCell
	qty    string
	rate   string
	amount string
}

func (r tableRow) numericEmpty() bool {
	return strings.TrimSpace(r.qty) == "" &&
		strings.TrimSpace(r.rate) == "" &&
		strings.TrimSpace(r.amount) == ""
}

func (r tableRow) allEmpty() bool {
	for _, c := range r.cells {
		if strings.TrimSpace(c.text) != "" {
			return false
		}
	}
	return true
}

// mainCategoryPattern matches a leading item code followed by a label,
// e.g. "100 GUNITE POOL" or "4.1 EQUIPMENT".
var mainCategoryPattern = regexp.MustCompile(`^\d+(?:\.\d+)?\s+\S`)

// classifier is one independent row predicate. Classifiers are evaluated
// in order; the first match wins.
type classifier func(r tableRow) (dto.RowType, bool)

var classifiers = []classifier{
	classifyBlank,
	classifyMainCategory,
	classifySubcategory,
	classifyItem,
}

func classifyBlank(r tableRow) (dto.RowType, bool) {
	if r.allEmpty() {
		return dto.RowTypeBlank, true
	}
	return "", false
}

func classifyMainCategory(r tableRow) (dto.RowType, bool) {
	label := strings.TrimSpace(r.desc.text)
	if label == "" || !r.numericEmpty() {
		return "", false
	}
	if !r.desc.emphasized && !hasMarkerClass(r, "main") {
		return "", false
	}
	if mainCategoryPattern.MatchString(firstLine(r.desc)) {
		return dto.RowTypeMainCategory, true
	}
	return "", false
}

func classifySubcategory(r tableRow) (dto.RowType, bool) {
	label := strings.TrimSpace(r.desc.text)
	if label == "" || !r.numericEmpty() {
		return "", false
	}
	// A "title" divider row, or a styled label-only row.
	if hasMarkerClass(r, "title") || hasMarkerClass(r, "divider") || r.desc.emphasized {
		return dto.RowTypeSubcategory, true
	}
	// Label-only rows with no numbers at all still read as dividers.
	return dto.RowTypeSubcategory, true
}

func classifyItem(r tableRow) (dto.RowType, bool) {
	if strings.TrimSpace(r.desc.text) == "" {
		return "", false
	}
	if r.numericEmpty() {
		return "", false
	}
	return dto.RowTypeItem, true
}

// classifyRow runs the ordered classifiers. Rows nothing claims are kept
// positionally as blanks so document order survives.
func classifyRow(r tableRow) dto.RowType {
	for _, c := range classifiers {
		if t, ok := c(r); ok {
			return t
		}
	}
	return dto.RowTypeBlank
}

func hasMarkerClass(r tableRow, marker string) bool {
	if strings.Contains(strings.ToLower(r.class), marker) {
		return true
	}
	return strings.Contains(strings.ToLower(r.desc.class), marker)
}

func firstLine(c tableCell) string {
	if len(c.lines) > 0 {
		return strings.TrimSpace(c.lines[0])
	}
	return strings.TrimSpace(c.text)
}

// secondLine returns the emphasized sub-label beneath a main-category
// heading, when present.
func secondLine(c tableCell) string {
	if len(c.lines) > 1 {
		return strings.TrimSpace(c.lines[1])
	}
	return ""
}

// categoryName strips the leading item code from a main-category heading.
var leadingCodePattern = regexp.MustCompile(`^\d+(?:\.\d+)?\s+`)

func categoryName(heading string) string {
	return strings.TrimSpace(leadingCodePattern.ReplaceAllString(heading, ""))
}
