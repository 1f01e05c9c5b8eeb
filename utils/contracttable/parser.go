package contracttable

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/salesops/contract-extractor/dto"
)

// orderItemsClass is the class marker the contract renderer puts on the
// items table when it controls the markup. Unknown renderers fall back to
// header sniffing.
const orderItemsClass = "order-items"

// columnMap resolves which column index feeds each logical field.
type columnMap struct {
	desc   int
	qty    int
	rate   int
	amount int
}

var defaultColumns = columnMap{desc: 0, qty: 1, rate: 2, amount: 3}

// ParseItemsTable locates the order-items table in an HTML document and
// flattens it into an ordered line-item sequence. A document with no
// recognizable table yields HasTable=false and no error.
func ParseItemsTable(htmlStr string) dto.TableExtract {
	if strings.TrimSpace(htmlStr) == "" {
		return dto.TableExtract{HasTable: false}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return dto.TableExtract{HasTable: false}
	}

	table, cols, ok := locateItemsTable(doc)
	if !ok {
		return dto.TableExtract{HasTable: false}
	}

	rows := extractRows(table, cols)
	return dto.TableExtract{
		Items:    flattenRows(rows),
		HasTable: true,
	}
}

// HasItemsTable reports whether the document contains a recognizable
// order-items table without flattening it.
func HasItemsTable(htmlStr string) bool {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return false
	}
	_, _, ok := locateItemsTable(doc)
	return ok
}

// locateItemsTable prefers the known class marker, then sniffs every table
// for a header row whose cells read description / qty / amount left to
// right. The sniffing is what keeps the extractor format-agnostic.
func locateItemsTable(doc *goquery.Document) (*goquery.Selection, columnMap, bool) {
	marked := doc.Find("table." + orderItemsClass).First()
	if marked.Length() > 0 {
		if cols, ok := sniffTableHeader(marked); ok {
			return marked, cols, true
		}
		return marked, defaultColumns, true
	}

	var found *goquery.Selection
	var foundCols columnMap
	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		if cols, ok := sniffTableHeader(table); ok {
			found = table
			foundCols = cols
			return false
		}
		return true
	})
	if found == nil {
		return nil, columnMap{}, false
	}
	return found, foundCols, true
}

// sniffTableHeader inspects the first few rows for header tokens. Matching
// is case-insensitive substring, and the description column must come
// before qty, which must come before the amount column.
func sniffTableHeader(table *goquery.Selection) (columnMap, bool) {
	var cols columnMap
	matched := false
	table.Find("tr").EachWithBreak(func(i int, tr *goquery.Selection) bool {
		if i >= 3 {
			return false
		}
		var cells []string
		tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, cell.Text())
		})
		if c, ok := sniffHeaderCells(cells); ok {
			cols = c
			matched = true
			return false
		}
		return true
	})
	return cols, matched
}

func sniffHeaderCells(cells []string) (columnMap, bool) {
	cols := columnMap{desc: -1, qty: -1, rate: -1, amount: -1}
	for i, raw := range cells {
		text := strings.ToLower(strings.TrimSpace(raw))
		switch {
		case cols.desc < 0 && (strings.Contains(text, "description") ||
			strings.Contains(text, "product") || strings.Contains(text, "service")):
			cols.desc = i
		case cols.desc >= 0 && cols.qty < 0 &&
			(strings.Contains(text, "qty") || strings.Contains(text, "quantity")):
			cols.qty = i
		case cols.qty >= 0 && cols.rate < 0 &&
			(strings.Contains(text, "rate") || strings.Contains(text, "price")):
			cols.rate = i
		case cols.qty >= 0 && cols.amount < 0 &&
			(strings.Contains(text, "amount") || strings.Contains(text, "total")):
			cols.amount = i
		}
	}
	if cols.desc < 0 || cols.qty < 0 || cols.amount < 0 {
		return columnMap{}, false
	}
	if cols.rate < 0 {
		cols.rate = cols.qty + 1
		if cols.rate == cols.amount {
			cols.rate = -1
		}
	}
	return cols, true
}

// extractRows walks the table body top to bottom, skipping the header row.
func extractRows(table *goquery.Selection, cols columnMap) []tableRow {
	var rows []tableRow
	headerSkipped := false

	table.Find("tr").Each(func(trIdx int, tr *goquery.Selection) {
		var cells []tableCell
		isHeader := false
		var rawTexts []string

		tr.Find("th, td").Each(func(_ int, sel *goquery.Selection) {
			if goquery.NodeName(sel) == "th" {
				isHeader = true
			}
			cells = append(cells, buildCell(sel))
			rawTexts = append(rawTexts, sel.Text())
		})
		if len(cells) == 0 {
			return
		}
		// The header sits in the first few rows; data rows that merely
		// mention header tokens must never be skipped.
		if !headerSkipped && trIdx < 3 {
			if _, ok := sniffHeaderCells(rawTexts); ok || isHeader {
				headerSkipped = true
				return
			}
		}

		row := tableRow{cells: cells}
		row.class, _ = tr.Attr("class")
		row.desc = cellAt(cells, cols.desc)
		row.qty = cellAt(cells, cols.qty).text
		row.rate = cellAt(cells, cols.rate).text
		row.amount = cellAt(cells, cols.amount).text
		rows = append(rows, row)
	})

	return rows
}

func cellAt(cells []tableCell, idx int) tableCell {
	if idx < 0 || idx >= len(cells) {
		return tableCell{}
	}
	return cells[idx]
}

func buildCell(sel *goquery.Selection) tableCell {
	cell := tableCell{
		text:  strings.TrimSpace(sel.Text()),
		lines: cellLines(sel),
	}
	cell.class, _ = sel.Attr("class")
	if sel.Find("b, strong, em").Length() > 0 {
		cell.emphasized = true
	}
	lc := strings.ToLower(cell.class)
	if strings.Contains(lc, "bold") || strings.Contains(lc, "head") || strings.Contains(lc, "title") {
		cell.emphasized = true
	}
	return cell
}

// cellLines flattens a cell's node tree into visual lines, treating <br>
// and block elements as line breaks. goquery's Text() loses those breaks,
// and main-category cells carry their sub-label on a second line.
func cellLines(sel *goquery.Selection) []string {
	var lines []string
	var current strings.Builder

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			lines = append(lines, s)
		}
		current.Reset()
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			current.WriteString(n.Data)
		case html.ElementNode:
			switch n.Data {
			case "br", "div", "p", "tr":
				flush()
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	flush()
	return lines
}

// flattenRows classifies each row and emits the ordered line-item
// sequence. Main-category rows are tracked to fill back-references but are
// never emitted as output rows; headers never carry qty/rate/amount.
func flattenRows(rows []tableRow) []dto.ContractLineItem {
	var items []dto.ContractLineItem
	currentMain := ""
	currentSub := ""

	for _, row := range rows {
		switch classifyRow(row) {
		case dto.RowTypeMainCategory:
			currentMain = categoryName(firstLine(row.desc))
			currentSub = ""
			if sub := secondLine(row.desc); sub != "" {
				currentSub = sub
			}

		case dto.RowTypeSubcategory:
			currentSub = firstLine(row.desc)
			items = append(items, dto.ContractLineItem{
				Type:           dto.RowTypeSubcategory,
				ProductService: currentSub,
				MainCategory:   currentMain,
				SourceLabel:    dto.SourceInitial,
			})

		case dto.RowTypeItem:
			items = append(items, dto.ContractLineItem{
				Type:           dto.RowTypeItem,
				ProductService: strings.TrimSpace(row.desc.text),
				Qty:            ParseQuantity(row.qty),
				Rate:           ParseMoney(row.rate),
				Amount:         ParseMoney(row.amount),
				MainCategory:   currentMain,
				SubCategory:    currentSub,
				SourceLabel:    dto.SourceInitial,
			})

		case dto.RowTypeBlank:
			items = append(items, dto.ContractLineItem{
				Type:        dto.RowTypeBlank,
				SourceLabel: dto.SourceInitial,
			})
		}
	}

	return items
}
