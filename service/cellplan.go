package service

// TemplateCellPlan is the static, versioned map of the template's
// destination cells. It records which cells carry formulas so the
// synthesizer can skip them without inspecting the live template file; the
// plan, not the workbook, is authoritative. A change to the template's row
// offsets or formula placement is a schema migration and requires a new
// plan version.
type TemplateCellPlan struct {
	Version string

	// Metadata destinations.
	OrderNumberCell  string
	CustomerNameCell string
	AddressCell      string
	EmailCell        string
	SalesRepCell     string
	OrderDateCell    string
	SignedDateCell   string
	BalanceDueCell   string

	// Item region. Column A carries the row-kind label and column B the
	// provenance label; downstream consumers key off those labels to
	// reconstruct hierarchy on read-back.
	ItemStartRow  int
	ItemCapacity  int
	KindCol       int
	ProvenanceCol int
	DescCol       int
	QtyCol        int
	RateCol       int
	AmountCol     int

	// Formula bookkeeping.
	formulaCells map[string]struct{}
	formulaCols  map[int]struct{} // per-row formula columns inside the item region
}

// HasFormula reports whether the plan marks a cell as formula-bearing.
// col and row are 1-based.
func (p *TemplateCellPlan) HasFormula(cell string, col, row int) bool {
	if _, ok := p.formulaCells[cell]; ok {
		return true
	}
	if row >= p.ItemStartRow && row < p.ItemStartRow+p.ItemCapacity {
		if _, ok := p.formulaCols[col]; ok {
			return true
		}
	}
	return false
}

// PlanV3 describes template contract_v3.xlsx: metadata block in rows 2-6,
// item rows from row 10, a per-row extended-amount formula in column G,
// and the grand total formula in E5.
func PlanV3() *TemplateCellPlan {
	return &TemplateCellPlan{
		Version: "v3",

		OrderNumberCell:  "B2",
		CustomerNameCell: "B3",
		AddressCell:      "B4",
		EmailCell:        "B5",
		SalesRepCell:     "B6",
		OrderDateCell:    "E2",
		SignedDateCell:   "E3",
		BalanceDueCell:   "E4",

		ItemStartRow:  10,
		ItemCapacity:  120,
		KindCol:       1,
		ProvenanceCol: 2,
		DescCol:       3,
		QtyCol:        4,
		RateCol:       5,
		AmountCol:     6,

		formulaCells: map[string]struct{}{
			"E5": {}, // grand total: SUM over the amount column
		},
		formulaCols: map[int]struct{}{
			7: {}, // column G: per-row extended amount
		},
	}
}
