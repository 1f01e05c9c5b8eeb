package service

import (
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/salesops/contract-extractor/dto"
)

// Row-kind labels written to column A of the item region.
const (
	kindLabelItem   = "ITEM"
	kindLabelSubcat = "SUBCAT"
	kindLabelBlank  = "BLANK"
)

// Synthesizer pours a validated item sequence and contract metadata into
// the fixed template workbook. The one invariant everything here serves:
// never overwrite a formula cell.
type Synthesizer struct {
	templatePath string
	sheet        string
	plan         *TemplateCellPlan
	maxItemRows  int
}

func NewSynthesizer(templatePath, sheet string, maxItemRows int) *Synthesizer {
	plan := PlanV3()
	if maxItemRows <= 0 || maxItemRows > plan.ItemCapacity {
		maxItemRows = plan.ItemCapacity
	}
	return &Synthesizer{
		templatePath: templatePath,
		sheet:        sheet,
		plan:         plan,
		maxItemRows:  maxItemRows,
	}
}

// Synthesize opens the template, populates it, and serializes the result.
// A missing or corrupt template artifact is the pipeline's only fatal
// condition.
func (s *Synthesizer) Synthesize(items []dto.ContractLineItem, location dto.ExtractedLocation) (*dto.SynthesisResult, error) {
	f, err := excelize.OpenFile(s.templatePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", dto.ErrTemplateNotFound, s.templatePath, err)
	}
	defer f.Close()

	return s.SynthesizeWorkbook(f, items, location)
}

// SynthesizeWorkbook populates an already-open template workbook. Split
// out so the formula-preservation invariant is testable against an
// in-memory workbook without the real template artifact.
func (s *Synthesizer) SynthesizeWorkbook(f *excelize.File, items []dto.ContractLineItem, location dto.ExtractedLocation) (*dto.SynthesisResult, error) {
	if err := s.writeMetadata(f, location); err != nil {
		return nil, err
	}

	written, truncated, err := s.writeItems(f, items)
	if err != nil {
		return nil, err
	}
	if truncated > 0 {
		log.Printf("Item rows truncated: template holds %d, got %d", s.maxItemRows, len(items))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}

	return &dto.SynthesisResult{
		Data:          buf.Bytes(),
		Filename:      BuildFilename(location),
		RowsWritten:   written,
		Truncated:     truncated > 0,
		TruncatedRows: truncated,
	}, nil
}

type cellWrite struct {
	cell  string
	value interface{}
}

func (s *Synthesizer) writeMetadata(f *excelize.File, loc dto.ExtractedLocation) error {
	cells := []cellWrite{
		{s.plan.OrderNumberCell, loc.OrderNumber},
		{s.plan.CustomerNameCell, loc.CustomerName},
		{s.plan.AddressCell, loc.CustomerAddress},
		{s.plan.EmailCell, loc.CustomerEmail},
		{s.plan.SalesRepCell, loc.SalesRep},
		{s.plan.OrderDateCell, formatDate(loc.OrderDate)},
		{s.plan.SignedDateCell, formatDate(loc.SignedDate)},
	}
	if loc.BalanceDue != nil {
		cells = append(cells, cellWrite{s.plan.BalanceDueCell, *loc.BalanceDue})
	}

	for _, c := range cells {
		if err := s.writeCell(f, c.cell, c.value); err != nil {
			return err
		}
	}
	return nil
}

// writeItems writes item rows from the plan's start row up to the row
// ceiling. Overflow is reported as a truncation count, never silently
// dropped; the caller's in-memory sequence keeps every row.
func (s *Synthesizer) writeItems(f *excelize.File, items []dto.ContractLineItem) (written, truncated int, err error) {
	for i, item := range items {
		if i >= s.maxItemRows {
			truncated = len(items) - s.maxItemRows
			break
		}
		row := s.plan.ItemStartRow + i

		// Label cells are always written, even for blank data rows.
		if err = s.writeCellAt(f, s.plan.KindCol, row, kindLabel(item.Type)); err != nil {
			return
		}
		if err = s.writeCellAt(f, s.plan.ProvenanceCol, row, provenanceLabel(item)); err != nil {
			return
		}

		if err = s.writeCellAt(f, s.plan.DescCol, row, item.ProductService); err != nil {
			return
		}
		if item.Qty != nil {
			if err = s.writeCellAt(f, s.plan.QtyCol, row, *item.Qty); err != nil {
				return
			}
		}
		if item.Rate != nil {
			if err = s.writeCellAt(f, s.plan.RateCol, row, *item.Rate); err != nil {
				return
			}
		}
		if item.Amount != nil {
			if err = s.writeCellAt(f, s.plan.AmountCol, row, *item.Amount); err != nil {
				return
			}
		}
		written++
	}
	return
}

func (s *Synthesizer) writeCellAt(f *excelize.File, col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("bad cell coordinates (%d,%d): %w", col, row, err)
	}
	if s.plan.HasFormula(cell, col, row) {
		return nil
	}
	return f.SetCellValue(s.sheet, cell, value)
}

func (s *Synthesizer) writeCell(f *excelize.File, cell string, value interface{}) error {
	col, row, err := excelize.CellNameToCoordinates(cell)
	if err != nil {
		return fmt.Errorf("bad cell name %q: %w", cell, err)
	}
	if s.plan.HasFormula(cell, col, row) {
		return nil
	}
	return f.SetCellValue(s.sheet, cell, value)
}

func kindLabel(t dto.RowType) string {
	switch t {
	case dto.RowTypeItem:
		return kindLabelItem
	case dto.RowTypeSubcategory:
		return kindLabelSubcat
	default:
		return kindLabelBlank
	}
}

func provenanceLabel(item dto.ContractLineItem) string {
	if item.SourceLabel == dto.SourceAddendum && item.AddendumNumber != nil {
		return fmt.Sprintf("%s %d", dto.SourceAddendum, *item.AddendumNumber)
	}
	if item.SourceLabel == "" {
		return dto.SourceInitial
	}
	return item.SourceLabel
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("01/02/2006")
}

// BuildFilename derives the download filename from customer identity and
// address, percent-encoded so it survives transport headers.
func BuildFilename(loc dto.ExtractedLocation) string {
	parts := []string{}
	if loc.CustomerName != "" {
		parts = append(parts, loc.CustomerName)
	}
	if loc.CustomerAddress != "" {
		parts = append(parts, loc.CustomerAddress)
	}
	stem := strings.Join(parts, "-")
	if stem == "" {
		stem = "contract"
	}
	stem = strings.Join(strings.Fields(stem), "-")
	return url.PathEscape(stem) + ".xlsx"
}
