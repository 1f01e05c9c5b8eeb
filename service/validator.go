package service

import (
	"math"

	"github.com/salesops/contract-extractor/dto"
)

// totalsTolerance is an absolute cents-level rounding allowance, not a
// percentage. Half a cent absorbs float accumulation without masking a
// real one-cent discrepancy.
const totalsTolerance = 0.005

// ValidateTotals sums extracted line-item amounts and compares them to the
// contract's declared grand total. Pure and deterministic; callable
// repeatedly as the item list is edited. Only item-typed rows count, and a
// nil amount contributes nothing.
func ValidateTotals(items []dto.ContractLineItem, declaredTotal float64) dto.ValidationResult {
	itemsTotal := 0.0
	for _, item := range items {
		if item.Type != dto.RowTypeItem || item.Amount == nil {
			continue
		}
		itemsTotal += *item.Amount
	}
	itemsTotal = roundCents(itemsTotal)

	difference := roundCents(declaredTotal - itemsTotal)

	return dto.ValidationResult{
		IsValid:         math.Abs(declaredTotal-itemsTotal) <= totalsTolerance,
		OrderGrandTotal: declaredTotal,
		ItemsTotal:      itemsTotal,
		Difference:      difference,
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
