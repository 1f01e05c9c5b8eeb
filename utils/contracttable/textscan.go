package contracttable

import (
	"regexp"
	"strings"

	"github.com/salesops/contract-extractor/dto"
)

var columnSplitPattern = regexp.MustCompile(`\s{2,}|\t+`)

// ParseItemsText is the fallback scanner for addendum documents that
// arrive as extracted text (PDF bodies) rather than markup. Columns are
// separated by runs of whitespace; the trailing column is read as the
// amount, with qty and rate before it when present.
func ParseItemsText(text string) dto.TableExtract {
	var items []dto.ContractLineItem
	currentMain := ""
	currentSub := ""
	sawItem := false

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		fields := columnSplitPattern.Split(trimmed, -1)
		if len(fields) >= 2 {
			amount := ParseMoney(fields[len(fields)-1])
			if amount != nil {
				item := dto.ContractLineItem{
					Type:           dto.RowTypeItem,
					ProductService: strings.TrimSpace(fields[0]),
					Amount:         amount,
					MainCategory:   currentMain,
					SubCategory:    currentSub,
					SourceLabel:    dto.SourceInitial,
				}
				if len(fields) >= 3 {
					item.Qty = ParseQuantity(fields[1])
				}
				if len(fields) >= 4 {
					item.Rate = ParseMoney(fields[2])
				}
				items = append(items, item)
				sawItem = true
				continue
			}
		}

		// Label-only lines divide sections the same way a title row does.
		if mainCategoryPattern.MatchString(trimmed) {
			currentMain = categoryName(trimmed)
			currentSub = ""
			continue
		}
		if trimmed == strings.ToUpper(trimmed) && len(trimmed) >= 3 {
			currentSub = trimmed
			items = append(items, dto.ContractLineItem{
				Type:           dto.RowTypeSubcategory,
				ProductService: trimmed,
				MainCategory:   currentMain,
				SourceLabel:    dto.SourceInitial,
			})
		}
	}

	return dto.TableExtract{Items: items, HasTable: sawItem}
}
