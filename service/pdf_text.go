package service

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// extractPDFText pulls row-ordered text out of a PDF addendum body.
// Addenda occasionally arrive as attached or linked PDFs instead of HTML
// pages; their rows go through the plain-text scanner instead of the
// table parser.
//
// The reader reports each text run with its position, so column breaks
// are reconstructed from horizontal gaps: a gap wider than the font size
// becomes a column separator the plain-text scanner can split on.
func extractPDFText(data []byte) (text string, err error) {
	// The underlying reader panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		p := r.Page(pageIndex)
		if p.V.IsNull() {
			continue
		}

		rows, _ := p.GetTextByRow()
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].Position > rows[j].Position
		})
		for _, row := range rows {
			textBuilder.WriteString(assembleRow(row.Content))
			textBuilder.WriteString("\n")
		}
	}
	return textBuilder.String(), nil
}

func assembleRow(words []pdf.Text) string {
	var line strings.Builder
	lastEnd := 0.0

	for _, word := range words {
		size := word.FontSize
		if size <= 0 {
			size = 12
		}
		gap := word.X - lastEnd
		switch {
		case line.Len() == 0:
		case gap > size:
			line.WriteString("  ")
		case gap > size*0.3:
			line.WriteString(" ")
		}
		line.WriteString(word.S)
		lastEnd = word.X + word.W
	}
	return line.String()
}
