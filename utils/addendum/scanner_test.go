package addendum

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesops/contract-extractor/dto"
)

func TestScanReferences(t *testing.T) {
	text := `
		Your signed contract is below.
		-OPTIONAL PACKAGE 2- Pool Heater Upgrade
		Addendum # 1
	`

	refs := ScanReferences(text, true)

	require.Len(t, refs, 3)

	assert.Equal(t, dto.RefTypeOriginal, refs[0].Type)
	assert.True(t, refs[0].Selected)

	pkg := refs[1]
	assert.Equal(t, dto.RefTypeOptionalPackage, pkg.Type)
	require.NotNil(t, pkg.Number)
	assert.Equal(t, 2, *pkg.Number)
	assert.Equal(t, "Pool Heater Upgrade", pkg.Name)
	assert.False(t, pkg.Selected, "optional packages are alternatives, not commitments")

	add := refs[2]
	assert.Equal(t, dto.RefTypeAddendum, add.Type)
	require.NotNil(t, add.Number)
	assert.Equal(t, 1, *add.Number)
	assert.True(t, add.Selected)
}

func TestScanReferencesNoTable(t *testing.T) {
	refs := ScanReferences("Addendum # 3", false)

	require.Len(t, refs, 1)
	assert.Equal(t, dto.RefTypeAddendum, refs[0].Type)
}

func TestScanReferencesDeduplicates(t *testing.T) {
	text := "Addendum # 1 ... Addendum # 1 ... -optional package 4- Slide -OPTIONAL PACKAGE 4- Slide"

	refs := ScanReferences(text, false)

	require.Len(t, refs, 2)
	assert.Equal(t, dto.RefTypeOptionalPackage, refs[0].Type)
	assert.Equal(t, dto.RefTypeAddendum, refs[1].Type)
}

func TestScanReferencesWhitespaceTolerant(t *testing.T) {
	refs := ScanReferences("- OPTIONAL   PACKAGE  7 -", false)

	require.Len(t, refs, 1)
	require.NotNil(t, refs[0].Number)
	assert.Equal(t, 7, *refs[0].Number)
}

func TestScanReferencesTruncatesLongPackageName(t *testing.T) {
	long := "-OPTIONAL PACKAGE 1- " +
		"An extraordinarily verbose package description that keeps going well past any reasonable label length"

	refs := ScanReferences(long, false)

	require.Len(t, refs, 1)
	assert.LessOrEqual(t, len(refs[0].Name), maxPackageNameLen)
	assert.NotEmpty(t, refs[0].Name)
}

func TestScanReferencesTruncationKeepsValidUTF8(t *testing.T) {
	// Multibyte runes straddling the length cap must not be cut in half.
	// The odd-length prefix lines a two-byte rune up across the cap.
	long := "-OPTIONAL PACKAGE 1- Spas " + strings.Repeat("ö", 40)

	refs := ScanReferences(long, false)

	require.Len(t, refs, 1)
	assert.True(t, utf8.ValidString(refs[0].Name))
	assert.LessOrEqual(t, len(refs[0].Name), maxPackageNameLen)
	assert.NotEmpty(t, refs[0].Name)
}

func TestResolveURLs(t *testing.T) {
	html := `
	<html><body>
		<a href="/docs/addendum-1">Addendum # 1</a>
		<a href="https://contracts.example.com/pkg2">Optional Package 2 - Heater</a>
	</body></html>`

	refs := ScanReferences("-OPTIONAL PACKAGE 2- Heater\nAddendum # 1", false)
	resolved := ResolveURLs(refs, html, "https://contracts.example.com/orders/55")

	require.Len(t, resolved, 2)
	assert.Equal(t, "https://contracts.example.com/pkg2", resolved[0].ResolvedURL)
	assert.Equal(t, "https://contracts.example.com/docs/addendum-1", resolved[1].ResolvedURL)
}

func TestManualReferences(t *testing.T) {
	refs := ManualReferences([]string{"https://x.test/a", "https://x.test/b"})

	require.Len(t, refs, 2)
	for i, ref := range refs {
		assert.Equal(t, dto.RefTypeAddendum, ref.Type)
		assert.True(t, ref.Selected)
		require.NotNil(t, ref.Number)
		assert.Equal(t, i+1, *ref.Number)
	}
	assert.Equal(t, "https://x.test/a", refs[0].ResolvedURL)
}
