// Package addendum scans rendered contract text for references to linked
// sections: the original contract, optional packages, and addenda.
package addendum

import (
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/salesops/contract-extractor/dto"
)

// maxPackageNameLen bounds the best-effort name captured after an optional
// package marker.
const maxPackageNameLen = 60

var (
	optionalPackagePattern = regexp.MustCompile(`(?i)-\s*OPTIONAL\s+PACKAGE\s+(\d+)\s*-\s*([^\r\n]*)`)
	addendumPattern        = regexp.MustCompile(`(?i)Addendum\s*#\s*(\d+)`)
)

// ScanReferences scans page text once and returns every recognizable
// reference. hasTable signals that the primary document itself carried the
// order-items table, which implies an original-contract section.
//
// Selected defaults are a business rule, not a convenience: the original
// contract and addenda default to true, optional packages to false.
func ScanReferences(text string, hasTable bool) []dto.AddendumReference {
	var refs []dto.AddendumReference

	if hasTable {
		refs = append(refs, dto.AddendumReference{
			Type:     dto.RefTypeOriginal,
			Selected: true,
		})
	}

	seenPackages := map[int]bool{}
	for _, m := range optionalPackagePattern.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil || seenPackages[n] {
			continue
		}
		seenPackages[n] = true
		num := n
		refs = append(refs, dto.AddendumReference{
			Type:     dto.RefTypeOptionalPackage,
			Number:   &num,
			Name:     packageName(m[2]),
			Selected: false,
		})
	}

	seenAddenda := map[int]bool{}
	for _, m := range addendumPattern.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil || seenAddenda[n] {
			continue
		}
		seenAddenda[n] = true
		num := n
		refs = append(refs, dto.AddendumReference{
			Type:     dto.RefTypeAddendum,
			Number:   &num,
			Selected: true,
		})
	}

	sortRefs(refs)
	return refs
}

// ResolveURLs fills in ResolvedURL for each reference by pairing markers
// with nearby anchor hrefs in the source markup. Relative links are joined
// against baseURL. References left without a URL are reported as warnings
// downstream, never dropped.
func ResolveURLs(refs []dto.AddendumReference, htmlStr, baseURL string) []dto.AddendumReference {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return refs
	}

	base, _ := url.Parse(baseURL)

	type link struct {
		text string
		href string
	}
	var links []link
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		links = append(links, link{
			text: strings.ToLower(strings.TrimSpace(a.Text())),
			href: joinURL(base, href),
		})
	})

	resolved := make([]dto.AddendumReference, len(refs))
	copy(resolved, refs)

	for i, ref := range resolved {
		var want []string
		switch ref.Type {
		case dto.RefTypeOptionalPackage:
			if ref.Number != nil {
				want = []string{
					"optional package " + strconv.Itoa(*ref.Number),
					"package " + strconv.Itoa(*ref.Number),
				}
			}
		case dto.RefTypeAddendum:
			if ref.Number != nil {
				want = []string{
					"addendum # " + strconv.Itoa(*ref.Number),
					"addendum #" + strconv.Itoa(*ref.Number),
					"addendum " + strconv.Itoa(*ref.Number),
				}
			}
		default:
			continue
		}
		for _, l := range links {
			if matchesAny(l.text, want) {
				resolved[i].ResolvedURL = l.href
				break
			}
		}
	}

	return resolved
}

// ManualReferences builds selected addendum references from caller-supplied
// URLs, the override path used when auto-detection is disabled.
func ManualReferences(urls []string) []dto.AddendumReference {
	refs := make([]dto.AddendumReference, 0, len(urls))
	for i, u := range urls {
		num := i + 1
		refs = append(refs, dto.AddendumReference{
			Type:        dto.RefTypeAddendum,
			Number:      &num,
			Selected:    true,
			ResolvedURL: u,
		})
	}
	return refs
}

func packageName(after string) string {
	name := strings.TrimSpace(after)
	if len(name) > maxPackageNameLen {
		// Cut back to a rune boundary so the name stays valid UTF-8.
		cut := maxPackageNameLen
		for cut > 0 && !utf8.RuneStart(name[cut]) {
			cut--
		}
		name = strings.TrimSpace(name[:cut])
	}
	return name
}

func matchesAny(text string, wants []string) bool {
	for _, w := range wants {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func joinURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	if ref.IsAbs() || base == nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// sortRefs keeps a stable presentation order: original first, then
// packages by number, then addenda by number.
func sortRefs(refs []dto.AddendumReference) {
	rank := func(t dto.ReferenceType) int {
		switch t {
		case dto.RefTypeOriginal:
			return 0
		case dto.RefTypeOptionalPackage:
			return 1
		default:
			return 2
		}
	}
	sort.SliceStable(refs, func(i, j int) bool {
		if rank(refs[i].Type) != rank(refs[j].Type) {
			return rank(refs[i].Type) < rank(refs[j].Type)
		}
		ni, nj := 0, 0
		if refs[i].Number != nil {
			ni = *refs[i].Number
		}
		if refs[j].Number != nil {
			nj = *refs[j].Number
		}
		return ni < nj
	})
}
