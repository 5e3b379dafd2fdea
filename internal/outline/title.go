package outline

import "strings"

// Untitled is the title of documents that yield no candidate.
const Untitled = "Untitled"

// titlePages are searched in order; the first page with any candidate wins.
var titlePages = []int{1, 2}

// ResolveTitle picks the document title: the metadata title when present, else
// the largest heading on page 1 or 2, else the largest line on page 1 or 2.
func ResolveTitle(meta string, headings []Heading, tagged []TaggedLine) string {
	if t := strings.TrimSpace(meta); t != "" {
		return meta
	}

	for _, page := range titlePages {
		var best *Heading
		for i := range headings {
			h := &headings[i]
			if h.Page != page || !h.Level.IsHeading() || h.FontSize == 0 {
				continue
			}
			if best == nil || h.FontSize > best.FontSize {
				best = h
			}
		}
		if best != nil {
			return best.Text
		}
	}

	for _, page := range titlePages {
		var best *TaggedLine
		for i := range tagged {
			tl := &tagged[i]
			if tl.Page != page || tl.FontSize == 0 {
				continue
			}
			if best == nil || tl.FontSize > best.FontSize {
				best = tl
			}
		}
		if best != nil {
			return best.Text
		}
	}

	return Untitled
}
