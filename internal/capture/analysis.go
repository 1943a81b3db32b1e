// Package capture handles the AI analysis attached to quick captures.
//
// Older rows store the analysis inline in the capture content, separated
// from the raw idea by Marker. New writes keep the two apart: request
// content is split with Normalize, and stored rows are rewritten once by
// the migrate command.
package capture

import "strings"

// Marker separates the raw idea from the appended analysis.
const Marker = "\n\n---\n✨ AI Analysis:\n"

// Parsed is a capture's content split at the first marker.
type Parsed struct {
	RawIdea  string
	Analysis *string
}

// ParseAnalysis splits content at the first marker. Analysis is nil when
// the marker is absent.
func ParseAnalysis(content string) Parsed {
	idx := strings.Index(content, Marker)
	if idx == -1 {
		return Parsed{RawIdea: content}
	}
	analysis := content[idx+len(Marker):]
	return Parsed{RawIdea: content[:idx], Analysis: &analysis}
}

// HasAnalysis reports whether content carries an inline analysis.
func HasAnalysis(content string) bool {
	return strings.Contains(content, Marker)
}

// AppendAnalysis joins a raw idea and its analysis with the marker. It is
// the inverse of ParseAnalysis and produces the legacy stored form.
func AppendAnalysis(rawIdea, analysis string) string {
	return rawIdea + Marker + analysis
}

// Normalize splits legacy inline content and merges it with an explicit
// analysis. An explicit analysis wins over one found inline, so analyzing
// twice replaces instead of appending.
func Normalize(content string, analysis *string) (string, *string) {
	parsed := ParseAnalysis(content)
	if analysis != nil {
		return parsed.RawIdea, analysis
	}
	return parsed.RawIdea, parsed.Analysis
}
