package resolver

import "regexp"

// Command patterns. They run over protected text, so quoted literals and
// hidden bodies are single word-character tokens here.
var (
	// search right after an unextracted '[' (groups 1, 2) or at the start of
	// the text (group 3). One pattern, so a rewritten span is never matched
	// twice.
	readPattern = regexp.MustCompile(`(?i)(\[)\s*search ([^|\]]+)|^ *search ([^|]+)`)

	otstatsPattern = regexp.MustCompile(`(?i)(\[)\s*\|\s*otstats ([^|\]]+)|\|?\s*otstats ([^|]+)`)

	// search after a pipe: a filter stage
	filterPattern = regexp.MustCompile(`(?i)\|\s*search ([^|]+)`)

	otrestPattern      = regexp.MustCompile(`(\|\s*)?otrest[^|]+url\s*?=\s*?([^|\] ]+)`)
	inputlookupPattern = regexp.MustCompile(`otinputlookup([^|$]+)where\s+([^|$]+)`)
	otfromPattern      = regexp.MustCompile(`otfrom datamodel:?\s*([^|$]+)`)
	loadJobIDPattern   = regexp.MustCompile(`(\|\s*)?otloadjob\s+(\d+\.\d+)`)

	scalaPattern = regexp.MustCompile(`(?s)scala\s+<#(.*?)#>`)
	sparkPattern = regexp.MustCompile(`(?s)spark\s+<#(.*?)#>`)

	// subsearch reference left in a search argument by extraction
	markerPattern = regexp.MustCompile(` subsearch=subsearch_\w+`)
)

// loadJobOTLPattern matches an inline job on raw text, before protection:
// otloadjob otl="..." with optional ___token___="..." and ___tail___="..."
// parts. Embedded quotes are escaped as \".
var loadJobOTLPattern = regexp.MustCompile(
	`otloadjob\s+otl="(.+?[^\\])"` +
		`(\s+?___token___="(.+?[^\\])")?` +
		`(\s+?___tail___="(.+?[^\\])")?`)
