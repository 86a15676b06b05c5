package extract

import (
	"regexp"
	"strings"
)

type Strategy string

const (
	StrategyFenced    Strategy = "fenced"
	StrategyEntryScan Strategy = "entry_scan"
	StrategyRaw       Strategy = "raw"
)

type Result struct {
	Code     string
	Strategy Strategy
}

var (
	// An unterminated trailing fence runs to end of text.
	fenceRe = regexp.MustCompile("(?s)```(?:html|jsx|tsx|javascript|js|react|typescript|ts)?[ \t]*\r?\n(.*?)(?:```|$)")

	entryRe = regexp.MustCompile(`(?i:<!DOCTYPE)|<html\b|\bfunction\s+App\b|\bconst\s+App\s*=|\bexport\s+default\s+function\b|\bimport\s+React\b`)

	closingHTMLRe = regexp.MustCompile(`(?i)</html\s*>`)

	documentStartRe = regexp.MustCompile(`(?i)^(?:<!DOCTYPE|<html\b)`)

	// A first line opening with a declaration or comment is script, never prose.
	declLineRe = regexp.MustCompile(`^(?://|/\*|(?:import|export|const|let|var|function|class|async\s+function)\b)`)

	preRe  = regexp.MustCompile(`(?is)<pre\b.*?</pre\s*>`)
	codeRe = regexp.MustCompile(`(?is)<code\b.*?</code\s*>`)
)

// Extract pulls the code out of a model response. It never fails; the worst
// case is the whole trimmed text. Applying it to its own output is a no-op.
func Extract(raw string) Result {
	text := strings.TrimSpace(raw)
	if text == "" {
		return Result{Strategy: StrategyRaw}
	}

	// Already code: leave it alone so re-extraction is stable even when the
	// document itself contains fences.
	if isCode(text) {
		return Result{Code: text, Strategy: StrategyRaw}
	}

	if m := fenceRe.FindStringSubmatchIndex(maskSamples(text)); m != nil {
		if code := strings.TrimSpace(text[m[2]:m[3]]); code != "" {
			return Result{Code: code, Strategy: StrategyFenced}
		}
	}

	// Markup with no fence outside its samples is the document itself.
	if text[0] == '<' {
		return Result{Code: text, Strategy: StrategyRaw}
	}

	if loc := entryRe.FindStringIndex(text); loc != nil {
		code := text[loc[0]:]
		if end := closingHTMLRe.FindAllStringIndex(code, -1); len(end) > 0 {
			code = code[:end[len(end)-1][1]]
		}
		return Result{Code: strings.TrimSpace(code), Strategy: StrategyEntryScan}
	}

	return Result{Code: text, Strategy: StrategyRaw}
}

// isCode reports text that is unambiguously extractor output: a full HTML
// document or script whose first line is a declaration or an entry point.
func isCode(text string) bool {
	if documentStartRe.MatchString(text) {
		return true
	}
	first, _, _ := strings.Cut(text, "\n")
	first = strings.TrimSpace(first)
	if declLineRe.MatchString(first) {
		return true
	}
	loc := entryRe.FindStringIndex(first)
	return loc != nil && loc[0] == 0
}

// maskSamples blanks <pre> and <code> regions byte for byte so fences shown
// as samples inside markup are not taken for the response's own fence.
func maskSamples(text string) string {
	if !strings.Contains(text, "<") {
		return text
	}
	b := []byte(text)
	for _, re := range []*regexp.Regexp{preRe, codeRe} {
		for _, loc := range re.FindAllIndex(b, -1) {
			for i := loc[0]; i < loc[1]; i++ {
				b[i] = ' '
			}
		}
	}
	return string(b)
}
