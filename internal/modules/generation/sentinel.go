package generation

import (
	"regexp"
	"strings"
)

type SentinelKind string

const (
	SentinelSiteID     SentinelKind = "SITE_ID"
	SentinelSaveFailed SentinelKind = "SITE_SAVE_FAILED"
	SentinelError      SentinelKind = "SITE_ERROR"
)

const sentinelMarker = "<!-- SITE_"

var sentinelRe = regexp.MustCompile(`<!-- (SITE_ID|SITE_SAVE_FAILED|SITE_ERROR):([A-Za-z0-9_.\-]+) -->`)

// Sentinel renders the trailer that ends every generation stream.
func Sentinel(kind SentinelKind, value string) string {
	return "\n<!-- " + string(kind) + ":" + value + " -->"
}

// ParseSentinel returns the last trailer in text.
func ParseSentinel(text string) (SentinelKind, string, bool) {
	all := sentinelRe.FindAllStringSubmatch(text, -1)
	if len(all) == 0 {
		return "", "", false
	}
	m := all[len(all)-1]
	return SentinelKind(m[1]), m[2], true
}

// Neutralize defuses anything in model output that could be read as a trailer.
func Neutralize(s string) string {
	return strings.ReplaceAll(s, sentinelMarker, "<!-- SITE-")
}

// sentinelGuard neutralises a chunked stream. A chunk tail that could be
// the start of a marker is held until the next chunk decides it.
type sentinelGuard struct {
	pending string
}

func (g *sentinelGuard) push(chunk string) string {
	s := Neutralize(g.pending + chunk)
	hold := markerPrefixLen(s)
	g.pending = s[len(s)-hold:]
	return s[:len(s)-hold]
}

func (g *sentinelGuard) flush() string {
	out := g.pending
	g.pending = ""
	return out
}

// markerPrefixLen is the length of the longest suffix of s that is a proper
// prefix of the marker.
func markerPrefixLen(s string) int {
	limit := len(sentinelMarker) - 1
	if limit > len(s) {
		limit = len(s)
	}
	for n := limit; n > 0; n-- {
		if strings.HasSuffix(s, sentinelMarker[:n]) {
			return n
		}
	}
	return 0
}
