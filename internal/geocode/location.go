package geocode

import (
	"regexp"
	"strings"
)

// Headlines usually read "Flood at Biratnagar" or "Landslide at Sindhupalchok
// district". The text after "at" is the best location hint available.
var atPattern = regexp.MustCompile(`(?i)\bat\s+(.+)$`)

// ExtractLocation pulls a geocodable location string out of an alert title.
// When the "at <location>" pattern is missing, the whole title is used
// verbatim as the query. This is a heuristic with no guarantee the result
// is a real place name; the geocoder simply returns nil for junk.
func ExtractLocation(title string) string {
	if m := atPattern.FindStringSubmatch(title); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(title)
}
