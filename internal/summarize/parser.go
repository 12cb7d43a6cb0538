package summarize

import (
	"regexp"
	"strings"

	"github.com/KEIAN12/gamagori-shigikai/internal/model"
)

var (
	reTitle   = regexp.MustCompile(`(?m)^Title:\s*(.+?)\s*$`)
	reTags    = regexp.MustCompile(`(?m)^Tags:\s*(.+?)\s*$`)
	reSession = regexp.MustCompile(`(?im)^SessionType:\s*([A-Za-z_]+)\s*$`)
	reBold    = regexp.MustCompile(`\*\*(.+?)\*\*`)
	tagSplit  = regexp.MustCompile(`[,、\s]+`)
)

// Parse extracts the tagged fields from the model output. Every miss
// degrades to an empty field; Parse never fails.
func Parse(content string) *Result {
	result := &Result{}

	if m := reTitle.FindStringSubmatch(content); m != nil {
		result.Title = strings.TrimSpace(m[1])
	}

	if m := reSession.FindStringSubmatch(content); m != nil {
		// Strict three-value match: anything else stays null, no inference.
		if v := strings.ToLower(m[1]); model.ValidSessionType(v) {
			result.SessionType = &v
		}
	}

	if m := reTags.FindStringSubmatch(content); m != nil {
		for _, raw := range tagSplit.Split(m[1], -1) {
			tag := strings.ToLower(strings.TrimSpace(raw))
			// Tokens outside the controlled vocabulary are dropped silently.
			if tag != "" && model.ValidTag(tag) {
				result.Tags = append(result.Tags, tag)
			}
		}
	}

	body := reTitle.ReplaceAllString(content, "")
	body = reTags.ReplaceAllString(body, "")
	body = reSession.ReplaceAllString(body, "")
	// The prompt forbids bold markers; strip any that slip through.
	body = reBold.ReplaceAllString(body, "$1")
	result.Body = strings.TrimSpace(body)

	return result
}
