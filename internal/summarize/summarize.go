package summarize

import (
	"context"
	"fmt"
	"strings"

	"github.com/KEIAN12/gamagori-shigikai/internal/model"
)

const systemPrompt = `You are a friendly, skilled editor for a local city news outlet.
From the supplied city-council meeting transcript (an automatic speech-recognition
text), write a blog article that ordinary residents will actually want to read.

Constraints:
- Never use bold markers (** **).
- Translate bureaucratic terminology into plain words a teenager understands
  (e.g. supplementary budget -> budget change, transferred reserves -> dipping into savings).
- The transcript contains recognition errors and missing punctuation; read for
  context and correct to the intended meaning while summarizing.
- Drop procedural chatter ("please see page...", "questions are permitted") and
  keep only decisions and the substance of important debates.
- Keep the tone bright, positive, and easy to follow.
- Lay out headings and lists for readability; light emoji use is fine.

Article structure:
1. A 30-second summary at the very top: three bullet points carrying the
   article's conclusions, so a busy reader gets everything from this block.
2. Section one, highest priority: direct benefits to residents - payouts,
   vouchers, subsidies, anything touching household budgets, with concrete
   figures and conditions.
3. Section two: city works and administrative issues - construction progress,
   budget increases or cuts and always the reason behind them; present any
   debate as a short Q&A.
4. A closing recap with a next step for the reader (e.g. check the city bulletin).

Markdown style:
- ## for main headings, ### for subheadings, a blank line before and after each.
- Blank lines between paragraphs and around bullet lists.
- Keep paragraphs to two or three sentences.

Reference data usage:
- Council members, facilities, places, and positions must use the canonical
  spellings from the reference data only.
- Names absent from the reference data become "an official" or "a representative".`

// Summarize runs the primary backend first and only surfaces an error when
// the fallback also produces nothing usable. The caller decides whether
// that is fatal.
func (s *implSummarizer) Summarize(ctx context.Context, transcript string, councilNames []string) (*Result, error) {
	if s.gemini == nil && s.openai == nil {
		return nil, fmt.Errorf("no summarization backend configured")
	}

	transcript = truncateRunes(transcript, s.maxChars)

	userContent := s.buildUserContent(transcript, councilNames)

	var content string
	if s.gemini != nil {
		text, err := s.gemini.GenerateText(ctx, s.model, systemPrompt+"\n\n"+userContent)
		if err != nil {
			s.logger.Warn(ctx, "Gemini summarization failed, trying fallback: %v", err)
		} else {
			content = text
		}
	}

	if content == "" && s.openai != nil {
		text, err := s.openai.chat(ctx, systemPrompt, userContent)
		if err != nil {
			return nil, fmt.Errorf("openai summarization: %w", err)
		}
		content = text
	}

	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("no summarization backend produced output")
	}

	return Parse(content), nil
}

// truncateRunes caps s at max characters. Counting runes rather than bytes
// keeps the limit meaningful for Japanese text and never splits a
// character.
func truncateRunes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

func (s *implSummarizer) buildUserContent(transcript string, councilNames []string) string {
	tagIDs := make([]string, 0, len(model.AvailableTags))
	for _, t := range model.AvailableTags {
		tagIDs = append(tagIDs, t.ID)
	}

	return fmt.Sprintf(`Reference data (spellings must match this exactly):
%s

Transcript:
%s

Convert the transcript above into the resident-friendly article described in
your instructions.

Output format:
1. The first line must start with "Title: " followed by a catchy headline -
   at most 25 characters of core message, leading with a concrete benefit.
2. Then the article body.
3. After the body, one line starting with "Tags: " listing 1-3 matching tag
   ids, comma separated. Allowed tag ids: %s
4. Finally one line "SessionType: regular", "SessionType: extraordinary" or
   "SessionType: committee".`,
		s.ref.Context(councilNames), transcript, strings.Join(tagIDs, ", "))
}
