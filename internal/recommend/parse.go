package recommend

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrEmptyResponse = errors.New("empty response from recommendation service")
	ErrUnparseable   = errors.New("recommendations could not be parsed")
)

var (
	fencePattern = regexp.MustCompile("(?s)```(?:json|JSON)?[ \t]*\\r?\\n?(.*?)\\r?\\n?```")
	// keyPatterns match up to and including the opening bracket of each list.
	keyPatterns = map[string]*regexp.Regexp{
		"diet":      regexp.MustCompile(`["']diet["']\s*:\s*\[`),
		"exercise":  regexp.MustCompile(`["']exercise["']\s*:\s*\[`),
		"lifestyle": regexp.MustCompile(`["']lifestyle["']\s*:\s*\[`),
	}
)

// Parse stages, reported on the result for logging and metrics.
const (
	StageStrict  = "strict"
	StageExtract = "extract"
)

// ParseResult is either a complete Set (Err nil) or the reason parsing failed.
type ParseResult struct {
	Set   Set
	Stage string
	Err   error
}

func (r ParseResult) OK() bool { return r.Err == nil }

// Parse reads model output in stages: unwrap a fenced block, decode strict
// JSON (whole text, then the outermost braces), and finally pull each array
// out on its own. All three lists must come back non-empty.
func Parse(text string) ParseResult {
	text = strings.TrimSpace(text)
	if text == "" {
		return ParseResult{Err: ErrEmptyResponse}
	}
	if m := fencePattern.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}

	if s, err := decodeStrict(text); err == nil {
		return ParseResult{Set: s, Stage: StageStrict}
	}
	if start, end := strings.Index(text, "{"), strings.LastIndex(text, "}"); start >= 0 && end > start {
		if s, err := decodeStrict(text[start : end+1]); err == nil {
			return ParseResult{Set: s, Stage: StageStrict}
		}
	}

	s, missing, malformed := extractArrays(text)
	if len(missing) == 3 {
		return ParseResult{Err: ErrUnparseable}
	}
	if len(missing) > 0 || len(malformed) > 0 {
		var reasons []string
		if len(missing) > 0 {
			reasons = append(reasons, "missing "+strings.Join(missing, ", "))
		}
		if len(malformed) > 0 {
			reasons = append(reasons, "non-string items in "+strings.Join(malformed, ", "))
		}
		return ParseResult{Err: fmt.Errorf("%w: %s", ErrUnparseable, strings.Join(reasons, "; "))}
	}
	return ParseResult{Set: s, Stage: StageExtract}
}

type wireSet struct {
	Diet      []string `json:"diet"`
	Exercise  []string `json:"exercise"`
	Lifestyle []string `json:"lifestyle"`
}

func decodeStrict(text string) (Set, error) {
	var w wireSet
	if err := json.Unmarshal([]byte(text), &w); err != nil {
		return Set{}, err
	}
	s := Set{
		Diet:      cleanItems(w.Diet),
		Exercise:  cleanItems(w.Exercise),
		Lifestyle: cleanItems(w.Lifestyle),
		Source:    SourceAI,
	}
	if !s.Complete() {
		return Set{}, fmt.Errorf("%w: incomplete object", ErrUnparseable)
	}
	return s, nil
}

// extractArrays scrapes each named array from text that is not valid JSON.
// A list holding objects or nested lists is reported as malformed rather than
// flattened.
func extractArrays(text string) (s Set, missing, malformed []string) {
	s = Set{Source: SourceAI}
	for _, key := range []string{"diet", "exercise", "lifestyle"} {
		items := []string{}
		if loc := keyPatterns[key].FindStringIndex(text); loc != nil {
			scanned, ok := scanArray(text[loc[1]:])
			if !ok {
				malformed = append(malformed, key)
				continue
			}
			items = scanned
		}
		if len(items) == 0 {
			missing = append(missing, key)
		}
		switch key {
		case "diet":
			s.Diet = items
		case "exercise":
			s.Exercise = items
		case "lifestyle":
			s.Lifestyle = items
		}
	}
	return s, missing, malformed
}

// scanArray reads list items from just after an opening bracket up to the
// matching close bracket. Items may be double- or single-quoted; brackets
// inside quotes are item text. Without any quoted item the body is split on
// newlines. A brace or bracket outside quotes makes the list malformed.
// Output cut off before the close bracket keeps what was read.
func scanArray(body string) ([]string, bool) {
	var (
		quoted    []string
		bare      strings.Builder
		itemStart = true
	)
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case (c == '"' || c == '\'') && itemStart:
			end := closingQuote(body, i+1, c)
			if end < 0 {
				return collectItems(quoted, bare.String()), true
			}
			quoted = append(quoted, unquote(body[i+1:end], c))
			i = end
			itemStart = false
		case c == ']':
			return collectItems(quoted, bare.String()), true
		case c == '{' || c == '[':
			return nil, false
		case c == ',' || c == '\n':
			itemStart = true
			bare.WriteByte(c)
		case c == ' ' || c == '\t' || c == '\r':
			bare.WriteByte(c)
		default:
			itemStart = false
			bare.WriteByte(c)
		}
	}
	return collectItems(quoted, bare.String()), true
}

func closingQuote(s string, from int, q byte) int {
	for j := from; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case q:
			return j
		}
	}
	return -1
}

func unquote(raw string, q byte) string {
	if q == '"' {
		var item string
		if err := json.Unmarshal([]byte(`"`+raw+`"`), &item); err == nil {
			return item
		}
		return raw
	}
	return strings.NewReplacer(`\'`, `'`, `\"`, `"`).Replace(raw)
}

func collectItems(quoted []string, bare string) []string {
	if len(quoted) > 0 {
		return cleanItems(quoted)
	}
	return cleanItems(strings.Split(bare, "\n"))
}

func cleanItems(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		it = strings.Trim(strings.TrimSpace(it), `"',`)
		it = strings.TrimSpace(it)
		if it != "" {
			out = append(out, it)
		}
	}
	return out
}
