// Package recommend produces diet, exercise and lifestyle advice for a
// blood-pressure category, from a language model when one is configured and
// from a fixed table otherwise.
package recommend

const (
	SourceAI     = "ai"
	SourceStatic = "static"
)

// Set has the same shape whatever produced it. Error is set when the model
// path failed; the lists are then empty or hold the static fallback, never nil.
type Set struct {
	Diet      []string `json:"diet"`
	Exercise  []string `json:"exercise"`
	Lifestyle []string `json:"lifestyle"`
	Error     string   `json:"error,omitempty"`
	Source    string   `json:"source,omitempty"`
}

// failed is the error-marked result of the model path.
func failed(reason string) Set {
	return Set{
		Diet:      []string{},
		Exercise:  []string{},
		Lifestyle: []string{},
		Error:     reason,
		Source:    SourceAI,
	}
}

// Complete reports whether all three lists have at least one entry.
func (s Set) Complete() bool {
	return len(s.Diet) > 0 && len(s.Exercise) > 0 && len(s.Lifestyle) > 0
}

func (s Set) clone() Set {
	s.Diet = append([]string{}, s.Diet...)
	s.Exercise = append([]string{}, s.Exercise...)
	s.Lifestyle = append([]string{}, s.Lifestyle...)
	return s
}
