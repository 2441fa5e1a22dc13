// Package questionnaire holds the lifestyle and medical answers a user submits
// before a reading is taken.
package questionnaire

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// NoneTag is the explicit "nothing applies" answer in tag sets.
const NoneTag = "None"

type Height struct {
	Value float64 `json:"value" validate:"gt=0"`
	Unit  string  `json:"unit" validate:"oneof=cm ft/in"`
	// Inches is only read when Unit is ft/in; Value then holds whole feet.
	Inches int `json:"inches,omitempty" validate:"gte=0,lte=11"`
}

func (h Height) String() string {
	if h.Unit == "ft/in" {
		return fmt.Sprintf("%d'%d\"", int(h.Value), h.Inches)
	}
	return formatAmount(h.Value) + " " + h.Unit
}

type Weight struct {
	Value float64 `json:"value" validate:"gt=0"`
	Unit  string  `json:"unit" validate:"oneof=kg lb"`
}

func (w Weight) String() string {
	return formatAmount(w.Value) + " " + w.Unit
}

// Record is a submitted questionnaire. Build it with New; the returned value
// is normalized and never modified afterwards.
type Record struct {
	Age            int      `json:"age" validate:"gte=1,lte=120"`
	Gender         string   `json:"gender" validate:"oneof='Male' 'Female' 'Other' 'Prefer not to say'"`
	Height         Height   `json:"height"`
	Weight         Weight   `json:"weight"`
	Diet           string   `json:"diet" validate:"oneof='Excellent' 'Good' 'Average' 'Poor' 'Very Poor'"`
	SaltIntake     string   `json:"salt_intake" validate:"oneof='Low' 'Moderate' 'High' 'Very High'"`
	Exercise       string   `json:"exercise" validate:"oneof='Daily' '4-6 times a week' '2-3 times a week' 'Once a week' 'Rarely' 'Never'"`
	Sleep          string   `json:"sleep" validate:"oneof='Less than 5 hours' '5-6 hours' '7-8 hours' 'More than 8 hours'"`
	Smoker         string   `json:"smoker" validate:"oneof='Yes' 'No' 'Former smoker'"`
	Alcohol        string   `json:"alcohol" validate:"oneof='None' 'Occasional' 'Regular' 'Heavy'"`
	Stress         string   `json:"stress" validate:"oneof='Low' 'Moderate' 'High' 'Very high'"`
	PrevConditions []string `json:"prev_conditions" validate:"dive,required,max=64"`
	Medications    []string `json:"medications" validate:"dive,required,max=64"`
	FamilyHistory  []string `json:"family_history" validate:"dive,required,max=64"`
	AdditionalInfo string   `json:"additional_info" validate:"max=2000"`
}

// New validates the submitted answers and returns a normalized copy.
func New(in Record) (Record, error) {
	out := in
	out.Gender = strings.TrimSpace(in.Gender)
	out.AdditionalInfo = strings.TrimSpace(in.AdditionalInfo)
	out.PrevConditions = NormalizeTags(in.PrevConditions)
	out.Medications = NormalizeTags(in.Medications)
	out.FamilyHistory = NormalizeTags(in.FamilyHistory)

	if err := Validate(out); err != nil {
		return Record{}, err
	}
	return out, nil
}

// NormalizeTags trims and de-duplicates tags, and drops the explicit None tag
// whenever anything else was selected. The result is never nil.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || slices.Contains(out, t) {
			continue
		}
		out = append(out, t)
	}
	if len(out) > 1 {
		out = slices.DeleteFunc(out, func(t string) bool { return strings.EqualFold(t, NoneTag) })
	}
	return out
}

// HasCondition reports whether name is among the prior conditions.
func (r Record) HasCondition(name string) bool {
	return slices.ContainsFunc(r.PrevConditions, func(c string) bool { return strings.EqualFold(c, name) })
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
