package recommend

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Skufu/bpfuel/internal/bp"
	"github.com/Skufu/bpfuel/internal/questionnaire"
)

// SystemPrompt sets the model's role for every request.
const SystemPrompt = "You are a medical expert specializing in cardiovascular health, nutrition, and exercise physiology."

// Profile is the slice of the questionnaire the prompt needs. Empty fields are
// rendered with neutral placeholders.
type Profile struct {
	Age               int      `json:"age"`
	Gender            string   `json:"gender"`
	Height            string   `json:"height"`
	Weight            string   `json:"weight"`
	Diet              string   `json:"diet"`
	MedicalConditions []string `json:"medical_conditions"`
	Medications       []string `json:"medications"`
	ActivityLevel     string   `json:"activity_level"`
}

func ProfileFromRecord(r questionnaire.Record) Profile {
	return Profile{
		Age:               r.Age,
		Gender:            r.Gender,
		Height:            r.Height.String(),
		Weight:            r.Weight.String(),
		Diet:              r.Diet,
		MedicalConditions: withoutNone(r.PrevConditions),
		Medications:       withoutNone(r.Medications),
		ActivityLevel:     r.Exercise,
	}
}

func withoutNone(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if !strings.EqualFold(t, questionnaire.NoneTag) {
			out = append(out, t)
		}
	}
	return out
}

const promptTemplate = `As a medical nutrition and exercise expert, provide personalized recommendations for a %s year old %s
with %s blood pressure (risk level: %s).

Additional information:
- Height: %s
- Weight: %s
- Current diet: %s
- Medical conditions: %s
- Current medications: %s
- Activity level: %s

Please provide specific recommendations in these three areas:

1. Diet recommendations: Include specific foods to eat and avoid, meal planning suggestions, and any dietary approaches specifically beneficial for their blood pressure category.

2. Exercise recommendations: Include specific types of exercises, duration, frequency, and intensity level appropriate for their condition.

3. Lifestyle modifications: Include stress management techniques, sleep recommendations, and other lifestyle changes that could help manage their blood pressure.

Format your response as a JSON object with keys 'diet', 'exercise', and 'lifestyle', each containing a list of 3-5 specific recommendations.`

func BuildPrompt(c bp.Classification, p Profile) string {
	age := "unknown age"
	if p.Age > 0 {
		age = strconv.Itoa(p.Age)
	}
	return fmt.Sprintf(promptTemplate,
		age,
		orDefault(p.Gender, "unspecified gender"),
		c.Category,
		c.RiskLevel,
		orDefault(p.Height, "unknown height"),
		orDefault(p.Weight, "unknown weight"),
		orDefault(p.Diet, "not specified"),
		joinOrNone(p.MedicalConditions),
		joinOrNone(p.Medications),
		orDefault(p.ActivityLevel, "moderate"),
	)
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
