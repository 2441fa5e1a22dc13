// Package bp turns a captured frame into a blood-pressure reading and maps
// readings onto fixed risk categories.
package bp

const (
	CategoryLow      = "Low Blood Pressure"
	CategoryNormal   = "Normal"
	CategoryElevated = "Elevated"
	CategoryStage1   = "Hypertension Stage 1"
	CategoryStage2   = "Hypertension Stage 2"
	CategoryCrisis   = "Hypertensive Crisis"
)

// Classification field names are part of the API contract; the frontend
// indexes into them directly.
type Classification struct {
	Category    string `json:"category"`
	Description string `json:"description"`
	Class       string `json:"class"`
	Color       string `json:"color"`
	RiskLevel   string `json:"risk_level"`
	Alert       bool   `json:"alert"`
}

var classifications = map[string]Classification{
	CategoryLow: {
		Category:    CategoryLow,
		Description: "Your blood pressure is below the normal range.",
		Class:       "bp-low",
		Color:       "blue",
		RiskLevel:   "low to moderate",
	},
	CategoryNormal: {
		Category:    CategoryNormal,
		Description: "Your blood pressure is within the normal range.",
		Class:       "bp-normal",
		Color:       "green",
		RiskLevel:   "low",
	},
	CategoryElevated: {
		Category:    CategoryElevated,
		Description: "Your blood pressure is slightly above normal and you may be at risk of developing hypertension.",
		Class:       "bp-elevated",
		Color:       "yellow",
		RiskLevel:   "moderate",
	},
	CategoryStage1: {
		Category:    CategoryStage1,
		Description: "Your blood pressure is high. Lifestyle changes are recommended.",
		Class:       "bp-high",
		Color:       "orange",
		RiskLevel:   "moderate to high",
		Alert:       true,
	},
	CategoryStage2: {
		Category:    CategoryStage2,
		Description: "Your blood pressure is very high. Consult a doctor as soon as possible.",
		Class:       "bp-high",
		Color:       "red",
		RiskLevel:   "high",
		Alert:       true,
	},
	CategoryCrisis: {
		Category:    CategoryCrisis,
		Description: "Your blood pressure is extremely high. Seek emergency medical attention immediately!",
		Class:       "bp-crisis",
		Color:       "darkred",
		RiskLevel:   "very high",
		Alert:       true,
	},
}

// Categories lists every category in decision-table order.
func Categories() []string {
	return []string{CategoryLow, CategoryNormal, CategoryElevated, CategoryStage1, CategoryStage2, CategoryCrisis}
}

// Classify is total over all integers. Rows are checked top to bottom and the
// first match wins. The stage 1 and stage 2 rows use "or", so either value
// alone selects them, unlike the "and" rows above; that boundary behavior is
// kept as-is.
func Classify(systolic, diastolic int) Classification {
	switch {
	case systolic < 90 || diastolic < 60:
		return classifications[CategoryLow]
	case systolic < 120 && diastolic < 80:
		return classifications[CategoryNormal]
	case systolic < 130 && diastolic < 80:
		return classifications[CategoryElevated]
	case systolic < 140 || diastolic < 90:
		return classifications[CategoryStage1]
	case systolic < 180 || diastolic < 120:
		return classifications[CategoryStage2]
	default:
		return classifications[CategoryCrisis]
	}
}

// ClassifyReading is Classify for a Reading.
func ClassifyReading(r Reading) Classification {
	return Classify(r.Systolic, r.Diastolic)
}

// Lookup returns the fixed metadata for a category name.
func Lookup(category string) (Classification, bool) {
	c, ok := classifications[category]
	return c, ok
}
