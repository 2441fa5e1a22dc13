package questionnaire

import "slices"

const consultTip = "Always consult a healthcare professional if symptoms worsen."

// BasicTips turns questionnaire answers, and a reading when one exists, into
// short rule-based reminders shown next to the full recommendations.
// systolic and diastolic are ignored when either is zero.
func BasicTips(r Record, systolic, diastolic int) []string {
	tips := []string{}
	if r.Age > 50 {
		tips = append(tips, "You're over 50. Regular BP checks are important.")
	}
	if r.Diet == "Poor" || r.Diet == "Very Poor" {
		tips = append(tips, "Improve your diet with more whole foods.")
	}
	if r.SaltIntake == "High" || r.SaltIntake == "Very High" {
		tips = append(tips, "Lower your salt intake.")
	}
	if slices.Contains([]string{"Rarely", "Never"}, r.Exercise) {
		tips = append(tips, "Try exercising at least 3x a week.")
	}
	if r.Smoker == "Yes" {
		tips = append(tips, "Quit smoking to help manage BP.")
	}
	if r.Alcohol == "Regular" || r.Alcohol == "Heavy" {
		tips = append(tips, "Reduce alcohol intake.")
	}
	if r.HasCondition("Hypertension") {
		tips = append(tips, "Follow your doctor's guidance for high BP.")
	}
	if systolic != 0 && diastolic != 0 {
		switch {
		case systolic > 140 || diastolic > 90:
			tips = append(tips, "High BP detected. Consult a doctor.")
		case systolic < 90 || diastolic < 60:
			tips = append(tips, "Low BP detected. Monitor for dizziness.")
		default:
			tips = append(tips, "Your BP is in the normal range.")
		}
	}
	return append(tips, consultTip)
}
