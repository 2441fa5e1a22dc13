package bp

import (
	"fmt"
	"image"
	"strings"
)

// CaptureSettings are what the user reported about how the frame was taken.
type CaptureSettings struct {
	CameraQuality string `json:"camera_quality" form:"camera_quality"`
	Angle         string `json:"camera_angle" form:"camera_angle"`
	Lighting      int    `json:"lighting" form:"lighting" binding:"gte=0,lte=100"`
}

// DefaultCaptureSettings matches the defaults the capture form starts with.
func DefaultCaptureSettings() CaptureSettings {
	return CaptureSettings{CameraQuality: "High", Angle: "Face Forward", Lighting: 70}
}

type Quality struct {
	Score   float64 `json:"score"`
	Grade   string  `json:"grade"`
	Message string  `json:"message"`
}

// QualityScore rates capture settings out of 100: up to 40 for the camera,
// 40 for the angle and 20 for lighting.
func QualityScore(s CaptureSettings) Quality {
	var score float64
	switch s.CameraQuality {
	case "Ultra HD":
		score += 40
	case "High":
		score += 30
	case "Medium":
		score += 20
	default:
		score += 10
	}
	switch s.Angle {
	case "Face Forward":
		score += 40
	case "Slight Tilt":
		score += 20
	default:
		score += 10
	}
	score += float64(min(max(s.Lighting, 0), 100)) * 0.2

	q := Quality{Score: score}
	switch {
	case score >= 80:
		q.Grade = "excellent"
		q.Message = fmt.Sprintf("Excellent image quality (%.0f/100): Results likely highly accurate", score)
	case score >= 60:
		q.Grade = "good"
		q.Message = fmt.Sprintf("Good image quality (%.0f/100): Results should be reliable", score)
	case score >= 40:
		q.Grade = "fair"
		q.Message = fmt.Sprintf("Fair image quality (%.0f/100): Results may have moderate variation", score)
	default:
		q.Grade = "poor"
		q.Message = fmt.Sprintf("Poor image quality (%.0f/100): Consider retaking with better settings", score)
	}
	return q
}

// AccessoryDetector reports items that may reduce estimate accuracy, such as
// glasses or headwear.
type AccessoryDetector interface {
	Detect(frame image.Image) []string
}

// SimulatedDetector draws detections at random. It stands in for a face
// landmark model.
type SimulatedDetector struct {
	Rand Source
}

func (d SimulatedDetector) Detect(frame image.Image) []string {
	issues := []string{}
	if frame == nil {
		return issues
	}
	rng := d.Rand
	if rng == nil {
		rng = DefaultSource()
	}
	if rng.Float64() > 0.7 {
		issues = append(issues, "glasses detected")
	}
	if rng.Float64() > 0.8 {
		issues = append(issues, "headwear detected")
	}
	if rng.Float64() > 0.9 {
		issues = append(issues, "face partially obscured")
	}
	return issues
}

// SettingIssues flags reported settings known to hurt accuracy.
func SettingIssues(s CaptureSettings) []string {
	issues := []string{}
	if s.Angle != "" && s.Angle != "Face Forward" {
		issues = append(issues, strings.ToLower(s.Angle)+" detected")
	}
	if s.Lighting < 50 {
		issues = append(issues, "poor lighting detected")
	}
	return issues
}

// CaptureReport is returned next to a reading so the user can decide to retake.
type CaptureReport struct {
	ImageProvided bool     `json:"image_provided"`
	Quality       Quality  `json:"quality"`
	Issues        []string `json:"issues"`
}

// InspectCapture combines the settings score with detector and settings issues.
func InspectCapture(d AccessoryDetector, frame image.Image, s CaptureSettings) CaptureReport {
	issues := SettingIssues(s)
	if d != nil && frame != nil {
		issues = append(issues, d.Detect(frame)...)
	}
	return CaptureReport{
		ImageProvided: frame != nil,
		Quality:       QualityScore(s),
		Issues:        issues,
	}
}
