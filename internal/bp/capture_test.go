package bp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQualityScore(t *testing.T) {
	q := QualityScore(DefaultCaptureSettings())
	assert.InDelta(t, 84, q.Score, 0.001)
	assert.Equal(t, "excellent", q.Grade)

	q = QualityScore(CaptureSettings{CameraQuality: "Medium", Angle: "Slight Tilt", Lighting: 50})
	assert.InDelta(t, 50, q.Score, 0.001)
	assert.Equal(t, "fair", q.Grade)

	q = QualityScore(CaptureSettings{CameraQuality: "Low", Angle: "Profile View", Lighting: 250})
	assert.InDelta(t, 40, q.Score, 0.001)
	assert.Equal(t, "fair", q.Grade)

	q = QualityScore(CaptureSettings{})
	assert.Equal(t, "poor", q.Grade)
	assert.Contains(t, q.Message, "20/100")
}

func TestSettingIssues(t *testing.T) {
	assert.Empty(t, SettingIssues(DefaultCaptureSettings()))
	assert.Equal(t,
		[]string{"slight tilt detected", "poor lighting detected"},
		SettingIssues(CaptureSettings{Angle: "Slight Tilt", Lighting: 20}),
	)
}

func TestSimulatedDetector(t *testing.T) {
	assert.Equal(t,
		[]string{"glasses detected", "headwear detected", "face partially obscured"},
		SimulatedDetector{Rand: fixedSource{0.95}}.Detect(uniform(10, 1, 1)),
	)
	assert.Empty(t, SimulatedDetector{Rand: fixedSource{0.1}}.Detect(uniform(10, 1, 1)))
	assert.Empty(t, SimulatedDetector{Rand: fixedSource{0.95}}.Detect(nil))
}

func TestInspectCapture(t *testing.T) {
	report := InspectCapture(SimulatedDetector{Rand: fixedSource{0.75}}, uniform(10, 1, 1), DefaultCaptureSettings())
	assert.True(t, report.ImageProvided)
	assert.Equal(t, []string{"glasses detected"}, report.Issues)

	report = InspectCapture(SimulatedDetector{Rand: fixedSource{0.95}}, nil, DefaultCaptureSettings())
	assert.False(t, report.ImageProvided)
	assert.NotNil(t, report.Issues)
	assert.Empty(t, report.Issues)
}
