package bp

import (
	"image"
	"image/color"
	"math/rand/v2"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniform(gray uint8, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: gray, G: gray, B: gray, A: 255})
		}
	}
	return img
}

func inBands(t *testing.T, r Reading) {
	t.Helper()
	assert.GreaterOrEqual(t, r.Systolic, MinSystolic)
	assert.LessOrEqual(t, r.Systolic, MaxSystolic)
	assert.GreaterOrEqual(t, r.Diastolic, MinDiastolic)
	assert.LessOrEqual(t, r.Diastolic, MaxDiastolic)
}

func seeded() *rand.Rand {
	return rand.New(rand.NewPCG(7, 11))
}

func TestFromBrightness(t *testing.T) {
	assert.Equal(t, Reading{Systolic: 120, Diastolic: 80}, FromBrightness(128))
	assert.Equal(t, Reading{Systolic: 109, Diastolic: 72}, FromBrightness(0))
	assert.Equal(t, Reading{Systolic: 130, Diastolic: 87}, FromBrightness(255))
}

func TestBrightnessEstimatorExtremes(t *testing.T) {
	est := NewBrightnessEstimator(seeded(), zerolog.Nop())
	for _, g := range []uint8{0, 1, 128, 254, 255} {
		r := est.Estimate(uniform(g, 4, 3))
		inBands(t, r)
	}
	assert.Equal(t, Reading{Systolic: 109, Diastolic: 72}, est.Estimate(uniform(0, 2, 2)))
	assert.Equal(t, Reading{Systolic: 130, Diastolic: 87}, est.Estimate(uniform(255, 2, 2)))
}

func TestMeanBrightnessMixedChannels(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	img.Set(1, 0, color.RGBA{G: 255, B: 255, A: 255})
	b, err := MeanBrightness(img)
	require.NoError(t, err)
	assert.InDelta(t, 127.5, b, 0.001)
}

func TestBrightnessEstimatorRecoversFromBadFrames(t *testing.T) {
	est := NewBrightnessEstimator(seeded(), zerolog.Nop())

	empty := image.NewRGBA(image.Rect(0, 0, 0, 0))
	for i := 0; i < 50; i++ {
		r := est.Estimate(empty)
		assert.GreaterOrEqual(t, r.Systolic, 100)
		assert.LessOrEqual(t, r.Systolic, 140)
		assert.GreaterOrEqual(t, r.Diastolic, 65)
		assert.LessOrEqual(t, r.Diastolic, 90)
	}

	var typedNil *image.RGBA
	assert.NotPanics(t, func() { inBands(t, est.Estimate(typedNil)) })
}

func TestSimulatedEstimatorStaysInBands(t *testing.T) {
	est := SimulatedEstimator{Rand: seeded()}
	for i := 0; i < 500; i++ {
		r := est.Estimate(nil)
		inBands(t, r)
		assert.InDelta(t, 120, r.Systolic, 15)
		assert.InDelta(t, 80, r.Diastolic, 11)
	}
}

type fixedSource struct{ f float64 }

func (s fixedSource) Float64() float64 { return s.f }
func (s fixedSource) IntN(n int) int   { return n - 1 }

func TestSimulatedEstimatorScalesDiastolic(t *testing.T) {
	assert.Equal(t, Reading{Systolic: 135, Diastolic: 90}, SimulatedEstimator{Rand: fixedSource{1}}.Estimate(nil))
	assert.Equal(t, Reading{Systolic: 105, Diastolic: 69}, SimulatedEstimator{Rand: fixedSource{0}}.Estimate(nil))
}

func TestNilFrameUsesSimulation(t *testing.T) {
	est := NewBrightnessEstimator(fixedSource{0.5}, zerolog.Nop())
	assert.Equal(t, Reading{Systolic: 120, Diastolic: 80}, est.Estimate(nil))
}

func TestRequireFrame(t *testing.T) {
	est := NewBrightnessEstimator(seeded(), zerolog.Nop())
	_, err := RequireFrame(est, nil)
	assert.ErrorIs(t, err, ErrNilFrame)

	r, err := RequireFrame(est, uniform(128, 1, 1))
	require.NoError(t, err)
	assert.Equal(t, Reading{Systolic: 120, Diastolic: 80}, r)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, Reading{Systolic: 90, Diastolic: 60}, Clamp(-5, 0))
	assert.Equal(t, Reading{Systolic: 190, Diastolic: 110}, Clamp(500, 400))
	assert.Equal(t, "120/80", Clamp(120, 80).String())
}

func TestFallbackReadingUpperBounds(t *testing.T) {
	assert.Equal(t, Reading{Systolic: 140, Diastolic: 90}, FallbackReading(fixedSource{}))
	r := FallbackReading(nil)
	assert.GreaterOrEqual(t, r.Systolic, 100)
	assert.LessOrEqual(t, r.Diastolic, 90)
}
