package tilt

import (
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eytandecker/tiltrotor-mcp/pkg/types"
)

// quadTilted has front motors 0 and 1 tilting, rear motors 2 and 3 fixed.
func quadTilted(currentTilt float64, inVTOL bool) *Controller {
	c := New(testConfig(TypeContinuous))
	c.state.CurrentTilt = currentTilt
	c.inVTOL = inVTOL
	return c
}

func TestCompensateNoopWhenVertical(t *testing.T) {
	inputs := [][]float64{
		{0.5, 0.5, 0.5, 0.5},
		{0, 1, 0.25, 0.75},
		{1.2, -0.1, 0.3, 0.9, 0.4, 0.6},
		{},
	}
	for _, inVTOL := range []bool{true, false} {
		for _, in := range inputs {
			c := quadTilted(0, inVTOL)
			thrust := slices.Clone(in)
			c.CompensateThrust(thrust)
			assert.Equal(t, in, thrust)
			assert.Len(t, thrust, len(in))
		}
	}
}

func TestCompensateDownSaturatedGanging(t *testing.T) {
	c := quadTilted(1, false)
	thrust := []float64{0.9, 0.95, 0.5, 0.6}

	c.CompensateThrust(thrust)

	inv := 1 / math.Cos(0.98*90*math.Pi/180)
	mean := (0.9*inv + 0.95*inv) / 2
	require.Greater(t, mean, 1.0)
	scale := 1 / mean

	assert.InDelta(t, 1.0, thrust[0], 1e-9)
	assert.InDelta(t, 1.0, thrust[1], 1e-9)
	assert.InDelta(t, 0.5*scale, thrust[2], 1e-9)
	assert.InDelta(t, 0.6*scale, thrust[3], 1e-9)
}

func TestCompensateDownBelowThreshold(t *testing.T) {
	c := quadTilted(0.25, false)
	thrust := []float64{0.4, 0.5, 0.45, 0.55}

	c.CompensateThrust(thrust)

	inv := 1 / math.Cos(0.25*90*math.Pi/180)
	assert.InDelta(t, 0.4*inv, thrust[0], 1e-9)
	assert.InDelta(t, 0.5*inv, thrust[1], 1e-9)
	assert.InDelta(t, 0.45, thrust[2], 1e-12)
	assert.InDelta(t, 0.55, thrust[3], 1e-12)
}

func TestCompensateDownGangsPastThreshold(t *testing.T) {
	c := quadTilted(0.6, false)
	thrust := []float64{0.2, 0.4, 0.3, 0.3}

	c.CompensateThrust(thrust)

	inv := 1 / math.Cos(0.6*90*math.Pi/180)
	assert.InDelta(t, thrust[0], thrust[1], 1e-12)
	assert.InDelta(t, 0.3*inv, thrust[0], 1e-9)
	assert.InDelta(t, 0.3, thrust[2], 1e-12)
}

func TestCompensateDownSaturationKeepsRatios(t *testing.T) {
	c := quadTilted(0.45, false)
	in := []float64{0.95, 0.6, 0.8, 0.4}
	thrust := append([]float64(nil), in...)

	c.CompensateThrust(thrust)

	inv := 1 / math.Cos(0.45*90*math.Pi/180)
	require.Greater(t, 0.95*inv, 1.0)

	largest := 0.0
	for _, v := range thrust {
		largest = max(largest, v)
	}
	assert.LessOrEqual(t, largest, 1.0+1e-9)
	assert.InDelta(t, 1.0, thrust[0], 1e-9)
	assert.InDelta(t, 0.6/0.95, thrust[1]/thrust[0], 1e-9)
	assert.InDelta(t, in[2]/in[3], thrust[2]/thrust[3], 1e-9)
}

func TestCompensateUpScalesFixedMotors(t *testing.T) {
	c := quadTilted(0.25, true)
	thrust := []float64{0.8, 0.9, 0.6, 0.7}

	c.CompensateThrust(thrust)

	factor := math.Cos(0.25 * 90 * math.Pi / 180)
	assert.InDelta(t, 0.8, thrust[0], 1e-12)
	assert.InDelta(t, 0.9, thrust[1], 1e-12)
	assert.InDelta(t, 0.6*factor, thrust[2], 1e-12)
	assert.InDelta(t, 0.7*factor, thrust[3], 1e-12)
}

func TestCompensateUpGangsWithoutRescale(t *testing.T) {
	c := quadTilted(0.7, true)
	thrust := []float64{1.4, 1.0, 0.6, 0.7}

	c.CompensateThrust(thrust)

	factor := math.Cos(0.7 * 90 * math.Pi / 180)
	assert.InDelta(t, 1.2, thrust[0], 1e-12)
	assert.InDelta(t, 1.2, thrust[1], 1e-12)
	assert.InDelta(t, 0.6*factor, thrust[2], 1e-12)
	assert.InDelta(t, 0.7*factor, thrust[3], 1e-12)
}

func TestCompensateWithNoTiltedMotorsInRange(t *testing.T) {
	cfg := testConfig(TypeContinuous)
	cfg.Mask = types.MaskOf(6, 7)
	c := New(cfg)
	c.state.CurrentTilt = 0.9

	thrust := []float64{0.5, 0.5, 0.5, 0.5}
	c.CompensateThrust(thrust)
	assert.Equal(t, []float64{0.5, 0.5, 0.5, 0.5}, thrust)

	c.inVTOL = true
	c.CompensateThrust(thrust)
	factor := math.Cos(0.9 * 90 * math.Pi / 180)
	for _, v := range thrust {
		assert.InDelta(t, 0.5*factor, v, 1e-12)
		assert.False(t, math.IsNaN(v))
	}
}

func TestCompensateFollowsLatchedMode(t *testing.T) {
	c := New(testConfig(TypeContinuous))
	c.state.CurrentTilt = 0.3

	c.Update(hoverContext())
	assert.True(t, c.inVTOL)

	c.Update(fixedWingContext())
	assert.False(t, c.inVTOL)
}
