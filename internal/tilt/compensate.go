package tilt

import "math"

// maxCompensatedTilt caps the tilt used in the cosine term so the inverse
// factor stays finite near 90 degrees.
const maxCompensatedTilt = 0.98

// CompensateThrust implements ThrustCompensator. It does nothing while the
// motors are vertical.
//
// Leaving VTOL flight the tilted motors are raised to restore lost lift;
// entering VTOL flight the untilted motors are lowered instead. This biases
// toward more forward thrust on the way out and less on the way back in.
func (c *Controller) CompensateThrust(thrust []float64) {
	if !(c.state.CurrentTilt > 0) {
		return
	}
	if c.inVTOL {
		c.compensateUp(thrust)
	} else {
		c.compensateDown(thrust)
	}
}

func (c *Controller) compensateDown(thrust []float64) {
	tilt := min(c.state.CurrentTilt, maxCompensatedTilt)
	invFactor := 1 / math.Cos(radians(tilt*fullTravelDeg))
	ganged := c.state.CurrentTilt > c.cfg.gangThreshold()

	var total float64
	count := 0
	for i := range thrust {
		if c.cfg.Mask.Has(i) {
			thrust[i] *= invFactor
			total += thrust[i]
			count++
		}
	}
	if count == 0 {
		return
	}

	largest := 0.0
	for i := range thrust {
		if !c.cfg.Mask.Has(i) {
			continue
		}
		if ganged {
			thrust[i] = total / float64(count)
		}
		largest = max(largest, thrust[i])
	}

	// keep every motor in proportion when a tilted motor saturates
	if largest > 1 {
		scale := 1 / largest
		for i := range thrust {
			thrust[i] *= scale
		}
	}
}

func (c *Controller) compensateUp(thrust []float64) {
	factor := math.Cos(radians(c.state.CurrentTilt * fullTravelDeg))
	ganged := c.state.CurrentTilt > c.cfg.gangThreshold()

	var total float64
	count := 0
	for i := range thrust {
		if c.cfg.Mask.Has(i) {
			total += thrust[i]
			count++
		} else {
			thrust[i] *= factor
		}
	}
	if !ganged || count == 0 {
		return
	}

	mean := total / float64(count)
	for i := range thrust {
		if c.cfg.Mask.Has(i) {
			thrust[i] = mean
		}
	}
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
