package scenario

// defaultScenario is a hover, transition to forward flight, cruise and
// back-transition flight for a front-tilt quadplane.
const defaultScenario = `{
  "meta": {"name": "transition", "description": "hover, forward transition, cruise, back-transition"},
  "segments": [
    {"t0": 0,  "t1": 5,  "mode": "QHOVER", "in_vtol": true, "armed": true, "hover_throttle": 0.5, "comment": "hover"},
    {"t0": 5,  "t1": 10, "mode": "QLOITER", "in_vtol": true, "armed": true, "throttle": 0, "throttle_end": 0.6, "hover_throttle": 0.5, "comment": "forward throttle builds"},
    {"t0": 10, "t1": 14, "mode": "FBWA", "armed": true, "assisted": true, "transition": "AIRSPEED_WAIT", "throttle": 0.7, "hover_throttle": 0.45, "comment": "waiting for airspeed"},
    {"t0": 14, "t1": 18, "mode": "FBWA", "armed": true, "assisted": true, "transition": "TIMER", "throttle": 0.7, "hover_throttle": 0.3, "comment": "transition timer"},
    {"t0": 18, "t1": 30, "mode": "FBWA", "armed": true, "transition": "DONE", "throttle": 0.65, "yaw": 0.1, "comment": "cruise"},
    {"t0": 30, "t1": 40, "mode": "QSTABILIZE", "in_vtol": true, "armed": true, "hover_throttle": 0.55, "yaw": -0.2, "comment": "back-transition"}
  ]
}`

// Default returns the built-in transition scenario.
func Default() Scenario {
	s, err := Parse([]byte(defaultScenario))
	if err != nil {
		panic("scenario: built-in scenario invalid: " + err.Error())
	}
	return s
}
