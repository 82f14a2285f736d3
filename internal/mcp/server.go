package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/eytandecker/tiltrotor-mcp/internal/state"
	"github.com/eytandecker/tiltrotor-mcp/internal/tilt"
	"github.com/eytandecker/tiltrotor-mcp/pkg/types"
)

// SnapshotGetter is the subset of state.Manager used by the MCP server.
type SnapshotGetter interface {
	Snapshot() (state.Snapshot, error)
}

// Server wraps the MCP SDK server and exposes the tilt controller as tools.
type Server struct {
	sdk   *mcpsdk.Server
	state SnapshotGetter
	tilt  tilt.Config
	frame string
}

// NewServer creates a Server and registers the get_tilt_state and
// get_tilt_config tools. cfg and frame are reported as-is.
func NewServer(sg SnapshotGetter, cfg tilt.Config, frame string) *Server {
	s := &Server{
		sdk: mcpsdk.NewServer(&mcpsdk.Implementation{
			Name:    "tiltrotor-mcp",
			Version: "1.0.0",
		}, nil),
		state: sg,
		tilt:  cfg,
		frame: frame,
	}

	mcpsdk.AddTool(s.sdk, &mcpsdk.Tool{
		Name:        "get_tilt_state",
		Description: "Returns the latest tilt-rotor control tick: flight context, tilt and throttle state, servo outputs, forward thrust and per-motor thrust.",
	}, s.handleGetTiltState)
	mcpsdk.AddTool(s.sdk, &mcpsdk.Tool{
		Name:        "get_tilt_config",
		Description: "Returns the active tilt-rotor configuration.",
	}, s.handleGetTiltConfig)
	return s
}

// Run starts the MCP server over stdio and blocks until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	return s.sdk.Run(ctx, &mcpsdk.StdioTransport{})
}

// Connect connects the server to an existing transport (used in tests).
func (s *Server) Connect(ctx context.Context, t mcpsdk.Transport) (*mcpsdk.ServerSession, error) {
	return s.sdk.Connect(ctx, t, nil)
}

// getTiltStateInput holds arguments for the get_tilt_state tool.
type getTiltStateInput struct {
	IncludeMotors bool `json:"include_motors,omitempty"`
}

// TiltStateResponse is the JSON payload returned on success.
type TiltStateResponse struct {
	Session         string    `json:"session"`
	Restarts        int       `json:"restarts"`
	Tick            uint64    `json:"tick"`
	AgeMS           float64   `json:"age_ms"`
	Mode            string    `json:"mode"`
	InVTOLMode      bool      `json:"in_vtol_mode"`
	Armed           bool      `json:"armed"`
	Transition      string    `json:"transition"`
	Phase           string    `json:"phase"`
	CurrentTilt     float64   `json:"current_tilt"`
	TiltDeg         float64   `json:"tilt_deg"`
	CurrentThrottle float64   `json:"current_throttle"`
	MotorsActive    bool      `json:"motors_active"`
	TiltServo       float64   `json:"tilt_servo"`
	LeftServo       float64   `json:"tilt_servo_left"`
	RightServo      float64   `json:"tilt_servo_right"`
	ForwardThrottle float64   `json:"forward_throttle"`
	ForwardMotors   []int     `json:"forward_motors"`
	RequestedMode   string    `json:"requested_mode,omitempty"`
	MotorThrust     []float64 `json:"motor_thrust,omitempty"`
	Timestamp       string    `json:"timestamp"`
}

// TiltConfigResponse describes the controller configuration.
type TiltConfigResponse struct {
	Enabled          bool    `json:"enabled"`
	Type             string  `json:"type"`
	TiltMotors       []int   `json:"tilt_motors"`
	MaxRateUpDPS     float64 `json:"max_rate_up_dps"`
	MaxRateDownDPS   float64 `json:"max_rate_down_dps"`
	MaxAngleDeg      float64 `json:"max_angle_deg"`
	YawAngleDeg      float64 `json:"yaw_angle_deg"`
	ManualSwitch     bool    `json:"manual_switch"`
	ManualSwitchHigh uint16  `json:"manual_switch_high_pwm"`
	ManualSwitchLow  uint16  `json:"manual_switch_low_pwm"`
	Frame            string  `json:"frame"`
	Timestamp        string  `json:"timestamp"`
}

// UnavailableResponse is returned when telemetry cannot be provided.
type UnavailableResponse struct {
	Available   bool   `json:"available"`
	Error       string `json:"error"`
	Code        string `json:"code"`
	Recoverable bool   `json:"recoverable"`
	Suggestion  string `json:"suggestion"`
	Timestamp   string `json:"timestamp"`
}

func (s *Server) handleGetTiltState(
	ctx context.Context,
	req *mcpsdk.CallToolRequest,
	input getTiltStateInput,
) (*mcpsdk.CallToolResult, any, error) {
	snap, err := s.state.Snapshot()
	if err != nil {
		return s.errorResult(err), nil, nil
	}
	t := snap.Telemetry

	resp := TiltStateResponse{
		Session:         t.Session,
		Restarts:        snap.Restarts,
		AgeMS:           float64(snap.Age) / float64(time.Millisecond),
		Tick:            t.Tick,
		Mode:            t.Mode.String(),
		InVTOLMode:      t.InVTOLMode,
		Armed:           t.Armed,
		Transition:      t.Transition.String(),
		Phase:           t.Phase,
		CurrentTilt:     t.CurrentTilt,
		TiltDeg:         t.CurrentTilt * 90,
		CurrentThrottle: t.CurrentThrottle,
		MotorsActive:    t.MotorsActive,
		TiltServo:       t.TiltServo,
		LeftServo:       t.LeftServo,
		RightServo:      t.RightServo,
		ForwardThrottle: t.ForwardThrottle,
		ForwardMotors:   motorList(t.ForwardMask),
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
	}
	if t.RequestedMode != types.ModeNone {
		resp.RequestedMode = t.RequestedMode.String()
	}
	if input.IncludeMotors {
		resp.MotorThrust = t.MotorThrust
	}
	return textResult(resp)
}

func (s *Server) handleGetTiltConfig(
	ctx context.Context,
	req *mcpsdk.CallToolRequest,
	_ struct{},
) (*mcpsdk.CallToolResult, any, error) {
	return textResult(TiltConfigResponse{
		Enabled:          !s.tilt.Mask.Empty(),
		Type:             s.tilt.Type.String(),
		TiltMotors:       motorList(s.tilt.Mask),
		MaxRateUpDPS:     s.tilt.MaxRateUpDPS,
		MaxRateDownDPS:   s.tilt.MaxRateDownDPS,
		MaxAngleDeg:      s.tilt.MaxAngleDeg,
		YawAngleDeg:      s.tilt.YawAngleDeg,
		ManualSwitch:     s.tilt.ManualSwitch.Enabled,
		ManualSwitchHigh: s.tilt.ManualSwitch.HighPWM,
		ManualSwitchLow:  s.tilt.ManualSwitch.LowPWM,
		Frame:            s.frame,
		Timestamp:        time.Now().UTC().Format(time.RFC3339),
	})
}

func motorList(m types.MotorMask) []int {
	motors := []int{}
	for i := range m.All() {
		motors = append(motors, i)
	}
	return motors
}

func textResult(v any) (*mcpsdk.CallToolResult, any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, nil, err
	}
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: string(data)}},
	}, nil, nil
}

func (s *Server) errorResult(err error) *mcpsdk.CallToolResult {
	resp := UnavailableResponse{
		Available: false,
		Error:     err.Error(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	switch {
	case errors.Is(err, state.ErrStale):
		resp.Code = "DATA_STALE"
		resp.Recoverable = true
		resp.Suggestion = "Wait for the control loop to publish a fresh tick."
	case errors.Is(err, state.ErrLinkDown):
		resp.Code = "LINK_NOT_CONNECTED"
		resp.Recoverable = true
		resp.Suggestion = "Check that the CAN interface is up and the flight controller is powered."
	default:
		resp.Code = "UNKNOWN_ERROR"
		resp.Recoverable = false
		resp.Suggestion = "Check application logs for details."
	}

	data, _ := json.Marshal(resp)
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: string(data)}},
		IsError: true,
	}
}
