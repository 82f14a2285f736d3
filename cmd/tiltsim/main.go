package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eytandecker/tiltrotor-mcp/internal/canbus"
	"github.com/eytandecker/tiltrotor-mcp/internal/config"
	"github.com/eytandecker/tiltrotor-mcp/internal/loop"
	internalmcp "github.com/eytandecker/tiltrotor-mcp/internal/mcp"
	"github.com/eytandecker/tiltrotor-mcp/internal/mixer"
	"github.com/eytandecker/tiltrotor-mcp/internal/scenario"
	"github.com/eytandecker/tiltrotor-mcp/internal/state"
	"github.com/eytandecker/tiltrotor-mcp/internal/tilt"
)

func main() {
	if err := run(); err != nil {
		log.Printf("MCP server exited: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	for _, w := range cfg.Warnings {
		log.Printf("config: %v (using default)", w)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	frame, _ := mixer.ParseFrame(cfg.Frame)
	ctrl := tilt.New(cfg.Tilt)
	mix := mixer.New(frame)
	if !ctrl.Enabled() {
		log.Printf("tilt: no tilt motors configured, controller inactive")
	}

	mgr := state.NewManager(cfg.Loop.StaleThreshold)
	mcpServer := internalmcp.NewServer(mgr, ctrl.Config(), mix.Frame().Name)

	if cfg.CAN.Interface != "" {
		go runBusLoop(ctx, cfg, ctrl, mix, mgr)
	} else {
		go runScenario(ctx, cfg, ctrl, mix, mgr)
	}

	if err := mcpServer.Run(ctx); !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// runScenario plays a scripted flight through the controller once.
func runScenario(ctx context.Context, cfg config.Config, ctrl *tilt.Controller, mix *mixer.Mixer, mgr *state.Manager) {
	sc := scenario.Default()
	if cfg.Scenario.Path != "" {
		var err error
		if sc, err = scenario.Load(cfg.Scenario.Path); err != nil {
			log.Printf("scenario: %v", err)
			return
		}
	}
	log.Printf("scenario: playing %q (%.1fs)", sc.Meta.Name, sc.Duration())

	every := uint64(time.Second / cfg.Loop.Interval)
	runner := loop.NewRunner(ctrl, mix, scenario.NewPlayer(sc), loop.LogSink{Every: every}, mgr,
		loop.Config{Interval: cfg.Loop.Interval})
	if err := runner.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("scenario: %v", err)
		return
	}
	log.Printf("scenario: complete")
}

// runBusLoop connects to the CAN interface and runs the control loop,
// retrying with exponential backoff (1s → 30s cap) on failure.
func runBusLoop(ctx context.Context, cfg config.Config, ctrl *tilt.Controller, mix *mixer.Mixer, mgr *state.Manager) {
	backoff := time.Second
	const maxBackoff = 30 * time.Second

	for {
		if err := ctx.Err(); err != nil {
			return
		}

		if err := runBus(ctx, cfg, ctrl, mix, mgr); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			mgr.SetLinkError(err)
			log.Printf("canbus: disconnected: %v (retrying in %s)", err, backoff)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}

// runBus opens the interface, listens for flight context and runs the
// control loop. Returns when the connection is lost or ctx is done.
func runBus(ctx context.Context, cfg config.Config, ctrl *tilt.Controller, mix *mixer.Mixer, mgr *state.Manager) error {
	client := canbus.NewClient(canbus.Config{
		Interface:    cfg.CAN.Interface,
		WriteTimeout: cfg.CAN.WriteTimeout,
	})
	if err := client.Connect(ctx); err != nil {
		return err
	}
	defer client.Close()
	mgr.SetLinkError(nil)
	log.Printf("canbus: connected to %s", cfg.CAN.Interface)

	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	bus := canbus.NewBus(client, cfg.CAN.ContextTimeout)
	listenErr := make(chan error, 1)
	go func() {
		listenErr <- bus.Listen(loopCtx)
		cancel()
	}()

	runner := loop.NewRunner(ctrl, mix, bus, bus, mgr, loop.Config{Interval: cfg.Loop.Interval})
	runErr := runner.Start(loopCtx)
	cancel()
	lErr := <-listenErr

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	if lErr != nil && !errors.Is(lErr, context.Canceled) {
		return lErr
	}
	return ctx.Err()
}
