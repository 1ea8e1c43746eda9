package supervisor

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"
)

type TreeConfig struct {
	FailureThreshold float64
	FailureDecay     float64
	FailureBackoff   time.Duration
	ShutdownTimeout  time.Duration
}

func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		FailureThreshold: 5,
		FailureDecay:     30,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

// Tree splits background work into a realtime layer (websocket hub) and a
// jobs layer (schedulers) so a crashing job cannot restart the hub.
type Tree struct {
	root     *suture.Supervisor
	realtime *suture.Supervisor
	jobs     *suture.Supervisor
}

func NewTree(logger zerolog.Logger, cfg TreeConfig) *Tree {
	def := DefaultTreeConfig()
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}
	if cfg.FailureDecay == 0 {
		cfg.FailureDecay = def.FailureDecay
	}
	if cfg.FailureBackoff == 0 {
		cfg.FailureBackoff = def.FailureBackoff
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = def.ShutdownTimeout
	}

	spec := suture.Spec{
		FailureThreshold: cfg.FailureThreshold,
		FailureDecay:     cfg.FailureDecay,
		FailureBackoff:   cfg.FailureBackoff,
		Timeout:          cfg.ShutdownTimeout,
	}
	rootSpec := spec
	rootSpec.EventHook = EventHook(logger)

	root := suture.New("hackmap", rootSpec)
	realtime := suture.New("realtime", spec)
	jobs := suture.New("jobs", spec)
	root.Add(realtime)
	root.Add(jobs)

	return &Tree{root: root, realtime: realtime, jobs: jobs}
}

func (t *Tree) AddRealtime(svc suture.Service) suture.ServiceToken {
	return t.realtime.Add(svc)
}

func (t *Tree) AddJob(svc suture.Service) suture.ServiceToken {
	return t.jobs.Add(svc)
}

func (t *Tree) ServeBackground(ctx context.Context) <-chan error {
	return t.root.ServeBackground(ctx)
}

// EventHook logs supervisor events through zerolog.
func EventHook(logger zerolog.Logger) suture.EventHook {
	logger = logger.With().Str("component", "supervisor").Logger()
	return func(e suture.Event) {
		var ev *zerolog.Event
		switch e.Type() {
		case suture.EventTypeServicePanic, suture.EventTypeServiceTerminate:
			ev = logger.Error()
		case suture.EventTypeBackoff, suture.EventTypeStopTimeout:
			ev = logger.Warn()
		default:
			ev = logger.Info()
		}
		ev.Fields(e.Map()).Msg(e.String())
	}
}
