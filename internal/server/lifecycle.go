// Package server runs the long-lived parts of the rules daemon (the gRPC
// listener, database health probes) and stops them in reverse order on
// SIGINT, SIGTERM, context cancellation, or the first service failure.
package server

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"slices"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Service is a long-running component. Start blocks until the service stops
// or fails; Stop must make a blocked Start return.
type Service interface {
	Start() error
	Stop()
}

// FuncService is a Service built from two closures.
type FuncService struct {
	StartFn func() error
	StopFn  func()
}

func (f *FuncService) Start() error { return f.StartFn() }
func (f *FuncService) Stop()        { f.StopFn() }

// Periodic calls fn every interval until stopped. fn receives a context that
// is cancelled by Stop.
type Periodic struct {
	interval time.Duration
	fn       func(ctx context.Context)
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewPeriodic returns a Periodic service.
//
// Precondition: interval > 0; fn must be non-nil.
func NewPeriodic(interval time.Duration, fn func(ctx context.Context)) *Periodic {
	if interval <= 0 {
		panic("server.NewPeriodic: precondition violated: interval must be positive")
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Periodic{interval: interval, fn: fn, ctx: ctx, cancel: cancel}
}

// Start ticks until Stop is called.
func (p *Periodic) Start() error {
	t := time.NewTicker(p.interval)
	defer t.Stop()
	for {
		select {
		case <-p.ctx.Done():
			return nil
		case <-t.C:
			p.fn(p.ctx)
		}
	}
}

// Stop ends the ticker loop. Safe to call more than once.
func (p *Periodic) Stop() { p.cancel() }

// Lifecycle runs a set of named services together and stops them in reverse
// registration order.
type Lifecycle struct {
	logger *zap.Logger

	mu       sync.Mutex
	services []namedService
}

type namedService struct {
	name    string
	service Service
}

// errServicesExited cancels a run whose services all returned on their own.
var errServicesExited = errors.New("all services exited")

// NewLifecycle returns an empty Lifecycle logging to logger.
func NewLifecycle(logger *zap.Logger) *Lifecycle {
	return &Lifecycle{logger: logger}
}

// Add registers svc under name. Services added after Run begins are ignored
// by that run.
func (l *Lifecycle) Add(name string, svc Service) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.services = append(l.services, namedService{name: name, service: svc})
}

// Run starts every registered service and blocks until SIGINT, SIGTERM, ctx
// cancellation, or the first service failure. Every service has been stopped
// and has returned from Start when Run returns.
//
// Postcondition: the error is the first service failure, or nil.
func (l *Lifecycle) Run(ctx context.Context) error {
	began := time.Now()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	l.mu.Lock()
	services := slices.Clone(l.services)
	l.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	var running sync.WaitGroup
	for _, ns := range services {
		running.Add(1)
		g.Go(func() error {
			defer running.Done()
			l.logger.Info("service starting", zap.String("service", ns.name))
			if err := ns.service.Start(); err != nil {
				l.logger.Error("service failed", zap.String("service", ns.name), zap.Error(err))
				return fmt.Errorf("service %s: %w", ns.name, err)
			}
			return nil
		})
	}
	go func() {
		running.Wait()
		cancel(errServicesExited)
	}()
	g.Go(func() error {
		<-gctx.Done()
		l.logger.Info("shutting down", zap.NamedError("cause", context.Cause(gctx)))
		l.stopAll(services)
		return nil
	})

	err := g.Wait()
	l.logger.Info("lifecycle finished", zap.Duration("uptime", time.Since(began)), zap.Error(err))
	return err
}

// stopAll stops services last-registered first.
func (l *Lifecycle) stopAll(services []namedService) {
	for _, ns := range slices.Backward(services) {
		t0 := time.Now()
		ns.service.Stop()
		l.logger.Info("service stopped",
			zap.String("service", ns.name),
			zap.Duration("elapsed", time.Since(t0)),
		)
	}
}
