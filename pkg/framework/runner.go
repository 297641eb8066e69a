package framework

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/golang/glog"
)

type namedRunnable struct {
	Runnable
	name string
}

func (r *namedRunnable) Name() string {
	return r.name
}

// NamedRun wraps a Runnable with a name for logging.
func NamedRun(name string, runnable Runnable) Runnable {
	return &namedRunnable{name: name, Runnable: runnable}
}

// Runner runs Runnables in goroutines sharing one context. The first
// Runnable to stop cancels the others, as the parts of a link program
// are useless without each other.
type Runner struct {
	Context context.Context

	cancel func()
	count  int
	errCh  chan error
	exitCh chan struct{}
}

// NewRunner creates a runner with a background context.
func NewRunner() *Runner {
	return NewRunnerWith(context.Background())
}

// NewRunnerWith creates a runner with a parent context.
func NewRunnerWith(ctx context.Context) *Runner {
	r := &Runner{
		errCh:  make(chan error, 1),
		exitCh: make(chan struct{}),
	}
	r.Context, r.cancel = context.WithCancel(ctx)
	return r
}

// HandleSignals cancels on CtrlC and SIGTERM, forces exit on the second.
func (r *Runner) HandleSignals() *Runner {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		glog.Info("stop requested")
		r.cancel()
		<-sigCh
		glog.Error("stop requested again, force exit")
		close(r.exitCh)
	}()
	return r
}

// Go spawns Runnables.
func (r *Runner) Go(runners ...Runnable) *Runner {
	for _, runner := range runners {
		name := strconv.Itoa(r.count)
		if named, ok := runner.(Named); ok {
			name = named.Name()
		}
		r.count++
		glog.V(4).Infof("start Runner[%s]", name)
		go func(runner Runnable, name string) {
			err := runner.Run(r.Context)
			glog.V(4).Infof("Runner[%s] stopped: %v", name, err)
			r.cancel()
			if err != nil {
				err = &RunnerError{Name: name, Err: err}
			}
			r.errCh <- err
		}(runner, name)
	}
	return r
}

// Stop cancels all Runnables.
func (r *Runner) Stop() {
	r.cancel()
}

// Wait waits until all Runnables stop and aggregates errors.
// Cancellation is not an error.
func (r *Runner) Wait() error {
	var errs AggregatedError
	for ; r.count > 0; r.count-- {
		select {
		case <-r.exitCh:
			return errors.New("forced exit")
		case err := <-r.errCh:
			errs.Add(err)
		}
	}
	return errs.Aggregate()
}
