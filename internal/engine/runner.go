package engine

import (
	"log/slog"
	"time"
)

// Start launches the timer loop that steps one day per interval.
// Returns false if the loop was already running.
func (e *Engine) Start() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running || e.finishedLocked() {
		return false
	}
	e.running = true
	e.stopCh = make(chan struct{})
	go e.run(e.stopCh)
	slog.Info("simulation started", "interval", e.interval)
	return true
}

// Stop halts the timer loop. Safe to call when not running.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
}

func (e *Engine) stopLocked() {
	if !e.running {
		return
	}
	e.running = false
	close(e.stopCh)
	slog.Info("simulation stopped", "day", e.gs.Day)
}

// Running reports whether the timer loop is driving the simulation.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// SetSpeed changes the per-day interval for the timer loop.
func (e *Engine) SetSpeed(interval time.Duration) {
	if interval < 10*time.Millisecond {
		interval = 10 * time.Millisecond
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.interval = interval
}

func (e *Engine) currentInterval() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.interval
}

// run is the timer loop. It re-arms the timer each step so speed
// changes take effect on the next day.
func (e *Engine) run(stop <-chan struct{}) {
	timer := time.NewTimer(e.currentInterval())
	defer timer.Stop()

	for {
		select {
		case <-stop:
			return
		case <-timer.C:
			e.Step()
			if e.Finished() {
				e.mu.Lock()
				e.stopLocked()
				e.mu.Unlock()
				return
			}
			timer.Reset(e.currentInterval())
		}
	}
}
