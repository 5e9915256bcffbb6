package dispatch

import "time"

// StatusSummary represents lightweight dispatcher diagnostics.
type StatusSummary struct {
	Running    bool
	State      State
	LastTick   time.Time
	Dispatched int64
	Failed     int64
	LastError  string
}

// Status returns the latest dispatcher information.
func (d *Dispatcher) Status() StatusSummary {
	d.mu.RLock()
	defer d.mu.RUnlock()

	summary := StatusSummary{
		Running:    d.running,
		State:      d.state,
		LastTick:   d.lastTick,
		Dispatched: d.dispatched,
		Failed:     d.failed,
	}
	if d.lastErr != nil {
		summary.LastError = d.lastErr.Error()
	}
	return summary
}

func (d *Dispatcher) setState(state State) {
	d.mu.Lock()
	d.state = state
	d.mu.Unlock()
}

func (d *Dispatcher) setLastTick(at time.Time) {
	d.mu.Lock()
	d.lastTick = at
	d.mu.Unlock()
}

func (d *Dispatcher) setLastError(err error) {
	d.mu.Lock()
	d.lastErr = err
	d.mu.Unlock()
}

func (d *Dispatcher) recordDispatch() {
	d.mu.Lock()
	d.dispatched++
	d.mu.Unlock()
}

func (d *Dispatcher) recordFailure(err error) {
	d.mu.Lock()
	d.failed++
	d.lastErr = err
	d.mu.Unlock()
}
