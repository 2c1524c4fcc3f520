package internal

import "time"

// Stopwatch measures how long each phase of a sequential pipeline takes.
// Phase closes the running phase and starts the named one. Re-entering a
// phase accumulates its elapsed time. Not goroutine safe; each pipeline
// owns its stopwatch.
type Stopwatch struct {
	name string
	from time.Time
	laps map[string]float64
}

func NewStopwatch() *Stopwatch {
	return &Stopwatch{laps: map[string]float64{}}
}

func (x *Stopwatch) Phase(name string) {
	now := time.Now()
	if x.name != "" {
		x.laps[x.name] += now.Sub(x.from).Seconds()
	}
	x.name = name
	x.from = now
}

// Laps closes the running phase and returns elapsed seconds by phase.
func (x *Stopwatch) Laps() map[string]float64 {
	x.Phase("")
	return x.laps
}
