package metrics

import (
	"sync/atomic"
	"time"
)

// SearchMetric summarizes one agent search call.
type SearchMetric struct {
	Duration     time.Duration
	Simulations  int
	FullPlayouts int // rollouts that reached a terminal state
	RolloutDepth int
}

// MoveMetric records one applied move of a game.
type MoveMetric struct {
	Ply    int
	Player string
	SearchMetric
}

// GameMetric records one finished game.
type GameMetric struct {
	White     string
	Black     string
	Result    float64 // +1 White win, -1 Black win, 0 draw
	Plies     int
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// Collector gathers statistics during a search. The dummy collector
// makes collection free when metrics are not wanted.
type Collector interface {
	Start(rolloutDepth int)
	AddSimulation()
	AddFullPlayout()
	Complete() SearchMetric
}

type collector struct {
	rolloutDepth int
	startTime    time.Time
	simulations  atomic.Int32
	fullPlayouts atomic.Int32
}

func NewCollector() Collector {
	return &collector{}
}

func (c *collector) Start(rolloutDepth int) {
	c.startTime = time.Now()
	c.rolloutDepth = rolloutDepth
	c.simulations.Store(0)
	c.fullPlayouts.Store(0)
}

func (c *collector) AddSimulation() {
	c.simulations.Add(1)
}

func (c *collector) AddFullPlayout() {
	c.fullPlayouts.Add(1)
}

func (c *collector) Complete() SearchMetric {
	return SearchMetric{
		Duration:     time.Since(c.startTime),
		Simulations:  int(c.simulations.Load()),
		FullPlayouts: int(c.fullPlayouts.Load()),
		RolloutDepth: c.rolloutDepth,
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (dummyCollector) Start(rolloutDepth int) {}
func (dummyCollector) AddSimulation()         {}
func (dummyCollector) AddFullPlayout()        {}
func (dummyCollector) Complete() SearchMetric { return SearchMetric{} }
