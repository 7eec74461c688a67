package searcher

import (
	"time"
)

// SearchMetric describes a single call to Search.
type SearchMetric struct {
	StartTime  time.Time
	Duration   time.Duration
	Iterations int
	TreeReused bool
	TreeSize   int // Nodes kept after the search
	RootVisits int
}

type Collector interface {
	Start()
	SetTreeReused(value bool)
	AddIteration()
	Complete(treeSize, rootVisits int) SearchMetric
}

type collector struct {
	startTime  time.Time
	iterations int
	treeReused bool
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start() {
	m.startTime = time.Now()
	m.iterations = 0
	m.treeReused = false
}

func (m *collector) SetTreeReused(value bool) {
	m.treeReused = value
}

func (m *collector) AddIteration() {
	m.iterations++
}

func (m *collector) Complete(treeSize, rootVisits int) SearchMetric {
	return SearchMetric{
		StartTime:  m.startTime,
		Duration:   time.Since(m.startTime),
		Iterations: m.iterations,
		TreeReused: m.treeReused,
		TreeSize:   treeSize,
		RootVisits: rootVisits,
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start()                                         {}
func (m *dummyCollector) SetTreeReused(value bool)                       {}
func (m *dummyCollector) AddIteration()                                  {}
func (m *dummyCollector) Complete(treeSize, rootVisits int) SearchMetric { return SearchMetric{} }
