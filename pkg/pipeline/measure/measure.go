package measure

import (
	"sort"
	"sync"
	"time"
)

type DefaultMeasure struct {
	mu    sync.Mutex
	Steps map[string]Metric
}

func NewDefaultMeasure() *DefaultMeasure {
	return &DefaultMeasure{
		Steps: make(map[string]Metric),
	}
}

func (m *DefaultMeasure) AddMetric(name string, concurrent int) Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	if concurrent < 1 {
		concurrent = 1
	}
	mt := &DefaultMetric{
		mu:            &sync.Mutex{},
		allTransports: make(map[string]*TransportInfo),
		concurrent:    concurrent,
	}
	m.Steps[name] = mt

	return mt
}

func (m *DefaultMeasure) GetMetric(name string) Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.Steps[name]
}

func (m *DefaultMeasure) AllMetrics() map[string]Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	all := make(map[string]Metric, len(m.Steps))
	for name, mt := range m.Steps {
		all[name] = mt
	}

	return all
}

// StepTiming is a flattened view of a step metric.
type StepTiming struct {
	Step        string
	Count       int64
	AVGDuration time.Duration
	Total       time.Duration
}

// Timings returns the timings of every step that processed at least one element, sorted by name.
func (m *DefaultMeasure) Timings() []StepTiming {
	var timings []StepTiming
	for name, mt := range m.AllMetrics() {
		if mt.Count() == 0 {
			continue
		}
		timings = append(timings, StepTiming{
			Step:        name,
			Count:       mt.Count(),
			AVGDuration: mt.AVGDuration(),
			Total:       mt.GetTotalDuration(),
		})
	}
	sort.Slice(timings, func(i, j int) bool {
		return timings[i].Step < timings[j].Step
	})

	return timings
}

var _ Measure = (*DefaultMeasure)(nil)
