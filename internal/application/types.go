package application

import "github.com/CarloDePieri/pass2keepass2/internal/domain"

// Re-export domain types for use by adapters
type (
	Record = domain.Record
	Group  = domain.Group
	Entry  = domain.Entry
)

// Progress reports how many units of work are complete
type Progress struct {
	Done  int
	Total int
}

// Percent returns the completion percentage, rounded down
func (p Progress) Percent() int {
	if p.Total <= 0 {
		return 100
	}
	return 100 * p.Done / p.Total
}

// Fraction returns the completion ratio in [0, 1]
func (p Progress) Fraction() float64 {
	if p.Total <= 0 {
		return 1
	}
	return float64(p.Done) / float64(p.Total)
}

// ProgressFunc is called synchronously after each unit of work
type ProgressFunc func(Progress)

// Notify calls fn when it is set
func (fn ProgressFunc) Notify(done, total int) {
	if fn != nil {
		fn(Progress{Done: done, Total: total})
	}
}
