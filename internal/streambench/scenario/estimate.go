package scenario

import (
	"io"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/armadaproject/streambench/internal/streambench/configuration"
	"github.com/armadaproject/streambench/internal/streambench/coordinator"
)

// Estimation is what running one plan would cost, worked out without running it.
type Estimation struct {
	Scenario    string
	Variant     string
	RecordCount int
	BatchSize   int
	Batches     int
	Budget      time.Duration
	// Budget plus the join timeout. No run lasts longer than this.
	WorstCase time.Duration
}

func Estimate(
	scenarios []Scenario,
	profile configuration.BatchConfig,
	env configuration.Environment,
	joinTimeout time.Duration,
) []Estimation {
	var estimations []Estimation
	for _, s := range scenarios {
		for _, plan := range s.Plans(profile, env) {
			budget := coordinator.Budget(plan.Spec.RecordCount, plan.Spec.TimeoutMultiplier)
			batches := 0
			if plan.Spec.BatchSize > 0 {
				batches = (plan.Spec.RecordCount + plan.Spec.BatchSize - 1) / plan.Spec.BatchSize
			}
			estimations = append(estimations, Estimation{
				Scenario:    s.Name,
				Variant:     plan.Variant,
				RecordCount: plan.Spec.RecordCount,
				BatchSize:   plan.Spec.BatchSize,
				Batches:     batches,
				Budget:      budget,
				WorstCase:   budget + joinTimeout,
			})
		}
	}
	return estimations
}

// TotalWorstCase is the longest the estimated runs can take back to back.
func TotalWorstCase(estimations []Estimation) time.Duration {
	var total time.Duration
	for _, e := range estimations {
		total += e.WorstCase
	}
	return total
}

func PrintEstimates(w io.Writer, estimations []Estimation) {
	p := message.NewPrinter(language.English)
	p.Fprintln(w, "=================================================================")
	p.Fprintln(w, "Streambench Estimation")
	p.Fprintln(w, "=================================================================")
	for _, e := range estimations {
		name := e.Scenario
		if e.Variant != "" {
			name += " (" + e.Variant + ")"
		}
		p.Fprintf(w, "%-36s %8d records %6d batches  budget %-8s worst case %s\n",
			name, e.RecordCount, e.Batches, e.Budget, e.WorstCase)
	}
	p.Fprintln(w, "=================================================================")
	p.Fprintf(w, "Worst case total:      %s\n", TotalWorstCase(estimations))
}
