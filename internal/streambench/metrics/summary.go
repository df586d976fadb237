package metrics

import (
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const rule = "================================================================="

// PrintSummary writes a human-readable report of one run to w.
func PrintSummary(w io.Writer, title string, m RunMetrics) {
	p := message.NewPrinter(language.English)
	p.Fprintln(w, rule)
	p.Fprintln(w, title)
	p.Fprintln(w, rule)
	p.Fprintf(w, "Records processed:   %d\n", m.RecordsProcessed)
	p.Fprintf(w, "Total duration:      %s\n", m.TotalDuration)
	p.Fprintf(w, "Throughput:          %.2f records/sec\n", m.ThroughputRecordsPerSec)
	p.Fprintf(w, "Latency p50:         %.2f ms\n", m.P50LatencyMs)
	p.Fprintf(w, "Latency p95:         %.2f ms\n", m.P95LatencyMs)
	p.Fprintf(w, "Latency p99:         %.2f ms\n", m.P99LatencyMs)
	if m.MeasuredSamples > 0 {
		p.Fprintf(w, "Measured execution:  p50 %s, p95 %s, p99 %s, max %s over %d records\n",
			m.MeasuredP50, m.MeasuredP95, m.MeasuredP99, m.MeasuredMax, m.MeasuredSamples)
	}
	p.Fprintf(w, "Memory used:         %.2f MB\n", m.MemoryUsedMB)
	p.Fprintf(w, "CPU usage:           %.2f%%\n", m.CPUUsagePercent)
	if m.TimedOut {
		p.Fprintln(w, "Timed out:           yes, records processed is an estimate")
	}
	p.Fprintln(w, rule)
}

// PrintResult writes the summary of every report in result to w.
func PrintResult(w io.Writer, result TestResult) {
	p := message.NewPrinter(language.English)
	for _, r := range result.Results {
		title := r.Name
		if r.Variant != "" {
			title += " (" + r.Variant + ")"
		}
		PrintSummary(w, title, r.Metrics)
		line := "Status: " + string(r.Status)
		if r.Detail != "" {
			line += ": " + r.Detail
		}
		p.Fprintln(w, line)
		p.Fprintln(w)
	}
}
