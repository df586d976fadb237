package coordinator

import (
	"math"
	"time"
)

const (
	// Expected engine throughput, records per second, used only to size the budget.
	reducedProfileThroughput = 500
	fullProfileThroughput    = 1000

	baseAllowance          = 2 * time.Second
	minProcessingAllowance = time.Second

	// Assumed throughput, records per second, when estimating the output of an abandoned run.
	FallbackThroughput = 500
)

// ExpectedThroughput is the rate assumed when sizing the budget. Multipliers below one indicate
// the reduced CI profile, which is assumed to run on slower machines.
func ExpectedThroughput(multiplier float64) float64 {
	if multiplier < 1.0 {
		return reducedProfileThroughput
	}
	return fullProfileThroughput
}

// Budget is the time a run of recordCount records is allowed before it is asked to stop:
// (2s + max(recordCount / expected throughput, 1s)) * multiplier.
func Budget(recordCount int, multiplier float64) time.Duration {
	processing := time.Duration(float64(recordCount) / ExpectedThroughput(multiplier) * float64(time.Second))
	if processing < minProcessingAllowance {
		processing = minProcessingAllowance
	}
	return time.Duration(float64(baseAllowance+processing) * multiplier)
}

// FallbackRecords estimates how many records an abandoned run got through in elapsed,
// never claiming more than were offered.
func FallbackRecords(recordCount int, elapsed time.Duration) int64 {
	if recordCount <= 0 || elapsed <= 0 {
		return 0
	}
	estimate := int64(math.Floor(elapsed.Seconds() * FallbackThroughput))
	if estimate > int64(recordCount) {
		return int64(recordCount)
	}
	return estimate
}
