/*
Package configuration defines the input configuration for the streambench harness.

The harness runs a fixed catalogue of benchmark scenarios against a streaming query engine. Every
scenario derives its record count and batch size from a BatchConfig, which is picked once at
startup from the environment:

  - If CI or GITHUB_ACTIONS is set, the reduced profile is used:
    1000 records, batches of 50, timeout multiplier 0.5.
  - Otherwise the full profile is used: 2000 records, batches of 100, timeout multiplier 2.0.

A configuration file may override the profile and tune the harness itself.

# Example YAML Configuration

	profile:
	  recordCount: 5000
	  batchSize: 250
	  timeoutMultiplier: 1.5
	joinTimeout: 3s
	stallBackoff: 10ms
	maxGroups: 10000
	resultsDir: results
	metricsPort: 9090
	scenarios:
	  - simple_select
	  - window_functions
	customRuns:
	  - name: wide_batches
	    query: aggregation
	    recordCount: 20000
	    batchSize: 2000
	    minThroughput: 300
	logging:
	  level: info
	  format: text

# Validation

TestConfig.Validate() checks struct tags with go-playground/validator and then performs the
cross-field checks, returning every problem found rather than the first.
*/
package configuration
