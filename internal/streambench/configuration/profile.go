package configuration

const (
	ciEnvVar            = "CI"
	githubActionsEnvVar = "GITHUB_ACTIONS"
)

var (
	// ReducedProfile keeps runs short on shared CI machines.
	ReducedProfile = BatchConfig{RecordCount: 1000, BatchSize: 50, TimeoutMultiplier: 0.5}
	FullProfile    = BatchConfig{RecordCount: 2000, BatchSize: 100, TimeoutMultiplier: 2.0}
)

// Environment records what the harness learned about where it is running.
type Environment struct {
	CI            bool
	GitHubActions bool
}

// DetectEnvironment treats a variable as set whenever it is present, whatever its value.
func DetectEnvironment(lookup func(string) (string, bool)) Environment {
	_, ci := lookup(ciEnvVar)
	_, gha := lookup(githubActionsEnvVar)
	return Environment{CI: ci, GitHubActions: gha}
}

func (e Environment) Reduced() bool {
	return e.CI || e.GitHubActions
}

func (e Environment) Profile() BatchConfig {
	if e.Reduced() {
		return ReducedProfile
	}
	return FullProfile
}

// ResolveProfile returns the configured profile override if present, and the environment's otherwise.
func (c TestConfig) ResolveProfile(env Environment) BatchConfig {
	if c.Profile != nil {
		return *c.Profile
	}
	return env.Profile()
}
