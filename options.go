package archecs

// Option configures an ECS at construction time, following the functional
// options idiom used across the wider example pack's larger services for
// process-wide configuration, generalized from the teacher's single
// `NewWorld(initialCapacity int)` constructor argument (§2.1, "Configuration").
type Option func(*config)

type config struct {
	debugMode        bool
	profilingMode    bool
	initialEntityCap int
}

func defaultConfig() config {
	return config{
		debugMode:        false,
		profilingMode:    false,
		initialEntityCap: 256,
	}
}

// WithDebugMode enables DEBUG_MODE: argument-validation failures panic with
// a typed *Error instead of failing silently, per §7.1.
func WithDebugMode(enabled bool) Option {
	return func(c *config) { c.debugMode = enabled }
}

// WithProfilingMode enables PROFILING_MODE, read once at construction and
// consulted by profile/entities (via ECS.ProfilingEnabled) to decide whether
// to wrap the run in a github.com/pkg/profile session.
func WithProfilingMode(enabled bool) Option {
	return func(c *config) { c.profilingMode = enabled }
}

// WithInitialEntityCapacity preallocates the entity allocator's backing
// slices, mirroring the teacher's `NewWorld(initialCapacity int)`.
func WithInitialEntityCapacity(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.initialEntityCap = n
		}
	}
}
