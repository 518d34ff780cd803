// Package log wraps a package-level structured logger used only at the
// core's structural boundaries — archetype creation, cleanup, id-space
// exhaustion — never on the per-call hot path (Set/Remove/query iteration
// never log).
package log

import (
	"os"

	"github.com/rs/zerolog"
)

// L is the package-level logger. Host programs may reassign it (e.g. to
// redirect output or change the level) before constructing an ECS.
var L = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

// SetLevel adjusts the minimum level L emits, following zerolog's global
// level convention.
func SetLevel(level zerolog.Level) {
	zerolog.SetGlobalLevel(level)
}

// ArchetypeCreated logs a new archetype coming into existence.
func ArchetypeCreated(slot int, componentCount int) {
	L.Debug().Int("slot", slot).Int("components", componentCount).Msg("archetype created")
}

// ArchetypeReclaimed logs Cleanup tearing down an empty, unreferenced
// archetype.
func ArchetypeReclaimed(slot int) {
	L.Debug().Int("slot", slot).Msg("archetype reclaimed")
}

// EntityIDSpaceExhausted logs the core refusing to allocate past the
// declared entity id range.
func EntityIDSpaceExhausted(max uint32) {
	L.Error().Uint32("max", max).Msg("entity id space exhausted")
}
