// Profiling:
// go build ./profile/entities
// go tool pprof -http=":8000" -nodefraction=0.001 ./entities mem.pprof

package main

import (
	"github.com/pkg/profile"

	"github.com/yuminaa/archecs"
)

const (
	compA archecs.ComponentID = 1
	compB archecs.ComponentID = 2
)

type comp1 struct {
	V int64
	W int64
}

type comp2 struct {
	V int64
	W int64
}

func main() {
	count := 50
	iters := 10000
	entities := 1000
	run(count, iters, entities)
}

func run(rounds, iters, numEntities int) {
	for range rounds {
		e := archecs.New(archecs.WithInitialEntityCapacity(numEntities), archecs.WithProfilingMode(true))
		var p interface{ Stop() }
		if e.ProfilingEnabled() {
			p = profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
		}

		for range iters {
			_, _ = e.SpawnBatch(numEntities, map[archecs.ComponentID]any{
				compA: comp1{},
				compB: comp2{},
			})
			var toDespawn []archecs.EntityID
			view := e.Query(compA, compB).View()
			for view.Next() {
				toDespawn = append(toDespawn, view.Entity())
				a := view.Get(compA).(comp1)
				b := view.Get(compB).(comp2)
				a.V += b.V
				a.W += b.W
			}
			for _, id := range toDespawn {
				_ = e.Despawn(id)
			}
		}
		if p != nil {
			p.Stop()
		}
	}
}
