// Profiling:
// go build ./profile/query
// go tool pprof -http=":8000" -nodefraction=0.001 ./query mem.prof

package main

import (
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/yuminaa/archecs"
)

const (
	compA archecs.ComponentID = 1
	compB archecs.ComponentID = 2
	compC archecs.ComponentID = 3
	compD archecs.ComponentID = 4
	compE archecs.ComponentID = 5
	compF archecs.ComponentID = 6
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
	f, _ := os.Create("cpu.prof")
	_ = pprof.StartCPUProfile(f)
	defer pprof.StopCPUProfile()

	count := 50
	iters := 10000
	entities := 100000
	run(count, iters, entities)

	memFile, _ := os.Create("mem.prof")
	defer memFile.Close()
	runtime.GC()
	_ = pprof.WriteHeapProfile(memFile)
}

func run(rounds, iters, numEntities int) {
	for range rounds {
		e := archecs.New(archecs.WithInitialEntityCapacity(numEntities))
		_, _ = e.SpawnBatch(numEntities, map[archecs.ComponentID]any{
			compA: comp1{},
			compB: comp2{},
			compC: comp2{},
			compD: comp2{},
			compE: comp2{},
			compF: comp2{},
		})

		for range iters {
			view := e.Query(compA, compB, compC, compD, compE, compF).View()
			for view.Next() {
				a := view.Get(compA).(comp1)
				b := view.Get(compB).(comp2)
				a.V += b.V
				a.W += b.W
			}
		}
	}
}
