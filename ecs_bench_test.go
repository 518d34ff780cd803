package archecs

import (
	"fmt"
	"testing"
)

const (
	benchPosition ComponentID = 1
	benchVelocity ComponentID = 2
	benchHealth   ComponentID = 3
)

type benchPositionValue struct{ X, Y float32 }
type benchVelocityValue struct{ VX, VY float32 }

func benchSizes() []int { return []int{1000, 10000, 100000, 1000000} }

func benchName(size int) string {
	if size == 1000000 {
		return "1M"
	}
	return fmt.Sprintf("%dK", size/1000)
}

func BenchmarkSpawn(b *testing.B) {
	for _, size := range benchSizes() {
		b.Run(benchName(size), func(b *testing.B) {
			e := New(WithInitialEntityCapacity(size))
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < size; i++ {
				_, _ = e.Spawn()
			}
		})
	}
}

func BenchmarkSetAddsComponent(b *testing.B) {
	for _, size := range benchSizes() {
		b.Run(benchName(size), func(b *testing.B) {
			e := New(WithInitialEntityCapacity(size))
			ids := make([]EntityID, size)
			for i := range ids {
				ids[i], _ = e.Spawn()
			}
			b.ReportAllocs()
			b.ResetTimer()
			for _, id := range ids {
				_ = e.Set(id, benchPosition, benchPositionValue{X: 1, Y: 2})
			}
		})
	}
}

func BenchmarkSetUpdatesInPlace(b *testing.B) {
	for _, size := range benchSizes() {
		b.Run(benchName(size), func(b *testing.B) {
			e := New(WithInitialEntityCapacity(size))
			ids := make([]EntityID, size)
			for i := range ids {
				ids[i], _ = e.Spawn()
				_ = e.Set(ids[i], benchPosition, benchPositionValue{})
			}
			b.ReportAllocs()
			b.ResetTimer()
			for b.Loop() {
				for _, id := range ids {
					_ = e.Set(id, benchPosition, benchPositionValue{X: 1, Y: 2})
				}
			}
		})
	}
}

func BenchmarkTransitionAddThenRemove(b *testing.B) {
	for _, size := range benchSizes() {
		b.Run(benchName(size), func(b *testing.B) {
			e := New(WithInitialEntityCapacity(size))
			ids := make([]EntityID, size)
			for i := range ids {
				ids[i], _ = e.Spawn()
				_ = e.Set(ids[i], benchPosition, benchPositionValue{})
			}
			b.ReportAllocs()
			b.ResetTimer()
			for b.Loop() {
				for _, id := range ids {
					_ = e.Set(id, benchVelocity, benchVelocityValue{VX: 1})
					_ = e.Remove(id, benchVelocity)
				}
			}
		})
	}
}

func BenchmarkQueryIteration(b *testing.B) {
	for _, size := range benchSizes() {
		b.Run(benchName(size), func(b *testing.B) {
			e := New(WithInitialEntityCapacity(size))
			for i := 0; i < size; i++ {
				id, _ := e.Spawn()
				_ = e.Set(id, benchPosition, benchPositionValue{X: float32(i)})
				if i%2 == 0 {
					_ = e.Set(id, benchVelocity, benchVelocityValue{VX: 1})
				}
			}
			b.ReportAllocs()
			b.ResetTimer()
			for b.Loop() {
				view := e.Query(benchPosition, benchVelocity).View()
				sum := float32(0)
				for view.Next() {
					sum += view.Get(benchPosition).(benchPositionValue).X
				}
				_ = sum
			}
		})
	}
}

func BenchmarkDespawnAndRecycle(b *testing.B) {
	for _, size := range benchSizes() {
		b.Run(benchName(size), func(b *testing.B) {
			e := New(WithInitialEntityCapacity(size))
			ids := make([]EntityID, size)
			for i := range ids {
				ids[i], _ = e.Spawn()
				_ = e.Set(ids[i], benchHealth, 0)
			}
			b.ReportAllocs()
			b.ResetTimer()
			for b.Loop() {
				b.StopTimer()
				for i, id := range ids {
					_ = e.Despawn(id)
					ids[i] = id
				}
				b.StartTimer()
				for i := range ids {
					ids[i], _ = e.Spawn()
				}
			}
		})
	}
}

func BenchmarkCleanup(b *testing.B) {
	for _, size := range benchSizes() {
		b.Run(benchName(size), func(b *testing.B) {
			e := New(WithInitialEntityCapacity(size))
			b.ReportAllocs()
			b.ResetTimer()
			for b.Loop() {
				b.StopTimer()
				for i := 0; i < size; i++ {
					id, _ := e.Spawn()
					_ = e.Set(id, benchPosition, benchPositionValue{})
					_ = e.Remove(id, benchPosition)
				}
				b.StartTimer()
				_ = e.Cleanup()
			}
		})
	}
}
