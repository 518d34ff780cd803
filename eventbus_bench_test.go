package archecs

import "testing"

func BenchmarkEventBusSubscribe(b *testing.B) {
	for _, size := range benchSizes() {
		b.Run(benchName(size), func(b *testing.B) {
			bus := &EventBus{}
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < size; i++ {
				Subscribe(bus, func(e SetEvent) {})
			}
		})
	}
}

func BenchmarkEventBusPublishNoHandlers(b *testing.B) {
	for _, size := range benchSizes() {
		b.Run(benchName(size), func(b *testing.B) {
			bus := &EventBus{}
			event := SetEvent{Entity: packEntityID(1, 0), Component: benchPosition, Value: benchPositionValue{X: 1, Y: 2}}
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < size; i++ {
				bus.publishSet(event)
			}
		})
	}
}

func BenchmarkEventBusPublishOneHandler(b *testing.B) {
	for _, size := range benchSizes() {
		b.Run(benchName(size), func(b *testing.B) {
			bus := &EventBus{}
			var sum float32
			Subscribe(bus, func(e SetEvent) {
				if pos, ok := e.Value.(benchPositionValue); ok {
					sum += pos.X
				}
			})
			event := SetEvent{Entity: packEntityID(1, 0), Component: benchPosition, Value: benchPositionValue{X: 1, Y: 2}}
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < size; i++ {
				bus.publishSet(event)
			}
			_ = sum
		})
	}
}

func BenchmarkEventBusPublishManyHandlers(b *testing.B) {
	for _, size := range benchSizes() {
		b.Run(benchName(size), func(b *testing.B) {
			bus := &EventBus{}
			for i := 0; i < size; i++ {
				Subscribe(bus, func(e TransitionEvent) {})
			}
			event := TransitionEvent{Entity: packEntityID(1, 0), From: 0, To: 1}
			b.ReportAllocs()
			b.ResetTimer()
			for b.Loop() {
				bus.publishTransition(event)
			}
		})
	}
}
