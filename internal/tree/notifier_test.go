package tree

import (
	"sync"
	"testing"
)

func TestNotifierDeliversInFireOrder(t *testing.T) {
	t.Parallel()
	n := &Notifier{}

	var got []Node
	n.Subscribe(func(node Node) { got = append(got, node) })

	a := NewPlaceholder(NoRemotes)
	b := NewPlaceholder(Empty)
	n.Fire(a)
	n.Fire(nil)
	n.Fire(b)

	want := []Node{a, nil, b}
	if len(got) != len(want) {
		t.Fatalf("delivered: got %d events, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestNotifierFansOutToEverySubscriber(t *testing.T) {
	t.Parallel()
	n := &Notifier{}

	var first, second int
	n.Subscribe(func(Node) { first++ })
	n.Subscribe(func(Node) { second++ })

	n.Fire(nil)
	n.Fire(nil)

	if first != 2 || second != 2 {
		t.Errorf("deliveries: got (%d, %d), want (2, 2)", first, second)
	}
}

func TestNotifierUnsubscribeStopsDelivery(t *testing.T) {
	t.Parallel()
	n := &Notifier{}

	var count int
	sub := n.Subscribe(func(Node) { count++ })

	n.Fire(nil)
	sub.Dispose()
	n.Fire(nil)
	sub.Dispose() // releasing twice is tolerated

	if count != 1 {
		t.Errorf("deliveries after unsubscribe: got %d, want 1", count)
	}
}

func TestNotifierConcurrentFiresAllDelivered(t *testing.T) {
	t.Parallel()
	n := &Notifier{}

	var mu sync.Mutex
	var count int
	n.Subscribe(func(Node) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	const producers = 8
	const firesEach = 50
	var wg sync.WaitGroup
	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < firesEach; j++ {
				n.Fire(nil)
			}
		}()
	}
	wg.Wait()

	if count != producers*firesEach {
		t.Errorf("deliveries: got %d, want %d (no coalescing)", count, producers*firesEach)
	}
}
