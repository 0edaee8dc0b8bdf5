package parallel

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestOrderedBuffer_InOrder(t *testing.T) {
	b := NewOrderedBuffer[string](0)

	if err := b.Push(1, "b"); err != nil {
		t.Fatalf("Push failed: %v", err)
	}
	if _, ok := b.Pop(); ok {
		t.Fatal("Pop must wait for sequence 0")
	}
	if err := b.Push(0, "a"); err != nil {
		t.Fatalf("Push failed: %v", err)
	}

	for _, want := range []string{"a", "b"} {
		got, ok := b.Pop()
		if !ok || got != want {
			t.Fatalf("Expected %q, got %q (ok=%v)", want, got, ok)
		}
	}
	if b.Next() != 2 || b.Pending() != 0 {
		t.Errorf("Expected next=2 pending=0, got next=%d pending=%d", b.Next(), b.Pending())
	}
	if b.MaxPending() != 2 {
		t.Errorf("Expected max pending 2, got %d", b.MaxPending())
	}
}

func TestOrderedBuffer_RejectsStaleAndDuplicate(t *testing.T) {
	b := NewOrderedBuffer[int](5)

	if err := b.Push(4, 4); !errors.Is(err, ErrInvalidSequence) {
		t.Errorf("Expected ErrInvalidSequence, got %v", err)
	}
	if err := b.Push(7, 7); err != nil {
		t.Fatalf("Push failed: %v", err)
	}
	if err := b.Push(7, 70); !errors.Is(err, ErrDuplicateSequence) {
		t.Errorf("Expected ErrDuplicateSequence, got %v", err)
	}
}

// Every arrival order must be released as 0, 1, 2, ...
func TestOrderedBuffer_AnyInterleaving(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("release order is ascending", prop.ForAll(
		func(n int, seed uint64) bool {
			order := rand.New(rand.NewPCG(seed, 0)).Perm(n)

			b := NewOrderedBuffer[int](0)
			var released []int
			for _, seq := range order {
				if err := b.Push(uint64(seq), seq); err != nil {
					return false
				}
				for {
					v, ok := b.Pop()
					if !ok {
						break
					}
					released = append(released, v)
				}
			}

			if len(released) != n {
				return false
			}
			for i, v := range released {
				if v != i {
					return false
				}
			}
			return b.Pending() == 0
		},
		gen.IntRange(0, 200),
		gen.UInt64(),
	))

	properties.TestingRun(t)
}
