package rtkaller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecentRing(t *testing.T) {
	tests := []struct {
		name     string
		opts     []RingOption
		wantCap  int
	}{
		{"default_capacity", nil, 64},
		{"explicit_capacity", []RingOption{WithCapacity(8)}, 8},
		{"zero_capacity_falls_back_to_default", []RingOption{WithCapacity(0)}, 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRecentRing(tt.opts...)
			require.NotNil(t, r)
			assert.Equal(t, tt.wantCap, r.Capacity())
			assert.Equal(t, 0, r.Len())
		})
	}
}

func TestRecentRingPushWithinCapacity(t *testing.T) {
	r := NewRecentRing(WithCapacity(4))
	app := DefaultAPPConfig()

	for i := 0; i < 3; i++ {
		r.Push(NewProgram(&app))
	}

	assert.Equal(t, 3, r.Len())
	assert.Equal(t, 4, r.Capacity())
}

func TestRecentRingEvictsOldestOnOverflow(t *testing.T) {
	r := NewRecentRing(WithCapacity(2))
	app := DefaultAPPConfig()

	first := NewProgram(&app)
	first.Tasks[0].ID = "first"
	second := NewProgram(&app)
	second.Tasks[0].ID = "second"
	third := NewProgram(&app)
	third.Tasks[0].ID = "third"

	r.Push(first)
	r.Push(second)
	r.Push(third) // evicts first

	got := r.Drain()
	require.Len(t, got, 2)
	assert.Equal(t, "second", got[0].Tasks[0].ID)
	assert.Equal(t, "third", got[1].Tasks[0].ID)
}

func TestRecentRingDrainEmptiesAndResets(t *testing.T) {
	r := NewRecentRing(WithCapacity(4))
	app := DefaultAPPConfig()
	r.Push(NewProgram(&app))
	r.Push(NewProgram(&app))

	got := r.Drain()
	assert.Len(t, got, 2)
	assert.Equal(t, 0, r.Len())

	assert.Empty(t, r.Drain())
}

func TestRecentRingDrainPreservesFIFOOrder(t *testing.T) {
	r := NewRecentRing(WithCapacity(3))
	app := DefaultAPPConfig()

	for i, id := range []string{"a", "b", "c"} {
		p := NewProgram(&app)
		p.Tasks[0].ID = id
		r.Push(p)
		_ = i
	}

	got := r.Drain()
	require.Len(t, got, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{got[0].Tasks[0].ID, got[1].Tasks[0].ID, got[2].Tasks[0].ID})
}
