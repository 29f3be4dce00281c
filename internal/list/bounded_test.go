package list

import (
	"slices"
	"testing"
)

func collect(l *Bounded[int]) []int {
	var out []int
	for _, v := range l.All() {
		out = append(out, v)
	}
	return out
}

func TestBoundedAddFull(t *testing.T) {
	tests := []struct {
		name  string
		limit int
	}{
		{"one", 1},
		{"small", 4},
		{"default", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New[int](tt.limit)
			for i := 0; i < l.Cap(); i++ {
				if !l.Add(i) {
					t.Fatalf("Add(%d) = false, want true", i)
				}
			}
			if l.Add(-1) {
				t.Errorf("Add() past capacity = true, want false")
			}
			if got := l.Len(); got != l.Cap() {
				t.Errorf("Len() = %d, want %d", got, l.Cap())
			}
		})
	}
}

func TestBoundedDefaultCap(t *testing.T) {
	if got := New[int](-3).Cap(); got != MaxCount {
		t.Errorf("Cap() = %d, want %d", got, MaxCount)
	}
}

func TestBoundedAt(t *testing.T) {
	l := New[int](4)
	l.Add(10)
	l.Add(20)

	tests := []struct {
		index  int
		want   int
		wantOK bool
	}{
		{0, 10, true},
		{1, 20, true},
		{2, 0, false},
		{-1, 0, false},
	}
	for _, tt := range tests {
		got, ok := l.At(tt.index)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("At(%d) = (%d, %v), want (%d, %v)", tt.index, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestBoundedTakeAt(t *testing.T) {
	tests := []struct {
		name  string
		index int
		want  []int
	}{
		{"first", 0, []int{2, 3, 4, 5}},
		{"middle", 2, []int{1, 2, 4, 5}},
		{"last", 4, []int{1, 2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New[int](8)
			for i := 1; i <= 5; i++ {
				l.Add(i)
			}
			before := l.Len()
			if _, ok := l.TakeAt(tt.index); !ok {
				t.Fatalf("TakeAt(%d) failed", tt.index)
			}
			if got := l.Len(); got != before-1 {
				t.Errorf("Len() = %d, want %d", got, before-1)
			}
			if got := collect(l); !slices.Equal(got, tt.want) {
				t.Errorf("items = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBoundedTakeAtOutOfRange(t *testing.T) {
	l := New[int](2)
	l.Add(1)
	if _, ok := l.TakeAt(1); ok {
		t.Error("TakeAt(1) on one-item list succeeded")
	}
	if l.Len() != 1 {
		t.Errorf("Len() = %d, want 1", l.Len())
	}
}

func TestBoundedTake(t *testing.T) {
	l := New[int](8)
	for _, v := range []int{7, 8, 7, 9} {
		l.Add(v)
	}
	got, ok := l.Take(7)
	if !ok || got != 7 {
		t.Fatalf("Take(7) = (%d, %v), want (7, true)", got, ok)
	}
	if want := []int{8, 7, 9}; !slices.Equal(collect(l), want) {
		t.Errorf("items = %v, want %v", collect(l), want)
	}
	if _, ok := l.Take(42); ok {
		t.Error("Take(42) of missing item succeeded")
	}
}

func TestBoundedTakeFreesSlot(t *testing.T) {
	l := New[int](2)
	l.Add(1)
	l.Add(2)
	l.Take(1)
	if !l.Add(3) {
		t.Error("Add() after Take() = false, want true")
	}
}

func TestBoundedClear(t *testing.T) {
	l := New[int](3)
	l.Add(1)
	l.Add(2)
	l.Clear()
	if l.Len() != 0 {
		t.Errorf("Len() after Clear() = %d, want 0", l.Len())
	}
}
