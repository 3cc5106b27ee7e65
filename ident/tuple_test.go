package ident

import "testing"

func TestTupleCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b Tuple
		want int
	}{
		{"equal", Tuple{1, 2, 3, 4}, Tuple{1, 2, 3, 4}, 0},
		{"random wins", Tuple{1, 9, 9, 9}, Tuple{2, 0, 0, 0}, -1},
		{"replica breaks tie", Tuple{1, 2, 9, 9}, Tuple{1, 3, 0, 0}, -1},
		{"clock breaks tie", Tuple{1, 2, 3, 9}, Tuple{1, 2, 4, 0}, -1},
		{"offset last", Tuple{1, 2, 3, 4}, Tuple{1, 2, 3, 5}, -1},
		{"min below everything", MinTuple, Tuple{Int32Bottom, 0, 0, 1}, -1},
		{"max above everything", MaxTuple, Tuple{Int32Top - 1, 9, 9, 9}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Compare(tt.b); got != tt.want {
				t.Errorf("Compare(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
			if got := tt.b.Compare(tt.a); got != -tt.want {
				t.Errorf("Compare(%v, %v) = %d, want %d", tt.b, tt.a, got, -tt.want)
			}
		})
	}
}

func TestTupleSameBase(t *testing.T) {
	a := Tuple{5, 1, 2, 0}
	if !a.SameBase(a.WithOffset(99)) {
		t.Error("offsets must not affect the base")
	}
	if a.SameBase(Tuple{5, 1, 3, 0}) {
		t.Error("clock is part of the base")
	}
}
