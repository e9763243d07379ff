package layout

import "testing"

func TestRect_Intersect(t *testing.T) {
	cases := []struct {
		name string
		a, b Rect
		want Rect
	}{
		{"overlap", NewRect(0, 0, 10, 10), NewRect(5, 5, 10, 10), NewRect(5, 5, 5, 5)},
		{"contained", NewRect(0, 0, 10, 10), NewRect(2, 2, 3, 3), NewRect(2, 2, 3, 3)},
		{"disjoint", NewRect(0, 0, 5, 5), NewRect(10, 10, 5, 5), Rect{}},
		{"touching edges", NewRect(0, 0, 5, 5), NewRect(5, 0, 5, 5), Rect{}},
		{"identical", NewRect(1, 2, 3, 4), NewRect(1, 2, 3, 4), NewRect(1, 2, 3, 4)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Intersect(tc.b); got != tc.want {
				t.Errorf("Intersect = %+v, want %+v", got, tc.want)
			}
			if got := tc.b.Intersect(tc.a); got != tc.want {
				t.Errorf("Intersect (reversed) = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestRect_Degenerate(t *testing.T) {
	r := NewRect(3, 3, 0, 5)
	if !r.IsEmpty() {
		t.Error("zero-width rect should be empty")
	}
	if r.Area() != 0 {
		t.Errorf("Area = %d, want 0", r.Area())
	}
	if r.Contains(3, 3) {
		t.Error("degenerate rect should contain nothing")
	}
}

func TestRect_Inset(t *testing.T) {
	r := NewRect(0, 0, 10, 10).Inset(EdgeAll(2))
	if r != NewRect(2, 2, 6, 6) {
		t.Errorf("Inset = %+v, want {2 2 6 6}", r)
	}
}

func TestRect_Contains(t *testing.T) {
	r := NewRect(2, 2, 4, 4)
	inside := [][2]int{{2, 2}, {5, 5}, {3, 4}}
	outside := [][2]int{{1, 2}, {6, 2}, {2, 6}, {0, 0}}

	for _, p := range inside {
		if !r.Contains(p[0], p[1]) {
			t.Errorf("Contains(%d, %d) = false, want true", p[0], p[1])
		}
	}
	for _, p := range outside {
		if r.Contains(p[0], p[1]) {
			t.Errorf("Contains(%d, %d) = true, want false", p[0], p[1])
		}
	}
}
