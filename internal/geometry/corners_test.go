package geometry

import (
	"errors"
	"testing"
)

// permutations returns every ordering of pts.
func permutations(pts []Point) [][]Point {
	if len(pts) <= 1 {
		return [][]Point{append([]Point(nil), pts...)}
	}
	var out [][]Point
	for i := range pts {
		rest := make([]Point, 0, len(pts)-1)
		rest = append(rest, pts[:i]...)
		rest = append(rest, pts[i+1:]...)
		for _, p := range permutations(rest) {
			out = append(out, append([]Point{pts[i]}, p...))
		}
	}
	return out
}

func assertCorners(t *testing.T, r Rectangle, tl, tr, bl, br Point) {
	t.Helper()
	if r.TL() != tl || r.TR() != tr || r.BL() != bl || r.BR() != br {
		t.Errorf("got %v, want TL%v TR%v BL%v BR%v", r, tl, tr, bl, br)
	}
}

func TestCanonicalize_AxisAligned(t *testing.T) {
	r, err := Canonicalize([]Point{Pt(10, 5), Pt(0, 0), Pt(0, 5), Pt(10, 0)})
	if err != nil {
		t.Fatalf("Canonicalize failed: %v", err)
	}
	assertCorners(t, r, Pt(0, 0), Pt(10, 0), Pt(0, 5), Pt(10, 5))
}

func TestCanonicalize_Rotated(t *testing.T) {
	r, err := Canonicalize([]Point{Pt(2, 0), Pt(6, 1), Pt(5, 5), Pt(1, 4)})
	if err != nil {
		t.Fatalf("Canonicalize failed: %v", err)
	}
	assertCorners(t, r, Pt(2, 0), Pt(6, 1), Pt(1, 4), Pt(5, 5))
}

func TestCanonicalize_SteepRotationUsesLowestY(t *testing.T) {
	// Long rectangle rotated 45 degrees. The two lowest-Y points are the
	// short edge on the right, which a person would call the right side.
	r, err := Canonicalize([]Point{Pt(0, 10), Pt(10, 0), Pt(12, 2), Pt(2, 12)})
	if err != nil {
		t.Fatalf("Canonicalize failed: %v", err)
	}
	assertCorners(t, r, Pt(10, 0), Pt(12, 2), Pt(0, 10), Pt(2, 12))
}

func TestCanonicalize_DiamondTieBreak(t *testing.T) {
	// (0,5) and (10,5) tie on Y for the second top slot; smaller X wins.
	pts := []Point{Pt(5, 0), Pt(0, 5), Pt(10, 5), Pt(5, 10)}

	for _, perm := range permutations(pts) {
		r, err := Canonicalize(perm)
		if err != nil {
			t.Fatalf("Canonicalize(%v) failed: %v", perm, err)
		}
		assertCorners(t, r, Pt(0, 5), Pt(5, 0), Pt(5, 10), Pt(10, 5))
	}
}

func TestCanonicalize_VerticalTieBreak(t *testing.T) {
	// Zero-width rectangle: both top points share X, smaller Y comes first.
	pts := []Point{Pt(3, 0), Pt(3, 1), Pt(3, 8), Pt(3, 9)}

	for _, perm := range permutations(pts) {
		r, err := Canonicalize(perm)
		if err != nil {
			t.Fatalf("Canonicalize failed: %v", err)
		}
		assertCorners(t, r, Pt(3, 0), Pt(3, 1), Pt(3, 8), Pt(3, 9))
	}
}

func TestCanonicalize_PermutationInvariant(t *testing.T) {
	tests := []struct {
		name string
		pts  []Point
	}{
		{"axis aligned", []Point{Pt(0, 0), Pt(10, 0), Pt(0, 5), Pt(10, 5)}},
		{"rotated", []Point{Pt(2, 0), Pt(6, 1), Pt(5, 5), Pt(1, 4)}},
		{"fractional", []Point{Pt(12.5, 3.25), Pt(40.75, 9), Pt(9.5, 20), Pt(37.75, 25.75)}},
		{"single pixel", []Point{Pt(4, 4), Pt(4, 4), Pt(4, 4), Pt(4, 4)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want, err := Canonicalize(tt.pts)
			if err != nil {
				t.Fatalf("Canonicalize failed: %v", err)
			}
			perms := permutations(tt.pts)
			if len(perms) != 24 {
				t.Fatalf("expected 24 permutations, got %d", len(perms))
			}
			for _, perm := range perms {
				got, err := Canonicalize(perm)
				if err != nil {
					t.Fatalf("Canonicalize(%v) failed: %v", perm, err)
				}
				if got != want {
					t.Errorf("Canonicalize(%v) = %v, want %v", perm, got, want)
				}
			}
		})
	}
}

func TestCanonicalize_Idempotent(t *testing.T) {
	inputs := [][]Point{
		{Pt(10, 5), Pt(0, 0), Pt(0, 5), Pt(10, 0)},
		{Pt(5, 5), Pt(1, 4), Pt(6, 1), Pt(2, 0)},
		{Pt(5, 0), Pt(0, 5), Pt(10, 5), Pt(5, 10)},
	}

	for _, in := range inputs {
		once, err := Canonicalize(in)
		if err != nil {
			t.Fatalf("Canonicalize failed: %v", err)
		}
		corners := once.Corners()
		twice, err := Canonicalize(corners[:])
		if err != nil {
			t.Fatalf("re-Canonicalize failed: %v", err)
		}
		if once != twice {
			t.Errorf("not idempotent: %v then %v", once, twice)
		}
	}
}

func TestCanonicalize_DoesNotModifyInput(t *testing.T) {
	in := []Point{Pt(10, 5), Pt(0, 0), Pt(0, 5), Pt(10, 0)}
	orig := append([]Point(nil), in...)

	if _, err := Canonicalize(in); err != nil {
		t.Fatalf("Canonicalize failed: %v", err)
	}
	for i := range in {
		if in[i] != orig[i] {
			t.Fatalf("input modified at %d: got %v, want %v", i, in[i], orig[i])
		}
	}
}

func TestCanonicalize_WrongPointCount(t *testing.T) {
	tests := []struct {
		name string
		pts  []Point
	}{
		{"nil", nil},
		{"three", []Point{Pt(0, 0), Pt(1, 0), Pt(0, 1)}},
		{"five", []Point{Pt(0, 0), Pt(1, 0), Pt(0, 1), Pt(1, 1), Pt(2, 2)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Canonicalize(tt.pts)
			if !errors.Is(err, ErrInvalidGeometry) {
				t.Errorf("expected ErrInvalidGeometry, got %v", err)
			}
		})
	}
}

func TestCanonicalize_QuadPoints(t *testing.T) {
	q := Quad{Pt(10, 5), Pt(0, 0), Pt(0, 5), Pt(10, 0)}
	r, err := Canonicalize(q.Points())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertCorners(t, r, Pt(0, 0), Pt(10, 0), Pt(0, 5), Pt(10, 5))
}

func TestPoint_Rounded(t *testing.T) {
	tests := []struct {
		p    Point
		want [2]int
	}{
		{Pt(0, 0), [2]int{0, 0}},
		{Pt(12.4, 7.6), [2]int{12, 8}},
		{Pt(12.5, -0.5), [2]int{13, -1}},
		{Pt(99.99999, 3.00001), [2]int{100, 3}},
	}

	for _, tt := range tests {
		if got := tt.p.Rounded(); got != tt.want {
			t.Errorf("%v.Rounded() = %v, want %v", tt.p, got, tt.want)
		}
	}
}
