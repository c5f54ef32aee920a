package render

import (
	"math"
	"math/rand"
	"testing"

	"github.com/taigrr/softrast/pkg/math3d"
)

func TestPlaneDistanceToPoint(t *testing.T) {
	plane := NewPlane(math3d.V3(0, 0, 2), math3d.V3(0, 0, 5))

	tests := []struct {
		name     string
		point    math3d.Vec3
		expected float64
	}{
		{"on plane", math3d.V3(3, -1, 2), 0},
		{"outside", math3d.V3(0, 0, 7), 5},
		{"inside", math3d.V3(0, 0, -1), -3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dist := plane.DistanceToPoint(tc.point)
			if math.Abs(dist-tc.expected) > 1e-9 {
				t.Errorf("got %v, want %v", dist, tc.expected)
			}
		})
	}
}

func TestPlaneLineIntersection(t *testing.T) {
	plane := NewPlane(math3d.V3(0, 0, -5), math3d.V3(0, 0, 1))

	p, tt, ok := plane.LineIntersection(math3d.V3(1, 2, 0), math3d.V3(1, 2, -10))
	if !ok {
		t.Fatal("expected an intersection")
	}
	if !p.ApproxEqual(math3d.V3(1, 2, -5), 1e-12) || math.Abs(tt-0.5) > 1e-12 {
		t.Errorf("got %v at t=%v, want (1, 2, -5) at t=0.5", p, tt)
	}

	if _, _, ok := plane.LineIntersection(math3d.V3(0, 0, 0), math3d.V3(5, 5, 0)); ok {
		t.Error("parallel line should not intersect")
	}
}

func TestNewFrustumOrientation(t *testing.T) {
	f := testFrustum()

	tests := []struct {
		name    string
		point   math3d.Vec3
		outside FrustumPlane
	}{
		{"before near", math3d.V3(0, 0, -0.5), FrustumNear},
		{"past far", math3d.V3(0, 0, -200), FrustumFar},
		{"above", math3d.V3(0, 20, -10), FrustumUp},
		{"below", math3d.V3(0, -20, -10), FrustumDown},
		{"left", math3d.V3(-20, 0, -10), FrustumLeft},
		{"right", math3d.V3(20, 0, -10), FrustumRight},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for i, pl := range f.Planes {
				positive := pl.IsOnPositiveSide(tc.point)
				if want := FrustumPlane(i) == tc.outside; positive != want {
					t.Errorf("%v plane: positive=%v, want %v", FrustumPlane(i), positive, want)
				}
			}
		})
	}

	center := math3d.V3(0, 0, -10)
	for i, pl := range f.Planes {
		if pl.DistanceToPoint(center) >= 0 {
			t.Errorf("center is not inside the %v plane", FrustumPlane(i))
		}
		if math.Abs(pl.Normal.Len()-1) > 1e-12 {
			t.Errorf("%v normal is not unit length", FrustumPlane(i))
		}
	}
}

func TestFrustumDiagonals(t *testing.T) {
	f := testFrustum()

	tests := []struct {
		diag Diagonal
		a, b FrustumPlane
		near math3d.Vec3
	}{
		{DiagonalUpLeft, FrustumUp, FrustumLeft, math3d.V3(-1, 1, -1)},
		{DiagonalUpRight, FrustumUp, FrustumRight, math3d.V3(1, 1, -1)},
		{DiagonalDownRight, FrustumDown, FrustumRight, math3d.V3(1, -1, -1)},
		{DiagonalDownLeft, FrustumDown, FrustumLeft, math3d.V3(-1, -1, -1)},
	}

	for _, tc := range tests {
		seg := f.Diagonals[tc.diag]
		if !seg.A.ApproxEqual(tc.near, 1e-12) {
			t.Errorf("diagonal %d starts at %v, want %v", tc.diag, seg.A, tc.near)
		}
		if !seg.B.ApproxEqual(tc.near.Scale(100), 1e-9) {
			t.Errorf("diagonal %d ends at %v, want %v", tc.diag, seg.B, tc.near.Scale(100))
		}
		for _, p := range []math3d.Vec3{seg.A, seg.B} {
			for _, pl := range []FrustumPlane{tc.a, tc.b} {
				if d := f.Planes[pl].DistanceToPoint(p); math.Abs(d) > 1e-9 {
					t.Errorf("diagonal %d endpoint %v is %v off the %v plane", tc.diag, p, d, pl)
				}
			}
		}
		if got, ok := diagonalBetween(tc.b, tc.a); !ok || got != tc.diag {
			t.Errorf("diagonalBetween(%v, %v) = %v, %v", tc.b, tc.a, got, ok)
		}
	}

	if _, ok := diagonalBetween(FrustumUp, FrustumDown); ok {
		t.Error("opposite planes share no diagonal")
	}
	if _, ok := diagonalBetween(FrustumNear, FrustumLeft); ok {
		t.Error("near plane has no diagonal")
	}
}

func TestIsPointInsideMatchesPlanes(t *testing.T) {
	f := testFrustum()
	rng := rand.New(rand.NewSource(1))

	for range 5000 {
		p := math3d.V3(
			rng.Float64()*240-120,
			rng.Float64()*240-120,
			rng.Float64()*240-200,
		)
		if nearBoundary(p) {
			continue
		}
		if got, want := f.IsPointInside(p), insideSquarePyramid(p); got != want {
			t.Fatalf("IsPointInside(%v) = %v, want %v", p, got, want)
		}
	}
}

func TestFrustumSphereTests(t *testing.T) {
	f := testFrustum()

	tests := []struct {
		name       string
		center     math3d.Vec3
		radius     float64
		partly     bool
		completely bool
	}{
		{"well inside", math3d.V3(0, 0, -50), 1, true, true},
		{"straddles right", math3d.V3(10, 0, -10), 1, true, false},
		{"straddles near", math3d.V3(0, 0, -1), 0.5, true, false},
		{"behind eye", math3d.V3(0, 0, 5), 1, false, false},
		{"beyond far", math3d.V3(0, 0, -150), 10, false, false},
		{"far to the left", math3d.V3(-50, 0, -10), 2, false, false},
		{"encloses eye", math3d.V3(0, 0, 0), 5, true, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.IsObjectPartlyInside(tc.center, tc.radius); got != tc.partly {
				t.Errorf("IsObjectPartlyInside = %v, want %v", got, tc.partly)
			}
			if got := f.IsObjectCompletelyInside(tc.center, tc.radius); got != tc.completely {
				t.Errorf("IsObjectCompletelyInside = %v, want %v", got, tc.completely)
			}
		})
	}
}

func TestSegmentIntersects(t *testing.T) {
	f := testFrustum()
	a, b := math3d.V3(0, 0, -10), math3d.V3(20, 0, -10)

	if !f.SegmentIntersects(a, b, FrustumRight) {
		t.Error("segment should cross the right plane")
	}
	if f.SegmentIntersects(a, b, FrustumLeft) {
		t.Error("segment should not cross the left plane")
	}
}

func TestClipSegment(t *testing.T) {
	f := testFrustum()

	tests := []struct {
		name   string
		a, b   math3d.Vec3
		ok     bool
		wa, wb math3d.Vec3
	}{
		{"both inside", math3d.V3(1, 1, -5), math3d.V3(-2, 0, -50), true, math3d.V3(1, 1, -5), math3d.V3(-2, 0, -50)},
		{"exits right", math3d.V3(0, 0, -10), math3d.V3(20, 0, -10), true, math3d.V3(0, 0, -10), math3d.V3(10, 0, -10)},
		{"enters through far", math3d.V3(0, 0, -200), math3d.V3(0, 0, -10), true, math3d.V3(0, 0, -100), math3d.V3(0, 0, -10)},
		{"starts behind eye", math3d.V3(0, 0, 5), math3d.V3(0, 0, -10), true, math3d.V3(0, 0, -1), math3d.V3(0, 0, -10)},
		{"passes through", math3d.V3(-20, 0, -10), math3d.V3(20, 0, -10), true, math3d.V3(-10, 0, -10), math3d.V3(10, 0, -10)},
		{"misses", math3d.V3(20, 20, -10), math3d.V3(20, -20, -10), false, math3d.Vec3{}, math3d.Vec3{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ga, gb, ok := f.ClipSegment(tc.a, tc.b)
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if !ok {
				return
			}
			if !ga.ApproxEqual(tc.wa, 1e-9) || !gb.ApproxEqual(tc.wb, 1e-9) {
				t.Errorf("got %v-%v, want %v-%v", ga, gb, tc.wa, tc.wb)
			}
		})
	}
}

func TestClipSegmentStaysInside(t *testing.T) {
	f := testFrustum()
	rng := rand.New(rand.NewSource(7))
	random := func() math3d.Vec3 {
		return math3d.V3(rng.Float64()*80-40, rng.Float64()*80-40, rng.Float64()*150-130)
	}

	for range 2000 {
		a, b := random(), random()
		ga, gb, ok := f.ClipSegment(a, b)
		if !ok {
			continue
		}
		for _, p := range []math3d.Vec3{ga, gb} {
			for i, pl := range f.Planes {
				if d := pl.DistanceToPoint(p); d > 1e-6 {
					t.Fatalf("clip of %v-%v gave %v, %v outside %v", a, b, p, d, FrustumPlane(i))
				}
			}
		}
		if ga.Distance(gb) > a.Distance(b)+1e-9 {
			t.Fatalf("clipped segment is longer than the input")
		}
	}
}

func TestCornerPoint(t *testing.T) {
	f := testFrustum()
	wall := NewPlane(math3d.V3(0, 0, -10), math3d.V3(0, 0, 1))

	tests := []struct {
		name  string
		a, b  FrustumPlane
		plane Plane
		ok    bool
		want  math3d.Vec3
	}{
		{"up left", FrustumUp, FrustumLeft, wall, true, math3d.V3(-10, 10, -10)},
		{"right down", FrustumRight, FrustumDown, wall, true, math3d.V3(10, -10, -10)},
		{"opposite", FrustumUp, FrustumDown, wall, false, math3d.Vec3{}},
		{"near and side", FrustumNear, FrustumLeft, wall, false, math3d.Vec3{}},
		{"beyond far", FrustumUp, FrustumRight, NewPlane(math3d.V3(0, 0, -300), math3d.V3(0, 0, 1)), false, math3d.Vec3{}},
		{"parallel", FrustumUp, FrustumRight, NewPlane(math3d.Zero3(), math3d.V3(1, 1, 1).Cross(math3d.V3(0, 0, 1))), false, math3d.Vec3{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := f.CornerPoint(tc.a, tc.b, tc.plane)
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if ok && !got.ApproxEqual(tc.want, 1e-9) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestFrustumTransform(t *testing.T) {
	local := testFrustum()
	rot := math3d.QuatEuler(0.2, 1.1, -0.4)
	offset := math3d.V3(3, -2, 7)
	world := local.Transform(rot, offset)

	rng := rand.New(rand.NewSource(3))
	for range 2000 {
		p := math3d.V3(rng.Float64()*100-50, rng.Float64()*100-50, rng.Float64()*120-110)
		if nearBoundary(p) {
			continue
		}
		w := rot.Rotate(p).Add(offset)
		if local.IsPointInside(p) != world.IsPointInside(w) {
			t.Fatalf("point %v classified differently after transform", p)
		}
	}
}

func BenchmarkIsPointInside(b *testing.B) {
	f := testFrustum()
	p := math3d.V3(3, -2, -40)

	for b.Loop() {
		_ = f.IsPointInside(p)
	}
}

func BenchmarkClipSegment(b *testing.B) {
	f := testFrustum()
	a, c := math3d.V3(-30, 5, -10), math3d.V3(30, -5, -60)

	for b.Loop() {
		_, _, _ = f.ClipSegment(a, c)
	}
}
