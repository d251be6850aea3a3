package influence

import (
	"errors"
	"testing"

	"github.com/chazu/mannequin/pkg/rig"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// stripMesh returns three triangles sharing vertices along a strip:
// face 0 = {0,1,2}, face 1 = {1,2,3}, face 2 = {2,3,4}.
func stripMesh(t *testing.T) *rig.Mesh {
	t.Helper()
	pos := []v3.Vec{{X: 0}, {X: 1}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 0, Y: 2}}
	m, err := rig.NewMesh(pos, [][]int{{0, 1, 2}, {1, 2, 3}, {2, 3, 4}})
	if err != nil {
		t.Fatalf("NewMesh: %v", err)
	}
	return m
}

func newSkin(t *testing.T, influences []rig.JointID, weights [][]float64) *rig.Skin {
	t.Helper()
	s, err := rig.NewSkin(influences, weights)
	if err != nil {
		t.Fatalf("NewSkin: %v", err)
	}
	return s
}

// threeJoints builds root → {a (length 2), b (length 4)}.
func threeJoints(t *testing.T) (*rig.Skeleton, rig.JointID, rig.JointID, rig.JointID) {
	t.Helper()
	s := rig.NewSkeleton()
	root, err := s.AddJoint("root", rig.NoJoint, v3.Vec{Y: 1})
	if err != nil {
		t.Fatal(err)
	}
	a, _ := s.AddJoint("a", root, v3.Vec{X: 2})
	b, _ := s.AddJoint("b", root, v3.Vec{Y: 4})
	return s, root, a, b
}

// ---------------------------------------------------------------------------
// Style
// ---------------------------------------------------------------------------

func TestStyleCodec(t *testing.T) {
	tests := []struct {
		style Style
		code  string
	}{
		{StyleNone, ""},
		{StyleRotate, "r"},
		{StyleTranslate, "t"},
		{StyleRotate | StyleTranslate, "rt"},
	}
	for _, tc := range tests {
		if got := tc.style.String(); got != tc.code {
			t.Errorf("%d.String() = %q, want %q", tc.style, got, tc.code)
		}
		got, err := ParseStyle(tc.code)
		if err != nil || got != tc.style {
			t.Errorf("ParseStyle(%q) = %v, %v", tc.code, got, err)
		}
	}
	if got, _ := ParseStyle("TR"); got != StyleRotate|StyleTranslate {
		t.Errorf("ParseStyle(TR) = %v", got)
	}
	if _, err := ParseStyle("x"); err == nil {
		t.Error("ParseStyle(x) should fail")
	}
}

func TestStyleOther(t *testing.T) {
	if StyleRotate.Other() != StyleTranslate || StyleTranslate.Other() != StyleRotate {
		t.Error("Other must flip ROTATE and TRANSLATE")
	}
	both := StyleRotate | StyleTranslate
	if both.Other() != both {
		t.Error("Other on a combined style must be identity")
	}
	if !both.Has(StyleRotate) || StyleTranslate.Has(StyleRotate) || both.Has(StyleNone) {
		t.Error("Has misreports membership")
	}
}

// ---------------------------------------------------------------------------
// BuildTable
// ---------------------------------------------------------------------------

func TestBuildTableDominantInfluence(t *testing.T) {
	m := stripMesh(t)
	skin := newSkin(t, []rig.JointID{"|a", "|b", "|c"}, [][]float64{
		{1, 0, 0},
		{1, 0, 0},
		{0.4, 0.6, 0},
		{0, 0.2, 0.8},
		{0, 0, 1},
	})
	table, err := BuildTable(m, skin)
	if err != nil {
		t.Fatalf("BuildTable: %v", err)
	}
	if table.Len() != 3 {
		t.Fatalf("Len = %d, want 3", table.Len())
	}
	// face 0 sums (2.4, 0.6, 0); face 1 (1.4, 0.8, 0.8); face 2 (0.4, 0.8, 1.8)
	want := []int{0, 0, 2}
	for face, w := range want {
		got, err := table.Influence(face)
		if err != nil || got != w {
			t.Errorf("face %d influence = %d, %v; want %d", face, got, err, w)
		}
	}
	if faces := table.FacesFor(0); len(faces) != 2 || faces[0] != 0 || faces[1] != 1 {
		t.Errorf("FacesFor(0) = %v", faces)
	}
	if counts := table.Counts(3); counts[0] != 2 || counts[1] != 0 || counts[2] != 1 {
		t.Errorf("Counts = %v", counts)
	}
}

// The table must agree with a direct arg-max over every face.
func TestBuildTableMatchesArgMax(t *testing.T) {
	m := stripMesh(t)
	weights := [][]float64{
		{0.1, 0.3, 0.6},
		{0.5, 0.25, 0.25},
		{0.2, 0.7, 0.1},
		{0.9, 0.05, 0.05},
		{0.0, 0.5, 0.5},
	}
	skin := newSkin(t, []rig.JointID{"|a", "|b", "|c"}, weights)
	table, err := BuildTable(m, skin)
	if err != nil {
		t.Fatal(err)
	}
	for face := 0; face < m.PolygonCount(); face++ {
		sums := make([]float64, 3)
		for _, v := range m.PolygonVertices(face) {
			for i, w := range weights[v] {
				sums[i] += w
			}
		}
		best := 0
		for i := 1; i < 3; i++ {
			if sums[i] > sums[best] {
				best = i
			}
		}
		if got, _ := table.Influence(face); got != best {
			t.Errorf("face %d: table %d, arg-max %d (sums %v)", face, got, best, sums)
		}
	}
}

func TestBuildTableTieBreak(t *testing.T) {
	pos := []v3.Vec{{}, {X: 1}, {Y: 1}}
	m, err := rig.NewMesh(pos, [][]int{{0, 1, 2}})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		weights [][]float64
		want    int
	}{
		{"exact tie keeps lowest index", [][]float64{{0, 0.5, 0.5}, {0, 0.5, 0.5}, {0, 0.5, 0.5}}, 1},
		{"three-way tie", [][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}, 0},
		{"all zero resolves to zero", [][]float64{{0, 0, 0}, {0, 0, 0}, {0, 0, 0}}, 0},
		{"later strictly greater wins", [][]float64{{0.3, 0, 0.7}, {0.3, 0, 0.7}, {0.3, 0, 0.7}}, 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			skin := newSkin(t, []rig.JointID{"|a", "|b", "|c"}, tc.weights)
			table, err := BuildTable(m, skin)
			if err != nil {
				t.Fatal(err)
			}
			if got, _ := table.Influence(0); got != tc.want {
				t.Errorf("influence = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestBuildTableErrors(t *testing.T) {
	m := stripMesh(t)
	if _, err := BuildTable(m, newSkin(t, nil, nil)); !errors.Is(err, ErrNoInfluences) {
		t.Errorf("err = %v, want ErrNoInfluences", err)
	}

	table, err := BuildTable(m, newSkin(t, []rig.JointID{"|a"}, [][]float64{{1}, {1}, {1}, {1}, {1}}))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := table.Influence(3); !errors.Is(err, ErrFaceOutOfRange) {
		t.Errorf("err = %v, want ErrFaceOutOfRange", err)
	}
	if _, err := table.Influence(-1); !errors.Is(err, ErrFaceOutOfRange) {
		t.Errorf("err = %v, want ErrFaceOutOfRange", err)
	}
}

// ---------------------------------------------------------------------------
// BuildJointIndex
// ---------------------------------------------------------------------------

func TestBuildJointIndex(t *testing.T) {
	skel, root, a, b := threeJoints(t)
	skin := newSkin(t, []rig.JointID{root, a, b}, nil)

	x := BuildJointIndex(skin, skel, false)
	if got := x.LongestSegment(); got != 4 {
		t.Errorf("LongestSegment = %v, want 4", got)
	}
	e, ok := x.Lookup(root)
	if !ok || e.Influence != 0 || e.Styles != StyleRotate {
		t.Errorf("root entry = %+v, %v", e, ok)
	}
	e, ok = x.Lookup(b)
	if !ok || e.Influence != 2 || e.Styles != StyleTranslate {
		t.Errorf("leaf entry = %+v, %v", e, ok)
	}
	if id, ok := x.Joint(1); !ok || id != a {
		t.Errorf("Joint(1) = %q, %v", id, ok)
	}
	if _, ok := x.Joint(3); ok {
		t.Error("Joint(3) should fail")
	}

	leafy := BuildJointIndex(skin, skel, true)
	if e, _ := leafy.Lookup(a); e.Styles != StyleRotate|StyleTranslate {
		t.Errorf("leaf styles with leafStyles = %v, want rt", e.Styles)
	}
	if e, _ := leafy.Lookup(root); e.Styles != StyleRotate {
		t.Errorf("inner styles with leafStyles = %v, want r", e.Styles)
	}
}

// The root's own placement must not count toward the longest segment.
func TestLongestSegmentIgnoresRootOffset(t *testing.T) {
	skel := rig.NewSkeleton()
	root, _ := skel.AddJoint("root", rig.NoJoint, v3.Vec{Y: 100})
	c, _ := skel.AddJoint("c", root, v3.Vec{X: 3})
	x := BuildJointIndex(newSkin(t, []rig.JointID{root, c}, nil), skel, false)
	if got := x.LongestSegment(); got != 3 {
		t.Errorf("LongestSegment = %v, want 3", got)
	}
	if got := ChildSegment(skel, c); got != 0 {
		t.Errorf("leaf ChildSegment = %v, want 0", got)
	}
}

func TestJointIndexFind(t *testing.T) {
	skel, root, a, _ := threeJoints(t)
	x := BuildJointIndex(newSkin(t, []rig.JointID{root, a}, nil), skel, false)
	if id, ok := x.Find("a"); !ok || id != a {
		t.Errorf("Find(a) = %q, %v", id, ok)
	}
	if id, ok := x.Find("|root"); !ok || id != root {
		t.Errorf("Find(|root) = %q, %v", id, ok)
	}
	if _, ok := x.Find("b"); ok {
		t.Error("b is not an influence")
	}
}
