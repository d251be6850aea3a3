// Package snapshot renders an influence map of a bound mesh: every face
// filled with the color of its dominant joint, the highlighted and selected
// joints emphasized, and the active manipulator drawn on top.
package snapshot

import (
	"errors"
	"fmt"
	"image"
	"math"
	"sort"

	"github.com/chazu/mannequin/pkg/geom"
	"github.com/chazu/mannequin/pkg/mannequin"
	"github.com/chazu/mannequin/pkg/manip"
	"github.com/chazu/mannequin/pkg/rig"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/gogpu/gg"
)

// ErrNothingToDraw is returned for a scene without a mesh.
var ErrNothingToDraw = errors.New("snapshot: no mesh to draw")

// Colors used for emphasis and handles.
const (
	BackgroundColor = "#20242b"
	SelectedColor   = "#ffd24a"
	ActiveAxisColor = "#ffff00"
	RotateColor     = "#c0c0c0"
)

var axisColors = [3]string{"#e5484d", "#46a758", "#3e63dd"}

// Scene is everything a snapshot draws.
type Scene struct {
	Mesh          rig.MeshProvider
	FaceInfluence []int         // dominant influence per face
	Joints        []rig.JointID // influence index to joint
	Highlight     rig.JointID
	Selected      rig.JointID
	Handle        manip.Geometry
}

// SceneFromTool captures the tool's current state.
func SceneFromTool(t *mannequin.Tool) (Scene, error) {
	faces, joints, ok := t.FaceInfluences()
	if !ok {
		return Scene{}, mannequin.ErrNotBound
	}
	return Scene{
		Mesh:          t.Mesh(),
		FaceInfluence: faces,
		Joints:        joints,
		Highlight:     t.CurrentHighlight(),
		Selected:      t.CurrentSelection().Joint,
		Handle:        t.CurrentManipulatorGeometry(),
	}, nil
}

// Options control the output image.
type Options struct {
	// Supersample renders at this multiple of the viewport size and scales
	// down. Values below 2 render directly.
	Supersample int
	Background  string // hex color; empty means BackgroundColor
	HideHandle  bool
}

type face struct {
	index int
	depth float64
	pts   []v2.Vec
	shade float64
}

// Render draws s as seen through vp. The image has the viewport's size.
func Render(s Scene, vp *geom.Viewport, opts Options) (image.Image, error) {
	if s.Mesh == nil || s.Mesh.PolygonCount() == 0 {
		return nil, ErrNothingToDraw
	}
	if len(s.FaceInfluence) != s.Mesh.PolygonCount() {
		return nil, fmt.Errorf("snapshot: %d face influences for %d faces",
			len(s.FaceInfluence), s.Mesh.PolygonCount())
	}
	ss := max(opts.Supersample, 1)
	w, h := int(math.Round(vp.Width)), int(math.Round(vp.Height))

	dc := gg.NewContext(w*ss, h*ss)
	defer dc.Close()
	bg := opts.Background
	if bg == "" {
		bg = BackgroundColor
	}
	dc.ClearWithColor(gg.Hex(bg))

	project := func(p v3.Vec) (v2.Vec, bool) {
		q, ok := vp.WorldToView(p)
		return q.MulScalar(float64(ss)), ok
	}

	faces := visibleFaces(s.Mesh, vp, project)
	// Far to near.
	sort.SliceStable(faces, func(i, j int) bool { return faces[i].depth > faces[j].depth })

	for _, f := range faces {
		r, g, b := faceColor(s, f.index)
		dc.SetRGB(r*f.shade, g*f.shade, b*f.shade)
		dc.MoveTo(f.pts[0].X, f.pts[0].Y)
		for _, p := range f.pts[1:] {
			dc.LineTo(p.X, p.Y)
		}
		dc.ClosePath()
		if err := dc.Fill(); err != nil {
			return nil, fmt.Errorf("snapshot: fill face %d: %w", f.index, err)
		}
	}

	if !opts.HideHandle {
		if err := drawHandle(dc, s.Handle, vp, project, float64(ss)); err != nil {
			return nil, err
		}
	}

	img := dc.Image()
	if ss > 1 {
		img = Downsample(img, w, h)
	}
	return img, nil
}

func visibleFaces(m rig.MeshProvider, vp *geom.Viewport, project func(v3.Vec) (v2.Vec, bool)) []face {
	var out []face
	for i := range m.PolygonCount() {
		vs := m.PolygonVertices(i)
		f := face{index: i, pts: make([]v2.Vec, 0, len(vs))}
		var center v3.Vec
		visible := true
		for _, v := range vs {
			p := m.VertexPosition(v)
			center = center.Add(p)
			q, ok := project(p)
			if !ok {
				visible = false
				break
			}
			f.pts = append(f.pts, q)
		}
		if !visible {
			continue
		}
		center = center.MulScalar(1 / float64(len(vs)))
		f.depth = vp.Depth(center)

		// Two-sided lambert against the view direction.
		a := m.VertexPosition(vs[0])
		n := m.VertexPosition(vs[1]).Sub(a).Cross(m.VertexPosition(vs[2]).Sub(a))
		f.shade = 1
		if l := n.Length(); l > 0 {
			f.shade = 0.35 + 0.65*math.Abs(n.Dot(vp.Forward()))/l
		}
		out = append(out, f)
	}
	return out
}

// faceColor is the base color of a face: the selection color for the
// selected joint, a lightened palette color for the highlighted one.
func faceColor(s Scene, idx int) (r, g, b float64) {
	inf := s.FaceInfluence[idx]
	var joint rig.JointID
	if inf >= 0 && inf < len(s.Joints) {
		joint = s.Joints[inf]
	}
	switch {
	case !joint.IsZero() && joint == s.Selected:
		c := gg.Hex(SelectedColor)
		return c.R, c.G, c.B
	case !joint.IsZero() && joint == s.Highlight:
		r, g, b = Palette(inf)
		return lighten(r), lighten(g), lighten(b)
	}
	return Palette(inf)
}

func lighten(c float64) float64 { return c + (1-c)*0.5 }

// Palette returns the color of an influence index. Hues step by the golden
// angle.
func Palette(influence int) (r, g, b float64) {
	if influence < 0 {
		return 0.5, 0.5, 0.5
	}
	hue := math.Mod(float64(influence)*137.508, 360)
	return hsv(hue, 0.55, 0.85)
}

func hsv(h, s, v float64) (r, g, b float64) {
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return r + m, g + m, b + m
}

func drawHandle(dc *gg.Context, g manip.Geometry, vp *geom.Viewport, project func(v3.Vec) (v2.Vec, bool), ss float64) error {
	switch g.Kind {
	case manip.KindRotate:
		c, ok := project(g.Center)
		if !ok {
			return nil
		}
		right := vp.Forward().Cross(vp.Up)
		if l := right.Length(); l > 0 {
			right = right.MulScalar(1 / l)
		}
		e, ok := project(g.Center.Add(right.MulScalar(g.Radius)))
		if !ok {
			return nil
		}
		dc.SetHexColor(RotateColor)
		dc.SetLineWidth(2 * ss)
		dc.DrawCircle(c.X, c.Y, e.Sub(c).Length())
		return dc.Stroke()

	case manip.KindMove:
		o, ok := project(g.Center)
		if !ok {
			return nil
		}
		for i, end := range g.Ends {
			e, ok := project(end)
			if !ok {
				continue
			}
			col := axisColors[i]
			if manip.Axis(i) == g.Active {
				col = ActiveAxisColor
			}
			dc.SetHexColor(col)
			dc.SetLineWidth(2 * ss)
			dc.DrawLine(o.X, o.Y, e.X, e.Y)
			if err := dc.Stroke(); err != nil {
				return err
			}
			dc.DrawCircle(e.X, e.Y, 3*ss)
			if err := dc.Fill(); err != nil {
				return err
			}
		}
	}
	return nil
}
