package mapview

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kasinav/kasi-nav/internal/core/domain"
)

// ErrSingular is returned when a transform cannot be inverted.
var ErrSingular = errors.New("mapview: singular transform")

// DefaultViewBox is the coordinate space the township map is drawn in.
var DefaultViewBox = ViewBox{MinX: 0, MinY: 0, Width: 1000, Height: 800}

// Matrix is a 2-D affine transform in SVG order:
//
//	| A C E |
//	| B D F |
//	| 0 0 1 |
type Matrix struct {
	A, B, C, D, E, F float64
}

// Identity is the transform that leaves points unchanged.
var Identity = Matrix{A: 1, D: 1}

// Apply maps p through m.
func (m Matrix) Apply(p domain.Point) domain.Point {
	return domain.Point{
		X: m.A*p.X + m.C*p.Y + m.E,
		Y: m.B*p.X + m.D*p.Y + m.F,
	}
}

// Multiply returns m·n, i.e. n applied first and m second.
func (m Matrix) Multiply(n Matrix) Matrix {
	return Matrix{
		A: m.A*n.A + m.C*n.B,
		B: m.B*n.A + m.D*n.B,
		C: m.A*n.C + m.C*n.D,
		D: m.B*n.C + m.D*n.D,
		E: m.A*n.E + m.C*n.F + m.E,
		F: m.B*n.E + m.D*n.F + m.F,
	}
}

// Determinant of the linear part.
func (m Matrix) Determinant() float64 {
	return m.A*m.D - m.B*m.C
}

// Invert returns the exact inverse of m.
func (m Matrix) Invert() (Matrix, error) {
	det := m.Determinant()
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return Matrix{}, ErrSingular
	}
	return Matrix{
		A: m.D / det,
		B: -m.B / det,
		C: -m.C / det,
		D: m.A / det,
		E: (m.C*m.F - m.D*m.E) / det,
		F: (m.B*m.E - m.A*m.F) / det,
	}, nil
}

// ViewBox is the user-space rectangle of an SVG viewBox attribute.
type ViewBox struct {
	MinX, MinY, Width, Height float64
}

// ParseViewBox reads "min-x min-y width height", separated by spaces and/or
// commas. An empty string yields DefaultViewBox.
func ParseViewBox(s string) (ViewBox, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n'
	})
	if len(fields) == 0 {
		return DefaultViewBox, nil
	}
	if len(fields) != 4 {
		return ViewBox{}, fmt.Errorf("mapview: viewBox %q: want 4 numbers, got %d", s, len(fields))
	}
	var v [4]float64
	for i, f := range fields {
		n, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return ViewBox{}, fmt.Errorf("mapview: viewBox %q: %w", s, err)
		}
		v[i] = n
	}
	vb := ViewBox{MinX: v[0], MinY: v[1], Width: v[2], Height: v[3]}
	if vb.Width <= 0 || vb.Height <= 0 {
		return ViewBox{}, fmt.Errorf("mapview: viewBox %q: width and height must be positive", s)
	}
	return vb, nil
}

func (v ViewBox) String() string {
	return fmt.Sprintf("%s %s %s %s", num(v.MinX), num(v.MinY), num(v.Width), num(v.Height))
}

// Viewport is the on-screen rectangle the map element occupies, in pixels.
type Viewport struct {
	Left, Top, Width, Height float64
}

// ViewTransform relates map coordinates to screen coordinates for one
// rendering of the map.
type ViewTransform struct {
	ViewBox  ViewBox
	Viewport Viewport
}

// CTM is the map-to-screen matrix under preserveAspectRatio="xMidYMid meet":
// uniform scale to fit, centred on both axes.
func (t ViewTransform) CTM() (Matrix, error) {
	vb, vp := t.ViewBox, t.Viewport
	if vb.Width <= 0 || vb.Height <= 0 || vp.Width <= 0 || vp.Height <= 0 {
		return Matrix{}, ErrSingular
	}
	s := math.Min(vp.Width/vb.Width, vp.Height/vb.Height)
	tx := vp.Left + (vp.Width-vb.Width*s)/2 - vb.MinX*s
	ty := vp.Top + (vp.Height-vb.Height*s)/2 - vb.MinY*s
	return Matrix{A: s, D: s, E: tx, F: ty}, nil
}

// MapToScreen projects a map point onto the screen.
func (t ViewTransform) MapToScreen(p domain.Point) (domain.Point, error) {
	m, err := t.CTM()
	if err != nil {
		return domain.Point{}, err
	}
	return m.Apply(p), nil
}

// ScreenToMap converts a click position back to map coordinates using the
// inverse of the current CTM.
func (t ViewTransform) ScreenToMap(p domain.Point) (domain.Point, error) {
	m, err := t.CTM()
	if err != nil {
		return domain.Point{}, err
	}
	inv, err := m.Invert()
	if err != nil {
		return domain.Point{}, err
	}
	return inv.Apply(p), nil
}

// num formats a coordinate without trailing zeros.
func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
