// Package render draws resolved electrical axes onto the triaxial reference
// diagram.
package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/heartaxis/internal/axis"
)

// Renderer turns a resolved axis into an image.
type Renderer interface {
	Render(w io.Writer, v axis.ResolvedVector) error
}

// Options controls the diagram layout. Zero values select the defaults.
type Options struct {
	// Extent is the half-width of the triaxial lines in lead units.
	Extent float64
	// VectorScale multiplies the resultant arrow.
	VectorScale float64
	// Size is the width and height of the output image.
	Size vg.Length
	// Format is any format accepted by plot.WriterTo ("png", "svg", ...).
	Format string
}

const (
	defaultExtent      = 4.0
	defaultVectorScale = 2.0
	defaultSize        = 6 * vg.Inch
	defaultFormat      = "png"
)

func (o Options) withDefaults() Options {
	if o.Extent <= 0 {
		o.Extent = defaultExtent
	}
	if o.VectorScale <= 0 {
		o.VectorScale = defaultVectorScale
	}
	if o.Size <= 0 {
		o.Size = defaultSize
	}
	if o.Format == "" {
		o.Format = defaultFormat
	}
	return o
}

// PlotRenderer renders with gonum/plot. It holds no mutable state and is
// safe for concurrent use.
type PlotRenderer struct {
	opts Options
}

// NewPlotRenderer returns a renderer using opts, with defaults filled in.
func NewPlotRenderer(opts Options) *PlotRenderer {
	return &PlotRenderer{opts: opts.withDefaults()}
}

// ContentType returns the MIME type of the rendered images.
func (r *PlotRenderer) ContentType() string {
	switch r.opts.Format {
	case "svg":
		return "image/svg+xml"
	case "pdf":
		return "application/pdf"
	case "jpg", "jpeg":
		return "image/jpeg"
	default:
		return "image/png"
	}
}

// Render draws v and writes the encoded image to w.
func (r *PlotRenderer) Render(w io.Writer, v axis.ResolvedVector) error {
	p, err := r.diagram(v)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(r.opts.Size, r.opts.Size, r.opts.Format)
	if err != nil {
		return fmt.Errorf("failed to encode diagram: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write diagram: %w", err)
	}
	return nil
}

// RenderBase64 renders v with r and returns the image as standard base64.
func RenderBase64(r Renderer, v axis.ResolvedVector) (string, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, v); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func (r *PlotRenderer) diagram(v axis.ResolvedVector) (*plot.Plot, error) {
	k := r.opts.Extent

	p := plot.New()
	p.HideAxes()
	p.X.Min, p.X.Max = -k-1.5, k+1
	p.Y.Min, p.Y.Max = -k-1.5, k+1

	for _, s := range Sectors() {
		poly, err := plotter.NewPolygon(arcXYs(k, s.From, s.To, true))
		if err != nil {
			return nil, err
		}
		poly.Color = s.Color
		poly.LineStyle.Width = 0
		p.Add(poly)
	}

	for _, line := range triaxialLines(k) {
		if err := addSegment(p, line[0], line[1], color.Black, 1); err != nil {
			return nil, err
		}
	}

	labels, err := plotter.NewLabels(diagramLabels(k, v))
	if err != nil {
		return nil, err
	}
	p.Add(labels)

	if v.Quadrant == axis.QuadrantNone {
		return p, nil
	}

	tip := arrowTip(v, k, r.opts.VectorScale)
	if err := addSegment(p, r2.Vec{}, tip, color.Black, 2); err != nil {
		return nil, err
	}
	for _, head := range arrowHead(tip) {
		if err := addSegment(p, tip, head, color.Black, 2); err != nil {
			return nil, err
		}
	}

	radius := math.Min(v.Magnitude/2, k)
	if radius > 0 && v.Angle != 0 {
		arc, err := plotter.NewLine(arcXYs(radius, 0, v.Angle, false))
		if err != nil {
			return nil, err
		}
		arc.Color = color.Black
		p.Add(arc)
	}
	return p, nil
}

func addSegment(p *plot.Plot, from, to r2.Vec, c color.Color, width float64) error {
	l, err := plotter.NewLine(plotter.XYs{{X: from.X, Y: from.Y}, {X: to.X, Y: to.Y}})
	if err != nil {
		return err
	}
	l.Color = c
	l.Width = vg.Points(width)
	p.Add(l)
	return nil
}

// plotDir converts a clinical angle in degrees to a plot-space unit vector.
func plotDir(clinicalDeg float64) r2.Vec {
	rad := -clinicalDeg * math.Pi / 180
	return r2.Vec{X: math.Cos(rad), Y: math.Sin(rad)}
}

// arcXYs samples an arc of the given radius between two clinical angles.
// When closed is set the origin is appended so the points form a wedge.
func arcXYs(radius, fromDeg, toDeg float64, closed bool) plotter.XYs {
	const steps = 50
	pts := make(plotter.XYs, 0, steps+2)
	for i := 0; i <= steps; i++ {
		d := fromDeg + (toDeg-fromDeg)*float64(i)/steps
		u := r2.Scale(radius, plotDir(d))
		pts = append(pts, plotter.XY{X: u.X, Y: u.Y})
	}
	if closed {
		pts = append(pts, plotter.XY{})
	}
	return pts
}

// triaxialLines returns the three reference lines plus the tick marks at
// every whole lead unit along them.
func triaxialLines(k float64) [][2]r2.Vec {
	var lines [][2]r2.Vec
	for _, u := range []r2.Vec{axis.LeadIAxis, axis.LeadIIIAxis, axis.LeadIIAxis} {
		lines = append(lines, [2]r2.Vec{r2.Scale(-k, u), r2.Scale(k, u)})
		perp := r2.Vec{X: -0.1 * u.Y, Y: 0.1 * u.X}
		for j := 1.0; j <= k; j++ {
			for _, sign := range []float64{1, -1} {
				c := r2.Scale(sign*j, u)
				lines = append(lines, [2]r2.Vec{r2.Sub(c, perp), r2.Add(c, perp)})
			}
		}
	}
	return lines
}

func arrowTip(v axis.ResolvedVector, k, scale float64) r2.Vec {
	tip := r2.Scale(scale, axis.Resultant(v.Leads.Lead1, v.Leads.Lead3))
	if n := r2.Norm(tip); n > k {
		tip = r2.Scale(k/n, tip)
	}
	return tip
}

func arrowHead(tip r2.Vec) [2]r2.Vec {
	n := r2.Norm(tip)
	if n == 0 {
		return [2]r2.Vec{tip, tip}
	}
	back := r2.Scale(-0.25/n, tip)
	side := r2.Vec{X: -back.Y * 0.5, Y: back.X * 0.5}
	return [2]r2.Vec{r2.Add(r2.Add(tip, back), side), r2.Sub(r2.Add(tip, back), side)}
}

func diagramLabels(k float64, v axis.ResolvedVector) plotter.XYLabels {
	var l plotter.XYLabels
	add := func(at r2.Vec, text string) {
		l.XYs = append(l.XYs, plotter.XY{X: at.X, Y: at.Y})
		l.Labels = append(l.Labels, text)
	}

	add(r2.Scale(k, axis.LeadIAxis), "Lead I")
	add(r2.Add(r2.Scale(k, axis.LeadIIIAxis), r2.Vec{Y: 0.5}), "Lead III")
	add(r2.Add(r2.Scale(k, axis.LeadIIAxis), r2.Vec{X: -0.5, Y: 0.5}), "Lead II")

	for _, deg := range []float64{0, -60, -120, 180, 120, 60} {
		add(r2.Scale(k+0.3, plotDir(deg)), fmt.Sprintf("%+.0f", deg))
	}
	for _, deg := range []float64{-30, -80, -100, 100, 80} {
		add(r2.Scale(k*0.85, plotDir(deg)), fmt.Sprintf("%.0f", deg))
	}

	add(r2.Vec{X: -k - 1.3, Y: -k + 0.2}, fmt.Sprintf("Magnitude: %.2f", v.Magnitude))
	add(r2.Vec{X: -k - 1.3, Y: -k - 0.3}, fmt.Sprintf("Angle: %.0f", v.Angle))
	add(r2.Vec{X: -k - 1.3, Y: -k - 0.8}, fmt.Sprintf("Diagnosis: %s", v.Diagnosis))
	return l
}
