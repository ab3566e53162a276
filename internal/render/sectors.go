package render

import (
	"image/color"
	"math"

	"github.com/banshee-data/heartaxis/internal/axis"
)

// Sector is a shaded wedge of the diagram covering one deviation range.
type Sector struct {
	Label axis.Deviation
	From  float64
	To    float64
	Color color.Color
}

var sectorColors = map[axis.Deviation]color.NRGBA{
	axis.DeviationNone:          {R: 135, G: 206, B: 235, A: 128},
	axis.DeviationAbnormalLeft:  {R: 255, G: 0, B: 0, A: 128},
	axis.DeviationAbnormalRight: {R: 255, G: 255, B: 0, A: 128},
	axis.DeviationExtreme:       {R: 128, G: 0, B: 128, A: 128},
	axis.DeviationSuperior:      {R: 0, G: 128, B: 0, A: 128},
	axis.DeviationInferior:      {R: 255, G: 165, B: 0, A: 128},
}

// Sectors returns one wedge per classification range. Each range is widened
// by half a degree on both sides, the width absorbed by rounding, so that
// neighbouring wedges meet without gaps.
func Sectors() []Sector {
	ranges := axis.Ranges()
	out := make([]Sector, 0, len(ranges))
	for _, r := range ranges {
		out = append(out, Sector{
			Label: r.Label,
			From:  math.Max(r.Min-0.5, -180),
			To:    math.Min(r.Max+0.5, 180),
			Color: sectorColors[r.Label],
		})
	}
	return out
}
