package render

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/heartaxis/internal/axis"
)

func TestPlotRendererWritesPNG(t *testing.T) {
	r := NewPlotRenderer(Options{Size: 3 * vg.Inch})

	for _, leads := range []axis.LeadPair{{Lead1: 3, Lead3: -4}, {Lead1: -5, Lead3: -7}, {Lead1: 0, Lead3: 2}} {
		v, err := leads.Resolve()
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, r.Render(&buf, v))

		cfg, err := png.DecodeConfig(bytes.NewReader(buf.Bytes()))
		require.NoError(t, err, "%+v", leads)
		assert.Greater(t, cfg.Width, 0)
		assert.Equal(t, cfg.Width, cfg.Height)
	}
}

func TestPlotRendererIndeterminateAxis(t *testing.T) {
	v, err := axis.Resolve(0, 0)
	require.ErrorIs(t, err, axis.ErrIndeterminateAxis)

	var buf bytes.Buffer
	require.NoError(t, NewPlotRenderer(Options{}).Render(&buf, v))
	_, err = png.DecodeConfig(&buf)
	assert.NoError(t, err)
}

func TestRenderBase64(t *testing.T) {
	v, err := axis.Resolve(3, -4)
	require.NoError(t, err)

	s, err := RenderBase64(NewPlotRenderer(Options{Size: 2 * vg.Inch}), v)
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(s)
	require.NoError(t, err)
	_, err = png.DecodeConfig(bytes.NewReader(raw))
	assert.NoError(t, err)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "image/png", NewPlotRenderer(Options{}).ContentType())
	assert.Equal(t, "image/svg+xml", NewPlotRenderer(Options{Format: "svg"}).ContentType())
}

func TestSectorsTileTheCircle(t *testing.T) {
	sectors := Sectors()
	require.Len(t, sectors, 6)

	sort.Slice(sectors, func(i, j int) bool { return sectors[i].From < sectors[j].From })
	assert.Equal(t, -180.0, sectors[0].From)
	assert.Equal(t, 180.0, sectors[len(sectors)-1].To)
	for i := 1; i < len(sectors); i++ {
		assert.Equal(t, sectors[i-1].To, sectors[i].From, "gap before %s", sectors[i].Label)
	}
	for _, s := range sectors {
		assert.NotNil(t, s.Color, "%s", s.Label)
	}
}

func TestArrowTipClippedToExtent(t *testing.T) {
	v, err := axis.Resolve(1e6, -1e6)
	require.NoError(t, err)

	tip := arrowTip(v, 4, 2)
	assert.InDelta(t, 4.0, r2.Norm(tip), 1e-9)
	assert.InDelta(t, v.Angle, axis.ClinicalAngle(tip), 0.5)
}

func TestPlotDirMatchesClinicalConvention(t *testing.T) {
	for _, deg := range []float64{0, 60, -30, 120, -150} {
		assert.InDelta(t, deg, axis.ClinicalAngle(plotDir(deg)), 1e-9)
	}
}
