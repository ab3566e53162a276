package api

import (
	"bytes"
	"fmt"
	"math"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/heartaxis/internal/axis"
	"github.com/banshee-data/heartaxis/internal/db"
	"github.com/banshee-data/heartaxis/internal/httputil"
)

// diagnosisOrder lists every label a stored result can carry, in table order.
func diagnosisOrder() []string {
	ranges := axis.Ranges()
	labels := make([]string, 0, len(ranges)+1)
	for _, rg := range ranges {
		labels = append(labels, rg.Label.String())
	}
	return append(labels, axis.DeviationError.String())
}

// handleAxisChart renders stored results as a scatter in the frontal plane
// (positive angles point down, as on the diagram) and a bar chart of
// diagnosis counts. Query params:
//   - patient_id (optional) restricts the scatter to one patient
func (s *Server) handleAxisChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	var (
		results []db.AxisResult
		err     error
	)
	patientID := r.URL.Query().Get("patient_id")
	if patientID != "" {
		results, err = s.db.AxisResultsByPatient(patientID)
	} else {
		results, err = s.db.AxisResults(s.cfg.GetResultLimit())
	}
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to retrieve result vectors: %v", err))
		return
	}

	counts, err := s.db.DiagnosisCounts()
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to count diagnoses: %v", err))
		return
	}

	page := components.NewPage()
	page.AddCharts(axisScatter(results, patientID), diagnosisBar(counts))

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("render error: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func axisScatter(results []db.AxisResult, patientID string) *charts.Scatter {
	series := make(map[string][]opts.ScatterData)
	maxMag := 1.0
	for _, res := range results {
		rad := res.Angle * math.Pi / 180
		x := res.Magnitude * math.Cos(rad)
		y := -res.Magnitude * math.Sin(rad)
		series[res.Diagnosis] = append(series[res.Diagnosis], opts.ScatterData{
			Value: []interface{}{x, y, res.Angle, res.Magnitude},
			Name:  res.ID,
		})
		maxMag = math.Max(maxMag, res.Magnitude)
	}
	pad := math.Ceil(maxMag * 1.1)

	subtitle := fmt.Sprintf("results=%d", len(results))
	if patientID != "" {
		subtitle = fmt.Sprintf("patient=%s results=%d", patientID, len(results))
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Electrical Axis", Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: "Resultant Vectors", Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: -pad, Max: pad, Name: "Lead I", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: -pad, Max: pad, Name: "aVF (inverted)", NameLocation: "middle", NameGap: 30}),
	)
	for _, label := range diagnosisOrder() {
		if pts, ok := series[label]; ok {
			scatter.AddSeries(label, pts, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 8}))
		}
	}
	return scatter
}

func diagnosisBar(counts map[string]int) *charts.Bar {
	labels := diagnosisOrder()
	y := make([]opts.BarData, len(labels))
	for i, label := range labels {
		y[i] = opts.BarData{Value: counts[label]}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: "Diagnoses"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(labels).
		AddSeries("results", y,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)
	return bar
}
