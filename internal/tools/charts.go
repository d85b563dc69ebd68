package tools

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmcallan/rfin/internal/common"
	"github.com/bobmcallan/rfin/internal/interfaces"
	"github.com/bobmcallan/rfin/internal/models"
)

// ChartRenderer draws PNG artifacts for time-series and ranking tools and
// hands them to the sink. Chart output is a side channel: any failure here is
// logged and swallowed so the textual answer is never blocked.
type ChartRenderer struct {
	sink   interfaces.ChartSink
	logger *common.Logger
}

// NewChartRenderer creates a renderer over the given sink.
func NewChartRenderer(sink interfaces.ChartSink, logger *common.Logger) *ChartRenderer {
	return &ChartRenderer{sink: sink, logger: logger}
}

// SeriesPoint is one dated value of a line chart.
type SeriesPoint struct {
	Date  string
	Value float64
}

// BarValue is one labeled value of a bar chart.
type BarValue struct {
	Label string
	Value float64
}

// Line renders a dated line chart and returns the stored artifact name, or
// empty on failure.
func (r *ChartRenderer) Line(title, yLabel string, points []SeriesPoint) string {
	if r == nil || r.sink == nil {
		return ""
	}
	png, err := renderLinePNG(title, yLabel, points)
	if err != nil {
		r.logger.Warn().Err(err).Str("title", title).Msg("Line chart render failed")
		return ""
	}
	return r.store(title, png)
}

// Bar renders a labeled bar chart and returns the stored artifact name, or
// empty on failure.
func (r *ChartRenderer) Bar(title, yLabel string, values []BarValue) string {
	if r == nil || r.sink == nil {
		return ""
	}
	png, err := renderBarPNG(title, yLabel, values)
	if err != nil {
		r.logger.Warn().Err(err).Str("title", title).Msg("Bar chart render failed")
		return ""
	}
	return r.store(title, png)
}

func (r *ChartRenderer) store(title string, png []byte) string {
	name, err := r.sink.Render(artifactName(title), png)
	if err != nil {
		r.logger.Warn().Err(err).Str("title", title).Msg("Chart sink write failed")
		return ""
	}
	return name
}

// artifactName flattens a chart title into a filesystem-safe slug.
func artifactName(title string) string {
	var sb strings.Builder
	for _, c := range strings.ToLower(title) {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			sb.WriteRune(c)
		case c == ' ', c == '-', c == '_', c == '/':
			sb.WriteByte('_')
		}
	}
	return strings.Trim(sb.String(), "_") + ".png"
}

func renderLinePNG(title, yLabel string, points []SeriesPoint) ([]byte, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("need at least 2 data points, got %d", len(points))
	}

	xValues := make([]time.Time, len(points))
	yValues := make([]float64, len(points))
	for i, p := range points {
		t, err := time.Parse(models.DateLayout, p.Date)
		if err != nil {
			return nil, fmt.Errorf("bad series date %q: %w", p.Date, err)
		}
		xValues[i] = t
		yValues[i] = p.Value
	}

	graph := chart.Chart{
		Title:  title,
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("Jan 02")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			Name: yLabel,
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name: yLabel,
				Style: chart.Style{
					StrokeColor: drawing.ColorFromHex("2563eb"),
					StrokeWidth: 2.5,
				},
				XValues: xValues,
				YValues: yValues,
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}

func renderBarPNG(title, yLabel string, values []BarValue) ([]byte, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("no values to chart")
	}

	bars := make([]chart.Value, len(values))
	for i, v := range values {
		bars[i] = chart.Value{Label: v.Label, Value: v.Value}
	}

	graph := chart.BarChart{
		Title:  title,
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		YAxis: chart.YAxis{
			Name: yLabel,
		},
		BarWidth: 48,
		Bars:     bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}
