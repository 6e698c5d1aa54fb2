package report

import (
	"math"
	"reports-api/schemas"
	"strconv"

	colorful "github.com/lucasb-eyer/go-colorful"
)

const (
	NO_DATA_COLOR       = "#cccccc"
	DEFAULT_FILL_COLOR  = "#e5e7eb"
	SELECTED_FILL_COLOR = "#2166ac"

	MIN_BUBBLE_RADIUS   = 5.0
	DEFAULT_BUBBLE_SIZE = 20.0

	LEGEND_LABEL_DECIMALS = 2
)

// ColorBrewer RdBu, red (0) to blue (1).
var rdBuStops = mustParseHexes(
	"#67001f", "#b2182b", "#d6604d", "#f4a582", "#fddbc7", "#f7f7f7",
	"#d1e5f0", "#92c5de", "#4393c3", "#2166ac", "#053061",
)

var legendSteps = []float64{0, 0.25, 0.5, 0.75, 1}

type MapOptions struct {
	// Metric selects the value behind colors, radii and legend. Defaults to interventions.
	Metric string
	// BaseSize is the largest bubble radius. Defaults to DEFAULT_BUBBLE_SIZE.
	BaseSize float64
}

// ComputeMapMetrics aggregates reports per known region and derives the
// scales the map renders with for the given mode.
func ComputeMapMetrics(reports []schemas.Report, regions []string, mode string, opts MapOptions) schemas.MapMetrics {
	if mode != schemas.MAP_MODE_CHOROPLETH && mode != schemas.MAP_MODE_BUBBLE {
		mode = schemas.MAP_MODE_DEFAULT
	}
	metric := opts.Metric
	if metric != schemas.MAP_METRIC_IMPACT {
		metric = schemas.MAP_METRIC_INTERVENTIONS
	}
	baseSize := opts.BaseSize
	if baseSize <= 0 {
		baseSize = DEFAULT_BUBBLE_SIZE
	}

	counts := map[string]int{}
	impacts := map[string]float64{}
	for _, r := range reports {
		if r.InterventionCountry == "" {
			continue
		}
		counts[r.InterventionCountry]++
		impacts[r.InterventionCountry] += r.ImpactValue()
	}

	result := schemas.MapMetrics{
		Mode:    mode,
		Metric:  metric,
		Metrics: make([]schemas.RegionMetrics, 0, len(regions)),
	}

	seen := map[string]struct{}{}
	for _, region := range regions {
		if _, dup := seen[region]; dup {
			continue
		}
		seen[region] = struct{}{}

		m := schemas.RegionMetrics{
			Region:            region,
			InterventionCount: counts[region],
			TotalImpact:       impacts[region],
		}
		if m.InterventionCount > 0 {
			m.AverageImpact = m.TotalImpact / float64(m.InterventionCount)
		}

		result.MaxInterventions = max(result.MaxInterventions, m.InterventionCount)
		result.MaxImpact = max(result.MaxImpact, m.TotalImpact)
		result.Metrics = append(result.Metrics, m)
	}

	maxValue := maxFor(result, metric)
	for i := range result.Metrics {
		v := metricValue(result.Metrics[i], metric)
		switch mode {
		case schemas.MAP_MODE_CHOROPLETH:
			result.Metrics[i].Color = ChoroplethColor(v, maxValue)
		case schemas.MAP_MODE_BUBBLE:
			result.Metrics[i].Radius = BubbleSize(v, maxValue, baseSize)
		}
	}

	result.Legend = Legend(mode, maxValue, baseSize)
	return result
}

// ChoroplethScale is the position on the color ramp for v: v normalized
// against maxValue and inverted, so larger values sit toward the red end.
func ChoroplethScale(v, maxValue float64) float64 {
	if maxValue <= 0 {
		return 1
	}
	normalized := min(max(v/maxValue, 0), 1)
	return 1 - normalized
}

// ChoroplethColor returns NO_DATA_COLOR for zero values and otherwise the
// RdBu color at ChoroplethScale(v, maxValue).
func ChoroplethColor(v, maxValue float64) string {
	if v == 0 || maxValue <= 0 {
		return NO_DATA_COLOR
	}
	return interpolateRdBu(ChoroplethScale(v, maxValue)).Hex()
}

// BubbleSize maps v linearly from [0, maxValue] onto [MIN_BUBBLE_RADIUS, baseSize].
// Zero values and an all-zero dataset give no bubble.
func BubbleSize(v, maxValue, baseSize float64) float64 {
	if v == 0 || maxValue <= 0 {
		return 0
	}
	normalized := min(max(v/maxValue, 0), 1)
	return MIN_BUBBLE_RADIUS + normalized*(baseSize-MIN_BUBBLE_RADIUS)
}

func Legend(mode string, maxValue, baseSize float64) []schemas.LegendEntry {
	switch mode {
	case schemas.MAP_MODE_CHOROPLETH, schemas.MAP_MODE_BUBBLE:
		entries := make([]schemas.LegendEntry, 0, len(legendSteps))
		for _, step := range legendSteps {
			value := maxValue * step
			entry := schemas.LegendEntry{
				Label: legendLabel(value),
				Value: value,
			}
			if mode == schemas.MAP_MODE_CHOROPLETH {
				entry.Color = ChoroplethColor(value, maxValue)
			} else {
				entry.Radius = BubbleSize(value, maxValue, baseSize)
			}
			entries = append(entries, entry)
		}
		return entries
	}

	return []schemas.LegendEntry{
		{Label: "No selection", Color: DEFAULT_FILL_COLOR},
		{Label: "Selected", Color: SELECTED_FILL_COLOR},
	}
}

// legendLabel prints value with at most LEGEND_LABEL_DECIMALS decimals.
func legendLabel(value float64) string {
	scale := math.Pow(10, LEGEND_LABEL_DECIMALS)
	return strconv.FormatFloat(math.Round(value*scale)/scale, 'f', -1, 64)
}

func maxFor(m schemas.MapMetrics, metric string) float64 {
	if metric == schemas.MAP_METRIC_IMPACT {
		return m.MaxImpact
	}
	return float64(m.MaxInterventions)
}

func metricValue(m schemas.RegionMetrics, metric string) float64 {
	if metric == schemas.MAP_METRIC_IMPACT {
		return m.TotalImpact
	}
	return float64(m.InterventionCount)
}

func interpolateRdBu(t float64) colorful.Color {
	t = min(max(t, 0), 1)
	segments := float64(len(rdBuStops) - 1)
	pos := t * segments
	i := int(pos)
	if i >= len(rdBuStops)-1 {
		return rdBuStops[len(rdBuStops)-1]
	}
	return rdBuStops[i].BlendRgb(rdBuStops[i+1], pos-float64(i))
}

func mustParseHexes(hexes ...string) []colorful.Color {
	out := make([]colorful.Color, 0, len(hexes))
	for _, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			panic("invalid color " + h)
		}
		out = append(out, c)
	}
	return out
}
