// Package charts renders analysis results as interactive HTML charts.
package charts

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/ramonehamilton/Deck-Analyzer/internal/mtga/deck"
	"github.com/ramonehamilton/Deck-Analyzer/internal/mtga/montecarlo"
)

// ChartConfig holds configuration for charts.
type ChartConfig struct {
	Title      string   // Chart title
	Subtitle   string   // Chart subtitle
	Width      string   // Chart width (e.g., "900px")
	Height     string   // Chart height (e.g., "500px")
	Theme      string   // Chart theme
	ShowLegend bool     // Show legend
	Colors     []string // Custom colors
}

// DefaultChartConfig returns default chart configuration.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Width:      "900px",
		Height:     "500px",
		Theme:      "light",
		ShowLegend: true,
		Colors:     []string{"#5470C6", "#91CC75", "#FAC858", "#EE6666", "#73C0DE", "#3BA272", "#FC8452", "#9A60B4", "#EA7CCC"},
	}
}

// DataPoint represents a single data point in a chart.
type DataPoint struct {
	Label string
	Value float64
}

// RenderRoleDistribution writes a bar chart of card counts per
// functional role. Roles follow the canonical graph order.
func RenderRoleDistribution(entries []deck.Entry, config ChartConfig, outputPath string) error {
	counts := make(map[deck.Role]int)
	for _, entry := range entries {
		counts[entry.RolePrimary] += entry.Count
	}

	data := make([]DataPoint, 0, len(deck.RoleOrder))
	for _, role := range deck.RoleOrder {
		data = append(data, DataPoint{Label: string(role), Value: float64(counts[role])})
	}

	if config.Title == "" {
		config.Title = "Role Distribution"
	}
	return RenderBarChart(data, "Cards", config, outputPath)
}

// RenderSwapDistribution writes a bar chart of the swap-1 simulation's
// structural power score percentiles against the base score.
func RenderSwapDistribution(result *montecarlo.Result, config ChartConfig, outputPath string) error {
	data := []DataPoint{
		{Label: "p05", Value: result.DistExt.Percentiles.P05},
		{Label: "p10", Value: result.DistExt.Percentiles.P10},
		{Label: "p25", Value: result.DistExt.Percentiles.P25},
		{Label: "p50", Value: result.DistExt.Percentiles.P50},
		{Label: "p75", Value: result.DistExt.Percentiles.P75},
		{Label: "p90", Value: result.DistExt.Percentiles.P90},
		{Label: "p95", Value: result.DistExt.Percentiles.P95},
		{Label: "base", Value: result.Base.SPS},
	}

	if config.Title == "" {
		config.Title = "Swap-1 Score Distribution"
	}
	if config.Subtitle == "" {
		config.Subtitle = fmt.Sprintf("robust %.1f, fragility %.0f over %d iterations",
			result.Metrics.RobustSPS, result.Metrics.Fragility, result.Dist.EffectiveN)
	}
	return RenderBarChart(data, "SPS", config, outputPath)
}

// RenderBarChart creates an interactive bar chart HTML file.
func RenderBarChart(data []DataPoint, seriesName string, config ChartConfig, outputPath string) error {
	bar := charts.NewBar()

	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  config.Width,
			Height: config.Height,
			Theme:  config.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    config.Title,
			Subtitle: config.Subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(config.ShowLegend),
		}),
		charts.WithColorsOpts(opts.Colors{
			config.Colors[0],
		}),
	)

	xLabels := make([]string, len(data))
	for i, point := range data {
		xLabels[i] = point.Label
	}

	yData := make([]opts.BarData, len(data))
	for i, point := range data {
		yData[i] = opts.BarData{Value: point.Value}
	}

	bar.SetXAxis(xLabels).
		AddSeries(seriesName, yData).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show: opts.Bool(false),
			}),
		)

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	if err := bar.Render(f); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}

	return nil
}

// OpenInBrowser opens the given file path in the default web browser.
func OpenInBrowser(filePath string) error {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", absPath)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", absPath)
	case "linux":
		cmd = exec.Command("xdg-open", absPath)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
