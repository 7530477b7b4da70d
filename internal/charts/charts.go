// Package charts renders the spending visualizations as self-contained
// HTML fragments. The heavy lifting is done client side by ECharts; this
// package only shapes the table into series.
package charts

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"expensetracker/internal/core"
)

// Chart kinds, used as cache keys by the HTTP layer.
const (
	KindCategory = "category"
	KindTimeline = "timeline"
)

// CategoryBar renders a bar chart of total spend per category.
func CategoryBar(w io.Writer, items []core.Expense) error {
	byCategory := core.SumByCategory(items)

	names := make([]string, 0, len(byCategory))
	values := make([]opts.BarData, 0, len(byCategory))
	for _, c := range byCategory {
		names = append(names, c.Name)
		values = append(values, opts.BarData{Value: c.Amount.Dollars()})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Spending by Category",
			Subtitle: subtitle(len(items)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "420px"}),
	)
	bar.SetXAxis(names).AddSeries("Spend ($)", values)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("render category chart: %w", err)
	}
	return nil
}

// TimelineLine renders a line chart of total spend per day, in
// chronological order.
func TimelineLine(w io.Writer, items []core.Expense) error {
	byDay := core.SumByDay(items)

	days := make([]string, 0, len(byDay))
	values := make([]opts.LineData, 0, len(byDay))
	for _, d := range byDay {
		days = append(days, d.Date.String())
		values = append(values, opts.LineData{Value: d.Amount.Dollars()})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Spending Over Time",
			Subtitle: subtitle(len(items)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "420px"}),
	)
	line.SetXAxis(days).AddSeries("Spend ($)", values,
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))

	if err := line.Render(w); err != nil {
		return fmt.Errorf("render timeline chart: %w", err)
	}
	return nil
}

// Render draws the chart identified by kind.
func Render(w io.Writer, kind string, items []core.Expense) error {
	switch kind {
	case KindCategory:
		return CategoryBar(w, items)
	case KindTimeline:
		return TimelineLine(w, items)
	default:
		return fmt.Errorf("unknown chart kind %q", kind)
	}
}

func subtitle(n int) string {
	if n == 0 {
		return "No expenses recorded yet"
	}
	return fmt.Sprintf("%d transactions", n)
}
