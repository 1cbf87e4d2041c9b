package reports

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/ledgermate/ledgermate/internal/model"
)

// RenderMonthlyExpenseChart draws a bar chart of expense totals for the
// last twelve months. Returns nil bytes when there is nothing to draw.
func RenderMonthlyExpenseChart(entries []entry, now time.Time) ([]byte, error) {
	totals := map[string]float64{}
	for _, e := range entries {
		if e.kind != model.KindExpense {
			continue
		}
		totals[e.date.Format("2006-01")] += e.amount.InexactFloat64()
	}
	if len(totals) == 0 {
		return nil, nil
	}

	keys := make([]string, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) > 12 {
		keys = keys[len(keys)-12:]
	}

	bars := make([]chart.Value, 0, len(keys))
	for _, k := range keys {
		t, _ := time.Parse("2006-01", k)
		bars = append(bars, chart.Value{
			Label: t.Format("Jan"),
			Value: totals[k],
		})
	}

	graph := chart.BarChart{
		Title:  "Monthly expenses",
		Width:  900,
		Height: 450,
		Background: chart.Style{
			Padding:   chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
			FillColor: chart.ColorWhite,
		},
		BarWidth: 50,
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("$%.0f", f)
				}
				return ""
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render bar chart: %w", err)
	}
	return buf.Bytes(), nil
}
