// Command airtrace-report renders an offline run report from an
// internal/store database: a step plot of mode transitions over the run
// and an HTML chart of per-route federation latency against its budget.
package main

import (
	"bytes"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/airtrace/core/internal/diag"
	"github.com/airtrace/core/internal/mode"
	"github.com/airtrace/core/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("airtrace-report", flag.ContinueOnError)
	dbPath := fs.String("db", "", "path to the sqlite store written by airtrace-sim")
	outDir := fs.String("out-dir", "report", "directory to write report files into")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *dbPath == "" {
		diag.Logf("airtrace-report: -db is required")
		return 2
	}

	db, err := store.Open(*dbPath)
	if err != nil {
		diag.Logf("airtrace-report: opening store: %v", err)
		return 1
	}
	defer db.Close()

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		diag.Logf("airtrace-report: creating %s: %v", *outDir, err)
		return 1
	}

	ticks, err := readTicks(db.DB)
	if err != nil {
		diag.Logf("airtrace-report: reading tick history: %v", err)
		return 1
	}
	if len(ticks) == 0 {
		diag.Logf("airtrace-report: no tick records found in audit_log; run airtrace-sim first")
	} else {
		modePlotPath := filepath.Join(*outDir, "mode_transitions.png")
		if err := writeModeTransitionPlot(ticks, modePlotPath); err != nil {
			diag.Logf("airtrace-report: writing %s: %v", modePlotPath, err)
			return 1
		}
		diag.Logf("airtrace-report: wrote %s (%d ticks)", modePlotPath, len(ticks))
	}

	routes, err := readRouteLatencies(db.DB)
	if err != nil {
		diag.Logf("airtrace-report: reading federation frame history: %v", err)
		return 1
	}
	if len(routes) == 0 {
		diag.Logf("airtrace-report: no federation_frames rows found; federation was not enabled for this run")
	} else {
		latencyPath := filepath.Join(*outDir, "latency.html")
		if err := writeLatencyChart(routes, latencyPath); err != nil {
			diag.Logf("airtrace-report: writing %s: %v", latencyPath, err)
			return 1
		}
		diag.Logf("airtrace-report: wrote %s (%d routes)", latencyPath, len(routes))
	}

	return 0
}

// tickRecord is one audit_log "tick" event, parsed back into its fields.
type tickRecord struct {
	Tick       int
	Mode       string
	Reason     string
	Confidence float64
}

// readTicks reads every audit_log row logged by airtrace-sim's per-tick
// "tick" event (message "mode=<m> reason=<r> confidence=<c>", detail
// "tick=<n>"), in the order they were written.
func readTicks(db *sql.DB) ([]tickRecord, error) {
	rows, err := db.Query(`SELECT message, detail FROM audit_log WHERE event = 'tick' ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query audit_log: %w", err)
	}
	defer rows.Close()

	var out []tickRecord
	for rows.Next() {
		var message, detail string
		if err := rows.Scan(&message, &detail); err != nil {
			return nil, err
		}
		rec, ok := parseTickRecord(message, detail)
		if !ok {
			continue
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func parseTickRecord(message, detail string) (tickRecord, bool) {
	fields := parseFieldString(message)
	tickFields := parseFieldString(detail)

	modeName, ok := fields["mode"]
	if !ok {
		return tickRecord{}, false
	}
	confidence, _ := strconv.ParseFloat(fields["confidence"], 64)
	tick, _ := strconv.Atoi(tickFields["tick"])

	return tickRecord{
		Tick:       tick,
		Mode:       modeName,
		Reason:     fields["reason"],
		Confidence: confidence,
	}, true
}

// parseFieldString splits a space-separated "key=value key2=value2" string
// into a map, the inverse of the fmt.Sprintf calls airtrace-sim uses to
// build audit Log messages/details.
func parseFieldString(s string) map[string]string {
	out := make(map[string]string)
	for _, field := range strings.Fields(s) {
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			continue
		}
		out[key] = value
	}
	return out
}

// modeOrdinals assigns every TrackingMode its position in the canonical
// ladder (spec.md §4.2's default ladder), so mode transitions can be
// plotted on a numeric y-axis: lower is more preferred, matching ladder
// preference order.
func modeOrdinals() map[string]float64 {
	entries := mode.DefaultLadderOrder()
	out := make(map[string]float64, len(entries))
	for i, e := range entries {
		out[string(e.Mode)] = float64(i)
	}
	return out
}

// writeModeTransitionPlot renders a step plot of the active mode's ladder
// position over the run (grounded on
// internal/lidar/monitor/gridplotter.go's generateRingPlot: plotter.NewLine
// over plotter.XYs, saved via plot.New/Save).
func writeModeTransitionPlot(ticks []tickRecord, path string) error {
	ordinals := modeOrdinals()

	pts := make(plotter.XYs, 0, len(ticks))
	for _, t := range ticks {
		y, ok := ordinals[t.Mode]
		if !ok {
			y = float64(len(ordinals))
		}
		pts = append(pts, plotter.XY{X: float64(t.Tick), Y: y})
	}

	p := plot.New()
	p.Title.Text = "Mode ladder position over run"
	p.X.Label.Text = "tick"
	p.Y.Label.Text = "ladder position (0 = most preferred)"

	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("building line plotter: %w", err)
	}
	line.Width = vg.Points(2)
	p.Add(line)
	p.Legend.Add("active mode", line)

	if err := p.Save(14*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("saving plot: %w", err)
	}
	return nil
}

// routeLatency is one federation route's observed latency series.
type routeLatency struct {
	RouteKey  string
	Ticks     []uint64
	LatencyMs []uint64
	BudgetMs  uint64
}

// readRouteLatencies reads every federation_frames row grouped by
// route_key, ordered by logical_tick within each route.
func readRouteLatencies(db *sql.DB) ([]routeLatency, error) {
	rows, err := db.Query(`
		SELECT route_key, logical_tick, source_latency_ms, latency_budget_ms
		FROM federation_frames
		ORDER BY route_key ASC, logical_tick ASC`)
	if err != nil {
		return nil, fmt.Errorf("query federation_frames: %w", err)
	}
	defer rows.Close()

	byRoute := make(map[string]*routeLatency)
	var order []string
	for rows.Next() {
		var routeKey string
		var tick, latency, budget uint64
		if err := rows.Scan(&routeKey, &tick, &latency, &budget); err != nil {
			return nil, err
		}
		r, ok := byRoute[routeKey]
		if !ok {
			r = &routeLatency{RouteKey: routeKey, BudgetMs: budget}
			byRoute[routeKey] = r
			order = append(order, routeKey)
		}
		r.Ticks = append(r.Ticks, tick)
		r.LatencyMs = append(r.LatencyMs, latency)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Strings(order)
	out := make([]routeLatency, 0, len(order))
	for _, k := range order {
		out = append(out, *byRoute[k])
	}
	return out, nil
}

// writeLatencyChart renders an HTML line chart of every route's observed
// latency against its budget (grounded on
// internal/lidar/monitor/echarts_handlers.go's handleTrafficChart: a
// go-echarts chart built from SetGlobalOptions/SetXAxis/AddSeries and
// rendered directly with the chart's own Render).
func writeLatencyChart(routes []routeLatency, path string) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "1100px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: "Federation route latency", Subtitle: fmt.Sprintf("routes=%d", len(routes))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "logical tick"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "latency (ms)"}),
	)

	xAxis := longestTickAxis(routes)
	line.SetXAxis(xAxis)

	for _, r := range routes {
		data := make([]opts.LineData, 0, len(r.Ticks))
		budget := make([]opts.LineData, 0, len(r.Ticks))
		for _, v := range r.LatencyMs {
			data = append(data, opts.LineData{Value: v})
		}
		for range r.Ticks {
			budget = append(budget, opts.LineData{Value: r.BudgetMs})
		}
		line.AddSeries(r.RouteKey, data)
		line.AddSeries(r.RouteKey+" budget", budget, charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))
	}

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		return fmt.Errorf("rendering chart: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// longestTickAxis returns a string x-axis labelled with the longest
// observed tick series, since go-echarts lines share one category axis.
func longestTickAxis(routes []routeLatency) []string {
	var longest []uint64
	for _, r := range routes {
		if len(r.Ticks) > len(longest) {
			longest = r.Ticks
		}
	}
	axis := make([]string, len(longest))
	for i, tick := range longest {
		axis[i] = strconv.FormatUint(tick, 10)
	}
	return axis
}
