package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"pilot_logbook/internal/logbook"
	"pilot_logbook/internal/pipeline"
)

const (
	viewModern  = "modern"
	viewClassic = "classic"
)

type hoursColumn struct {
	header string
	value  func(e logbook.EnrichedEntry) float64
}

var modernHours = []hoursColumn{
	{"TOTAL", func(e logbook.EnrichedEntry) float64 { return e.TotalHours }},
	{"DAY", func(e logbook.EnrichedEntry) float64 { return e.DayHours }},
	{"NIGHT", func(e logbook.EnrichedEntry) float64 { return e.NightHours }},
	{"INSTR", func(e logbook.EnrichedEntry) float64 { return e.InstrumentHours }},
}

var classicHours = []hoursColumn{
	{"SE ICUS D", func(e logbook.EnrichedEntry) float64 { return e.SingleEngine.ICUSDay }},
	{"SE ICUS N", func(e logbook.EnrichedEntry) float64 { return e.SingleEngine.ICUSNight }},
	{"SE DUAL D", func(e logbook.EnrichedEntry) float64 { return e.SingleEngine.DualDay }},
	{"SE DUAL N", func(e logbook.EnrichedEntry) float64 { return e.SingleEngine.DualNight }},
	{"SE CMD D", func(e logbook.EnrichedEntry) float64 { return e.SingleEngine.CommandDay }},
	{"SE CMD N", func(e logbook.EnrichedEntry) float64 { return e.SingleEngine.CommandNight }},
	{"ME ICUS D", func(e logbook.EnrichedEntry) float64 { return e.MultiEngine.ICUSDay }},
	{"ME ICUS N", func(e logbook.EnrichedEntry) float64 { return e.MultiEngine.ICUSNight }},
	{"ME DUAL D", func(e logbook.EnrichedEntry) float64 { return e.MultiEngine.DualDay }},
	{"ME DUAL N", func(e logbook.EnrichedEntry) float64 { return e.MultiEngine.DualNight }},
	{"ME CMD D", func(e logbook.EnrichedEntry) float64 { return e.MultiEngine.CommandDay }},
	{"ME CMD N", func(e logbook.EnrichedEntry) float64 { return e.MultiEngine.CommandNight }},
	{"COPLT D", func(e logbook.EnrichedEntry) float64 { return e.CoPilotDay.Float() }},
	{"COPLT N", func(e logbook.EnrichedEntry) float64 { return e.CoPilotNight.Float() }},
	{"INST FLT", func(e logbook.EnrichedEntry) float64 { return e.InstrumentInFlight.Float() }},
	{"INST SIM", func(e logbook.EnrichedEntry) float64 { return e.InstrumentSim.Float() }},
}

func newListCmd(a *App) *cobra.Command {
	var (
		view    string
		refresh bool
		maxAge  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the logbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if view != viewModern && view != viewClassic {
				return fmt.Errorf("unknown view %q (want %s or %s)", view, viewModern, viewClassic)
			}

			p, closePipeline, err := a.openPipeline()
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer closePipeline()

			var lb *pipeline.Logbook
			if refresh {
				lb, err = p.Refresh(cmd.Context(), a.cfg.UserID)
			} else {
				age := a.cfg.MaxAge
				if cmd.Flags().Changed("max-age") {
					age = maxAge
				}
				lb, err = p.Load(cmd.Context(), a.cfg.UserID, age)
			}
			if err != nil {
				return fmt.Errorf("load logbook: %w", err)
			}

			if len(lb.Enriched) == 0 {
				a.printf("No flights logged yet.\n")
				return nil
			}
			if view == viewClassic {
				printClassic(a, lb.Enriched)
			} else {
				printModern(a, lb.Enriched)
			}
			if lb.FromCache {
				a.printf("\nCached %s, refreshing in the background.\n", lb.FetchedAt.Local().Format("2006-01-02 15:04"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&view, "view", viewModern, "table layout: modern or classic")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "skip the cache and fetch from the server")
	cmd.Flags().DurationVar(&maxAge, "max-age", pipeline.DefaultMaxAge, "how old cached data may be")
	return cmd
}

func printModern(a *App, entries []logbook.EnrichedEntry) {
	headers := []string{"DATE", "REG", "AIRCRAFT", "ROUTE", "PIC"}
	var rows [][]string
	var distance float64
	for _, e := range entries {
		rows = append(rows, []string{
			e.FlightDate.String(),
			logbook.FormatRegistration(e.Registration),
			e.AircraftName,
			e.FormattedRoute,
			e.PilotInCommand,
		})
		distance += e.RouteDistanceNM
	}
	headers, rows, footers := appendHours(headers, rows, modernHours, entries)

	headers = append(headers, "NM")
	for i, e := range entries {
		rows[i] = append(rows[i], nauticalMiles(e.RouteDistanceNM))
	}
	footers = append(footers, nauticalMiles(distance))

	PrintTable(a.out, headers, rows, footers)
}

func printClassic(a *App, entries []logbook.EnrichedEntry) {
	headers := []string{"DATE", "TYPE", "REG", "PIC", "CREW", "ROUTE"}
	var rows [][]string
	for _, e := range entries {
		rows = append(rows, []string{
			e.FlightDate.String(),
			e.Designator,
			logbook.FormatRegistration(e.Registration),
			e.PilotInCommand,
			e.OtherCrew,
			e.FormattedRoute,
		})
	}
	headers, rows, footers := appendHours(headers, rows, classicHours, entries)

	PrintTable(a.out, headers, rows, footers)
}

// appendHours adds one column per hours column and a footer row with the
// column sums, labelled under the last text column.
func appendHours(headers []string, rows [][]string, cols []hoursColumn, entries []logbook.EnrichedEntry) ([]string, [][]string, []string) {
	footers := make([]string, len(headers), len(headers)+len(cols)+1)
	footers[len(footers)-1] = "Total:"
	sums := make([]float64, len(cols))
	for i, e := range entries {
		for j, col := range cols {
			v := col.value(e)
			sums[j] += v
			rows[i] = append(rows[i], hours(v))
		}
	}
	for j, col := range cols {
		headers = append(headers, col.header)
		footers = append(footers, hours(sums[j]))
	}
	return headers, rows, footers
}

func nauticalMiles(v float64) string {
	if v == 0 {
		return ""
	}
	return fmt.Sprintf("%.0f", v)
}

func newStatsCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show logbook statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.api.Statistics(cmd.Context(), a.cfg.UserID)
			if err != nil {
				return fmt.Errorf("load statistics: %w", err)
			}

			airport := "-"
			if !s.PopularAirport.IsZero() {
				airport = fmt.Sprintf("%s (%s)", s.PopularAirport.ICAO, s.PopularAirport.Name)
			}
			plane := s.PopularPlane
			if plane == "" {
				plane = "-"
			}

			rows := [][]string{
				{"Hours this month", fmt.Sprintf("%.1f", s.HoursThisMonth)},
				{"Hours this year", fmt.Sprintf("%.1f", s.HoursThisYear)},
				{"Lifetime hours", fmt.Sprintf("%.1f", s.LifetimeHours)},
				{"Longest flight this month", fmt.Sprintf("%.1f", s.LongestFlight)},
				{"Average flight", fmt.Sprintf("%.1f", s.AverageFlightDuration)},
				{"Night hours", fmt.Sprintf("%.1f", s.NightFlightHours)},
				{"Most visited airport", airport},
				{"Most flown this month", plane},
			}
			PrintTable(a.out, []string{"STATISTIC", "VALUE"}, rows, nil)
			return nil
		},
	}
}
