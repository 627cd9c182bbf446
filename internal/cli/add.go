package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"pilot_logbook/internal/logbook"
	"pilot_logbook/internal/models"
)

const customPrefix = "custom:"

var errUnknownAirport = errors.New("unknown airport")

type addOptions struct {
	date       string
	reg        string
	pic        string
	crew       string
	from       string
	to         string
	via        []string
	flightType string
	flightRule string
	details    string
	typeQuery  string
	aircraft   models.AircraftDetails
}

func newAddCmd(a *App) *cobra.Command {
	var (
		o     addOptions
		hours hourValues
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Log a flight",
		Long: "Log a flight. Airports are given by ICAO or IATA code; use custom:NAME for a\n" +
			"place that is not in the airport list. An unknown registration is added to\n" +
			"your aircraft when the flight is saved.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.addFlight(cmd, o, hours)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.date, "date", "", "flight date as YYYY-MM-DD (default today)")
	f.StringVar(&o.reg, "reg", "", "aircraft registration")
	f.StringVar(&o.pic, "pic", "", "pilot in command")
	f.StringVar(&o.crew, "crew", "", "other crew")
	f.StringVar(&o.from, "from", "", "departure airport")
	f.StringVar(&o.to, "to", "", "arrival airport")
	f.StringArrayVar(&o.via, "via", nil, "intermediate stop, repeatable")
	f.StringVar(&o.flightType, "type", models.FlightTypeNone, "training, commercial, private, checkride or none")
	f.StringVar(&o.flightRule, "rule", models.FlightRuleNone, "VFR, IFR, SVFR or none")
	f.StringVar(&o.details, "details", "", "remarks")

	f.StringVar(&o.typeQuery, "aircraft-type", "", "fill the aircraft details from the best matching type")
	f.StringVar(&o.aircraft.Model, "model", "", "aircraft model")
	f.StringVar(&o.aircraft.Manufacturer, "manufacturer", "", "aircraft manufacturer")
	f.StringVar(&o.aircraft.Designator, "designator", "", "ICAO type designator")
	f.StringVar(&o.aircraft.WTC, "wtc", "", "wake turbulence category")
	f.StringVar(&o.aircraft.Category, "category", "", "aircraft category: A, H or G")
	f.StringVar(&o.aircraft.Class, "class", "", "aircraft class: S or M")

	hours = registerHourFlags(cmd)

	_ = cmd.MarkFlagRequired("reg")
	_ = cmd.MarkFlagRequired("pic")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func (a *App) addFlight(cmd *cobra.Command, o addOptions, hours hourValues) error {
	ctx := cmd.Context()

	date, err := flightDate(o.date, time.Now())
	if err != nil {
		return err
	}
	route, err := a.resolveRoute(ctx, o.from, o.to, o.via)
	if err != nil {
		return err
	}

	sel := logbook.NewSelector(a.api, a.cfg.UserID, logbook.WithContext(ctx))
	defer sel.Close()
	selection, err := sel.Resolve(ctx, o.reg)
	if err != nil {
		return err
	}
	if selection.State == logbook.Unresolved {
		return fmt.Errorf("registration %q is too short", o.reg)
	}

	if err := a.applyAircraftFlags(ctx, cmd, sel, o); err != nil {
		return err
	}

	p, closePipeline, err := a.openPipeline()
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer closePipeline()

	var buckets models.HourBuckets
	hours.apply(cmd, &buckets, false)

	draft := logbook.Draft{
		Aircraft:       sel.Selection(),
		FlightDate:     date,
		PilotInCommand: o.pic,
		OtherCrew:      o.crew,
		Route:          route,
		FlightType:     o.flightType,
		FlightRule:     o.flightRule,
		Details:        o.details,
		Hours:          buckets,
	}

	result, err := logbook.NewSubmitter(a.api, p).Submit(ctx, a.cfg.UserID, draft)
	if err != nil {
		return err
	}

	reg := logbook.FormatRegistration(result.Entry.Registration)
	switch {
	case result.AircraftCreated:
		a.printf("Added %s to your aircraft.\n", reg)
	case result.AircraftUpdated:
		a.printf("Updated the details of %s.\n", reg)
	}
	for _, w := range result.Warnings {
		a.printf("Warning: %s\n", w)
	}
	a.printf("Logged flight %d on %s in %s.\n", result.Entry.ID, result.Entry.FlightDate, reg)
	return nil
}

// applyAircraftFlags moves the selection into an editable state when any
// aircraft detail was given and applies the details.
func (a *App) applyAircraftFlags(ctx context.Context, cmd *cobra.Command, sel *logbook.Selector, o addOptions) error {
	detailFlags := []string{"model", "manufacturer", "designator", "wtc", "category", "class"}
	changed := o.typeQuery != ""
	for _, name := range detailFlags {
		changed = changed || cmd.Flags().Changed(name)
	}
	if !changed {
		return nil
	}

	if sel.Selection().State == logbook.Found {
		if err := sel.Edit(); err != nil {
			return err
		}
	}

	if o.typeQuery != "" {
		t, err := a.bestType(ctx, o.typeQuery)
		if err != nil {
			return err
		}
		if err := sel.SelectType(t); err != nil {
			return err
		}
	}

	details := sel.Selection().Details
	set := func(flag string, dst *string, v string) {
		if cmd.Flags().Changed(flag) {
			*dst = v
		}
	}
	set("model", &details.Model, o.aircraft.Model)
	set("manufacturer", &details.Manufacturer, o.aircraft.Manufacturer)
	set("designator", &details.Designator, o.aircraft.Designator)
	set("wtc", &details.WTC, o.aircraft.WTC)
	set("category", &details.Category, o.aircraft.Category)
	set("class", &details.Class, o.aircraft.Class)
	return sel.SetDetails(details)
}

// bestType prefers an exact designator match over the first search result.
func (a *App) bestType(ctx context.Context, query string) (models.AircraftType, error) {
	types, err := a.api.SearchAircraftTypes(ctx, query)
	if err != nil {
		return models.AircraftType{}, fmt.Errorf("search aircraft types: %w", err)
	}
	if len(types) == 0 {
		return models.AircraftType{}, fmt.Errorf("no aircraft type matches %q", query)
	}
	for _, t := range types {
		if strings.EqualFold(t.Designator, query) {
			return t, nil
		}
	}
	return types[0], nil
}

func (a *App) resolveRoute(ctx context.Context, from, to string, via []string) (models.Route, error) {
	dep, err := a.resolveWaypoint(ctx, from)
	if err != nil {
		return models.Route{}, err
	}
	arr, err := a.resolveWaypoint(ctx, to)
	if err != nil {
		return models.Route{}, err
	}
	route := models.NewRoute(dep, arr)
	for _, token := range via {
		w, err := a.resolveWaypoint(ctx, token)
		if err != nil {
			return models.Route{}, err
		}
		route.AddStop(w)
	}
	return route, nil
}

// resolveWaypoint maps an ICAO or IATA code to an airport, or a custom:NAME
// token to a custom waypoint.
func (a *App) resolveWaypoint(ctx context.Context, token string) (models.Waypoint, error) {
	token = strings.TrimSpace(token)
	if name, ok := strings.CutPrefix(token, customPrefix); ok {
		w := models.CustomWaypoint(name)
		return w, w.Validate()
	}

	airports, err := a.api.SearchAirports(ctx, token)
	if err != nil {
		return models.Waypoint{}, fmt.Errorf("search airports: %w", err)
	}
	for _, ap := range airports {
		if strings.EqualFold(ap.ICAO, token) || (ap.IATA != "" && strings.EqualFold(ap.IATA, token)) {
			return models.AirportWaypoint(ap.ID), nil
		}
	}
	return models.Waypoint{}, fmt.Errorf("%w: %s", errUnknownAirport, token)
}

func flightDate(s string, now time.Time) (models.Date, error) {
	if s == "" {
		return models.NewDate(now.Year(), now.Month(), now.Day()), nil
	}
	d, err := models.ParseDate(s)
	if err != nil {
		return models.Date{}, fmt.Errorf("invalid --date %q: %w", s, err)
	}
	return d, nil
}
