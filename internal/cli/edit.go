package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"pilot_logbook/internal/models"
)

var errNoChanges = errors.New("nothing to change")

func newEditCmd(a *App) *cobra.Command {
	var (
		o     addOptions
		hours hourValues
	)

	cmd := &cobra.Command{
		Use:   "edit [entry id]",
		Short: "Change a logged flight",
		Long:  "Change a logged flight. Only the given flags are changed; --from and --to\nreplace the whole route.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entryID, err := parseEntryID(args[0])
			if err != nil {
				return err
			}
			return a.editFlight(cmd, entryID, o, hours)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.date, "date", "", "flight date as YYYY-MM-DD")
	f.StringVar(&o.pic, "pic", "", "pilot in command")
	f.StringVar(&o.crew, "crew", "", "other crew")
	f.StringVar(&o.from, "from", "", "departure airport")
	f.StringVar(&o.to, "to", "", "arrival airport")
	f.StringArrayVar(&o.via, "via", nil, "intermediate stop, repeatable")
	f.StringVar(&o.flightType, "type", "", "training, commercial, private, checkride or none")
	f.StringVar(&o.flightRule, "rule", "", "VFR, IFR, SVFR or none")
	f.StringVar(&o.details, "details", "", "remarks")
	hours = registerHourFlags(cmd)
	cmd.MarkFlagsRequiredTogether("from", "to")
	return cmd
}

func (a *App) editFlight(cmd *cobra.Command, entryID uint, o addOptions, hours hourValues) error {
	ctx := cmd.Context()
	flags := cmd.Flags()
	changed := hours.anyChanged(cmd)
	for _, name := range []string{"date", "pic", "crew", "from", "type", "rule", "details"} {
		changed = changed || flags.Changed(name)
	}
	if !changed {
		return errNoChanges
	}
	if flags.Changed("via") && !flags.Changed("from") {
		return errors.New("--via needs --from and --to")
	}

	entries, err := a.api.ListEntries(ctx, a.cfg.UserID)
	if err != nil {
		return fmt.Errorf("load logbook: %w", err)
	}
	var entry *models.FlightLogEntry
	for i := range entries {
		if entries[i].ID == entryID {
			entry = &entries[i]
			break
		}
	}
	if entry == nil {
		return fmt.Errorf("flight %d is not in the logbook of user %d", entryID, a.cfg.UserID)
	}

	if flags.Changed("date") {
		if entry.FlightDate, err = flightDate(o.date, entry.FlightDate.Time); err != nil {
			return err
		}
	}
	set := func(flag string, dst *string, v string) {
		if flags.Changed(flag) {
			*dst = v
		}
	}
	set("pic", &entry.PilotInCommand, o.pic)
	set("crew", &entry.OtherCrew, o.crew)
	set("type", &entry.FlightType, o.flightType)
	set("rule", &entry.FlightRule, o.flightRule)
	set("details", &entry.Details, o.details)
	if flags.Changed("from") {
		route, err := a.resolveRoute(ctx, o.from, o.to, o.via)
		if err != nil {
			return err
		}
		entry.SetRoute(route)
	}
	if hours.anyChanged(cmd) {
		hours.apply(cmd, &entry.HourBuckets, true)
	}
	entry.Normalize()
	if err := entry.Validate(); err != nil {
		return err
	}

	updated, err := a.api.UpdateEntry(ctx, entryID, *entry)
	if err != nil {
		return fmt.Errorf("update flight %d: %w", entryID, err)
	}

	p, closePipeline, err := a.openPipeline()
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer closePipeline()
	if err := p.Invalidate(ctx, a.cfg.UserID); err != nil {
		return fmt.Errorf("drop cached logbook: %w", err)
	}

	a.printf("Updated flight %d on %s.\n", updated.ID, updated.FlightDate)
	return nil
}

func newRouteCmd(a *App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "route [entry id]",
		Short: "Export the route of a flight as GeoJSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entryID, err := parseEntryID(args[0])
			if err != nil {
				return err
			}
			raw, err := a.api.RouteGeoJSON(cmd.Context(), a.cfg.UserID, entryID)
			if err != nil {
				return fmt.Errorf("route of flight %d: %w", entryID, err)
			}
			if out == "" {
				a.printf("%s\n", raw)
				return nil
			}
			if err := os.WriteFile(out, raw, 0o644); err != nil {
				return err
			}
			a.printf("Wrote the route of flight %d to %s.\n", entryID, out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "write to this file instead of stdout")
	return cmd
}

func parseEntryID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 0)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid entry id %q", s)
	}
	return uint(id), nil
}
