package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"pilot_logbook/internal/logbook"
	"pilot_logbook/internal/models"
)

func newAircraftCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "aircraft",
		Short: "List your aircraft",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			aircraft, err := a.api.ListAircraft(cmd.Context(), a.cfg.UserID)
			if err != nil {
				return fmt.Errorf("list aircraft: %w", err)
			}
			if len(aircraft) == 0 {
				a.printf("No aircraft yet.\n")
				return nil
			}

			var rows [][]string
			for _, ac := range aircraft {
				rows = append(rows, []string{
					logbook.FormatRegistration(ac.Registration),
					logbook.AircraftName(ac.AircraftDetails),
					ac.Designator,
					ac.WTC,
					models.CategoryLabel(ac.Category),
					models.ClassLabel(ac.Class),
				})
			}
			PrintTable(a.out, []string{"REG", "AIRCRAFT", "TYPE", "WTC", "CATEGORY", "CLASS"}, rows, nil)
			return nil
		},
	}
}

func newAirportsCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "airports [query]",
		Short: "Search airports by code or name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			airports, err := a.api.SearchAirports(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("search airports: %w", err)
			}
			if len(airports) == 0 {
				a.printf("No airports found.\n")
				return nil
			}

			var rows [][]string
			for _, ap := range airports {
				rows = append(rows, []string{ap.ICAO, ap.IATA, ap.Name, ap.Region, ap.CountryCode})
			}
			PrintTable(a.out, []string{"ICAO", "IATA", "NAME", "REGION", "COUNTRY"}, rows, nil)
			return nil
		},
	}
}

func newAirportCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "airport [id]",
		Short: "Show one airport",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			airportID, err := strconv.ParseUint(args[0], 10, 0)
			if err != nil {
				return fmt.Errorf("invalid airport id %q", args[0])
			}
			ap, err := a.api.GetAirport(cmd.Context(), uint(airportID))
			if err != nil {
				return fmt.Errorf("airport %d: %w", airportID, err)
			}

			rows := [][]string{
				{"ICAO", ap.ICAO},
				{"IATA", ap.IATA},
				{"Name", ap.Name},
				{"Region", ap.Region},
				{"Country", ap.CountryCode},
			}
			if ap.HasLocation() {
				rows = append(rows, []string{"Position", fmt.Sprintf("%.4f, %.4f", ap.Latitude, ap.Longitude)})
			}
			PrintTable(a.out, []string{"FIELD", "VALUE"}, rows, nil)
			return nil
		},
	}
}

func newTypesCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "types [query]",
		Short: "Search aircraft types by designator, model or manufacturer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			types, err := a.api.SearchAircraftTypes(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("search aircraft types: %w", err)
			}
			if len(types) == 0 {
				a.printf("No aircraft types found.\n")
				return nil
			}

			var rows [][]string
			for _, t := range types {
				rows = append(rows, []string{t.Designator, t.Manufacturer, t.Model, t.WTC})
			}
			PrintTable(a.out, []string{"TYPE", "MANUFACTURER", "MODEL", "WTC"}, rows, nil)
			return nil
		},
	}
}

func newFormatRegCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "format-reg [registration]",
		Short: "Print a registration the way it is displayed",
		Args:  cobra.ExactArgs(1),
		// Formatting is local; skip config and API setup.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			a.printf("%s\n", logbook.FormatRegistration(args[0]))
		},
	}
}
