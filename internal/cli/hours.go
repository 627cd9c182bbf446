package cli

import (
	"github.com/spf13/cobra"

	"pilot_logbook/internal/models"
)

type hourFlag struct {
	name  string
	usage string
	field func(b *models.HourBuckets) *models.Hours
}

var hourFlags = []hourFlag{
	{"icus-day", "in command under supervision, day", func(b *models.HourBuckets) *models.Hours { return &b.ICUSDay }},
	{"icus-night", "in command under supervision, night", func(b *models.HourBuckets) *models.Hours { return &b.ICUSNight }},
	{"dual-day", "dual, day", func(b *models.HourBuckets) *models.Hours { return &b.DualDay }},
	{"dual-night", "dual, night", func(b *models.HourBuckets) *models.Hours { return &b.DualNight }},
	{"command-day", "in command, day", func(b *models.HourBuckets) *models.Hours { return &b.CommandDay }},
	{"command-night", "in command, night", func(b *models.HourBuckets) *models.Hours { return &b.CommandNight }},
	{"co-pilot-day", "co-pilot, day", func(b *models.HourBuckets) *models.Hours { return &b.CoPilotDay }},
	{"co-pilot-night", "co-pilot, night", func(b *models.HourBuckets) *models.Hours { return &b.CoPilotNight }},
	{"instrument", "instrument time in flight", func(b *models.HourBuckets) *models.Hours { return &b.InstrumentInFlight }},
	{"sim", "instrument time in a simulator", func(b *models.HourBuckets) *models.Hours { return &b.InstrumentSim }},
}

// hourValues holds the parsed value of every hour flag by name.
type hourValues map[string]*float64

func registerHourFlags(cmd *cobra.Command) hourValues {
	values := make(hourValues, len(hourFlags))
	for _, f := range hourFlags {
		values[f.name] = cmd.Flags().Float64(f.name, 0, f.usage)
	}
	return values
}

// apply copies the flag values into b. With onlyChanged, buckets whose flag
// was not given keep their value.
func (v hourValues) apply(cmd *cobra.Command, b *models.HourBuckets, onlyChanged bool) {
	for _, f := range hourFlags {
		if onlyChanged && !cmd.Flags().Changed(f.name) {
			continue
		}
		*f.field(b) = models.Hours(*v[f.name])
	}
}

func (v hourValues) anyChanged(cmd *cobra.Command) bool {
	for _, f := range hourFlags {
		if cmd.Flags().Changed(f.name) {
			return true
		}
	}
	return false
}
