package domain

import "strings"

// Frequency is how often an activity recurs. The zero value means unset.
type Frequency string

const (
	FrequencyUnset     Frequency = ""
	FrequencyDaily     Frequency = "Daily"
	FrequencyWeekly    Frequency = "Weekly"
	FrequencyMonthly   Frequency = "Monthly"
	FrequencyBimonthly Frequency = "Bimonthly"
	FrequencyQuarterly Frequency = "Quarterly"
	FrequencyAdHoc     Frequency = "Ad-hoc"
)

// Frequencies lists every settable frequency in display order
var Frequencies = []Frequency{
	FrequencyDaily,
	FrequencyWeekly,
	FrequencyMonthly,
	FrequencyBimonthly,
	FrequencyQuarterly,
	FrequencyAdHoc,
}

var frequencyAliases = map[string]Frequency{
	"daily":      FrequencyDaily,
	"diária":     FrequencyDaily,
	"diaria":     FrequencyDaily,
	"weekly":     FrequencyWeekly,
	"semanal":    FrequencyWeekly,
	"monthly":    FrequencyMonthly,
	"mensal":     FrequencyMonthly,
	"bimonthly":  FrequencyBimonthly,
	"bimestral":  FrequencyBimonthly,
	"quarterly":  FrequencyQuarterly,
	"trimestral": FrequencyQuarterly,
	"ad-hoc":     FrequencyAdHoc,
	"adhoc":      FrequencyAdHoc,
	"occasional": FrequencyAdHoc,
	"eventual":   FrequencyAdHoc,
}

// ParseFrequency maps a stored or user-entered label to a Frequency.
// Unknown labels parse to FrequencyUnset.
func ParseFrequency(s string) Frequency {
	return frequencyAliases[strings.ToLower(strings.TrimSpace(s))]
}

// IsSet reports whether a frequency was chosen
func (f Frequency) IsSet() bool {
	return f != FrequencyUnset
}

// IsLowFrequency reports whether the activity happens at most a few times a month
func (f Frequency) IsLowFrequency() bool {
	switch f {
	case FrequencyMonthly, FrequencyBimonthly, FrequencyQuarterly, FrequencyAdHoc:
		return true
	}
	return false
}
