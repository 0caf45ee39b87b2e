package ferrysim

// config.go holds the description of a simulation experiment, the defaults
// every run starts from, and the readers/writers for its file forms

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

const minutesPerDay float64 = 24 * 60

// ConfigurationError reports a SimConfig the engine refuses to run
type ConfigurationError struct {
	Field  string
	Reason string
}

func (ce *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s %s", ce.Field, ce.Reason)
}

// ClockTime is a time of day, in minutes since midnight.  Its file
// representation is "HH:MM"
type ClockTime int

// ParseClockTime converts "HH:MM" (or a bare number of minutes) to a ClockTime
func ParseClockTime(str string) (ClockTime, error) {
	str = strings.TrimSpace(str)
	hh, mm, found := strings.Cut(str, ":")
	if !found {
		minutes, err := strconv.Atoi(str)
		if err != nil {
			return 0, fmt.Errorf("clock time %q: %w", str, err)
		}
		if minutes < 0 || minutes > int(minutesPerDay) {
			return 0, fmt.Errorf("clock time %q lies outside [0, %d] minutes", str, int(minutesPerDay))
		}
		return ClockTime(minutes), nil
	}
	hours, herr := strconv.Atoi(hh)
	minutes, merr := strconv.Atoi(mm)
	if herr != nil || merr != nil || hours < 0 || hours > 24 || minutes < 0 || minutes > 59 ||
		(hours == 24 && minutes > 0) {
		return 0, fmt.Errorf("clock time %q is not HH:MM", str)
	}
	return ClockTime(hours*60 + minutes), nil
}

// Minutes returns the clock time as minutes since midnight
func (ct ClockTime) Minutes() float64 {
	return float64(ct)
}

func (ct ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(ct)/60, int(ct)%60)
}

func (ct ClockTime) MarshalYAML() (any, error) {
	return ct.String(), nil
}

func (ct *ClockTime) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseClockTime(value.Value)
	if err != nil {
		return err
	}
	*ct = parsed
	return nil
}

func (ct ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(ct.String())
}

func (ct *ClockTime) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		// accept a bare number of minutes as well
		var minutes int
		if nerr := json.Unmarshal(data, &minutes); nerr != nil {
			return err
		}
		str = strconv.Itoa(minutes)
	}
	parsed, err := ParseClockTime(str)
	if err != nil {
		return err
	}
	*ct = parsed
	return nil
}

// inDay is true when the clock time lies within one day, midnight to midnight
func (ct ClockTime) inDay() bool {
	return ct >= 0 && ct.Minutes() <= minutesPerDay
}

// PeakWindow is a range of the day, [Start, End), with elevated arrival intensity
type PeakWindow struct {
	Start ClockTime `json:"start" yaml:"start"`
	End   ClockTime `json:"end" yaml:"end"`
}

// contains reports whether time t (minutes since midnight) falls in the window
func (pw PeakWindow) contains(t float64) bool {
	return pw.Start.Minutes() <= t && t < pw.End.Minutes()
}

// names of the reservation policies a configuration may select
const (
	PolicyPriority  = "priority"
	PolicyPeakShift = "peak-shift"
)

var policyNames []string = []string{PolicyPriority, PolicyPeakShift}

// SimConfig describes one simulated operating day.  Durations are in minutes
// unless the field name says otherwise
type SimConfig struct {
	Vessels  int `json:"vessels" yaml:"vessels"`
	Capacity int `json:"capacity" yaml:"capacity"`

	WindowStart ClockTime `json:"windowstart" yaml:"windowstart"`
	WindowEnd   ClockTime `json:"windowend" yaml:"windowend"`
	StepMinutes float64   `json:"stepminutes" yaml:"stepminutes"`

	DailyVolume    float64      `json:"dailyvolume" yaml:"dailyvolume"`
	PeakWindows    []PeakWindow `json:"peakwindows" yaml:"peakwindows"`
	PeakMultiplier float64      `json:"peakmultiplier" yaml:"peakmultiplier"`
	JitterMin      float64      `json:"jittermin" yaml:"jittermin"`
	JitterMax      float64      `json:"jittermax" yaml:"jittermax"`
	CarRatio       float64      `json:"carratio" yaml:"carratio"`

	EmbarkMinutes    float64 `json:"embarkminutes" yaml:"embarkminutes"`
	CrossingMinutes  float64 `json:"crossingminutes" yaml:"crossingminutes"`
	DisembarkSeconds float64 `json:"disembarkseconds" yaml:"disembarkseconds"`

	MaintenanceIntervalDays float64 `json:"maintenanceintervaldays" yaml:"maintenanceintervaldays"`
	MaintenanceMinutes      float64 `json:"maintenanceminutes" yaml:"maintenanceminutes"`
	FailureProbability      float64 `json:"failureprobability" yaml:"failureprobability"`
	FailureDowntimeMinutes  float64 `json:"failuredowntimeminutes" yaml:"failuredowntimeminutes"`

	ReservationRate   float64 `json:"reservationrate" yaml:"reservationrate"`
	Policy            string  `json:"policy" yaml:"policy"`
	PeakPenalty       bool    `json:"peakpenalty" yaml:"peakpenalty"`
	PenaltyMinMinutes float64 `json:"penaltyminminutes" yaml:"penaltyminminutes"`
	PenaltyMaxMinutes float64 `json:"penaltymaxminutes" yaml:"penaltymaxminutes"`

	// Seed selects the random stream; 0 asks for an unseeded rngstream stream
	Seed  int64 `json:"seed" yaml:"seed"`
	Trace bool  `json:"trace" yaml:"trace"`
}

// DefaultSimConfig returns a fresh configuration holding the default parameters.
// Every call builds a new value, so callers may override fields freely
func DefaultSimConfig() SimConfig {
	return SimConfig{
		Vessels:     4,
		Capacity:    50,
		WindowStart: ClockTime(6 * 60),
		WindowEnd:   ClockTime(22 * 60),
		StepMinutes: 60,
		DailyVolume: 1200,
		PeakWindows: []PeakWindow{
			{Start: ClockTime(7 * 60), End: ClockTime(9 * 60)},
			{Start: ClockTime(17 * 60), End: ClockTime(19 * 60)},
		},
		PeakMultiplier:          2.5,
		JitterMin:               0.8,
		JitterMax:               1.2,
		CarRatio:                0.8,
		EmbarkMinutes:           15,
		CrossingMinutes:         80,
		DisembarkSeconds:        15,
		MaintenanceIntervalDays: 30,
		MaintenanceMinutes:      4 * 60,
		FailureProbability:      0.01,
		FailureDowntimeMinutes:  30,
		ReservationRate:         0.3,
		Policy:                  PolicyPriority,
		PeakPenalty:             true,
		PenaltyMinMinutes:       15,
		PenaltyMaxMinutes:       35,
	}
}

// WindowMinutes is the length of the operating window
func (cfg *SimConfig) WindowMinutes() float64 {
	return cfg.WindowEnd.Minutes() - cfg.WindowStart.Minutes()
}

// inPeak reports whether time t falls inside any configured peak window
func (cfg *SimConfig) inPeak(t float64) bool {
	for _, pw := range cfg.PeakWindows {
		if pw.contains(t) {
			return true
		}
	}
	return false
}

// Validate returns a *ConfigurationError describing the first problem found, or nil
func (cfg *SimConfig) Validate() error {
	invalid := func(field, reason string) error {
		return &ConfigurationError{Field: field, Reason: reason}
	}

	switch {
	case cfg.Vessels <= 0:
		return invalid("vessels", "must be positive")
	case cfg.Capacity <= 0:
		return invalid("capacity", "must be positive")
	case !(cfg.StepMinutes > 0):
		return invalid("stepminutes", "must be positive")
	case !cfg.WindowStart.inDay():
		return invalid("windowstart", "must lie within 00:00 and 24:00")
	case !cfg.WindowEnd.inDay():
		return invalid("windowend", "must lie within 00:00 and 24:00")
	case cfg.WindowEnd <= cfg.WindowStart:
		return invalid("windowend", "must be after windowstart")
	case cfg.DailyVolume < 0:
		return invalid("dailyvolume", "must not be negative")
	case cfg.PeakMultiplier < 0:
		return invalid("peakmultiplier", "must not be negative")
	case cfg.JitterMin < 0 || cfg.JitterMax < cfg.JitterMin:
		return invalid("jitter", "band must satisfy 0 <= min <= max")
	case cfg.CarRatio < 0 || cfg.CarRatio > 1:
		return invalid("carratio", "must lie in [0,1]")
	case cfg.ReservationRate < 0 || cfg.ReservationRate > 1:
		return invalid("reservationrate", "must lie in [0,1]")
	case cfg.FailureProbability < 0 || cfg.FailureProbability > 1:
		return invalid("failureprobability", "must lie in [0,1]")
	case cfg.EmbarkMinutes < 0 || cfg.CrossingMinutes < 0 || cfg.DisembarkSeconds < 0:
		return invalid("durations", "must not be negative")
	case cfg.MaintenanceIntervalDays < 0 || cfg.MaintenanceMinutes < 0 || cfg.FailureDowntimeMinutes < 0:
		return invalid("maintenance", "intervals and durations must not be negative")
	case cfg.PenaltyMinMinutes < 0 || cfg.PenaltyMaxMinutes < cfg.PenaltyMinMinutes:
		return invalid("penalty", "band must satisfy 0 <= min <= max")
	case !slices.Contains(policyNames, cfg.Policy):
		return invalid("policy", fmt.Sprintf("%q is not one of %v", cfg.Policy, policyNames))
	}

	for idx, pw := range cfg.PeakWindows {
		if !pw.Start.inDay() || !pw.End.inDay() {
			return invalid(fmt.Sprintf("peakwindows[%d]", idx), "must lie within 00:00 and 24:00")
		}
		if pw.End <= pw.Start {
			return invalid(fmt.Sprintf("peakwindows[%d]", idx), "end must be after start")
		}
	}
	return nil
}

// WriteToFile stores the SimConfig to the file whose name is given.
// Serialization to json or to yaml is selected based on the extension of this name.
func (cfg *SimConfig) WriteToFile(filename string) error {
	return writeByExt(filename, cfg)
}

// ReadSimConfig deserializes a byte slice holding a representation of a SimConfig.
// If the input argument of dict (those bytes) is empty, the file whose name is given is read
// to acquire them.  Fields absent from the representation keep their default values, so a file
// need only name the parameters it overrides.
func ReadSimConfig(filename string, useYAML bool, dict []byte) (*SimConfig, error) {
	var err error

	// if the dict slice of bytes is empty we get them from the file whose name is an argument
	if len(dict) == 0 {
		dict, err = os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("reading simulation config: %w", err)
		}
	}

	example := DefaultSimConfig()

	if useYAML {
		err = yaml.Unmarshal(dict, &example)
	} else {
		err = json.Unmarshal(dict, &example)
	}

	if err != nil {
		return nil, fmt.Errorf("decoding simulation config: %w", err)
	}

	return &example, nil
}

// UseYAML tells whether a file name selects the yaml serialization
func UseYAML(filename string) bool {
	switch path.Ext(filename) {
	case ".yaml", ".YAML", ".yml":
		return true
	}
	return false
}

var errUnknownExt = errors.New("file extension selects neither yaml nor json")

// marshalByExt serializes obj as yaml or json, chosen by the extension of filename
func marshalByExt(filename string, obj any) ([]byte, error) {
	pathExt := path.Ext(filename)
	var bytes []byte
	var merr error

	if UseYAML(filename) {
		bytes, merr = yaml.Marshal(obj)
	} else if pathExt == ".json" || pathExt == ".JSON" {
		bytes, merr = json.MarshalIndent(obj, "", "\t")
	} else {
		return nil, fmt.Errorf("%s: %w", filename, errUnknownExt)
	}

	if merr != nil {
		return nil, fmt.Errorf("serializing %s: %w", filename, merr)
	}
	return bytes, nil
}
