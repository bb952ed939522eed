package types

import "time"

// Stage defaults applied when a FermentArgs field is absent.
const (
	DefaultTemp       = 20.0
	DefaultDoubleTemp = 8.0
	DefaultInoc       = 10.0
)

// FermentArgs is the serializable record a Ferment is built from and written
// back to. Nil fields are absent and take defaults on construction.
type FermentArgs struct {
	Name       string     `json:"name" yaml:"name"`
	Hours      *float64   `json:"hours,omitempty" yaml:"hours,omitempty"`
	StartTime  *time.Time `json:"start_time,omitempty" yaml:"start_time,omitempty"`
	EndTime    *time.Time `json:"end_time,omitempty" yaml:"end_time,omitempty"`
	Temp       *float64   `json:"temp,omitempty" yaml:"temp,omitempty"`
	DoubleTemp *float64   `json:"double_temp,omitempty" yaml:"double_temp,omitempty"`
	Inoc       *float64   `json:"inoc,omitempty" yaml:"inoc,omitempty"`
}

// FermentDefaults supplies values for the optional FermentArgs fields.
type FermentDefaults struct {
	Temp       float64 `json:"temp" yaml:"temp" mapstructure:"temp"`
	DoubleTemp float64 `json:"double_temp" yaml:"double_temp" mapstructure:"double_temp"`
	Inoc       float64 `json:"inoc" yaml:"inoc" mapstructure:"inoc"`
}

// DefaultFermentDefaults returns the heuristic defaults for bread: 20 C,
// 8 C to double or halve the time, and 10% inoculation.
func DefaultFermentDefaults() FermentDefaults {
	return FermentDefaults{
		Temp:       DefaultTemp,
		DoubleTemp: DefaultDoubleTemp,
		Inoc:       DefaultInoc,
	}
}

// WithDefaults returns a copy of a with every absent optional field set from
// d. Zero values in d are skipped so a partial FermentDefaults never
// overrides the package defaults with zero.
func (a FermentArgs) WithDefaults(d FermentDefaults) FermentArgs {
	if a.Temp == nil && d.Temp != 0 {
		a.Temp = Float(d.Temp)
	}
	if a.DoubleTemp == nil && d.DoubleTemp != 0 {
		a.DoubleTemp = Float(d.DoubleTemp)
	}
	if a.Inoc == nil && d.Inoc != 0 {
		a.Inoc = Float(d.Inoc)
	}
	return a
}

// BakeArgs is the serializable record a Bake is built from and written back
// to. Stage order in Ferments is the schedule order.
type BakeArgs struct {
	Name     string        `json:"name" yaml:"name"`
	Ferments []FermentArgs `json:"ferment_list" yaml:"ferment_list"`
}

// DefaultBakeArgs returns the standard four-stage sourdough schedule at 20 C:
// refresh (24h, 18%), feed (8h, 10%), bulk (12h, 15%) and proof (2h, 100%).
func DefaultBakeArgs(name string) BakeArgs {
	stage := func(n string, hours, inoc float64) FermentArgs {
		return FermentArgs{Name: n, Hours: Float(hours), Temp: Float(DefaultTemp), Inoc: Float(inoc)}
	}
	return BakeArgs{
		Name: name,
		Ferments: []FermentArgs{
			stage("refresh", 24, 18),
			stage("feed", 8, 10),
			stage("bulk", 12, 15),
			stage("proof", 2, 100),
		},
	}
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Time returns a pointer to t.
func Time(t time.Time) *time.Time { return &t }
