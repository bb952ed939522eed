package types

import (
	"fmt"
	"math"
	"time"
)

// Ferment is one fermentation stage at a given time, temperature and
// inoculation.
//
// Time and temperature are tied by
//
//	newTemp = oldTemp - c*ln(newHours/oldHours),  c = DoubleTemp/ln(2)
//
// so DoubleTemp is the rise in temperature that halves the time (8 C is the
// usual heuristic for bread). Time and inoculation are tied by
//
//	newHours = oldHours * oldInoc/newInoc
//
// so doubling the inoculation halves the time.
type Ferment struct {
	Name       string
	Hours      float64
	Temp       float64
	DoubleTemp float64
	Inoc       float64
	StartTime  *time.Time // nil when the stage is unanchored
}

// NewFerment builds a stage from args. Hours is taken from args.Hours when it
// is set and non-zero, otherwise from the span between StartTime and EndTime.
// When only EndTime is given the start is placed Hours before it. Absent
// temperature, doubling temperature and inoculation take the package
// defaults.
func NewFerment(args FermentArgs) (*Ferment, error) {
	if args.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidFermentSpec)
	}
	args = args.WithDefaults(DefaultFermentDefaults())

	f := &Ferment{
		Name:       args.Name,
		Temp:       *args.Temp,
		DoubleTemp: *args.DoubleTemp,
		Inoc:       *args.Inoc,
	}

	switch {
	case args.Hours != nil && *args.Hours != 0:
		f.Hours = *args.Hours
	case args.StartTime != nil && args.EndTime != nil:
		f.Hours = spanHours(*args.StartTime, *args.EndTime)
	default:
		return nil, fmt.Errorf("%w: %q needs hours or a start and end time", ErrInvalidFermentSpec, args.Name)
	}

	if !validHours(f.Hours) {
		return nil, fmt.Errorf("%w: %q has %v hours", ErrInvalidDuration, f.Name, f.Hours)
	}
	if !validPositive(f.Inoc) {
		return nil, fmt.Errorf("%w: %q has inoculation %v", ErrInvalidInoculation, f.Name, f.Inoc)
	}
	if !validPositive(f.DoubleTemp) {
		return nil, fmt.Errorf("%w: %q has doubling temperature %v", ErrInvalidFermentSpec, f.Name, f.DoubleTemp)
	}
	if math.IsNaN(f.Temp) || math.IsInf(f.Temp, 0) {
		return nil, fmt.Errorf("%w: %q has temperature %v", ErrInvalidFermentSpec, f.Name, f.Temp)
	}

	switch {
	case args.StartTime != nil:
		f.StartTime = Time(*args.StartTime)
	case args.EndTime != nil:
		f.StartTime = Time(args.EndTime.Add(-hoursDuration(f.Hours)))
	}
	return f, nil
}

// Args returns the record that rebuilds f through NewFerment.
func (f *Ferment) Args() FermentArgs {
	a := FermentArgs{
		Name:       f.Name,
		Hours:      Float(f.Hours),
		Temp:       Float(f.Temp),
		DoubleTemp: Float(f.DoubleTemp),
		Inoc:       Float(f.Inoc),
	}
	if f.StartTime != nil {
		a.StartTime = Time(*f.StartTime)
	}
	return a
}

// EndTime returns StartTime offset by Hours, or nil when unanchored.
func (f *Ferment) EndTime() *time.Time {
	if f.StartTime == nil {
		return nil
	}
	return Time(f.StartTime.Add(hoursDuration(f.Hours)))
}

// ChangeHours sets the stage length. By default the temperature is adjusted
// and the inoculation held; with HoldTemp the inoculation is adjusted
// instead.
func (f *Ferment) ChangeHours(newHours float64, hold Hold) error {
	if err := hold.Validate(); err != nil {
		return err
	}
	next := *f
	if err := next.changeHours(newHours, hold.or(HoldInoc)); err != nil {
		return err
	}
	*f = next
	return nil
}

func (f *Ferment) changeHours(newHours float64, hold Hold) error {
	if !validHours(newHours) || !validHours(f.Hours) {
		return fmt.Errorf("%w: %q from %v to %v hours", ErrInvalidDuration, f.Name, f.Hours, newHours)
	}
	if hold != HoldTemp {
		f.Temp -= f.doublingConstant() * math.Log(newHours/f.Hours)
	} else {
		f.Inoc *= f.Hours / newHours
	}
	f.Hours = newHours
	return nil
}

// ChangeTemp sets the stage temperature and rescales its length, holding the
// inoculation. With HoldHours the original length is then restored and the
// inoculation absorbs the change.
func (f *Ferment) ChangeTemp(newTemp float64, hold Hold) error {
	if err := hold.Validate(); err != nil {
		return err
	}
	if math.IsNaN(newTemp) || math.IsInf(newTemp, 0) {
		return fmt.Errorf("%w: %q temperature %v", ErrInvalidFermentSpec, f.Name, newTemp)
	}

	next := *f
	oldHours := next.Hours
	newHours := oldHours * math.Exp((next.Temp-newTemp)/next.doublingConstant())
	if !validHours(newHours) {
		return fmt.Errorf("%w: %q at %v C gives %v hours", ErrInvalidDuration, f.Name, newTemp, newHours)
	}
	next.Hours = newHours
	next.Temp = newTemp

	if hold == HoldHours {
		// There is no direct temp/inoc formula; go back through hours.
		if err := next.changeHours(oldHours, HoldTemp); err != nil {
			return err
		}
	}
	*f = next
	return nil
}

// ChangeInoc sets the inoculation percentage and rescales the length,
// holding the temperature. With HoldHours the original length is then
// restored and the temperature absorbs the change.
func (f *Ferment) ChangeInoc(newInoc float64, hold Hold) error {
	if err := hold.Validate(); err != nil {
		return err
	}
	if !validPositive(newInoc) {
		return fmt.Errorf("%w: %q to %v", ErrInvalidInoculation, f.Name, newInoc)
	}

	next := *f
	oldHours := next.Hours
	newHours := oldHours * (next.Inoc / newInoc)
	if !validHours(newHours) {
		return fmt.Errorf("%w: %q at %v%% gives %v hours", ErrInvalidDuration, f.Name, newInoc, newHours)
	}
	next.Hours = newHours
	next.Inoc = newInoc

	if hold == HoldHours {
		if err := next.changeHours(oldHours, HoldInoc); err != nil {
			return err
		}
	}
	*f = next
	return nil
}

// ChangeTimes moves the stage by wall-clock time. With both start and end the
// length changes through ChangeHours and the stage starts at start. With
// only start the stage moves and keeps its length; with only end it moves so
// that it finishes at end. With neither the stage becomes unanchored.
func (f *Ferment) ChangeTimes(start, end *time.Time, hold Hold) error {
	if err := hold.Validate(); err != nil {
		return err
	}

	next := *f
	switch {
	case start != nil && end != nil:
		if err := next.changeHours(spanHours(*start, *end), hold.or(HoldInoc)); err != nil {
			return err
		}
		next.StartTime = Time(*start)
	case start != nil:
		next.StartTime = Time(*start)
	case end != nil:
		next.StartTime = Time(end.Add(-hoursDuration(next.Hours)))
	default:
		next.StartTime = nil
	}
	*f = next
	return nil
}

// doublingConstant is DoubleTemp/ln(2).
func (f *Ferment) doublingConstant() float64 {
	return f.DoubleTemp / math.Ln2
}

// spanHours is the full elapsed time from start to end in hours.
func spanHours(start, end time.Time) float64 {
	return end.Sub(start).Hours()
}

func hoursDuration(hours float64) time.Duration {
	return time.Duration(math.Round(hours * float64(time.Hour)))
}

func validHours(h float64) bool {
	return validPositive(h) && h*float64(time.Hour) < math.MaxInt64
}

func validPositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
