package types

import (
	"fmt"
	"time"
)

// EditField identifies one quantity changed by an Edit.
type EditField string

// Edit fields in the order they are applied.
const (
	FieldInoc  EditField = "inoc"
	FieldTemp  EditField = "temp"
	FieldHours EditField = "hours"
	FieldTimes EditField = "times"
)

// Edit is a multi-field change to one stage. Nil fields are left alone.
// Since only two of time, temperature and inoculation are independent, each
// applied field becomes the held quantity for the next.
type Edit struct {
	Inoc  *float64
	Temp  *float64
	Hours *float64
	Start *time.Time
	End   *time.Time
}

// EditStep is one single-field change of an Edit.
type EditStep struct {
	Field EditField
	Value float64
	Start *time.Time
	End   *time.Time
}

// IsZero reports whether e changes nothing.
func (e Edit) IsZero() bool {
	return len(e.Steps()) == 0
}

// Steps returns the changes in e in application order: inoculation,
// temperature, hours, then start/end times.
func (e Edit) Steps() []EditStep {
	var steps []EditStep
	if e.Inoc != nil {
		steps = append(steps, EditStep{Field: FieldInoc, Value: *e.Inoc})
	}
	if e.Temp != nil {
		steps = append(steps, EditStep{Field: FieldTemp, Value: *e.Temp})
	}
	if e.Hours != nil {
		steps = append(steps, EditStep{Field: FieldHours, Value: *e.Hours})
	}
	if e.Start != nil || e.End != nil {
		steps = append(steps, EditStep{Field: FieldTimes, Start: e.Start, End: e.End})
	}
	return steps
}

// ApplyEdit applies e to the stage at index, one step at a time. The hold
// starts at inoculation. Changing inoculation holds temperature and then
// holds inoculation for later steps; changing temperature uses the current
// hold and then holds temperature; hours and times use the current hold.
//
// The steps run against a copy of the schedule, which replaces b only when
// every step succeeds.
func (b *Bake) ApplyEdit(index int, e Edit) error {
	if _, err := b.ferment(index); err != nil {
		return err
	}

	next := b.clone()
	hold := HoldInoc
	for _, step := range e.Steps() {
		var err error
		switch step.Field {
		case FieldInoc:
			err = next.ChangeInoc(index, step.Value, HoldTemp)
			hold = HoldInoc
		case FieldTemp:
			err = next.ChangeTemp(index, step.Value, hold)
			hold = HoldTemp
		case FieldHours:
			err = next.ChangeHours(index, step.Value, hold)
		case FieldTimes:
			err = next.ChangeTimes(index, step.Start, step.End, hold)
		}
		if err != nil {
			return fmt.Errorf("edit %s: %w", step.Field, err)
		}
	}
	*b = *next
	return nil
}
