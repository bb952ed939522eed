package types

import (
	"fmt"
	"time"
)

// Bake is an ordered schedule of Ferment stages. Stage names are unique and
// every change re-synchronizes start times so each stage begins when the
// previous one ends. Stage lengths are never changed by synchronization.
//
// A Bake is not safe for concurrent use.
type Bake struct {
	Name string

	defaults FermentDefaults
	ferments []*Ferment
	index    map[string]int
}

// NewBake builds a schedule from args with the package stage defaults.
func NewBake(args BakeArgs) (*Bake, error) {
	return NewBakeWithDefaults(args, DefaultFermentDefaults())
}

// NewBakeWithDefaults builds a schedule from args, filling absent stage
// fields from d. Stages are added in order, each followed by a sync.
func NewBakeWithDefaults(args BakeArgs, d FermentDefaults) (*Bake, error) {
	b := &Bake{
		Name:     args.Name,
		defaults: d,
		index:    map[string]int{},
	}
	for i, fa := range args.Ferments {
		if err := b.AddFerment(fa); err != nil {
			return nil, fmt.Errorf("stage %d: %w", i, err)
		}
	}
	return b, nil
}

// Args returns the record that rebuilds b through NewBake.
func (b *Bake) Args() BakeArgs {
	args := BakeArgs{Name: b.Name, Ferments: make([]FermentArgs, len(b.ferments))}
	for i, f := range b.ferments {
		args.Ferments[i] = f.Args()
	}
	return args
}

// Len returns the number of stages.
func (b *Bake) Len() int { return len(b.ferments) }

// Stage returns a copy of the stage at index.
func (b *Bake) Stage(index int) (Ferment, error) {
	f, err := b.ferment(index)
	if err != nil {
		return Ferment{}, err
	}
	return *f, nil
}

// Stages returns copies of all stages in schedule order.
func (b *Bake) Stages() []Ferment {
	out := make([]Ferment, len(b.ferments))
	for i, f := range b.ferments {
		out[i] = *f
	}
	return out
}

// Index returns the position of the stage called name.
func (b *Bake) Index(name string) (int, error) {
	i, ok := b.index[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrStageNotFound, name)
	}
	return i, nil
}

// FermentIndex returns a copy of the stage name to position mapping.
func (b *Bake) FermentIndex() map[string]int {
	out := make(map[string]int, len(b.index))
	for k, v := range b.index {
		out[k] = v
	}
	return out
}

// Bounds returns the start of the first stage and the end of the last, or
// nils when the schedule is empty or unanchored.
func (b *Bake) Bounds() (start, end *time.Time) {
	if len(b.ferments) == 0 {
		return nil, nil
	}
	return b.ferments[0].StartTime, b.ferments[len(b.ferments)-1].EndTime()
}

// AddFerment appends a stage built from args.
func (b *Bake) AddFerment(args FermentArgs) error {
	return b.InsertFerment(len(b.ferments), args)
}

// InsertFerment builds a stage from args and inserts it at index, which may
// range from 0 to Len(). Absent fields come from the bake defaults. A name
// already in use gets underscores appended until it is unique. The new stage
// becomes the sync anchor when it carries a start time.
func (b *Bake) InsertFerment(index int, args FermentArgs) error {
	if index < 0 || index > len(b.ferments) {
		return fmt.Errorf("%w: insert position %d of %d", ErrStageNotFound, index, len(b.ferments))
	}

	f, err := NewFerment(args.WithDefaults(b.defaults))
	if err != nil {
		return err
	}
	for {
		if _, taken := b.index[f.Name]; !taken {
			break
		}
		f.Name += "_"
	}

	b.ferments = append(b.ferments, nil)
	copy(b.ferments[index+1:], b.ferments[index:])
	b.ferments[index] = f
	b.reindex()
	return b.SyncTimes(index)
}

// RemoveFerment deletes the stage at index and re-synchronizes from the
// first anchored stage.
func (b *Bake) RemoveFerment(index int) error {
	if _, err := b.ferment(index); err != nil {
		return err
	}
	b.ferments = append(b.ferments[:index], b.ferments[index+1:]...)
	b.reindex()
	return b.SyncTimes(0)
}

// SyncTimes makes the schedule contiguous. The reference stage is the one at
// index if it is anchored, else the first anchored stage. Later stages start
// when their predecessor ends; earlier stages end when their successor
// starts. With no anchored stage nothing changes.
func (b *Bake) SyncTimes(index int) error {
	n := len(b.ferments)
	if n == 0 {
		return nil
	}
	if _, err := b.ferment(index); err != nil {
		return err
	}

	ref := -1
	if b.ferments[index].StartTime != nil {
		ref = index
	} else {
		for i, f := range b.ferments {
			if f.StartTime != nil {
				ref = i
				break
			}
		}
	}
	if ref < 0 {
		return nil
	}

	for i := ref + 1; i < n; i++ {
		if err := b.ferments[i].ChangeTimes(b.ferments[i-1].EndTime(), nil, ""); err != nil {
			return err
		}
	}
	for i := ref - 1; i >= 0; i-- {
		start := b.ferments[i+1].StartTime.Add(-hoursDuration(b.ferments[i].Hours))
		if err := b.ferments[i].ChangeTimes(&start, nil, ""); err != nil {
			return err
		}
	}
	return nil
}

// ChangeHours changes the length of the stage at index and re-flows the
// schedule around it.
func (b *Bake) ChangeHours(index int, hours float64, hold Hold) error {
	return b.change(index, func(f *Ferment) error { return f.ChangeHours(hours, hold) })
}

// ChangeTemp changes the temperature of the stage at index and re-flows the
// schedule around it.
func (b *Bake) ChangeTemp(index int, temp float64, hold Hold) error {
	return b.change(index, func(f *Ferment) error { return f.ChangeTemp(temp, hold) })
}

// ChangeInoc changes the inoculation of the stage at index and re-flows the
// schedule around it.
func (b *Bake) ChangeInoc(index int, inoc float64, hold Hold) error {
	return b.change(index, func(f *Ferment) error { return f.ChangeInoc(inoc, hold) })
}

// ChangeTimes moves or resizes the stage at index by wall-clock time and
// re-flows the schedule around it.
func (b *Bake) ChangeTimes(index int, start, end *time.Time, hold Hold) error {
	return b.change(index, func(f *Ferment) error { return f.ChangeTimes(start, end, hold) })
}

func (b *Bake) change(index int, apply func(*Ferment) error) error {
	f, err := b.ferment(index)
	if err != nil {
		return err
	}
	if err := apply(f); err != nil {
		return err
	}
	return b.SyncTimes(index)
}

func (b *Bake) ferment(index int) (*Ferment, error) {
	if index < 0 || index >= len(b.ferments) {
		return nil, fmt.Errorf("%w: index %d of %d", ErrStageNotFound, index, len(b.ferments))
	}
	return b.ferments[index], nil
}

// reindex rebuilds the name to position mapping from the stage list.
func (b *Bake) reindex() {
	b.index = make(map[string]int, len(b.ferments))
	for i, f := range b.ferments {
		b.index[f.Name] = i
	}
}

// clone returns a deep copy of b.
func (b *Bake) clone() *Bake {
	c := &Bake{
		Name:     b.Name,
		defaults: b.defaults,
		ferments: make([]*Ferment, len(b.ferments)),
	}
	for i, f := range b.ferments {
		cp := *f
		c.ferments[i] = &cp
	}
	c.reindex()
	return c
}
