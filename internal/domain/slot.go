package domain

import (
	"fmt"
	"time"
)

// Slot is a one-hour sub-interval of an event's window, the unit of
// capacity accounting.
type Slot struct {
	Start time.Time
	End   time.Time
}

// Key renders the slot's wall-clock range, e.g. "18:00-19:00". Keys are
// unique within a single event because event windows never exceed a day.
func (s Slot) Key() string {
	return fmt.Sprintf("%s-%s", s.Start.Format("15:04"), s.End.Format("15:04"))
}

// PartitionWindow splits [start, end) into contiguous one-hour slots.
// The window must span a positive whole number of hours, at most 24:
// beyond a day the wall-clock keys would repeat.
func PartitionWindow(start, end time.Time) ([]Slot, error) {
	d := end.Sub(start)
	if d <= 0 || d%time.Hour != 0 || d > 24*time.Hour {
		return nil, ErrInvalidWindow
	}

	hours := int(d / time.Hour)
	slots := make([]Slot, 0, hours)
	for i := 0; i < hours; i++ {
		slots = append(slots, Slot{
			Start: start.Add(time.Duration(i) * time.Hour),
			End:   start.Add(time.Duration(i+1) * time.Hour),
		})
	}
	return slots, nil
}

// SlotKeys is PartitionWindow reduced to the ledger's key form.
func SlotKeys(start, end time.Time) ([]string, error) {
	slots, err := PartitionWindow(start, end)
	if err != nil {
		return nil, err
	}
	keys := make([]string, len(slots))
	for i, s := range slots {
		keys[i] = s.Key()
	}
	return keys, nil
}
