package lot

import "errors"

var (
	// ErrSlotOutOfRange is returned for a slot index outside the facility.
	ErrSlotOutOfRange = errors.New("slot index out of range")

	// ErrSlotEmpty is returned when releasing a slot with no vehicle in it.
	ErrSlotEmpty = errors.New("slot is empty")

	// ErrSlotsOutOfSync is returned when the core and the slot map disagree on
	// how many vehicles are parked.
	ErrSlotsOutOfSync = errors.New("slot map out of sync with facility counters")
)
