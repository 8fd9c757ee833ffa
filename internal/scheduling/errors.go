package scheduling

import "errors"

// Expected, user-facing booking outcomes. None of these indicate a defect.
var (
	ErrDateNotFuture  = errors.New("you cannot book a date today or in the past")
	ErrTimeOutOfRange = errors.New("appointments are only available between 9:00 AM and 4:30 PM")
	ErrTimeNotSlot    = errors.New("appointment time must fall on a 30-minute mark")
	ErrSlotFull       = errors.New("maximum 5 persons can book per 30-minute interval, please choose a different time")
)
