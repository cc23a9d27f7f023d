package model

import "time"

// AvailabilityBlock is a half-open time interval [StartTime, EndTime)
// during which a psychologist declares themselves bookable.  Blocks are
// owned exclusively by one psychologist and deleted only by their owner.
// Overlap against booked appointments is not resolved here; patients see
// the raw declared windows.
type AvailabilityBlock struct {
	ID             uint64    // availability_blocks.id
	PsychologistID uint64    // availability_blocks.psychologist_id
	StartTime      time.Time // availability_blocks.start_time
	EndTime        time.Time // availability_blocks.end_time
	CreatedAt      time.Time // availability_blocks.created_at
}
