package models

import "time"

type TimeSource string

const (
	SourceTimer  TimeSource = "timer"
	SourceManual TimeSource = "manual"
)

// TimeEntry is one tracked span of work. An entry with EndedAt == nil is the
// actor's open timer; across the whole system an actor has at most one such
// row at any instant. DurationMinutes is authoritative only once EndedAt is
// set; elapsed time of a running entry is derived on read.
type TimeEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	WorkOrderID uint `gorm:"index;not null" json:"work_order_id"`
	ActorID     uint `gorm:"index;not null" json:"actor_id"`

	Day       time.Time  `gorm:"not null" json:"day"`
	StartedAt time.Time  `gorm:"not null" json:"started_at"`
	EndedAt   *time.Time `json:"ended_at"`

	DurationMinutes int        `json:"duration_minutes"`
	Note            string     `gorm:"type:text" json:"note"`
	Source          TimeSource `gorm:"type:varchar(10);not null" json:"source"`
}

// ElapsedMinutes derives the live elapsed time of an open entry. For closed
// entries the stored duration is returned unchanged.
func (e *TimeEntry) ElapsedMinutes(now time.Time) int {
	if e.EndedAt != nil {
		return e.DurationMinutes
	}
	return RoundMinutes(now.Sub(e.StartedAt))
}

// RoundMinutes converts a duration to whole minutes, rounding half up. All
// duration math in the system goes through UTC instants and this one
// function.
func RoundMinutes(d time.Duration) int {
	return int((d + 30*time.Second) / time.Minute)
}
