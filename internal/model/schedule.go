package model

// TimeLayout is the time-of-day format of schedule items.
const TimeLayout = "15:04"

// ScheduleItem is one entry of the daily schedule.
type ScheduleItem struct {
	ID        int64  `json:"id"`
	Time      string `json:"time"`
	Event     string `json:"event"`
	Completed bool   `json:"completed"`
}
