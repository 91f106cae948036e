package model

import "time"

// DateLayout is the calendar date format used for assignment due dates.
const DateLayout = "2006-01-02"

// Assignment is a piece of coursework with a due date.
type Assignment struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Subject   string    `json:"subject"`
	DueDate   string    `json:"dueDate"`
	Notes     string    `json:"notes"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

// Due parses DueDate as a calendar date in loc.
func (a Assignment) Due(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, a.DueDate, loc)
}
