package hub

import (
	"fmt"
	"sort"
	"time"

	"study-hub/internal/model"
)

// dueSoonDays is the inclusive window, in days from today, of a due-soon assignment.
const dueSoonDays = 3

// AssignmentInput represents data required to create an assignment.
type AssignmentInput struct {
	Name    string
	Subject string
	DueDate string
	Notes   string
}

// AssignmentView is an assignment classified against the current date.
type AssignmentView struct {
	model.Assignment
	DaysUntilDue int    `json:"daysUntilDue"`
	Overdue      bool   `json:"overdue"`
	DueSoon      bool   `json:"dueSoon"`
	Label        string `json:"label"`
}

// AddAssignment appends a pending assignment. Name, subject and a YYYY-MM-DD due date
// are required.
func (h *Hub) AddAssignment(input AssignmentInput) (model.Assignment, Result, error) {
	name := normalize(input.Name)
	subject := normalize(input.Subject)
	due := normalize(input.DueDate)
	if name == "" || subject == "" || due == "" {
		return model.Assignment{}, Result{}, fmt.Errorf("name, subject and due date are required: %w", ErrValidation)
	}
	if _, err := time.Parse(model.DateLayout, due); err != nil {
		return model.Assignment{}, Result{}, fmt.Errorf("due date %q: %w", due, ErrValidation)
	}

	assignment := model.Assignment{
		ID:        h.nextID(),
		Name:      name,
		Subject:   subject,
		DueDate:   due,
		Notes:     normalize(input.Notes),
		CreatedAt: h.createdAt(),
	}
	h.state.Assignments = append(h.state.Assignments, assignment)

	return assignment, Result{
		Effects: Persist | RenderAssignments,
		Notice:  "Assignment added successfully! 📚",
	}, nil
}

func (h *Hub) ToggleAssignment(id int64) (model.Assignment, Result, error) {
	idx := h.assignmentIndex(id)
	if idx < 0 {
		return model.Assignment{}, Result{}, ErrNotFound
	}
	a := &h.state.Assignments[idx]
	a.Completed = !a.Completed

	res := Result{Effects: Persist | RenderAssignments, Notice: "Assignment marked as pending! ⏳"}
	if a.Completed {
		res.Notice = "Assignment completed! Excellent work! 🎓"
	}
	return *a, res, nil
}

func (h *Hub) DeleteAssignment(id int64) (model.Assignment, Result, error) {
	idx := h.assignmentIndex(id)
	if idx < 0 {
		return model.Assignment{}, Result{}, ErrNotFound
	}
	a := h.state.Assignments[idx]
	h.state.Assignments = append(h.state.Assignments[:idx], h.state.Assignments[idx+1:]...)
	return a, Result{Effects: Persist | RenderAssignments, Notice: "Assignment deleted! 🗑️"}, nil
}

// Assignments sorts the assignment list (pending first, then by due date) and returns it
// classified against today.
func (h *Hub) Assignments() []AssignmentView {
	return h.AssignmentsOn(h.today())
}

// AssignmentsOn is Assignments classified against the calendar date of day.
func (h *Hub) AssignmentsOn(day time.Time) []AssignmentView {
	list := h.state.Assignments
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Completed != list[j].Completed {
			return !list[i].Completed
		}
		return list[i].DueDate < list[j].DueDate
	})

	y, m, d := day.In(h.loc).Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, h.loc)
	views := make([]AssignmentView, 0, len(list))
	for _, a := range list {
		views = append(views, classify(a, today, h.loc))
	}
	return views
}

func classify(a model.Assignment, today time.Time, loc *time.Location) AssignmentView {
	view := AssignmentView{Assignment: a}
	due, err := a.Due(loc)
	if err != nil {
		view.Label = "(no valid due date)"
		return view
	}

	days := daysBetween(today, due)
	view.DaysUntilDue = days
	view.Overdue = days < 0
	view.DueSoon = days >= 0 && days <= dueSoonDays

	switch {
	case days < 0:
		view.Label = fmt.Sprintf("(%d days overdue)", -days)
	case days == 0:
		view.Label = "(Due today!)"
	case days == 1:
		view.Label = "(Due tomorrow)"
	default:
		view.Label = fmt.Sprintf("(%d days left)", days)
	}
	return view
}

// daysBetween counts calendar days from a to b, ignoring time of day and DST shifts.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	from := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	to := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}

func (h *Hub) assignmentIndex(id int64) int {
	for i, a := range h.state.Assignments {
		if a.ID == id {
			return i
		}
	}
	return -1
}
