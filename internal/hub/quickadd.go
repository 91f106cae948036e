package hub

import (
	"fmt"
	"strings"

	"study-hub/internal/model"
)

// QuickKind names the collection a quick add goes to.
type QuickKind string

const (
	QuickTask       QuickKind = "task"
	QuickAssignment QuickKind = "assignment"
	QuickSchedule   QuickKind = "schedule"
)

// QuickAdd creates an item from a single line of text, filling the other fields with
// defaults: a medium priority general task, a General assignment due today, or a schedule
// item at the current time.
func (h *Hub) QuickAdd(kind QuickKind, text string) (Result, error) {
	if normalize(text) == "" {
		return Result{}, fmt.Errorf("text is required: %w", ErrValidation)
	}

	var (
		res Result
		err error
	)
	switch QuickKind(strings.ToLower(string(kind))) {
	case QuickTask:
		_, res, err = h.AddTask(TaskInput{Text: text, Priority: model.PriorityMedium, Category: defaultCategory})
	case QuickAssignment:
		_, res, err = h.AddAssignment(AssignmentInput{
			Name:    text,
			Subject: "General",
			DueDate: h.today().Format(model.DateLayout),
		})
	case QuickSchedule:
		_, res, err = h.AddScheduleItem(ScheduleInput{
			Time:  h.now().In(h.loc).Format(model.TimeLayout),
			Event: text,
		})
	default:
		return Result{}, fmt.Errorf("unknown quick add kind %q: %w", kind, ErrValidation)
	}
	if err != nil {
		return Result{}, err
	}

	label := string(kind)
	res.Notice = fmt.Sprintf("%s added quickly! ⚡", strings.ToUpper(label[:1])+strings.ToLower(label[1:]))
	return res, nil
}
