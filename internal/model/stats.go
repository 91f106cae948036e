package model

// Stats aggregates task and pomodoro counters.
type Stats struct {
	CompletedTasks int `json:"completedTasks"`
	TotalTasks     int `json:"totalTasks"`
	PomodoroCount  int `json:"pomodoroCount"`
	StudyTime      int `json:"studyTime"`
	Productivity   int `json:"productivity"`
	Streak         int `json:"streak"`
}

// ProductivityPercent derives the completion percentage from the task counters.
func (s Stats) ProductivityPercent() int {
	if s.TotalTasks <= 0 {
		return 0
	}
	return int(float64(s.CompletedTasks)/float64(s.TotalTasks)*100 + 0.5)
}
