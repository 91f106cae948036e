package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"study-hub/internal/hub"
	"study-hub/internal/model"
	"study-hub/internal/service"
)

// HubHandler exposes one user's hub over HTTP. The user is the Telegram id in the path.
type HubHandler struct {
	hubs *service.HubService
}

func NewHubHandler(hubs *service.HubService) *HubHandler {
	return &HubHandler{hubs: hubs}
}

type timerView struct {
	Mode      hub.Mode `json:"mode"`
	Running   bool     `json:"running"`
	Remaining int      `json:"remaining"`
	Display   string   `json:"display"`
	Progress  float64  `json:"progress"`
	Goal      string   `json:"goal,omitempty"`
}

func newTimerView(h *hub.Hub) timerView {
	t := h.Timer()
	return timerView{
		Mode:      t.Mode(),
		Running:   t.Running(),
		Remaining: t.Remaining(),
		Display:   t.Display(),
		Progress:  t.Progress(),
		Goal:      h.SessionGoal(),
	}
}

// GET /api/users/:user/tasks?filter=
func (h *HubHandler) ListTasks(c *gin.Context) {
	userID, ok := userParam(c)
	if !ok {
		return
	}
	filter := hub.TaskFilter(strings.ToLower(c.DefaultQuery("filter", string(hub.FilterAll))))

	var tasks []model.Task
	if err := h.hubs.View(c.Request.Context(), userID, func(hb *hub.Hub) {
		tasks = hb.FilterTasks(filter)
	}); err != nil {
		respondError(c, "[hub][tasks][list]", err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// POST /api/users/:user/tasks
func (h *HubHandler) CreateTask(c *gin.Context) {
	userID, ok := userParam(c)
	if !ok {
		return
	}
	var req struct {
		Text     string         `json:"text"`
		Priority model.Priority `json:"priority"`
		Category string         `json:"category"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[hub][tasks][create][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var task model.Task
	res, err := h.hubs.Do(c.Request.Context(), userID, func(hb *hub.Hub) (hub.Result, error) {
		var (
			res hub.Result
			err error
		)
		task, res, err = hb.AddTask(hub.TaskInput{Text: req.Text, Priority: req.Priority, Category: req.Category})
		return res, err
	})
	if err != nil {
		respondError(c, "[hub][tasks][create]", err)
		return
	}
	log.Printf("[hub][tasks][create][ok] user=%d id=%d", userID, task.ID)
	c.JSON(http.StatusCreated, gin.H{"task": task, "notice": res.Notice})
}

// POST /api/users/:user/tasks/:id/toggle
func (h *HubHandler) ToggleTask(c *gin.Context) {
	h.itemOp(c, "[hub][tasks][toggle]", "task", itemMethod((*hub.Hub).ToggleTask))
}

// DELETE /api/users/:user/tasks/:id
func (h *HubHandler) DeleteTask(c *gin.Context) {
	h.itemOp(c, "[hub][tasks][delete]", "task", itemMethod((*hub.Hub).DeleteTask))
}

// POST /api/users/:user/tasks/sort
func (h *HubHandler) SortTasks(c *gin.Context) {
	by := c.DefaultQuery("by", "priority")
	h.simpleOp(c, "[hub][tasks][sort]", func(hb *hub.Hub) (hub.Result, error) {
		return hb.SortTasks(by), nil
	})
}

// POST /api/users/:user/tasks/clear-completed
func (h *HubHandler) ClearCompleted(c *gin.Context) {
	userID, ok := userParam(c)
	if !ok {
		return
	}
	var cleared int
	res, err := h.hubs.Do(c.Request.Context(), userID, func(hb *hub.Hub) (hub.Result, error) {
		var res hub.Result
		cleared, res = hb.ClearCompletedTasks()
		return res, nil
	})
	if err != nil {
		respondError(c, "[hub][tasks][clear]", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cleared": cleared, "notice": res.Notice})
}

// GET /api/users/:user/assignments
func (h *HubHandler) ListAssignments(c *gin.Context) {
	userID, ok := userParam(c)
	if !ok {
		return
	}
	var views []hub.AssignmentView
	if err := h.hubs.View(c.Request.Context(), userID, func(hb *hub.Hub) {
		views = hb.Assignments()
	}); err != nil {
		respondError(c, "[hub][assignments][list]", err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// POST /api/users/:user/assignments
func (h *HubHandler) CreateAssignment(c *gin.Context) {
	userID, ok := userParam(c)
	if !ok {
		return
	}
	var req struct {
		Name    string `json:"name"`
		Subject string `json:"subject"`
		DueDate string `json:"dueDate"`
		Notes   string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[hub][assignments][create][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var assignment model.Assignment
	res, err := h.hubs.Do(c.Request.Context(), userID, func(hb *hub.Hub) (hub.Result, error) {
		var (
			res hub.Result
			err error
		)
		assignment, res, err = hb.AddAssignment(hub.AssignmentInput{
			Name:    req.Name,
			Subject: req.Subject,
			DueDate: req.DueDate,
			Notes:   req.Notes,
		})
		return res, err
	})
	if err != nil {
		respondError(c, "[hub][assignments][create]", err)
		return
	}
	log.Printf("[hub][assignments][create][ok] user=%d id=%d due=%s", userID, assignment.ID, assignment.DueDate)
	c.JSON(http.StatusCreated, gin.H{"assignment": assignment, "notice": res.Notice})
}

// POST /api/users/:user/assignments/:id/toggle
func (h *HubHandler) ToggleAssignment(c *gin.Context) {
	h.itemOp(c, "[hub][assignments][toggle]", "assignment", itemMethod((*hub.Hub).ToggleAssignment))
}

// DELETE /api/users/:user/assignments/:id
func (h *HubHandler) DeleteAssignment(c *gin.Context) {
	h.itemOp(c, "[hub][assignments][delete]", "assignment", itemMethod((*hub.Hub).DeleteAssignment))
}

// GET /api/users/:user/schedule
func (h *HubHandler) ListSchedule(c *gin.Context) {
	userID, ok := userParam(c)
	if !ok {
		return
	}
	var items []model.ScheduleItem
	if err := h.hubs.View(c.Request.Context(), userID, func(hb *hub.Hub) {
		items = hb.Schedule()
	}); err != nil {
		respondError(c, "[hub][schedule][list]", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// POST /api/users/:user/schedule
func (h *HubHandler) CreateScheduleItem(c *gin.Context) {
	userID, ok := userParam(c)
	if !ok {
		return
	}
	var req struct {
		Time  string `json:"time"`
		Event string `json:"event"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[hub][schedule][create][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var item model.ScheduleItem
	res, err := h.hubs.Do(c.Request.Context(), userID, func(hb *hub.Hub) (hub.Result, error) {
		var (
			res hub.Result
			err error
		)
		item, res, err = hb.AddScheduleItem(hub.ScheduleInput{Time: req.Time, Event: req.Event})
		return res, err
	})
	if err != nil {
		respondError(c, "[hub][schedule][create]", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": item, "notice": res.Notice})
}

// POST /api/users/:user/schedule/:id/toggle
func (h *HubHandler) ToggleScheduleItem(c *gin.Context) {
	h.itemOp(c, "[hub][schedule][toggle]", "item", itemMethod((*hub.Hub).ToggleScheduleItem))
}

// DELETE /api/users/:user/schedule/:id
func (h *HubHandler) DeleteScheduleItem(c *gin.Context) {
	h.itemOp(c, "[hub][schedule][delete]", "item", itemMethod((*hub.Hub).DeleteScheduleItem))
}

// POST /api/users/:user/quick
func (h *HubHandler) QuickAdd(c *gin.Context) {
	var req struct {
		Kind hub.QuickKind `json:"kind" binding:"required"`
		Text string        `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[hub][quick][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.simpleOp(c, "[hub][quick]", func(hb *hub.Hub) (hub.Result, error) {
		return hb.QuickAdd(req.Kind, req.Text)
	})
}

// GET /api/users/:user/timer
func (h *HubHandler) GetTimer(c *gin.Context) {
	userID, ok := userParam(c)
	if !ok {
		return
	}
	var view timerView
	if err := h.hubs.View(c.Request.Context(), userID, func(hb *hub.Hub) {
		view = newTimerView(hb)
	}); err != nil {
		respondError(c, "[hub][timer][get]", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// POST /api/users/:user/timer/:action with action start, pause or reset.
func (h *HubHandler) TimerAction(c *gin.Context) {
	var op func(hb *hub.Hub) hub.Result
	switch c.Param("action") {
	case "start":
		op = (*hub.Hub).StartTimer
	case "pause":
		op = (*hub.Hub).PauseTimer
	case "reset":
		op = (*hub.Hub).ResetTimer
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown timer action"})
		return
	}
	h.timerOp(c, "[hub][timer]["+c.Param("action")+"]", func(hb *hub.Hub) (hub.Result, error) {
		return op(hb), nil
	})
}

// POST /api/users/:user/timer/mode
func (h *HubHandler) SetTimerMode(c *gin.Context) {
	var req struct {
		Mode string `json:"mode" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	mode, err := hub.ParseMode(req.Mode)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.timerOp(c, "[hub][timer][mode]", func(hb *hub.Hub) (hub.Result, error) {
		return hb.SetTimerMode(mode)
	})
}

// GET /api/users/:user/stats
func (h *HubHandler) GetStats(c *gin.Context) {
	userID, ok := userParam(c)
	if !ok {
		return
	}
	var stats model.Stats
	if err := h.hubs.View(c.Request.Context(), userID, func(hb *hub.Hub) {
		stats = hb.StatsView()
	}); err != nil {
		respondError(c, "[hub][stats][get]", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// POST /api/users/:user/stats/reset
func (h *HubHandler) ResetStats(c *gin.Context) {
	h.simpleOp(c, "[hub][stats][reset]", func(hb *hub.Hub) (hub.Result, error) {
		return hb.ResetStats(), nil
	})
}

// POST /api/users/:user/theme
func (h *HubHandler) ToggleTheme(c *gin.Context) {
	userID, ok := userParam(c)
	if !ok {
		return
	}
	var dark bool
	res, err := h.hubs.Do(c.Request.Context(), userID, func(hb *hub.Hub) (hub.Result, error) {
		res := hb.ToggleTheme()
		dark = hb.State().DarkMode
		return res, nil
	})
	if err != nil {
		respondError(c, "[hub][theme]", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"darkMode": dark, "notice": res.Notice})
}

// GET /api/quote
func (h *HubHandler) Quote(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"quote": hub.RandomQuote(nil)})
}

// itemMethod adapts a per-item hub method so its item can be returned as JSON.
func itemMethod[T any](method func(*hub.Hub, int64) (T, hub.Result, error)) func(*hub.Hub, int64) (any, hub.Result, error) {
	return func(hb *hub.Hub, id int64) (any, hub.Result, error) {
		return method(hb, id)
	}
}

func (h *HubHandler) itemOp(c *gin.Context, tag, field string, method func(*hub.Hub, int64) (any, hub.Result, error)) {
	userID, ok := userParam(c)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		log.Printf("%s[err] invalid id=%q", tag, c.Param("id"))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var item any
	res, err := h.hubs.Do(c.Request.Context(), userID, func(hb *hub.Hub) (hub.Result, error) {
		var (
			res hub.Result
			err error
		)
		item, res, err = method(hb, id)
		return res, err
	})
	if err != nil {
		respondError(c, tag, err)
		return
	}
	log.Printf("%s[ok] user=%d id=%d", tag, userID, id)
	c.JSON(http.StatusOK, gin.H{field: item, "notice": res.Notice})
}

func (h *HubHandler) simpleOp(c *gin.Context, tag string, op func(hb *hub.Hub) (hub.Result, error)) {
	userID, ok := userParam(c)
	if !ok {
		return
	}
	res, err := h.hubs.Do(c.Request.Context(), userID, op)
	if err != nil {
		respondError(c, tag, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notice": res.Notice})
}

func (h *HubHandler) timerOp(c *gin.Context, tag string, op func(hb *hub.Hub) (hub.Result, error)) {
	userID, ok := userParam(c)
	if !ok {
		return
	}
	var view timerView
	res, err := h.hubs.Do(c.Request.Context(), userID, func(hb *hub.Hub) (hub.Result, error) {
		res, err := op(hb)
		view = newTimerView(hb)
		return res, err
	})
	if err != nil {
		respondError(c, tag, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"timer": view, "notice": res.Notice})
}

func userParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("user"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return 0, false
	}
	return id, true
}

func respondError(c *gin.Context, tag string, err error) {
	switch {
	case errors.Is(err, hub.ErrValidation):
		log.Printf("%s[invalid] %v", tag, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, hub.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		log.Printf("%s[err] %v", tag, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
