package hub

import "study-hub/internal/model"

// StatsView returns the counters with productivity derived from them.
func (h *Hub) StatsView() model.Stats {
	stats := h.state.Stats
	stats.Productivity = stats.ProductivityPercent()
	return stats
}

// ResetStats zeroes every counter. The collections are left untouched.
func (h *Hub) ResetStats() Result {
	h.state.Stats = model.Stats{}
	return Result{Effects: Persist | RenderStats, Notice: "Statistics reset! 🗑️"}
}
