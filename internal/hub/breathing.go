package hub

import "time"

// BreathingPhase is one step of the breathing exercise.
type BreathingPhase struct {
	Instruction string
	Duration    time.Duration
	// Scale is the size of the breathing circle while the phase lasts.
	Scale float64
}

// BreathingPhases is one cycle of the exercise; it repeats until stopped.
var BreathingPhases = []BreathingPhase{
	{Instruction: "Breathe in...", Duration: 4 * time.Second, Scale: 1.3},
	{Instruction: "Hold...", Duration: time.Second, Scale: 1.3},
	{Instruction: "Breathe out...", Duration: 4 * time.Second, Scale: 1},
	{Instruction: "Hold...", Duration: time.Second, Scale: 1},
}
