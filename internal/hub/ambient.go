package hub

import (
	"fmt"
	"strings"
)

// Sound is a looping background track.
type Sound string

const (
	SoundRain   Sound = "rain"
	SoundForest Sound = "forest"
	SoundOcean  Sound = "ocean"
	SoundCafe   Sound = "cafe"
)

// Sounds lists the available ambient tracks.
var Sounds = []Sound{SoundRain, SoundForest, SoundOcean, SoundCafe}

const defaultVolume = 50

// Ambient tracks which sound is playing and at what volume. At most one sound plays.
type Ambient struct {
	current Sound
	volume  int
}

func NewAmbient() *Ambient {
	return &Ambient{volume: defaultVolume}
}

func ParseSound(raw string) (Sound, error) {
	value := Sound(strings.ToLower(strings.TrimSpace(raw)))
	for _, s := range Sounds {
		if s == value {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown sound %q: %w", raw, ErrValidation)
}

// Toggle stops sound if it is playing, otherwise switches to it.
func (a *Ambient) Toggle(sound Sound) (playing bool) {
	if a.current == sound {
		a.current = ""
		return false
	}
	a.current = sound
	return true
}

// Playing returns the current sound, if any.
func (a *Ambient) Playing() (Sound, bool) {
	return a.current, a.current != ""
}

func (a *Ambient) Volume() int {
	return a.volume
}

// SetVolume sets the playback volume in percent.
func (a *Ambient) SetVolume(percent int) error {
	if percent < 0 || percent > 100 {
		return fmt.Errorf("volume %d out of range 0-100: %w", percent, ErrValidation)
	}
	a.volume = percent
	return nil
}

// ToggleSound starts or stops an ambient sound.
func (h *Hub) ToggleSound(raw string) (Result, error) {
	sound, err := ParseSound(raw)
	if err != nil {
		return Result{}, err
	}
	if !h.ambient.Toggle(sound) {
		return Result{Notice: "Ambient sound stopped 🔇"}, nil
	}
	name := string(sound)
	return Result{Notice: fmt.Sprintf("%s sounds playing 🔊", strings.ToUpper(name[:1])+name[1:])}, nil
}

func (h *Hub) SetVolume(percent int) (Result, error) {
	if err := h.ambient.SetVolume(percent); err != nil {
		return Result{}, err
	}
	return Result{Notice: fmt.Sprintf("Volume %d%% 🔈", percent)}, nil
}
