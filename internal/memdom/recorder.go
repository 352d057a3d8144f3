package memdom

import (
	"context"
	"sync"
)

// Frame is one captured visual state, annotated with the HUD overlay that
// was showing at capture time.
type Frame struct {
	Index  int
	Total  int
	Label  string
	Failed bool

	// Overlay reports whether a HUD overlay was showing.
	Overlay bool
}

// Recorder implements ui.Capture and ui.HUD, recording one Frame per
// capture for assertions on the screenshot side channel.
type Recorder struct {
	mu      sync.Mutex
	overlay *Frame
	frames  []Frame
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// ShowStep implements ui.HUD.
func (r *Recorder) ShowStep(index, total int, label string, failed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overlay = &Frame{
		Index:   index,
		Total:   total,
		Label:   label,
		Failed:  failed,
		Overlay: true,
	}
}

// Clear implements ui.HUD.
func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overlay = nil
}

// CaptureVisualState implements ui.Capture.
func (r *Recorder) CaptureVisualState(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.overlay != nil {
		r.frames = append(r.frames, *r.overlay)
	} else {
		r.frames = append(r.frames, Frame{})
	}
	return nil
}

// Captured returns a copy of the recorded frames.
func (r *Recorder) Captured() []Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Frame, len(r.frames))
	copy(out, r.frames)
	return out
}
