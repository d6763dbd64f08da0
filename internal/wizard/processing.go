package wizard

import (
	"context"
	"time"
)

// Phase is one named stage of the post-submit processing sequence.
type Phase struct {
	Name     string        `json:"name"`
	Duration time.Duration `json:"duration"`
}

// ProcessingPhases is the fixed sequence shown between Submit and the
// eligibility result. Seventeen seconds total.
var ProcessingPhases = []Phase{
	{Name: "Uploading Information", Duration: 2 * time.Second},
	{Name: "Processing Tax Debt Info", Duration: 2 * time.Second},
	{Name: "Processing Filing Status Info", Duration: 2 * time.Second},
	{Name: "Processing Income Info", Duration: 2 * time.Second},
	{Name: "Processing Expenses Info", Duration: 3 * time.Second},
	{Name: "Processing Assets Info", Duration: 2 * time.Second},
	{Name: "Calculating...", Duration: 3 * time.Second},
	{Name: "Done!", Duration: time.Second},
}

// RunProcessing plays the phases in order, calling onPhase (if set) as each
// begins. It performs no computation; it is a timed sequence that stops
// immediately when ctx is cancelled so a torn-down session leaves no timer
// behind.
func RunProcessing(ctx context.Context, phases []Phase, onPhase func(Phase)) error {
	for _, p := range phases {
		if onPhase != nil {
			onPhase(p)
		}
		timer := time.NewTimer(p.Duration)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return nil
}
