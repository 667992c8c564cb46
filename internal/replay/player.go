package replay

import (
	"errors"
	"fmt"
	"image"
	"log"

	"github.com/ayusman/lanetap/internal/capture"
	"github.com/ayusman/lanetap/internal/tracker"
)

// focusOffset is where the window is clicked to give it focus.
var focusOffset = image.Pt(100, 100)

// Player replays frame records through an Injector.
type Player struct {
	injector Injector
	window   capture.WindowLocator
	mapper   Mapper
	nudge    int
	verbose  bool
}

// NewPlayer creates a Player. nudge is how many screen points above the touch
// the pointer is dragged before the button is released.
func NewPlayer(injector Injector, window capture.WindowLocator, nudge int) *Player {
	return &Player{
		injector: injector,
		window:   window,
		nudge:    nudge,
	}
}

// SetMapper sets the frame-to-screen mapping. It is recomputed at the start
// of every detection session.
func (p *Player) SetMapper(m Mapper) {
	p.mapper = m
}

// SetVerbose turns logging of every replayed event on or off.
func (p *Player) SetVerbose(verbose bool) {
	p.verbose = verbose
}

func (p *Player) logf(format string, args ...interface{}) {
	if p.verbose {
		log.Printf(format, args...)
	}
}

// Mapper returns the current mapping.
func (p *Player) Mapper() Mapper {
	return p.mapper
}

// Play issues the pointer events for one frame of records, in slot order.
// A failing record does not stop the rest; all errors are returned joined.
// The window origin is queried once per call.
//
//	press   -> button down at the point
//	move    -> drag to the point
//	release -> drag to the nudged point, then button up there
func (p *Player) Play(records []tracker.Record) error {
	if len(records) == 0 {
		return nil
	}

	origin, err := p.window.Origin()
	if err != nil {
		return fmt.Errorf("locate window: %w", err)
	}

	var errs []error
	for _, r := range records {
		pt := p.mapper.ToScreen(origin, r.X)

		var err error
		switch r.Action {
		case tracker.Press:
			p.logf("slot %d press at (%d, %d)", r.Slot, pt.X, pt.Y)
			err = p.injector.Press(pt)

		case tracker.Move:
			p.logf("slot %d move to (%d, %d)", r.Slot, pt.X, pt.Y)
			err = p.injector.Drag(pt)

		case tracker.Release:
			// The button goes up even if the drag failed.
			lifted := pt.Sub(image.Pt(0, p.nudge))
			p.logf("slot %d release at (%d, %d)", r.Slot, lifted.X, lifted.Y)
			err = errors.Join(p.injector.Drag(lifted), p.injector.Release(lifted))
		}

		if err != nil {
			errs = append(errs, fmt.Errorf("slot %d %s: %w", r.Slot, r.Action, err))
		}
	}

	return errors.Join(errs...)
}

// Focus clicks inside the window so that it receives the replayed events.
func (p *Player) Focus() error {
	origin, err := p.window.Origin()
	if err != nil {
		return fmt.Errorf("locate window: %w", err)
	}

	pt := origin.Add(focusOffset)
	if err := p.injector.Press(pt); err != nil {
		return err
	}
	return p.injector.Release(pt)
}
