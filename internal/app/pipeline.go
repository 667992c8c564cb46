package app

import (
	"image"
	"log"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/lanetap/internal/config"
	"github.com/ayusman/lanetap/internal/replay"
	"github.com/ayusman/lanetap/internal/store"
	"github.com/ayusman/lanetap/internal/tracker"
)

// runPipeline is the frame loop. Every tick it captures one frame and runs
// one detect, track, replay cycle on it. Cycles never overlap.
func (a *App) runPipeline(stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(a.settings.FramePeriod.Std())
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			frame, err := a.source.ReadFrame()
			if err != nil {
				// No frame means no cycle; detection is not attempted.
				log.Printf("Error reading frame: %v", err)
				continue
			}

			a.ProcessFrame(frame)
			frame.Close()
		}
	}
}

// ProcessFrame runs one cycle on frame. The frame is not retained.
//
// Cycle logic:
// 1. Without a running session, keep the frame for preview and return
// 2. On the first frame of a session, place the bars and the replay mapping
// 3. Slice the detect bar strip and advance the tracker
// 4. On an invalid frame, replay the queued frames and stop the session
// 5. Queue the frame records and replay the frame that leaves the delay buffer
func (a *App) ProcessFrame(frame *gocv.Mat) {
	a.mu.Lock()
	event, ok := a.processLocked(frame)
	callbacks := a.callbacks
	a.mu.Unlock()

	if !ok {
		return
	}
	for _, fn := range callbacks {
		fn(event)
	}
}

func (a *App) processLocked(frame *gocv.Mat) (FrameEvent, bool) {
	if !a.detecting {
		a.keepFrame(frame, nil)
		return FrameEvent{}, false
	}

	if !a.initialized {
		if !a.initSession(frame.Cols(), frame.Rows()) {
			log.Printf("Frame %dx%d is too small for the configured bars", frame.Cols(), frame.Rows())
			a.stopDetectionLocked(store.StopReasonFrame)
			a.keepFrame(frame, nil)
			return FrameEvent{}, false
		}
	}

	strip := frame.Region(a.detectRect())
	err := a.tracker.Update(&strip)
	strip.Close()

	a.counters.Frames++
	event := FrameEvent{
		SessionID: a.sessionID,
		Frame:     a.counters.Frames,
		Timestamp: time.Now().UnixMilli(),
	}

	if err != nil {
		log.Printf("Invalid detection, likely out of gameplay: %v", err)
		event.Invalid = true
		// Frames already queued were detected validly; replay them so a
		// pending release is not lost when the session ends.
		for _, pending := range a.buffer.Drain() {
			if err := a.player.Play(pending); err != nil {
				log.Printf("Error replaying frame: %v", err)
			}
		}
		a.stopDetectionLocked(store.StopReasonInvalid)
		a.keepFrame(frame, nil)
		return event, true
	}

	state := a.tracker.State()
	records := state.Records(a.ratio)
	a.countRecords(records)
	event.Records = records

	a.buffer.Push(records)
	if delayed, ok := a.buffer.Pop(); ok {
		if err := a.player.Play(delayed); err != nil {
			log.Printf("Error replaying frame: %v", err)
		}
	}

	a.keepFrame(frame, &state)
	return event, true
}

// initSession computes the bar placement for frames of the given size.
// It returns false when the bars do not fit inside the frame.
func (a *App) initSession(width, height int) bool {
	s := a.settings
	detectX := config.BarX(width, s.DetectBarWidth)
	inputX := config.BarX(width, s.InputBarWidth)

	if detectX < 0 || inputX < 0 ||
		s.DetectBarY+s.BarHeight > height || s.InputBarY+s.BarHeight > height {
		return false
	}

	a.detectBarX = detectX
	a.inputBarX = inputX
	a.ratio = s.Ratio()
	a.player.SetMapper(replay.Mapper{
		InputBarX: inputX,
		InputBarY: s.InputBarY,
		Density:   replay.DisplayDensity(s.PixelDensity),
	})
	a.initialized = true
	return true
}

func (a *App) detectRect() image.Rectangle {
	s := a.settings
	return image.Rect(a.detectBarX, s.DetectBarY, a.detectBarX+s.DetectBarWidth, s.DetectBarY+s.BarHeight)
}

func (a *App) inputRect() image.Rectangle {
	s := a.settings
	return image.Rect(a.inputBarX, s.InputBarY, a.inputBarX+s.InputBarWidth, s.InputBarY+s.BarHeight)
}

func (a *App) countRecords(records []tracker.Record) {
	for _, r := range records {
		switch r.Action {
		case tracker.Press:
			a.counters.Presses++
		case tracker.Move:
			a.counters.Moves++
		case tracker.Release:
			a.counters.Releases++
		}
	}
}

// keepFrame stores a copy of frame for the preview. With a non-nil state the
// bars and tracked slots are drawn on the copy.
func (a *App) keepFrame(frame *gocv.Mat, state *tracker.State) {
	frame.CopyTo(&a.latest)
	if state != nil {
		drawOverlay(&a.latest, a.detectRect(), a.inputRect(), *state, a.ratio)
	}
}
