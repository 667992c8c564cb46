// Package app provides the detection session controller for lanetap.
package app

import (
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"gocv.io/x/gocv"

	"github.com/ayusman/lanetap/internal/capture"
	"github.com/ayusman/lanetap/internal/config"
	"github.com/ayusman/lanetap/internal/detector"
	"github.com/ayusman/lanetap/internal/replay"
	"github.com/ayusman/lanetap/internal/store"
	"github.com/ayusman/lanetap/internal/tracker"
)

// ErrNoFrame is returned by LatestFrame before the first frame was captured.
var ErrNoFrame = errors.New("no frame captured yet")

// Config holds the collaborators of the application.
type Config struct {
	Settings config.Config
	Store    *store.Store
	Source   capture.Source
	Window   capture.WindowLocator
	Injector replay.Injector
}

// FrameEvent describes the outcome of one detection cycle.
type FrameEvent struct {
	SessionID string           `json:"session_id"`
	Frame     int              `json:"frame"`
	Records   []tracker.Record `json:"records"`
	Invalid   bool             `json:"invalid,omitempty"`
	Timestamp int64            `json:"timestamp"`
}

// Status is a snapshot of the detection state.
type Status struct {
	Detecting bool           `json:"detecting"`
	SessionID string         `json:"session_id,omitempty"`
	Counters  store.Counters `json:"counters"`
	Slots     []*int         `json:"slots"`
}

// App is the main application that orchestrates capture, detection and replay.
type App struct {
	config   Config
	settings config.Config
	source   capture.Source
	tracker  *tracker.Tracker
	player   *replay.Player
	buffer   *replay.DelayBuffer

	mu        sync.Mutex
	detecting bool
	// session geometry, computed from the first frame of a session
	initialized bool
	detectBarX  int
	inputBarX   int
	ratio       float64

	sessionID string
	counters  store.Counters
	latest    gocv.Mat

	callbacks []func(FrameEvent)
	stopCh    chan struct{}
	doneCh    chan struct{}
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	settings := config.Settings

	a := &App{
		config:   config,
		settings: settings,
		source:   config.Source,
		tracker:  tracker.New(detector.NewLumaDetector(detector.FromConfig(settings)), settings.SlideThreshold()),
		player:   replay.NewPlayer(config.Injector, config.Window, settings.ReleaseNudge),
		buffer:   replay.NewDelayBuffer(settings.DelayFrames),
		latest:   gocv.NewMat(),
	}
	a.player.SetVerbose(settings.Verbose)

	return a
}

// SetDetector sets the position detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.tracker.SetDetector(d)
}

// OnFrame registers a callback invoked after every detection cycle.
// Callbacks run on the pipeline goroutine and must not block.
func (a *App) OnFrame(fn func(FrameEvent)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.callbacks = append(a.callbacks, fn)
}

// Start opens the capture source and begins the frame loop. Detection stays
// off until StartDetection is called.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	if err := a.source.Open(); err != nil {
		return err
	}

	if a.config.Store != nil {
		if n, err := a.config.Store.Sessions().CloseDangling(time.Now()); err != nil {
			log.Printf("Failed to close dangling sessions: %v", err)
		} else if n > 0 {
			log.Printf("Closed %d dangling sessions", n)
		}
	}

	a.stopCh = make(chan struct{})
	a.doneCh = make(chan struct{})
	go a.runPipeline(a.stopCh, a.doneCh)

	log.Println("Frame loop started")
	return nil
}

// Stop halts the frame loop, ends any running session and releases resources.
func (a *App) Stop() {
	a.mu.Lock()
	stopCh, doneCh := a.stopCh, a.doneCh
	a.stopCh, a.doneCh = nil, nil
	a.mu.Unlock()

	// Signal the pipeline to stop and wait for the current cycle to finish
	if stopCh != nil {
		close(stopCh)
		<-doneCh
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.detecting {
		a.stopDetectionLocked(store.StopReasonExit)
	}

	if err := a.source.Close(); err != nil {
		log.Printf("Error closing capture source: %v", err)
	}

	a.latest.Close()
	a.latest = gocv.NewMat()

	log.Println("Frame loop stopped")
}

// StartDetection focuses the mirrored window and opens a new session.
func (a *App) StartDetection() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.detecting {
		return nil
	}

	if err := a.player.Focus(); err != nil {
		return err
	}

	a.sessionID = uuid.NewString()
	a.counters = store.Counters{}
	a.initialized = false
	a.tracker.Reset()
	a.buffer.Reset()
	a.detecting = true

	if a.config.Store != nil {
		settings, _ := json.Marshal(a.settings)
		session := &store.Session{ID: a.sessionID, Config: settings}
		if err := a.config.Store.Sessions().Create(session); err != nil {
			log.Printf("Failed to record session %s: %v", a.sessionID, err)
		}
	}

	log.Printf("Start detection (session %s)", a.sessionID)
	return nil
}

// StopDetection ends the running session and resets all tracking state.
func (a *App) StopDetection(reason string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.detecting {
		return
	}
	a.stopDetectionLocked(reason)
}

// SetDetection starts or stops detection, for toggles in the UI layers.
func (a *App) SetDetection(enabled bool) error {
	if enabled {
		return a.StartDetection()
	}
	a.StopDetection(store.StopReasonUser)
	return nil
}

// stopDetectionLocked resets the session. a.mu must be held.
func (a *App) stopDetectionLocked(reason string) {
	a.detecting = false
	a.initialized = false
	a.tracker.Reset()
	a.buffer.Reset()

	if a.config.Store != nil && a.sessionID != "" {
		if err := a.config.Store.Sessions().Finish(a.sessionID, time.Now(), reason, a.counters); err != nil {
			log.Printf("Failed to finish session %s: %v", a.sessionID, err)
		}
	}

	log.Printf("Stop detection (session %s, reason %s, %d frames)", a.sessionID, reason, a.counters.Frames)
}

// IsDetecting returns whether a detection session is running.
func (a *App) IsDetecting() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.detecting
}

// Status returns a snapshot of the detection state.
func (a *App) Status() Status {
	a.mu.Lock()
	defer a.mu.Unlock()

	status := Status{
		Detecting: a.detecting,
		Counters:  a.counters,
		Slots:     make([]*int, tracker.NumSlots),
	}
	if a.detecting {
		status.SessionID = a.sessionID
	}

	state := a.tracker.State()
	for i, slot := range state.Slots {
		if slot.Occupied {
			pos := slot.Pos
			status.Slots[i] = &pos
		}
	}
	return status
}

// LatestFrame returns a copy of the most recent captured frame, with the bar
// overlay drawn while detecting. The caller must close it.
func (a *App) LatestFrame() (*gocv.Mat, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.latest.Empty() {
		return nil, ErrNoFrame
	}
	frame := a.latest.Clone()
	return &frame, nil
}

// Settings returns the static settings of the app.
func (a *App) Settings() config.Config {
	return a.settings
}
