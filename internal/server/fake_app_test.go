package server

import (
	"sync"

	"gocv.io/x/gocv"

	"github.com/ayusman/lanetap/internal/app"
)

// fakeApp is an in-memory App for handler tests.
type fakeApp struct {
	mu        sync.Mutex
	detecting bool
	frame     *gocv.Mat
	callbacks []func(app.FrameEvent)
}

func (f *fakeApp) SetDetection(enabled bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detecting = enabled
	return nil
}

func (f *fakeApp) Status() app.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return app.Status{Detecting: f.detecting, Slots: make([]*int, 2)}
}

func (f *fakeApp) LatestFrame() (*gocv.Mat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.frame == nil {
		return nil, app.ErrNoFrame
	}
	clone := f.frame.Clone()
	return &clone, nil
}

func (f *fakeApp) OnFrame(fn func(app.FrameEvent)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callbacks = append(f.callbacks, fn)
}

func (f *fakeApp) emit(e app.FrameEvent) {
	f.mu.Lock()
	callbacks := f.callbacks
	f.mu.Unlock()
	for _, fn := range callbacks {
		fn(e)
	}
}
