package e2e

import (
	"encoding/json"
	"image"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ayusman/lanetap/internal/app"
	"github.com/ayusman/lanetap/internal/capture"
	"github.com/ayusman/lanetap/internal/config"
	"github.com/ayusman/lanetap/internal/replay"
	"github.com/ayusman/lanetap/internal/server"
	"github.com/ayusman/lanetap/internal/store"
	"github.com/ayusman/lanetap/testdata"
)

var frameSize = image.Pt(1000, 600)

func TestE2E_TouchLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	settings := config.Default()

	s, err := store.New(filepath.Join(t.TempDir(), "data.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	injector := replay.NewRecordingInjector()
	application := app.New(app.Config{
		Settings: settings,
		Store:    s,
		Source:   capture.NewMockSource(nil, false),
		Window:   capture.FixedWindow{},
		Injector: injector,
	})

	srv := server.New(server.Config{Store: s, App: application})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	if err := application.StartDetection(); err != nil {
		t.Fatalf("StartDetection() error = %v", err)
	}
	sessionID := application.Status().SessionID
	injector.Clear()

	frames := testdata.Sequence(settings, frameSize,
		[]int{100, 300}, // two presses
		[]int{120, 300}, // slot 0 slides
		[]int{120},      // slot 1 lifts
		[]int{},         // slot 0 lifts
	)
	defer func() {
		for _, f := range frames {
			f.Close()
		}
	}()

	t.Run("ReplayLagsOneFrame", func(t *testing.T) {
		for _, f := range frames {
			application.ProcessFrame(f)
		}

		// Input bar starts at x=80 in a 1000 wide frame, density 2, bar y 500.
		want := []replay.Event{
			{Kind: replay.EventPress, Point: image.Pt((200+80)/2, 250)},
			{Kind: replay.EventPress, Point: image.Pt((600+80)/2, 250)},
			{Kind: replay.EventDrag, Point: image.Pt((240+80)/2, 250)},
			{Kind: replay.EventDrag, Point: image.Pt((600+80)/2, 245)},
			{Kind: replay.EventRelease, Point: image.Pt((600+80)/2, 245)},
		}
		if got := injector.Events(); !reflect.DeepEqual(got, want) {
			t.Errorf("events =\n%v\nwant\n%v", got, want)
		}
	})

	t.Run("WideSignalStopsSession", func(t *testing.T) {
		wide := testdata.WideFrame(settings, frameSize, 200, 150)
		defer wide.Close()

		injector.Clear()
		application.ProcessFrame(&wide)

		if application.IsDetecting() {
			t.Fatal("detection should stop on a signal wider than the max threshold")
		}

		// The slot 0 lift queued by the last valid frame still goes out.
		want := []replay.Event{
			{Kind: replay.EventDrag, Point: image.Pt((240+80)/2, 245)},
			{Kind: replay.EventRelease, Point: image.Pt((240+80)/2, 245)},
		}
		if got := injector.Events(); !reflect.DeepEqual(got, want) {
			t.Errorf("events = %v, want %v", got, want)
		}
	})

	t.Run("SessionHistory", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/sessions/" + sessionID)
		if err != nil {
			t.Fatalf("GET session error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}

		var session store.Session
		if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
			t.Fatalf("decode error = %v", err)
		}

		if session.StopReason != store.StopReasonInvalid {
			t.Errorf("stop reason = %q, want %q", session.StopReason, store.StopReasonInvalid)
		}
		want := store.Counters{Frames: 5, Presses: 2, Moves: 1, Releases: 2}
		if session.Counters != want {
			t.Errorf("counters = %+v, want %+v", session.Counters, want)
		}
	})

	t.Run("DetectionReportedOff", func(t *testing.T) {
		resp, _ := client.Get(ts.URL + "/api/detection")
		defer resp.Body.Close()

		var status app.Status
		json.NewDecoder(resp.Body).Decode(&status)
		if status.Detecting {
			t.Error("API should report detection off")
		}
	})
}

func TestE2E_RestartAfterInvalid(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	settings := config.Default()
	s, _ := store.New(filepath.Join(t.TempDir(), "data.db"))
	defer s.Close()

	injector := replay.NewRecordingInjector()
	application := app.New(app.Config{
		Settings: settings,
		Store:    s,
		Source:   capture.NewMockSource(nil, false),
		Window:   capture.FixedWindow{},
		Injector: injector,
	})

	crowded := testdata.Frame(settings, frameSize, 70, 200, 340)
	defer crowded.Close()

	application.StartDetection()
	application.ProcessFrame(&crowded)
	if application.IsDetecting() {
		t.Fatal("three touches should stop detection")
	}

	// A fresh session starts from empty slots.
	if err := application.StartDetection(); err != nil {
		t.Fatalf("StartDetection() error = %v", err)
	}
	single := testdata.Frame(settings, frameSize, 200)
	defer single.Close()
	application.ProcessFrame(&single)

	status := application.Status()
	if status.Slots[0] == nil || *status.Slots[0] != 200 || status.Slots[1] != nil {
		t.Errorf("slots = %v, want [200 <nil>]", status.Slots)
	}

	sessions, err := s.Sessions().List(0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(sessions) != 2 {
		t.Errorf("len(sessions) = %d, want 2", len(sessions))
	}
}
