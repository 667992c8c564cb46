package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"log"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/ayusman/lanetap/internal/app"
	"github.com/ayusman/lanetap/internal/capture"
	"github.com/ayusman/lanetap/internal/config"
	"github.com/ayusman/lanetap/internal/replay"
	"github.com/ayusman/lanetap/internal/server"
	"github.com/ayusman/lanetap/internal/store"
	"github.com/ayusman/lanetap/internal/tray"
)

func main() {
	configPath := flag.String("config", "", "path to a JSON settings file")
	addr := flag.String("addr", "127.0.0.1:8080", "HTTP listen address")
	dbPath := flag.String("db", "", "session database (default ~/.lanetap/lanetap.db)")
	display := flag.Int("display", 0, "display to capture when no window is set")
	windowFlag := flag.String("window", "", "mirrored window rectangle as x,y,w,h (saved for later runs)")
	headless := flag.Bool("headless", false, "run without the tray menu")
	verbose := flag.Bool("verbose", false, "log every replayed pointer event")
	flag.Parse()

	fmt.Println("lanetap - two lane touch replay")

	settings, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *verbose {
		settings.Verbose = true
	}

	// Initialize the store
	dataDir, err := dataDir()
	if err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}
	if *dbPath == "" {
		*dbPath = filepath.Join(dataDir, "lanetap.db")
	}

	st, err := store.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	rect, err := resolveWindow(st, *windowFlag, *display)
	if err != nil {
		log.Fatalf("Failed to resolve window: %v", err)
	}
	fmt.Printf("Mirroring window at %v\n", rect)

	window := capture.NewStaticWindow(rect)
	a := app.New(app.Config{
		Settings: settings,
		Store:    st,
		Source:   capture.NewScreenSource(window, rect.Size()),
		Window:   window,
		Injector: replay.NewSystemInjector(),
	})

	if err := a.Start(); err != nil {
		log.Fatalf("Failed to start capture: %v", err)
	}

	// Find web directory
	webDir := findWebDir()
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		App:       a,
	})

	go func() {
		fmt.Printf("Starting server on %s\n", *addr)
		if err := srv.ListenAndServe(*addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Server failed: %v", err)
		}
	}()

	if *headless {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		a.Stop()
		return
	}

	t := tray.New()
	t.OnToggle(a.SetDetection)
	t.OnPreview(func() { openBrowser("http://" + *addr + "/api/stream") })
	t.OnQuit(a.Stop)
	go syncTray(t, a, st)

	t.Run()
}

// resolveWindow picks the capture rectangle: the -window flag (which is then
// saved), the saved setting, or the whole display.
func resolveWindow(st *store.Store, flagValue string, display int) (image.Rectangle, error) {
	settings := st.Settings()

	if flagValue != "" {
		rect, err := capture.ParseRect(flagValue)
		if err != nil {
			return image.Rectangle{}, err
		}
		if err := settings.Set(store.SettingWindow, flagValue); err != nil {
			log.Printf("Failed to save window setting: %v", err)
		}
		return rect, nil
	}

	saved, ok, err := settings.Get(store.SettingWindow)
	if err != nil {
		return image.Rectangle{}, err
	}
	if ok {
		return capture.ParseRect(saved)
	}

	return capture.DisplayRect(display)
}

// syncTray keeps the tray menu in step with sessions that stop on their own.
func syncTray(t *tray.Tray, a *app.App, st *store.Store) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		status := a.Status()
		if status.Detecting == t.IsDetecting() {
			continue
		}
		t.SetDetecting(status.Detecting)

		if status.Detecting {
			t.SetStatus("detecting")
			continue
		}
		sessions, err := st.Sessions().List(1)
		if err != nil || len(sessions) == 0 {
			t.SetStatus("stopped")
			continue
		}
		last := sessions[0]
		t.SetStatus(fmt.Sprintf("stopped: %s, %d frames", last.StopReason, last.Counters.Frames))
	}
}

func dataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	dir := filepath.Join(homeDir, ".lanetap")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.lanetap/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	// Check relative paths from current working directory
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".lanetap", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}

func openBrowser(url string) {
	var err error
	switch runtime.GOOS {
	case "darwin":
		err = exec.Command("open", url).Start()
	case "windows":
		err = exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		err = exec.Command("xdg-open", url).Start()
	}
	if err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}
