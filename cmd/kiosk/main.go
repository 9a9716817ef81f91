// Command kiosk is a headless booth shell: it drives the session state
// machine from stdin commands, performs camera and network I/O through the
// capture adapter and the try-on client, and prints the derived affordance
// after every event. It exists to exercise the full session flow against a
// running API without a browser.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"looks/internal/capture"
	"looks/internal/catalog"
	"looks/internal/domain"
	"looks/internal/infra"
	"looks/internal/session"
	"looks/internal/tryon"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	apiURL := envOr("API_URL", "http://localhost:"+cfg.Port)
	styles, err := catalog.Load(cfg.StylesPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.StylesPath).Msg("failed to load style catalog")
	}

	var source capture.FrameSource
	if dir := os.Getenv("FRAMES_DIR"); dir != "" {
		ds, err := capture.NewDirSource(dir)
		if err != nil {
			logger.Fatal().Err(err).Str("dir", dir).Msg("failed to open frame directory")
		}
		source = ds
	} else {
		source = &capture.SyntheticSource{Seed: uuid.NewString()}
	}

	sessionID := "session_" + uuid.NewString()
	shell := &shell{
		machine: session.New(session.Config{
			Policy: session.RetakePolicy{KeepStyle: cfg.RetakeKeepsStyle},
			Locale: envOr("LOCALE", cfg.DefaultLocale),
		}),
		adapter: capture.NewAdapter(source),
		client:  tryon.NewClient(apiURL, nil, logger),
		relay:   tryon.NewRelay(apiURL, sessionID, nil, logger),
		catalog: styles,
		logger:  logger,
	}
	defer shell.relay.Flush()

	shell.relay.Log("session_start", nil)
	fmt.Println("commands: press | style <gender> <complexion> <name> | retake | save | quit")
	shell.printAffordance()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" {
			return
		}
		shell.handle(context.Background(), line)
		shell.printAffordance()
	}
}

type shell struct {
	machine *session.Machine
	adapter *capture.Adapter
	client  *tryon.Client
	relay   *tryon.Relay
	catalog *catalog.Catalog
	logger  infra.Logger

	feed  *capture.Feed
	still *capture.Still
	style catalog.StyleOption
}

func (s *shell) handle(ctx context.Context, line string) {
	fields := strings.Fields(line)
	switch fields[0] {
	case "press":
		s.press(ctx)
	case "style":
		if len(fields) < 4 {
			fmt.Println("usage: style <gender> <complexion> <name>")
			return
		}
		name := strings.Join(fields[3:], " ")
		option, ok := s.catalog.Find(fields[1], fields[2], name)
		if !ok {
			fmt.Printf("no style %q for %s/%s\n", name, fields[1], fields[2])
			return
		}
		s.style = option
		s.machine.SelectStyle(option.Name, option.Prompt)
	case "retake":
		s.machine.Retake()
	case "save":
		if s.machine.State() == session.StateResult {
			s.relay.Log("save_click", map[string]any{"style": s.machine.StyleName()})
		}
	default:
		fmt.Printf("unknown command %q\n", fields[0])
	}
}

func (s *shell) press(ctx context.Context) {
	switch s.machine.PressPrimary() {
	case session.ActionOpenStylePicker:
		fmt.Println("pick a style first: style <gender> <complexion> <name>")
	case session.ActionStartCamera:
		s.startCamera(ctx)
	case session.ActionCapture:
		s.captureFrame(ctx)
	case session.ActionGenerate:
		s.generate(ctx)
	case session.ActionRetake:
		s.machine.Retake()
	case session.ActionNone:
	}
}

func (s *shell) startCamera(ctx context.Context) {
	feed, err := s.adapter.Start(ctx)
	if err != nil {
		s.machine.CameraDenied()
		if !isPermissionDenied(err) {
			s.logger.Error().Err(err).Msg("camera start failed")
		}
		return
	}
	s.feed = feed
	s.machine.CameraAcquired()
}

func (s *shell) captureFrame(ctx context.Context) {
	if s.feed == nil {
		fmt.Println(s.machine.NotReadyStatus())
		return
	}
	if err := s.feed.Advance(ctx); err != nil {
		// The capture below falls back to the last good frame.
		s.logger.Debug().Err(err).Msg("frame advance failed")
	}
	still, err := s.adapter.Capture(s.feed)
	if err != nil {
		fmt.Println(s.machine.NotReadyStatus())
		return
	}
	s.still = still
	s.machine.FrameCaptured(still.Data)
	s.relay.Log("image_capture", map[string]any{
		"width":  still.Width,
		"height": still.Height,
	})
}

func (s *shell) generate(ctx context.Context) {
	if !s.machine.BeginGeneration() {
		return
	}
	image, err := s.client.Generate(ctx, s.still, &s.style)
	if err != nil {
		s.machine.GenerationFailed(err.Error())
		return
	}
	s.machine.GenerationSucceeded(image)
	s.relay.Log("generation_complete", map[string]any{"style": s.machine.StyleName()})
}

func (s *shell) printAffordance() {
	a := s.machine.Affordance()
	fmt.Printf("[%s] %s  enabled=%t busy=%t mode=%s\n  %s\n",
		s.machine.State(), a.Label, a.Enabled, a.Busy, a.Mode, a.Status)
}

func isPermissionDenied(err error) bool {
	return errors.Is(err, domain.ErrPermissionDenied)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
