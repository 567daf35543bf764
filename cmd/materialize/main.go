// Command materialize samples an image into particles and animates them
// assembling from a single origin, in a window or in the terminal.
//
//	materialize -image logo.png
//	materialize -config scene.yaml -watch -chime
//	materialize -image logo.png -term
package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"

	"github.com/phanxgames/materialize"
	"github.com/phanxgames/materialize/chime"
	"github.com/phanxgames/materialize/term"
)

func main() {
	configPath := flag.String("config", "", "YAML scene config")
	imagePath := flag.String("image", "", "source image (overrides config)")
	seed := flag.Uint64("seed", 0, "random seed (overrides config; 0 keeps config)")
	termMode := flag.Bool("term", false, "render in the terminal instead of a window")
	chimeOn := flag.Bool("chime", false, "play a tone when a cycle completes")
	watchOn := flag.Bool("watch", false, "reload config and image when they change")
	scriptPath := flag.String("script", "", "JSON lifecycle script (window mode)")
	overlay := flag.Bool("overlay", false, "show FPS and engine state (window mode)")
	logPath := flag.String("log", "", "write logs to this file")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	logger, closeLog, err := newLogger(*logPath, *verbose, *termMode)
	if err != nil {
		log.Fatal(err)
	}
	defer closeLog()
	materialize.SetLogger(logger)

	a := &app{
		configPath: *configPath,
		imagePath:  *imagePath,
		seed:       *seed,
	}
	if err := a.run(*termMode, *chimeOn, *watchOn, *scriptPath, *overlay); err != nil {
		closeLog()
		log.Fatal(err)
	}
}

// newLogger logs to path when set, otherwise to stderr in window mode. The
// terminal owns stderr's screen in term mode, so logs are dropped there.
func newLogger(path string, verbose, termMode bool) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	var w io.Writer = os.Stderr
	closeFn := func() {}
	switch {
	case path != "":
		f, err := os.Create(path)
		if err != nil {
			return nil, nil, err
		}
		w = f
		closeFn = func() { _ = f.Close() }
	case termMode:
		w = io.Discard
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h), closeFn, nil
}

func (a *app) run(termMode, chimeOn, watchOn bool, scriptPath string, overlay bool) error {
	cfg, set, err := a.load()
	if err != nil {
		return err
	}
	a.cfg = cfg

	clock := materialize.NewFrameClock()
	a.engine = materialize.NewEngine(clock, cfg.EngineOptions())
	a.engine.SetParticles(set)

	if chimeOn {
		c := chime.New(880)
		if err := c.Init(); err != nil {
			materialize.Logger().Warn("chime disabled", "err", err)
		} else {
			defer c.Close()
			a.engine.AddListener(c)
		}
	}

	if watchOn {
		if err := a.startWatch(); err != nil {
			return err
		}
		defer a.stopWatch()
	}

	if termMode {
		return a.runTerm(clock)
	}
	return a.runWindow(clock, scriptPath, overlay)
}

func (a *app) runWindow(clock *materialize.FrameClock, scriptPath string, overlay bool) error {
	opts := materialize.GameOptions{
		Background:   a.cfg.BackgroundColor(),
		Blend:        materialize.ParseBlendMode(a.cfg.Blend),
		ShowOverlay:  overlay,
		OnUpdate:     a.poll,
		FollowOrigin: a.cfg.Origin == nil,
	}
	if scriptPath != "" {
		data, err := os.ReadFile(scriptPath)
		if err != nil {
			return err
		}
		script, err := materialize.LoadScript(data)
		if err != nil {
			return err
		}
		opts.Script = script
	}
	game := materialize.NewGame(clock, a.engine, opts)
	return materialize.Run(game, materialize.RunConfig{
		Title:  "materialize",
		Width:  a.cfg.Width,
		Height: a.cfg.Height,
	})
}

func (a *app) runTerm(clock *materialize.FrameClock) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = term.Run(ctx, screen, a.engine, clock, term.Options{
		Background:   a.cfg.BackgroundColor(),
		OnFrame:      a.poll,
		FollowOrigin: a.cfg.Origin == nil,
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
