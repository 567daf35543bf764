package main

import (
	"errors"
	"path/filepath"

	"github.com/phanxgames/materialize"
	"github.com/phanxgames/materialize/watch"
)

// app holds the command-line overrides and the running engine so reloads
// can rebuild the particle set from the same inputs.
type app struct {
	configPath string
	imagePath  string
	seed       uint64

	cfg     materialize.Config
	engine  *materialize.Engine
	watcher *watch.Watcher
	// watchedImage is the image path the watcher was started with.
	watchedImage string
}

// load reads the config, applies flag overrides and samples the image.
func (a *app) load() (materialize.Config, *materialize.ParticleSet, error) {
	cfg := materialize.DefaultConfig()
	if a.configPath != "" {
		var err error
		if cfg, err = materialize.LoadConfig(a.configPath); err != nil {
			return materialize.Config{}, nil, err
		}
		// Images named in a config file are relative to that file.
		if cfg.Image != "" && !filepath.IsAbs(cfg.Image) {
			cfg.Image = filepath.Join(filepath.Dir(a.configPath), cfg.Image)
		}
	}
	if a.imagePath != "" {
		cfg.Image = a.imagePath
	}
	if a.seed != 0 {
		cfg.Seed = a.seed
	}
	if cfg.Image == "" {
		return materialize.Config{}, nil, errors.New("no image: set image in the config or pass -image")
	}

	opts, err := cfg.SampleOptions()
	if err != nil {
		return materialize.Config{}, nil, err
	}
	set, err := materialize.SampleFile(cfg.Image, opts)
	if err != nil {
		return materialize.Config{}, nil, err
	}
	materialize.Logger().Info("image sampled",
		"image", cfg.Image,
		"width", set.Width, "height", set.Height,
		"particles", set.Len())
	return cfg, set, nil
}

// poll runs once per frame on the render goroutine. It drains file changes
// and queues a re-sampled particle set, which the engine swaps in on its next
// tick. Reload failures keep the current set.
func (a *app) poll() error {
	if a.watcher == nil {
		return nil
	}
	changed := a.watcher.Drain()
	if len(changed) == 0 {
		return nil
	}
	materialize.Logger().Info("files changed", "files", changed)

	cfg, set, err := a.load()
	if err != nil {
		materialize.Logger().Warn("reload failed, keeping current scene", "err", err)
		return nil
	}
	if cfg.Origin != nil {
		a.engine.SetOrigin(*cfg.Origin)
	}
	a.engine.SetDuration(cfg.Duration)
	a.engine.SetClockStep(cfg.ClockStep)
	if keys := restartKeys(a.cfg, cfg); len(keys) > 0 {
		materialize.Logger().Info("config keys take effect after a restart", "keys", keys)
	}
	a.cfg = cfg
	a.engine.SetParticles(set)

	if cfg.Image != a.watchedImage {
		a.stopWatch()
		return a.startWatch()
	}
	return nil
}

// restartKeys lists the changed keys a running window or terminal cannot
// apply.
func restartKeys(old, cfg materialize.Config) []string {
	var keys []string
	if old.Background != cfg.Background {
		keys = append(keys, "background")
	}
	if old.Blend != cfg.Blend {
		keys = append(keys, "blend")
	}
	if old.Width != cfg.Width || old.Height != cfg.Height {
		keys = append(keys, "width/height")
	}
	return keys
}

func (a *app) startWatch() error {
	w, err := watch.New(a.configPath, a.cfg.Image)
	if err != nil {
		return err
	}
	a.watcher = w
	a.watchedImage = a.cfg.Image
	return nil
}

func (a *app) stopWatch() {
	if a.watcher != nil {
		_ = a.watcher.Close()
		a.watcher = nil
	}
}
