package viewer

import (
	"glance/internal/config"
	"glance/internal/loader"
	"glance/internal/log"
	"glance/internal/navigator"
	"glance/internal/render"
	"glance/internal/watch"
)

// Session wires a Core to a Loader and, when enabled, a folder watcher.
// Like Core it belongs to one consumer goroutine; only the loader workers and
// the watcher run elsewhere.
type Session struct {
	Core    *Core
	Loader  *loader.Loader
	Watcher *watch.Watcher
	Filter  *navigator.Filter

	drainLimit int
}

// NewSession builds the pipeline described by cfg on top of host.
func NewSession(cfg *config.Config, host render.Host) (*Session, error) {
	filter, err := navigator.NewFilter(cfg.Viewer.Extensions)
	if err != nil {
		return nil, err
	}
	l := loader.New(host, loader.Options{
		PrimaryWorkers:    cfg.Workers.Primary,
		BackgroundWorkers: cfg.Workers.Background,
		Reserve:           cfg.Workers.Reserve,
	})
	opts := OptionsFromConfig(cfg)
	core, err := New(navigator.New(filter), l, opts)
	if err != nil {
		l.Close()
		return nil, err
	}

	s := &Session{Core: core, Loader: l, Filter: filter, drainLimit: core.opts.DrainLimit}
	if cfg.Watch.Enabled {
		w, err := watch.New(filter, cfg.Debounce())
		if err == nil {
			err = w.Start()
		}
		if err != nil {
			log.LogWithError(err).Warn("folder watching disabled")
		} else {
			s.Watcher = w
		}
	}
	return s, nil
}

// Open shows path and moves the watch to its folder.
func (s *Session) Open(path string) {
	s.Core.OpenContext(path)
	if s.Watcher == nil || s.Core.Dir() == "" {
		return
	}
	if err := s.Watcher.SetDirectory(s.Core.Dir()); err != nil {
		log.LogWithError(err).With(log.F("directory", s.Core.Dir())).Warn("cannot watch folder")
	}
}

// Events delivers watcher batches; nil without a watcher.
func (s *Session) Events() <-chan watch.Batch {
	if s.Watcher == nil {
		return nil
	}
	return s.Watcher.Events()
}

// Apply folds a watcher batch into the core. Batches for a folder that is
// no longer open are ignored.
func (s *Session) Apply(b watch.Batch) {
	if b.Dir != s.Core.Dir() {
		return
	}
	if b.ListChanged {
		s.Core.Refresh()
	}
	for _, path := range b.Modified {
		s.Core.Invalidate(path)
	}
}

// Tick reconciles one bounded batch of results. more reports that the drain
// limit was reached and another tick should follow.
func (s *Session) Tick() (processed int, more bool) {
	processed = s.Core.ProcessResults()
	return processed, processed >= s.drainLimit
}

// Close stops the watcher, then the loader, then releases every texture.
func (s *Session) Close() {
	if s.Watcher != nil {
		s.Watcher.Stop()
	}
	s.Loader.Close()
	s.Core.Close()
}
