package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/oklog/run"
	"github.com/spf13/cobra"
	"github.com/wilbur182/marquee/internal/app"
	"github.com/wilbur182/marquee/internal/carousel"
	"github.com/wilbur182/marquee/internal/config"
	"github.com/wilbur182/marquee/internal/features"
	"github.com/wilbur182/marquee/internal/markdown"
	"github.com/wilbur182/marquee/internal/slides"
	"github.com/wilbur182/marquee/internal/watch"
)

func runPresentation(cmd *cobra.Command, opts *rootOptions, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	interactive := !opts.static && app.IsInteractive(os.Stdin, os.Stdout)

	e, err := setup(opts, interactive)
	if err != nil {
		return err
	}
	defer e.Close()

	deckPath := e.cfg.UI.Carousel.DeckDir
	if len(args) > 0 {
		deckPath = args[0]
	}
	deck, err := slides.Load(deckPath)
	if err != nil {
		return err
	}

	reader := features.NewReader(e.manager, interactive)
	if !interactive {
		e.logger.Debug("rendering static output", "deck", deckPath, "slides", deck.Len())
		return app.RenderStatic(cmd.OutOrStdout(), deck, reader, app.TerminalWidth(os.Stdout, app.DefaultStaticWidth))
	}

	initial, err := carousel.ParseStyle(e.cfg.UI.Carousel.Style)
	if err != nil {
		return err
	}
	if opts.style != "" {
		if initial, err = carousel.ParseStyle(opts.style); err != nil {
			return err
		}
	}
	store := carousel.NewStore(carousel.WithInitialStyle(initial))

	persister := newStylePersister(e.cfg.UI.Carousel.Style, e.logger)
	if e.cfg.UI.Carousel.PersistStyle {
		unsubscribe := store.Subscribe(persister.save)
		defer unsubscribe()
	}

	model := app.New(app.Options{
		Store:    store,
		Reader:   reader,
		Deck:     deck,
		DeckPath: deckPath,
		Renderer: markdown.NewRenderer(markdown.WithLogger(e.logger)),
		Carousel: e.cfg.UI.Carousel,
		ShowHelp: e.cfg.UI.ShowHelp,
		Version:  effectiveVersion(Version),
		Logger:   e.logger,
	})
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	e.manager.RegisterChangeObserver(features.ObserverFunc(func(names ...string) {
		p.Send(app.FlagsChangedMsg{Names: names})
	}))

	var g run.Group

	// UI
	g.Add(func() error {
		_, err := p.Run()
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}, func(error) {
		p.Quit()
	})

	// Config file: flags and style follow edits made outside the UI.
	if w, err := watch.New([]string{config.ConfigPath()}); err != nil {
		e.logger.Warn("config watch disabled", "err", err)
	} else {
		addWatcher(&g, w, func() {
			reloadConfig(e, store, persister)
		})
	}

	// Flag store: `marquee flags set` from another shell writes here.
	if e.storePath != "" && e.storePath != ":memory:" {
		if w, err := watch.New([]string{e.storePath}); err != nil {
			e.logger.Warn("flag store watch disabled", "err", err)
		} else {
			addWatcher(&g, w, e.manager.RefreshStore)
		}
	}

	// Deck directory
	if w, err := watch.New([]string{deckPath}, watch.WithMatch(slides.IsSlideFile)); err != nil {
		e.logger.Warn("deck watch disabled", "err", err)
	} else {
		addWatcher(&g, w, func() {
			deck, err := slides.Load(deckPath)
			p.Send(app.DeckReloadedMsg{Deck: deck, Err: err})
		})
	}

	if err := g.Run(); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}

// addWatcher runs w in g, calling onChange for every signaled change.
func addWatcher(g *run.Group, w *watch.Watcher, onChange func()) {
	ctx, cancel := context.WithCancel(context.Background())
	g.Add(func() error {
		done := make(chan struct{})
		go func() {
			defer close(done)
			for range w.Events() {
				onChange()
			}
		}()
		err := w.Run(ctx)
		<-done
		return err
	}, func(error) {
		cancel()
	})
}

// reloadConfig applies an edited config file to the running presentation.
func reloadConfig(e *env, store *carousel.Store, persister *stylePersister) {
	cfg, err := config.Load()
	if err != nil {
		e.logger.Warn("config reload failed", "err", err)
		return
	}
	e.manager.Reload(cfg)

	// Our own saves come back through the watcher; only external edits move the store.
	if persister.isLast(cfg.UI.Carousel.Style) {
		return
	}
	style, err := carousel.ParseStyle(cfg.UI.Carousel.Style)
	if err != nil {
		return
	}
	persister.record(style.String())
	if style != store.Current() {
		e.logger.Info("style changed in config", "style", style)
		store.Set(style)
	}
}

// stylePersister writes style changes to the config file. last tracks the
// style the config file holds.
type stylePersister struct {
	mu     sync.Mutex
	last   string
	primed bool
	logger *slog.Logger
}

func newStylePersister(initial string, logger *slog.Logger) *stylePersister {
	return &stylePersister{last: initial, logger: logger}
}

// save is a store subscriber. Unchanged values are not written.
func (sp *stylePersister) save(style carousel.Style) {
	name := style.String()
	sp.mu.Lock()
	defer sp.mu.Unlock()
	// The first call is the value at subscribe time, which may come from --style.
	if !sp.primed {
		sp.primed = true
		return
	}
	if name == sp.last {
		return
	}
	if err := config.SaveStyle(name); err != nil {
		sp.logger.Warn("failed to save style", "style", name, "err", err)
		return
	}
	sp.last = name
}

func (sp *stylePersister) isLast(name string) bool {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	return sp.last == name
}

func (sp *stylePersister) record(name string) {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	sp.last = name
}
