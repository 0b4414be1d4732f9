/*
scheduler.go - Background holiday cache warmer

PURPOSE:
  Periodically computes the current and the next year of every registered
  region and stores the results in the holiday cache, so the first request
  after a restart or a year change is served from the store.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Warms every registered region for each configured locale
  - Skips (region, year, locale) triples already cached
  - A failing region is logged and does not stop the run

CONFIGURATION:
  - CheckInterval: How often to run (default: 1 hour)
  - Locales: Locales to warm (default: the registry's default locale)
  - Enabled: Whether the warmer is active (default: true)

USAGE:
  warmer := NewCacheWarmer(handler)
  warmer.Start()
  // ... later
  warmer.Stop()

SEE ALSO:
  - handlers.go: Read-through cache used by the endpoints
*/
package api

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/warp/holiday-engine/generic"
)

// CacheWarmer fills the holiday cache in the background.
type CacheWarmer struct {
	Handler       *Handler
	CheckInterval time.Duration
	Locales       []string
	Enabled       bool

	// now is replaceable in tests.
	now func() time.Time

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewCacheWarmer creates a warmer for handler's registry and store.
func NewCacheWarmer(handler *Handler) *CacheWarmer {
	return &CacheWarmer{
		Handler:       handler,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
		now:           time.Now,
	}
}

// Start begins the warmer.
func (cw *CacheWarmer) Start() {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	log := cw.Handler.Logger
	if !cw.Enabled || !cw.Handler.CacheHolidays {
		log.Info("cache warmer disabled")
		return
	}
	if cw.ticker != nil {
		return
	}

	cw.ticker = time.NewTicker(cw.CheckInterval)
	cw.stop = make(chan struct{})
	cw.wg.Add(1)

	go cw.run()

	log.Info("cache warmer started", zap.Duration("interval", cw.CheckInterval))
}

// Stop stops the warmer and waits for a running pass to finish.
func (cw *CacheWarmer) Stop() {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	if cw.ticker != nil {
		cw.ticker.Stop()
		close(cw.stop)
		cw.wg.Wait()
		cw.ticker = nil
		cw.Handler.Logger.Info("cache warmer stopped")
	}
}

func (cw *CacheWarmer) run() {
	defer cw.wg.Done()

	// Run immediately on start
	cw.Warm(context.Background())

	for {
		select {
		case <-cw.ticker.C:
			cw.Warm(context.Background())
		case <-cw.stop:
			return
		}
	}
}

// Warm runs one pass and returns the number of sets computed.
func (cw *CacheWarmer) Warm(ctx context.Context) int {
	h := cw.Handler
	year := cw.now().Year()

	locales := cw.Locales
	if len(locales) == 0 {
		locales = []string{h.Registry.DefaultLocale()}
	}

	computed := 0
	for _, p := range h.Registry.List() {
		for _, y := range []int{year, year + 1} {
			for _, locale := range locales {
				norm := generic.NormalizeLocale(locale)
				if _, ok, err := h.Store.LoadHolidays(ctx, p.Region(), y, norm); err == nil && ok {
					continue
				}
				if _, err := h.holidays(ctx, p.Region(), generic.Params{Year: y, Locale: norm}); err != nil {
					h.Logger.Warn("cache warm failed",
						zap.String("region", p.Region()),
						zap.Int("year", y),
						zap.String("locale", norm),
						zap.Error(err),
					)
					continue
				}
				computed++
			}
		}
	}

	h.Logger.Debug("cache warm pass", zap.Int("computed", computed))
	return computed
}
