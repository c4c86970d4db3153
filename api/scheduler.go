/*
scheduler.go - Automated depreciation posting

PURPOSE:
  Periodically posts the monthly depreciation of every asset for each
  calendar month that has ended, so the asset ledger stays current without
  anyone triggering it.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - For each asset, walks from the month after its last posted period up to
    the last completed month, catching up missed months in order
  - Posts through AssetStore.PostDepreciation, which accepts each
    (asset, month) at most once; months already posted are skipped
  - Runs are serialized, so an on-demand run never overlaps a tick

CONFIGURATION:
  - CheckInterval: How often to check (default: 1 hour)
  - Enabled: Whether scheduler is active (default: true)

USAGE:
  scheduler := NewDepreciationScheduler(store, logger)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: RunDepreciation endpoint (manual run)
  - depreciation/calculator.go: ScheduleFrom
*/
package api

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/warp/payroll-engine/calendar"
	"github.com/warp/payroll-engine/depreciation"
	"github.com/warp/payroll-engine/store"
)

// RunSummary reports one scheduler run.
type RunSummary struct {
	Assets  int `json:"assets"`
	Posted  int `json:"posted"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// DepreciationScheduler posts completed months of depreciation.
type DepreciationScheduler struct {
	Store         store.AssetStore
	Logger        *slog.Logger
	CheckInterval time.Duration
	Enabled       bool

	// Now and NewID are replaceable for tests.
	Now   func() time.Time
	NewID func() string

	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex
	runMu  sync.Mutex
}

// NewDepreciationScheduler creates a new scheduler.
func NewDepreciationScheduler(s store.AssetStore, logger *slog.Logger) *DepreciationScheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DepreciationScheduler{
		Store:         s,
		Logger:        logger,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
		Now:           time.Now,
		NewID:         uuid.NewString,
	}
}

// Start begins the scheduler.
func (ds *DepreciationScheduler) Start() {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	if !ds.Enabled {
		ds.Logger.Info("depreciation scheduler disabled, not starting")
		return
	}
	if ds.ticker != nil {
		return
	}

	ds.ticker = time.NewTicker(ds.CheckInterval)
	ds.stop = make(chan bool)
	ds.wg.Add(1)

	go ds.run(ds.ticker, ds.stop)

	ds.Logger.Info("depreciation scheduler started", slog.Duration("check_interval", ds.CheckInterval))
}

// Stop stops the scheduler and waits for a run in progress.
func (ds *DepreciationScheduler) Stop() {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	if ds.ticker != nil {
		ds.ticker.Stop()
		close(ds.stop)
		ds.wg.Wait()
		ds.ticker = nil
		ds.Logger.Info("depreciation scheduler stopped")
	}
}

func (ds *DepreciationScheduler) run(ticker *time.Ticker, stop chan bool) {
	defer ds.wg.Done()

	// Run immediately on start
	ds.RunNow(context.Background())

	for {
		select {
		case <-ticker.C:
			ds.RunNow(context.Background())
		case <-stop:
			return
		}
	}
}

// RunNow posts every due month for all assets (for testing/admin).
func (ds *DepreciationScheduler) RunNow(ctx context.Context) RunSummary {
	ds.runMu.Lock()
	defer ds.runMu.Unlock()

	var summary RunSummary
	cutoff := lastCompletedMonthEnd(ds.Now())

	assets, err := ds.Store.ListAssets(ctx, "")
	if err != nil {
		ds.Logger.Error("failed to list assets", slog.String("error", err.Error()))
		return summary
	}
	summary.Assets = len(assets)

	for _, a := range assets {
		posted, skipped, err := ds.postDue(ctx, a, cutoff)
		summary.Posted += posted
		summary.Skipped += skipped
		if err != nil {
			summary.Failed++
			ds.Logger.Error("failed to post depreciation",
				slog.String("asset_id", a.ID),
				slog.String("error", err.Error()))
		}
	}

	if summary.Posted > 0 || summary.Skipped > 0 || summary.Failed > 0 {
		ds.Logger.Info("depreciation run completed",
			slog.Int("assets", summary.Assets),
			slog.Int("posted", summary.Posted),
			slog.Int("skipped", summary.Skipped),
			slog.Int("failed", summary.Failed),
			slog.String("through", calendar.FormatDate(cutoff)))
	}
	return summary
}

// postDue posts a's months from its next unposted month through cutoff.
func (ds *DepreciationScheduler) postDue(ctx context.Context, a depreciation.Asset, cutoff time.Time) (posted, skipped int, err error) {
	from := nextPostingMonth(a)
	if calendar.After(from, cutoff) {
		return 0, 0, nil
	}

	for _, result := range depreciation.ScheduleFrom(a.Input(), from) {
		if calendar.After(result.PeriodEnd, cutoff) {
			break
		}
		entry := depreciation.NewEntry(ds.NewID(), a, result, ds.Now().UTC())
		err := ds.Store.PostDepreciation(ctx, entry)
		if errors.Is(err, store.ErrAlreadyPosted) {
			// Posted concurrently; the stored state is authoritative.
			return posted, skipped + 1, nil
		}
		if err != nil {
			return posted, skipped, err
		}
		a = store.ApplyPosting(a, entry)
		posted++
	}
	return posted, skipped, nil
}

// nextPostingMonth is the first day of the month after the last posted
// period, or the start month when nothing has been posted.
func nextPostingMonth(a depreciation.Asset) time.Time {
	if a.LastPeriodEnd.IsZero() {
		return calendar.MonthStart(a.DepreciationStartDate)
	}
	return calendar.Day(a.LastPeriodEnd).AddDate(0, 0, 1)
}

// lastCompletedMonthEnd is the last day of the month before now.
func lastCompletedMonthEnd(now time.Time) time.Time {
	return calendar.MonthStart(now).AddDate(0, 0, -1)
}
