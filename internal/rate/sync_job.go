package rate

import (
	"context"
	"fmt"

	"evdsrates/internal/domain"
	"evdsrates/internal/metrics"
	"evdsrates/internal/query"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Saver persists the rates of a query.
type Saver interface {
	Save(ctx context.Context, spec query.Spec) ([]domain.RateRecord, error)
}

// SyncConfig describes one scheduled sync pass.
type SyncConfig struct {
	Currencies   []string
	LookbackDays int
	Workers      int
	Defaults     query.Defaults
}

// SyncRates saves the last LookbackDays of rates for every configured currency.
// Currencies are synced independently; a failing currency is logged and does not
// stop the others. It returns the number of currencies that failed.
func SyncRates(ctx context.Context, execID string, saver Saver, cfg SyncConfig, clock clockwork.Clock, m *metrics.Metrics) (int, error) {
	if len(cfg.Currencies) == 0 {
		logrus.Infof("No currencies configured for sync; execID: %s", execID)
		return 0, nil
	}

	logrus.Infof("Syncing %d currencies for the last %d days; execID: %s", len(cfg.Currencies), cfg.LookbackDays, execID)

	failed := make([]bool, len(cfg.Currencies))
	saved := make([]int, len(cfg.Currencies))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Workers, 1))

	for i, ccy := range cfg.Currencies {
		g.Go(func() error {
			n, err := syncCurrency(gctx, saver, ccy, cfg, clock)
			if err != nil {
				logrus.WithError(err).WithFields(logrus.Fields{"currency": ccy, "execID": execID}).Warn("Currency wasn't synced, it'll be retried next time")
				failed[i] = true
				m.SyncRunsTotal.WithLabelValues("error").Inc()
				return nil
			}
			saved[i] = n
			m.SyncRunsTotal.WithLabelValues("success").Inc()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, fmt.Errorf("sync interrupted: %w", err)
	}

	failures, total := 0, 0
	for i := range cfg.Currencies {
		if failed[i] {
			failures++
		}
		total += saved[i]
	}

	logrus.WithFields(logrus.Fields{"saved": total, "failed": failures, "execID": execID}).Info("Rates sync finished")
	return failures, nil
}

func syncCurrency(ctx context.Context, saver Saver, ccy string, cfg SyncConfig, clock clockwork.Clock) (int, error) {
	spec, err := query.New(cfg.Defaults, query.WithClock(clock)).
		Currency(ccy).
		LastDays(cfg.LookbackDays).
		Build()
	if err != nil {
		return 0, fmt.Errorf("failed to build query for %q: %w", ccy, err)
	}

	records, err := saver.Save(ctx, spec)
	if err != nil {
		return 0, fmt.Errorf("failed to save rates for %q: %w", ccy, err)
	}
	return len(records), nil
}
