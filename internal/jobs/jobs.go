package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"counterpos/internal/repos"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Scheduler runs housekeeping against the store on cron schedules.
type Scheduler struct {
	Sales *repos.SaleRepo
	Users *repos.UserRepo
	Now   func() time.Time

	sched *cron.Cron
}

func NewScheduler(sales *repos.SaleRepo, users *repos.UserRepo) *Scheduler {
	return &Scheduler{Sales: sales, Users: users, Now: time.Now}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start(loc *time.Location, reconcileSpec string) error {
	if loc == nil {
		loc = time.UTC
	}
	s.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	if _, err := s.sched.AddFunc(reconcileSpec, func() {
		s.run("revenue.reconcile", func(ctx context.Context) error {
			_, err := s.ReconcileRevenue(ctx)
			return err
		})
	}); err != nil {
		return err
	}
	if _, err := s.sched.AddFunc("@every 15m", func() {
		s.run("sessions.purge", func(ctx context.Context) error {
			_, err := s.PurgeSessions(ctx)
			return err
		})
	}); err != nil {
		return err
	}
	s.sched.Start()
	return nil
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	if s.sched != nil {
		<-s.sched.Stop().Done()
	}
}

func (s *Scheduler) run(name string, fn func(ctx context.Context) error) {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Errorf("job %s panicked: %v", name, err)
		}
	}()
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := fn(ctx); err != nil {
		zap.L().Error("job failed", zap.String("job", name), zap.Error(err))
	}
}

// ReconcileRevenue compares the running aggregate with a full scan of sales and
// repairs it on drift. It reports whether a repair happened.
func (s *Scheduler) ReconcileRevenue(ctx context.Context) (bool, error) {
	stored, scanned, err := s.Sales.Reconcile(ctx)
	if err != nil {
		return false, err
	}
	if stored == scanned {
		zap.L().Debug("revenue aggregate in sync", zap.Int64("sale_count", scanned.SaleCount))
		return false, nil
	}
	zap.L().Warn("revenue aggregate drift repaired",
		zap.Int64("stored_cents", stored.TotalCents),
		zap.Int64("scanned_cents", scanned.TotalCents),
		zap.Int64("stored_count", stored.SaleCount),
		zap.Int64("scanned_count", scanned.SaleCount),
	)
	return true, nil
}

func (s *Scheduler) PurgeSessions(ctx context.Context) (int64, error) {
	n, err := s.Users.PurgeSessions(ctx, s.Now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		zap.L().Info("expired sessions purged", zap.Int64("count", n))
	}
	return n, nil
}
