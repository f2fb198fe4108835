package services

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// CronService schedules the background jobs: the hourly escalation
// sweep, the daily auto-absent batch and housekeeping.
type CronService struct {
	cron       *cron.Cron
	sweep      *SweepService
	attendance *AttendanceService
	otp        *OTPService
	tokens     interface {
		DeleteExpired(ctx context.Context) error
	}
}

// NewCronService creates a new cron service
func NewCronService(
	sweep *SweepService,
	attendance *AttendanceService,
	otp *OTPService,
	tokens interface {
		DeleteExpired(ctx context.Context) error
	},
) *CronService {
	return &CronService{
		cron:       cron.New(),
		sweep:      sweep,
		attendance: attendance,
		otp:        otp,
		tokens:     tokens,
	}
}

// Start registers and launches the schedules
func (s *CronService) Start() {
	// escalation sweep, top of every hour
	s.cron.AddFunc("0 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		if _, err := s.sweep.Sweep(ctx); err != nil {
			log.Printf("❌ Scheduled sweep failed: %v", err)
		}
	})

	// auto-absent batch, 18:00 daily after close of shift
	s.cron.AddFunc("0 18 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if _, err := s.attendance.MarkAbsentees(ctx); err != nil {
			log.Printf("❌ Auto-absent batch failed: %v", err)
		}
	})

	// housekeeping, 03:00 daily
	s.cron.AddFunc("0 3 * * *", func() {
		s.otp.PurgeExpired()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := s.tokens.DeleteExpired(ctx); err != nil {
			log.Printf("❌ Expired token cleanup failed: %v", err)
		}
	})

	s.cron.Start()
	log.Println("🚀 Cron service started")
}

// Stop halts the scheduler, waiting for running jobs
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 Cron service stopped")
}
