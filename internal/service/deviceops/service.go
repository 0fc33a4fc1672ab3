// Package deviceops drives the fleet of biometric terminals: polling buffered
// punch records off each device, handing them to the reconciler, and clearing
// device buffers once the punches are durable.
package deviceops

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/workforcehq/attendance-bridge/internal/domain/attendance"
	"github.com/workforcehq/attendance-bridge/internal/domain/device"
	"github.com/workforcehq/attendance-bridge/internal/pkg/biometric"
	"github.com/workforcehq/attendance-bridge/internal/pkg/cron"
	"github.com/workforcehq/attendance-bridge/internal/service/reconcile"
)

// DeviceClient is the slice of the protocol client the poller needs.
type DeviceClient interface {
	DownloadRecords(ctx context.Context, mode biometric.DownloadMode, count int) ([]biometric.Record, error)
	ClearRecords(ctx context.Context) error
	Close() error
}

// Dialer opens a connected client for one device.
type Dialer interface {
	Dial(ctx context.Context, dev device.BiometricDevice) (DeviceClient, error)
}

// BatchProcessor reconciles one downloaded batch into attendance records.
type BatchProcessor interface {
	ProcessBatch(ctx context.Context, batch attendance.Batch) reconcile.Summary
}

type Config struct {
	PageSize     int           // records per download command, max 25
	PollInterval time.Duration // interval of the poll job
}

type Service struct {
	deviceRepo device.DeviceRepository
	dialer     Dialer
	processor  BatchProcessor
	config     Config
}

func NewService(deviceRepo device.DeviceRepository, dialer Dialer, processor BatchProcessor, cfg Config) *Service {
	if cfg.PageSize < 1 || cfg.PageSize > 25 {
		cfg.PageSize = 25
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Minute
	}
	return &Service{
		deviceRepo: deviceRepo,
		dialer:     dialer,
		processor:  processor,
		config:     cfg,
	}
}

// RegisterJobs wires the recurring device poll into the scheduler.
func (s *Service) RegisterJobs(scheduler *cron.Scheduler) {
	scheduler.AddJob("poll_devices", s.config.PollInterval, s.PollAll)
}

// PollAll polls every enabled device concurrently. One device's failure never
// interrupts the others; the first error is reported after all polls finish.
func (s *Service) PollAll(ctx context.Context) error {
	devices, err := s.deviceRepo.ListEnabled(ctx)
	if err != nil {
		return fmt.Errorf("failed to list devices: %w", err)
	}

	var g errgroup.Group
	for _, dev := range devices {
		dev := dev
		g.Go(func() error {
			if err := s.pollDevice(ctx, dev); err != nil {
				slog.Error("device poll failed",
					slog.String("device_id", dev.ID),
					slog.String("host", dev.Host),
					slog.String("error", err.Error()))
				return err
			}
			return nil
		})
	}
	return g.Wait()
}

// pollDevice downloads the device's full buffer page by page, reconciles the
// batch, and clears the buffer. The buffer is left intact when any record hit
// a persistence error, so the next poll redelivers it.
func (s *Service) pollDevice(ctx context.Context, dev device.BiometricDevice) error {
	client, err := s.dialer.Dial(ctx, dev)
	if err != nil {
		return fmt.Errorf("failed to dial device: %w", err)
	}
	defer client.Close()

	var records []attendance.RawRecord
	for {
		page, err := client.DownloadRecords(ctx, biometric.DownloadNew, s.config.PageSize)
		if err != nil {
			return fmt.Errorf("failed to download records: %w", err)
		}
		for _, r := range page {
			records = append(records, attendance.RawRecord{
				UserID:    r.UserID,
				Timestamp: r.Timestamp,
				Type:      r.Type,
			})
		}
		if len(page) < s.config.PageSize {
			break
		}
	}
	if len(records) == 0 {
		return nil
	}

	summary := s.processor.ProcessBatch(ctx, attendance.Batch{
		DeviceID: dev.ID,
		Records:  records,
	})
	slog.Info("device batch reconciled",
		slog.String("device_id", dev.ID),
		slog.Int("processed", summary.Processed),
		slog.Int("skipped", summary.Skipped),
		slog.Int("failed", summary.Failed))

	if summary.Failed > 0 {
		return fmt.Errorf("%d records failed to persist, keeping device buffer for redelivery", summary.Failed)
	}
	if err := client.ClearRecords(ctx); err != nil {
		return fmt.Errorf("failed to clear device records: %w", err)
	}
	return nil
}

// clientDialer dials real terminals over TCP.
type clientDialer struct {
	opts []biometric.Option
}

func NewDialer(opts ...biometric.Option) Dialer {
	return &clientDialer{opts: opts}
}

func (d *clientDialer) Dial(ctx context.Context, dev device.BiometricDevice) (DeviceClient, error) {
	client := biometric.NewClient(dev.Host, dev.Port, dev.Channel, d.opts...)
	if err := client.Connect(ctx); err != nil {
		return nil, err
	}
	return client, nil
}
