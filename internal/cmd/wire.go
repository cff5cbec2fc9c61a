package cmd

import (
	"context"
	"fmt"

	"github.com/yuzeguitarist/qrdrop/internal/app"
	"github.com/yuzeguitarist/qrdrop/internal/audit"
	"github.com/yuzeguitarist/qrdrop/internal/config"
	"github.com/yuzeguitarist/qrdrop/internal/metrics"
	"github.com/yuzeguitarist/qrdrop/internal/qr"
	"github.com/yuzeguitarist/qrdrop/internal/service"
	"github.com/yuzeguitarist/qrdrop/internal/store"
	"github.com/yuzeguitarist/qrdrop/internal/upload"
)

type wired struct {
	paths   app.Paths
	store   *store.Store
	service *service.Service
	close   func() error
}

// wire builds the store, upload backend and QR service described by cfg.
// A malformed mapping document is fatal here rather than silently reset.
func wire(ctx context.Context, cfg *config.Config, rec metrics.Recorder) (*wired, error) {
	paths := app.NewPaths(cfg.Root)
	if err := paths.Ensure(); err != nil {
		return nil, err
	}
	st, err := store.Load(paths.MappingPath)
	if err != nil {
		return nil, fmt.Errorf("load mapping: %w", err)
	}

	closeFn := func() error { return nil }
	var backend upload.Backend
	switch cfg.Upload.Backend {
	case config.BackendGCS:
		gcs, err := upload.NewGCSBackend(ctx, cfg.Upload.GCS.Bucket, cfg.Upload.GCS.Prefix)
		if err != nil {
			return nil, fmt.Errorf("gcs backend: %w", err)
		}
		backend, closeFn = gcs, gcs.Close
	default:
		backend = upload.NewLocalBackend(paths.UploadDir)
	}

	opts := []service.Option{service.WithMetrics(rec)}
	if cfg.Audit {
		opts = append(opts, service.WithAudit(audit.New(paths.AuditPath)))
	}
	svc := service.New(st, upload.New(backend), qr.NewEncoder(paths.QRDir, cfg.QR.ModulePixels), opts...)

	return &wired{paths: paths, store: st, service: svc, close: closeFn}, nil
}
