package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/yuzeguitarist/qrdrop/internal/audit"
	"github.com/yuzeguitarist/qrdrop/internal/metrics"
	"github.com/yuzeguitarist/qrdrop/internal/store"
	"github.com/yuzeguitarist/qrdrop/internal/upload"
)

// ErrNoInput is returned when a request carries neither data nor a file.
var ErrNoInput = errors.New("no data or file provided")

// Renderer writes the QR image for data under filename.
type Renderer interface {
	Render(data, filename string) error
}

// File is an uploaded file as received from a client.
type File struct {
	Filename string
	Body     io.Reader
}

type Request struct {
	Data string
	File *File // takes precedence over Data when set
	Name string
	// BaseURL is the public URL prefix of this server, e.g. http://host:5000.
	BaseURL  string
	ClientIP string
}

type Result struct {
	Data     string
	Filename string
	URL      string
	Created  bool
}

type Service struct {
	store    *store.Store
	uploader *upload.Uploader
	renderer Renderer
	metrics  metrics.Recorder
	audit    *audit.Log
}

type Option func(*Service)

func WithMetrics(m metrics.Recorder) Option {
	return func(s *Service) { s.metrics = m }
}

func WithAudit(a *audit.Log) Option {
	return func(s *Service) { s.audit = a }
}

func New(st *store.Store, up *upload.Uploader, r Renderer, opts ...Option) *Service {
	s := &Service{
		store:    st,
		uploader: up,
		renderer: r,
		metrics:  metrics.Noop{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.metrics.SetEntries(st.Len())
	return s
}

// Generate resolves req to a QR image, storing the upload and rendering a
// new image only when the effective data string has not been seen before.
func (s *Service) Generate(ctx context.Context, req Request) (Result, error) {
	data := req.Data
	if data == "" && req.File == nil {
		return Result{}, ErrNoInput
	}

	if req.File != nil {
		stored, err := s.uploader.Store(ctx, req.BaseURL, req.File.Filename, req.File.Body)
		s.metrics.RecordUpload(err == nil)
		if err != nil {
			return Result{}, err
		}
		s.audit.Write(audit.Entry{IP: req.ClientIP, Action: "upload.store", Object: stored.Name})
		data = stored.URL
	}

	// known data is served under the read lock without queueing behind renders
	var res store.Result
	if fn, ok := s.store.Lookup(data); ok {
		res = store.Result{Filename: fn}
	} else {
		var err error
		res, err = s.store.Resolve(data, strings.TrimSpace(req.Name), s.renderer.Render)
		if err != nil {
			return Result{}, fmt.Errorf("resolve qr: %w", err)
		}
	}

	logger := log.Ctx(ctx).With().Str("qr_file", res.Filename).Logger()
	if res.Created {
		s.metrics.RecordGenerated()
		s.metrics.SetEntries(s.store.Len())
		s.audit.Write(audit.Entry{IP: req.ClientIP, Action: "qr.generate", Object: res.Filename})
		logger.Info().Msg("qr code generated")
	} else {
		s.metrics.RecordReused()
		s.audit.Write(audit.Entry{IP: req.ClientIP, Action: "qr.reuse", Object: res.Filename})
		logger.Debug().Msg("qr code reused")
	}

	return Result{
		Data:     data,
		Filename: res.Filename,
		URL:      QRURL(req.BaseURL, res.Filename),
		Created:  res.Created,
	}, nil
}

// List returns a copy of the whole mapping table.
func (s *Service) List() store.Table {
	return s.store.Snapshot()
}

// QRURL is the public URL of a generated image.
func QRURL(base, filename string) string {
	return strings.TrimRight(base, "/") + "/qr_codes/" + url.PathEscape(filename)
}
