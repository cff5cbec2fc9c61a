package web

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/yuzeguitarist/qrdrop/internal/app"
	"github.com/yuzeguitarist/qrdrop/internal/logging"
	"github.com/yuzeguitarist/qrdrop/internal/service"
	"github.com/yuzeguitarist/qrdrop/internal/store"
	"github.com/yuzeguitarist/qrdrop/internal/upload"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	NoInputMessage = "No data or file provided!"
	SuccessMessage = "QR Code generated successfully!"

	multipartMemory = 8 << 20
)

type Options struct {
	Paths app.Paths
	// BaseURL overrides the scheme and host taken from each request.
	BaseURL        string
	MaxUploadBytes int64
	// CSRFKey enables CSRF protection on unsafe methods when non-empty.
	CSRFKey []byte
	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
}

type Server struct {
	svc  *service.Service
	opts Options
}

func NewServer(svc *service.Service, opts Options) *Server {
	return &Server{svc: svc, opts: opts}
}

func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(
		otelhttp.NewMiddleware("qrdrop"),
		logging.Interceptor)

	r.Handle("/", route("/", s.index)).Methods(http.MethodGet)
	r.Handle("/generate_qr", route("/generate_qr", s.generateQR)).Methods(http.MethodPost)
	r.Handle("/get_qr_list", route("/get_qr_list", s.qrList)).Methods(http.MethodGet)
	r.Handle("/qr_codes/{filename}", route("/qr_codes/{filename}", s.serveQR)).Methods(http.MethodGet, http.MethodHead)
	r.PathPrefix("/static/").Handler(otelhttp.WithRouteTag("/static/",
		http.StripPrefix("/static/", http.FileServer(noListingFS{http.Dir(s.opts.Paths.StaticDir)})))).
		Methods(http.MethodGet, http.MethodHead)
	if s.opts.Metrics != nil {
		r.Handle("/metrics", s.opts.Metrics).Methods(http.MethodGet)
	}

	var h http.Handler = r
	if len(s.opts.CSRFKey) > 0 {
		h = csrf.Protect(s.opts.CSRFKey, csrf.Secure(false))(h)
	}
	return s.limitBody(h)
}

func route(pattern string, fn http.HandlerFunc) http.Handler {
	return otelhttp.WithRouteTag(pattern, fn)
}

func (s *Server) limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.opts.MaxUploadBytes > 0 && r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	data := struct {
		CSRFToken string
		CSRFField template.HTML
	}{
		CSRFToken: csrf.Token(r),
		CSRFField: csrf.TemplateField(r),
	}
	w.Header().Set("content-type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("render index")
	}
}

type generateResponse struct {
	QRURL   string `json:"qr_url"`
	Message string `json:"message"`
}

func (s *Server) generateQR(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	if err := r.ParseMultipartForm(multipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge, "upload too large")
			return
		}
		logger.Warn().Err(err).Msg("error parsing the form")
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	req := service.Request{
		Data:     r.PostFormValue("data"),
		Name:     r.PostFormValue("qr_name"),
		BaseURL:  s.baseURL(r),
		ClientIP: logging.ClientIP(r),
	}
	if r.MultipartForm != nil {
		file, header, err := r.FormFile("file")
		switch {
		case err == nil:
			defer file.Close()
			// a file input submitted without a selection has no filename
			if header.Filename != "" {
				req.File = &service.File{Filename: header.Filename, Body: file}
			}
		case errors.Is(err, http.ErrMissingFile):
		default:
			logger.Warn().Err(err).Msg("error retrieving the file")
			writeError(w, http.StatusBadRequest, "invalid file")
			return
		}
	}

	res, err := s.svc.Generate(r.Context(), req)
	switch {
	case errors.Is(err, service.ErrNoInput):
		writeError(w, http.StatusBadRequest, NoInputMessage)
	case errors.Is(err, upload.ErrEmptyUpload), errors.Is(err, upload.ErrInvalidFilename):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrNameTaken):
		writeError(w, http.StatusConflict, store.ErrNameTaken.Error())
	case err != nil:
		logger.Error().Err(err).Msg("generate qr")
		writeError(w, http.StatusInternalServerError, "internal server error")
	default:
		writeJSON(w, http.StatusOK, generateResponse{QRURL: res.URL, Message: SuccessMessage})
	}
}

func (s *Server) qrList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.List())
}

func (s *Server) serveQR(w http.ResponseWriter, r *http.Request) {
	serveFile(w, r, s.opts.Paths.QRDir, mux.Vars(r)["filename"], "image/png")
}

// baseURL is the public scheme://host prefix for links handed to clients.
func (s *Server) baseURL(r *http.Request) string {
	if s.opts.BaseURL != "" {
		return strings.TrimRight(s.opts.BaseURL, "/")
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if p := r.Header.Get("X-Forwarded-Proto"); p == "http" || p == "https" {
		scheme = p
	}
	return scheme + "://" + r.Host
}

// serveFile streams dir/name, answering 404 for anything that is not a
// regular file directly inside dir.
func serveFile(w http.ResponseWriter, r *http.Request, dir, name, contentType string) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	f, err := os.Open(filepath.Join(dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		zerolog.Ctx(r.Context()).Error().Err(err).Str("file", name).Msg("open file")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil || fi.IsDir() {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	w.Header().Set("content-type", contentType)
	http.ServeContent(w, r, name, fi.ModTime(), f)
}

// noListingFS hides directories so the file server never renders listings.
type noListingFS struct {
	http.FileSystem
}

func (fs noListingFS) Open(name string) (http.File, error) {
	f, err := fs.FileSystem.Open(name)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if fi.IsDir() {
		_ = f.Close()
		return nil, os.ErrNotExist
	}
	return f, nil
}

// ---- helpers ----

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
