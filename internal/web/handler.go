// Package web serves the landing page and the merged game settings for
// browser clients.
package web

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/tomz197/crossing/internal/config"
	"github.com/tomz197/crossing/internal/gameconfig"
)

// ConfigResponse is the body of GET /config.
type ConfigResponse struct {
	Desktop      bool                  `json:"desktop"`
	Settings     gameconfig.Settings   `json:"settings"`
	WinningLine  float64               `json:"winningLine"` // Scaled when height and base are given
	MinObstacles int                   `json:"minObstacles"`
	Debug        gameconfig.DebugFlags `json:"debug"`
	States       gameconfig.States     `json:"states"`
	Keys         map[string][]string   `json:"keys"`
}

// Handler serves the web front end.
type Handler struct {
	provider gameconfig.Provider
	page     string
	logger   *log.Logger
	mux      *http.ServeMux
}

// NewHandler returns a handler serving page at / (with {{.SSHHost}}
// replaced by sshHost) and the settings at /config.
func NewHandler(p gameconfig.Provider, page, sshHost string, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	h := &Handler{
		provider: p,
		page:     strings.ReplaceAll(page, "{{.SSHHost}}", sshHost),
		logger:   logger,
		mux:      http.NewServeMux(),
	}
	h.mux.HandleFunc("GET /{$}", h.handleIndex)
	h.mux.HandleFunc("GET /config", h.handleConfig)
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(h.page))
}

// handleConfig builds a holder for this request. The query string is the
// parameter source, exactly as a browser page would read its own location.
func (h *Handler) handleConfig(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	desktop := isDesktop(query.Get("desktop"), r.UserAgent())

	cfg := gameconfig.New(h.provider,
		gameconfig.WithDesktop(desktop),
		gameconfig.WithLookup(config.QueryLookup(query)),
	)

	winningLine := cfg.ScaledWinningLine(parseFloat(query.Get("height")), parseFloat(query.Get("base")))
	if !finite(winningLine) {
		winningLine = cfg.WinningLine()
	}

	resp := ConfigResponse{
		Desktop:      cfg.IsDesktop(),
		Settings:     cfg.Snapshot(),
		WinningLine:  winningLine,
		MinObstacles: cfg.MinObstacles(),
		Debug:        cfg.Debug(),
		States:       cfg.States(),
		Keys:         cfg.Keys().Map(),
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(resp); err != nil {
		h.logger.Error("encode config response", "err", err)
		http.Error(w, "failed to encode config", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
	h.logger.Debug("served config", "remote", r.RemoteAddr, "desktop", desktop, "debug", cfg.IsDebugEnabled())
}

// isDesktop honours an explicit desktop parameter and otherwise treats any
// non-mobile user agent as desktop.
func isDesktop(param, userAgent string) bool {
	if v, err := strconv.ParseBool(param); err == nil {
		return v
	}
	ua := strings.ToLower(userAgent)
	for _, marker := range []string{"mobi", "android", "iphone", "ipad", "ipod"} {
		if strings.Contains(ua, marker) {
			return false
		}
	}
	return true
}

// parseFloat returns 0 for anything unparseable or non-finite, which
// ScaledWinningLine treats as "not given".
func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !finite(v) {
		return 0
	}
	return v
}

func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}
