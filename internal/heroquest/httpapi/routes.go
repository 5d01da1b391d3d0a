// Package httpapi 는 기기별 진행도 엔진을 HTTP 로 노출한다.
package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/park285/healthquest-go/internal/common/health"
	commonhttputil "github.com/park285/healthquest-go/internal/common/httputil"
	"github.com/park285/healthquest-go/internal/heroquest/narration"
	"github.com/park285/healthquest-go/internal/heroquest/progress"
)

const (
	headerDeviceID = "X-Device-ID"
	maxBodyBytes   = 1 << 16
)

// API 에러 코드
const (
	errorInvalidRequest = "INVALID_REQUEST"
	errorInvalidZone    = "INVALID_ZONE"
)

type api struct {
	hub           *progress.Hub
	narrator      *narration.Narrator
	defaultDevice string
	logger        *slog.Logger
}

// Register HTTP API 라우트 등록.
func Register(
	mux *http.ServeMux,
	hub *progress.Hub,
	narrator *narration.Narrator,
	defaultDevice string,
	logger *slog.Logger,
) {
	if logger == nil {
		logger = slog.Default()
	}
	a := &api{hub: hub, narrator: narrator, defaultDevice: strings.TrimSpace(defaultDevice), logger: logger}

	// GET /health - 헬스체크
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, health.Get(r.Context()))
	})

	mux.HandleFunc("GET /api/hero/profile", a.handleSnapshot)
	mux.HandleFunc("POST /api/hero/profile", a.handleSaveProfile)
	mux.HandleFunc("POST /api/hero/sync", a.handleSync)
	mux.HandleFunc("POST /api/hero/streak", a.handleStreak)
	mux.HandleFunc("POST /api/hero/badges", a.handleAwardBadge)
	mux.HandleFunc("GET /api/hero/achievements", a.handleListAchievements)
	mux.HandleFunc("GET /api/hero/missions", a.handleListMissions)
	mux.HandleFunc("POST /api/hero/missions", a.handleRecordMission)
	mux.HandleFunc("POST /api/hero/zones/{zone}/advance", a.handleAdvanceZone)
	if narrator != nil {
		mux.HandleFunc("POST /api/hero/narration", a.handleNarration)
	}

	logger.Info("heroquest_http_api_registered", "default_device", a.defaultDevice)
}

// device: 헤더가 비어 있으면 설정된 기본 기기를 쓴다.
func (a *api) device(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get(headerDeviceID)); id != "" {
		return id
	}
	return a.defaultDevice
}

func (a *api) engine(r *http.Request) *progress.Engine {
	return a.hub.Engine(a.device(r))
}

// readBody: 바디가 없으면 allowEmpty 일 때만 통과시킨다.
func (a *api) readBody(w http.ResponseWriter, r *http.Request, out any, allowEmpty bool) bool {
	err := commonhttputil.ReadJSON(r, out, maxBodyBytes)
	if err == nil {
		return true
	}
	if allowEmpty && errors.Is(err, commonhttputil.ErrEmptyBody) {
		return true
	}
	a.logger.DebugContext(r.Context(), "request_parse_failed", "path", r.URL.Path, "err", err)
	respondError(w, http.StatusBadRequest, errorInvalidRequest, err.Error())
	return false
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	_ = commonhttputil.WriteJSON(w, status, v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	_ = commonhttputil.WriteErrorJSON(w, status, code, message)
}
