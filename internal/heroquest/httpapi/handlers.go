package httpapi

import (
	"net/http"
	"strings"

	"github.com/park285/healthquest-go/internal/heroquest/model"
	"github.com/park285/healthquest-go/internal/heroquest/narration"
)

type (
	// ProfileRequest: 로컬 프로필 생성/수정 요청 DTO
	ProfileRequest struct {
		HeroName  string   `json:"heroName"`
		Age       string   `json:"age"`
		Grade     string   `json:"grade,omitempty"`
		Interests []string `json:"interests,omitempty"`
		HeroType  string   `json:"heroType,omitempty"`
	}

	// SyncResponse: 프로필 동기화 결과. 로컬 프로필이 없거나 원격에 닿지 못하면 null 이다.
	SyncResponse struct {
		Profile *model.HeroProfile `json:"profile"`
	}

	// StreakResponse: 체크인 후 스트릭
	StreakResponse struct {
		Streak int `json:"streak"`
	}

	// BadgeRequest: 배지 지급 요청 DTO
	BadgeRequest struct {
		BadgeID string `json:"badgeId"`
		Points  int    `json:"points"`
	}

	// MissionRequest: 미션 진행도 기록 요청 DTO
	MissionRequest struct {
		MissionType string `json:"missionType"`
		MissionName string `json:"missionName"`
		Score       int    `json:"score"`
		Completed   bool   `json:"completed"`
	}

	// SyncedResponse: 원격 반영 여부
	SyncedResponse struct {
		Synced bool `json:"synced"`
	}

	// MissionListResponse: 원격 미션 진행도 목록
	MissionListResponse struct {
		Missions []model.MissionProgress `json:"missions"`
	}

	// AchievementListResponse: 원격 배지 획득 로그
	AchievementListResponse struct {
		Achievements []model.Achievement `json:"achievements"`
	}

	// ZoneAdvanceRequest: 존 진행도 증가 요청 DTO. step 이 없으면 1 이다.
	ZoneAdvanceRequest struct {
		Step int `json:"step"`
	}

	// ZoneAdvanceResponse: 증가 후 존 진행도
	ZoneAdvanceResponse struct {
		Zone     model.Zone `json:"zone"`
		Progress int        `json:"progress"`
	}

	// NarrationRequest: 격려 문구 요청 DTO
	NarrationRequest struct {
		Topic       string `json:"topic"`
		MissionName string `json:"missionName,omitempty"`
	}

	// NarrationResponse: 격려 문구
	NarrationResponse struct {
		Text string `json:"text"`
	}
)

func (a *api) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, a.engine(r).Snapshot(r.Context()))
}

func (a *api) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	var req ProfileRequest
	if !a.readBody(w, r, &req, false) {
		return
	}
	if strings.TrimSpace(req.HeroName) == "" {
		respondError(w, http.StatusBadRequest, errorInvalidRequest, "heroName is required")
		return
	}

	saved := a.engine(r).SaveProfile(r.Context(), model.LocalProfile{
		HeroName:  strings.TrimSpace(req.HeroName),
		Age:       strings.TrimSpace(req.Age),
		Grade:     strings.TrimSpace(req.Grade),
		Interests: req.Interests,
		HeroType:  strings.TrimSpace(req.HeroType),
	})
	respondJSON(w, http.StatusOK, saved)
}

func (a *api) handleSync(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, SyncResponse{Profile: a.engine(r).GetOrCreateProfile(r.Context())})
}

func (a *api) handleStreak(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, StreakResponse{Streak: a.engine(r).UpdateStreak(r.Context())})
}

func (a *api) handleAwardBadge(w http.ResponseWriter, r *http.Request) {
	var req BadgeRequest
	if !a.readBody(w, r, &req, false) {
		return
	}
	synced := a.engine(r).AwardBadge(r.Context(), req.BadgeID, req.Points)
	respondJSON(w, http.StatusOK, SyncedResponse{Synced: synced})
}

func (a *api) handleRecordMission(w http.ResponseWriter, r *http.Request) {
	var req MissionRequest
	if !a.readBody(w, r, &req, false) {
		return
	}
	synced := a.engine(r).RecordMissionProgress(r.Context(), req.MissionType, req.MissionName, req.Score, req.Completed)
	respondJSON(w, http.StatusOK, SyncedResponse{Synced: synced})
}

func (a *api) handleListMissions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, MissionListResponse{Missions: a.engine(r).ListMissionProgress(r.Context())})
}

func (a *api) handleListAchievements(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, AchievementListResponse{Achievements: a.engine(r).ListAchievements(r.Context())})
}

func (a *api) handleAdvanceZone(w http.ResponseWriter, r *http.Request) {
	zone, err := model.ParseZone(r.PathValue("zone"))
	if err != nil {
		respondError(w, http.StatusBadRequest, errorInvalidZone, err.Error())
		return
	}
	var req ZoneAdvanceRequest
	if !a.readBody(w, r, &req, true) {
		return
	}

	progress := a.engine(r).AdvanceZone(r.Context(), zone, req.Step)
	respondJSON(w, http.StatusOK, ZoneAdvanceResponse{Zone: zone, Progress: progress})
}

func (a *api) handleNarration(w http.ResponseWriter, r *http.Request) {
	var req NarrationRequest
	if !a.readBody(w, r, &req, false) {
		return
	}

	snapshot := a.engine(r).Snapshot(r.Context())
	text := a.narrator.Generate(r.Context(), narration.Request{
		Profile:     snapshot.Profile,
		Topic:       strings.TrimSpace(req.Topic),
		MissionName: strings.TrimSpace(req.MissionName),
	})
	respondJSON(w, http.StatusOK, NarrationResponse{Text: text})
}
