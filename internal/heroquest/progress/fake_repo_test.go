package progress

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/park285/healthquest-go/internal/heroquest/model"
	"github.com/park285/healthquest-go/internal/heroquest/remote"
)

// fakeRepo 는 메모리 원격 저장소다. failAll 이 켜지면 모든 호출이 Unreachable 로 실패한다.
type fakeRepo struct {
	mu sync.Mutex

	profiles     map[string]model.HeroProfile // hero name -> profile
	missions     map[model.MissionKey]model.MissionProgress
	achievements []model.Achievement

	failAll bool
	failOps map[string]bool

	calls   map[string]int
	inserts []model.HeroProfile
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		profiles: make(map[string]model.HeroProfile),
		missions: make(map[model.MissionKey]model.MissionProgress),
		failOps:  make(map[string]bool),
		calls:    make(map[string]int),
	}
}

func (f *fakeRepo) enter(op string) error {
	f.calls[op]++
	if f.failAll || f.failOps[op] {
		return &remote.Error{Kind: remote.KindUnreachable, Op: op, Err: errors.New("connection refused")}
	}
	return nil
}

func (f *fakeRepo) callCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeRepo) profile(name string) (model.HeroProfile, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[name]
	return p, ok
}

func (f *fakeRepo) seedProfile(p model.HeroProfile) model.HeroProfile {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	f.profiles[p.HeroName] = p
	return p
}

func (f *fakeRepo) FindByHeroName(_ context.Context, name string) (model.HeroProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("find_by_hero_name"); err != nil {
		return model.HeroProfile{}, err
	}
	p, ok := f.profiles[name]
	if !ok {
		return model.HeroProfile{}, remote.NotFound("find_by_hero_name")
	}
	p.Badges = append([]string(nil), p.Badges...)
	return p, nil
}

func (f *fakeRepo) InsertProfile(_ context.Context, p model.HeroProfile) (model.HeroProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("insert_profile"); err != nil {
		return model.HeroProfile{}, err
	}
	f.inserts = append(f.inserts, p)
	p.ID = uuid.NewString()
	f.profiles[p.HeroName] = p
	return p, nil
}

func (f *fakeRepo) UpdateProfile(_ context.Context, id string, u model.ProfileUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("update_profile"); err != nil {
		return err
	}
	for name, p := range f.profiles {
		if p.ID != id {
			continue
		}
		if u.Badges != nil {
			p.Badges = append([]string(nil), u.Badges...)
		}
		if u.Points != nil {
			p.Points = *u.Points
		}
		if u.Streak != nil {
			p.Streak = *u.Streak
		}
		if u.LastCheckIn != nil {
			p.LastCheckIn = *u.LastCheckIn
		}
		f.profiles[name] = p
		return nil
	}
	return remote.NotFound("update_profile")
}

func (f *fakeRepo) InsertAchievement(_ context.Context, heroID, badgeID string, earnedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("insert_achievement"); err != nil {
		return err
	}
	f.achievements = append(f.achievements, model.Achievement{ID: uuid.NewString(), HeroID: heroID, BadgeID: badgeID, EarnedAt: earnedAt})
	return nil
}

func (f *fakeRepo) ListAchievements(_ context.Context, heroID string) ([]model.Achievement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("list_achievements"); err != nil {
		return nil, err
	}
	var out []model.Achievement
	for _, a := range f.achievements {
		if a.HeroID == heroID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeRepo) FindMissionProgress(_ context.Context, key model.MissionKey) (model.MissionProgress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("find_mission_progress"); err != nil {
		return model.MissionProgress{}, err
	}
	p, ok := f.missions[key]
	if !ok {
		return model.MissionProgress{}, remote.NotFound("find_mission_progress")
	}
	return p, nil
}

// UpsertMissionProgress 는 단순 덮어쓰기다. 단조성은 엔진이 지켜야 한다.
func (f *fakeRepo) UpsertMissionProgress(_ context.Context, p model.MissionProgress) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("upsert_mission_progress"); err != nil {
		return err
	}
	f.missions[p.Key()] = p
	return nil
}

func (f *fakeRepo) ListMissionProgress(_ context.Context, heroID string) ([]model.MissionProgress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("list_mission_progress"); err != nil {
		return nil, err
	}
	var out []model.MissionProgress
	for k, p := range f.missions {
		if k.HeroID == heroID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeRepo) mission(key model.MissionKey) (model.MissionProgress, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.missions[key]
	return p, ok
}
