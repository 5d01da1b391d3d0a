package progress

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"testing"
	"time"

	"github.com/park285/healthquest-go/internal/heroquest/localstore"
	"github.com/park285/healthquest-go/internal/heroquest/model"
	"github.com/park285/healthquest-go/internal/heroquest/remote"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) advanceDays(n int) { c.now = c.now.AddDate(0, 0, n) }

type fixture struct {
	engine *Engine
	local  *localstore.Store
	repo   *fakeRepo
	clock  *testClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	local := localstore.New(localstore.NewMemoryBackend(), "dev-1", logger)
	repo := newFakeRepo()
	clock := &testClock{now: time.Date(2026, 6, 1, 15, 0, 0, 0, time.UTC)}
	engine := New(local, repo,
		WithLogger(logger),
		WithClock(clock.Now),
		WithLocation(time.UTC),
	)
	return &fixture{engine: engine, local: local, repo: repo, clock: clock}
}

func (f *fixture) withLocalProfile(t *testing.T, name string) {
	t.Helper()
	f.local.WriteProfile(context.Background(), model.LocalProfile{
		HeroName:  name,
		Age:       "7",
		Grade:     "2",
		Interests: []string{"water"},
		CreatedAt: f.clock.now,
	})
}

func TestAwardBadge_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.withLocalProfile(t, "Mina")
	f.repo.seedProfile(model.HeroProfile{HeroName: "Mina", Points: 10, Streak: 1})

	first := f.engine.AwardBadge(ctx, "hydration-master", 100)
	second := f.engine.AwardBadge(ctx, "hydration-master", 100)

	if !first {
		t.Error("first award should sync to remote")
	}
	if second {
		t.Error("repeat award must not write remotely")
	}
	if got := f.local.ReadBadges(ctx); !slices.Equal(got, []string{"hydration-master"}) {
		t.Errorf("expected badge exactly once, got %v", got)
	}
	if got := f.local.ReadPoints(ctx); got != 100 {
		t.Errorf("expected points 100, got %d", got)
	}

	rp, _ := f.repo.profile("Mina")
	if !slices.Equal(rp.Badges, []string{"hydration-master"}) {
		t.Errorf("unexpected remote badges %v", rp.Badges)
	}
	if rp.Points != 110 {
		t.Errorf("remote points must be remote + award, expected 110, got %d", rp.Points)
	}
	if f.repo.callCount("update_profile") != 1 || len(f.repo.achievements) != 1 {
		t.Errorf("expected one remote update and one achievement, got %d and %d",
			f.repo.callCount("update_profile"), len(f.repo.achievements))
	}

	if p := f.local.ReadProfile(ctx); p == nil || p.Points != 100 || !slices.Equal(p.Badges, []string{"hydration-master"}) {
		t.Errorf("profile blob should mirror badges/points, got %+v", p)
	}
}

func TestAwardBadge_RemoteAlreadyHasBadge(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.withLocalProfile(t, "Mina")
	f.repo.seedProfile(model.HeroProfile{HeroName: "Mina", Badges: []string{"star"}, Points: 40})

	if !f.engine.AwardBadge(ctx, "star", 25) {
		t.Error("expected synced when remote already holds the badge")
	}
	rp, _ := f.repo.profile("Mina")
	if rp.Points != 40 {
		t.Errorf("remote points must not change, got %d", rp.Points)
	}
	if f.repo.callCount("update_profile") != 0 {
		t.Error("no remote update expected")
	}
	if got := f.local.ReadPoints(ctx); got != 25 {
		t.Errorf("local award still applies, got %d", got)
	}
}

func TestAwardBadge_WithoutProfileStaysLocal(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	if f.engine.AwardBadge(ctx, "first-sip", 5) {
		t.Error("expected false without a local profile")
	}
	if got := f.local.ReadPoints(ctx); got != 5 {
		t.Errorf("expected local points 5, got %d", got)
	}
	if f.repo.callCount("find_by_hero_name") != 0 {
		t.Error("remote must not be consulted without a local profile")
	}
}

func TestAwardBadge_RejectsBlankAndClampsNegativePoints(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	if f.engine.AwardBadge(ctx, "  ", 10) {
		t.Error("blank badge must be rejected")
	}
	f.engine.AwardBadge(ctx, "oops", -50)
	if got := f.local.ReadPoints(ctx); got != 0 {
		t.Errorf("negative award must not reduce points, got %d", got)
	}
}

func TestRecordMissionProgress_ScoreIsMonotonic(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.withLocalProfile(t, "Mina")
	rp := f.repo.seedProfile(model.HeroProfile{HeroName: "Mina"})
	key := model.MissionKey{HeroID: rp.ID, MissionType: "hydration", MissionName: "desertquest"}

	if !f.engine.RecordMissionProgress(ctx, "hydration", "desertquest", 60, false) {
		t.Fatal("expected insert to sync")
	}

	f.engine.RecordMissionProgress(ctx, "hydration", "desertquest", 40, false)
	if got, _ := f.repo.mission(key); got.Score != 60 {
		t.Errorf("lower score must not overwrite, got %d", got.Score)
	}
	if f.repo.callCount("upsert_mission_progress") != 1 {
		t.Error("unchanged report must not write")
	}

	f.engine.RecordMissionProgress(ctx, "hydration", "desertquest", 80, false)
	if got, _ := f.repo.mission(key); got.Score != 80 {
		t.Errorf("higher score must update, got %d", got.Score)
	}
}

func TestRecordMissionProgress_CompletedIsSticky(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.withLocalProfile(t, "Mina")
	rp := f.repo.seedProfile(model.HeroProfile{HeroName: "Mina"})
	key := model.MissionKey{HeroID: rp.ID, MissionType: "movement", MissionName: "dance-off"}

	f.engine.RecordMissionProgress(ctx, "movement", "dance-off", 50, false)
	f.engine.RecordMissionProgress(ctx, "movement", "dance-off", 30, true)
	f.engine.RecordMissionProgress(ctx, "movement", "dance-off", 10, false)

	got, _ := f.repo.mission(key)
	if !got.Completed {
		t.Error("completed must stay true")
	}
	if got.Score != 50 {
		t.Errorf("expected score 50, got %d", got.Score)
	}
}

func TestRecordMissionProgress_RequiresProfiles(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	if f.engine.RecordMissionProgress(ctx, "hydration", "desertquest", 10, true) {
		t.Error("expected false without local profile")
	}

	f.withLocalProfile(t, "Mina")
	if f.engine.RecordMissionProgress(ctx, "hydration", "desertquest", 10, true) {
		t.Error("expected false without remote profile")
	}
	if f.repo.callCount("insert_profile") != 0 {
		t.Error("mission progress must not create a profile")
	}
	if _, ok := f.local.ReadStreak(ctx); ok {
		t.Error("mission progress must not touch local state")
	}
}

func TestUpdateStreak_OncePerDay(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first := f.engine.UpdateStreak(ctx)
	again := f.engine.UpdateStreak(ctx)
	if first != 1 || again != 1 {
		t.Errorf("expected 1 twice on the same day, got %d and %d", first, again)
	}

	f.clock.advanceDays(1)
	if got := f.engine.UpdateStreak(ctx); got != 2 {
		t.Errorf("expected 2 on the next day, got %d", got)
	}

	// 빈 날이 있어도 초기화하지 않는다.
	f.clock.advanceDays(5)
	if got := f.engine.UpdateStreak(ctx); got != 3 {
		t.Errorf("expected visit counter 3 after a gap, got %d", got)
	}
	if got, _ := f.local.ReadLastCheckIn(ctx); got != "2026-06-07" {
		t.Errorf("unexpected lastCheckIn %q", got)
	}
}

func TestUpdateStreak_UsesConfiguredTimezone(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	seoul := time.FixedZone("KST", 9*60*60)
	f.engine = New(f.local, f.repo, WithClock(f.clock.Now), WithLocation(seoul))

	// 2026-06-01 15:00 UTC 는 서울 기준 2026-06-02 00:00 이다.
	f.local.WriteLastCheckIn(ctx, "2026-06-01")
	f.local.WriteStreak(ctx, 4)

	if got := f.engine.UpdateStreak(ctx); got != 5 {
		t.Errorf("expected a new local day, got %d", got)
	}
}

func TestUpdateStreak_LegacyCheckInFormats(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.local.WriteStreak(ctx, 2)
	f.local.WriteLastCheckIn(ctx, "2026-06-01T09:00:00Z")

	if got := f.engine.UpdateStreak(ctx); got != 2 {
		t.Errorf("timestamp on the same day must not increment, got %d", got)
	}

	f.local.WriteLastCheckIn(ctx, "Mon Jun 01 2026")
	if got := f.engine.UpdateStreak(ctx); got != 2 {
		t.Errorf("browser date string on the same day must not increment, got %d", got)
	}
}

func TestUpdateStreak_PushesToRemoteEveryCall(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.withLocalProfile(t, "Mina")
	f.repo.seedProfile(model.HeroProfile{HeroName: "Mina", Streak: 9})

	f.engine.UpdateStreak(ctx)
	f.engine.UpdateStreak(ctx)

	if got := f.repo.callCount("update_profile"); got != 2 {
		t.Errorf("expected remote push on both calls, got %d", got)
	}
	rp, _ := f.repo.profile("Mina")
	if rp.Streak != 9 || !rp.LastCheckIn.Equal(f.clock.now) {
		t.Errorf("remote streak must not decrease, got %+v", rp)
	}
}

func TestUpdateStreak_AfterMergeKeepsRemoteStreak(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.withLocalProfile(t, "Mina")
	f.local.WriteStreak(ctx, 2)
	f.local.WriteLastCheckIn(ctx, "2026-06-01")
	f.repo.seedProfile(model.HeroProfile{
		HeroName:    "Mina",
		Streak:      30,
		LastCheckIn: time.Date(2026, 5, 31, 8, 0, 0, 0, time.UTC),
	})

	f.engine.GetOrCreateProfile(ctx)
	if got, _ := f.local.ReadStreak(ctx); got != 30 {
		t.Fatalf("expected merged streak 30 in local key, got %d", got)
	}
	if got, _ := f.local.ReadLastCheckIn(ctx); got != "2026-05-31" {
		t.Fatalf("expected merged lastCheckIn in local key, got %q", got)
	}

	if got := f.engine.UpdateStreak(ctx); got != 31 {
		t.Errorf("expected 31 on a new day after merge, got %d", got)
	}
	rp, _ := f.repo.profile("Mina")
	if rp.Streak != 31 {
		t.Errorf("expected remote streak 31, got %d", rp.Streak)
	}

	if got := f.engine.UpdateStreak(ctx); got != 31 {
		t.Errorf("expected 31 again on the same day, got %d", got)
	}
	if rp, _ := f.repo.profile("Mina"); rp.Streak != 31 {
		t.Errorf("same-day push must keep remote streak, got %d", rp.Streak)
	}
}

func TestUpdateStreak_SameDayNeverLowersRemote(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.withLocalProfile(t, "Mina")
	f.local.WriteStreak(ctx, 2)
	f.local.WriteLastCheckIn(ctx, "2026-06-01")
	f.repo.seedProfile(model.HeroProfile{HeroName: "Mina", Streak: 30})

	if got := f.engine.UpdateStreak(ctx); got != 2 {
		t.Errorf("expected local streak 2, got %d", got)
	}
	if rp, _ := f.repo.profile("Mina"); rp.Streak != 30 {
		t.Errorf("remote streak overwritten with stale local value: %d", rp.Streak)
	}
}

func TestOperations_SurviveRemoteOutage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.withLocalProfile(t, "Mina")
	f.repo.failAll = true

	if p := f.engine.GetOrCreateProfile(ctx); p != nil {
		t.Errorf("expected nil profile, got %+v", p)
	}
	if f.engine.AwardBadge(ctx, "hydration-master", 100) {
		t.Error("expected false while remote is down")
	}
	if f.engine.RecordMissionProgress(ctx, "hydration", "desertquest", 70, true) {
		t.Error("expected false while remote is down")
	}
	if got := f.engine.UpdateStreak(ctx); got != 1 {
		t.Errorf("expected streak 1, got %d", got)
	}
	if list := f.engine.ListMissionProgress(ctx); list == nil || len(list) != 0 {
		t.Errorf("expected empty list, got %v", list)
	}

	if got := f.local.ReadBadges(ctx); !slices.Equal(got, []string{"hydration-master"}) {
		t.Errorf("local badge must be applied, got %v", got)
	}
	if got := f.local.ReadPoints(ctx); got != 100 {
		t.Errorf("local points must be applied, got %d", got)
	}
	if got, ok := f.local.ReadStreak(ctx); !ok || got != 1 {
		t.Errorf("local streak must be applied, got %d", got)
	}
}

func TestOperations_WithoutRemoteConfiguration(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.engine = New(f.local, nil, WithClock(f.clock.Now))
	f.withLocalProfile(t, "Mina")

	if f.engine.GetOrCreateProfile(ctx) != nil {
		t.Error("expected nil profile")
	}
	if f.engine.AwardBadge(ctx, "b", 1) {
		t.Error("expected false")
	}
	if f.engine.UpdateStreak(ctx) != 1 {
		t.Error("expected local streak")
	}
}

func TestGetOrCreateProfile_RemoteWinsOnLoad(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.withLocalProfile(t, "Mina")
	f.local.WriteBadges(ctx, []string{"a"})
	f.local.WritePoints(ctx, 50)
	remoteCheckIn := time.Date(2026, 5, 30, 8, 0, 0, 0, time.UTC)
	seeded := f.repo.seedProfile(model.HeroProfile{
		HeroName:    "Mina",
		Age:         "9",
		Badges:      []string{"a", "b"},
		Points:      150,
		Streak:      6,
		LastCheckIn: remoteCheckIn,
	})

	got := f.engine.GetOrCreateProfile(ctx)
	if got == nil || got.ID != seeded.ID {
		t.Fatalf("expected remote record, got %+v", got)
	}

	if badges := f.local.ReadBadges(ctx); !slices.Equal(badges, []string{"a", "b"}) {
		t.Errorf("expected remote badges, got %v", badges)
	}
	if points := f.local.ReadPoints(ctx); points != 150 {
		t.Errorf("expected remote points, got %d", points)
	}

	p := f.local.ReadProfile(ctx)
	if p == nil {
		t.Fatal("expected merged profile")
	}
	if p.ID != seeded.ID || p.Streak != 6 || p.Points != 150 {
		t.Errorf("unexpected merged profile %+v", p)
	}
	if p.Age != "7" || p.Grade != "2" {
		t.Errorf("descriptive fields must stay local, got age=%s grade=%s", p.Age, p.Grade)
	}
	if date, _ := model.CheckInDate(p.LastCheckIn, time.UTC); date != "2026-05-30" {
		t.Errorf("expected remote lastCheckIn, got %q", p.LastCheckIn)
	}
	if streak, _ := f.local.ReadStreak(ctx); streak != 6 {
		t.Errorf("expected remote streak mirrored, got %d", streak)
	}
	if f.repo.callCount("insert_profile") != 0 {
		t.Error("existing remote profile must not be re-inserted")
	}
}

func TestGetOrCreateProfile_MergeDefaults(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.withLocalProfile(t, "Mina")
	f.local.WriteBadges(ctx, []string{"local-only"})
	f.repo.seedProfile(model.HeroProfile{HeroName: "Mina"})

	f.engine.GetOrCreateProfile(ctx)

	if badges := f.local.ReadBadges(ctx); len(badges) != 0 {
		t.Errorf("remote empty badges win on load, got %v", badges)
	}
	p := f.local.ReadProfile(ctx)
	if p.Streak != 1 {
		t.Errorf("expected streak defaulted to 1, got %d", p.Streak)
	}
	if date, _ := model.CheckInDate(p.LastCheckIn, time.UTC); date != "2026-06-01" {
		t.Errorf("expected lastCheckIn defaulted to now, got %q", p.LastCheckIn)
	}
}

func TestGetOrCreateProfile_SeedsNewRemoteProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.withLocalProfile(t, "Mina")
	f.local.WriteBadges(ctx, []string{"a", "b"})
	f.local.WritePoints(ctx, 75)
	f.local.WriteStreak(ctx, 3)
	f.local.WriteLastCheckIn(ctx, "2026-05-31")

	got := f.engine.GetOrCreateProfile(ctx)
	if got == nil || got.ID == "" {
		t.Fatalf("expected inserted record with id, got %+v", got)
	}
	if len(f.repo.inserts) != 1 {
		t.Fatalf("expected exactly one insert, got %d", len(f.repo.inserts))
	}

	seed := f.repo.inserts[0]
	if !slices.Equal(seed.Badges, []string{"a", "b"}) || seed.Points != 75 || seed.Streak != 3 {
		t.Errorf("seed must carry local badges/points/streak, got %+v", seed)
	}
	if seed.Grade != "2" || !slices.Equal(seed.Interests, []string{"water"}) {
		t.Errorf("seed must carry profile fields, got %+v", seed)
	}
	if want := time.Date(2026, 5, 31, 0, 0, 0, 0, time.UTC); !seed.LastCheckIn.Equal(want) {
		t.Errorf("expected lastCheckIn %v, got %v", want, seed.LastCheckIn)
	}
	if p := f.local.ReadProfile(ctx); p == nil || p.ID != got.ID {
		t.Error("expected remote id stored locally")
	}
}

func TestGetOrCreateProfile_SeedDefaults(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.withLocalProfile(t, "Mina")

	f.engine.GetOrCreateProfile(ctx)

	seed := f.repo.inserts[0]
	if seed.Streak != 1 || seed.Points != 0 || len(seed.Badges) != 0 {
		t.Errorf("unexpected defaults %+v", seed)
	}
	if !seed.LastCheckIn.Equal(f.clock.now) {
		t.Errorf("expected lastCheckIn now, got %v", seed.LastCheckIn)
	}
}

func TestGetOrCreateProfile_WithoutLocalProfile(t *testing.T) {
	f := newFixture(t)
	if f.engine.GetOrCreateProfile(context.Background()) != nil {
		t.Error("expected nil")
	}
	if f.repo.callCount("find_by_hero_name") != 0 {
		t.Error("remote must not be consulted")
	}
}

func TestGetOrCreateProfile_InsertFailure(t *testing.T) {
	f := newFixture(t)
	f.withLocalProfile(t, "Mina")
	f.repo.failOps["insert_profile"] = true

	if f.engine.GetOrCreateProfile(context.Background()) != nil {
		t.Error("expected nil when insert fails")
	}
}

func TestListMissionProgress(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.withLocalProfile(t, "Mina")
	f.repo.seedProfile(model.HeroProfile{HeroName: "Mina"})

	f.engine.RecordMissionProgress(ctx, "hydration", "desertquest", 10, false)
	f.engine.RecordMissionProgress(ctx, "mystery", "riddle", 90, true)

	if got := f.engine.ListMissionProgress(ctx); len(got) != 2 {
		t.Errorf("expected 2 rows, got %d", len(got))
	}
}

func TestListAchievements(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.withLocalProfile(t, "Mina")
	f.repo.seedProfile(model.HeroProfile{HeroName: "Mina"})

	f.engine.AwardBadge(ctx, "hydration-master", 100)
	f.engine.AwardBadge(ctx, "riddle-solver", 50)

	got := f.engine.ListAchievements(ctx)
	if len(got) != 2 || got[0].BadgeID != "hydration-master" || got[1].BadgeID != "riddle-solver" {
		t.Errorf("unexpected achievements %+v", got)
	}

	f.repo.failAll = true
	if list := f.engine.ListAchievements(ctx); list == nil || len(list) != 0 {
		t.Errorf("expected empty list while remote is down, got %v", list)
	}
}

func TestSnapshotAndZones(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.withLocalProfile(t, "Mina")

	if got := f.engine.AdvanceZone(ctx, model.ZoneMindfulness, 0); got != 1 {
		t.Errorf("expected step defaulted to 1, got %d", got)
	}
	if got := f.engine.AdvanceZone(ctx, model.ZoneMindfulness, 2); got != 3 {
		t.Errorf("expected 3, got %d", got)
	}

	snap := f.engine.Snapshot(ctx)
	if snap.Profile == nil || snap.Profile.HeroName != "Mina" {
		t.Errorf("unexpected snapshot profile %+v", snap.Profile)
	}
	if snap.ZoneProgress[model.ZoneMindfulness] != 3 || len(snap.ZoneProgress) != len(model.Zones) {
		t.Errorf("unexpected zone progress %v", snap.ZoneProgress)
	}
	if snap.Degraded {
		t.Error("memory store must not be degraded")
	}
}

func TestSaveProfile_KeepsSyncFields(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.repo.seedProfile(model.HeroProfile{HeroName: "Mina", Points: 30})
	f.engine.SaveProfile(ctx, model.LocalProfile{HeroName: "Mina", Age: "7"})
	f.engine.GetOrCreateProfile(ctx)

	saved := f.engine.SaveProfile(ctx, model.LocalProfile{HeroName: "Mina", Age: "8"})
	if saved.ID == "" || saved.Points != 30 || saved.Age != "8" {
		t.Errorf("expected remote link kept and age updated, got %+v", saved)
	}
	if saved.Interests == nil {
		t.Error("interests must not be nil")
	}
}

func TestHub_EnginePerDevice(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hub := NewHub(localstore.NewRegistry(localstore.NewMemoryBackend(), logger), remote.Disabled{}, logger)

	hub.Engine("a").AwardBadge(ctx, "x", 10)

	if hub.Engine("a") != hub.Engine("a") {
		t.Error("expected cached engine")
	}
	if got := hub.Engine("b").Snapshot(ctx).Points; got != 0 {
		t.Errorf("devices must be isolated, got %d", got)
	}
	if got := hub.Engine("a").Snapshot(ctx).Points; got != 10 {
		t.Errorf("expected 10, got %d", got)
	}
}
