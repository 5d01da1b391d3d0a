package remote

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/park285/healthquest-go/internal/heroquest/model"
)

// FindByHeroName 은 정규화된 히어로 이름으로 프로필을 찾는다.
// 같은 이름이 여럿이면 가장 먼저 생성된 레코드를 쓴다.
func (r *GormRepository) FindByHeroName(ctx context.Context, heroName string) (model.HeroProfile, error) {
	const op = "find_by_hero_name"

	name := model.NormalizeHeroName(heroName)
	if name == "" {
		return model.HeroProfile{}, NotFound(op)
	}

	ctx, cancel := r.callContext(ctx)
	defer cancel()

	var row heroProfileRow
	err := r.session(ctx).
		Where("hero_name = ?", name).
		Order("created_at ASC").
		Take(&row).Error
	if err != nil {
		return model.HeroProfile{}, wrap(op, err)
	}
	return profileFromRow(row), nil
}

// InsertProfile 은 새 프로필을 만들고 원격 ID 를 발급한다.
func (r *GormRepository) InsertProfile(ctx context.Context, p model.HeroProfile) (model.HeroProfile, error) {
	const op = "insert_profile"

	now := r.now()
	lastCheckIn := p.LastCheckIn
	if lastCheckIn.IsZero() {
		lastCheckIn = now
	}
	row := heroProfileRow{
		ID:          uuid.NewString(),
		HeroName:    model.NormalizeHeroName(p.HeroName),
		Age:         strings.TrimSpace(p.Age),
		Grade:       strings.TrimSpace(p.Grade),
		Interests:   datatypes.NewJSONSlice(nonNil(p.Interests)),
		Badges:      datatypes.NewJSONSlice(model.UniqueBadges(p.Badges)),
		Points:      max(p.Points, 0),
		Streak:      max(p.Streak, 1),
		LastCheckIn: lastCheckIn,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if row.HeroName == "" {
		return model.HeroProfile{}, &Error{Kind: KindRejected, Op: op}
	}

	ctx, cancel := r.callContext(ctx)
	defer cancel()

	if err := r.session(ctx).Create(&row).Error; err != nil {
		return model.HeroProfile{}, wrap(op, err)
	}
	return profileFromRow(row), nil
}

// UpdateProfile 은 nil 이 아닌 필드만 갱신한다. 대상이 없으면 NotFound 다.
// 경합 시 마지막 쓰기가 남는다.
func (r *GormRepository) UpdateProfile(ctx context.Context, id string, u model.ProfileUpdate) error {
	const op = "update_profile"

	if u.IsEmpty() {
		return nil
	}
	fields := map[string]any{"updated_at": r.now()}
	if u.Badges != nil {
		fields["badges"] = datatypes.NewJSONSlice(model.UniqueBadges(u.Badges))
	}
	if u.Points != nil {
		fields["points"] = max(*u.Points, 0)
	}
	if u.Streak != nil {
		fields["streak"] = max(*u.Streak, 0)
	}
	if u.LastCheckIn != nil {
		fields["last_check_in"] = *u.LastCheckIn
	}

	ctx, cancel := r.callContext(ctx)
	defer cancel()

	res := r.session(ctx).Model(&heroProfileRow{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return wrap(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return NotFound(op)
	}
	return nil
}
