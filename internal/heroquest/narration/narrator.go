// Package narration 은 미션 완료 격려 문구를 만든다.
// 외부 텍스트 생성기가 없거나 실패하면 존별 고정 문구로 대체하며, 진행 상태는 건드리지 않는다.
package narration

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/park285/healthquest-go/internal/common/messageprovider"
	"github.com/park285/healthquest-go/internal/heroquest/assets"
	"github.com/park285/healthquest-go/internal/heroquest/model"
)

// TextGenerator 는 프롬프트로 짧은 문구를 만드는 외부 생성기다.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Request 는 문구 생성 입력이다.
type Request struct {
	Profile     *model.LocalProfile
	Topic       string
	MissionName string
}

// Narrator 는 생성기 호출과 대체 문구 선택을 묶는다.
type Narrator struct {
	messages  *messageprovider.Provider
	generator TextGenerator
	timeout   time.Duration
	logger    *slog.Logger
}

// NewNarrator 는 내장 문구로 Narrator 를 만든다. generator 가 nil 이면 항상 대체 문구를 쓴다.
func NewNarrator(generator TextGenerator, timeout time.Duration, logger *slog.Logger) (*Narrator, error) {
	messages, err := messageprovider.NewFromYAMLAtPath(assets.NarrationYAML, "narration")
	if err != nil {
		return nil, fmt.Errorf("load narration messages failed: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Narrator{
		messages:  messages,
		generator: generator,
		timeout:   timeout,
		logger:    logger,
	}, nil
}

// hero 는 문구 치환에 쓰는 프로필 요약이다.
type hero struct {
	name      string
	age       int
	grade     string
	interests []string
	heroType  string
}

func (n *Narrator) heroOf(p *model.LocalProfile) hero {
	defaultAge, _ := strconv.Atoi(n.messages.Get("default_hero.age"))
	h := hero{
		name:      n.messages.Get("default_hero.name"),
		age:       defaultAge,
		heroType:  n.messages.Get("default_hero.hero_type"),
		interests: []string{"adventures", "games"},
	}
	if p == nil {
		return h
	}
	if name := strings.TrimSpace(p.HeroName); name != "" {
		h.name = name
	}
	if age, err := strconv.Atoi(strings.TrimSpace(p.Age)); err == nil && age > 0 {
		h.age = age
	}
	if t := strings.TrimSpace(p.HeroType); t != "" {
		h.heroType = t
	}
	if len(p.Interests) > 0 {
		h.interests = p.Interests
	}
	h.grade = strings.TrimSpace(p.Grade)
	return h
}

// Generate 는 격려 문구를 반환한다. 항상 비어 있지 않은 문자열을 돌려준다.
func (n *Narrator) Generate(ctx context.Context, req Request) string {
	h := n.heroOf(req.Profile)
	topic := strings.TrimSpace(req.Topic)

	if n.generator != nil {
		genCtx, cancel := context.WithTimeout(ctx, n.timeout)
		text, err := n.generator.Generate(genCtx, n.prompt(h, topic, req.MissionName))
		cancel()
		if text = strings.TrimSpace(text); err == nil && text != "" {
			return text
		}
		n.logger.WarnContext(ctx, "narration_generate_failed", "topic", topic, "err", err)
	}
	return n.fallback(h, topic)
}

func (n *Narrator) prompt(h hero, topic, missionName string) string {
	grade := ""
	if h.grade != "" {
		grade = " and in " + h.grade
	}
	return n.messages.Get("prompt",
		messageprovider.P("name", h.name),
		messageprovider.P("age", h.age),
		messageprovider.P("grade", grade),
		messageprovider.P("interests", strings.Join(h.interests, ", ")),
		messageprovider.P("heroType", h.heroType),
		messageprovider.P("missionName", strings.TrimSpace(missionName)),
		messageprovider.P("topic", topic),
	)
}

// fallback 은 topic 에 맞는 고정 문구를 고른다.
func (n *Narrator) fallback(h hero, topic string) string {
	exclamation := n.messages.Get("exclamation.older")
	if h.age < 8 {
		exclamation = n.messages.Get("exclamation.young")
	}
	return n.messages.Get("fallback."+fallbackKey(topic),
		messageprovider.P("exclamation", exclamation),
		messageprovider.P("name", h.name),
		messageprovider.P("heroType", h.heroType),
	)
}

// fallbackKey 는 topic 문자열에 포함된 단어로 대체 문구 키를 고른다.
func fallbackKey(topic string) string {
	t := strings.ToLower(topic)
	switch {
	case strings.Contains(t, "hydration"), strings.Contains(t, "water"):
		return "hydration"
	case strings.Contains(t, "nutrition"), strings.Contains(t, "food"):
		return "nutrition"
	case strings.Contains(t, "movement"), strings.Contains(t, "exercise"):
		return "movement"
	case strings.Contains(t, "mindfulness"), strings.Contains(t, "mental"):
		return "mindfulness"
	case strings.Contains(t, "mystery"):
		return "mystery"
	default:
		return "default"
	}
}
