package model

import "slices"

// HasBadge 는 badges 에 badgeID 가 있는지 확인한다.
func HasBadge(badges []string, badgeID string) bool {
	return slices.Contains(badges, badgeID)
}

// AddBadge 는 badgeID 가 없을 때만 끝에 붙인다. 원본 슬라이스는 바꾸지 않는다.
func AddBadge(badges []string, badgeID string) ([]string, bool) {
	if HasBadge(badges, badgeID) {
		return badges, false
	}
	out := make([]string, 0, len(badges)+1)
	out = append(out, badges...)
	return append(out, badgeID), true
}

// UniqueBadges 는 순서를 유지한 채 중복과 빈 값을 제거한다. 결과는 nil 이 아니다.
func UniqueBadges(badges []string) []string {
	out := make([]string, 0, len(badges))
	seen := make(map[string]struct{}, len(badges))
	for _, b := range badges {
		if b == "" {
			continue
		}
		if _, dup := seen[b]; dup {
			continue
		}
		seen[b] = struct{}{}
		out = append(out, b)
	}
	return out
}
