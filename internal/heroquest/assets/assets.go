package assets

import _ "embed" // 에셋 임베드용

// NarrationYAML: 내레이션 프롬프트와 존별 대체 문구 YAML입니다.
//
//go:embed messages/narration.yml
var NarrationYAML string
