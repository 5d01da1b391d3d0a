// Package messageprovider 는 YAML 로 관리되는 사용자 노출 문구를 점 표기 키로 조회한다.
package messageprovider

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Provider 는 파싱된 문구 트리다.
type Provider struct {
	root map[string]any
}

// NewFromYAML 는 YAML 문서를 읽어 Provider 를 만든다. 빈 문서는 빈 Provider 다.
func NewFromYAML(yamlContent string) (*Provider, error) {
	var raw any
	if err := yaml.Unmarshal([]byte(yamlContent), &raw); err != nil {
		return nil, fmt.Errorf("unmarshal yaml failed: %w", err)
	}
	if raw == nil {
		return &Provider{root: map[string]any{}}, nil
	}

	root, ok := normalizeYAMLValue(raw).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("unexpected yaml root type: %T", raw)
	}
	return &Provider{root: root}, nil
}

// NewFromYAMLAtPath 는 rootKey 아래 서브트리만 갖는 Provider 를 만든다.
func NewFromYAMLAtPath(yamlContent string, rootKey string) (*Provider, error) {
	provider, err := NewFromYAML(yamlContent)
	if err != nil {
		return nil, err
	}

	rootKey = strings.TrimSpace(rootKey)
	if rootKey == "" {
		return provider, nil
	}

	value, ok := resolveDottedKey(provider.root, rootKey)
	if !ok {
		return nil, fmt.Errorf("yaml root key not found: %q", rootKey)
	}
	sub, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("yaml root key must be an object: %q (got %T)", rootKey, value)
	}
	return &Provider{root: sub}, nil
}

// Param 는 템플릿 치환 인자다. 템플릿의 {Key} 가 Value 로 바뀐다.
type Param struct {
	Key   string
	Value any
}

// P 는 Param 을 만든다.
func P(key string, value any) Param {
	return Param{Key: key, Value: value}
}

// Lookup 는 key 의 문구를 치환해서 반환한다. 키가 없거나 문자열이 아니면 ok=false 다.
func (p *Provider) Lookup(key string, params ...Param) (string, bool) {
	if p == nil || strings.TrimSpace(key) == "" {
		return "", false
	}
	value, ok := resolveDottedKey(p.root, key)
	if !ok {
		return "", false
	}
	template, ok := value.(string)
	if !ok {
		return "", false
	}
	return Render(template, params...), true
}

// Get 는 Lookup 과 같지만 키가 없으면 키 자체를 반환한다.
func (p *Provider) Get(key string, params ...Param) string {
	if text, ok := p.Lookup(key, params...); ok {
		return text
	}
	return key
}

// Render 는 template 의 {Key} 자리표시자를 치환한다. 인자가 없는 자리표시자는 그대로 둔다.
func Render(template string, params ...Param) string {
	if len(params) == 0 {
		return template
	}
	pairs := make([]string, 0, len(params)*2)
	for _, param := range params {
		pairs = append(pairs, "{"+param.Key+"}", fmt.Sprint(param.Value))
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

func resolveDottedKey(root map[string]any, key string) (any, bool) {
	var current any = root
	for _, part := range strings.Split(key, ".") {
		nextMap, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		if current, ok = nextMap[part]; !ok {
			return nil, false
		}
	}
	return current, true
}

func normalizeYAMLValue(v any) any {
	switch typed := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for k, vv := range typed {
			out[k] = normalizeYAMLValue(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(typed))
		for k, vv := range typed {
			out[fmt.Sprint(k)] = normalizeYAMLValue(vv)
		}
		return out
	case []any:
		out := make([]any, 0, len(typed))
		for _, vv := range typed {
			out = append(out, normalizeYAMLValue(vv))
		}
		return out
	default:
		return v
	}
}
