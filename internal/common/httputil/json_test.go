package httputil

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestReadJSON_Success(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"badgeId":"hydration-master","points":100}`))

	var out struct {
		BadgeID string `json:"badgeId"`
		Points  int    `json:"points"`
	}
	if err := ReadJSON(req, &out, 1024); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.BadgeID != "hydration-master" || out.Points != 100 {
		t.Errorf("unexpected decode: %+v", out)
	}
}

func TestReadJSON_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{"empty", "", ErrEmptyBody},
		{"whitespace", "  \n", ErrEmptyBody},
		{"too large", `{"badgeId":"` + strings.Repeat("a", 2000) + `"}`, ErrBodyTooLarge},
		{"invalid json", `{invalid}`, nil},
		{"unknown field", `{"badgeId":"a","extra":1}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var out struct {
				BadgeID string `json:"badgeId"`
			}
			err := ReadJSON(req, &out, 1024)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestWriteJSON_NoHTMLEscape(t *testing.T) {
	rr := httptest.NewRecorder()

	if err := WriteJSON(rr, http.StatusOK, map[string]string{"text": "<b>Wow!</b>"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rr.Header().Get(HeaderContentType) != ContentTypeJSON {
		t.Errorf("unexpected content type: %s", rr.Header().Get(HeaderContentType))
	}
	if strings.Contains(rr.Body.String(), `\u003c`) {
		t.Errorf("HTML should not be escaped: %s", rr.Body.String())
	}
}

func TestWriteErrorJSON_TrimsFields(t *testing.T) {
	rr := httptest.NewRecorder()

	if err := WriteErrorJSON(rr, http.StatusBadRequest, "  INVALID_INPUT ", " heroName is required "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"error":"INVALID_INPUT"`) {
		t.Errorf("unexpected body: %s", rr.Body.String())
	}
}
