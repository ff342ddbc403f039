package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func newContext(query string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestFromContextDefaults(t *testing.T) {
	p := FromContext(newContext(""))
	if p.Limit != DefaultLimit {
		t.Errorf("limit = %d, want %d", p.Limit, DefaultLimit)
	}
	if p.Offset != 0 {
		t.Errorf("offset = %d, want 0", p.Offset)
	}
}

func TestFromContextExplicit(t *testing.T) {
	p := FromContext(newContext("limit=10&offset=25"))
	if p.Limit != 10 {
		t.Errorf("limit = %d, want 10", p.Limit)
	}
	if p.Offset != 25 {
		t.Errorf("offset = %d, want 25", p.Offset)
	}
}

func TestFromContextCapsLimit(t *testing.T) {
	p := FromContext(newContext("limit=5000"))
	if p.Limit != MaxLimit {
		t.Errorf("limit = %d, want %d", p.Limit, MaxLimit)
	}
}

func TestFromContextInvalidValues(t *testing.T) {
	p := FromContext(newContext("limit=abc&offset=-5"))
	if p.Limit != DefaultLimit {
		t.Errorf("limit = %d, want %d", p.Limit, DefaultLimit)
	}
	if p.Offset != 0 {
		t.Errorf("offset = %d, want 0", p.Offset)
	}
}

func TestNewResponseHasMore(t *testing.T) {
	r := NewResponse([]int{1, 2, 3}, 30, 10, 0)
	if !r.HasMore {
		t.Error("expected HasMore with 30 total, offset 0, limit 10")
	}

	r = NewResponse([]int{1, 2, 3}, 30, 10, 25)
	if r.HasMore {
		t.Error("expected HasMore false with 30 total, offset 25, limit 10")
	}

	r = NewResponse(nil, 0, 10, 0)
	if r.HasMore {
		t.Error("expected HasMore false for empty result")
	}
}
