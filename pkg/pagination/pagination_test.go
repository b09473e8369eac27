package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func testContext(query string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return c
}

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
	}{
		{"defaults", "", 1, DefaultLimit},
		{"explicit", "page=3&limit=50", 3, 50},
		{"non numeric", "page=abc&limit=xyz", 1, DefaultLimit},
		{"negative", "page=-2&limit=-5", 1, DefaultLimit},
		{"zero", "page=0&limit=0", 1, DefaultLimit},
		{"limit capped", "limit=5000", 1, MaxLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Parse(testContext(tt.query))
			if p.Page != tt.wantPage || p.Limit != tt.wantLimit {
				t.Errorf("Parse(%q) = %+v, want page %d limit %d", tt.query, p, tt.wantPage, tt.wantLimit)
			}
		})
	}
}

func TestPagedCarriesWindowMetadata(t *testing.T) {
	paged := Params{Page: 2, Limit: 10}.Paged([]string{"a"}, 21)

	if paged.Page != 2 || paged.Limit != 10 {
		t.Errorf("window = page %d limit %d, want 2/10", paged.Page, paged.Limit)
	}
	if paged.Total != 21 {
		t.Errorf("total = %d, want 21", paged.Total)
	}
	items, ok := paged.Items.([]string)
	if !ok || len(items) != 1 {
		t.Errorf("items = %#v", paged.Items)
	}
}
