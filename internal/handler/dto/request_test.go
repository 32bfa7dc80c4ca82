package dto_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mtlprog/ampserve/internal/handler/dto"
)

func TestParsePageRequest(t *testing.T) {
	tests := []struct {
		target   string
		brand    string
		hasBrand bool
		segment  string
	}{
		{target: "/?jackpot=Acme", brand: "Acme", hasBrand: true, segment: ""},
		{target: "/?jackpot=", brand: "", hasBrand: true, segment: ""},
		{target: "/?jackpot", brand: "", hasBrand: true, segment: ""},
		{target: "/live-chat/extra", brand: "", hasBrand: false, segment: "live-chat"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tt.target, nil)
			r.Header.Set("User-Agent", "Googlebot")

			req := dto.ParsePageRequest(r, "jackpot")

			assert.Equal(t, tt.brand, req.Brand)
			assert.Equal(t, tt.hasBrand, req.HasBrand)
			assert.Equal(t, tt.segment, req.Segment)
			assert.Equal(t, "Googlebot", req.UserAgent)
		})
	}
}
