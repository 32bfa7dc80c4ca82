package dto_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mtlprog/ampserve/internal/domain"
	"github.com/mtlprog/ampserve/internal/handler/dto"
)

func TestMapDomainError(t *testing.T) {
	cases := []struct {
		err     error
		status  int
		message string
	}{
		{fmt.Errorf("%w: ?jackpot=", domain.ErrMissingParameter), http.StatusBadRequest, "missing required query parameter ?jackpot="},
		{domain.ErrMissingParameter, http.StatusBadRequest, "missing required query parameter "},
		{fmt.Errorf("%w: \"x\"", domain.ErrSiteNotFound), http.StatusNotFound, "not found"},
		{domain.ErrEmptySiteList, http.StatusInternalServerError, "internal server error"},
		{errors.New("something else"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tc := range cases {
		status, message := dto.MapDomainError(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.message, message, tc.err.Error())
	}
}
