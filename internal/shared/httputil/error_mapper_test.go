package httputil

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"restaurantcore/internal/query"
	"restaurantcore/pkg/domain"
)

func TestDomainErrorMapper(t *testing.T) {
	m := DomainErrorMapper()
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"nil", nil, http.StatusOK, ""},
		{"not found", domain.NotFoundError{Entity: domain.EntityDish, ID: 3}, http.StatusNotFound, CodeNotFound},
		{"rejected", domain.Reject(domain.EntityDish, domain.ReasonConstraint, "name", "required"), http.StatusBadRequest, CodeRejected},
		{"wrapped page", fmt.Errorf("list: %w", query.ErrInvalidPage), http.StatusBadRequest, CodeInvalidPage},
		{"conflict", domain.DependencyError{Entity: domain.EntityDish, ID: 1, Relationship: "menu_items", Dependent: domain.EntityMenuItem, Count: 2}, http.StatusBadRequest, CodeDependencyConflict},
		{"timeout", context.DeadlineExceeded, http.StatusGatewayTimeout, "timeout"},
		{"cancelled", context.Canceled, http.StatusServiceUnavailable, "cancelled"},
		{"other", errors.New("disk on fire"), http.StatusInternalServerError, "internal"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := m.Map(tc.err)
			if got.Status != tc.status || got.Code != tc.code {
				t.Fatalf("Map(%v) = %+v, want %d/%s", tc.err, got, tc.status, tc.code)
			}
		})
	}
}

func TestMapperMessages(t *testing.T) {
	m := DomainErrorMapper()
	err := domain.NotFoundError{Entity: domain.EntityMenu, ID: 9}
	if got := m.Map(err).Message; got != err.Error() {
		t.Fatalf("expected error text to be exposed, got %q", got)
	}
	if got := m.Map(errors.New("secret dsn")).Message; got != "internal server error" {
		t.Fatalf("internal errors must not leak, got %q", got)
	}
	custom := NewErrorMapper().WithDefault(http.StatusTeapot, "nope").WithMapping(domain.ErrNotFound, http.StatusGone, "gone", "gone away")
	if info := custom.Map(err); info.Status != http.StatusGone || info.Message != "gone away" {
		t.Fatalf("unexpected custom mapping %+v", info)
	}
	if info := custom.Map(errors.New("x")); info.Status != http.StatusTeapot || info.Message != "nope" {
		t.Fatalf("unexpected default %+v", info)
	}
}
