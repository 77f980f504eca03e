// Package httputil holds transport helpers shared by HTTP adapters.
package httputil

import (
	"net/http"

	"restaurantcore/internal/query"
	"restaurantcore/pkg/domain"
)

// Error codes returned in response bodies.
const (
	CodeNotFound           = "not_found"
	CodeRejected           = "rejected"
	CodeInvalidPage        = "invalid_page"
	CodeDependencyConflict = "dependency_conflict"
)

// DomainErrorMapper maps the service error taxonomy. Rejections and blocked
// deletes share 400 and differ by code.
func DomainErrorMapper() *ErrorMapper {
	return NewErrorMapper().
		WithMapping(domain.ErrNotFound, http.StatusNotFound, CodeNotFound, "").
		WithMapping(domain.ErrRejected, http.StatusBadRequest, CodeRejected, "").
		WithMapping(query.ErrInvalidPage, http.StatusBadRequest, CodeInvalidPage, "").
		WithMapping(domain.ErrDependencyConflict, http.StatusBadRequest, CodeDependencyConflict, "")
}
