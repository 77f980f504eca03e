package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"restaurantcore/internal/core"
	"restaurantcore/internal/query"
	"restaurantcore/pkg/domain"
)

// register mounts the CRUD routes of one resource under /{plural}.
func register[T domain.Record](g *echo.Group, s *server, r *core.Resource[T]) {
	h := resourceHandler[T]{server: s, resource: r}
	plural := "/" + r.Descriptor().Plural
	g.GET(plural, h.list)
	g.POST(plural, h.create)
	g.GET(plural+"/:id", h.get)
	g.GET(plural+"/:id/basic", h.getBasic)
	g.PUT(plural+"/:id", h.update)
	g.DELETE(plural+"/:id", h.delete)
}

type resourceHandler[T domain.Record] struct {
	*server
	resource *core.Resource[T]
}

func (h resourceHandler[T]) list(c echo.Context) error {
	params, err := h.paging.parse(c)
	if err != nil {
		return err
	}
	result, err := h.resource.List(c.Request().Context(), params)
	if err != nil {
		return err
	}
	c.Response().Header().Set(HeaderTotalCount, strconv.Itoa(result.Total))
	items := result.Items
	if items == nil {
		items = []T{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h resourceHandler[T]) get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	rec, err := h.resource.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rec)
}

func (h resourceHandler[T]) getBasic(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	rec, err := h.resource.GetBasic(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rec)
}

func (h resourceHandler[T]) create(c echo.Context) error {
	payload, err := decodeBody[T](c)
	if err != nil {
		return err
	}
	created, err := h.resource.Create(c.Request().Context(), payload)
	if err != nil {
		return err
	}
	location := fmt.Sprintf("%s/%s/%d", BasePath, h.resource.Descriptor().Plural, created.Identity())
	c.Response().Header().Set(echo.HeaderLocation, location)
	return c.JSON(http.StatusCreated, created)
}

func (h resourceHandler[T]) update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	payload, err := decodeBody[T](c)
	if err != nil {
		return err
	}
	updated, err := h.resource.Update(c.Request().Context(), id, payload)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

func (h resourceHandler[T]) delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.resource.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func pathID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0, fmt.Errorf("id %q is not an integer: %w", c.Param("id"), errBadRequest)
	}
	return id, nil
}

func decodeBody[T any](c echo.Context) (T, error) {
	var payload T
	dec := json.NewDecoder(c.Request().Body)
	if err := dec.Decode(&payload); err != nil {
		return payload, fmt.Errorf("decode body: %s: %w", err, errBadRequest)
	}
	// the body must hold exactly one JSON value
	if err := dec.Decode(&json.RawMessage{}); !errors.Is(err, io.EOF) {
		return payload, fmt.Errorf("decode body: trailing data after JSON value: %w", errBadRequest)
	}
	return payload, nil
}

type pagingOptions struct {
	defaultSize int
	maxSize     int
}

// parse reads filter, page, pageSize (or page_size), sort and desc. Paging is
// applied only when page or pageSize is present.
func (o pagingOptions) parse(c echo.Context) (query.Params, error) {
	params := query.Params{
		Filter: c.QueryParam("filter"),
		Sort:   c.QueryParam("sort"),
	}
	if raw := c.QueryParam("desc"); raw != "" {
		desc, err := strconv.ParseBool(raw)
		if err != nil {
			return params, fmt.Errorf("desc %q is not a boolean: %w", raw, errBadRequest)
		}
		params.Descending = desc
	}

	rawPage := strings.TrimSpace(c.QueryParam("page"))
	rawSize := strings.TrimSpace(c.QueryParam("pageSize"))
	if rawSize == "" {
		rawSize = strings.TrimSpace(c.QueryParam("page_size"))
	}
	if rawPage == "" && rawSize == "" {
		return params, nil
	}
	page := query.Page{Index: 1, Size: o.defaultSize}
	var err error
	if rawPage != "" {
		if page.Index, err = strconv.Atoi(rawPage); err != nil {
			return params, fmt.Errorf("page %q: %w", rawPage, query.ErrInvalidPage)
		}
	}
	if rawSize != "" {
		if page.Size, err = strconv.Atoi(rawSize); err != nil {
			return params, fmt.Errorf("page size %q: %w", rawSize, query.ErrInvalidPage)
		}
	}
	if o.maxSize > 0 && page.Size > o.maxSize {
		return params, fmt.Errorf("page size %d above %d: %w", page.Size, o.maxSize, query.ErrInvalidPage)
	}
	params.Page = &page
	return params, nil
}
