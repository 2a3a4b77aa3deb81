package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/takatori/threadsearch/internal/query"
	"github.com/takatori/threadsearch/internal/search"
)

// NewExpandQueryHandler returns the {"query": ...} envelope for a query tree
// posted in its JSON form.
func NewExpandQueryHandler() func(echo.Context) error {
	return func(c echo.Context) error {
		q, err := parseQuery(c)
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(http.StatusOK, q.Expand().Envelope())
	}
}

// NewSearchHandler runs a posted query tree against a collection.
func NewSearchHandler(engine search.Engine) func(echo.Context) error {
	return func(c echo.Context) error {
		opts, err := parseOptions(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		q, err := parseQuery(c)
		if err != nil {
			return errorResponse(c, err)
		}

		result, err := engine.Search(c.Request().Context(), c.Param("collection"), q, opts)
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(http.StatusOK, result)
	}
}

func parseQuery(c echo.Context) (*query.Node, error) {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return nil, err
	}
	return query.ParseJSON(body)
}

func parseOptions(c echo.Context) (search.Options, error) {
	var opts search.Options
	var err error
	if v := c.QueryParam("limit"); v != "" {
		if opts.Limit, err = strconv.Atoi(v); err != nil {
			return opts, err
		}
	}
	if v := c.QueryParam("offset"); v != "" {
		if opts.Offset, err = strconv.Atoi(v); err != nil {
			return opts, err
		}
	}
	return opts, nil
}
