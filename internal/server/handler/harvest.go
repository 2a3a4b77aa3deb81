package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/takatori/threadsearch/internal/harvest"
)

type ThreadRunner interface {
	Run(ctx context.Context, threadID int64) (harvest.Report, error)
}

type ThreadTracker interface {
	TrackThread(ctx context.Context, threadID int64) error
}

// NewHarvestHandler harvests a thread now and registers it for periodic
// updates.
func NewHarvestHandler(runner ThreadRunner, tracker ThreadTracker) func(echo.Context) error {
	return func(c echo.Context) error {
		threadID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil || threadID <= 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid thread id"})
		}

		ctx := c.Request().Context()
		report, err := runner.Run(ctx, threadID)
		if err != nil {
			return errorResponse(c, err)
		}
		if err := tracker.TrackThread(ctx, threadID); err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(http.StatusOK, report)
	}
}
