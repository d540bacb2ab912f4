package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/guilherme-santos/calmeetings/internal"
	"github.com/guilherme-santos/calmeetings/internal/aggregator"
)

func (h *handler) meetings(c echo.Context) error {
	var req MeetingsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, &ValidationError{
			Errors: map[string]string{"body": bindMessage(err)},
		})
	}
	if err := c.Validate(&req); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			return c.JSON(http.StatusBadRequest, verr)
		}
		return err
	}

	ctx := c.Request().Context()
	res, err := h.agg.Meetings(ctx, aggregator.Request{
		ID:      c.Response().Header().Get(echo.HeaderXRequestID),
		Queries: req.Queries(),
		Range:   req.Range(),
	})
	if internal.IsUnsupportedProvider(err) {
		return c.JSON(http.StatusBadRequest, &ValidationError{
			Errors: map[string]string{"providers": err.Error()},
		})
	}
	if err != nil {
		if ctx.Err() != nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "request cancelled").SetInternal(err)
		}
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func bindMessage(err error) string {
	var herr *echo.HTTPError
	if errors.As(err, &herr) {
		if herr.Internal != nil {
			return herr.Internal.Error()
		}
		if msg, ok := herr.Message.(string); ok {
			return msg
		}
	}
	return err.Error()
}
