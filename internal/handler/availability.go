package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/notaio/notaio-backend/internal/model"
	"github.com/notaio/notaio-backend/internal/repository"
)

// AvailabilityHandler manages a psychologist's declared availability
// blocks.
type AvailabilityHandler struct {
	Blocks AvailabilityStore
}

func NewAvailabilityHandler(b AvailabilityStore) *AvailabilityHandler {
	return &AvailabilityHandler{Blocks: b}
}

type blockCreateReq struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

type blockResp struct {
	ID             uint64    `json:"id"`
	PsychologistID uint64    `json:"psychologist_id"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
}

func toBlockResp(b model.AvailabilityBlock) blockResp {
	return blockResp{ID: b.ID, PsychologistID: b.PsychologistID, StartTime: b.StartTime, EndTime: b.EndTime}
}

// parseDateRange reads the required start_date/end_date query params
// accepted in RFC 3339 form.
func parseDateRange(c echo.Context) (time.Time, time.Time, error) {
	from, err := time.Parse(time.RFC3339, c.QueryParam("start_date"))
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("start_date must be RFC3339")
	}
	to, err := time.Parse(time.RFC3339, c.QueryParam("end_date"))
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("end_date must be RFC3339")
	}
	return from, to, nil
}

// CreateBlock handles POST /v1/availability/blocks. Only psychologists
// reach this handler (role middleware); the interval must be non-empty.
func (h *AvailabilityHandler) CreateBlock(c echo.Context) error {
	psyID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req blockCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.StartTime.IsZero() || req.EndTime.IsZero() || !req.EndTime.After(req.StartTime) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_time must be after start_time"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	b := model.AvailabilityBlock{
		PsychologistID: psyID,
		StartTime:      req.StartTime.UTC(),
		EndTime:        req.EndTime.UTC(),
	}
	if err := h.Blocks.Create(ctx, &b); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.JSON(http.StatusCreated, toBlockResp(b))
}

// ListMine handles GET /v1/availability/my-blocks?start_date=&end_date=.
func (h *AvailabilityHandler) ListMine(c echo.Context) error {
	psyID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	from, to, err := parseDateRange(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	blocks, err := h.Blocks.ListByPsychologistInRange(ctx, psyID, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]blockResp, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, toBlockResp(b))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// DeleteBlock handles DELETE /v1/availability/blocks/:id.
func (h *AvailabilityHandler) DeleteBlock(c echo.Context) error {
	psyID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Blocks.DeleteByIDAndOwner(ctx, id, psyID); err != nil {
		switch {
		case errors.Is(err, repository.ErrBlockNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "block not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}
