package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// PublicHandler exposes unauthenticated browse endpoints: the
// psychologist marketplace listing and a psychologist's published
// availability. Responses are sanitized; no emails, owner internals or
// timestamps leak out.
type PublicHandler struct {
	Profiles ProfileStore
	Blocks   AvailabilityStore
}

func NewPublicHandler(p ProfileStore, b AvailabilityStore) *PublicHandler {
	return &PublicHandler{Profiles: p, Blocks: b}
}

type publicPsychologistResp struct {
	UserID        uint64  `json:"user_id"`
	FullName      string  `json:"full_name"`
	PhotoURL      *string `json:"photo_url,omitempty"`
	Description   *string `json:"description,omitempty"`
	LicenseNumber *string `json:"license_number,omitempty"`
}

// ListPsychologists handles GET /v1/psychologists: the public profiles
// of every registered psychologist.
func (h *PublicHandler) ListPsychologists(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	profiles, err := h.Profiles.ListPsychologistProfiles(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]publicPsychologistResp, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, publicPsychologistResp{
			UserID:        p.UserID,
			FullName:      p.FullName,
			PhotoURL:      p.PhotoURL,
			Description:   p.Description,
			LicenseNumber: p.LicenseNumber,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// PsychologistAvailability handles
// GET /v1/availability/psychologist/:id?start_date=&end_date=.
// Raw declared windows; overlap with booked appointments is not
// resolved here.
func (h *PublicHandler) PsychologistAvailability(c echo.Context) error {
	psyID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
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
