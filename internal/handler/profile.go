package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/notaio/notaio-backend/internal/model"
	"github.com/notaio/notaio-backend/internal/repository"
)

// ProfileHandler serves the authenticated user's own details and profile.
type ProfileHandler struct {
	Users    UserStore
	Profiles ProfileStore
}

func NewProfileHandler(u UserStore, p ProfileStore) *ProfileHandler {
	return &ProfileHandler{Users: u, Profiles: p}
}

type profileReq struct {
	FullName      *string `json:"full_name"`
	PhotoURL      *string `json:"photo_url"`
	Description   *string `json:"description"`
	LicenseNumber *string `json:"license_number"`
}

type profileResp struct {
	ID            uint64  `json:"id"`
	UserID        uint64  `json:"user_id"`
	FullName      string  `json:"full_name"`
	PhotoURL      *string `json:"photo_url,omitempty"`
	Description   *string `json:"description,omitempty"`
	LicenseNumber *string `json:"license_number,omitempty"`
}

func toProfileResp(p model.Profile) profileResp {
	return profileResp{
		ID:            p.ID,
		UserID:        p.UserID,
		FullName:      p.FullName,
		PhotoURL:      p.PhotoURL,
		Description:   p.Description,
		LicenseNumber: p.LicenseNumber,
	}
}

// GetMe handles GET /v1/users/me: the user record plus its profile when
// one exists.
func (h *ProfileHandler) GetMe(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}

	resp := echo.Map{"id": u.ID, "email": u.Email, "role": u.Role}
	if p, err := h.Profiles.GetByUserID(ctx, uid); err == nil {
		resp["profile"] = toProfileResp(p)
	} else if !errors.Is(err, repository.ErrProfileNotFound) {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load profile failed"})
	}
	return c.JSON(http.StatusOK, resp)
}

// UpsertProfile handles PUT /v1/users/me/profile. An existing profile is
// patched with the provided fields; creating one requires full_name.
func (h *ProfileHandler) UpsertProfile(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req profileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	existing, err := h.Profiles.GetByUserID(ctx, uid)
	switch {
	case err == nil:
		if req.FullName != nil {
			if name := strings.TrimSpace(*req.FullName); name != "" {
				existing.FullName = name
			}
		}
		if req.PhotoURL != nil {
			existing.PhotoURL = req.PhotoURL
		}
		if req.Description != nil {
			existing.Description = req.Description
		}
		if req.LicenseNumber != nil {
			existing.LicenseNumber = req.LicenseNumber
		}
		if err := h.Profiles.Update(ctx, uid, &existing); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
		return c.JSON(http.StatusOK, toProfileResp(existing))

	case errors.Is(err, repository.ErrProfileNotFound):
		if req.FullName == nil || strings.TrimSpace(*req.FullName) == "" {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "full_name is required to create a profile"})
		}
		p := model.Profile{
			UserID:        uid,
			FullName:      strings.TrimSpace(*req.FullName),
			PhotoURL:      req.PhotoURL,
			Description:   req.Description,
			LicenseNumber: req.LicenseNumber,
		}
		if err := h.Profiles.Create(ctx, &p); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
		}
		return c.JSON(http.StatusOK, toProfileResp(p))

	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load profile failed"})
	}
}
