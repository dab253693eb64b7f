package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/placeshare/places/api/http/presenter"
	"github.com/placeshare/places/pkg/artifact"
	"github.com/placeshare/places/pkg/geo"
	"github.com/placeshare/places/pkg/place"
)

type PlaceHandler struct {
	uc        place.UseCase
	artifacts artifact.Store
}

func NewPlaceHandler(uc place.UseCase, artifacts artifact.Store) *PlaceHandler {
	return &PlaceHandler{uc: uc, artifacts: artifacts}
}

type placeResponse struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Address     string          `json:"address"`
	Location    geo.Coordinates `json:"location"`
	Image       string          `json:"image"`
	Creator     string          `json:"creator"`
}

func toPlaceResponse(p place.Place) placeResponse {
	return placeResponse{
		ID:          p.ID.String(),
		Title:       p.Title,
		Description: p.Description,
		Address:     p.Address,
		Location:    p.Location,
		Image:       p.ImageRef,
		Creator:     p.CreatorID.String(),
	}
}

func validPlaceInput(title, description, address string) bool {
	return strings.TrimSpace(title) != "" && len(description) >= 5 && strings.TrimSpace(address) != ""
}

// Create adds a place owned by the authenticated caller.
// @Summary Create place
// @Tags    places
// @Accept  mpfd
// @Produce json
// @Param   title formData string true "title"
// @Param   description formData string true "description, at least 5 characters"
// @Param   address formData string true "postal address"
// @Param   image formData file true "place image"
// @Security BearerAuth
// @Success 201 {object} map[string]any
// @Failure 422 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /places [post]
func (h *PlaceHandler) Create(c *fiber.Ctx) error {
	uid, ok := callerID(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "Authentication failed")
	}
	in := place.CreateInput{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Address:     c.FormValue("address"),
	}
	if !validPlaceInput(in.Title, in.Description, in.Address) {
		return presenter.Error(c, http.StatusUnprocessableEntity, "Invalid inputs passed, please check your data")
	}

	imageRef, err := saveUpload(c, h.artifacts)
	if err != nil {
		return presenter.Error(c, http.StatusUnprocessableEntity, "Invalid inputs passed, please check your data")
	}

	p, err := h.uc.Create(c.Context(), uid, in, imageRef)
	if err != nil {
		switch {
		case errors.Is(err, geo.ErrNotFound):
			return presenter.Error(c, http.StatusUnprocessableEntity, "Could not find location for the specified address")
		case errors.Is(err, place.ErrOwnerNotFound):
			return presenter.Error(c, http.StatusNotFound, "Could not find user for provided id")
		case errors.Is(err, place.ErrTransaction):
			return presenter.Error(c, http.StatusInternalServerError, "Transaction failed, please try again")
		default:
			return presenter.Error(c, http.StatusInternalServerError, "Creating place failed, please try again")
		}
	}
	return presenter.JSON(c, http.StatusCreated, fiber.Map{"place": toPlaceResponse(p)})
}

// GetByID returns a single place.
// @Summary Get place by id
// @Tags    places
// @Produce json
// @Param   pid path string true "place id (UUID)"
// @Success 200 {object} map[string]any
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /places/{pid} [get]
func (h *PlaceHandler) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("pid"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid place id")
	}
	p, err := h.uc.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, place.ErrNotFound) {
			return presenter.Error(c, http.StatusNotFound, "Could not find a place for the provided id")
		}
		return presenter.Error(c, http.StatusInternalServerError, "Something went wrong, could not find a place")
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"place": toPlaceResponse(p)})
}

// ListByUser returns every place a user created; empty list when none.
// @Summary List places by creator
// @Tags    places
// @Produce json
// @Param   uid path string true "user id (UUID)"
// @Success 200 {object} map[string]any
// @Router  /places/user/{uid} [get]
func (h *PlaceHandler) ListByUser(c *fiber.Ctx) error {
	uid, err := uuid.Parse(c.Params("uid"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid user id")
	}
	places, err := h.uc.ListByCreator(c.Context(), uid)
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "Failed to fetch places for this user")
	}
	out := make([]placeResponse, 0, len(places))
	for _, p := range places {
		out = append(out, toPlaceResponse(p))
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"places": out})
}

type updatePlaceRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Update changes a place's title and description; owner only.
// @Summary Update place
// @Tags    places
// @Accept  json
// @Produce json
// @Param   pid path string true "place id (UUID)"
// @Param   input body updatePlaceRequest true "new title and description"
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 401 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /places/{pid} [patch]
func (h *PlaceHandler) Update(c *fiber.Ctx) error {
	uid, ok := callerID(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "Authentication failed")
	}
	id, err := uuid.Parse(c.Params("pid"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid place id")
	}
	var req updatePlaceRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	if strings.TrimSpace(req.Title) == "" || len(req.Description) < 5 {
		return presenter.Error(c, http.StatusUnprocessableEntity, "Invalid inputs passed, please check your data")
	}

	p, err := h.uc.Update(c.Context(), uid, id, req.Title, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, place.ErrNotFound):
			return presenter.Error(c, http.StatusNotFound, "Could not find a place for the provided id")
		case errors.Is(err, place.ErrEditForbidden):
			return presenter.Error(c, http.StatusUnauthorized, "Users can only edit places they added")
		default:
			return presenter.Error(c, http.StatusInternalServerError, "Updating place failed, please try again")
		}
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"place": toPlaceResponse(p)})
}

// Delete removes a place and its image; owner only.
// @Summary Delete place
// @Tags    places
// @Produce json
// @Param   pid path string true "place id (UUID)"
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 401 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /places/{pid} [delete]
func (h *PlaceHandler) Delete(c *fiber.Ctx) error {
	uid, ok := callerID(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "Authentication failed")
	}
	id, err := uuid.Parse(c.Params("pid"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid place id")
	}

	if err := h.uc.Delete(c.Context(), uid, id); err != nil {
		switch {
		case errors.Is(err, place.ErrNotFound), errors.Is(err, place.ErrOwnerNotFound):
			return presenter.Error(c, http.StatusNotFound, "Failed to find place to delete")
		case errors.Is(err, place.ErrDeleteForbidden):
			return presenter.Error(c, http.StatusUnauthorized, "Users can only delete places they added")
		case errors.Is(err, place.ErrTransaction):
			return presenter.Error(c, http.StatusInternalServerError, "Failed to delete place")
		default:
			return presenter.Error(c, http.StatusInternalServerError, "Something went wrong, failed deleting place")
		}
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"message": "Deleted place"})
}
