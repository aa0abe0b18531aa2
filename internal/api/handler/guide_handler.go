package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/medifirst/medifirst-api/internal/api/metrics"
	"github.com/medifirst/medifirst-api/internal/core/ports"
)

// GuideHandler serves first-aid guides. Reads are public; writes are mounted
// behind Auth + RBAC(admin).
type GuideHandler struct {
	service ports.GuideService
}

func NewGuideHandler(service ports.GuideService) *GuideHandler {
	return &GuideHandler{service: service}
}

// List handles GET /api/first-aid.
//
// @Summary      List guides
// @Tags         first-aid
// @Produce      json
// @Param        category  query     string  false  "Category"
// @Param        search    query     string  false  "Full-text search"
// @Param        offline   query     bool    false  "Only offline-available guides"
// @Success      200       {object}  guideListResponse
// @Router       /first-aid [get]
func (h *GuideHandler) List(c echo.Context) error {
	offline, _ := strconv.ParseBool(c.QueryParam("offline"))

	guides, err := h.service.List(c.Request().Context(), ports.ListGuidesFilter{
		Category:    c.QueryParam("category"),
		Search:      c.QueryParam("search"),
		OfflineOnly: offline,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, guideListResponse{Count: len(guides), Guides: guides})
}

// ListByCategory handles GET /api/first-aid/category/:category.
//
// @Summary      List guides in a category
// @Tags         first-aid
// @Produce      json
// @Param        category  path      string  true  "Category"
// @Success      200       {object}  guideListResponse
// @Router       /first-aid/category/{category} [get]
func (h *GuideHandler) ListByCategory(c echo.Context) error {
	guides, err := h.service.ListByCategory(c.Request().Context(), c.Param("category"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, guideListResponse{Count: len(guides), Guides: guides})
}

// Get handles GET /api/first-aid/:id.
//
// @Summary      Get a guide
// @Tags         first-aid
// @Produce      json
// @Param        id   path      string  true  "Guide id"
// @Success      200  {object}  guideResponse
// @Failure      404  {object}  errorResponse
// @Router       /first-aid/{id} [get]
func (h *GuideHandler) Get(c echo.Context) error {
	guide, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	metrics.GuideViewsTotal.Inc()
	return c.JSON(http.StatusOK, guideResponse{Guide: guide})
}

// Create handles POST /api/first-aid.
//
// @Summary      Create a guide
// @Tags         first-aid
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      guideRequest  true  "Guide"
// @Success      201   {object}  guideResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /first-aid [post]
func (h *GuideHandler) Create(c echo.Context) error {
	var req guideRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	guide, err := h.service.Create(c.Request().Context(), toGuideInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, guideResponse{Message: "Guide created", Guide: guide})
}

// Update handles PUT /api/first-aid/:id.
//
// @Summary      Replace a guide
// @Tags         first-aid
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string        true  "Guide id"
// @Param        body  body      guideRequest  true  "Guide"
// @Success      200   {object}  guideResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /first-aid/{id} [put]
func (h *GuideHandler) Update(c echo.Context) error {
	var req guideRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	guide, err := h.service.Update(c.Request().Context(), c.Param("id"), toGuideInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, guideResponse{Message: "Guide updated", Guide: guide})
}

// Delete handles DELETE /api/first-aid/:id.
//
// @Summary      Delete a guide
// @Tags         first-aid
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Guide id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Router       /first-aid/{id} [delete]
func (h *GuideHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Guide deleted"})
}

func toGuideInput(req guideRequest) ports.GuideInput {
	steps := make([]ports.GuideStepInput, 0, len(req.Steps))
	for _, s := range req.Steps {
		steps = append(steps, ports.GuideStepInput{
			StepNumber:  s.StepNumber,
			Title:       s.Title,
			Description: s.Description,
			ImageURL:    s.ImageURL,
			Warning:     s.Warning,
		})
	}
	return ports.GuideInput{
		Title:               req.Title,
		Category:            req.Category,
		Description:         req.Description,
		Severity:            req.Severity,
		Steps:               steps,
		Warnings:            req.Warnings,
		WhenToCallEmergency: req.WhenToCallEmergency,
		ImageURL:            req.ImageURL,
		VideoURL:            req.VideoURL,
		IsOfflineAvailable:  req.IsOfflineAvailable,
		Tags:                req.Tags,
	}
}
