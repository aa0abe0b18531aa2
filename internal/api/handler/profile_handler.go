package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medifirst/medifirst-api/internal/core/domain"
	"github.com/medifirst/medifirst-api/internal/core/ports"
)

// ProfileHandler serves the signed-in user's profile, medical profile and
// emergency contacts. Every route requires the Auth middleware.
type ProfileHandler struct {
	service ports.ProfileService
}

func NewProfileHandler(service ports.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// GetProfile handles GET /api/user/profile.
//
// @Summary      Get profile
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorResponse
// @Router       /user/profile [get]
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	user, err := h.service.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{User: user})
}

// UpdateProfile handles PUT /api/user/profile.
//
// @Summary      Update profile
// @Tags         user
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Profile fields"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Router       /user/profile [put]
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req updateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.service.UpdateProfile(c.Request().Context(), userID, domain.ProfileUpdate{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{User: user})
}

// UpdateMedicalProfile handles PUT /api/user/medical-profile.
//
// @Summary      Replace medical profile
// @Tags         user
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      medicalProfileRequest  true  "Medical profile"
// @Success      200   {object}  medicalProfileResponse
// @Failure      400   {object}  errorResponse
// @Router       /user/medical-profile [put]
func (h *ProfileHandler) UpdateMedicalProfile(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req medicalProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	profile, err := h.service.UpdateMedicalProfile(c.Request().Context(), userID, domain.MedicalProfile{
		BloodType:         req.BloodType,
		Allergies:         req.Allergies,
		MedicalConditions: req.MedicalConditions,
		Medications:       req.Medications,
		Weight:            req.Weight,
		Height:            req.Height,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, medicalProfileResponse{
		Message:        "Medical profile updated",
		MedicalProfile: profile,
	})
}

// ListContacts handles GET /api/user/emergency-contacts.
//
// @Summary      List emergency contacts
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  contactsResponse
// @Router       /user/emergency-contacts [get]
func (h *ProfileHandler) ListContacts(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	contacts, err := h.service.ListContacts(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, contactsResponse{EmergencyContacts: contacts})
}

// AddContact handles POST /api/user/emergency-contacts.
//
// @Summary      Add emergency contact
// @Tags         user
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      contactRequest  true  "Contact"
// @Success      201   {object}  contactsResponse
// @Failure      400   {object}  errorResponse
// @Router       /user/emergency-contacts [post]
func (h *ProfileHandler) AddContact(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req contactRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	contacts, err := h.service.AddContact(c.Request().Context(), userID, ports.ContactInput{
		Name:         req.Name,
		Relationship: req.Relationship,
		PhoneNumber:  req.PhoneNumber,
		Email:        req.Email,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, contactsResponse{
		Message:           "Emergency contact added",
		EmergencyContacts: contacts,
	})
}

// RemoveContact handles DELETE /api/user/emergency-contacts/:contactId.
//
// @Summary      Remove emergency contact
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Param        contactId  path      string  true  "Contact id"
// @Success      200        {object}  contactsResponse
// @Failure      404        {object}  errorResponse
// @Router       /user/emergency-contacts/{contactId} [delete]
func (h *ProfileHandler) RemoveContact(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	contacts, err := h.service.RemoveContact(c.Request().Context(), userID, c.Param("contactId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, contactsResponse{
		Message:           "Emergency contact removed",
		EmergencyContacts: contacts,
	})
}
