package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/exam-manager/exam-system/internal/api/metrics"
	"github.com/exam-manager/exam-system/internal/core/domain"
	"github.com/exam-manager/exam-system/internal/core/ports"
	"github.com/exam-manager/exam-system/pkg/upload"
)

const maxUploadBytes = 2048 * 1024

var allowedDocumentTypes = []string{"image/jpeg", "image/png", "application/pdf"}

type ActorHandler struct {
	actorService ports.ActorService
}

func NewActorHandler(actorService ports.ActorService) *ActorHandler {
	return &ActorHandler{actorService: actorService}
}

// Create registers the actor profile of a user.
//
// @Summary      Create actor
// @Tags         actors
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        npi         formData  string  true   "National personal identifier, 11 digits"
// @Param        n_rib       formData  string  true   "Bank account identifier, 32 characters"
// @Param        birthdate   formData  string  true   "Birthdate, YYYY-MM-DD"
// @Param        birthplace  formData  string  true   "Birthplace"
// @Param        diploma     formData  string  true   "Diploma"
// @Param        bank        formData  string  true   "Bank"
// @Param        phone       formData  string  false  "Phone, 10 digits"
// @Param        user_id     formData  string  false  "Owner user id, defaults to the caller"
// @Param        id_card     formData  file    true   "Identity document"
// @Param        rib         formData  file    true   "Bank statement document"
// @Success      201  {object}  envelope{data=domain.Actor}
// @Failure      403  {object}  envelope
// @Failure      422  {object}  envelope
// @Router       /actors [post]
func (h *ActorHandler) Create(c echo.Context) error {
	acting, err := principal(c)
	if err != nil {
		return err
	}

	var req actorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	idCard, err := h.readDocument(c, "id_card", true)
	if err != nil {
		return err
	}
	rib, err := h.readDocument(c, "rib", true)
	if err != nil {
		return err
	}

	actor, err := h.actorService.Create(c.Request().Context(), acting, ports.CreateActorInput{
		UserID:     req.UserID,
		NPI:        req.NPI,
		NRIB:       req.NRIB,
		Birthdate:  req.birthdate(),
		Birthplace: req.Birthplace,
		Diploma:    domain.Diploma(req.Diploma),
		Bank:       domain.Bank(req.Bank),
		Phone:      req.Phone,
		IDCard:     *idCard,
		RIB:        *rib,
	})
	if err != nil {
		return err
	}

	metrics.ActorsCreatedTotal.Inc()
	return respond(c, http.StatusCreated, "actor created successfully", actor)
}

// Get returns one actor profile.
//
// @Summary      Get actor
// @Tags         actors
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Actor id"
// @Success      200  {object}  envelope{data=domain.Actor}
// @Failure      403  {object}  envelope
// @Failure      404  {object}  envelope
// @Router       /actors/{id} [get]
func (h *ActorHandler) Get(c echo.Context) error {
	acting, err := principal(c)
	if err != nil {
		return err
	}

	actor, err := h.actorService.Get(c.Request().Context(), acting, c.Param("id"))
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "actor retrieved successfully", actor)
}

// Update replaces the fields of an actor profile. Documents are optional
// and replace the stored ones when present.
//
// @Summary      Update actor
// @Tags         actors
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Actor id"
// @Success      200  {object}  envelope{data=domain.Actor}
// @Failure      403  {object}  envelope
// @Failure      404  {object}  envelope
// @Failure      422  {object}  envelope
// @Router       /actors/{id} [put]
func (h *ActorHandler) Update(c echo.Context) error {
	acting, err := principal(c)
	if err != nil {
		return err
	}

	var req actorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	idCard, err := h.readDocument(c, "id_card", false)
	if err != nil {
		return err
	}
	rib, err := h.readDocument(c, "rib", false)
	if err != nil {
		return err
	}

	actor, err := h.actorService.Update(c.Request().Context(), acting, c.Param("id"), ports.UpdateActorInput{
		NPI:        req.NPI,
		NRIB:       req.NRIB,
		Birthdate:  req.birthdate(),
		Birthplace: req.Birthplace,
		Diploma:    domain.Diploma(req.Diploma),
		Bank:       domain.Bank(req.Bank),
		Phone:      req.Phone,
		IDCard:     idCard,
		RIB:        rib,
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "actor updated successfully", actor)
}

// Delete removes an actor profile and its stored documents.
//
// @Summary      Delete actor
// @Tags         actors
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Actor id"
// @Success      200  {object}  envelope
// @Failure      403  {object}  envelope
// @Failure      404  {object}  envelope
// @Router       /actors/{id} [delete]
func (h *ActorHandler) Delete(c echo.Context) error {
	acting, err := principal(c)
	if err != nil {
		return err
	}

	if err := h.actorService.Delete(c.Request().Context(), acting, c.Param("id")); err != nil {
		return err
	}

	return respond(c, http.StatusOK, "actor deleted successfully", nil)
}

// List returns every actor profile. Admin only.
//
// @Summary      List actors
// @Tags         actors
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope{data=[]domain.Actor}
// @Failure      403  {object}  envelope
// @Router       /actors [get]
func (h *ActorHandler) List(c echo.Context) error {
	acting, err := principal(c)
	if err != nil {
		return err
	}

	actors, err := h.actorService.List(c.Request().Context(), acting)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "actors retrieved successfully", actors)
}

// readDocument pulls one uploaded file out of the multipart form and
// sniffs its content type. Returns nil when the field is absent and not
// required.
func (h *ActorHandler) readDocument(c echo.Context, field string, required bool) (*ports.Document, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if !required {
			return nil, nil
		}
		return nil, echo.NewHTTPError(http.StatusUnprocessableEntity, field+" file is required")
	}

	file, err := upload.Read(fh, maxUploadBytes, allowedDocumentTypes...)
	if err != nil {
		switch {
		case errors.Is(err, upload.ErrTooLarge):
			metrics.UploadsRejectedTotal.WithLabelValues("too_large").Inc()
			return nil, echo.NewHTTPError(http.StatusUnprocessableEntity, field+" must not exceed 2048 kilobytes")
		case errors.Is(err, upload.ErrUnsupportedType):
			metrics.UploadsRejectedTotal.WithLabelValues("unsupported_type").Inc()
			return nil, echo.NewHTTPError(http.StatusUnprocessableEntity, field+" must be a jpeg, png or pdf file")
		}
		return nil, err
	}

	return &ports.Document{Ext: file.Ext, Content: file.Content}, nil
}
