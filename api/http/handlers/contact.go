package handlers

import (
	"bytes"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/contacts/api/http/presenter"
	"github.com/artem13815/contacts/pkg/contact"
)

type ContactHandler struct {
	uc contact.UseCase
}

func NewContactHandler(uc contact.UseCase) *ContactHandler { return &ContactHandler{uc: uc} }

type createContactRequest struct {
	Name  string `json:"name" validate:"required" example:"Bob"`
	Email string `json:"email" validate:"required" example:"bob@example.com"`
	Phone string `json:"phone" validate:"required" example:"123456"`
}

// Empty fields are left unchanged.
type updateContactRequest struct {
	Name  string `json:"name" example:"Bob"`
	Email string `json:"email" example:"bob@example.com"`
	Phone string `json:"phone" example:"654321"`
}

func (r updateContactRequest) patch() contact.Patch {
	var p contact.Patch
	if r.Name != "" {
		p.Name = &r.Name
	}
	if r.Email != "" {
		p.Email = &r.Email
	}
	if r.Phone != "" {
		p.Phone = &r.Phone
	}
	return p
}

type updatedContactResponse struct {
	UpdatedContact contact.Contact `json:"updatedContact"`
}

type deletedContactResponse struct {
	Message string          `json:"message"`
	Contact contact.Contact `json:"contact"`
}

// @Summary  List contacts
// @Description Returns every contact owned by the current user.
// @Tags     2.) Authorization and CRUD
// @Produce  json
// @Security BearerAuth
// @Success  200 {array} contact.Contact
// @Failure  401 {object} presenter.ErrorResponse
// @Router   /contact [get]
func (h *ContactHandler) List(c *fiber.Ctx) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	cs, err := h.uc.List(c.UserContext(), id)
	if err != nil {
		return err
	}
	return presenter.JSON(c, http.StatusOK, cs)
}

// @Summary  Create contact
// @Description Adds a contact owned by the current user.
// @Tags     2.) Authorization and CRUD
// @Accept   json
// @Produce  json
// @Param    input body createContactRequest true "contact"
// @Security BearerAuth
// @Success  201 {object} contact.Contact
// @Failure  400 {object} presenter.ErrorResponse
// @Failure  401 {object} presenter.ErrorResponse
// @Router   /contact [post]
func (h *ContactHandler) Create(c *fiber.Ctx) error {
	const op = "handlers.CreateContact"
	id, err := caller(c)
	if err != nil {
		return err
	}
	var req createContactRequest
	if err := bind(c, op, "All fields are mandatory", &req); err != nil {
		return err
	}
	ct, err := h.uc.Create(c.UserContext(), id, contact.CreateInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		return err
	}
	return presenter.JSON(c, http.StatusCreated, ct)
}

// @Summary  Get contact
// @Tags     2.) Authorization and CRUD
// @Produce  json
// @Param    id path string true "contact id (UUID)"
// @Security BearerAuth
// @Success  200 {object} contact.Contact
// @Failure  403 {object} presenter.ErrorResponse
// @Failure  404 {object} presenter.ErrorResponse
// @Router   /contact/{id} [get]
func (h *ContactHandler) Get(c *fiber.Ctx) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	ct, err := h.uc.Get(c.UserContext(), id, c.Params("id"))
	if err != nil {
		return err
	}
	return presenter.JSON(c, http.StatusOK, ct)
}

// @Summary  Update contact
// @Description Merges the non-empty fields into the contact. Also served on PATCH.
// @Tags     2.) Authorization and CRUD
// @Accept   json
// @Produce  json
// @Param    id path string true "contact id (UUID)"
// @Param    input body updateContactRequest false "fields to change"
// @Security BearerAuth
// @Success  201 {object} updatedContactResponse
// @Failure  400 {object} presenter.ErrorResponse
// @Failure  403 {object} presenter.ErrorResponse
// @Failure  404 {object} presenter.ErrorResponse
// @Failure  500 {object} presenter.ErrorResponse
// @Router   /contact/{id} [put]
func (h *ContactHandler) Update(c *fiber.Ctx) error {
	const op = "handlers.UpdateContact"
	id, err := caller(c)
	if err != nil {
		return err
	}
	// Existence and ownership are settled before the body is read.
	if _, err := h.uc.Get(c.UserContext(), id, c.Params("id")); err != nil {
		return err
	}
	var req updateContactRequest
	if len(bytes.TrimSpace(c.Body())) > 0 {
		if err := bind(c, op, "invalid contact", &req); err != nil {
			return err
		}
	}
	ct, err := h.uc.Update(c.UserContext(), id, c.Params("id"), req.patch())
	if err != nil {
		return err
	}
	return presenter.JSON(c, http.StatusCreated, updatedContactResponse{UpdatedContact: ct})
}

// @Summary  Delete contact
// @Tags     2.) Authorization and CRUD
// @Produce  json
// @Param    id path string true "contact id (UUID)"
// @Security BearerAuth
// @Success  200 {object} deletedContactResponse
// @Failure  403 {object} presenter.ErrorResponse
// @Failure  404 {object} presenter.ErrorResponse
// @Router   /contact/{id} [delete]
func (h *ContactHandler) Delete(c *fiber.Ctx) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	ct, err := h.uc.Delete(c.UserContext(), id, c.Params("id"))
	if err != nil {
		return err
	}
	return presenter.JSON(c, http.StatusOK, deletedContactResponse{Message: "Contact is deleted", Contact: ct})
}
