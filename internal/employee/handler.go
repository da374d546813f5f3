package employee

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Oniqq60/staff_control/internal/apperr"
	"github.com/Oniqq60/staff_control/internal/auth"
	"github.com/Oniqq60/staff_control/internal/dto"
	"github.com/Oniqq60/staff_control/internal/policy"
	"github.com/Oniqq60/staff_control/internal/respond"
	"github.com/Oniqq60/staff_control/internal/validation"
)

type Handler struct {
	service Service
	gate    *policy.Gate
	log     *zap.Logger
}

func NewHandler(service Service, gate *policy.Gate, log *zap.Logger) *Handler {
	return &Handler{
		service: service,
		gate:    gate,
		log:     log,
	}
}

func (h *Handler) Create(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	if err := h.authorize(c, caller, policy.Create, policy.Subject{}); err != nil {
		return
	}

	req := validation.BodyFrom[dto.CreateEmployeeRequest](c)
	var userID int64
	if req.UserID != nil {
		userID = *req.UserID
	}

	e, err := h.service.Create(c.Request.Context(), CreateInput{
		UserID:     userID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Department: req.Department,
		Position:   req.Position,
	})
	if err != nil {
		respond.Error(c, err)
		return
	}

	h.log.Info("create employee request successful", zap.Int64("employeeId", e.ID), zap.Int64("adminId", caller.ID))
	respond.OK(c, http.StatusCreated, "Employee created successfully", e)
}

func (h *Handler) List(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	if err := h.authorize(c, caller, policy.List, policy.Subject{}); err != nil {
		return
	}

	q := validation.QueryFrom[dto.PageQuery](c)
	_, limit := q.PageLimit()

	page, err := h.service.List(c.Request.Context(), limit, q.Offset())
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.Page(c, "Employees retrieved successfully", page.Items, page.Pagination)
}

func (h *Handler) Get(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	e, err := h.service.GetByID(c.Request.Context(), validation.IDFrom(c))
	if err != nil {
		respond.Error(c, err)
		return
	}
	if err := h.authorize(c, caller, policy.Read, policy.Owners(e.UserID)); err != nil {
		return
	}
	respond.OK(c, http.StatusOK, "Employee retrieved successfully", e)
}

// Update loads the record first so ownership is checked against the
// stored user_id. Moving a record to another user is checked against
// that user as well.
func (h *Handler) Update(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	id := validation.IDFrom(c)
	ctx := c.Request.Context()

	existing, err := h.service.GetByID(ctx, id)
	if err != nil {
		respond.Error(c, err)
		return
	}

	req := validation.BodyFrom[dto.UpdateEmployeeRequest](c)
	if err := h.authorize(c, caller, policy.Update, policy.Owners(existing.UserID)); err != nil {
		return
	}
	if req.UserID != nil && *req.UserID != existing.UserID {
		if err := h.authorize(c, caller, policy.Update, policy.Owners(*req.UserID)); err != nil {
			return
		}
	}

	e, err := h.service.Update(ctx, id, Patch{
		UserID:     req.UserID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Department: req.Department,
		Position:   req.Position,
	})
	if err != nil {
		respond.Error(c, err)
		return
	}

	h.log.Info("update employee request successful", zap.Int64("employeeId", id), zap.Int64("userId", caller.ID))
	respond.OK(c, http.StatusOK, "Employee updated successfully", e)
}

// Delete is decided on the caller's role alone, before the record is loaded.
func (h *Handler) Delete(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	if err := h.authorize(c, caller, policy.Delete, policy.Subject{}); err != nil {
		return
	}

	id := validation.IDFrom(c)
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respond.Error(c, err)
		return
	}

	h.log.Info("delete employee request successful", zap.Int64("employeeId", id), zap.Int64("adminId", caller.ID))
	respond.OK(c, http.StatusOK, "Employee deleted successfully", nil)
}

func (h *Handler) caller(c *gin.Context) (auth.Identity, bool) {
	id, ok := auth.IdentityFrom(c)
	if !ok {
		respond.Error(c, apperr.Authentication("Unauthorized"))
	}
	return id, ok
}

func (h *Handler) authorize(c *gin.Context, caller auth.Identity, action policy.Action, s policy.Subject) error {
	err := h.gate.Authorize(caller, policy.Employee, action, s)
	if err != nil {
		h.log.Warn("employee request forbidden",
			zap.String("action", string(action)),
			zap.Int64("userId", caller.ID),
			zap.String("role", string(caller.Role)),
		)
		respond.Error(c, err)
	}
	return err
}
