package task

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

const msgBadDueDate = "Due date must be a valid date in format YYYY-MM-DD"

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

	req := validation.BodyFrom[dto.CreateTaskRequest](c)
	in := CreateInput{
		Title:            req.Title,
		Description:      req.Description,
		AssignedToUserID: req.AssignedToUserID,
		CreatedByUserID:  caller.ID,
	}
	if req.Status != nil {
		st := Status(*req.Status)
		in.Status = &st
	}
	if req.Priority != nil {
		pr := Priority(*req.Priority)
		in.Priority = &pr
	}
	if req.DueDate != nil {
		d, err := ParseDate(*req.DueDate)
		if err != nil {
			respond.Error(c, apperr.Validation(msgBadDueDate))
			return
		}
		in.DueDate = &d
	}

	t, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		respond.Error(c, err)
		return
	}

	h.log.Info("create task request successful", zap.Int64("taskId", t.ID), zap.Int64("userId", caller.ID))
	respond.OK(c, http.StatusCreated, "Task created successfully", t)
}

// List only ever returns tasks assigned to the caller.
func (h *Handler) List(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	if err := h.authorize(c, caller, policy.List, policy.Subject{}); err != nil {
		return
	}

	q := validation.QueryFrom[dto.TaskQuery](c)
	_, limit := q.PageLimit()
	f := Filter{
		AssignedToUserID: &caller.ID,
		Limit:            limit,
		Offset:           q.Offset(),
	}
	if q.Status != "" {
		st := Status(q.Status)
		f.Status = &st
	}

	page, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.Page(c, "Tasks retrieved successfully", page.Items, page.Pagination)
}

func (h *Handler) Get(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	t, err := h.service.GetByID(c.Request.Context(), validation.IDFrom(c))
	if err != nil {
		respond.Error(c, err)
		return
	}
	if err := h.authorize(c, caller, policy.Read, policy.Owners(t.Owners()...)); err != nil {
		return
	}
	respond.OK(c, http.StatusOK, "Task retrieved successfully", t)
}

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
	if err := h.authorize(c, caller, policy.Update, policy.Owners(existing.Owners()...)); err != nil {
		return
	}

	req := validation.BodyFrom[dto.UpdateTaskRequest](c)
	p, err := patchFrom(req)
	if err != nil {
		respond.Error(c, err)
		return
	}

	t, err := h.service.Update(ctx, id, p, caller.ID)
	if err != nil {
		respond.Error(c, err)
		return
	}

	h.log.Info("update task request successful", zap.Int64("taskId", id), zap.Int64("userId", caller.ID))
	respond.OK(c, http.StatusOK, "Task updated successfully", t)
}

func (h *Handler) Delete(c *gin.Context) {
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
	if err := h.authorize(c, caller, policy.Delete, policy.Owners(existing.Owners()...)); err != nil {
		return
	}

	if err := h.service.Delete(ctx, id, caller.ID); err != nil {
		respond.Error(c, err)
		return
	}

	h.log.Info("delete task request successful", zap.Int64("taskId", id), zap.Int64("userId", caller.ID))
	respond.OK(c, http.StatusOK, "Task deleted successfully", nil)
}

func patchFrom(req dto.UpdateTaskRequest) (Patch, error) {
	p := Patch{
		Title:            req.Title,
		AssignedToUserID: req.AssignedToUserID,
	}
	if req.Description.Set {
		p.ClearDescription = !req.Description.Valid
		p.Description = req.Description.Ptr()
	}
	if req.Status != nil {
		st := Status(*req.Status)
		p.Status = &st
	}
	if req.Priority != nil {
		pr := Priority(*req.Priority)
		p.Priority = &pr
	}
	if req.DueDate.Set {
		if !req.DueDate.Valid {
			p.ClearDueDate = true
		} else {
			d, err := ParseDate(req.DueDate.Value)
			if err != nil {
				return Patch{}, apperr.Validation(msgBadDueDate)
			}
			p.DueDate = &d
		}
	}
	return p, nil
}

func (h *Handler) caller(c *gin.Context) (auth.Identity, bool) {
	id, ok := auth.IdentityFrom(c)
	if !ok {
		respond.Error(c, apperr.Authentication("Unauthorized"))
	}
	return id, ok
}

func (h *Handler) authorize(c *gin.Context, caller auth.Identity, action policy.Action, s policy.Subject) error {
	err := h.gate.Authorize(caller, policy.Task, action, s)
	if err != nil {
		h.log.Warn("task request forbidden",
			zap.String("action", string(action)),
			zap.Int64("userId", caller.ID),
		)
		respond.Error(c, err)
	}
	return err
}
