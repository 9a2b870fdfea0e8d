package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"Tasker/internal/auth"
	dom "Tasker/internal/domain"
	"Tasker/internal/dto"
	"Tasker/internal/paging"
	"Tasker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type TaskHandler struct {
	svc      *service.TaskService
	maxLimit int
	log      zerolog.Logger
}

// NewTaskHandler returns a handler for tasks. maxLimit caps the page size;
// zero means no cap.
func NewTaskHandler(svc *service.TaskService, maxLimit int, log zerolog.Logger) *TaskHandler {
	registerValidators()
	return &TaskHandler{svc: svc, maxLimit: maxLimit, log: log}
}

// Create godoc
// @Summary      Create a task in a list
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "List ID"
// @Param        body  body      dto.CreateTaskRequest  true  "Task"
// @Success      201   {object}  dto.Envelope{data=dto.TaskResponse}
// @Failure      400   {object}  dto.Envelope
// @Failure      404   {object}  dto.Envelope
// @Router       /todo-lists/{id}/tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	listID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, bindingMessage(err))
		return
	}
	due := req.DueAt.Ptr()
	if due == nil {
		fail(c, http.StatusBadRequest, "due_at is required")
		return
	}
	v, err := h.svc.Create(c.Request.Context(), auth.UserIDFromContext(c), listID, service.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    dom.TaskPriority(req.Priority),
		DueAt:       *due,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	respond(c, http.StatusCreated, taskToResponse(v))
}

// List godoc
// @Summary      List tasks in a list
// @Description  Live tasks ordered by due date, then newest first. Filters are AND-ed.
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id        path      string  true   "List ID"
// @Param        page      query     int     false  "Page (1-based)"  default(1)
// @Param        limit     query     int     false  "Page size"       default(10)
// @Param        status    query     string  false  "pending, in_progress or completed"
// @Param        priority  query     string  false  "low, medium or high"
// @Param        search    query     string  false  "Substring of title or description"
// @Param        due_from  query     string  false  "Inclusive lower bound (date or RFC3339)"
// @Param        due_to    query     string  false  "Inclusive upper bound (date or RFC3339)"
// @Success      200       {object}  dto.Envelope{data=paging.Page[dto.TaskResponse]}
// @Failure      400       {object}  dto.Envelope
// @Failure      404       {object}  dto.Envelope
// @Router       /todo-lists/{id}/tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	listID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var q dto.TaskQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		fail(c, http.StatusBadRequest, bindingMessage(err))
		return
	}
	if !checkLimit(c, q.Limit, h.maxLimit) {
		return
	}
	filter, err := taskFilter(q)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	page, err := h.svc.ListByList(c.Request.Context(), auth.UserIDFromContext(c), listID, service.TaskQuery{
		Filter:  filter,
		Page:    q.Page,
		Limit:   q.Limit,
		BaseURL: requestURL(c),
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, paging.Map(page, taskToResponse))
}

// GetByID godoc
// @Summary      Get a task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id               path      string  true   "Task ID"
// @Param        include_deleted  query     bool    false  "Return the task even if soft-deleted"
// @Success      200              {object}  dto.Envelope{data=dto.TaskResponse}
// @Failure      400              {object}  dto.Envelope
// @Failure      404              {object}  dto.Envelope
// @Router       /tasks/{id} [get]
func (h *TaskHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	v, err := h.svc.GetByID(c.Request.Context(), auth.UserIDFromContext(c), id, service.GetOptions{
		IncludeDeleted: c.Query("include_deleted") == "true",
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, taskToResponse(v))
}

// Update godoc
// @Summary      Update a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Task ID"
// @Param        body  body      dto.UpdateTaskRequest  true  "Partial update"
// @Success      200   {object}  dto.Envelope{data=dto.TaskResponse}
// @Failure      400   {object}  dto.Envelope
// @Failure      404   {object}  dto.Envelope
// @Failure      500   {object}  dto.Envelope
// @Router       /tasks/{id} [patch]
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, bindingMessage(err))
		return
	}
	patch := dom.TaskPatch{Title: req.Title, Description: req.Description}
	if req.Status != nil {
		s := dom.TaskStatus(*req.Status)
		patch.Status = &s
	}
	if req.Priority != nil {
		p := dom.TaskPriority(*req.Priority)
		patch.Priority = &p
	}
	if req.DueAt != nil {
		patch.DueAt = req.DueAt.Ptr()
	}
	v, err := h.svc.Update(c.Request.Context(), auth.UserIDFromContext(c), id, patch)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, taskToResponse(v))
}

// Delete godoc
// @Summary      Soft-delete a task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  dto.Envelope{data=dto.DeleteResponse}
// @Failure      400  {object}  dto.Envelope
// @Failure      404  {object}  dto.Envelope
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), auth.UserIDFromContext(c), id); err != nil {
		writeError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, dto.DeleteResponse{Success: true, Message: "task deleted"})
}

func taskFilter(q dto.TaskQuery) (dom.TaskFilter, error) {
	f := dom.TaskFilter{Search: q.Search}
	if q.Status != "" {
		s := dom.TaskStatus(q.Status)
		f.Status = &s
	}
	if q.Priority != "" {
		p := dom.TaskPriority(q.Priority)
		f.Priority = &p
	}
	if q.DueFrom != "" {
		t, err := dto.ParseTime(q.DueFrom)
		if err != nil {
			return dom.TaskFilter{}, fmt.Errorf("due_from: %w", err)
		}
		f.DueFrom = &t
	}
	if q.DueTo != "" {
		t, err := dto.ParseTime(q.DueTo)
		if err != nil {
			return dom.TaskFilter{}, fmt.Errorf("due_to: %w", err)
		}
		// a bare date covers the whole day
		if len(strings.TrimSpace(q.DueTo)) == len(time.DateOnly) {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		f.DueTo = &t
	}
	if f.DueFrom != nil && f.DueTo != nil && f.DueTo.Before(*f.DueFrom) {
		return dom.TaskFilter{}, fmt.Errorf("due_to must not be before due_from")
	}
	return f, nil
}

func taskToResponse(v service.TaskView) dto.TaskResponse {
	t := v.Task
	return dto.TaskResponse{
		ID:             t.ID.String(),
		ListID:         t.ListID.String(),
		Title:          t.Title,
		Description:    t.Description,
		Status:         string(t.Status),
		Priority:       string(t.Priority),
		DueAt:          t.DueAt,
		IsDeleted:      t.IsDeleted,
		TimelineStatus: string(v.Timeline),
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}
