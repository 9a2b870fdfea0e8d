package handlers

import (
	"net/http"

	"Tasker/internal/auth"
	dom "Tasker/internal/domain"
	"Tasker/internal/dto"
	"Tasker/internal/paging"
	"Tasker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const defaultEmbedLimit = 100

type TodoListHandler struct {
	svc      *service.TodoListService
	maxLimit int
	log      zerolog.Logger
}

// NewTodoListHandler returns a handler for /todo-lists. maxLimit caps the
// page size; zero means no cap.
func NewTodoListHandler(svc *service.TodoListService, maxLimit int, log zerolog.Logger) *TodoListHandler {
	registerValidators()
	return &TodoListHandler{svc: svc, maxLimit: maxLimit, log: log}
}

// Create godoc
// @Summary      Create a todo list
// @Tags         todo-lists
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.CreateTodoListRequest  true  "List"
// @Success      201   {object}  dto.Envelope{data=dto.TodoListResponse}
// @Failure      400   {object}  dto.Envelope
// @Failure      401   {object}  dto.Envelope
// @Router       /todo-lists [post]
func (h *TodoListHandler) Create(c *gin.Context) {
	var req dto.CreateTodoListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, bindingMessage(err))
		return
	}
	l, err := h.svc.Create(c.Request.Context(), auth.UserIDFromContext(c), service.ListInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	respond(c, http.StatusCreated, listToResponse(l, nil))
}

// List godoc
// @Summary      List todo lists
// @Description  Newest first. search matches name or description, case-insensitively.
// @Tags         todo-lists
// @Produce      json
// @Security     BearerAuth
// @Param        page    query     int     false  "Page (1-based)"  default(1)
// @Param        limit   query     int     false  "Page size"       default(10)
// @Param        search  query     string  false  "Substring of name or description"
// @Success      200     {object}  dto.Envelope{data=paging.Page[dto.TodoListResponse]}
// @Failure      400     {object}  dto.Envelope
// @Failure      401     {object}  dto.Envelope
// @Router       /todo-lists [get]
func (h *TodoListHandler) List(c *gin.Context) {
	var q dto.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		fail(c, http.StatusBadRequest, bindingMessage(err))
		return
	}
	if !checkLimit(c, q.Limit, h.maxLimit) {
		return
	}
	page, err := h.svc.List(c.Request.Context(), auth.UserIDFromContext(c), service.ListQuery{
		Search:  q.Search,
		Page:    q.Page,
		Limit:   q.Limit,
		BaseURL: requestURL(c),
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, paging.Map(page, func(l dom.TodoList) dto.TodoListResponse {
		return listToResponse(l, nil)
	}))
}

// GetByID godoc
// @Summary      Get a todo list
// @Tags         todo-lists
// @Produce      json
// @Security     BearerAuth
// @Description  include=tasks embeds the first page of live tasks, capped at the maximum page size.
// @Param        id       path      string  true   "List ID"
// @Param        include  query     string  false  "Set to tasks to embed live tasks"
// @Success      200      {object}  dto.Envelope{data=dto.TodoListResponse}
// @Failure      400      {object}  dto.Envelope
// @Failure      404      {object}  dto.Envelope
// @Router       /todo-lists/{id} [get]
func (h *TodoListHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ownerID := auth.UserIDFromContext(c)
	var (
		v   service.TodoListView
		err error
	)
	switch c.Query("include") {
	case "":
		v, err = h.svc.GetByID(c.Request.Context(), ownerID, id)
	case "tasks":
		v, err = h.svc.GetWithTasks(c.Request.Context(), ownerID, id, h.embedLimit())
	default:
		fail(c, http.StatusBadRequest, "include must be one of: tasks")
		return
	}
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	resp := listToResponse(v.List, &v.TaskCount)
	if v.Tasks != nil {
		resp.Tasks = make([]dto.TaskResponse, len(v.Tasks))
		for i := range v.Tasks {
			resp.Tasks[i] = taskToResponse(v.Tasks[i])
		}
	}
	respond(c, http.StatusOK, resp)
}

func (h *TodoListHandler) embedLimit() int {
	if h.maxLimit > 0 {
		return h.maxLimit
	}
	return defaultEmbedLimit
}

// Update godoc
// @Summary      Update a todo list
// @Tags         todo-lists
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                     true  "List ID"
// @Param        body  body      dto.UpdateTodoListRequest  true  "Partial update"
// @Success      200   {object}  dto.Envelope{data=dto.TodoListResponse}
// @Failure      400   {object}  dto.Envelope
// @Failure      404   {object}  dto.Envelope
// @Router       /todo-lists/{id} [patch]
func (h *TodoListHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateTodoListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, bindingMessage(err))
		return
	}
	l, err := h.svc.Update(c.Request.Context(), auth.UserIDFromContext(c), id, dom.TodoListPatch{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, listToResponse(l, nil))
}

// Delete godoc
// @Summary      Delete a todo list and its tasks
// @Tags         todo-lists
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "List ID"
// @Success      200  {object}  dto.Envelope{data=dto.DeleteResponse}
// @Failure      400  {object}  dto.Envelope
// @Failure      404  {object}  dto.Envelope
// @Router       /todo-lists/{id} [delete]
func (h *TodoListHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), auth.UserIDFromContext(c), id); err != nil {
		writeError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, dto.DeleteResponse{Success: true, Message: "todo list deleted"})
}

func listToResponse(l dom.TodoList, taskCount *int64) dto.TodoListResponse {
	return dto.TodoListResponse{
		ID:          l.ID.String(),
		Name:        l.Name,
		Description: l.Description,
		TaskCount:   taskCount,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}
