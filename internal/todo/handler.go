package todo

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/taskloop/todo-api/internal/auth"
	"github.com/taskloop/todo-api/internal/httputil"
	"github.com/taskloop/todo-api/internal/logging"
)

// Handler contains HTTP handlers for the todo endpoints. All routes sit
// behind the auth middleware, so an authenticated user is always present
// in the context.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

func NewHandler(service *Service, logger *logging.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// CreateRequest represents the todo creation request body
type CreateRequest struct {
	Text string `json:"text"`
}

// ListResponse wraps the todo collection
type ListResponse struct {
	Todos []Todo `json:"todos"`
}

// TodoResponse wraps a single todo document
type TodoResponse struct {
	Todo *Todo `json:"todo"`
}

// Create handles todo creation
// @Summary      Create a todo
// @Description  Create a todo owned by the authenticated user.
// @Tags         todos
// @Accept       json
// @Produce      json
// @Param        request body CreateRequest true "Todo text"
// @Success      200 {object} Todo
// @Failure      400 {object} httputil.ErrorResponse "Validation error"
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Router       /todos [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	u, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid todo request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	t, err := h.service.Create(r.Context(), u.ID, req.Text)
	if err != nil {
		if errors.Is(err, ErrTextRequired) {
			logger.Warn("todo creation failed: validation error")
			httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeTextRequired, http.StatusBadRequest)
			return
		}
		logger.Error("todo creation failed: store error", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to create todo", httputil.CodeStoreFailure, http.StatusBadRequest)
		return
	}

	logger.Info("todo created", "todo_id", t.ID, "user_id", u.ID)

	httputil.RespondJSON(w, t, http.StatusOK)
}

// List returns the authenticated user's todos
// @Summary      List todos
// @Description  Return all todos owned by the authenticated user.
// @Tags         todos
// @Produce      json
// @Success      200 {object} ListResponse
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Router       /todos [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	u, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	todos, err := h.service.List(r.Context(), u.ID)
	if err != nil {
		logger.Error("todo listing failed: store error", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to list todos", httputil.CodeStoreFailure, http.StatusBadRequest)
		return
	}

	httputil.RespondJSON(w, ListResponse{Todos: todos}, http.StatusOK)
}

// Get returns one todo by id
// @Summary      Get a todo
// @Description  Return a single todo. Todos owned by other users are indistinguishable from missing ones.
// @Tags         todos
// @Produce      json
// @Param        id path string true "Todo id"
// @Success      200 {object} TodoResponse
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      404 {object} httputil.ErrorResponse "Not found"
// @Router       /todos/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	u, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondErrorWithCode(w, "todo not found", httputil.CodeNotFound, http.StatusNotFound)
		return
	}

	t, err := h.service.Get(r.Context(), id, u.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondErrorWithCode(w, "todo not found", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		logger.Error("todo lookup failed: store error", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to get todo", httputil.CodeStoreFailure, http.StatusBadRequest)
		return
	}

	httputil.RespondJSON(w, TodoResponse{Todo: t}, http.StatusOK)
}

// Update patches a todo's text and completion state
// @Summary      Update a todo
// @Description  Patch text and/or completed. Completing a todo records the completion timestamp; un-completing clears it.
// @Tags         todos
// @Accept       json
// @Produce      json
// @Param        id path string true "Todo id"
// @Param        request body UpdateParams true "Fields to update"
// @Success      200 {object} TodoResponse
// @Failure      400 {object} httputil.ErrorResponse "Validation error"
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      404 {object} httputil.ErrorResponse "Not found"
// @Router       /todos/{id} [patch]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	u, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondErrorWithCode(w, "todo not found", httputil.CodeNotFound, http.StatusNotFound)
		return
	}

	var params UpdateParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		logger.Warn("invalid todo patch body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	t, err := h.service.Update(r.Context(), id, u.ID, params)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			httputil.RespondErrorWithCode(w, "todo not found", httputil.CodeNotFound, http.StatusNotFound)
		case errors.Is(err, ErrTextRequired):
			logger.Warn("todo update failed: validation error")
			httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeTextRequired, http.StatusBadRequest)
		default:
			logger.Error("todo update failed: store error", "error", err.Error())
			httputil.RespondErrorWithCode(w, "failed to update todo", httputil.CodeStoreFailure, http.StatusBadRequest)
		}
		return
	}

	logger.Info("todo updated", "todo_id", t.ID, "user_id", u.ID)

	httputil.RespondJSON(w, TodoResponse{Todo: t}, http.StatusOK)
}

// Delete removes a todo by id
// @Summary      Delete a todo
// @Description  Delete a todo owned by the authenticated user and return the deleted document.
// @Tags         todos
// @Produce      json
// @Param        id path string true "Todo id"
// @Success      200 {object} TodoResponse
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      404 {object} httputil.ErrorResponse "Not found"
// @Router       /todos/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	u, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondErrorWithCode(w, "todo not found", httputil.CodeNotFound, http.StatusNotFound)
		return
	}

	t, err := h.service.Delete(r.Context(), id, u.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondErrorWithCode(w, "todo not found", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		logger.Error("todo deletion failed: store error", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to delete todo", httputil.CodeStoreFailure, http.StatusBadRequest)
		return
	}

	logger.Info("todo deleted", "todo_id", t.ID, "user_id", u.ID)

	httputil.RespondJSON(w, TodoResponse{Todo: t}, http.StatusOK)
}
