package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/store"
)

// EmptyListMessage is the list message shown when there is nothing to do.
const EmptyListMessage = "No items yet!"

const maxBody = 1 << 20

// Evaluator produces feedback for a draft title. A nil *ai.Client satisfies
// it and answers with a fixed "not configured" message.
type Evaluator interface {
	Evaluate(ctx context.Context, title string) (string, error)
}

// TodoHandler serves /api/todos.
type TodoHandler struct {
	store     store.Store
	evaluator Evaluator
	validate  *validator
	logger    *log.Logger
}

func message(c echo.Context, code int, msg string) error {
	return c.JSON(code, model.Feedback{Message: msg})
}

// List handles GET /api/todos.
func (h *TodoHandler) List(c echo.Context) error {
	items, err := h.store.List(c.Request().Context())
	if err != nil {
		h.logger.Error("list todos", "err", err)
		return message(c, http.StatusInternalServerError, "could not list todos")
	}
	resp := model.ItemResponse{Items: items}
	if resp.Items == nil {
		resp.Items = []model.Item{}
	}
	if len(resp.Items) == 0 {
		resp.Message = EmptyListMessage
	}
	return c.JSON(http.StatusOK, resp)
}

// Create handles POST /api/todos.
func (h *TodoHandler) Create(c echo.Context) error {
	var item model.Item
	if err := h.bind(c, h.validate.item, &item); err != nil {
		return err
	}
	created, err := h.store.Create(c.Request().Context(), model.Item{Title: item.Title, Done: item.Done})
	if err != nil {
		h.logger.Error("create todo", "err", err)
		return message(c, http.StatusInternalServerError, "could not create todo")
	}
	h.logger.Debug("created todo", "id", created.ID)
	c.Response().Header().Set(echo.HeaderLocation, "/api/todos/"+created.ID)
	return c.JSON(http.StatusCreated, created)
}

// Update handles PUT /api/todos/:id.
func (h *TodoHandler) Update(c echo.Context) error {
	var item model.Item
	if err := h.bind(c, h.validate.item, &item); err != nil {
		return err
	}
	item.ID = c.Param("id")
	updated, err := h.store.Update(c.Request().Context(), item)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return message(c, http.StatusNotFound, fmt.Sprintf("todo %s not found", item.ID))
		}
		h.logger.Error("update todo", "id", item.ID, "err", err)
		return message(c, http.StatusInternalServerError, "could not update todo")
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /api/todos/:id.
func (h *TodoHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	if err := h.store.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return message(c, http.StatusNotFound, fmt.Sprintf("todo %s not found", id))
		}
		h.logger.Error("delete todo", "id", id, "err", err)
		return message(c, http.StatusInternalServerError, "could not delete todo")
	}
	return c.NoContent(http.StatusNoContent)
}

// Evaluate handles POST /api/todos/evaluate.
func (h *TodoHandler) Evaluate(c echo.Context) error {
	var item model.Item
	if err := h.bind(c, h.validate.draft, &item); err != nil {
		return err
	}
	msg, err := h.evaluator.Evaluate(c.Request().Context(), item.Title)
	if err != nil {
		h.logger.Warn("evaluate todo", "err", err)
		return message(c, http.StatusBadGateway, "feedback is unavailable right now")
	}
	return message(c, http.StatusOK, msg)
}

// bind reads, validates and decodes the request body. Failures come back
// as a 400 *echo.HTTPError, rendered by echo as {"message": ...}.
func (h *TodoHandler) bind(c echo.Context, schema *jsonschema.Schema, dst *model.Item) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxBody))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not read body")
	}
	if err := decode(schema, body, dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
