package web

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/Mal-back/cal-tracker/internal/server/authctx"
	"github.com/Mal-back/cal-tracker/internal/server/models"
	"github.com/Mal-back/cal-tracker/internal/server/services"
)

type deletedResult struct {
	Deleted int64 `json:"deleted"`
}

func mealID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: meal id %q", services.ErrInvalidInput, r.PathValue("id"))
	}
	return id, nil
}

func (h *Handler) createMeal(w http.ResponseWriter, r *http.Request, c authctx.Ctx) error {
	var req models.MealForCreate
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}

	m, err := h.meals.Create(r.Context(), c.UserID(), req)
	if err != nil {
		return err
	}

	writeResult(w, m)
	return nil
}

func (h *Handler) listMeals(w http.ResponseWriter, r *http.Request, c authctx.Ctx) error {
	list, err := h.meals.List(r.Context(), c.UserID())
	if err != nil {
		return err
	}

	writeResult(w, list)
	return nil
}

func (h *Handler) getMeal(w http.ResponseWriter, r *http.Request, c authctx.Ctx) error {
	id, err := mealID(r)
	if err != nil {
		return err
	}

	m, err := h.meals.Get(r.Context(), c.UserID(), id)
	if err != nil {
		return err
	}

	writeResult(w, m)
	return nil
}

func (h *Handler) updateMeal(w http.ResponseWriter, r *http.Request, c authctx.Ctx) error {
	id, err := mealID(r)
	if err != nil {
		return err
	}

	var req models.MealForUpdate
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}

	m, err := h.meals.Update(r.Context(), c.UserID(), id, req)
	if err != nil {
		return err
	}

	writeResult(w, m)
	return nil
}

func (h *Handler) deleteMeal(w http.ResponseWriter, r *http.Request, c authctx.Ctx) error {
	id, err := mealID(r)
	if err != nil {
		return err
	}

	if err := h.meals.Delete(r.Context(), c.UserID(), id); err != nil {
		return err
	}

	writeResult(w, deletedResult{Deleted: id})
	return nil
}
