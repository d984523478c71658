package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"shop_backend/app/services"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/unrolled/render"
)

type FlashSaleHandler struct {
	render       *render.Render
	flashSaleSvc *services.FlashSaleService
	validator    *validator.Validate
}

func NewFlashSaleHandler(r *render.Render, flashSaleSvc *services.FlashSaleService, validator *validator.Validate) *FlashSaleHandler {
	return &FlashSaleHandler{
		render:       r,
		flashSaleSvc: flashSaleSvc,
		validator:    validator,
	}
}

type FlashSaleItemForm struct {
	ItemID             uint            `json:"itemId" validate:"required"`
	DiscountedPrice    decimal.Decimal `json:"discountedPrice" validate:"required"`
	DiscountPercentage int             `json:"discountPercentage" validate:"min=0,max=100"`
	Quantity           *int            `json:"quantity" validate:"omitempty,gt=0"`
	OrderLimit         *int            `json:"orderLimit" validate:"omitempty,gt=0"`
	Slot               int             `json:"slot" validate:"min=0"`
}

type FlashSaleForm struct {
	Name      string              `json:"name" validate:"required,max=255"`
	StartTime time.Time           `json:"startTime" validate:"required"`
	EndTime   time.Time           `json:"endTime" validate:"required"`
	Items     []FlashSaleItemForm `json:"items" validate:"dive"`
}

func (f FlashSaleForm) toInput() services.FlashSaleInput {
	input := services.FlashSaleInput{
		Name:      f.Name,
		StartTime: f.StartTime,
		EndTime:   f.EndTime,
	}
	for _, item := range f.Items {
		input.Items = append(input.Items, services.FlashSaleItemInput{
			ItemID:             item.ItemID,
			DiscountedPrice:    item.DiscountedPrice,
			DiscountPercentage: item.DiscountPercentage,
			Quantity:           item.Quantity,
			OrderLimit:         item.OrderLimit,
			Slot:               item.Slot,
		})
	}
	return input
}

func (h *FlashSaleHandler) FlashSaleListGet(w http.ResponseWriter, req *http.Request) {
	page, limit, offset := parsePagination(req)
	status := req.URL.Query().Get("status")

	flashSales, total, err := h.flashSaleSvc.List(req.Context(), status, limit, offset)
	if err != nil {
		writeServiceError(h.render, w, err)
		return
	}

	writeData(h.render, w, paginated{Items: flashSales, TotalCount: total, Page: page, Limit: limit})
}

func (h *FlashSaleHandler) FlashSaleItemsGet(w http.ResponseWriter, req *http.Request) {
	id, err := strconv.Atoi(mux.Vars(req)["id"])
	if err != nil || id < 1 {
		writeBadRequest(h.render, w, "Invalid flash sale id")
		return
	}

	fs, err := h.flashSaleSvc.GetItems(req.Context(), uint(id))
	if err != nil {
		writeServiceError(h.render, w, err)
		return
	}

	writeData(h.render, w, fs)
}

func (h *FlashSaleHandler) FlashSaleCreatePost(w http.ResponseWriter, req *http.Request) {
	var form FlashSaleForm
	if err := json.NewDecoder(req.Body).Decode(&form); err != nil {
		writeBadRequest(h.render, w, "Invalid request body")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		writeBadRequest(h.render, w, err.Error())
		return
	}

	fs, err := h.flashSaleSvc.Create(req.Context(), form.toInput())
	if err != nil {
		writeServiceError(h.render, w, err)
		return
	}

	writeData(h.render, w, fs)
}

func (h *FlashSaleHandler) FlashSaleUpdatePut(w http.ResponseWriter, req *http.Request) {
	id, err := strconv.Atoi(mux.Vars(req)["id"])
	if err != nil || id < 1 {
		writeBadRequest(h.render, w, "Invalid flash sale id")
		return
	}

	var form FlashSaleForm
	if err := json.NewDecoder(req.Body).Decode(&form); err != nil {
		writeBadRequest(h.render, w, "Invalid request body")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		writeBadRequest(h.render, w, err.Error())
		return
	}

	if err := h.flashSaleSvc.Update(req.Context(), uint(id), form.toInput()); err != nil {
		writeServiceError(h.render, w, err)
		return
	}

	writeMessage(h.render, w, "Flash sale updated")
}

func (h *FlashSaleHandler) FlashSaleDelete(w http.ResponseWriter, req *http.Request) {
	id, err := strconv.Atoi(mux.Vars(req)["id"])
	if err != nil || id < 1 {
		writeBadRequest(h.render, w, "Invalid flash sale id")
		return
	}

	if err := h.flashSaleSvc.Delete(req.Context(), uint(id)); err != nil {
		writeServiceError(h.render, w, err)
		return
	}

	writeMessage(h.render, w, "Flash sale deleted")
}
