package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"shop_backend/app/helpers"
	"shop_backend/app/services"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/unrolled/render"
)

type VoucherHandler struct {
	render     *render.Render
	voucherSvc *services.VoucherService
	validator  *validator.Validate
}

func NewVoucherHandler(r *render.Render, voucherSvc *services.VoucherService, validator *validator.Validate) *VoucherHandler {
	return &VoucherHandler{
		render:     r,
		voucherSvc: voucherSvc,
		validator:  validator,
	}
}

type VoucherForm struct {
	Name               string           `json:"name" validate:"required,max=255"`
	VoucherCode        string           `json:"voucherCode" validate:"required,max=50"`
	MinSpend           decimal.Decimal  `json:"minSpend"`
	DiscountCap        *decimal.Decimal `json:"discountCap"`
	DiscountPercentage *int             `json:"discountPercentage" validate:"omitempty,min=1,max=100"`
	DiscountValue      *decimal.Decimal `json:"discountValue"`
	UsageLimitPerUser  int              `json:"usageLimitPerUser" validate:"required,gt=0"`
	MaxCount           int              `json:"maxCount" validate:"required,gt=0"`
	StartTime          time.Time        `json:"startTime" validate:"required"`
	EndTime            time.Time        `json:"endTime" validate:"required"`
}

func (f VoucherForm) toInput() services.VoucherInput {
	return services.VoucherInput{
		Name:               f.Name,
		VoucherCode:        f.VoucherCode,
		MinSpend:           f.MinSpend,
		DiscountCap:        f.DiscountCap,
		DiscountPercentage: f.DiscountPercentage,
		DiscountValue:      f.DiscountValue,
		UsageLimitPerUser:  f.UsageLimitPerUser,
		MaxCount:           f.MaxCount,
		StartTime:          f.StartTime,
		EndTime:            f.EndTime,
	}
}

func (h *VoucherHandler) RecommendedVouchersGet(w http.ResponseWriter, req *http.Request) {
	userID := helpers.GetUserIDFromContext(req.Context())

	vouchers, err := h.voucherSvc.GetRecommended(req.Context(), userID)
	if err != nil {
		writeServiceError(h.render, w, err)
		return
	}

	writeData(h.render, w, vouchers)
}

func (h *VoucherHandler) VoucherListGet(w http.ResponseWriter, req *http.Request) {
	page, limit, offset := parsePagination(req)
	keyword := req.URL.Query().Get("search")

	vouchers, total, err := h.voucherSvc.List(req.Context(), keyword, limit, offset)
	if err != nil {
		writeServiceError(h.render, w, err)
		return
	}

	writeData(h.render, w, paginated{Items: vouchers, TotalCount: total, Page: page, Limit: limit})
}

func (h *VoucherHandler) VoucherDetailGet(w http.ResponseWriter, req *http.Request) {
	id, err := strconv.Atoi(mux.Vars(req)["id"])
	if err != nil || id < 1 {
		writeBadRequest(h.render, w, "Invalid voucher id")
		return
	}

	voucher, err := h.voucherSvc.GetDetail(req.Context(), uint(id))
	if err != nil {
		writeServiceError(h.render, w, err)
		return
	}

	writeData(h.render, w, voucher)
}

func (h *VoucherHandler) VoucherCreatePost(w http.ResponseWriter, req *http.Request) {
	var form VoucherForm
	if err := json.NewDecoder(req.Body).Decode(&form); err != nil {
		writeBadRequest(h.render, w, "Invalid request body")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		writeBadRequest(h.render, w, err.Error())
		return
	}

	voucher, err := h.voucherSvc.Create(req.Context(), form.toInput())
	if err != nil {
		writeServiceError(h.render, w, err)
		return
	}

	writeData(h.render, w, voucher)
}

func (h *VoucherHandler) VoucherUpdatePut(w http.ResponseWriter, req *http.Request) {
	id, err := strconv.Atoi(mux.Vars(req)["id"])
	if err != nil || id < 1 {
		writeBadRequest(h.render, w, "Invalid voucher id")
		return
	}

	var form VoucherForm
	if err := json.NewDecoder(req.Body).Decode(&form); err != nil {
		writeBadRequest(h.render, w, "Invalid request body")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		writeBadRequest(h.render, w, err.Error())
		return
	}

	if err := h.voucherSvc.Update(req.Context(), uint(id), form.toInput()); err != nil {
		writeServiceError(h.render, w, err)
		return
	}

	writeMessage(h.render, w, "Voucher updated")
}

func (h *VoucherHandler) VoucherDelete(w http.ResponseWriter, req *http.Request) {
	id, err := strconv.Atoi(mux.Vars(req)["id"])
	if err != nil || id < 1 {
		writeBadRequest(h.render, w, "Invalid voucher id")
		return
	}

	if err := h.voucherSvc.Delete(req.Context(), uint(id)); err != nil {
		writeServiceError(h.render, w, err)
		return
	}

	writeMessage(h.render, w, "Voucher deleted")
}

func (h *VoucherHandler) VoucherEndNowPost(w http.ResponseWriter, req *http.Request) {
	id, err := strconv.Atoi(mux.Vars(req)["id"])
	if err != nil || id < 1 {
		writeBadRequest(h.render, w, "Invalid voucher id")
		return
	}

	if err := h.voucherSvc.EndNow(req.Context(), uint(id)); err != nil {
		writeServiceError(h.render, w, err)
		return
	}

	writeMessage(h.render, w, "Voucher ended")
}
