package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"shop_backend/app/helpers"
	"shop_backend/app/repositories"
	"shop_backend/app/services"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
)

type OrderHandler struct {
	render    *render.Render
	orderSvc  *services.OrderService
	validator *validator.Validate
}

func NewOrderHandler(r *render.Render, orderSvc *services.OrderService, validator *validator.Validate) *OrderHandler {
	return &OrderHandler{
		render:    r,
		orderSvc:  orderSvc,
		validator: validator,
	}
}

type OrderLineForm struct {
	ItemID   uint `json:"itemId" validate:"required"`
	Quantity int  `json:"quantity" validate:"required,gt=0"`
}

type AddressForm struct {
	Fullname string `json:"fullname" validate:"required,max=100"`
	Phone    string `json:"phone" validate:"required,max=20"`
	Province string `json:"province" validate:"required,max=100"`
	District string `json:"district" validate:"required,max=100"`
	Commune  string `json:"commune" validate:"required,max=100"`
	Address  string `json:"address" validate:"required,max=255"`
}

type CreateOrderForm struct {
	Items           []OrderLineForm `json:"items" validate:"required,min=1,dive"`
	VoucherID       *uint           `json:"voucherId"`
	PaymentMethodID uint            `json:"paymentMethodId" validate:"required"`
	Note            string          `json:"note" validate:"max=500"`
	Address         AddressForm     `json:"address" validate:"required"`
}

type OrderIDForm struct {
	OrderID string `json:"orderId" validate:"required,uuid4"`
}

type UpdateOrderStatusForm struct {
	OrderID  string `json:"orderId" validate:"required,uuid4"`
	StatusID int    `json:"statusId" validate:"required,min=1,max=8"`
}

func (h *OrderHandler) CreateOrderPost(w http.ResponseWriter, req *http.Request) {
	userID := helpers.GetUserIDFromContext(req.Context())

	var form CreateOrderForm
	if err := json.NewDecoder(req.Body).Decode(&form); err != nil {
		writeBadRequest(h.render, w, "Invalid request body")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		writeBadRequest(h.render, w, err.Error())
		return
	}

	input := services.CreateOrderInput{
		VoucherID:       form.VoucherID,
		PaymentMethodID: form.PaymentMethodID,
		Note:            form.Note,
		Recipient: services.RecipientInput{
			Fullname: form.Address.Fullname,
			Phone:    form.Address.Phone,
			Province: form.Address.Province,
			District: form.Address.District,
			Commune:  form.Address.Commune,
			Address:  form.Address.Address,
		},
	}
	for _, line := range form.Items {
		input.Items = append(input.Items, services.CartLine{ItemID: line.ItemID, Quantity: line.Quantity})
	}

	order, err := h.orderSvc.CreateOrder(req.Context(), userID, input)
	if err != nil {
		writeServiceError(h.render, w, err)
		return
	}

	writeData(h.render, w, order)
}

func (h *OrderHandler) CancelOrderPost(w http.ResponseWriter, req *http.Request) {
	userID := helpers.GetUserIDFromContext(req.Context())

	var form OrderIDForm
	if err := json.NewDecoder(req.Body).Decode(&form); err != nil {
		writeBadRequest(h.render, w, "Invalid request body")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		writeBadRequest(h.render, w, err.Error())
		return
	}

	if err := h.orderSvc.CancelOrder(req.Context(), userID, form.OrderID); err != nil {
		writeServiceError(h.render, w, err)
		return
	}

	writeMessage(h.render, w, "Order cancelled")
}

func (h *OrderHandler) RefundOrderPost(w http.ResponseWriter, req *http.Request) {
	userID := helpers.GetUserIDFromContext(req.Context())

	var form OrderIDForm
	if err := json.NewDecoder(req.Body).Decode(&form); err != nil {
		writeBadRequest(h.render, w, "Invalid request body")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		writeBadRequest(h.render, w, err.Error())
		return
	}

	if err := h.orderSvc.RefundOrder(req.Context(), userID, form.OrderID); err != nil {
		writeServiceError(h.render, w, err)
		return
	}

	writeMessage(h.render, w, "Refund requested")
}

func (h *OrderHandler) OrderListGet(w http.ResponseWriter, req *http.Request) {
	userID := helpers.GetUserIDFromContext(req.Context())
	page, limit, offset := parsePagination(req)
	statusID, _ := strconv.Atoi(req.URL.Query().Get("type"))

	orders, total, err := h.orderSvc.ListUserOrders(req.Context(), userID, statusID, limit, offset)
	if err != nil {
		writeServiceError(h.render, w, err)
		return
	}

	writeData(h.render, w, paginated{Items: orders, TotalCount: total, Page: page, Limit: limit})
}

func (h *OrderHandler) OrderDetailGet(w http.ResponseWriter, req *http.Request) {
	userID := helpers.GetUserIDFromContext(req.Context())
	orderID := mux.Vars(req)["id"]

	order, err := h.orderSvc.GetOrderDetail(req.Context(), userID, orderID)
	if err != nil {
		writeServiceError(h.render, w, err)
		return
	}

	writeData(h.render, w, order)
}

func (h *OrderHandler) AdminOrderListGet(w http.ResponseWriter, req *http.Request) {
	page, limit, offset := parsePagination(req)
	statusID, _ := strconv.Atoi(req.URL.Query().Get("type"))
	voucherID, _ := strconv.Atoi(req.URL.Query().Get("voucherId"))

	filter := repositories.OrderListFilter{
		StatusID:  statusID,
		VoucherID: uint(voucherID),
		Limit:     limit,
		Offset:    offset,
	}
	if from := req.URL.Query().Get("from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			filter.From = &t
		}
	}
	if to := req.URL.Query().Get("to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			filter.To = &t
		}
	}

	orders, total, err := h.orderSvc.ListOrders(req.Context(), filter)
	if err != nil {
		writeServiceError(h.render, w, err)
		return
	}

	writeData(h.render, w, paginated{Items: orders, TotalCount: total, Page: page, Limit: limit})
}

func (h *OrderHandler) UpdateOrderStatusPost(w http.ResponseWriter, req *http.Request) {
	var form UpdateOrderStatusForm
	if err := json.NewDecoder(req.Body).Decode(&form); err != nil {
		writeBadRequest(h.render, w, "Invalid request body")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		writeBadRequest(h.render, w, err.Error())
		return
	}

	if err := h.orderSvc.UpdateOrderStatus(req.Context(), form.OrderID, form.StatusID); err != nil {
		writeServiceError(h.render, w, err)
		return
	}

	writeMessage(h.render, w, "Order status updated")
}
