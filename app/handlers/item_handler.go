package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"shop_backend/app/models"
	"shop_backend/app/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"github.com/unrolled/render"
)

type ItemHandler struct {
	render    *render.Render
	itemRepo  repositories.ItemRepositoryImpl
	validator *validator.Validate
}

func NewItemHandler(r *render.Render, itemRepo repositories.ItemRepositoryImpl, validator *validator.Validate) *ItemHandler {
	return &ItemHandler{render: r, itemRepo: itemRepo, validator: validator}
}

type ItemForm struct {
	Name        string          `json:"name" validate:"required,max=255"`
	Thumbnail   string          `json:"thumbnail" validate:"max=255"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	ImportPrice decimal.Decimal `json:"importPrice"`
	Stock       int             `json:"stock" validate:"min=0"`
	IsActived   *bool           `json:"isActived"`
}

func (h *ItemHandler) ItemListGet(w http.ResponseWriter, req *http.Request) {
	page, limit, offset := parsePagination(req)

	keyword := req.URL.Query().Get("search")
	var err error
	var items interface{}
	var total int64
	if keyword != "" {
		items, total, err = h.itemRepo.SearchPaginated(req.Context(), keyword, limit, offset)
	} else {
		items, total, err = h.itemRepo.GetPaginated(req.Context(), limit, offset)
	}
	if err != nil {
		writeServiceError(h.render, w, err)
		return
	}

	writeData(h.render, w, paginated{Items: items, TotalCount: total, Page: page, Limit: limit})
}

func (h *ItemHandler) ItemDetailGet(w http.ResponseWriter, req *http.Request) {
	id, err := strconv.Atoi(mux.Vars(req)["id"])
	if err != nil || id < 1 {
		writeBadRequest(h.render, w, "Invalid item id")
		return
	}

	item, err := h.itemRepo.GetByID(req.Context(), uint(id))
	if err != nil {
		writeServiceError(h.render, w, err)
		return
	}
	if item == nil {
		_ = h.render.JSON(w, http.StatusNotFound, map[string]string{
			"status":  "error",
			"message": "Item not found",
		})
		return
	}

	writeData(h.render, w, item)
}

func (h *ItemHandler) ItemCreatePost(w http.ResponseWriter, req *http.Request) {
	var form ItemForm
	if err := json.NewDecoder(req.Body).Decode(&form); err != nil {
		writeBadRequest(h.render, w, "Invalid request body")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		writeBadRequest(h.render, w, err.Error())
		return
	}

	item := &models.Item{
		Name:        form.Name,
		Slug:        slug.Make(form.Name),
		Thumbnail:   form.Thumbnail,
		Description: form.Description,
		Price:       form.Price,
		ImportPrice: form.ImportPrice,
		Stock:       form.Stock,
		IsActived:   true,
	}
	if form.IsActived != nil {
		item.IsActived = *form.IsActived
	}

	if err := h.itemRepo.Create(req.Context(), item); err != nil {
		writeServiceError(h.render, w, err)
		return
	}

	writeData(h.render, w, item)
}

func (h *ItemHandler) ItemUpdatePut(w http.ResponseWriter, req *http.Request) {
	id, err := strconv.Atoi(mux.Vars(req)["id"])
	if err != nil || id < 1 {
		writeBadRequest(h.render, w, "Invalid item id")
		return
	}

	var form ItemForm
	if err := json.NewDecoder(req.Body).Decode(&form); err != nil {
		writeBadRequest(h.render, w, "Invalid request body")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		writeBadRequest(h.render, w, err.Error())
		return
	}

	item, err := h.itemRepo.GetByID(req.Context(), uint(id))
	if err != nil {
		writeServiceError(h.render, w, err)
		return
	}
	if item == nil {
		_ = h.render.JSON(w, http.StatusNotFound, map[string]string{
			"status":  "error",
			"message": "Item not found",
		})
		return
	}

	item.Name = form.Name
	item.Slug = slug.Make(form.Name)
	item.Thumbnail = form.Thumbnail
	item.Description = form.Description
	item.Price = form.Price
	item.ImportPrice = form.ImportPrice
	item.Stock = form.Stock
	if form.IsActived != nil {
		item.IsActived = *form.IsActived
	}

	if err := h.itemRepo.Update(req.Context(), item); err != nil {
		writeServiceError(h.render, w, err)
		return
	}

	writeData(h.render, w, item)
}
