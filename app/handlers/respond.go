package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"shop_backend/app/services"

	"github.com/unrolled/render"
)

type paginated struct {
	Items      interface{} `json:"items"`
	TotalCount int64       `json:"totalCount"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
}

func writeData(r *render.Render, w http.ResponseWriter, data interface{}) {
	_ = r.JSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   data,
	})
}

func writeMessage(r *render.Render, w http.ResponseWriter, message string) {
	_ = r.JSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": message,
	})
}

func writeBadRequest(r *render.Render, w http.ResponseWriter, message string) {
	_ = r.JSON(w, http.StatusBadRequest, map[string]string{
		"status":  "error",
		"message": message,
	})
}

// writeServiceError maps business failures onto HTTP statuses; anything not
// in the taxonomy is a 500 and only logged server-side.
func writeServiceError(r *render.Render, w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, services.ErrItemNotFound),
		errors.Is(err, services.ErrVoucherNotFound),
		errors.Is(err, services.ErrFlashSaleNotFound),
		errors.Is(err, services.ErrOrderNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, services.ErrOutOfStock),
		errors.Is(err, services.ErrFlashSaleSoldOut),
		errors.Is(err, services.ErrVoucherExhausted):
		status = http.StatusConflict
		message = err.Error()
	case errors.Is(err, services.ErrItemInactive),
		errors.Is(err, services.ErrVoucherExpired),
		errors.Is(err, services.ErrVoucherUserLimit),
		errors.Is(err, services.ErrVoucherCodeExists),
		errors.Is(err, services.ErrVoucherEnded),
		errors.Is(err, services.ErrVoucherNotUpcoming),
		errors.Is(err, services.ErrFlashSaleEnded),
		errors.Is(err, services.ErrFlashSaleNotUpcoming),
		errors.Is(err, services.ErrInvalidSaleWindow),
		errors.Is(err, services.ErrInvalidSalePrice),
		errors.Is(err, services.ErrOrderNotCancellable),
		errors.Is(err, services.ErrOrderNotRefundable),
		errors.Is(err, services.ErrEmailTaken):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, services.ErrInvalidCredentials):
		status = http.StatusUnauthorized
		message = err.Error()
	default:
		log.Printf("handler: unexpected error: %v", err)
	}

	_ = r.JSON(w, status, map[string]string{
		"status":  "error",
		"message": message,
	})
}

func parsePagination(req *http.Request) (page, limit, offset int) {
	page, _ = strconv.Atoi(req.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(req.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return page, limit, (page - 1) * limit
}
