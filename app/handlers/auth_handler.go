package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"shop_backend/app/helpers"
	"shop_backend/app/services"

	"github.com/go-playground/validator/v10"
	"github.com/unrolled/render"
)

type AuthHandler struct {
	render    *render.Render
	authSvc   *services.AuthService
	validator *validator.Validate
	jwtSecret string
}

func NewAuthHandler(r *render.Render, authSvc *services.AuthService, validator *validator.Validate, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		render:    r,
		authSvc:   authSvc,
		validator: validator,
		jwtSecret: jwtSecret,
	}
}

type RegisterForm struct {
	Username string `json:"username" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"omitempty,min=9,max=15"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) RegisterPost(w http.ResponseWriter, req *http.Request) {
	var form RegisterForm
	if err := json.NewDecoder(req.Body).Decode(&form); err != nil {
		writeBadRequest(h.render, w, "Invalid request body")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		writeBadRequest(h.render, w, err.Error())
		return
	}

	user, err := h.authSvc.Register(req.Context(), form.Username, form.Email, form.Phone, form.Password)
	if err != nil {
		writeServiceError(h.render, w, err)
		return
	}

	writeData(h.render, w, user)
}

func (h *AuthHandler) LoginPost(w http.ResponseWriter, req *http.Request) {
	var form LoginForm
	if err := json.NewDecoder(req.Body).Decode(&form); err != nil {
		writeBadRequest(h.render, w, "Invalid request body")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		writeBadRequest(h.render, w, err.Error())
		return
	}

	user, err := h.authSvc.Login(req.Context(), form.Email, form.Password)
	if err != nil {
		writeServiceError(h.render, w, err)
		return
	}

	token, err := helpers.GenerateToken(h.jwtSecret, user.ID, user.Role, 24*time.Hour)
	if err != nil {
		writeServiceError(h.render, w, err)
		return
	}

	writeData(h.render, w, map[string]interface{}{
		"accessToken": token,
		"user":        user,
	})
}
