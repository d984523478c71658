package routes

import (
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/jonboulle/clockwork"
	"github.com/unrolled/render"
	"gorm.io/gorm"

	"shop_backend/app/configs"
	"shop_backend/app/handlers"
	"shop_backend/app/middlewares"
	"shop_backend/app/repositories"
	"shop_backend/app/services"
)

func NewRouter(db *gorm.DB) *mux.Router {
	env := configs.LoadENV

	renderer := render.New()
	validate := validator.New()
	clock := clockwork.NewRealClock()

	transactor := repositories.NewTransactor(db)
	userRepo := repositories.NewUserRepository(db)
	itemRepo := repositories.NewItemRepository(db)
	flashSaleRepo := repositories.NewFlashSaleRepository(db)
	voucherRepo := repositories.NewVoucherRepository(db)
	orderRepo := repositories.NewOrderRepository(db)

	mailer := services.NewMailer(services.MailConfig{
		Host:     env.EmailHost,
		Port:     env.EmailPort,
		Username: env.EmailUsername,
		Password: env.EmailPassword,
		From:     env.EmailFrom,
	})

	authSvc := services.NewAuthService(userRepo)
	pricingSvc := services.NewPricingService(itemRepo, voucherRepo, orderRepo, clock)
	orderSvc := services.NewOrderService(transactor, itemRepo, flashSaleRepo, voucherRepo, orderRepo, userRepo, pricingSvc, mailer, clock)
	voucherSvc := services.NewVoucherService(voucherRepo, clock)
	flashSaleSvc := services.NewFlashSaleService(flashSaleRepo, itemRepo, clock)

	authHandler := handlers.NewAuthHandler(renderer, authSvc, validate, env.JWTSecret)
	itemHandler := handlers.NewItemHandler(renderer, itemRepo, validate)
	flashSaleHandler := handlers.NewFlashSaleHandler(renderer, flashSaleSvc, validate)
	voucherHandler := handlers.NewVoucherHandler(renderer, voucherSvc, validate)
	orderHandler := handlers.NewOrderHandler(renderer, orderSvc, validate)

	router := mux.NewRouter()
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/auth/register", authHandler.RegisterPost).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.LoginPost).Methods("POST")

	api.HandleFunc("/items", itemHandler.ItemListGet).Methods("GET")
	api.HandleFunc("/items/{id:[0-9]+}", itemHandler.ItemDetailGet).Methods("GET")

	api.HandleFunc("/flash-sales", flashSaleHandler.FlashSaleListGet).Methods("GET")
	api.HandleFunc("/flash-sales/{id:[0-9]+}/items", flashSaleHandler.FlashSaleItemsGet).Methods("GET")

	authed := api.NewRoute().Subrouter()
	authed.Use(middlewares.AuthMiddleware(env.JWTSecret, renderer))

	authed.HandleFunc("/orders", orderHandler.CreateOrderPost).Methods("POST")
	authed.HandleFunc("/orders", orderHandler.OrderListGet).Methods("GET")
	authed.HandleFunc("/orders/{id}", orderHandler.OrderDetailGet).Methods("GET")
	authed.HandleFunc("/orders/cancel", orderHandler.CancelOrderPost).Methods("POST")
	authed.HandleFunc("/orders/refund", orderHandler.RefundOrderPost).Methods("POST")
	authed.HandleFunc("/vouchers/recommended", voucherHandler.RecommendedVouchersGet).Methods("GET")

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middlewares.AuthMiddleware(env.JWTSecret, renderer))
	admin.Use(middlewares.AdminMiddleware(renderer))

	admin.HandleFunc("/items", itemHandler.ItemCreatePost).Methods("POST")
	admin.HandleFunc("/items/{id:[0-9]+}", itemHandler.ItemUpdatePut).Methods("PUT")

	admin.HandleFunc("/flash-sales", flashSaleHandler.FlashSaleCreatePost).Methods("POST")
	admin.HandleFunc("/flash-sales/{id:[0-9]+}", flashSaleHandler.FlashSaleUpdatePut).Methods("PUT")
	admin.HandleFunc("/flash-sales/{id:[0-9]+}", flashSaleHandler.FlashSaleDelete).Methods("DELETE")

	admin.HandleFunc("/vouchers", voucherHandler.VoucherListGet).Methods("GET")
	admin.HandleFunc("/vouchers", voucherHandler.VoucherCreatePost).Methods("POST")
	admin.HandleFunc("/vouchers/{id:[0-9]+}", voucherHandler.VoucherDetailGet).Methods("GET")
	admin.HandleFunc("/vouchers/{id:[0-9]+}", voucherHandler.VoucherUpdatePut).Methods("PUT")
	admin.HandleFunc("/vouchers/{id:[0-9]+}", voucherHandler.VoucherDelete).Methods("DELETE")
	admin.HandleFunc("/vouchers/{id:[0-9]+}/end", voucherHandler.VoucherEndNowPost).Methods("POST")

	admin.HandleFunc("/orders", orderHandler.AdminOrderListGet).Methods("GET")
	admin.HandleFunc("/orders/status", orderHandler.UpdateOrderStatusPost).Methods("POST")

	return router
}
