package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/mkhomytsya/table-reservation/internal/config"
	"github.com/mkhomytsya/table-reservation/internal/database"
	"github.com/mkhomytsya/table-reservation/internal/handler"
	"github.com/mkhomytsya/table-reservation/internal/queue"
	"github.com/mkhomytsya/table-reservation/internal/repository"
	"github.com/mkhomytsya/table-reservation/internal/router"
	"github.com/mkhomytsya/table-reservation/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and caching disabled")
	}

	// Background consumer records reservation events to logs/.
	go queue.StartReservationConsumer()

	store := repository.NewReservationStore(db)
	booking := service.NewBooking(store)

	authHandler := handler.NewAuthHandler(cfg, repository.NewUserRepo(db))
	tableHandler := handler.NewTableHandler(repository.NewTableRepo(db))
	reservationHandler := handler.NewReservationHandler(booking)

	e := echo.New()
	router.Register(e, cfg, rdb, authHandler, tableHandler, reservationHandler)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
