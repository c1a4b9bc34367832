package main

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	httpadp "horizon-backend/internal/adapter/http"
	"horizon-backend/internal/adapter/middleware"
	"horizon-backend/internal/adapter/repository/mysql"
	"horizon-backend/internal/config"
	capUC "horizon-backend/internal/usecase/captable"
	dashUC "horizon-backend/internal/usecase/dashboard"
	integUC "horizon-backend/internal/usecase/integrity"
	invUC "horizon-backend/internal/usecase/investor"
	payUC "horizon-backend/internal/usecase/payment"
	roundUC "horizon-backend/internal/usecase/round"

	"horizon-backend/internal/infrastructure/cache"
	"horizon-backend/internal/infrastructure/db"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}
	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}

	repos := mysql.NewRepos(gdb)
	tx := mysql.NewGormUoW(gdb)
	syncer := capUC.NewSyncer()

	rounds := roundUC.NewUsecase(tx, repos, syncer)
	investors := invUC.NewUsecase(tx, repos, syncer)
	payments := payUC.NewUsecase(tx, syncer)
	integrity := integUC.NewUsecase(tx, repos, syncer)
	dashboard := dashUC.NewUsecase(repos)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())
	e.Use(middleware.IdempotencyMiddleware(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second))

	httpadp.RegisterRoutes(e, httpadp.Handlers{
		Health:    httpadp.NewHandler(),
		Rounds:    httpadp.NewRoundHandler(rounds, integrity),
		Investors: httpadp.NewInvestorHandler(investors),
		Payments:  httpadp.NewPaymentHandler(payments, investors),
		Dashboard: httpadp.NewDashboardHandler(dashboard),
	}, middleware.TenantContext())

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
