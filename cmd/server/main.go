package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/VyacheslavYnsk/RefactoringFinal/internal/config"
	"github.com/VyacheslavYnsk/RefactoringFinal/internal/database"
	"github.com/VyacheslavYnsk/RefactoringFinal/internal/handler"
	"github.com/VyacheslavYnsk/RefactoringFinal/internal/queue"
	"github.com/VyacheslavYnsk/RefactoringFinal/internal/repository"
	"github.com/VyacheslavYnsk/RefactoringFinal/internal/router"
	"github.com/VyacheslavYnsk/RefactoringFinal/internal/service"
	"github.com/VyacheslavYnsk/RefactoringFinal/internal/worker"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable, cache and rate limiting disabled")
	}

	// Repositories.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	films := repository.NewFilmRepo(db)
	halls := repository.NewHallRepo(db)
	seats := repository.NewSeatRepo(db)
	categories := repository.NewSeatCategoryRepo(db)
	sessions := repository.NewSessionRepo(db)
	tickets := repository.NewTicketRepo(db)
	purchases := repository.NewPurchaseRepo(db)
	payments := repository.NewPaymentRepo(db)
	reviews := repository.NewReviewRepo(db)

	// Services.
	txr := database.TxRunner{DB: db}
	ticketSvc := service.NewTicketService(tickets, categories, txr, cfg.ReservationTTL)
	purchaseSvc := service.NewPurchaseService(purchases, tickets, txr, cfg.ReservationTTL)
	paymentSvc := service.NewPaymentService(payments, purchases, tickets, users, txr,
		queue.Publisher{URL: cfg.AMQPURL})

	// Background workers: expiration sweeper and mail consumer.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go worker.NewSweeper(tickets, cfg.SweepInterval).Run(ctx)
	go func() {
		if err := queue.StartPurchaseConsumer(cfg.AMQPURL); err != nil {
			log.Printf("purchase consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	router.Register(e, cfg, router.Handlers{
		Auth:       handler.NewAuthHandler(cfg, users, tokens),
		Users:      handler.NewUserHandler(users),
		Films:      handler.NewFilmHandler(films),
		Halls:      handler.NewHallHandler(halls, seats),
		Categories: handler.NewCategoryHandler(categories),
		Sessions:   handler.NewSessionHandler(sessions, films, halls, seats, ticketSvc),
		Tickets:    handler.NewTicketHandler(ticketSvc),
		Purchases:  handler.NewPurchaseHandler(purchaseSvc),
		Payments:   handler.NewPaymentHandler(paymentSvc),
		Reviews:    handler.NewReviewHandler(reviews, films),
	}, rdb)

	addr := ":" + cfg.Port
	go func() {
		log.Printf("listening on %s (env=%s)", addr, cfg.Env)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
