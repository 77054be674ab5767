package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/matchbook/internal/audit"
	auditStore "github.com/MrJamesThe3rd/matchbook/internal/audit/store"
	"github.com/MrJamesThe3rd/matchbook/internal/config"
	"github.com/MrJamesThe3rd/matchbook/internal/database"
	matchbookHttp "github.com/MrJamesThe3rd/matchbook/internal/http"
	reconcileHandler "github.com/MrJamesThe3rd/matchbook/internal/http/reconcile"
	txHandler "github.com/MrJamesThe3rd/matchbook/internal/http/transaction"
	orderStore "github.com/MrJamesThe3rd/matchbook/internal/order/store"
	"github.com/MrJamesThe3rd/matchbook/internal/reconcile"
	reconcileStore "github.com/MrJamesThe3rd/matchbook/internal/reconcile/store"
	"github.com/MrJamesThe3rd/matchbook/internal/transaction"
	txStore "github.com/MrJamesThe3rd/matchbook/internal/transaction/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString(), database.Pool{
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var (
		auditor = audit.NewLogger(auditStore.New(db))
		orders  = orderStore.New(db)
		scorer  = reconcile.NewScorer()
		finder  = reconcile.NewFinder(orders, cfg.Reconcile.CandidateLimit)
		engine  = reconcile.NewEngine(finder, scorer)

		transactionService = transaction.NewService(txStore.New(db))
		workflow           = reconcile.NewWorkflow(reconcileStore.New(db), orders, engine, scorer, auditor)
	)

	var (
		transactionH = txHandler.NewHandler(transactionService, auditor)
		reconcileH   = reconcileHandler.NewHandler(workflow, engine, transactionService)
	)

	router := matchbookHttp.New(transactionH, reconcileH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port)

	server := &http.Server{
		Addr:         port,
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	if err := server.ListenAndServe(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
