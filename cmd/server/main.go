package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bank-reconciliation-engine/internal/config"
	handler "bank-reconciliation-engine/internal/handlers"
	"bank-reconciliation-engine/internal/models"
	"bank-reconciliation-engine/internal/provider"
	"bank-reconciliation-engine/internal/repository"
	"bank-reconciliation-engine/internal/routes"
	"bank-reconciliation-engine/internal/services/alerts"
	"bank-reconciliation-engine/internal/services/reconciliation"
	syncsvc "bank-reconciliation-engine/internal/services/sync"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on system env")
	}

	cfg := config.Load()
	db := config.InitDB()

	db.AutoMigrate(
		&models.Invoice{},
		&models.BankTransaction{},
		&models.Project{},
		&models.Reconciliation{},
		&models.AutomationLogEntry{},
		&models.Alert{},
	)

	transactionRepo := repository.NewBankTransactionRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	automationLogRepo := repository.NewAutomationLogRepository(db)
	alertRepo := repository.NewAlertRepository(db)
	reconciliationRepo := repository.NewReconciliationRepository(db)

	reconService := reconciliation.NewService(
		transactionRepo,
		invoiceRepo,
		projectRepo,
		alertRepo,
		reconciliationRepo,
	)

	providerClient := provider.NewClient(cfg.ProviderAPIURL, cfg.ProviderAPIToken)
	syncService := syncsvc.NewService(providerClient, transactionRepo, reconService)
	staleSweep := alerts.NewSweep(transactionRepo, automationLogRepo, alertRepo)

	syncService.Start()
	staleSweep.Start()

	webhookHandler := handler.NewWebhookHandler(cfg.WebhookSecret, transactionRepo, reconService)
	transactionHandler := handler.NewTransactionHandler(transactionRepo, reconService, syncService)

	r := gin.Default()
	// CORS config
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, webhookHandler, transactionHandler)

	go func() {
		if err := r.Run(":" + cfg.Port); err != nil {
			log.Fatalf("server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down background loops")
	syncService.Stop()
	staleSweep.Stop()
}
