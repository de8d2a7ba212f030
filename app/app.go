package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"webnova-cotizador/app/controller"
	"webnova-cotizador/app/router"
	"webnova-cotizador/config"
	"webnova-cotizador/db"
	"webnova-cotizador/models"
	"webnova-cotizador/quotation"
	"webnova-cotizador/repository"
	"webnova-cotizador/service"
)

// rateFetchTimeout bounds each request to a public rate feed
const rateFetchTimeout = 10 * time.Second

// App holds the wired application and the pieces main drives
type App struct {
	Handler   http.Handler
	State     *quotation.State
	Autosaver *quotation.Autosaver
	Rates     *service.ExchangeRateService
}

// Initialize initializes the application
func Initialize(ctx context.Context, cfg config.Config) (*App, error) {
	// Database is optional: without it the vault answers 503 and rates are never persisted
	var (
		quotationRepo repository.QuotationRepositoryInterface
		rateRepo      repository.ExchangeRateRepositoryInterface
		logRepo       repository.InferenceLogRepositoryInterface
	)
	if cfg.DatabaseDSN != "" {
		if err := db.InitDB(ctx, cfg.DatabaseDSN); err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		if cfg.Migrations {
			if err := db.RunMigrations(); err != nil {
				return nil, fmt.Errorf("failed to run migrations: %w", err)
			}
		}
		quotationRepo = repository.NewQuotationRepository()
		rateRepo = repository.NewExchangeRateRepository()
		logRepo = repository.NewInferenceLogRepository()
	} else {
		log.Printf("⚠️  No database configured, quotation vault disabled")
	}

	// Working quotation, restored from the recovery store
	store := quotation.NewFileStore(cfg.RecoveryDir)
	state := quotation.Restore(store)
	autosaver := quotation.NewAutosaver(store, cfg.AutosaveDelay)
	state.OnChange(autosaver.Notify)

	fetcher := service.NewLiveRateFetcher(cfg.ExchangeRateURLs, rateFetchTimeout)
	rates := service.NewExchangeRateService(rateRepo, fetcher, cfg.ExchangeRateDefault, cfg.ExchangeRateRefreshInterval)

	company := models.CompanyInfo{
		Name:    cfg.CompanyName,
		Tagline: cfg.CompanyTagline,
		Email:   cfg.CompanyEmail,
		Phone:   cfg.CompanyPhone,
	}
	if cfg.CompanyLogoPath != "" {
		logo, err := service.LoadLogoDataURI(cfg.CompanyLogoPath)
		if err != nil {
			log.Printf("⚠️  Company logo not loaded: %v", err)
		} else {
			company.LogoData = logo
		}
	}

	var archiver service.DocumentArchiver
	if cfg.DriveArchiveFolderID != "" {
		if cfg.GoogleCredentials == "" {
			log.Printf("⚠️  DRIVE_ARCHIVE_FOLDER_ID is set but GOOGLE_APPLICATION_CREDENTIALS is not, archive disabled")
		} else {
			drive, err := service.NewDriveArchiver(ctx, cfg.GoogleCredentials, cfg.DriveArchiveFolderID)
			if err != nil {
				return nil, err
			}
			archiver = drive
		}
	}
	documents := service.NewDocumentService(company, rates, cfg.ChromePath, cfg.PDFTimeout, archiver)

	completion := service.NewCompletionClient(cfg.AIGatewayURL, cfg.AIAPIKey, cfg.AIModels, cfg.AITemperature, cfg.AIMaxTokens, cfg.AITimeout)
	advisor := service.NewAdvisoryService(completion, logRepo, rates, state)

	var vault *service.QuotationService
	if quotationRepo != nil {
		vault = service.NewQuotationService(quotationRepo, rates)
	}

	controllers := &router.Controllers{
		Quotation:    controller.NewQuotationController(state, rates, cfg.CompanyName),
		Document:     controller.NewDocumentController(documents, state),
		Vault:        controller.NewVaultController(vault, state),
		Advisory:     controller.NewAdvisoryController(advisor),
		ExchangeRate: controller.NewExchangeRateController(rates),
	}

	return &App{
		Handler:   router.SetupRoutes(controllers),
		State:     state,
		Autosaver: autosaver,
		Rates:     rates,
	}, nil
}
