package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"golang.org/x/text/language"

	"github.com/jhoicas/stock-ledger-api/docs"
	"github.com/jhoicas/stock-ledger-api/internal/application/analytics"
	"github.com/jhoicas/stock-ledger-api/internal/application/auth"
	"github.com/jhoicas/stock-ledger-api/internal/application/ledger"
	"github.com/jhoicas/stock-ledger-api/internal/application/usecase"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/events"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/stock-ledger-api/internal/infrastructure/pdf"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/xmlexport"
	httpRouter "github.com/jhoicas/stock-ledger-api/internal/interfaces/http"
	"github.com/jhoicas/stock-ledger-api/pkg/config"
	"github.com/jhoicas/stock-ledger-api/pkg/logger"
)

// storage repositorios y runner transaccional del adaptador elegido.
type storage struct {
	products  repository.ProductRepository
	companies repository.CompanyRepository
	stock     repository.StockEntryRepository
	movements repository.StockMovementRepository
	users     repository.UserRepository
	txRunner  ledger.TxRunner
	close     func()
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.Storage.Driver == config.StorageDriverMemory {
		log.Warn().Msg("almacenamiento en memoria: los datos no sobreviven reinicios")
		store := memory.NewStore()
		return &storage{
			products:  store.Products(),
			companies: store.Companies(),
			stock:     store.StockEntries(),
			movements: store.Movements(),
			users:     store.Users(),
			txRunner:  memory.NewTxRunner(store),
			close:     func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	return &storage{
		products:  postgres.NewProductRepository(pool),
		companies: postgres.NewCompanyRepository(pool),
		stock:     postgres.NewStockEntryRepository(pool),
		movements: postgres.NewStockMovementRepository(pool),
		users:     postgres.NewUserRepository(pool),
		txRunner:  postgres.NewTxRunner(pool, cfg.Ledger.TxMaxRetries, log.Named("tx")),
		close:     pool.Close,
	}, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	st, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión al almacenamiento")
	}
	defer st.close()

	// Eventos de stock: WebSocket siempre, RabbitMQ si AMQP_URL está definido.
	hub := events.NewHub(log.Named("ws"))
	go hub.Run(ctx)
	publishers := events.MultiPublisher{hub}
	if cfg.AMQP.Enabled() {
		amqpPub, err := events.DialAMQP(ctx, cfg.AMQP, log.Named("amqp"))
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a RabbitMQ")
		}
		defer amqpPub.Close()
		publishers = append(publishers, amqpPub)
	}

	companyUC := usecase.NewCompanyUseCase(st.companies)
	productUC := usecase.NewProductUseCase(st.products)
	ledgerUC := ledger.NewLedgerUseCase(st.txRunner, st.products, st.companies, st.movements,
		ledger.WithPublisher(publishers),
		ledger.WithLogger(log.Named("ledger")),
	)
	stockUC := analytics.NewStockReportUseCase(st.products, st.stock).
		WithRenderer(analytics.FormatPDF, infrapdf.NewStockReportRenderer(cfg.App.Name, language.BrazilianPortuguese)).
		WithRenderer(analytics.FormatXML, xmlexport.NewStockReportRenderer(2))
	authUC := auth.NewAuthUseCase(st.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Named("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Stock Ledger API",
	}))
	app.Get("/api/openapi.json", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.SendString(docs.SwaggerInfo.ReadDoc())
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "ws_clients": hub.Clients()})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CompanyUC: companyUC,
		ProductUC: productUC,
		LedgerUC:  ledgerUC,
		StockUC:   stockUC,
		AuthUC:    authUC,
		Hub:       hub,
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	stop()

	log.Info().Msg("aplicación detenida")
}
