package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/ignatzorin/arbitration-backend/internal/config"
	"github.com/ignatzorin/arbitration-backend/internal/db"
	"github.com/ignatzorin/arbitration-backend/internal/domain/repository"
	"github.com/ignatzorin/arbitration-backend/internal/domain/valueobject"
	"github.com/ignatzorin/arbitration-backend/internal/goroutine"
	httpHandlers "github.com/ignatzorin/arbitration-backend/internal/http/handlers"
	httpRouter "github.com/ignatzorin/arbitration-backend/internal/http/router"
	"github.com/ignatzorin/arbitration-backend/internal/infrastructure/ballot"
	"github.com/ignatzorin/arbitration-backend/internal/infrastructure/oracle"
	"github.com/ignatzorin/arbitration-backend/internal/infrastructure/persistence"
	"github.com/ignatzorin/arbitration-backend/internal/infrastructure/token"
	"github.com/ignatzorin/arbitration-backend/internal/interface/http/handler"
	"github.com/ignatzorin/arbitration-backend/internal/logger"
	"github.com/ignatzorin/arbitration-backend/internal/observability"
	"github.com/ignatzorin/arbitration-backend/internal/pkg/apperror"
	"github.com/ignatzorin/arbitration-backend/internal/service"
	"github.com/ignatzorin/arbitration-backend/internal/usecase/arbitration"
	"github.com/ignatzorin/arbitration-backend/internal/usecase/transfer"
	"github.com/ignatzorin/arbitration-backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	lg := logger.Init(cfg.Env, cfg.LogLevel)

	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("main: ошибка подключения к хранилищу: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			lg.WithError(err).Warn("main: ошибка закрытия хранилища")
		}
	}()

	settings, err := config.LoadContractParams(cfg.ContractParamsPath)
	if err != nil {
		log.Fatalf("main: %v", err)
	}

	// Внешние сервисы.
	var priceOracle repository.PriceOracle = oracle.Fixed(cfg.OracleFixedMedian)
	if cfg.OracleURL != "" {
		priceOracle = oracle.NewClient(cfg.OracleURL, cfg.UpstreamTimeout)
	}

	var ballots repository.BallotService
	if cfg.BallotURL != "" {
		ballots = ballot.NewClient(cfg.BallotURL, cfg.BallotAccount, cfg.BallotToken, cfg.UpstreamTimeout)
	} else {
		fee, err := valueobject.ParseAsset(cfg.BallotFee)
		if err != nil {
			log.Fatalf("main: некорректный BALLOT_FEE %q: %v", cfg.BallotFee, err)
		}
		ballots = ballot.NewBoard(cfg.BallotAccount, fee)
		lg.Warn("main: BALLOT_URL не задан, используется локальная доска голосования")
	}

	metrics := observability.Arbitration()

	// Вебсокеты.
	hub := ws.NewHub()
	goroutine.SafeGoWithContext(ctx, "ws_hub", hub.Run)

	engine := arbitration.NewEngine(store, priceOracle, ballots, cfg.ContractAccount,
		arbitration.WithNotifier(hub),
		arbitration.WithMetrics(metrics),
		arbitration.WithInitSettings(settings),
		arbitration.WithLogger(lg),
	)

	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	authService := service.NewAuthService(store, tokenManager, cfg.ContractAccount)

	bootstrapContract(ctx, cfg, engine, authService)

	if cfg.TokenLedgerURL != "" {
		ledgerClient := token.NewClient(cfg.TokenLedgerURL, cfg.TokenLedgerToken, cfg.UpstreamTimeout)
		transfer.NewWorker(store, ledgerClient, cfg.TransferPollInterval, metrics).Start(ctx)
	} else {
		lg.Warn("main: TOKEN_LEDGER_URL не задан, исходящие переводы остаются в очереди")
	}

	// HTTP хэндлеры.
	authHandler := httpHandlers.NewAuthHandler(authService)
	healthHandler := httpHandlers.NewHealthHandler(store, cfg.StorageDriver)
	wsHandler := httpHandlers.NewWSHandler(hub, tokenManager, cfg.AllowedOrigins)
	arbitrationHandler := handler.NewArbitrationHandler(engine, arbitration.NewQueries(store))

	router := httpRouter.SetupRouter(cfg, authHandler, healthHandler, wsHandler, arbitrationHandler, tokenManager)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Завершаем сервер при получении сигнала.
	goroutine.SafeGo("http_shutdown", func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.WithError(err).Error("main: ошибка остановки http сервера")
		}
	})

	lg.WithField("port", cfg.HTTPPort).Info("main: HTTP сервер запущен")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

func openStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	if cfg.StorageDriver == config.StoragePostgres {
		conn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := db.RunMigrations(ctx, conn, cfg.MigrationsPath); err != nil {
			_ = conn.Close()
			return nil, err
		}
		return persistence.NewPostgresStore(conn), nil
	}

	store, err := persistence.NewBoltStore(cfg.BoltPath, nil)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// bootstrapContract регистрирует администратора и выполняет init от имени контракта при первом запуске.
func bootstrapContract(ctx context.Context, cfg *config.Config, engine *arbitration.Engine, auth *service.AuthService) {
	lg := logger.Get()

	if cfg.ContractAdminPassword != "" {
		if err := auth.EnsurePrincipal(ctx, cfg.ContractAdmin, cfg.ContractAdminPassword); err != nil {
			lg.WithError(err).Warn("main: не удалось зарегистрировать администратора контракта")
			return
		}
	}

	_, err := engine.Do(ctx, engine.Self(), arbitration.InitParams{InitialAdmin: cfg.ContractAdmin})
	switch {
	case err == nil:
		lg.WithField("admin", cfg.ContractAdmin).Info("main: контракт инициализирован")
	case errors.Is(err, apperror.ErrAlreadyInitialized):
	default:
		lg.WithError(err).Warn("main: init не выполнен, контракт можно инициализировать вручную")
	}
}
