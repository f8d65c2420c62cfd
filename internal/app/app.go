package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aidar/crm-notify/internal/config"
	"github.com/aidar/crm-notify/internal/handler"
	"github.com/aidar/crm-notify/internal/mailer"
	"github.com/aidar/crm-notify/internal/middleware"
	"github.com/aidar/crm-notify/internal/queue"
	"github.com/aidar/crm-notify/internal/repository/postgres"
	"github.com/aidar/crm-notify/internal/service"
)

// App представляет приложение со всеми зависимостями
type App struct {
	config      *config.Config
	db          *pgxpool.Pool
	queueClient *queue.Client
	worker      *queue.Worker
	server      *http.Server
	logger      *slog.Logger

	workerCancel context.CancelFunc
	workerDone   chan struct{}
}

// New создает новый экземпляр приложения
func New(cfg *config.Config) (*App, error) {
	// Инициализируем структурированный логгер (JSON формат)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	app := &App{
		config: cfg,
		logger: logger,
	}

	return app, nil
}

// Initialize инициализирует все компоненты приложения
func (a *App) Initialize(ctx context.Context) error {
	// Подключаемся к базе данных
	if err := a.connectDB(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Подключаемся к очереди задач
	if err := a.connectQueue(); err != nil {
		return fmt.Errorf("failed to connect to queue: %w", err)
	}

	// Настраиваем HTTP сервер, роутинг и воркер
	a.setupServer()

	a.logger.Info("Application initialized successfully")
	return nil
}

// connectDB устанавливает подключение к PostgreSQL с connection pool
func (a *App) connectDB(ctx context.Context) error {
	poolConfig, err := pgxpool.ParseConfig(a.config.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to parse database config: %w", err)
	}

	// Настраиваем размеры connection pool
	poolConfig.MaxConns = a.config.Database.MaxConns
	poolConfig.MinConns = a.config.Database.MinConns

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Проверяем подключение к БД
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	a.db = pool
	a.logger.Info("Connected to database")
	return nil
}

// connectQueue подключается к RabbitMQ и объявляет очередь уведомлений
func (a *App) connectQueue() error {
	client, err := queue.NewClient(a.config.Queue.URL)
	if err != nil {
		return err
	}

	if err := client.DeclareQueue(a.config.Queue.QueueName); err != nil {
		client.Close()
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	a.queueClient = client
	a.logger.Info("Connected to queue", "queue", a.config.Queue.QueueName)
	return nil
}

// setupServer инициализирует сервисы, HTTP роутер и воркер очереди
func (a *App) setupServer() {
	// Инициализируем слой репозиториев (работа с БД)
	userRepo := postgres.NewUserRepository(a.db)
	commentRepo := postgres.NewCommentRepository(a.db)
	teamRepo := postgres.NewTeamRepository(a.db)

	// Компоненты конвейера уведомлений
	tokens := service.NewTokenGenerator(a.config.App.TokenSecret, a.config.App.ActivationWindow())
	links := service.NewLinkBuilder(a.config.App.BaseURL)
	content := service.NewContentSelector(a.config.App.ProductName, a.config.App.BaseURL)
	renderer := mailer.NewRenderer()
	mail := mailer.NewFromConfig(a.config.SMTP, a.logger)

	dispatcher := service.NewDispatcher(
		userRepo,
		commentRepo,
		tokens,
		links,
		content,
		renderer,
		mail,
		a.config.App.DefaultFromEmail,
		a.logger,
	)

	// Публикация событий и воркер очереди
	publisher := queue.NewPublisher(a.queueClient, a.config.Queue.QueueName)
	a.worker = queue.NewWorker(a.queueClient, a.config.Queue.QueueName, dispatcher, a.logger)

	// Инициализируем слой сервисов (бизнес-логика)
	notifyService := service.NewNotifyService(publisher)
	userService := service.NewUserService(userRepo, tokens, notifyService)
	teamService := service.NewTeamService(teamRepo, userRepo)
	authService := service.NewAuthService(
		a.config.JWT.Secret,
		a.config.JWT.GetExpiration(),
		a.config.JWT.ClientID,
		a.config.JWT.ClientSecret,
	)
	statsService := service.NewStatsService(a.db)

	// Инициализируем HTTP обработчики
	authHandler := handler.NewAuthHandler(authService, userService)
	notifyHandler := handler.NewNotifyHandler(notifyService)
	userHandler := handler.NewUserHandler(userService)
	teamHandler := handler.NewTeamHandler(teamService)
	statsHandler := handler.NewStatsHandler(statsService)

	// Инициализируем middleware для сервисной авторизации
	authMiddleware := middleware.AuthMiddleware(authService)

	// Настраиваем роутер
	r := chi.NewRouter()

	// Глобальные middleware (применяются ко всем запросам)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// Публичные эндпоинты (без авторизации)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/token", authHandler.Token)
		// Форма пути повторяет ссылки из писем активации
		r.Get("/activate-user/{uid}/{token}/", authHandler.Activate)
		r.Get("/activate-user/{uid}/{token}", authHandler.Activate)
		r.Get("/activate_user/{uid}/{token}/{key}/", authHandler.Activate)
		r.Get("/activate_user/{uid}/{token}/{key}", authHandler.Activate)
	})

	// Health check для мониторинга
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			a.logger.Error("Failed to write health check response", "error", err)
		}
	})

	// Защищенные эндпоинты (требуют сервисный JWT в заголовке Authorization)
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)

		// Эндпоинты постановки уведомлений в очередь
		r.Post("/notify/registration", notifyHandler.Registration)
		r.Post("/notify/status", notifyHandler.StatusChange)
		r.Post("/notify/deletion", notifyHandler.Deletion)
		r.Post("/notify/mention", notifyHandler.Mention)
		r.Post("/notify/password-reset", notifyHandler.PasswordReset)
		r.Post("/notify/resend-activation", notifyHandler.ResendActivation)

		// Эндпоинты пользователей
		r.Post("/users/setIsActive", userHandler.SetIsActive)

		// Эндпоинты команд
		r.Post("/team/add", teamHandler.AddTeam)
		r.Get("/team/get", teamHandler.GetTeam)

		// Эндпоинты статистики
		r.Get("/stats", statsHandler.GetStats)
	})

	// Создаем HTTP сервер с настройками таймаутов
	addr := fmt.Sprintf("%s:%s", a.config.Server.Host, a.config.Server.Port)
	a.server = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	a.logger.Info("HTTP server configured", "addr", addr)
}

// Run запускает воркер очереди и HTTP сервер
func (a *App) Run() error {
	workerCtx, cancel := context.WithCancel(context.Background())
	a.workerCancel = cancel
	a.workerDone = make(chan struct{})

	go func() {
		defer close(a.workerDone)
		if err := a.worker.Run(workerCtx); err != nil {
			a.logger.Error("Worker stopped with error", "error", err)
		}
	}()

	a.logger.Info("Starting HTTP server", "addr", a.server.Addr)
	return a.server.ListenAndServe()
}

// Shutdown корректно останавливает приложение
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Shutting down application")

	// Останавливаем HTTP сервер (ждем завершения текущих запросов)
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	// Останавливаем воркер и ждем завершения текущего события
	if a.workerCancel != nil {
		a.workerCancel()
		select {
		case <-a.workerDone:
		case <-ctx.Done():
		}
	}

	// Закрываем подключение к очереди
	if a.queueClient != nil {
		if err := a.queueClient.Close(); err != nil {
			a.logger.Error("Failed to close queue connection", "error", err)
		}
	}

	// Закрываем подключения к базе данных
	if a.db != nil {
		a.db.Close()
	}

	a.logger.Info("Application stopped gracefully")
	return nil
}
