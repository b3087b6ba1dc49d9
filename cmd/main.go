package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelBookingHandler "github.com/avdeevsm/SWB-AvailabilityService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/avdeevsm/SWB-AvailabilityService/internal/api/handlers/create_booking"
	getAppointmentHandler "github.com/avdeevsm/SWB-AvailabilityService/internal/api/handlers/get_appointment"
	getAvailableDatesHandler "github.com/avdeevsm/SWB-AvailabilityService/internal/api/handlers/get_available_dates"
	getAvailableSlotsHandler "github.com/avdeevsm/SWB-AvailabilityService/internal/api/handlers/get_available_slots"
	listAppointmentsHandler "github.com/avdeevsm/SWB-AvailabilityService/internal/api/handlers/list_appointments"
	prewarmCacheHandler "github.com/avdeevsm/SWB-AvailabilityService/internal/api/handlers/prewarm_cache"
	"github.com/avdeevsm/SWB-AvailabilityService/internal/api/middleware"
	"github.com/avdeevsm/SWB-AvailabilityService/internal/config"
	"github.com/avdeevsm/SWB-AvailabilityService/internal/infra/migrate"
	appointmentRepo "github.com/avdeevsm/SWB-AvailabilityService/internal/infra/storage/appointment"
	appointmentTypeRepo "github.com/avdeevsm/SWB-AvailabilityService/internal/infra/storage/appointmenttype"
	scheduleRepo "github.com/avdeevsm/SWB-AvailabilityService/internal/infra/storage/schedule"
	calendarServiceClient "github.com/avdeevsm/SWB-AvailabilityService/internal/integrations/calendarservice"
	notifyServiceClient "github.com/avdeevsm/SWB-AvailabilityService/internal/integrations/notifyservice"
	appointmentsService "github.com/avdeevsm/SWB-AvailabilityService/internal/service/appointments"
	availabilityService "github.com/avdeevsm/SWB-AvailabilityService/internal/service/availability"
	cancelBookingUC "github.com/avdeevsm/SWB-AvailabilityService/internal/usecase/cancel_booking"
	createBookingUC "github.com/avdeevsm/SWB-AvailabilityService/internal/usecase/create_booking"
	getAvailableDatesUC "github.com/avdeevsm/SWB-AvailabilityService/internal/usecase/get_available_dates"
	getAvailableSlotsUC "github.com/avdeevsm/SWB-AvailabilityService/internal/usecase/get_available_slots"
	prewarmCacheUC "github.com/avdeevsm/SWB-AvailabilityService/internal/usecase/prewarm_cache"
	"github.com/avdeevsm/SWB-AvailabilityService/pkg/cache"
	"github.com/avdeevsm/SWB-AvailabilityService/pkg/dbmetrics"
	"github.com/avdeevsm/SWB-AvailabilityService/pkg/logger"
	"github.com/avdeevsm/SWB-AvailabilityService/pkg/metrics"
	"github.com/avdeevsm/SWB-AvailabilityService/pkg/simpletxmanager"
	"github.com/avdeevsm/SWB-AvailabilityService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SWB-AvailabilityService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Применяем миграции (если включены)
	if cfg.Database.Migrate {
		if err := migrate.Up(context.Background(), db); err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
		version, err := migrate.Version(context.Background(), db)
		if err != nil {
			log.Fatal("Failed to read migration version: %v", err)
		}
		log.Info("Migrations applied, schema version=%d", version)
	}

	// Инициализируем интеграционных клиентов
	calendarClient := calendarServiceClient.NewClient(
		cfg.CalendarService.URL,
		time.Duration(cfg.CalendarService.Timeout)*time.Second,
		cfg.CalendarService.RetryAttempts,
		log,
	)
	notifyClient := notifyServiceClient.NewClient(
		cfg.NotifyService.URL,
		time.Duration(cfg.NotifyService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (CalendarService=%s timeout=%ds, NotifyService=%s timeout=%ds)",
		cfg.CalendarService.URL, cfg.CalendarService.Timeout, cfg.NotifyService.URL, cfg.NotifyService.Timeout)

	// Инициализируем кэш доступности
	var availabilityCache *cache.InMemory
	if cfg.Metrics.Enabled {
		availabilityCache = cache.NewInMemory(metricsCollector)
	} else {
		availabilityCache = cache.NewInMemory(cache.NopRecorder{})
	}

	// Фоновая очистка просроченных записей кэша
	stopSweepCh := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Duration(cfg.Cache.SweepMinutes) * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if removed := availabilityCache.Sweep(); removed > 0 {
					log.Info("Cache sweep removed %d expired entries", removed)
				}
			case <-stopSweepCh:
				return
			}
		}
	}()
	log.Info("Availability cache initialized (derived TTL=%dm, calendar TTL=%dm, sweep every %dm)",
		cfg.Cache.DerivedTTLMinutes, cfg.Cache.CalendarTTLMinutes, cfg.Cache.SweepMinutes)

	// Инициализируем репозитории и transaction manager (с метриками или без)
	var (
		appointmentRepository     *appointmentRepo.Repository
		appointmentTypeRepository *appointmentTypeRepo.Repository
		scheduleRepository        *scheduleRepo.Repository
	)

	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		appointmentTypeRepository = appointmentTypeRepo.NewRepository(wrappedDB)
		scheduleRepository = scheduleRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		appointmentRepository = appointmentRepo.NewRepository(db)
		appointmentTypeRepository = appointmentTypeRepo.NewRepository(db)
		scheduleRepository = scheduleRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	availabilitySvc := availabilityService.NewService(
		scheduleRepository,
		appointmentRepository,
		calendarClient,
		availabilityCache,
		time.Duration(cfg.Cache.CalendarTTLMinutes)*time.Minute,
		log,
	)
	appointmentsSvc := appointmentsService.NewService(appointmentRepository, scheduleRepository, log)

	derivedTTL := time.Duration(cfg.Cache.DerivedTTLMinutes) * time.Minute

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		appointmentRepository,
		appointmentTypeRepository,
		availabilitySvc,
		calendarClient,
		notifyClient,
		availabilityCache,
		txMgr,
		log,
	)
	cancelBookingUseCase := cancelBookingUC.NewUseCase(
		appointmentRepository,
		appointmentTypeRepository,
		scheduleRepository,
		calendarClient,
		notifyClient,
		availabilityCache,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		appointmentTypeRepository,
		availabilitySvc,
		availabilityCache,
		derivedTTL,
		log,
	)
	getAvailableDatesUseCase := getAvailableDatesUC.NewUseCase(
		appointmentTypeRepository,
		availabilitySvc,
		availabilityCache,
		derivedTTL,
		log,
	)
	prewarmCacheUseCase := prewarmCacheUC.NewUseCase(availabilitySvc, log)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	cancelBooking := cancelBookingHandler.NewHandler(cancelBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getAvailableDates := getAvailableDatesHandler.NewHandler(getAvailableDatesUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	listAppointments := listAppointmentsHandler.NewHandler(appointmentsSvc, log)
	prewarmCache := prewarmCacheHandler.NewHandler(prewarmCacheUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware и endpoint (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (путь виджета, без аутентификации)
	// ============================================================

	// Доступные даты для типа записи
	api.HandleFunc("/accounts/{accountId}/appointment-types/{typeId}/available-dates",
		getAvailableDates.Handle).Methods(http.MethodGet)

	// Доступные слоты на дату
	api.HandleFunc("/accounts/{accountId}/appointment-types/{typeId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Создание бронирования посетителем
	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Отмена записи: аккаунтом или посетителем с токеном управления
	tokenOrAuth := api.PathPrefix("").Subrouter()
	tokenOrAuth.Use(middleware.OptionalAuth(log))
	tokenOrAuth.HandleFunc("/appointments/{appointmentId}/cancel",
		cancelBooking.Handle).Methods(http.MethodPatch)

	// ============================================================
	// PROTECTED ROUTES (требуют X-Account-ID от доверенного шлюза)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(log))

	// Запись по ID
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)

	// Записи аккаунта с фильтрацией
	protected.HandleFunc("/accounts/{accountId}/appointments", listAppointments.Handle).Methods(http.MethodGet)

	// Прогрев под-кэша занятости календарей
	protected.HandleFunc("/accounts/{accountId}/cache/prewarm", prewarmCache.Handle).Methods(http.MethodPost)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем фоновую очистку кэша и сбор метрик
	close(stopSweepCh)
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
