package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"horarios/internal/api"
	"horarios/internal/auth"
	"horarios/internal/config"
	"horarios/internal/geo"
	"horarios/internal/holidays"
	"horarios/internal/repository"
	"horarios/internal/service"
	"horarios/internal/timezone"
)

func main() {
	godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal("DATABASE_URL not set")
	}
	database, err := sql.Open("postgres", dbURL)
	if err != nil {
		logger.Fatal("Failed to open DB", zap.Error(err))
	}
	if err := database.Ping(); err != nil {
		logger.Fatal("Failed to connect to DB", zap.Error(err))
	}

	providerTimeout := cfg.ProviderTimeout()
	holidayClient := holidays.NewClient(cfg.Providers.HolidaysBaseURL, cfg.Providers.HolidaysAPIKey, providerTimeout, logger)
	geocoder := geo.NewGeocodeClient(cfg.Providers.GeocoderBaseURL, providerTimeout, logger)
	tzLookup := geo.NewTimezoneClient(cfg.Providers.TimezoneBaseURL, providerTimeout, logger)
	resolver := timezone.NewResolver(geocoder, tzLookup, cfg.Timezone.CacheSize, logger)

	timetableRepo := repository.NewTimetableRepository(database)
	holidayRepo := repository.NewHolidayRepository(database)
	adminAuthRepo := repository.NewAdminAuthRepository(database)

	holidaySvc := service.NewHolidayService(holidayClient, holidayRepo, cfg.Locales, logger)
	timetableSvc := service.NewTimetableService(timetableRepo, holidaySvc, resolver,
		cfg.Locales, cfg.Country.Default, cfg.GenerateTimeout(), logger)
	adminAuthSvc := service.NewAdminAuthService(adminAuthRepo)
	jobSvc := service.NewJobService(timetableRepo, holidaySvc, cfg.GenerateTimeout(), logger)

	timetableHandler := api.NewTimetableHandler(timetableSvc)
	adminHandler := api.NewAdminHandler(timetableSvc)
	adminAuthHandler := api.NewAdminAuthHandler(adminAuthSvc)

	c := cron.New()
	if _, err := c.AddFunc(cfg.Jobs.HolidayRefreshCron, jobSvc.RefreshHolidayCalendars); err != nil {
		logger.Fatal("Failed to schedule holiday refresh", zap.Error(err))
	}
	c.Start()
	defer c.Stop()

	r := mux.NewRouter()

	// Public endpoints
	r.HandleFunc("/api/timetables/{key}/open-now", timetableHandler.OpenNow).Methods("GET")
	r.HandleFunc("/api/timetables/{key}/open-at", timetableHandler.OpenAt).Methods("POST")
	r.HandleFunc("/api/timetables/{key}/open-on", timetableHandler.OpenOn).Methods("GET")
	r.HandleFunc("/api/timetables/{key}/next-open-block", timetableHandler.NextOpenBlock).Methods("GET")
	r.HandleFunc("/api/timetables/{key}/day-planning", timetableHandler.DayPlanning).Methods("GET")
	r.HandleFunc("/api/admin/login", adminAuthHandler.Login).Methods("POST")

	// Admin endpoints (protected)
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(auth.AdminAuthMiddleware)
	admin.HandleFunc("/users", adminAuthHandler.CreateUserAdmin).Methods("POST")
	admin.HandleFunc("/timetables", adminHandler.ListTimeTables).Methods("GET")
	admin.HandleFunc("/timetables", adminHandler.CreateTimeTable).Methods("POST")
	admin.HandleFunc("/timetables/{key}", adminHandler.UpdateTimeTable).Methods("PUT")
	admin.HandleFunc("/timetables/{key}/blocks", adminHandler.AddTimeBlock).Methods("POST")
	admin.HandleFunc("/timetables/{key}/blocks/{id}", adminHandler.DeleteTimeBlock).Methods("DELETE")
	admin.HandleFunc("/timetables/{key}/holidays/{id}", adminHandler.SetHolidayOverride).Methods("PUT")
	admin.HandleFunc("/timetables/{key}/holidays/regenerate", adminHandler.RegenerateHolidays).Methods("POST")

	cors := handlers.CORS(
		handlers.AllowedOrigins(cfg.Server.AllowedOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	logger.Info("Server running", zap.String("port", port))
	if err := http.ListenAndServe(":"+port, handlers.LoggingHandler(os.Stdout, cors(r))); err != nil {
		logger.Fatal("Server stopped", zap.Error(err))
	}
}
