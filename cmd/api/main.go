package main

import (
	"os"

	"github.com/shamian84/college-appointment-system/internal/api"
	appointmentshandler "github.com/shamian84/college-appointment-system/internal/appointments/handler"
	"github.com/shamian84/college-appointment-system/internal/appointments/notifier"
	appointmentsrepository "github.com/shamian84/college-appointment-system/internal/appointments/repository"
	appointmentsservice "github.com/shamian84/college-appointment-system/internal/appointments/service"
	appointmentsvalidator "github.com/shamian84/college-appointment-system/internal/appointments/validator"
	availabilityhandler "github.com/shamian84/college-appointment-system/internal/availability/handler"
	availabilityrepository "github.com/shamian84/college-appointment-system/internal/availability/repository"
	availabilityservice "github.com/shamian84/college-appointment-system/internal/availability/service"
	availabilityvalidator "github.com/shamian84/college-appointment-system/internal/availability/validator"
	"github.com/shamian84/college-appointment-system/internal/health"
	usershandler "github.com/shamian84/college-appointment-system/internal/users/handler"
	usersrepository "github.com/shamian84/college-appointment-system/internal/users/repository"
	usersservice "github.com/shamian84/college-appointment-system/internal/users/service"
	usersvalidator "github.com/shamian84/college-appointment-system/internal/users/validator"
	"github.com/shamian84/college-appointment-system/pkg/app"
	"github.com/shamian84/college-appointment-system/pkg/auth"
	"github.com/shamian84/college-appointment-system/pkg/config"
	"github.com/shamian84/college-appointment-system/pkg/contracts"
	mongotx "github.com/shamian84/college-appointment-system/pkg/db/mongo"
	"github.com/shamian84/college-appointment-system/pkg/kafka"
	kafkaconfig "github.com/shamian84/college-appointment-system/pkg/kafka/config"
	kafkamiddleware "github.com/shamian84/college-appointment-system/pkg/kafka/middleware"
	"github.com/shamian84/college-appointment-system/pkg/middleware"
)

const ServiceName = "appointments-api"

func main() {
	cfg := config.Load(ServiceName)
	if err := cfg.Validate(); err != nil {
		cfg.Log.Error(err.Error())
		os.Exit(1)
	}
	cfg.LogConfiguration()
	cfg.SetMongo()

	cfg.Log.Info("Starting appointments API")
	serverApp := app.NewApplication(cfg)

	appointmentNotifier, stop := initNotifier(cfg)
	serverApp.OnShutdown(stop)

	serverApp.SetApp(initRouter(cfg, appointmentNotifier), health.NewHandler(cfg.Client.Mongo, cfg.Log))
	serverApp.Run()
}

func initRouter(cfg *config.Config, appointmentNotifier notifier.Notifier) *api.Router {
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	userService := usersservice.NewUserService(
		usersrepository.NewMongoUserRepository(cfg),
		usersvalidator.NewUserValidator(),
		tokens,
		cfg,
	)

	availabilityRepo := availabilityrepository.NewMongoAvailabilityRepository(cfg)
	availabilityService := availabilityservice.NewAvailabilityService(
		availabilityRepo,
		availabilityvalidator.NewAvailabilityValidator(),
		cfg,
	)

	appointmentService := appointmentsservice.NewAppointmentService(
		appointmentsrepository.NewMongoAppointmentRepository(cfg),
		availabilityRepo,
		userService,
		appointmentNotifier,
		mongotx.NewManager(cfg.Client.Mongo, cfg.MongoUseTransactions),
		appointmentsvalidator.NewAppointmentValidator(),
		cfg,
	)

	cfg.Log.Info("Services initialized",
		"database", cfg.MongoDatabaseName,
		"transactions", cfg.MongoUseTransactions,
	)

	return api.NewRouter(
		usershandler.NewUserHandler(userService, cfg.Log),
		availabilityhandler.NewAvailabilityHandler(availabilityService, cfg.Log),
		appointmentshandler.NewAppointmentHandler(appointmentService, cfg.Log),
		middleware.NewAuthenticator(tokens, cfg.Log),
	)
}

// initNotifier publishes to Kafka when enabled and logs notifications otherwise.
func initNotifier(cfg *config.Config) (notifier.Notifier, contracts.Stopper) {
	noop := contracts.StopFunc(func() {})

	kafkaCfg, err := kafkaconfig.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log)

	if !kafkaCfg.Enabled {
		cfg.Log.Info("Kafka disabled, notifications are logged only")
		return notifier.NewLogNotifier(cfg.Log), noop
	}

	producer, err := kafka.NewProducer(kafkaCfg, cfg.Log, kafkaCfg.NotificationsTopic, kafkaCfg.NotificationsDLQTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}

	metrics := &kafkamiddleware.Metrics{}
	if kafkaCfg.EnableMiddleware {
		producer.Use(kafkamiddleware.LoggingProducerMiddleware(cfg.Log))
		producer.Use(kafkamiddleware.MetricsProducerMiddleware(metrics))
	}

	stop := contracts.StopFunc(func() {
		cfg.Log.Info("Notification publisher metrics", metrics.Snapshot().LogAttrs()...)
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka producer", "error", err)
		}
	})
	return notifier.NewKafkaNotifier(producer, cfg.Log), stop
}
