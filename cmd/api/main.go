package main

import (
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/nidhishshastri/loyalty-gateway/internal/config"
	"github.com/nidhishshastri/loyalty-gateway/internal/handlers"
	"github.com/nidhishshastri/loyalty-gateway/internal/queue"
	"github.com/nidhishshastri/loyalty-gateway/internal/repository"
	"github.com/nidhishshastri/loyalty-gateway/internal/services"
	xhttp "github.com/nidhishshastri/loyalty-gateway/pkg/http"
	"github.com/nidhishshastri/loyalty-gateway/pkg/logger"
	"github.com/nidhishshastri/loyalty-gateway/pkg/pg"
	"github.com/nidhishshastri/loyalty-gateway/pkg/redis"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {

	err := config.Load(argContainsEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}

	// transport (tcp for now)
	s := xhttp.NewServer(xhttp.DefaultServerOption)
	s.Server.ReadBufferSize = 1024 * 16
	s.Server.WriteBufferSize = 1024 * 16
	s.Use(xhttp.CompressMiddleware(6))
	s.Use(xhttp.TimeoutMiddleware(time.Second * 5))
	s.Use(xhttp.RequestLoggerMiddleware)
	s.Use(xhttp.RecoverMiddleware)
	s.Router = xhttp.CreateDefaultRouter()

	readConf := pg.Config{
		User:     config.Get().PostgresReadUser,
		Host:     config.Get().PostgresReadHost,
		Port:     config.Get().PostgresReadPort,
		Password: config.Get().PostgresReadPassword,
		Database: config.Get().PostgresReadDatabase,
	}
	writeConf := pg.Config{
		User:     config.Get().PostgresWriteUser,
		Host:     config.Get().PostgresWriteHost,
		Port:     config.Get().PostgresWritePort,
		Password: config.Get().PostgresWritePassword,
		Database: config.Get().PostgresWriteDatabase,
	}

	pgDebug := false
	if config.Get().AppEnv == "dev" {
		pgDebug = true
	}
	db, err := pg.CreateReadWrite(readConf, writeConf, pgDebug)
	if err != nil {
		logger.Error("failed connecting to pg", "error", err)
		return
	}

	redisAdap, err := redis.NewRedisAdapter("default", config.Get().RedisUniversalKeyPrefix, &redis.Options{
		Addrs:      []string{config.Get().RedisAddr},
		ClientName: "default",
		DB:         config.Get().RedisDatabase,
		Username:   config.Get().RedisUsername,
		Password:   config.Get().RedisPassword,
	})
	if err != nil {
		logger.Error("failed connecting to redis", "error", err)
		return
	}

	events, err := queue.NewQueue(redisAdap, queue.QueueConfig{
		Name:              config.Get().EventStreamName,
		ConsumerGroup:     config.Get().EventConsumerGroup,
		ConsumerName:      config.Get().EventConsumerName,
		MaxRetries:        config.Get().EventMaxRetries,
		VisibilityTimeout: config.Get().EventVisibilityTimeout,
		PollInterval:      config.Get().EventPollInterval,
		BatchSize:         config.Get().EventBatchSize,
		MaxLen:            config.Get().EventStreamMaxLen,
		EnableDLQ:         config.Get().EventEnableDLQ,
	})
	if err != nil {
		logger.Error("failed creating event stream", "error", err)
		return
	}

	customerRepo := repository.NewCustomerRepository(db)
	giftRepo := repository.NewGiftRepository(db)
	redemptionRepo := repository.NewRedemptionRepository(db)

	// services
	customerService := services.NewCustomerService(customerRepo)
	giftService := services.NewGiftService(giftRepo)
	redemptionService := services.NewRedemptionService(customerRepo, giftRepo, redemptionRepo, events)
	reportService := services.NewReportService(redemptionRepo)
	healthService := services.NewHealthService()

	// v1 handlers
	customerHandler := handlers.NewCustomerHandler(customerService)
	giftHandler := handlers.NewGiftHandler(giftService)
	redemptionHandler := handlers.NewRedemptionHandler(redemptionService, customerService)
	reportHandler := handlers.NewReportHandler(reportService)
	healthHandler := handlers.NewHealthHandler(healthService)

	g := s.Router.Group("/api/v1")
	handlers.RegisterCustomerRoutes(g, customerHandler)
	handlers.RegisterGiftRoutes(g, giftHandler)
	handlers.RegisterRedemptionRoutes(g, redemptionHandler)
	handlers.RegisterReportRoutes(g, reportHandler)
	handlers.RegisterHealthRoutes(g, healthHandler)

	// Create new server
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Kill)

	go func() {
		var err = s.ListenAndServe(config.Get().HttpListenAddr)
		if err != nil {
			logger.Error("error in running http-server", "error", err)
		}
	}()

	select {
	case <-c:
		s.Shutdown()
	}
}

func argContainsEnvPath() string {
	for _, v := range os.Args {
		if strings.Contains(v, "--env=") {
			s := strings.Split(v, "=")
			if _, err := os.Open(s[1]); err != nil {
				logger.Error("failed to open the passed env file, got error" + err.Error())
				return ""
			}
			return s[1]
		}
	}
	return ""
}
