package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/moises-herrera/social-network-backend/internal/handler"
	"github.com/moises-herrera/social-network-backend/internal/imagestore"
	"github.com/moises-herrera/social-network-backend/internal/push"
	"github.com/moises-herrera/social-network-backend/internal/rabbitmq"
	"github.com/moises-herrera/social-network-backend/internal/repository"
	"github.com/moises-herrera/social-network-backend/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if err := initEnv(); err != nil {
		logger.Sugar().Fatalf("failed to load environment variables: %s", err.Error())
	}

	if err := initConfig(); err != nil {
		logger.Sugar().Fatalf("failed to initialize yaml config: %s", err.Error())
	}

	db, err := pgxpool.New(ctx, os.Getenv("POSTGRES_URL"))
	if err != nil {
		logger.Sugar().Fatalf("failed to connect to postgres: %s", err.Error())
	}
	defer db.Close()

	if err := db.Ping(ctx); err != nil {
		logger.Sugar().Fatalf("failed to ping postgres: %s", err.Error())
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     os.Getenv("REDIS_ADDR"),
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	defer rdb.Close()

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Sugar().Fatalf("failed to ping redis: %s", err.Error())
	}

	mq, err := rabbitmq.Dial(os.Getenv("RABBITMQ_URL"))
	if err != nil {
		logger.Sugar().Fatalf("failed to connect to rabbitmq: %s", err.Error())
	}
	defer mq.Close()

	pushSender, err := push.New(ctx, os.Getenv("FIREBASE_CREDENTIALS_PATH"))
	if err != nil {
		logger.Sugar().Fatalf("failed to initialize push sender: %s", err.Error())
	}

	images, err := imagestore.New(imagestore.Config{
		Endpoint:  os.Getenv("MINIO_ENDPOINT"),
		AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		SecretKey: os.Getenv("MINIO_SECRET_KEY"),
		Bucket:    viper.GetString("minio.bucket"),
		UseSSL:    viper.GetBool("minio.ssl"),
	})
	if err != nil {
		logger.Sugar().Fatalf("failed to initialize image store: %s", err.Error())
	}

	repo := repository.New(db, rdb)
	services := service.New(logger, repo, mq, pushSender, images)
	handlers := handler.New(services)

	server := &http.Server{
		Addr:    ":" + viper.GetString("port"),
		Handler: handlers.InitRoutes(),
	}

	go func() {
		logger.Sugar().Infof("starting server on port %s", viper.GetString("port"))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("failed to start server: %s", err.Error())
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("failed to shut down server gracefully: %s", err.Error())
	}
}

func initEnv() error {
	return godotenv.Load(".env")
}

func initConfig() error {
	viper.AddConfigPath("./")
	viper.SetConfigType("yaml")
	viper.SetConfigName("app")
	return viper.ReadInConfig()
}
