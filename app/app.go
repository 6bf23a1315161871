package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/libhub/library-service/config"
	"github.com/libhub/library-service/internal/handler"
	"github.com/libhub/library-service/internal/repository"
	"github.com/libhub/library-service/internal/server"
	"github.com/libhub/library-service/internal/service"
	"github.com/libhub/library-service/migrations"
	"github.com/libhub/library-service/pkg/crypt"
	"github.com/libhub/library-service/pkg/kafka"
	"github.com/libhub/library-service/pkg/logger"
	"github.com/libhub/library-service/pkg/postgres"
)

func Run(cfg *config.Config) {
	log := logger.NewLogger(cfg.Log, "library")
	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		log.Fatal("db init", zap.Error(err))
	}

	userRepo, err := repository.NewUserRepository(db, log)
	if err != nil {
		log.Fatal("user repo", zap.Error(err))
	}
	bookRepo, err := repository.NewBookRepository(db, log)
	if err != nil {
		log.Fatal("book repo", zap.Error(err))
	}
	borrowingRepo, err := repository.NewBorrowingRepository(db, log)
	if err != nil {
		log.Fatal("borrowing repo", zap.Error(err))
	}

	cipher, err := crypt.New(cfg.Notes.Key)
	if err != nil {
		log.Fatal("notes cipher", zap.Error(err))
	}

	userSvc := service.NewUserService(userRepo, cipher, []byte(cfg.JWT.Secret), cfg.JWT.TTL, log)
	bookSvc := service.NewBookService(bookRepo, borrowingRepo, log)
	borrowingSvc := service.NewBorrowingService(borrowingRepo, log)

	enqueuer := handler.NewNopEnqueuer()
	if cfg.Kafka.Enabled() {
		producer, err := kafka.NewProducer(cfg.Kafka)
		if err != nil {
			log.Fatal("kafka.NewProducer", zap.Error(err))
		}
		defer producer.Close() //nolint:errcheck
		enqueuer = handler.NewEnqueuer(producer)
	}

	h := handler.New(userSvc, bookSvc, borrowingSvc, enqueuer, []byte(cfg.JWT.Secret), log)
	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
	go func() {
		if err := srv.Run(); err != nil {
			log.Error("server run", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))

	closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = srv.Stop(closeCtx); err != nil {
		log.DPanic("srv.Stop", zap.Error(err))
	}
	db.Close()
	log.Info("Graceful shutdown finished")
}
