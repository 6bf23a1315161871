package main

import (
	stdLog "log"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"

	"github.com/libhub/library-service/app"
	"github.com/libhub/library-service/config"
)

// @title        Library Management API
// @version      1.0
// @description  User accounts, book catalog and borrow/return tracking.
//
// @securityDefinitions.apikey Bearer
// @in   header
// @name Authorization
func main() {
	if err := godotenv.Load(); err != nil {
		stdLog.Print("load envs from .env ", err)
	}
	cfg := config.NewConfig(
		config.WithLogLevel(zapcore.DebugLevel),
		config.WithWriteTimeout(time.Minute),
	)

	app.Run(cfg)
}
