package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"gitlab.com/dirk.krummacker/contacts-book/internal/config"
	"gitlab.com/dirk.krummacker/contacts-book/internal/logger"
	"gitlab.com/dirk.krummacker/contacts-book/internal/service"
	"gitlab.com/dirk.krummacker/contacts-book/internal/storage"
)

// Usage example on the command line:
// > PORT=8080 CONTACTS_FILE=../contacts/data.bin GIN_MODE=release GIN_LOGGING=OFF go run main.go
// > CONTACTS_STORAGE=mysql DBUSER=dirk DBPWD=bullo92 go run main.go
func main() {
	cfg, err := config.Load(os.Getenv("CONTACTS_CONFIG"))
	if err != nil {
		fmt.Println("could not load configuration", err)
		panic(err)
	}
	log, err := logger.New(cfg.Logging)
	if err != nil {
		fmt.Println("could not initialize logger", err)
		panic(err)
	}
	defer log.Sync()

	gateway, err := storage.Open(context.Background(), cfg.Storage)
	if err != nil {
		log.Fatal("could not open storage", zap.String("backend", cfg.Storage.Backend), zap.Error(err))
	}
	defer gateway.Close()

	router := service.New(gateway, log, time.Now).SetupHttpRouter(cfg.Service)
	address := ":" + strconv.Itoa(cfg.Service.Port)
	log.Info("serving contacts", zap.String("address", address))
	if err := router.Run(address); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
