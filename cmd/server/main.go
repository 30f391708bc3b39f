package main

import (
	"context"
	"log"

	"github.com/dkoval/companyportal/internal/server"
	"github.com/dkoval/companyportal/internal/server/config"
)

func main() {
	cfg := config.LoadConfig()

	app, err := server.NewApp(cfg)
	if err != nil {
		log.Printf("server init failed: %v", err)
		return
	}

	app.Run(context.Background())
}
