package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/example/fitgear/internal/config"
	"github.com/example/fitgear/internal/database"
	"github.com/example/fitgear/internal/events"
	"github.com/example/fitgear/internal/routes"
	"github.com/example/fitgear/internal/search"
)

func main() {
	cfg := config.Load()
	db := database.Connect(cfg.DatabaseURL)

	producer := events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer producer.Close()

	searchClient, err := search.NewClient(cfg.ElasticsearchURL)
	if err != nil {
		log.Printf("Elasticsearch unavailable, search disabled: %v", err)
	}

	app := fiber.New(fiber.Config{
		AppName: "FitGear Backend",
	})

	app.Use(recover.New())
	app.Use(logger.New())

	routes.Register(app, db, cfg, producer, searchClient)

	log.Printf("Starting server on :%s", cfg.AppPort)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatalf("fiber.Listen error: %v", err)
	}
}
