package main

import (
	"salonhub/internal/catalog/handler"
	"salonhub/internal/catalog/repository"
	"salonhub/internal/catalog/service"
	"salonhub/internal/catalog/validator"
	"salonhub/pkg/app"
	"salonhub/pkg/config"
)

const ServiceName = "catalog"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Catalog service")
	catalogService := initServices(cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewCatalogHandler(catalogService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.CatalogService {
	serviceValidator := validator.NewServiceValidator(cfg.Log)
	serviceRepo := repository.NewMongoServiceRepository(cfg)
	catalogService := service.NewCatalogService(
		serviceRepo,
		serviceValidator,
		cfg,
	)

	cfg.Log.Info("Catalog service initialized", "database", cfg.MongoDatabaseName)
	return catalogService
}
