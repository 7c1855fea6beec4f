package internal

import (
	"net/http"

	"rvd/internal/controllers"
	"rvd/internal/providers"
	"rvd/internal/structures"
)

func InitRoutes(apiController *controllers.ApiController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/reports", http.HandlerFunc(apiController.GetReports))
	routers.Get("/channels", http.HandlerFunc(apiController.GetChannels))
	return routers
}
