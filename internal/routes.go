package internal

import (
	"net/http"

	"github.com/ejfox/dispatch-obsidian/internal/controllers"
	"github.com/ejfox/dispatch-obsidian/internal/providers"
	"github.com/ejfox/dispatch-obsidian/internal/structures"
)

func InitRoutes(apiController *controllers.ApiController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/status", http.HandlerFunc(apiController.GetStatus))
	routers.Get("/queue", http.HandlerFunc(apiController.GetQueue))
	routers.Post("/queue/mark", http.HandlerFunc(apiController.MarkReady))
	routers.Post("/queue/unmark", http.HandlerFunc(apiController.UnmarkReady))
	routers.Get("/streaks", http.HandlerFunc(apiController.GetStreaks))
	routers.Get("/session", http.HandlerFunc(apiController.GetSession))
	routers.Get("/onthisday", http.HandlerFunc(apiController.GetOnThisDay))
	routers.Get("/drafts/random", http.HandlerFunc(apiController.GetRandomDraft))
	routers.Post("/posts", http.HandlerFunc(apiController.CreatePost))
	routers.Post("/posts/visibility", http.HandlerFunc(apiController.ToggleVisibility))
	routers.Post("/posts/password", http.HandlerFunc(apiController.SetPassword))
	return routers
}
