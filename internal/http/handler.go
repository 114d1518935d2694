package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"petgame-backend/internal/auth"
	"petgame-backend/internal/pkg/db"
	"petgame-backend/internal/service"
)

// Handler bundles the services behind the API.
type Handler struct {
	Auth         *service.AuthService
	Pets         *service.PetService
	Economy      *service.EconomyService
	Shop         *service.ShopService
	Missions     *service.MissionService
	Achievements *service.AchievementService
	Tokens       *auth.TokenManager
	DB           *db.Pool
}

// Router builds the gin engine with all routes mounted.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(), Metrics())

	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.POST("/auth/register", h.Register)
		api.POST("/auth/login", h.Login)
	}

	authed := api.Group("", Authenticated(h.Tokens))
	{
		authed.GET("/me", h.Profile)
		authed.GET("/me/economic", h.EconomicSummary)
		authed.GET("/me/cooldowns", h.Cooldowns)
		authed.GET("/me/transactions", h.Transactions)
		authed.POST("/me/daily-login", h.ClaimDailyLogin)
		authed.POST("/me/minigame", h.SubmitMinigame)

		authed.POST("/pets", h.CreatePet)
		authed.GET("/pets", h.ListPets)
		authed.GET("/pets/:id", h.GetPet)
		authed.DELETE("/pets/:id", h.DeletePet)
		authed.POST("/pets/:id/feed", h.FeedPet)
		authed.POST("/pets/:id/play", h.PlayPet)
		authed.POST("/pets/:id/ability", h.UseAbility)

		authed.GET("/shop/items", h.ListItems)
		authed.POST("/shop/purchase", h.Purchase)
		authed.GET("/inventory", h.Inventory)
		authed.POST("/inventory/use", h.UseItem)

		authed.GET("/missions", h.ListMissions)
		authed.POST("/missions/:code/complete", h.CompleteMission)
		authed.POST("/missions/:code/claim", h.ClaimMission)

		authed.GET("/achievements", h.ListAchievements)
		authed.POST("/achievements/:code/unlock", h.UnlockAchievement)
	}

	return r
}

// Health reports process and database liveness.
func (h *Handler) Health(c *gin.Context) {
	if err := h.DB.HealthCheck(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, envelope{Success: false, Message: "database unreachable"})
		return
	}
	respondOK(c, http.StatusOK, "ok", nil)
}
