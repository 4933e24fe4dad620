package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/karthik-ak-dev/fairwin-app-sub001/internal/config"
	"github.com/karthik-ak-dev/fairwin-app-sub001/internal/handlers"
	"github.com/karthik-ak-dev/fairwin-app-sub001/internal/middleware"
)

// SetupRouter builds the HTTP router. Read endpoints are public; every
// mutating endpoint sits behind admin JWT auth, because entries arrive
// from the payment collaborator and draws from operators or the
// scheduler, never from end users directly.
func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	raffleHandler *handlers.RaffleHandler,
	entryHandler *handlers.EntryHandler,
	payoutHandler *handlers.PayoutHandler,
	statsHandler *handlers.StatsHandler,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status": "ok",
			})
		})

		auth := public.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
		}

		raffles := public.Group("/raffles")
		{
			raffles.GET("", raffleHandler.GetRaffles)
			raffles.GET("/:id", raffleHandler.GetRaffleByID)
			raffles.GET("/:id/entries", entryHandler.GetRaffleEntries)
			raffles.GET("/:id/winners", raffleHandler.GetRaffleWinners)
			raffles.GET("/:id/verify", raffleHandler.VerifyDraw)
		}

		wallets := public.Group("/wallets")
		{
			wallets.GET("/:address/entries", entryHandler.GetWalletEntries)
			wallets.GET("/:address/winners", entryHandler.GetWalletWinners)
		}

		public.GET("/stats", statsHandler.GetPlatformStats)
	}

	// Protected routes
	protected := router.Group("/api/v1")
	protected.Use(middleware.JWTAuth(cfg))
	{
		raffles := protected.Group("/raffles")
		{
			raffles.POST("", raffleHandler.CreateRaffle)
			raffles.POST("/:id/cancel", raffleHandler.CancelRaffle)
			raffles.POST("/:id/draw", raffleHandler.ExecuteDraw)
		}

		protected.POST("/entries", entryHandler.SubmitEntry)

		payouts := protected.Group("/payouts")
		{
			payouts.GET("", payoutHandler.GetPayouts)
			payouts.POST("/:id/attempt", payoutHandler.RecordPayoutAttempt)
			payouts.POST("/sweep", payoutHandler.SweepPayouts)
		}
	}

	return router
}
