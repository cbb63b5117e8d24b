package router

import (
	"github.com/0xshikhar/domie-service/internal/config"
	"github.com/0xshikhar/domie-service/internal/handler"
	"github.com/0xshikhar/domie-service/internal/logic"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(db *gorm.DB, transferor logic.Transferor, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	// 中间件
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "domie-service",
		})
	})

	// 业务逻辑
	adminAddr := cfg.Admin.Address
	treasuryLogic := logic.NewTreasuryLogic(db, transferor, adminAddr)
	dealLogic := logic.NewDealLogic(db, adminAddr)
	contributeLogic := logic.NewContributeLogic(db, treasuryLogic)
	shareLogic := logic.NewShareLogic(db, adminAddr)
	voteLogic := logic.NewVoteLogic(db)

	dealHandler := handler.NewDealHandler(dealLogic)
	contributeHandler := handler.NewContributeHandler(contributeLogic)
	governanceHandler := handler.NewGovernanceHandler(shareLogic, voteLogic)
	treasuryHandler := handler.NewTreasuryHandler(treasuryLogic)

	// API版本组
	v1 := r.Group("/api/v1")
	{
		deals := v1.Group("/deals")
		{
			deals.POST("", dealHandler.CreateDeal)
			deals.GET("", dealHandler.GetDeals)
			deals.GET("/:id", dealHandler.GetDeal)
			deals.DELETE("/:id", dealHandler.CancelDeal)
			deals.GET("/:id/stats", dealHandler.GetDealStats)

			deals.POST("/:id/contributions", contributeHandler.Contribute)
			deals.GET("/:id/contributions", contributeHandler.GetContributions)
			deals.GET("/:id/participants", contributeHandler.GetParticipants)
			deals.GET("/:id/participants/:address", contributeHandler.GetParticipant)
			deals.POST("/:id/refunds", contributeHandler.Refund)

			deals.POST("/:id/purchase", governanceHandler.ReportPurchase)
			deals.POST("/:id/fraction-token", governanceHandler.SetFractionalClaim)
			deals.POST("/:id/proposals/:proposalId/votes", governanceHandler.Vote)
			deals.GET("/:id/proposals/:proposalId", governanceHandler.GetTally)

			deals.POST("/:id/withdrawals", treasuryHandler.Withdraw)
		}

		v1.GET("/stats", dealHandler.GetServiceStats)

		admin := v1.Group("/admin")
		{
			admin.POST("/sweep", treasuryHandler.Sweep)
		}
	}

	return r
}

// CORS中间件
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
