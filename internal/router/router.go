package router

import (
	"github.com/LaGodxy/NovaFund/internal/handler"
	"github.com/LaGodxy/NovaFund/internal/logic"
	"github.com/gin-gonic/gin"
)

func Setup(
	stateLogic *logic.StateLogic,
	projectLogic *logic.ProjectLogic,
	contributeLogic *logic.ContributeLogic,
	settlementLogic *logic.SettlementLogic,
) *gin.Engine {
	r := gin.New()

	// 中间件
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "novafund",
		})
	})

	// API版本组
	v1 := r.Group("/api/v1")
	{
		stateHandler := handler.NewStateHandler(stateLogic)
		v1.POST("/initialize", stateHandler.Initialize)
		v1.GET("/state", stateHandler.GetState)

		// 项目相关路由
		projectHandler := handler.NewProjectHandler(projectLogic)
		contributeHandler := handler.NewContributeHandler(contributeLogic)
		settlementHandler := handler.NewSettlementHandler(settlementLogic, projectLogic)
		projects := v1.Group("/projects")
		{
			projects.POST("", projectHandler.CreateProject)
			projects.GET("", projectHandler.GetProjects)
			projects.GET("/:id", projectHandler.GetProject)
			projects.POST("/:id/contribute", contributeHandler.Contribute)
			projects.GET("/:id/contributions/:address", contributeHandler.GetUserContribution)
			projects.POST("/:id/settle", settlementHandler.Settle)
			projects.GET("/:id/settlement", settlementHandler.GetSettlement)
			projects.POST("/:id/refunds", settlementHandler.Refund)
			projects.GET("/:id/refunds/:address", settlementHandler.IsRefunded)
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
