package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"prosps/backend/config"
	"prosps/backend/internal/api/handler"
	"prosps/backend/internal/api/middleware"
	"prosps/backend/internal/model"
	"prosps/backend/internal/service"
	"prosps/backend/pkg/jwt"
)

// maxBodyBytes 全局请求体上限 (10MB，含导入文件上传)
const maxBodyBytes = 10 << 20

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, blacklist service.TokenBlacklist, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(maxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	adminOnly := middleware.RoleAuth(model.RoleAdmin)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, blacklist, logger))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// 仪表盘（协调员看到的统计限定为自己的任务与报告）
			authorized.GET("/dashboard/stats", h.Dashboard.GetStats)

			// 用户模块（仅管理员）
			users := authorized.Group("/users", adminOnly)
			{
				users.GET("", h.User.ListUsers)
				users.POST("", h.User.CreateUser)
				users.GET("/coordinators", h.User.ListCoordinators)
				users.GET("/:id", h.User.GetUser)
				users.PUT("/:id", h.User.UpdateUser)
				users.PUT("/:id/toggle-active", h.User.ToggleUserActive)
			}

			// 任务模块
			missions := authorized.Group("/missions")
			{
				missions.GET("", h.Mission.ListMissions)
				missions.POST("", adminOnly, h.Mission.CreateMission)
				missions.POST("/import", adminOnly, h.Mission.ImportMissions)
				missions.GET("/dispatch", adminOnly, h.Mission.ListDispatchMissions)
				missions.GET("/calendar.ics", h.Mission.ExportCalendar)
				missions.GET("/:id", h.Mission.GetMission)
				missions.PUT("/:id/assign", adminOnly, h.Mission.AssignMission)
				missions.PUT("/:id/status", h.Mission.UpdateMissionStatus)
			}

			// 报告模块
			rapports := authorized.Group("/rapports")
			{
				rapports.GET("", h.Rapport.ListRapports)
				rapports.GET("/:id", h.Rapport.GetRapport)
				rapports.PUT("/:id", adminOnly, h.Rapport.UpdateRapport)
				rapports.PUT("/:id/validate", adminOnly, h.Rapport.ValidateRapport)
				rapports.POST("/:id/send", adminOnly, h.Rapport.SendRapport)
			}

			// 巡视模块
			authorized.GET("/visits/:id", h.Visit.GetVisit)

			// 操作日志（仅管理员）
			authorized.GET("/activity-logs", adminOnly, h.ActivityLog.ListActivityLogs)
		}
	}

	return r
}
