package routes

import (
	"net/http"

	"diary-app/src/interface/handler"
	"diary-app/src/logger"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Handlers bundles every HTTP handler of the API
type Handlers struct {
	Health   *handler.HealthHandler
	Todo     *handler.TodoHandler
	Calendar *handler.CalendarHandler
	Memo     *handler.MemoHandler
	Ledger   *handler.LedgerHandler
	Report   *handler.ReportHandler
	Weather  *handler.WeatherHandler
	Feed     *handler.FeedHandler
}

// SetupRoutes sets up all API routes; auth guards everything under /api
func SetupRoutes(r *gin.Engine, h Handlers, auth gin.HandlerFunc) {
	// NoRouteハンドラー（404）
	r.NoRoute(func(c *gin.Context) {
		logger.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"client_ip": c.ClientIP(),
		}).Warn("404: ルートが見つかりません")
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})

	r.GET("/health", h.Health.Health)

	api := r.Group("/api")
	api.Use(auth)

	// 毎日・毎月のTODO
	daily := api.Group("/daily-todos")
	{
		daily.GET("", h.Todo.ListDailyTodos)         // GET /api/daily-todos
		daily.POST("", h.Todo.CreateDailyTodo)       // POST /api/daily-todos
		daily.PATCH("/:id", h.Todo.UpdateDailyTodo)  // PATCH /api/daily-todos/:id
		daily.DELETE("/:id", h.Todo.DeleteDailyTodo) // DELETE /api/daily-todos/:id
	}
	monthly := api.Group("/monthly-todos")
	{
		monthly.GET("", h.Todo.ListMonthlyTodos)
		monthly.POST("", h.Todo.CreateMonthlyTodo)
		monthly.PATCH("/:id", h.Todo.UpdateMonthlyTodo)
		monthly.DELETE("/:id", h.Todo.DeleteMonthlyTodo)
	}

	// 期限付きタスクと特定日スケジュール
	deadline := api.Group("/deadline-tasks")
	{
		deadline.GET("", h.Todo.ListDeadlineTasks)
		deadline.POST("", h.Todo.CreateDeadlineTask)
		deadline.PATCH("/:id", h.Todo.UpdateDeadlineTask)
		deadline.DELETE("/:id", h.Todo.DeleteDeadlineTask)
	}
	schedules := api.Group("/schedules")
	{
		schedules.GET("", h.Todo.ListSchedules)
		schedules.POST("", h.Todo.CreateSchedule)
		schedules.PATCH("/:id", h.Todo.UpdateSchedule)
		schedules.DELETE("/:id", h.Todo.DeleteSchedule)
	}

	// カレンダーと完了記録
	calendar := api.Group("/calendar")
	{
		calendar.GET("/days/:date", h.Calendar.Day)
		calendar.GET("/months/:year/:month", h.Calendar.Month)
		calendar.GET("/pending", h.Calendar.PendingDeadlines)
	}
	api.GET("/completions", h.Calendar.ListCompletions)
	api.POST("/completions/toggle", h.Calendar.ToggleCompletion)

	// 日別メモ
	memos := api.Group("/memos")
	{
		memos.GET("", h.Memo.ListMemos)           // GET /api/memos?year=&month=
		memos.GET("/:date", h.Memo.GetMemo)       // GET /api/memos/:date
		memos.PUT("/:date", h.Memo.SaveMemo)      // PUT /api/memos/:date
		memos.DELETE("/:date", h.Memo.DeleteMemo) // DELETE /api/memos/:date
	}

	// 税金と決裁
	taxes := api.Group("/taxes")
	{
		taxes.GET("", h.Ledger.ListTaxes)
		taxes.POST("", h.Ledger.CreateTax)
		taxes.PUT("/:id", h.Ledger.UpdateTax)
		taxes.DELETE("/:id", h.Ledger.DeleteTax)
		taxes.PATCH("/:id/paid", h.Ledger.TogglePaid)
	}
	approvals := api.Group("/approvals")
	{
		approvals.GET("", h.Ledger.ListApprovals)
		approvals.POST("", h.Ledger.CreateApproval)
		approvals.PUT("/:id", h.Ledger.UpdateApproval)
		approvals.DELETE("/:id", h.Ledger.DeleteApproval)
		approvals.PATCH("/:id/invoice", h.Ledger.ToggleInvoice)
	}

	api.GET("/reports/:kind", h.Report.Download) // GET /api/reports/:kind?year=
	api.GET("/weather", h.Weather.Current)       // GET /api/weather?lat=&lon=
	api.GET("/feed/:table", h.Feed.Stream)       // server-sent events
}
