package router

import (
	"github.com/wb-go/wbf/ginext"

	"github.com/stagewave/notifier/internal/api/handlers/history"
	"github.com/stagewave/notifier/internal/api/handlers/notification"
)

func New(notifHandler *notification.Handler, historyHandler *history.Handler) *ginext.Engine {
	e := ginext.New()
	e.Use(ginext.Logger())
	e.Use(ginext.Recovery())

	api := e.Group("/api/notifications")

	api.POST("/", notifHandler.Schedule)
	api.GET("/:id", notifHandler.GetStatus)
	api.DELETE("/:id", notifHandler.Cancel)

	hist := e.Group("/api/history")

	hist.GET("/:userID", historyHandler.List)
	hist.GET("/:userID/unread", historyHandler.UnreadCount)
	hist.POST("/:userID/:id/read", historyHandler.MarkRead)

	return e
}
