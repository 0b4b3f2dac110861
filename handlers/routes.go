package handlers

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the API endpoints on a router group that already enforces
// authentication
func RegisterRoutes(api gin.IRoutes, interview *InterviewHandler, reports *ReportHandler) {
	// Interview endpoints
	api.POST("/chats", interview.CreateChat)
	api.POST("/dynamic-question", interview.NextQuestion)
	api.POST("/generate-report", interview.GenerateReport)

	// Report endpoints
	api.GET("/recents", reports.ListRecents)
	api.GET("/recent/:chatId", reports.GetReport)
	api.GET("/recent/:chatId/pdf", reports.DownloadReport)
	api.DELETE("/recent/:chatId", reports.DeleteReport)
}
