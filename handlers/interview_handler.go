package handlers

import (
	"context"
	"errors"
	"net/http"

	"transparency-backend/auth"
	"transparency-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InterviewService is the part of the service layer the interview endpoints use
type InterviewService interface {
	SubmitAnswer(ctx context.Context, req service.SubmitAnswerRequest) (*service.SubmitAnswerResult, error)
	GenerateReport(ctx context.Context, req service.GenerateReportRequest) (*service.GenerateReportResult, error)
}

// InterviewHandler handles HTTP requests for product interviews
type InterviewHandler struct {
	interviewService InterviewService
}

// NewInterviewHandler creates a new interview handler
func NewInterviewHandler(interviewService InterviewService) *InterviewHandler {
	return &InterviewHandler{
		interviewService: interviewService,
	}
}

// AnswerRequest represents the request body for submitting an answer
type AnswerRequest struct {
	ChatID   string `json:"chatId" binding:"required"`
	QNo      int    `json:"qno"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// CreateChat handles POST /api/chats
func (h *InterviewHandler) CreateChat(c *gin.Context) {
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"chatId": uuid.NewString(),
		},
	})
}

// NextQuestion handles POST /api/dynamic-question
func (h *InterviewHandler) NextQuestion(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		respondError(c, auth.ErrUnauthenticated)
		return
	}

	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.Join(service.ErrInvalidRequest, err))
		return
	}

	result, err := h.interviewService.SubmitAnswer(c.Request.Context(), service.SubmitAnswerRequest{
		UserID:   userID,
		ChatID:   req.ChatID,
		QNo:      req.QNo,
		Question: req.Question,
		Answer:   req.Answer,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Question,
	})
}

// GenerateReport handles POST /api/generate-report
func (h *InterviewHandler) GenerateReport(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		respondError(c, auth.ErrUnauthenticated)
		return
	}

	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.Join(service.ErrInvalidRequest, err))
		return
	}

	result, err := h.interviewService.GenerateReport(c.Request.Context(), service.GenerateReportRequest{
		UserID:   userID,
		ChatID:   req.ChatID,
		QNo:      req.QNo,
		Question: req.Question,
		Answer:   req.Answer,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Report,
	})
}
