package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"transparency-backend/models"
	"transparency-backend/render"
	"transparency-backend/repository"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrGenerationFailed = errors.New("report generation failed")
	ErrReportNotFound   = errors.New("report not found")
	ErrInvalidRequest   = errors.New("invalid request")
)

// InterviewService runs product interviews and manages the resulting reports
type InterviewService struct {
	qaRepo     repository.QuestionAnswerRepository
	reportRepo repository.ReportRepository
	recentRepo repository.RecentRepository
	generator  Generator
	assembler  *render.Assembler
	logger     *zap.Logger
}

// InterviewServiceOption is a functional option for InterviewService
type InterviewServiceOption func(*InterviewService)

// WithQuestionAnswerRepository sets the interview turn repository
func WithQuestionAnswerRepository(repo repository.QuestionAnswerRepository) InterviewServiceOption {
	return func(s *InterviewService) {
		s.qaRepo = repo
	}
}

// WithReportRepository sets the report repository
func WithReportRepository(repo repository.ReportRepository) InterviewServiceOption {
	return func(s *InterviewService) {
		s.reportRepo = repo
	}
}

// WithRecentRepository sets the report listing repository
func WithRecentRepository(repo repository.RecentRepository) InterviewServiceOption {
	return func(s *InterviewService) {
		s.recentRepo = repo
	}
}

// WithGenerator sets the question and report generator
func WithGenerator(g Generator) InterviewServiceOption {
	return func(s *InterviewService) {
		s.generator = g
	}
}

// WithAssembler sets the PDF assembler
func WithAssembler(a *render.Assembler) InterviewServiceOption {
	return func(s *InterviewService) {
		s.assembler = a
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) InterviewServiceOption {
	return func(s *InterviewService) {
		s.logger = logger
	}
}

// NewInterviewService creates a new interview service
func NewInterviewService(opts ...InterviewServiceOption) *InterviewService {
	s := &InterviewService{
		assembler: render.NewAssembler(),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SubmitAnswerRequest represents an answered question. A request with QNo 0 and no
// question starts the interview without storing a turn.
type SubmitAnswerRequest struct {
	UserID   string `validate:"required"`
	ChatID   string `json:"chatId" validate:"required"`
	QNo      int    `json:"qno" validate:"gte=0"`
	Question string `json:"question" validate:"required_with=Answer"`
	Answer   string `json:"answer"`
}

func (r SubmitAnswerRequest) starting() bool {
	return r.QNo == 0 && strings.TrimSpace(r.Question) == ""
}

func (r SubmitAnswerRequest) turn() *models.QuestionAnswer {
	return &models.QuestionAnswer{
		UserID:   r.UserID,
		ChatID:   r.ChatID,
		QNo:      r.QNo,
		Question: r.Question,
		Answer:   r.Answer,
	}
}

// SubmitAnswerResult represents the next question of the interview
type SubmitAnswerResult struct {
	Question *models.Question
}

// SubmitAnswer stores the answered turn and asks the generator for the next question
func (s *InterviewService) SubmitAnswer(ctx context.Context, req SubmitAnswerRequest) (*SubmitAnswerResult, error) {
	if err := s.requireGeneration(); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if !req.starting() && (req.QNo < 1 || strings.TrimSpace(req.Question) == "") {
		return nil, fmt.Errorf("%w: qno and question are required", ErrInvalidRequest)
	}

	history, err := s.recordTurn(ctx, req)
	if err != nil {
		return nil, err
	}

	question, err := s.generator.NextQuestion(ctx, history)
	if err != nil {
		s.logger.Error("Failed to generate next question",
			zap.String("chat_id", req.ChatID),
			zap.Int("qno", req.QNo),
			zap.Error(err),
		)
		return nil, asGenerationError(err)
	}

	return &SubmitAnswerResult{Question: question}, nil
}

// GenerateReportRequest represents the final answered question of an interview
type GenerateReportRequest struct {
	UserID   string `validate:"required"`
	ChatID   string `json:"chatId" validate:"required"`
	QNo      int    `json:"qno" validate:"gte=1"`
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer"`
}

// GenerateReportResult represents a stored report
type GenerateReportResult struct {
	Report   *models.Report
	Document render.ReportDocument
}

// GenerateReport stores the final turn, generates the report from the whole interview
// and saves it together with its listing entry
func (s *InterviewService) GenerateReport(ctx context.Context, req GenerateReportRequest) (*GenerateReportResult, error) {
	if err := s.requireGeneration(); err != nil {
		return nil, err
	}
	if s.reportRepo == nil || s.recentRepo == nil {
		return nil, errors.New("report repositories not set")
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	history, err := s.recordTurn(ctx, SubmitAnswerRequest(req))
	if err != nil {
		return nil, err
	}

	generated, err := s.generator.GenerateReport(ctx, history)
	if err != nil {
		s.logger.Error("Failed to generate report",
			zap.String("chat_id", req.ChatID),
			zap.Int("turns", len(history)),
			zap.Error(err),
		)
		return nil, asGenerationError(err)
	}

	report := &models.Report{
		UserID:            req.UserID,
		ChatID:            req.ChatID,
		ReportName:        generated.ReportName,
		TransparencyScore: generated.TransparencyScore,
		ReportSummary:     strings.Join(generated.ReportSummary, "\n"),
		Report:            strings.Join(generated.Report, "\n"),
	}
	if err := s.reportRepo.Save(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to save report: %w", err)
	}

	recent := &models.Recent{
		UserID:     req.UserID,
		ChatID:     req.ChatID,
		ReportName: report.ReportName,
	}
	if err := s.recentRepo.Save(ctx, recent); err != nil {
		return nil, fmt.Errorf("failed to save recent entry: %w", err)
	}

	s.logger.Info("Report generated",
		zap.String("chat_id", req.ChatID),
		zap.String("report_name", report.ReportName),
		zap.Float64("transparency_score", report.TransparencyScore),
	)

	return &GenerateReportResult{Report: report, Document: documentOf(report)}, nil
}

// ListReportsRequest represents a request for a user's reports
type ListReportsRequest struct {
	UserID string
}

// ListReportsResult represents a user's reports, newest first
type ListReportsResult struct {
	Recents []models.Recent
}

// ListReports returns the report listing of a user
func (s *InterviewService) ListReports(ctx context.Context, req ListReportsRequest) (*ListReportsResult, error) {
	if s.recentRepo == nil {
		return nil, errors.New("recent repository not set")
	}
	if req.UserID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidRequest)
	}

	recents, err := s.recentRepo.ListByUser(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return &ListReportsResult{Recents: recents}, nil
}

// GetReportDetailRequest represents a request for one report
type GetReportDetailRequest struct {
	UserID string
	ChatID string
}

// GetReportDetailResult represents a report and its interview
type GetReportDetailResult struct {
	Detail *models.ReportDetail
}

// GetReportDetail returns a report together with the questions and answers behind it
func (s *InterviewService) GetReportDetail(ctx context.Context, req GetReportDetailRequest) (*GetReportDetailResult, error) {
	if s.qaRepo == nil {
		return nil, errors.New("question answer repository not set")
	}

	report, err := s.report(ctx, req.UserID, req.ChatID)
	if err != nil {
		return nil, err
	}

	turns, err := s.qaRepo.ListByChat(ctx, req.UserID, req.ChatID)
	if err != nil {
		return nil, fmt.Errorf("failed to load interview: %w", err)
	}
	for i := range turns {
		turns[i].UserID = ""
		turns[i].ChatID = ""
	}

	return &GetReportDetailResult{Detail: &models.ReportDetail{
		ReportName:        report.ReportName,
		TransparencyScore: report.TransparencyScore,
		ReportSummary:     report.ReportSummary,
		Report:            report.Report,
		QuesAndAns:        turns,
		CreatedAt:         report.CreatedAt,
	}}, nil
}

// DeleteReportRequest represents a request to delete a report
type DeleteReportRequest struct {
	UserID string
	ChatID string
}

// DeleteReportResult represents the result of deleting a report
type DeleteReportResult struct{}

// DeleteReport removes the interview, the report and its listing entry. Deleting a
// chat that does not exist succeeds.
func (s *InterviewService) DeleteReport(ctx context.Context, req DeleteReportRequest) (*DeleteReportResult, error) {
	if s.qaRepo == nil || s.reportRepo == nil || s.recentRepo == nil {
		return nil, errors.New("repositories not set")
	}
	if req.UserID == "" || req.ChatID == "" {
		return nil, fmt.Errorf("%w: user id and chat id are required", ErrInvalidRequest)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.qaRepo.DeleteByChat(gctx, req.UserID, req.ChatID) })
	g.Go(func() error { return s.reportRepo.DeleteByChat(gctx, req.UserID, req.ChatID) })
	g.Go(func() error { return s.recentRepo.DeleteByChat(gctx, req.UserID, req.ChatID) })
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to delete report: %w", err)
	}

	s.logger.Info("Report deleted", zap.String("chat_id", req.ChatID))
	return &DeleteReportResult{}, nil
}

// ExportReportPDFRequest represents a request to render a report as PDF
type ExportReportPDFRequest struct {
	UserID string
	ChatID string
}

// ExportReportPDFResult describes a rendered report
type ExportReportPDFResult struct {
	FileName string
}

// ExportReportPDF renders a stored report as PDF into w
func (s *InterviewService) ExportReportPDF(ctx context.Context, req ExportReportPDFRequest, w io.Writer) (*ExportReportPDFResult, error) {
	report, err := s.report(ctx, req.UserID, req.ChatID)
	if err != nil {
		return nil, err
	}

	doc := documentOf(report)
	if err := s.assembler.Render(w, doc); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	return &ExportReportPDFResult{FileName: render.FileName(doc.Title)}, nil
}

func (s *InterviewService) report(ctx context.Context, userID, chatID string) (*models.Report, error) {
	if s.reportRepo == nil {
		return nil, errors.New("report repository not set")
	}
	if userID == "" || chatID == "" {
		return nil, fmt.Errorf("%w: user id and chat id are required", ErrInvalidRequest)
	}

	report, err := s.reportRepo.GetByChat(ctx, userID, chatID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load report: %w", err)
	}
	return report, nil
}

// recordTurn upserts the answered turn, if any, and returns the chat history
func (s *InterviewService) recordTurn(ctx context.Context, req SubmitAnswerRequest) ([]models.QuestionAnswer, error) {
	if !req.starting() {
		if err := s.qaRepo.Upsert(ctx, req.turn()); err != nil {
			return nil, fmt.Errorf("failed to save answer: %w", err)
		}
	}

	history, err := s.qaRepo.ListByChat(ctx, req.UserID, req.ChatID)
	if err != nil {
		return nil, fmt.Errorf("failed to load interview: %w", err)
	}
	return history, nil
}

func (s *InterviewService) requireGeneration() error {
	if s.qaRepo == nil {
		return errors.New("question answer repository not set")
	}
	if s.generator == nil {
		return errors.New("generator not set")
	}
	return nil
}

func validateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}

// asGenerationError keeps cancellation distinct from upstream failures
func asGenerationError(err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("generation cancelled: %w", context.Canceled)
	case errors.Is(err, ErrGenerationFailed):
		return err
	}
	return fmt.Errorf("%w: %w", ErrGenerationFailed, err)
}

func documentOf(r *models.Report) render.ReportDocument {
	return render.ReportDocument{
		Title:             r.ReportName,
		TransparencyScore: r.TransparencyScore,
		Summary:           r.ReportSummary,
		Body:              r.Report,
	}
}
