package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"transparency-backend/render"
	"transparency-backend/service"
	"transparency-backend/storage"

	"go.uber.org/zap"
)

// reportSource is the part of the service layer the exporter reads from
type reportSource interface {
	GetReportDetail(ctx context.Context, req service.GetReportDetailRequest) (*service.GetReportDetailResult, error)
	ExportReportPDF(ctx context.Context, req service.ExportReportPDFRequest, w io.Writer) (*service.ExportReportPDFResult, error)
}

// exporter keeps the stored PDF of a chat in step with its report
type exporter struct {
	reports reportSource
	store   storage.Storage
	logger  *zap.Logger
}

// Export renders the report and uploads it, replacing an earlier export of the same chat
func (e *exporter) Export(ctx context.Context, userID, chatID string) (string, error) {
	var buf bytes.Buffer
	result, err := e.reports.ExportReportPDF(ctx, service.ExportReportPDFRequest{UserID: userID, ChatID: chatID}, &buf)
	if err != nil {
		return "", fmt.Errorf("failed to export report %s: %w", chatID, err)
	}

	key := storage.ReportKey(userID, chatID, result.FileName)
	previous, err := e.storedSize(ctx, key)
	if err != nil {
		return "", err
	}

	size := buf.Len()
	location, err := e.store.Upload(ctx, key, "application/pdf", &buf)
	if err != nil {
		return "", err
	}

	fields := []zap.Field{
		zap.String("chat_id", chatID),
		zap.String("location", location),
		zap.Int("bytes", size),
	}
	if previous >= 0 {
		fields = append(fields, zap.Int64("previous_bytes", previous))
		e.logger.Info("Report export replaced", fields...)
	} else {
		e.logger.Info("Report exported", fields...)
	}
	return location, nil
}

// Remove deletes the stored export of a chat
func (e *exporter) Remove(ctx context.Context, userID, chatID string) error {
	result, err := e.reports.GetReportDetail(ctx, service.GetReportDetailRequest{UserID: userID, ChatID: chatID})
	if err != nil {
		return fmt.Errorf("failed to load report %s: %w", chatID, err)
	}

	key := storage.ReportKey(userID, chatID, render.FileName(result.Detail.ReportName))
	if err := e.store.Delete(ctx, key); err != nil {
		return err
	}

	e.logger.Info("Report export removed", zap.String("chat_id", chatID), zap.String("key", key))
	return nil
}

// storedSize returns the size of the object at key, or -1 when there is none
func (e *exporter) storedSize(ctx context.Context, key string) (int64, error) {
	rc, err := e.store.Download(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return -1, nil
	}
	if err != nil {
		return 0, err
	}
	defer rc.Close()

	n, err := io.Copy(io.Discard, rc)
	if err != nil {
		return 0, fmt.Errorf("failed to read previous export: %w", err)
	}
	return n, nil
}
