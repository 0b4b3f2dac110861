package main

import (
	"context"
	"io"
	"os"
	"testing"

	"transparency-backend/models"
	"transparency-backend/service"
	"transparency-backend/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeReports struct {
	pdf string
	err error
}

func (f *fakeReports) GetReportDetail(_ context.Context, _ service.GetReportDetailRequest) (*service.GetReportDetailResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &service.GetReportDetailResult{Detail: &models.ReportDetail{ReportName: "Kettle Report"}}, nil
}

func (f *fakeReports) ExportReportPDF(_ context.Context, _ service.ExportReportPDFRequest, w io.Writer) (*service.ExportReportPDFResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	_, _ = io.WriteString(w, f.pdf)
	return &service.ExportReportPDFResult{FileName: "Kettle Report.pdf"}, nil
}

func newTestExporter(t *testing.T, reports *fakeReports) (*exporter, *observer.ObservedLogs) {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	core, logs := observer.New(zap.InfoLevel)
	return &exporter{reports: reports, store: store, logger: zap.New(core)}, logs
}

func TestExporter_ExportAndReplace(t *testing.T) {
	ctx := context.Background()
	reports := &fakeReports{pdf: "%PDF-1.3 first"}
	e, logs := newTestExporter(t, reports)

	location, err := e.Export(ctx, "u1", "c1")
	require.NoError(t, err)
	assert.FileExists(t, location)
	assert.Equal(t, 1, logs.FilterMessage("Report exported").Len())

	reports.pdf = "%PDF-1.3 second"
	again, err := e.Export(ctx, "u1", "c1")
	require.NoError(t, err)
	assert.Equal(t, location, again)

	replaced := logs.FilterMessage("Report export replaced").All()
	require.Len(t, replaced, 1)
	assert.EqualValues(t, len("%PDF-1.3 first"), replaced[0].ContextMap()["previous_bytes"])

	data, err := os.ReadFile(location)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.3 second", string(data))
}

func TestExporter_Remove(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestExporter(t, &fakeReports{pdf: "%PDF-1.3"})

	location, err := e.Export(ctx, "u1", "c1")
	require.NoError(t, err)

	require.NoError(t, e.Remove(ctx, "u1", "c1"))
	assert.NoFileExists(t, location)

	_, err = e.store.Download(ctx, storage.ReportKey("u1", "c1", "Kettle Report.pdf"))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestExporter_MissingReport(t *testing.T) {
	e, _ := newTestExporter(t, &fakeReports{err: service.ErrReportNotFound})

	_, err := e.Export(context.Background(), "u1", "c1")
	assert.ErrorIs(t, err, service.ErrReportNotFound)

	err = e.Remove(context.Background(), "u1", "c1")
	assert.ErrorIs(t, err, service.ErrReportNotFound)
}
