package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storeops/opsdash-api/internal/models"
	"github.com/storeops/opsdash-api/internal/query"
	"github.com/storeops/opsdash-api/pkg/config"
	appErrors "github.com/storeops/opsdash-api/pkg/errors"
	"github.com/storeops/opsdash-api/pkg/export"
)

type attendanceSource interface {
	Records(ctx context.Context, criteria query.Criteria) ([]models.AttendanceRecord, query.Predicate, error)
}

type fileStorage interface {
	Save(name string, data []byte) (string, error)
	Open(name string) (*os.File, error)
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type exportSigner interface {
	Generate(exportID, relPath string) (string, time.Time, error)
	Parse(token string) (string, string, time.Time, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
	Location  *time.Location
}

// ExportServiceParams groups constructor dependencies.
type ExportServiceParams struct {
	Source  attendanceSource
	Storage fileStorage
	Signer  exportSigner
	Metrics *MetricsService
	Logger  *zap.Logger
	Config  ExportConfig
}

// ExportService renders attendance exports and manages stored copies.
type ExportService struct {
	source  attendanceSource
	storage fileStorage
	signer  exportSigner
	metrics *MetricsService
	logger  *zap.Logger
	cfg     ExportConfig
	now     func() time.Time
}

var attendanceExportHeaders = []string{"Date", "Store", "First Name", "Last Name", "Company", "Worker Type", "Time In", "Time Out", "Duration", "Hours"}

// NewExportService constructs an ExportService.
func NewExportService(params ExportServiceParams) *ExportService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg := params.Config
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &ExportService{
		source:  params.Source,
		storage: params.Storage,
		signer:  params.Signer,
		metrics: params.Metrics,
		logger:  logger,
		cfg:     cfg,
		now:     time.Now,
	}
}

// Render builds the attendance export for criteria and returns the payload with a download filename.
func (s *ExportService) Render(ctx context.Context, criteria query.Criteria, format export.Format) ([]byte, string, error) {
	if !format.Valid() {
		return nil, "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	dataset, err := s.buildAttendanceDataset(ctx, criteria)
	if err != nil {
		return nil, "", err
	}
	payload, err := export.Render(format, dataset)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	s.metrics.RecordExport(string(format))
	return payload, s.buildFilename(criteria, format), nil
}

// Store renders the export, saves it and returns a signed download link.
func (s *ExportService) Store(ctx context.Context, criteria query.Criteria, format export.Format) (*models.ExportResult, error) {
	payload, filename, err := s.Render(ctx, criteria, format)
	if err != nil {
		return nil, err
	}
	id := uuid.NewString()
	relPath, err := s.storage.Save(id+"/"+filename, payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store export")
	}
	token, expiresAt, err := s.signer.Generate(id, relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign export")
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = config.DefaultAPIPrefix
	}
	s.logger.Info("export stored", zap.String("export_id", id), zap.String("format", string(format)))
	return &models.ExportResult{
		ID:           id,
		Format:       string(format),
		FileName:     filename,
		RelativePath: relPath,
		Token:        token,
		URL:          fmt.Sprintf("%s/attendance/exports/%s", prefix, token),
		ExpiresAt:    expiresAt,
	}, nil
}

// Resolve validates a download token and returns the stored path.
func (s *ExportService) Resolve(token string) (string, error) {
	_, relPath, _, err := s.signer.Parse(token)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrForbidden.Code, appErrors.ErrForbidden.Status, "export link invalid or expired")
	}
	return relPath, nil
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	file, err := s.storage.Open(relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "export not found")
	}
	return file, nil
}

// Cleanup removes stored exports older than the result TTL.
func (s *ExportService) Cleanup() ([]string, error) {
	return s.storage.CleanupOlderThan(s.cfg.ResultTTL)
}

// RunCleanup sweeps expired exports every interval until ctx is cancelled.
func (s *ExportService) RunCleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := s.Cleanup()
			if err != nil {
				s.logger.Warn("export cleanup failed", zap.Error(err))
				continue
			}
			if len(deleted) > 0 {
				s.logger.Info("expired exports removed", zap.Int("count", len(deleted)))
			}
		}
	}
}

func (s *ExportService) buildAttendanceDataset(ctx context.Context, criteria query.Criteria) (export.Dataset, error) {
	records, pred, err := s.source.Records(ctx, criteria)
	if err != nil {
		return export.Dataset{}, err
	}
	records = MatchAttendance(records, pred)
	aggregation := AggregateAttendance(records, query.Predicate{}, models.GroupByNone)

	rows := make([]map[string]string, 0, aggregation.Summary.Records)
	for i := range records {
		record := &records[i]
		rows = append(rows, map[string]string{
			"Date":        record.AttendanceDate.Format(query.DateLayout),
			"Store":       record.StoreName,
			"First Name":  record.FirstName,
			"Last Name":   record.LastName,
			"Company":     record.Company,
			"Worker Type": record.WorkerType,
			"Time In":     deref(record.TimeIn),
			"Time Out":    deref(record.TimeOut),
			"Duration":    deref(record.TotalDuration),
			"Hours":       fmt.Sprintf("%.2f", query.ParseHoursPtr(record.TotalDuration)),
		})
	}

	summary := aggregation.Summary
	return export.Dataset{
		Title:   "Attendance Export",
		Headers: attendanceExportHeaders,
		Rows:    rows,
		Summary: []string{
			fmt.Sprintf("Generated: %s", s.now().In(s.cfg.Location).Format("2006-01-02 15:04")),
			fmt.Sprintf("Records: %d", summary.Records),
			fmt.Sprintf("Stores: %d", summary.UniqueStores),
			fmt.Sprintf("Employees: %d", summary.UniqueEmployees),
			fmt.Sprintf("Total hours: %.2f", summary.TotalHours),
		},
	}, nil
}

func (s *ExportService) buildFilename(criteria query.Criteria, format export.Format) string {
	timestamp := s.now().In(s.cfg.Location).Format("20060102_150405")
	if criteria.Store != "" {
		return fmt.Sprintf("attendance_%s_%s.%s", sanitizeFilename(criteria.Store), timestamp, format)
	}
	return fmt.Sprintf("attendance_%s.%s", timestamp, format)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
