package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/premdoors/qc-tracker/internal/entity"
	"github.com/premdoors/qc-tracker/internal/repository"
)

// Service is a tiny façade over the job repository that produces XLSX bytes
// for QC reports.
type Service struct {
	jobsRepo repository.JobRepository
	logger   *slog.Logger
}

func NewService(jobsRepo repository.JobRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{jobsRepo: jobsRepo, logger: logger}
}

// ExportJobsXLSX returns an XLSX workbook with one row per checklist item
// across all jobs, newest job first.
func (s *Service) ExportJobsXLSX(ctx context.Context) ([]byte, error) {
	start := time.Now()

	jobList, err := s.jobsRepo.ListJobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "QC Report"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Job Number",
		"Job Status",
		"Inspection Point",
		"Optional",
		"Result",
		"Comment",
		"Photos",
		"Last Updated",
		"Updated By",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, job := range jobList {
		writeJobRows(f, sheet, &row, job)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Info("export complete",
		"jobs", len(jobList), "rows", row-2, "elapsed_ms", time.Since(start).Milliseconds())
	return buf.Bytes(), nil
}

func writeJobRows(f *excelize.File, sheet string, row *int, job entity.Job) {
	for _, item := range job.Checklist {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, *row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		optional := ""
		if item.IsOptional {
			optional = "yes"
		}

		write(1, job.JobNumber)
		write(2, job.Status.Label())
		write(3, item.Name)
		write(4, optional)
		write(5, string(item.Status))
		write(6, item.Comment)
		write(7, len(item.Images))
		write(8, job.LastUpdated.Format(time.RFC3339))
		write(9, job.UpdatedBy)
		*row++
	}
}
