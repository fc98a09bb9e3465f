package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/promptshare/prompt-service/internal/repositories"
)

const exportSheetName = "Prompts"

// exportService renders the catalog as an XLSX workbook for the admin panel.
type exportService struct {
	repo   repositories.Repository
	logger *slog.Logger
	policy *AccessPolicy
}

func NewExportService(repo repositories.Repository, logger *slog.Logger, policy *AccessPolicy) ExportService {
	return &exportService{
		repo:   repo,
		logger: logger,
		policy: policy,
	}
}

func (s *exportService) ExportPrompts(ctx context.Context, actorID string) ([]byte, error) {
	if err := s.policy.CanMutatePrompt(ctx, actorID, "export", 0); err != nil {
		return nil, err
	}

	prompts, _, err := s.repo.Prompt().List(ctx, repositories.PromptFilters{
		SortBy:    "created_at",
		SortOrder: "desc",
	})
	if err != nil {
		s.logger.Error("Failed to load catalog for export", "error", err)
		return nil, NewStorageError("list prompts", err)
	}

	f := excelize.NewFile()
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			s.logger.Warn("Failed to close workbook", "error", closeErr)
		}
	}()

	index, err := f.NewSheet(exportSheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}

	headers := []string{"ID", "Title", "Category", "Description", "Tags", "Author", "Likes", "Created At"}
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(exportSheetName, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err == nil {
		endCell, _ := excelize.CoordinatesToCellName(len(headers), 1)
		_ = f.SetCellStyle(exportSheetName, "A1", endCell, headerStyle)
	}

	for i, p := range prompts {
		row := i + 2
		values := []interface{}{
			p.ID,
			p.Title,
			string(p.Category),
			p.Description,
			strings.Join(p.Tags, ", "),
			p.Author,
			p.LikeCount,
			p.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(exportSheetName, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", row, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}

	s.logger.Info("Catalog exported", "prompt_count", len(prompts), "actor_id", actorID)
	return buf.Bytes(), nil
}
