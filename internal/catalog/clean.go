package catalog

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/rs/zerolog/log"

	"travel_planner/internal/domain"
	"travel_planner/internal/sheet"
)

// Clean reads the raw source, drops irrelevant columns and saves the result
// as xlsx at outputPath.
func Clean(rawPath, outputPath string) (sheet.Table, error) {
	tbl, err := sheet.ReadFile(rawPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return sheet.Table{}, fmt.Errorf("%w: the file %q not found", domain.ErrSourceUnavailable, rawPath)
		}
		return sheet.Table{}, fmt.Errorf("read %s: %w", rawPath, err)
	}

	cleaned := tbl.Drop(sheet.DroppedColumns...)
	if err := cleaned.SaveAs(outputPath); err != nil {
		return sheet.Table{}, fmt.Errorf("save %s: %w", outputPath, err)
	}
	log.Info().
		Str("raw", rawPath).
		Str("output", outputPath).
		Int("rows", len(cleaned.Rows)).
		Int("dropped_columns", len(tbl.Header)-len(cleaned.Header)).
		Msg("cleaned data saved")
	return cleaned, nil
}
