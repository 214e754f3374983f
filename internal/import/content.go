// Package importcontent seeds news and projects from a CSV export.
package importcontent

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"centro-site/api/internal/apperrors"
	"centro-site/api/internal/content"
	"centro-site/api/internal/models"
)

var requiredColumns = []string{"type", "title_pt"}

// Summary counts the outcome of one import run.
type Summary struct {
	Rows       int
	Imported   int
	Duplicates int
	Errors     []string
}

// Importer writes CSV rows through the content editors so that slugs are
// normalized and validated exactly as for API writes.
type Importer struct {
	editors map[models.ContentType]*content.Service
	client  *http.Client
}

// NewImporter creates an importer over one editor per content type.
func NewImporter(editors ...*content.Service) *Importer {
	i := &Importer{
		editors: make(map[models.ContentType]*content.Service, len(editors)),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, e := range editors {
		i.editors[e.Kind()] = e
	}
	return i
}

// ImportContent imports rows from a local path or an http(s) URL.
func (i *Importer) ImportContent(ctx context.Context, source string) (*Summary, error) {
	log.Info().Str("csv", source).Msg("Starting content import")

	rc, err := i.open(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("failed to get CSV data: %w", err)
	}
	defer rc.Close()

	summary, err := i.Import(ctx, rc)
	if err != nil {
		return nil, fmt.Errorf("failed to import content: %w", err)
	}

	log.Info().
		Int("total", summary.Rows).
		Int("imported", summary.Imported).
		Int("duplicates", summary.Duplicates).
		Int("errors", len(summary.Errors)).
		Msg("Import summary")
	return summary, nil
}

func (i *Importer) open(ctx context.Context, source string) (io.ReadCloser, error) {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		log.Info().Str("path", source).Msg("Using local CSV file")
		return os.Open(source)
	}

	log.Info().Str("url", source).Msg("Downloading CSV from remote source")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, err
	}
	resp, err := i.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("failed to download file: HTTP status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// Import reads CSV rows from r. Rows whose slug already exists are skipped
// with a warning; other row errors are collected and do not stop the run.
func (i *Importer) Import(ctx context.Context, r io.Reader) (*Summary, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	log.Debug().Strs("header", header).Msg("CSV header read")

	for _, column := range requiredColumns {
		if findColumnIndex(header, column) < 0 {
			return nil, fmt.Errorf("required column '%s' not found in CSV header", column)
		}
	}

	idx := func(name string) int { return findColumnIndex(header, name) }
	typeIdx := idx("type")

	summary := &Summary{}
	line := 1
	for {
		line++
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Warn().Err(err).Int("line", line).Msg("Error reading CSV line")
			summary.Errors = append(summary.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		if len(record) == 0 || (len(record) == 1 && record[0] == "") {
			continue
		}
		summary.Rows++

		kind := models.ContentType(strings.ToLower(safeGetValue(record, typeIdx)))
		editor, ok := i.editors[kind]
		if !ok {
			summary.Errors = append(summary.Errors, fmt.Sprintf("line %d: invalid type %q", line, kind))
			continue
		}

		in := models.ArticleInput{
			Slug:          safeGetValue(record, idx("slug")),
			TitlePT:       safeGetValue(record, idx("title_pt")),
			TitleEN:       safeGetValue(record, idx("title_en")),
			DescriptionPT: safeGetValue(record, idx("description_pt")),
			DescriptionEN: safeGetValue(record, idx("description_en")),
			Image:         safeGetValue(record, idx("image")),
			Badge:         safeGetValue(record, idx("badge")),
			BadgeColor:    safeGetValue(record, idx("badge_color")),
			DateDisplay:   safeGetValue(record, idx("date_display")),
		}

		logger := log.With().Int("line", line).Str("type", string(kind)).Str("slug", in.Slug).Logger()

		if _, err := editor.Create(ctx, in); err != nil {
			if apperrors.IsConflict(err) {
				logger.Warn().Msg("Duplicate slug, skipping")
				summary.Duplicates++
				continue
			}
			logger.Error().Err(err).Msg("Failed to import row")
			summary.Errors = append(summary.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		summary.Imported++
	}

	return summary, nil
}

func findColumnIndex(header []string, columnName string) int {
	for i, col := range header {
		if strings.EqualFold(strings.TrimSpace(col), columnName) {
			return i
		}
	}
	return -1
}

// safeGetValue returns the trimmed cell at index, or "" when out of range.
func safeGetValue(record []string, index int) string {
	if index >= 0 && index < len(record) {
		return strings.TrimSpace(record[index])
	}
	return ""
}
