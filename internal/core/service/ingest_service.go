package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ventaboard/sales-api/internal/core/domain"
	"github.com/ventaboard/sales-api/internal/core/ports"
)

// Placeholder values for unmapped or empty cells. Known fields default rather
// than cause a skip; only rows with no content at all are dropped.
const (
	defaultProduct  = "Desconocido"
	defaultCategory = "General"
	defaultRegion   = "Global"
)

// DatasetCache is the read cache over the persisted dataset. Implementations
// must treat failures as misses; the service never fails a request on a cache
// error.
type DatasetCache interface {
	Get(ctx context.Context, includeAdmin bool) ([]domain.Sale, bool)
	Set(ctx context.Context, includeAdmin bool, sales []domain.Sale)
	Invalidate(ctx context.Context)
}

// IngestService runs the upload pipeline: parse, map columns, coerce rows,
// tag visibility, replace the dataset.
type IngestService struct {
	sales     ports.SalesRepository
	files     ports.FileRepository
	cache     DatasetCache
	uploadDir string
	log       zerolog.Logger
	now       func() time.Time
}

func NewIngestService(sales ports.SalesRepository, files ports.FileRepository, cache DatasetCache, uploadDir string, log zerolog.Logger) *IngestService {
	return &IngestService{
		sales:     sales,
		files:     files,
		cache:     cache,
		uploadDir: uploadDir,
		log:       log,
		now:       time.Now,
	}
}

// Ingest processes one uploaded file and fully replaces the stored dataset
// with its accepted rows. Parse failures abort before any repository mutation;
// individual uncoercible rows are skipped, logged, and reported in the result.
func (s *IngestService) Ingest(ctx context.Context, in ports.IngestInput) (*ports.IngestResult, error) {
	if !supportedFormat(in.Filename) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, filepath.Ext(in.Filename))
	}

	raw, err := io.ReadAll(in.Reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}

	tbl, err := parseTable(in.Filename, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}

	mapping := resolveColumns(tbl.headers)
	visibility := domain.VisibilityForRole(in.CallerRole)
	ingestedAt := s.now()

	sales := make([]domain.Sale, 0, len(tbl.rows))
	var skipped []domain.RowError
	for i, row := range tbl.rows {
		sale, rowErr := s.coerceRow(tbl, mapping, row, i, ingestedAt)
		if rowErr != nil {
			skipped = append(skipped, *rowErr)
			s.log.Warn().Int("row", rowErr.Index).Str("reason", rowErr.Reason).
				Str("file", in.Filename).Msg("row skipped")
			continue
		}
		sale.Visibility = visibility
		sales = append(sales, sale)
	}

	if err := s.sales.ReplaceAll(ctx, sales); err != nil {
		return nil, fmt.Errorf("replace dataset: %w", err)
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}

	s.recordUpload(ctx, in, raw, len(sales), len(skipped), ingestedAt)

	data, err := s.sales.List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list dataset: %w", err)
	}

	return &ports.IngestResult{Data: data, Visibility: visibility, Skipped: skipped}, nil
}

// Data returns the current dataset, read-through the cache when one is wired.
func (s *IngestService) Data(ctx context.Context, includeAdmin bool) ([]domain.Sale, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, includeAdmin); ok {
			return cached, nil
		}
	}

	sales, err := s.sales.List(ctx, includeAdmin)
	if err != nil {
		return nil, fmt.Errorf("list dataset: %w", err)
	}
	if s.cache != nil {
		s.cache.Set(ctx, includeAdmin, sales)
	}
	return sales, nil
}

// coerceRow turns one raw row into a Sale. Mapped-but-malformed numeric and
// date cells fall back to their defaults; the row itself is rejected only when
// it carries no content at all.
func (s *IngestService) coerceRow(tbl *table, mapping columnMapping, row []string, index int, ingestedAt time.Time) (domain.Sale, *domain.RowError) {
	if blankRow(row) {
		return domain.Sale{}, &domain.RowError{Index: index, Reason: "empty row"}
	}

	cell := func(f Field) string {
		idx, ok := mapping[f]
		if !ok {
			return ""
		}
		return tbl.cell(row, idx)
	}

	sale := domain.Sale{
		OrderID:  cell(FieldOrderID),
		Product:  cell(FieldProduct),
		Category: cell(FieldCategory),
		Region:   cell(FieldRegion),
		Amount:   parseAmount(cell(FieldAmount)),
		Profit:   parseAmount(cell(FieldProfit)),
		Date:     parseDate(cell(FieldDate), ingestedAt),
	}

	if sale.OrderID == "" {
		sale.OrderID = fmt.Sprintf("ORD-%d", index)
	}
	if sale.Product == "" {
		sale.Product = defaultProduct
	}
	if sale.Category == "" {
		sale.Category = defaultCategory
	}
	if sale.Region == "" {
		sale.Region = defaultRegion
	}
	return sale, nil
}

// recordUpload stores the raw file and its metadata for auditing. The dataset
// is already committed at this point, so failures here are logged only.
func (s *IngestService) recordUpload(ctx context.Context, in ports.IngestInput, raw []byte, rows, skipped int, uploadedAt time.Time) {
	storedPath := ""
	if s.uploadDir != "" {
		storedPath = filepath.Join(s.uploadDir, filepath.Base(in.Filename))
		if err := os.WriteFile(storedPath, raw, 0o644); err != nil {
			s.log.Error().Err(err).Str("path", storedPath).Msg("store upload")
			storedPath = ""
		}
	}

	if s.files == nil {
		return
	}
	meta := &domain.FileMetadata{
		Filename:   in.Filename,
		StoredPath: storedPath,
		UploadedAt: uploadedAt,
		UploadedBy: in.CallerName,
		Rows:       rows,
		Skipped:    skipped,
	}
	if err := s.files.Save(ctx, meta); err != nil {
		s.log.Error().Err(err).Str("file", in.Filename).Msg("save upload metadata")
	}
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parseAmount reads a monetary cell, tolerating currency symbols and thousands
// separators. Empty or malformed cells coerce to 0.
func parseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	s = strings.NewReplacer("$", "", "€", "", ",", "", " ", "").Replace(s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// dateLayouts are tried in order. Slash forms assume day-first, matching the
// regional spreadsheets this dashboard receives.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
	"02-01-2006",
	"01/02/2006",
}

func parseDate(s string, fallback time.Time) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return fallback
}
