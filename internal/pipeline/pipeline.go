// Package pipeline wires the extraction, merge, export and upload stages
// together and journals every run in the local ledger.
package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alvarogf/txt2woo/internal/db"
	"github.com/alvarogf/txt2woo/internal/product"
	"github.com/alvarogf/txt2woo/internal/woo"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Extractor turns free text into a validated record.
type Extractor interface {
	ExtractRecord(ctx context.Context, text string) (*product.Record, error)
}

// Uploader pushes a finished record into the remote store.
type Uploader interface {
	CreateProduct(ctx context.Context, rec *product.Record) (*woo.Created, error)
}

// Pipeline runs text → record → CSV/upload. The ledger handle is optional;
// without it runs simply are not journaled.
type Pipeline struct {
	log       zerolog.Logger
	db        *gorm.DB
	extractor Extractor
	uploader  Uploader
}

func New(log zerolog.Logger, gdb *gorm.DB, extractor Extractor, uploader Uploader) *Pipeline {
	return &Pipeline{log: log, db: gdb, extractor: extractor, uploader: uploader}
}

// Result is one finished generation.
type Result struct {
	RunID  string
	Record product.Record
	CSV    string
}

var errNoText = errors.New("pipeline: description text required")

// Generate extracts a record from text, applies the overrides and renders
// the import CSV. The run is journaled under the SHA-256 of the input so
// repeated descriptions are visible in the ledger.
func (p *Pipeline) Generate(ctx context.Context, text string, ov *product.Overrides) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errNoText
	}

	runID := uuid.NewString()
	log := p.log.With().Str("run_id", runID).Logger()

	sum := sha256.Sum256([]byte(text))
	inputSHA := hex.EncodeToString(sum[:])
	p.registerRun(log, runID, inputSHA, text)

	rec, err := p.extractor.ExtractRecord(ctx, text)
	if err != nil {
		p.finishRun(runID, db.RunError, err.Error())
		return nil, fmt.Errorf("extract: %w", err)
	}
	log.Info().Str("product", rec.Name).Msg("record extracted")

	merged := product.Merge(*rec, ov)

	csv, err := product.ExportCSV([]product.Record{merged})
	if err != nil {
		p.finishRun(runID, db.RunError, err.Error())
		return nil, fmt.Errorf("export: %w", err)
	}

	if p.db != nil {
		if raw, err := json.Marshal(merged); err == nil {
			_ = p.db.Model(&db.GenerationRun{}).Where("run_id = ?", runID).
				Update("record_json", string(raw)).Error
		}
	}
	p.finishRun(runID, db.RunDone, "")

	return &Result{RunID: runID, Record: merged, CSV: csv}, nil
}

// Upload submits the record, with any extra image URLs attached, to the
// remote store and notes the created id on the run.
func (p *Pipeline) Upload(ctx context.Context, runID string, rec product.Record, extraImages []string) (*woo.Created, error) {
	if p.uploader == nil {
		return nil, errors.New("pipeline: no store configured")
	}
	if len(extraImages) > 0 {
		rec = rec.Clone()
		rec.Images = product.DedupeList(append(rec.Images, extraImages...))
	}

	created, err := p.uploader.CreateProduct(ctx, &rec)
	if err != nil {
		p.finishRun(runID, db.RunError, err.Error())
		return nil, err
	}
	if p.db != nil {
		_ = p.db.Model(&db.GenerationRun{}).Where("run_id = ?", runID).
			Update("uploaded_id", created.ID).Error
	}
	return created, nil
}

func (p *Pipeline) registerRun(log zerolog.Logger, runID, inputSHA, text string) {
	if p.db == nil {
		return
	}
	var prior int64
	_ = p.db.Model(&db.GenerationRun{}).
		Where("input_sha = ? AND status = ?", inputSHA, db.RunDone).
		Count(&prior).Error
	if prior > 0 {
		log.Info().Int64("prior_runs", prior).Msg("input text seen before")
	}

	run := db.GenerationRun{
		RunID:     runID,
		InputSHA:  inputSHA,
		InputText: text,
		Status:    db.RunPending,
	}
	if err := p.db.Create(&run).Error; err != nil {
		log.Warn().Err(err).Msg("run not journaled")
	}
}

func (p *Pipeline) finishRun(runID string, status int, lastErr string) {
	if p.db == nil {
		return
	}
	now := time.Now()
	_ = p.db.Model(&db.GenerationRun{}).Where("run_id = ?", runID).
		Updates(map[string]any{
			"status":      status,
			"last_error":  lastErr,
			"finished_at": now,
		}).Error
}

// NoteCSVPath records where the export was written.
func (p *Pipeline) NoteCSVPath(runID, path string) {
	if p.db == nil {
		return
	}
	_ = p.db.Model(&db.GenerationRun{}).Where("run_id = ?", runID).
		Update("csv_path", path).Error
}
