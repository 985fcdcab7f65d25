package db

import "time"

// Run statuses.
const (
	RunPending = 0
	RunDone    = 1
	RunError   = 2
)

// GenerationRun journals one pipeline invocation: which input text was
// processed (keyed by its SHA-256 so re-runs of the same description are
// recognized), what record came out, and how far it got.
type GenerationRun struct {
	ID         uint   `gorm:"primaryKey"`
	RunID      string `gorm:"uniqueIndex"` // uuid, correlates log lines
	InputSHA   string `gorm:"index"`
	InputText  string `gorm:"type:text"`
	RecordJSON string `gorm:"type:text"`
	CSVPath    string
	Status     int       `gorm:"index"` // 0=pending, 1=done, 2=error
	LastError  string    `gorm:"type:text"`
	UploadedID int       // remote product id when the run uploaded
	StartedAt  time.Time `gorm:"autoCreateTime"`
	FinishedAt *time.Time
}
