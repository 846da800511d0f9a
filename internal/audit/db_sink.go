package audit

import (
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/resto-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/resto-backend/internal/security"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const flushBatchSize = 50

// DBSink persists audit records to the database in async batches.
// Store never blocks on the database; failures are logged and dropped.
// When an encryption key is set, record details (the part that carries
// free-form, possibly personal data) are encrypted at rest.
type DBSink struct {
	db     *gorm.DB
	key    []byte
	mu     sync.Mutex
	buffer []models.AuditEntry
	ticker *time.Ticker
	done   chan struct{}
}

func NewDBSink(db *gorm.DB, key []byte) *DBSink {
	s := &DBSink{
		db:     db,
		key:    key,
		buffer: make([]models.AuditEntry, 0, flushBatchSize),
		ticker: time.NewTicker(5 * time.Second),
		done:   make(chan struct{}),
	}
	go s.flushLoop()
	return s
}

func (s *DBSink) flushLoop() {
	for {
		select {
		case <-s.ticker.C:
			s.flush()
		case <-s.done:
			s.flush()
			return
		}
	}
}

func (s *DBSink) flush() {
	s.mu.Lock()
	if len(s.buffer) == 0 {
		s.mu.Unlock()
		return
	}
	batch := s.buffer
	s.buffer = make([]models.AuditEntry, 0, flushBatchSize)
	s.mu.Unlock()

	if err := s.db.CreateInBatches(batch, flushBatchSize).Error; err != nil {
		slog.Error("failed to flush audit entries to DB", "error", err, "count", len(batch))
	}
}

// Stop flushes the remaining buffer and stops the background loop.
func (s *DBSink) Stop() {
	s.ticker.Stop()
	close(s.done)
}

func (s *DBSink) Store(rec Record) error {
	entry := models.AuditEntry{
		ID:         rec.ID,
		Seq:        rec.Seq,
		TenantID:   rec.TenantID,
		UserID:     rec.UserID,
		Action:     rec.Action,
		Resource:   rec.Resource,
		ResourceID: rec.ResourceID,
		IPAddress:  rec.IPAddress,
		UserAgent:  rec.UserAgent,
		Timestamp:  rec.CreatedAt,
	}
	if len(rec.Details) > 0 {
		if details, err := s.encodeDetails(rec.Details); err == nil {
			entry.Details = details
		} else {
			slog.Error("failed to encode audit details", "error", err, "record_id", rec.ID)
		}
	}

	s.mu.Lock()
	s.buffer = append(s.buffer, entry)
	needFlush := len(s.buffer) >= flushBatchSize
	s.mu.Unlock()

	if needFlush {
		go s.flush()
	}
	return nil
}

type encryptedDetails struct {
	Enc string `json:"enc"`
}

// encodeDetails serializes record details for the jsonb column. With a
// key configured the payload is sealed with AES-GCM and stored as a
// base64 envelope instead of cleartext.
func (s *DBSink) encodeDetails(details map[string]any) (datatypes.JSON, error) {
	b, err := json.Marshal(details)
	if err != nil {
		return nil, err
	}
	if len(s.key) == 0 {
		return datatypes.JSON(b), nil
	}

	sealed, err := security.Encrypt(b, s.key)
	if err != nil {
		return nil, err
	}
	env, err := json.Marshal(encryptedDetails{Enc: base64.StdEncoding.EncodeToString(sealed)})
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(env), nil
}

// StartCleanup runs a daily goroutine that deletes persisted audit
// entries older than retentionDays. The in-memory log is untouched.
func StartCleanup(db *gorm.DB, retentionDays int, done chan struct{}) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				cutoff := time.Now().AddDate(0, 0, -retentionDays)
				result := db.Where("timestamp < ?", cutoff).Delete(&models.AuditEntry{})
				if result.Error != nil {
					slog.Error("audit cleanup failed", "error", result.Error)
				} else if result.RowsAffected > 0 {
					slog.Info("audit cleanup completed", "deleted", result.RowsAffected)
				}
			case <-done:
				return
			}
		}
	}()
}
