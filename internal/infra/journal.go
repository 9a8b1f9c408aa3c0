package infra

import (
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// Registers the sqlcipher database/sql driver.
	_ "github.com/mutecomm/go-sqlcipher/v4"

	"github.com/eliteGoblin/focusd/focus_app/internal/domain"
)

const (
	journalDBName      = "journal.db"
	journalKeyFileName = "journal.key"
	journalKeySize     = 32 // SQLCipher raw key, 256 bits

	// summaryTopPaths bounds DistractionSummary.TopPaths.
	summaryTopPaths = 5
)

// EncryptedJournal implements domain.DistractionJournal on a SQLCipher database.
type EncryptedJournal struct {
	db     *sql.DB
	dbPath string
}

// OpenJournal opens the journal in dataDir, creating its key on first use.
func OpenJournal(dataDir string) (*EncryptedJournal, error) {
	key, err := loadOrCreateJournalKey(filepath.Join(dataDir, journalKeyFileName))
	if err != nil {
		return nil, fmt.Errorf("failed to obtain journal key: %w", err)
	}
	return NewEncryptedJournal(dataDir, key)
}

// loadOrCreateJournalKey reads the base64 key at path. The first call on a
// fresh data directory generates one and writes it owner-only.
func loadOrCreateJournalKey(path string) ([]byte, error) {
	encoded, err := os.ReadFile(path)
	if err == nil {
		key, err := base64.StdEncoding.DecodeString(string(encoded))
		if err != nil {
			return nil, fmt.Errorf("failed to decode journal key %s: %w", path, err)
		}
		if len(key) != journalKeySize {
			return nil, fmt.Errorf("invalid journal key size in %s: got %d, want %d", path, len(key), journalKeySize)
		}
		return key, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read journal key: %w", err)
	}

	key, err := newJournalKey()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create key directory: %w", err)
	}
	// O_EXCL: a journal key is never overwritten, even by a racing first run.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return loadOrCreateJournalKey(path)
		}
		return nil, fmt.Errorf("failed to write journal key: %w", err)
	}
	if _, err := f.WriteString(base64.StdEncoding.EncodeToString(key)); err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("failed to write journal key: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to write journal key: %w", err)
	}
	return key, nil
}

// newJournalKey returns a random database key.
func newJournalKey() ([]byte, error) {
	key := make([]byte, journalKeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate journal key: %w", err)
	}
	return key, nil
}

// NewEncryptedJournal opens (or creates) the journal database keyed with key.
func NewEncryptedJournal(dataDir string, key []byte) (*EncryptedJournal, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := JournalPath(dataDir)
	dsn := fmt.Sprintf("%s?_pragma_key=x'%s'&_pragma_cipher_page_size=4096&_busy_timeout=5000",
		dbPath, hex.EncodeToString(key))

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	// A wrong key only surfaces on first access.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to journal: %w", err)
	}

	j := &EncryptedJournal{db: db, dbPath: dbPath}
	if err := j.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create journal tables: %w", err)
	}
	return j, nil
}

func (j *EncryptedJournal) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS distractions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		count INTEGER NOT NULL,
		executable_path TEXT NOT NULL,
		minimized INTEGER NOT NULL,
		occurred_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_distractions_occurred_at ON distractions (occurred_at);
	`
	_, err := j.db.Exec(schema)
	return err
}

// Record appends one distraction.
func (j *EncryptedJournal) Record(d domain.Distraction) error {
	minimized := 0
	if d.Minimized {
		minimized = 1
	}
	_, err := j.db.Exec(`
		INSERT INTO distractions (session_id, count, executable_path, minimized, occurred_at)
		VALUES (?, ?, ?, ?, ?)`,
		d.SessionID, d.Count, d.ExecutablePath, minimized, d.OccurredAt.UnixMilli(),
	)
	return err
}

// Summary aggregates distractions with OccurredAt >= since.
func (j *EncryptedJournal) Summary(since time.Time) (*domain.DistractionSummary, error) {
	summary := &domain.DistractionSummary{Since: since}
	sinceMs := since.UnixMilli()

	var last int64
	err := j.db.QueryRow(`
		SELECT COUNT(*), COUNT(DISTINCT session_id), COALESCE(MAX(occurred_at), 0)
		FROM distractions WHERE occurred_at >= ?`, sinceMs,
	).Scan(&summary.Total, &summary.Sessions, &last)
	if err != nil {
		return nil, err
	}
	if last > 0 {
		summary.Last = time.UnixMilli(last)
	}

	rows, err := j.db.Query(`
		SELECT executable_path, COUNT(*) AS n
		FROM distractions WHERE occurred_at >= ?
		GROUP BY executable_path
		ORDER BY n DESC, executable_path ASC
		LIMIT ?`, sinceMs, summaryTopPaths)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var pc domain.PathCount
		if err := rows.Scan(&pc.ExecutablePath, &pc.Count); err != nil {
			return nil, err
		}
		summary.TopPaths = append(summary.TopPaths, pc)
	}
	return summary, rows.Err()
}

// JournalPath returns where the journal database for dataDir lives.
func JournalPath(dataDir string) string {
	return filepath.Join(dataDir, journalDBName)
}

// Path returns the database file path.
func (j *EncryptedJournal) Path() string {
	return j.dbPath
}

// Close releases the database connection.
func (j *EncryptedJournal) Close() error {
	if j.db != nil {
		return j.db.Close()
	}
	return nil
}

// Ensure EncryptedJournal implements domain.DistractionJournal.
var _ domain.DistractionJournal = (*EncryptedJournal)(nil)
