package infra

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eliteGoblin/focusd/focus_app/internal/domain"
)

// newTestJournal creates an encrypted journal in a temp directory.
func newTestJournal(t *testing.T) (*EncryptedJournal, string) {
	t.Helper()
	dataDir := t.TempDir()
	key, err := newJournalKey()
	require.NoError(t, err)

	j, err := NewEncryptedJournal(dataDir, key)
	require.NoError(t, err)

	t.Cleanup(func() { j.Close() })
	return j, dataDir
}

func TestEncryptedJournal_Summary(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		records      []domain.Distraction
		since        time.Time
		wantTotal    int
		wantSessions int
		wantLast     time.Time
		wantTop      []domain.PathCount
	}{
		{
			name:  "empty journal",
			since: base,
		},
		{
			name: "counts sessions and orders top paths",
			records: []domain.Distraction{
				{SessionID: "s1", Count: 1, ExecutablePath: `C:\games\a.exe`, OccurredAt: base.Add(time.Minute)},
				{SessionID: "s1", Count: 2, ExecutablePath: `C:\games\b.exe`, OccurredAt: base.Add(2 * time.Minute)},
				{SessionID: "s2", Count: 3, ExecutablePath: `C:\games\b.exe`, OccurredAt: base.Add(3 * time.Minute)},
			},
			since:        base,
			wantTotal:    3,
			wantSessions: 2,
			wantLast:     base.Add(3 * time.Minute),
			wantTop: []domain.PathCount{
				{ExecutablePath: `C:\games\b.exe`, Count: 2},
				{ExecutablePath: `C:\games\a.exe`, Count: 1},
			},
		},
		{
			name: "since excludes older records",
			records: []domain.Distraction{
				{SessionID: "old", Count: 1, ExecutablePath: `C:\old.exe`, OccurredAt: base.Add(-time.Hour)},
				{SessionID: "new", Count: 2, ExecutablePath: `C:\new.exe`, OccurredAt: base},
			},
			since:        base,
			wantTotal:    1,
			wantSessions: 1,
			wantLast:     base,
			wantTop:      []domain.PathCount{{ExecutablePath: `C:\new.exe`, Count: 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j, _ := newTestJournal(t)
			for _, r := range tt.records {
				require.NoError(t, j.Record(r))
			}

			s, err := j.Summary(tt.since)
			require.NoError(t, err)

			assert.Equal(t, tt.wantTotal, s.Total)
			assert.Equal(t, tt.wantSessions, s.Sessions)
			assert.True(t, tt.wantLast.Equal(s.Last), "last = %v, want %v", s.Last, tt.wantLast)
			assert.Equal(t, tt.wantTop, s.TopPaths)
		})
	}
}

func TestEncryptedJournal_TopPathsBounded(t *testing.T) {
	j, _ := newTestJournal(t)
	now := time.Now()

	for i := 0; i < summaryTopPaths+3; i++ {
		require.NoError(t, j.Record(domain.Distraction{
			SessionID:      "s",
			Count:          i + 1,
			ExecutablePath: string(rune('a'+i)) + ".exe",
			OccurredAt:     now,
		}))
	}

	s, err := j.Summary(now.Add(-time.Minute))
	require.NoError(t, err)
	assert.Equal(t, summaryTopPaths+3, s.Total)
	assert.Len(t, s.TopPaths, summaryTopPaths)
}

func TestEncryptedJournal_ReopenWithSameKey(t *testing.T) {
	dataDir := t.TempDir()
	key, err := newJournalKey()
	require.NoError(t, err)

	j, err := NewEncryptedJournal(dataDir, key)
	require.NoError(t, err)
	require.NoError(t, j.Record(domain.Distraction{
		SessionID: "s", Count: 1, ExecutablePath: "x.exe", OccurredAt: time.Now(),
	}))
	require.NoError(t, j.Close())

	reopened, err := NewEncryptedJournal(dataDir, key)
	require.NoError(t, err)
	defer reopened.Close()

	s, err := reopened.Summary(time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Total)
}

func TestEncryptedJournal_WrongKeyFails(t *testing.T) {
	dataDir := t.TempDir()
	key, err := newJournalKey()
	require.NoError(t, err)

	j, err := NewEncryptedJournal(dataDir, key)
	require.NoError(t, err)
	require.NoError(t, j.Close())

	other, err := newJournalKey()
	require.NoError(t, err)

	_, err = NewEncryptedJournal(dataDir, other)
	assert.Error(t, err, "a different key must not open the database")
}

func TestOpenJournal_CreatesKey(t *testing.T) {
	dataDir := t.TempDir()

	j, err := OpenJournal(dataDir)
	require.NoError(t, err)
	require.NoError(t, j.Record(domain.Distraction{
		SessionID: "s", Count: 1, ExecutablePath: "x.exe", OccurredAt: time.Now(),
	}))
	require.NoError(t, j.Close())

	keyPath := filepath.Join(dataDir, journalKeyFileName)
	require.FileExists(t, keyPath)
	if runtime.GOOS != "windows" {
		info, err := os.Stat(keyPath)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	}

	// The stored key opens the same database again.
	j, err = OpenJournal(dataDir)
	require.NoError(t, err)
	defer j.Close()

	s, err := j.Summary(time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Total)
}

func TestLoadOrCreateJournalKey(t *testing.T) {
	tests := []struct {
		name    string
		content *string // nil: no key file yet
		wantErr string
	}{
		{name: "generated on first use"},
		{
			name:    "stored key is reused",
			content: strPtr(base64.StdEncoding.EncodeToString(make([]byte, journalKeySize))),
		},
		{name: "garbage is rejected", content: strPtr("%%% not base64"), wantErr: "decode"},
		{
			name:    "truncated key is rejected",
			content: strPtr(base64.StdEncoding.EncodeToString([]byte("0123456789"))),
			wantErr: "invalid journal key size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), journalKeyFileName)
			if tt.content != nil {
				require.NoError(t, os.WriteFile(path, []byte(*tt.content), 0600))
			}

			key, err := loadOrCreateJournalKey(path)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, key, journalKeySize)

			again, err := loadOrCreateJournalKey(path)
			require.NoError(t, err)
			assert.Equal(t, key, again, "key is stable across calls")
		})
	}
}

func TestNewJournalKey_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		key, err := newJournalKey()
		require.NoError(t, err)
		require.Len(t, key, journalKeySize)
		assert.False(t, seen[string(key)], "duplicate key generated")
		seen[string(key)] = true
	}
}
