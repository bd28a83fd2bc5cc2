package inspections

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/fieldlog/fieldlog/internal/common"
	"github.com/fieldlog/fieldlog/internal/logging"
	"github.com/fieldlog/fieldlog/internal/models"
	"github.com/fieldlog/fieldlog/internal/store/blob"
	"github.com/fieldlog/fieldlog/internal/store/records"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupService(t *testing.T) (*Service, blob.Repository) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE documents (key TEXT PRIMARY KEY, value BLOB NOT NULL);
CREATE TABLE photos (key TEXT PRIMARY KEY, data BLOB NOT NULL);
`)
	require.NoError(t, err)

	blobs := blob.NewSQLiteRepository(db)
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewService(records.NewSQLiteRepository(db), blobs, log), blobs
}

// fixedClock installs a deterministic clock that advances by step per call.
func fixedClock(s *Service, start time.Time, step time.Duration) {
	current := start
	s.now = func() time.Time {
		now := current
		current = current.Add(step)
		return now
	}
}

func TestSaveProject_UpsertsInPlace(t *testing.T) {
	s, _ := setupService(t)
	ctx := context.Background()
	fixedClock(s, time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC), time.Minute)

	first, err := s.SaveProject(ctx, "10234", "123 Main St", "roof")
	require.NoError(t, err)

	second, err := s.SaveProject(ctx, "10234", "125 Main St", "roof and siding")
	require.NoError(t, err)

	assert.Equal(t, first.CreatedAt, second.CreatedAt, "CreatedAt preserved on update")
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt), "UpdatedAt refreshed")
	assert.Equal(t, "125 Main St", second.Address)

	all, err := s.ListProjects(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1, "upsert must not grow the collection")
}

func TestSaveProject_EmptyIDRejected(t *testing.T) {
	s, _ := setupService(t)

	_, err := s.SaveProject(context.Background(), "   ", "addr", "")
	require.ErrorIs(t, err, common.ErrValidation)
	assert.Equal(t, "Enter a Project ID", err.Error())
}

func TestProject_NotFound(t *testing.T) {
	s, _ := setupService(t)

	_, err := s.Project(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestCreateEntry_PhotosKeyedAndResolvable(t *testing.T) {
	s, blobs := setupService(t)
	ctx := context.Background()

	photos := []models.PhotoFile{
		{Name: "east.jpg", Data: []byte("east-bytes")},
		{Name: "west.jpg", Data: []byte("west-bytes")},
		{Name: "roof.jpg", Data: []byte("roof-bytes")},
	}

	entry, err := s.CreateEntry(ctx, "10234", "2024-03-01", "09:00", "  note text  ", photos)
	require.NoError(t, err)

	require.Len(t, entry.PhotoKeys, len(photos))
	assert.Equal(t, "note text", entry.Notes, "notes are trimmed")

	seen := make(map[string]struct{})
	for i, key := range entry.PhotoKeys {
		_, dup := seen[key]
		assert.False(t, dup, "photo keys must be unique")
		seen[key] = struct{}{}

		data, ok, err := blobs.Get(ctx, key)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, photos[i].Data, data)
	}
}

func TestCreateEntry_Validation(t *testing.T) {
	s, _ := setupService(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		projectID string
		date      string
		timeOfDay string
		reason    string
	}{
		{"empty project id", "", "2024-03-01", "09:00", "Enter a Project ID"},
		{"missing date", "10234", "", "09:00", "Enter a date"},
		{"bad date format", "10234", "03/01/2024", "09:00", "Date must be YYYY-MM-DD"},
		{"missing time", "10234", "2024-03-01", "", "Enter a time"},
		{"bad time format", "10234", "2024-03-01", "9am", "Time must be HH:MM"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.CreateEntry(ctx, tc.projectID, tc.date, tc.timeOfDay, "", nil)
			require.ErrorIs(t, err, common.ErrValidation)
			assert.Equal(t, tc.reason, err.Error())
		})
	}

	// nothing was recorded by the rejected operations
	timeline, err := s.QueryTimeline(ctx, "10234", "")
	require.NoError(t, err)
	assert.Empty(t, timeline)
}

// failAfter wraps a blob repository and fails any batch bigger than n items.
type failAfter struct {
	inner blob.Repository
	n     int
}

func (f *failAfter) Put(ctx context.Context, key string, data []byte) error {
	return f.inner.Put(ctx, key, data)
}

func (f *failAfter) PutAll(ctx context.Context, items []blob.Item) error {
	if len(items) > f.n {
		return errors.New("quota exceeded")
	}
	return f.inner.PutAll(ctx, items)
}

func (f *failAfter) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return f.inner.Get(ctx, key)
}

func TestCreateEntry_FailedPhotoWriteRecordsNoEntry(t *testing.T) {
	s, blobs := setupService(t)
	ctx := context.Background()

	s.blobs = &failAfter{inner: blobs, n: 1}

	photos := []models.PhotoFile{
		{Name: "a.jpg", Data: []byte("a")},
		{Name: "b.jpg", Data: []byte("b")},
	}
	_, err := s.CreateEntry(ctx, "10234", "2024-03-01", "09:00", "", photos)
	require.Error(t, err)

	timeline, qerr := s.QueryTimeline(ctx, "10234", "")
	require.NoError(t, qerr)
	assert.Empty(t, timeline, "a failed entry must not appear in the timeline")
}

func TestCreateEntry_FailedPhotoWriteLeavesNoBlobs(t *testing.T) {
	s, blobs := setupService(t)
	ctx := context.Background()

	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	fixedClock(s, start, time.Second)
	entryID := models.NewEntryID(start)

	// nil Data violates the photos table's NOT NULL constraint, failing the
	// batch after the first photo was inserted
	photos := []models.PhotoFile{
		{Name: "a.jpg", Data: []byte("a")},
		{Name: "b.jpg", Data: nil},
	}
	_, err := s.CreateEntry(ctx, "10234", "2024-03-01", "09:00", "", photos)
	require.Error(t, err)

	_, ok, err := blobs.Get(ctx, models.PhotoKey("10234", entryID, 0))
	require.NoError(t, err)
	assert.False(t, ok, "the batch rolls back the photo that did insert")

	timeline, qerr := s.QueryTimeline(ctx, "10234", "")
	require.NoError(t, qerr)
	assert.Empty(t, timeline)
}

func TestQueryTimeline_SortedNewestFirst(t *testing.T) {
	s, _ := setupService(t)
	ctx := context.Background()
	fixedClock(s, time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC), time.Second)

	_, err := s.CreateEntry(ctx, "10234", "2024-03-01", "09:00", "early", nil)
	require.NoError(t, err)
	_, err = s.CreateEntry(ctx, "10234", "2024-03-02", "08:00", "next day", nil)
	require.NoError(t, err)
	_, err = s.CreateEntry(ctx, "10234", "2024-03-01", "14:30", "later same day", nil)
	require.NoError(t, err)

	timeline, err := s.QueryTimeline(ctx, "10234", "")
	require.NoError(t, err)
	require.Len(t, timeline, 3)
	assert.Equal(t, "next day", timeline[0].Notes)
	assert.Equal(t, "later same day", timeline[1].Notes)
	assert.Equal(t, "early", timeline[2].Notes)
}

func TestQueryTimeline_StableForEqualDateTime(t *testing.T) {
	s, _ := setupService(t)
	ctx := context.Background()
	fixedClock(s, time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC), time.Second)

	first, err := s.CreateEntry(ctx, "10234", "2024-03-01", "09:00", "first", nil)
	require.NoError(t, err)
	second, err := s.CreateEntry(ctx, "10234", "2024-03-01", "09:00", "second", nil)
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)

	timeline, err := s.QueryTimeline(ctx, "10234", "")
	require.NoError(t, err)
	require.Len(t, timeline, 2)
	assert.Equal(t, "first", timeline[0].Notes, "insertion order kept for equal keys")
	assert.Equal(t, "second", timeline[1].Notes)
}

func TestQueryTimeline_DateFilterExactMatch(t *testing.T) {
	s, _ := setupService(t)
	ctx := context.Background()
	fixedClock(s, time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC), time.Second)

	_, err := s.CreateEntry(ctx, "10234", "2024-03-01", "09:00", "", nil)
	require.NoError(t, err)
	_, err = s.CreateEntry(ctx, "10234", "2024-03-02", "10:00", "", nil)
	require.NoError(t, err)

	matched, err := s.QueryTimeline(ctx, "10234", "2024-03-01")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "2024-03-01", matched[0].Date)

	empty, err := s.QueryTimeline(ctx, "10234", "2024-03-03")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestQueryTimeline_LogsAtDebug(t *testing.T) {
	s, _ := setupService(t)

	var buf bytes.Buffer
	s.log = logging.NewSlogLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))

	_, err := s.QueryTimeline(context.Background(), "10234", "2024-03-01")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "timeline query")
	assert.Contains(t, buf.String(), "project=10234")
}

func TestQueryTimeline_UnknownProjectIsEmptyNotNil(t *testing.T) {
	s, _ := setupService(t)

	timeline, err := s.QueryTimeline(context.Background(), "never-saved", "")
	require.NoError(t, err)
	assert.NotNil(t, timeline)
	assert.Empty(t, timeline)
}

func TestEntriesViewableWithoutProjectMetadata(t *testing.T) {
	s, _ := setupService(t)
	ctx := context.Background()

	// no SaveProject call: the two collections are independently keyed
	_, err := s.CreateEntry(ctx, "orphan", "2024-03-01", "09:00", "no meta", nil)
	require.NoError(t, err)

	timeline, err := s.QueryTimeline(ctx, "orphan", "")
	require.NoError(t, err)
	require.Len(t, timeline, 1)

	_, err = s.Project(ctx, "orphan")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestScenario_ProjectWithTwoEntries(t *testing.T) {
	s, _ := setupService(t)
	ctx := context.Background()
	fixedClock(s, time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC), time.Second)

	_, err := s.SaveProject(ctx, "10234", "123 Main St", "")
	require.NoError(t, err)

	morning, err := s.CreateEntry(ctx, "10234", "2024-03-01", "09:00", "", []models.PhotoFile{
		{Name: "a.jpg", Data: []byte("a")},
		{Name: "b.jpg", Data: []byte("b")},
	})
	require.NoError(t, err)
	require.Len(t, morning.PhotoKeys, 2)

	afternoon, err := s.CreateEntry(ctx, "10234", "2024-03-01", "14:30", "", nil)
	require.NoError(t, err)
	assert.Empty(t, afternoon.PhotoKeys)

	timeline, err := s.QueryTimeline(ctx, "10234", "")
	require.NoError(t, err)
	require.Len(t, timeline, 2)
	assert.Equal(t, "14:30", timeline[0].Time)
	assert.Equal(t, "09:00", timeline[1].Time)

	filtered, err := s.QueryTimeline(ctx, "10234", "2024-03-02")
	require.NoError(t, err)
	assert.Empty(t, filtered)
}
