package snapshot

import (
	"context"
	"database/sql"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/observability/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		JSONFormat:    true,
		DefaultLevel:  slog.LevelError,
		ChannelLevels: make(map[logging.Channel]slog.Level),
	})
	require.NoError(t, err)

	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "snapshots.db"))
	require.NoError(t, err)

	store := &Store{db: db, logger: logger}
	require.NoError(t, store.ensureSchema())
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveAndLoadByPrefix(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, store.SaveSnapshot(ctx, "lots/list/all", []byte(`{"total":3}`), now.Add(-time.Minute)))
	require.NoError(t, store.SaveSnapshot(ctx, "lots/list/IN_PROGRESS", []byte(`{"total":1}`), now))
	require.NoError(t, store.SaveSnapshot(ctx, "dashboard/summary/2025-06-01", []byte(`{"kpis":{}}`), now))

	rows, err := store.LoadByPrefix(ctx, "lots")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "lots/list/IN_PROGRESS", rows[0].Key, "rows come back newest first")
	assert.JSONEq(t, `{"total":1}`, string(rows[0].Payload))
	assert.WithinDuration(t, now, rows[0].FetchedAt, time.Second)

	all, err := store.LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSaveSnapshotUpserts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveSnapshot(ctx, "processes/wip", []byte(`"v1"`), time.Now().UTC()))
	require.NoError(t, store.SaveSnapshot(ctx, "processes/wip", []byte(`"v2"`), time.Now().UTC()))

	rows, err := store.LoadByPrefix(ctx, "processes")
	require.NoError(t, err)
	require.Len(t, rows, 1, "saving the same key twice keeps one row")
	assert.Equal(t, `"v2"`, string(rows[0].Payload))
}

func TestDeleteByPrefix(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, store.SaveSnapshot(ctx, "lots/list/all", []byte(`{}`), now))
	require.NoError(t, store.SaveSnapshot(ctx, "lots/detail/L1", []byte(`{}`), now))
	require.NoError(t, store.SaveSnapshot(ctx, "dashboard/summary/2025-06-01", []byte(`{}`), now))

	require.NoError(t, store.DeleteByPrefix(ctx, "lots"))

	remaining, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "dashboard/summary/2025-06-01", remaining[0].Key)
}

func TestDeleteByPrefixTreatsWildcardsLiterally(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	// Percent-encoded key parts contain literal '%'.
	require.NoError(t, store.SaveSnapshot(ctx, "q/100%25/child", []byte(`{}`), now))
	require.NoError(t, store.SaveSnapshot(ctx, "q/100X25/child", []byte(`{}`), now))

	require.NoError(t, store.DeleteByPrefix(ctx, "q/100%25"))

	remaining, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "q/100X25/child", remaining[0].Key)
}

func TestPruneDropsAgedRows(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, store.SaveSnapshot(ctx, "stale/key", []byte(`{}`), now.Add(-48*time.Hour)))
	require.NoError(t, store.SaveSnapshot(ctx, "fresh/key", []byte(`{}`), now))

	pruned, err := store.Prune(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pruned)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
