package storage_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"SecurityNewsMonitor/internal/infrastructure/storage"
)

func newStore(t *testing.T) *storage.FileStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vendors.json")
	return storage.NewFileStore(path, nil)
}

func TestLoadSeedsDefaults(t *testing.T) {
	store := newStore(t)

	vendors, err := store.Load()
	require.NoError(t, err)
	require.Len(t, vendors, 18)
	require.Equal(t, "fortigate", vendors[0].Name)
	require.Equal(t, "qualys", vendors[len(vendors)-1].Name)

	// The seeded document must survive a reload unchanged.
	again, err := store.Load()
	require.NoError(t, err)
	require.Len(t, again, len(vendors))
	for i := range vendors {
		require.Equal(t, vendors[i].Name, again[i].Name)
	}
}

func TestAddLowercasesAndRejectsDuplicates(t *testing.T) {
	store := newStore(t)
	_, err := store.Load()
	require.NoError(t, err)

	require.NoError(t, store.Add("Palo Alto"))

	vendors, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, "palo alto", vendors[len(vendors)-1].Name)
	require.False(t, vendors[len(vendors)-1].AddedAt.IsZero())

	require.Error(t, store.Add("PALO ALTO"))
	require.Error(t, store.Add("fortinet"))
	require.Error(t, store.Add("  "))
}

func TestRemove(t *testing.T) {
	store := newStore(t)
	_, err := store.Load()
	require.NoError(t, err)

	require.NoError(t, store.Remove("Fortinet"))

	vendors, err := store.Load()
	require.NoError(t, err)
	require.Len(t, vendors, 17)
	for _, v := range vendors {
		require.NotEqual(t, "fortinet", v.Name)
	}

	require.Error(t, store.Remove("fortinet"))
}

func TestLastRunRoundTrip(t *testing.T) {
	store := newStore(t)

	// No file yet means the monitor has never run.
	last, err := store.LastRun()
	require.NoError(t, err)
	require.True(t, last.IsZero())

	stamp := time.Date(2025, time.March, 14, 9, 26, 53, 0, time.Local)
	require.NoError(t, store.TouchLastRun(stamp))

	last, err = store.LastRun()
	require.NoError(t, err)
	require.Equal(t, stamp.Format("2006-01-02 15:04:05"), last.Format("2006-01-02 15:04:05"))

	// Touching on a missing file still seeds the vendor list.
	vendors, err := store.Load()
	require.NoError(t, err)
	require.Len(t, vendors, 18)
}
