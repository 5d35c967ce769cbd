// internal/store/store_test.go
package store_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"serviceflow/internal/domain"
	"serviceflow/internal/store"
)

func request(email string) domain.AccountRequest {
	lat, lng := 19.4326, -99.1332
	return domain.AccountRequest{
		CompanyName: "Acme",
		PhoneNumber: "5512345678",
		Email:       email,
		Address:     "Ciudad de México, CDMX, México",
		Password:    "password1",
		Lat:         &lat,
		Lng:         &lng,
	}
}

func TestAccount_CreateLookup_OK(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var accounts domain.AccountStore = store.NewAccountFileStore("",
		store.WithBcryptCost(bcrypt.MinCost),
		store.WithClock(func() time.Time { return fixed }),
	)
	ctx := context.Background()

	acc, err := accounts.CreateAccount(ctx, request("ops@acme.mx"))
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	if acc.ID == "" {
		t.Fatal("expected an account id")
	}
	if !acc.CreatedAt.Equal(fixed) {
		t.Fatalf("created at = %v, want %v", acc.CreatedAt, fixed)
	}

	got, ok, err := accounts.LookupAccount(ctx, "OPS@acme.mx")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, acc, got)

	_, ok, err = accounts.LookupAccount(ctx, "nobody@acme.mx")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAccount_DuplicateEmail_Fails(t *testing.T) {
	accounts := store.NewAccountFileStore("", store.WithBcryptCost(bcrypt.MinCost))
	ctx := context.Background()

	_, err := accounts.CreateAccount(ctx, request("ops@acme.mx"))
	require.NoError(t, err)

	_, err = accounts.CreateAccount(ctx, request(" Ops@Acme.MX"))
	assert.ErrorIs(t, err, domain.ErrAccountExists)
}

func TestAccount_ConcurrentDuplicates_OneWins(t *testing.T) {
	accounts := store.NewAccountFileStore("", store.WithBcryptCost(bcrypt.MinCost))

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := accounts.CreateAccount(context.Background(), request("race@acme.mx"))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok, dup int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrAccountExists):
			dup++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 7, dup)
}

func TestAccount_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first := store.NewAccountFileStore(dir, store.WithBcryptCost(bcrypt.MinCost))
	acc, err := first.CreateAccount(ctx, request("ops@acme.mx"))
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(dir, "accounts.json"))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "password1", "plaintext password must not be stored")

	info, err := os.Stat(filepath.Join(dir, "accounts.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	second := store.NewAccountFileStore(dir)
	got, ok, err := second.LookupAccount(ctx, "ops@acme.mx")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, acc.ID, got.ID)

	_, err = second.CreateAccount(ctx, request("ops@acme.mx"))
	assert.ErrorIs(t, err, domain.ErrAccountExists)
}

func TestWriteFileAtomic_CreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, store.WriteFileAtomic(path, []byte("a: 1\n"), 0o600))
	require.NoError(t, store.WriteFileAtomic(path, []byte("a: 2\n"), 0o600))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a: 2\n", string(b))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files are cleaned up")
}

func TestGazetteer_Search(t *testing.T) {
	g := store.NewGazetteer(nil)

	got := g.Search("lazaro cardenas", "mx", 0)
	require.Len(t, got, 2)
	assert.Equal(t, "Lázaro Cárdenas, Michoacán, México", got[0].FormattedAddress)

	got = g.Search("SAN", "", 0)
	require.Len(t, got, 2)
	assert.Empty(t, g.Search("san", "mx", 0))

	assert.Len(t, g.Search("méxico", "mx", 3), 3)
	assert.Nil(t, g.Search("   ", "mx", 5))
	assert.Empty(t, g.Search("atlantis", "", 5))
}

func TestGazetteer_Nearest(t *testing.T) {
	g := store.NewGazetteer(nil)

	got, err := g.Nearest(19.43, -99.13)
	require.NoError(t, err)
	assert.Equal(t, "Ciudad de México, CDMX, México", got.FormattedAddress)

	_, err = g.Nearest(0, 0)
	assert.ErrorIs(t, err, domain.ErrNoResults)
}

func TestHaversineKm(t *testing.T) {
	// Mexico City to Guadalajara is roughly 460 km.
	d := store.HaversineKm(19.4326, -99.1332, 20.6597, -103.3496)
	assert.InDelta(t, 460, d, 15)
	assert.InDelta(t, 0, store.HaversineKm(10, 10, 10, 10), 1e-9)
}
