package fragment_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/serroba/editops/internal/fragment"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Create(t *testing.T) {
	t.Parallel()

	store := fragment.NewMemoryStore()

	f, err := store.Create("f1", "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.ID != "f1" || f.Text() != "hello" {
		t.Errorf("unexpected fragment %q: %q", f.ID, f.Text())
	}

	got, err := store.Get("f1")
	require.NoError(t, err)

	if got != f {
		t.Error("expected Get to return the stored fragment")
	}
}

func TestMemoryStore_Create_GeneratesID(t *testing.T) {
	t.Parallel()

	store := fragment.NewMemoryStore()

	f, err := store.Create("", "hello")
	require.NoError(t, err)

	if _, err := uuid.Parse(f.ID); err != nil {
		t.Errorf("expected a UUID, got %q: %v", f.ID, err)
	}
}

func TestMemoryStore_Create_AlreadyExists(t *testing.T) {
	t.Parallel()

	store := fragment.NewMemoryStore()

	_, err := store.Create("f1", "")
	require.NoError(t, err)

	_, err = store.Create("f1", "other")
	if !errors.Is(err, fragment.ErrFragmentExists) {
		t.Errorf("expected ErrFragmentExists, got %v", err)
	}
}

func TestMemoryStore_NotFound(t *testing.T) {
	t.Parallel()

	store := fragment.NewMemoryStore()

	if _, err := store.Get("missing"); !errors.Is(err, fragment.ErrFragmentNotFound) {
		t.Errorf("expected ErrFragmentNotFound from Get, got %v", err)
	}

	if err := store.Delete("missing"); !errors.Is(err, fragment.ErrFragmentNotFound) {
		t.Errorf("expected ErrFragmentNotFound from Delete, got %v", err)
	}
}

func TestMemoryStore_DeleteAndList(t *testing.T) {
	t.Parallel()

	store := fragment.NewMemoryStore()

	for _, id := range []string{"b", "c", "a"} {
		_, err := store.Create(id, id)
		require.NoError(t, err)
	}

	require.Equal(t, []string{"a", "b", "c"}, store.List())
	require.NoError(t, store.Delete("b"))
	require.Equal(t, []string{"a", "c"}, store.List())
}

func TestMemoryStore_ConcurrentCreate(t *testing.T) {
	t.Parallel()

	store := fragment.NewMemoryStore()

	var wg sync.WaitGroup

	for range 20 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, _ = store.Create("", "text")
		}()
	}

	wg.Wait()

	if n := len(store.List()); n != 20 {
		t.Errorf("expected 20 fragments, got %d", n)
	}
}
