package transcache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAndLookup(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	transcript := filepath.Join(t.TempDir(), "book.srt")
	if err := os.WriteFile(transcript, []byte("1\n00:00:01,000 --> 00:00:02,000\nhi\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, hit, err := store.Lookup(ctx, "abc", "en-us"); err != nil || hit {
		t.Fatalf("cold lookup = hit %v, err %v", hit, err)
	}

	if err := store.Record(ctx, "abc", "en-us", transcript); err != nil {
		t.Fatalf("Record: %v", err)
	}
	path, hit, err := store.Lookup(ctx, "abc", "en-us")
	if err != nil || !hit {
		t.Fatalf("lookup = hit %v, err %v", hit, err)
	}
	if path != transcript {
		t.Errorf("path = %q", path)
	}

	// A different language is a miss for the same hash.
	if _, hit, err := store.Lookup(ctx, "abc", "de"); err != nil || hit {
		t.Errorf("cross-language lookup = hit %v, err %v", hit, err)
	}

	// Replacement keeps the latest transcript.
	other := filepath.Join(t.TempDir(), "other.srt")
	if err := os.WriteFile(other, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := store.Record(ctx, "abc", "de", other); err != nil {
		t.Fatalf("re-record: %v", err)
	}
	path, hit, err = store.Lookup(ctx, "abc", "de")
	if err != nil || !hit || path != other {
		t.Errorf("replaced lookup = %q, hit %v, err %v", path, hit, err)
	}
}

func TestLookupEvictsDeletedTranscript(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	transcript := filepath.Join(t.TempDir(), "gone.srt")
	if err := os.WriteFile(transcript, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := store.Record(ctx, "h1", "en-us", transcript); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(transcript); err != nil {
		t.Fatal(err)
	}

	if _, hit, err := store.Lookup(ctx, "h1", "en-us"); err != nil || hit {
		t.Fatalf("stale lookup = hit %v, err %v", hit, err)
	}
}

func TestHashFile(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.mp3")
	b := filepath.Join(dir, "b.mp3")
	if err := os.WriteFile(a, []byte("same bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(b, []byte("same bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	hashA, err := HashFile(a)
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}
	hashB, err := HashFile(b)
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}
	if hashA != hashB {
		t.Error("identical content hashed differently")
	}
	if len(hashA) != 64 {
		t.Errorf("hash length = %d", len(hashA))
	}

	if _, err := HashFile(filepath.Join(dir, "absent")); err == nil {
		t.Error("expected error for missing file")
	}
}
