package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherDebounces(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "helix.json")
	other := filepath.Join(dir, "other.json")
	if err := os.WriteFile(file, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	w, err := New(file, 50*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.WriteFile(other, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-w.Changes:
		t.Fatal("change of another file reported")
	case <-time.After(200 * time.Millisecond):
	}

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(file, []byte(`{"Twist":{}}`), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	select {
	case <-w.Changes:
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported")
	}
	select {
	case <-w.Changes:
		t.Fatal("burst of writes reported twice")
	case <-time.After(200 * time.Millisecond):
	}
}
