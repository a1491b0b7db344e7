// Tests for the SQLite backend lifecycle and key-value table.
package sqlite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mesh-intelligence/blogctl/pkg/types"
)

func attachTemp(t *testing.T) (*Backend, string) {
	t.Helper()
	dir := t.TempDir()
	b := NewBackend()
	if err := b.Attach(dir); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	t.Cleanup(func() { b.Detach() })
	return b, dir
}

func TestBackend_Attach(t *testing.T) {
	b, dir := attachTemp(t)

	if _, err := os.Stat(filepath.Join(dir, DBFileName)); os.IsNotExist(err) {
		t.Errorf("%s not created", DBFileName)
	}

	if err := b.Attach(dir); err != types.ErrAlreadyAttached {
		t.Errorf("expected ErrAlreadyAttached, got %v", err)
	}
}

func TestBackend_AttachCreatesNestedDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	b := NewBackend()
	if err := b.Attach(dir); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	defer b.Detach()

	if _, err := os.Stat(dir); err != nil {
		t.Errorf("data dir not created: %v", err)
	}
}

func TestBackend_Detach(t *testing.T) {
	b, _ := attachTemp(t)

	if err := b.Detach(); err != nil {
		t.Fatalf("Detach failed: %v", err)
	}
	if err := b.Detach(); err != nil {
		t.Errorf("second Detach should not error, got %v", err)
	}

	if _, err := b.Get("token"); err != types.ErrStoreDetached {
		t.Errorf("expected ErrStoreDetached, got %v", err)
	}
	if err := b.Set("token", "x"); err != types.ErrStoreDetached {
		t.Errorf("expected ErrStoreDetached, got %v", err)
	}
}

func TestBackend_DataSurvivesReattach(t *testing.T) {
	dir := t.TempDir()

	b := NewBackend()
	if err := b.Attach(dir); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	if err := b.Set("token", "abc"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	b.Detach()

	b2 := NewBackend()
	if err := b2.Attach(dir); err != nil {
		t.Fatalf("re-Attach failed: %v", err)
	}
	defer b2.Detach()

	got, err := b2.Get("token")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != "abc" {
		t.Errorf("Get = %q, want %q", got, "abc")
	}
}

func TestKV_SetGetDelete(t *testing.T) {
	b, _ := attachTemp(t)

	if _, err := b.Get("missing"); err != types.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if err := b.Set("k", "v1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := b.Set("k", "v2"); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	if got, _ := b.Get("k"); got != "v2" {
		t.Errorf("Get = %q, want v2", got)
	}

	if err := b.Delete("k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := b.Delete("k"); err != nil {
		t.Errorf("deleting absent key should not error, got %v", err)
	}
	if _, err := b.Get("k"); err != types.ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestKV_EmptyKeyRejected(t *testing.T) {
	b, _ := attachTemp(t)

	if err := b.Set("", "v"); err != types.ErrInvalidKey {
		t.Errorf("Set: expected ErrInvalidKey, got %v", err)
	}
	if _, err := b.Get(""); err != types.ErrInvalidKey {
		t.Errorf("Get: expected ErrInvalidKey, got %v", err)
	}
	if err := b.SetMany(map[string]string{"": "v"}); err != types.ErrInvalidKey {
		t.Errorf("SetMany: expected ErrInvalidKey, got %v", err)
	}
}

func TestKV_SetManyDeleteMany(t *testing.T) {
	b, _ := attachTemp(t)

	if err := b.SetMany(map[string]string{"a": "1", "b": "2", "c": "3"}); err != nil {
		t.Fatalf("SetMany failed: %v", err)
	}
	if err := b.DeleteMany("a", "b"); err != nil {
		t.Fatalf("DeleteMany failed: %v", err)
	}
	if _, err := b.Get("a"); err != types.ErrNotFound {
		t.Errorf("a should be gone, got %v", err)
	}
	if got, _ := b.Get("c"); got != "3" {
		t.Errorf("c = %q, want 3", got)
	}
}
