package workspace

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestManager_CreateAndCleanup(t *testing.T) {
	tempBase := t.TempDir()
	mgr := NewManager(tempBase)

	if err := mgr.Create(); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	checkout, err := mgr.SubdirPath("checkout")
	if err != nil {
		t.Fatalf("SubdirPath() failed: %v", err)
	}
	wsPath := filepath.Dir(checkout)
	if !strings.HasPrefix(filepath.Base(wsPath), "gitscriptor-") {
		t.Errorf("Expected gitscriptor- prefix, got: %s", wsPath)
	}
	if _, err := os.Stat(wsPath); os.IsNotExist(err) {
		t.Errorf("Workspace directory does not exist: %s", wsPath)
	}

	// Partial contents must go with the directory.
	if err := os.WriteFile(filepath.Join(wsPath, "partial"), []byte("x"), 0o600); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	if err := mgr.Cleanup(); err != nil {
		t.Fatalf("Cleanup() failed: %v", err)
	}
	if _, err := os.Stat(wsPath); !os.IsNotExist(err) {
		t.Errorf("Workspace directory still exists after cleanup: %s", wsPath)
	}
	if _, err := mgr.SubdirPath("checkout"); err == nil {
		t.Errorf("SubdirPath() should fail after cleanup")
	}

	// Second cleanup is a no-op.
	if err := mgr.Cleanup(); err != nil {
		t.Fatalf("second Cleanup() failed: %v", err)
	}
}

func TestManager_CreateTwiceFails(t *testing.T) {
	mgr := NewManager(t.TempDir())
	if err := mgr.Create(); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	t.Cleanup(func() { _ = mgr.Cleanup() })

	if err := mgr.Create(); err == nil {
		t.Fatal("expected error on second Create()")
	}
}

func TestManager_ConcurrentManagersAreDistinct(t *testing.T) {
	tempBase := t.TempDir()
	const n = 8

	paths := make([]string, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			mgr := NewManager(tempBase)
			if err := mgr.Create(); err != nil {
				t.Errorf("Create() failed: %v", err)
				return
			}
			p, err := mgr.SubdirPath("repo")
			if err != nil {
				t.Errorf("SubdirPath() failed: %v", err)
				return
			}
			paths[i] = p
		}(i)
	}
	wg.Wait()

	seen := map[string]bool{}
	for _, p := range paths {
		if seen[p] {
			t.Fatalf("duplicate workspace path %s", p)
		}
		seen[p] = true
	}
}

func TestManager_Subdirs(t *testing.T) {
	mgr := NewManager(t.TempDir())
	if _, err := mgr.SubdirPath("checkout"); err == nil {
		t.Fatal("expected error before Create()")
	}
	if err := mgr.Create(); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	defer func() { _ = mgr.Cleanup() }()

	p, err := mgr.SubdirPath("checkout")
	if err != nil {
		t.Fatalf("SubdirPath() failed: %v", err)
	}
	if _, statErr := os.Stat(p); !os.IsNotExist(statErr) {
		t.Errorf("SubdirPath must not create the directory")
	}

	for _, bad := range []string{"", "..", "../escape", "/abs"} {
		if _, err := mgr.SubdirPath(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}
