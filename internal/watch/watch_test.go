package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/arkroute/pkg/arkroute"
)

func TestRelevant(t *testing.T) {
	tests := []struct {
		path string
		op   fsnotify.Op
		want bool
	}{
		{"/m/pages/Home.ets", fsnotify.Write, true},
		{"/m/pages/Home.ets", fsnotify.Create, true},
		{"/m/pages/Home.ets", fsnotify.Remove, true},
		{"/m/pages/Home.ets", fsnotify.Chmod, false},
		{"/m/pages/Home.ts", fsnotify.Write, false},
		{"/m/pages/.#Home.ets", fsnotify.Write, false},
		{"/m/pages/Home.ets~", fsnotify.Write, false},
		{"/m/pages", fsnotify.Remove, true},
		{"/m/pages", fsnotify.Rename, true},
		{"/m/pages", fsnotify.Write, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Relevant(tt.path, tt.op), "%s %s", tt.op, tt.path)
	}
}

func TestIgnored(t *testing.T) {
	w := New("/m", WithIgnoreDir("/m/_generated"))
	assert.True(t, w.ignored("/m/_generated"))
	assert.True(t, w.ignored("/m/_generated/REXHome.ets"))
	assert.False(t, w.ignored("/m/_generated2/Home.ets"))
	assert.False(t, w.ignored("/m/pages/Home.ets"))
}

func TestNew_Defaults(t *testing.T) {
	w := New("/m/", WithDebounce(0))
	assert.Equal(t, "/m", w.root)
	assert.Equal(t, arkroute.DefaultWatchDebounce, w.debounce)
}

func TestRun_MissingRoot(t *testing.T) {
	err := New(filepath.Join(t.TempDir(), "missing")).Run(context.Background(), func(context.Context, []string) {})
	assert.ErrorIs(t, err, arkroute.ErrScanRootNotFound)
}

func TestRun_DebouncesChanges(t *testing.T) {
	root := t.TempDir()
	gen := filepath.Join(root, "_generated")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "pages"), 0755))
	require.NoError(t, os.MkdirAll(gen, 0755))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := make(chan []string, 4)
	done := make(chan error, 1)
	w := New(root, WithDebounce(100*time.Millisecond), WithIgnoreDir(gen))
	go func() {
		done <- w.Run(ctx, func(_ context.Context, changed []string) { calls <- changed })
	}()

	// give the watcher time to register the tree
	time.Sleep(200 * time.Millisecond)

	home := filepath.Join(root, "pages", "Home.ets")
	require.NoError(t, os.WriteFile(home, []byte("struct A {}"), 0644))
	require.NoError(t, os.WriteFile(home, []byte("struct B {}"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "pages", "notes.md"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(gen, "REXHome.ets"), []byte("x"), 0644))

	select {
	case changed := <-calls:
		assert.Equal(t, []string{home}, changed)
	case <-time.After(5 * time.Second):
		t.Fatal("no change callback")
	}

	select {
	case changed := <-calls:
		t.Fatalf("unexpected second callback: %v", changed)
	case <-time.After(300 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
