package modelcache

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/hotaru-ai/promptchat/pkg/backend"
	"github.com/hotaru-ai/promptchat/pkg/prompt"
)

type countingLoader struct {
	mu    sync.Mutex
	calls map[string]int
	fail  map[string]error
}

func newCountingLoader() *countingLoader {
	return &countingLoader{calls: map[string]int{}, fail: map[string]error{}}
}

func (l *countingLoader) Load(ctx context.Context, modelName string) (backend.Generator, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls[modelName]++
	if err := l.fail[modelName]; err != nil {
		return nil, err
	}
	return staticGenerator(modelName), nil
}

type staticGenerator string

func (g staticGenerator) Generate(ctx context.Context, promptText string, profile prompt.Profile) (string, error) {
	return string(g), nil
}

func TestGetOrLoadCachesGenerator(t *testing.T) {
	loader := newCountingLoader()
	c := New(loader)

	first, err := c.GetOrLoad(context.Background(), "model-a")
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.GetOrLoad(context.Background(), "model-a")
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("expected the cached generator on second call")
	}
	if loader.calls["model-a"] != 1 {
		t.Errorf("loader called %d times, want 1", loader.calls["model-a"])
	}
}

func TestFailedLoadLeavesNoEntry(t *testing.T) {
	loader := newCountingLoader()
	loader.fail["broken"] = errors.New("weights missing")
	c := New(loader)

	if _, err := c.GetOrLoad(context.Background(), "broken"); err == nil {
		t.Fatal("expected load error")
	}
	if got := c.Loaded(); len(got) != 0 {
		t.Errorf("failed load left entries: %v", got)
	}

	// A later successful load goes through.
	delete(loader.fail, "broken")
	if _, err := c.GetOrLoad(context.Background(), "broken"); err != nil {
		t.Fatal(err)
	}
	if loader.calls["broken"] != 2 {
		t.Errorf("loader called %d times, want 2", loader.calls["broken"])
	}
}

func TestConcurrentLoadsConverge(t *testing.T) {
	loader := newCountingLoader()
	c := New(loader)

	var wg sync.WaitGroup
	gens := make([]backend.Generator, 8)
	for i := range gens {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			g, err := c.GetOrLoad(context.Background(), "model-a")
			if err != nil {
				t.Error(err)
				return
			}
			gens[i] = g
		}(i)
	}
	wg.Wait()

	// Racing loads may call the loader more than once, but every caller must
	// end up holding the same installed generator.
	want, _ := c.GetOrLoad(context.Background(), "model-a")
	for i, g := range gens {
		if g != want {
			t.Errorf("goroutine %d got a different generator", i)
		}
	}
	if got := c.Loaded(); len(got) != 1 || got[0] != "model-a" {
		t.Errorf("Loaded() = %v", got)
	}
}

func TestLoadedSorted(t *testing.T) {
	loader := newCountingLoader()
	c := New(loader)

	for _, name := range []string{"zeta", "alpha", "mid"} {
		if _, err := c.GetOrLoad(context.Background(), name); err != nil {
			t.Fatal(err)
		}
	}
	got := c.Loaded()
	want := []string{"alpha", "mid", "zeta"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Loaded() = %v, want %v", got, want)
		}
	}
}
