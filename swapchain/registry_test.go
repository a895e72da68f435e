package swapchain

import (
	"errors"
	"testing"
)

type stubChain struct {
	SwapChain
	name string
}

func stubFactory(name string) Factory {
	return func(opts Options) (SwapChain, error) {
		return &stubChain{name: name}, nil
	}
}

func TestRegistrySelectsByPriority(t *testing.T) {
	r := NewRegistry()
	r.Register("low", 10, stubFactory("low"), nil)
	r.Register("high", 100, stubFactory("high"), nil)

	chain, err := r.New(Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := chain.(*stubChain).name; got != "high" {
		t.Errorf("selected backend = %q, want %q", got, "high")
	}
}

func TestRegistrySkipsUnavailable(t *testing.T) {
	r := NewRegistry()
	r.Register("gpu", 100, stubFactory("gpu"), func() bool { return false })
	r.Register("cpu", 10, stubFactory("cpu"), func() bool { return true })

	chain, err := r.New(Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := chain.(*stubChain).name; got != "cpu" {
		t.Errorf("selected backend = %q, want %q", got, "cpu")
	}
}

func TestRegistryFallsThroughFailingFactory(t *testing.T) {
	r := NewRegistry()
	r.Register("broken", 100, func(Options) (SwapChain, error) {
		return nil, errors.New("no adapter")
	}, nil)
	r.Register("working", 10, stubFactory("working"), nil)

	chain, err := r.New(Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := chain.(*stubChain).name; got != "working" {
		t.Errorf("selected backend = %q, want %q", got, "working")
	}
}

func TestRegistryEmpty(t *testing.T) {
	r := NewRegistry()
	if _, err := r.New(Options{}); !errors.Is(err, ErrNoBackend) {
		t.Errorf("New on empty registry = %v, want ErrNoBackend", err)
	}
}

func TestRegistryNewByName(t *testing.T) {
	r := NewRegistry()
	r.Register("named", 10, stubFactory("named"), nil)

	chain, err := r.NewByName("named", Options{})
	if err != nil {
		t.Fatalf("NewByName: %v", err)
	}
	if got := chain.(*stubChain).name; got != "named" {
		t.Errorf("backend = %q, want %q", got, "named")
	}

	if _, err := r.NewByName("missing", Options{}); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("NewByName for missing = %v, want ErrUnknownBackend", err)
	}
}

func TestRegistryAvailableSorted(t *testing.T) {
	r := NewRegistry()
	r.Register("b", 50, stubFactory("b"), nil)
	r.Register("a", 50, stubFactory("a"), nil)
	r.Register("top", 100, stubFactory("top"), nil)
	r.Register("hidden", 200, stubFactory("hidden"), func() bool { return false })

	got := r.Available()
	want := []string{"top", "a", "b"}
	if len(got) != len(want) {
		t.Fatalf("Available() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Available() = %v, want %v", got, want)
		}
	}
}

func TestRegistryReplaceEntry(t *testing.T) {
	r := NewRegistry()
	r.Register("x", 10, stubFactory("first"), nil)
	r.Register("x", 10, stubFactory("second"), nil)

	chain, err := r.NewByName("x", Options{})
	if err != nil {
		t.Fatalf("NewByName: %v", err)
	}
	if got := chain.(*stubChain).name; got != "second" {
		t.Errorf("backend = %q, want replacement %q", got, "second")
	}
}

func TestGlobalRegistryHasSoftware(t *testing.T) {
	for _, name := range Available() {
		if name == "software" {
			return
		}
	}
	t.Error("software backend not registered globally")
}
