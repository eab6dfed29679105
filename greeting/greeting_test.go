package greeting

import (
	"context"
	"sync"
	"testing"
)

func TestGetGreeting_ReturnsLiteral(t *testing.T) {
	p := New()

	got := p.GetGreeting(context.Background())
	if got != "Hello from C++" {
		t.Fatalf("got %q, want %q", got, "Hello from C++")
	}
	if len(got) != 14 {
		t.Fatalf("length = %d, want 14", len(got))
	}
}

func TestGetGreeting_Idempotent(t *testing.T) {
	p := New()
	ctx := context.Background()

	first := p.GetGreeting(ctx)
	for i := 0; i < 100; i++ {
		if got := p.GetGreeting(ctx); got != first {
			t.Fatalf("call %d: got %q, want %q", i, got, first)
		}
	}
}

// The calling-context handle is opaque and never read: any context must
// yield the same value.
func TestGetGreeting_ContextIgnored(t *testing.T) {
	p := New()

	type ctxKey string
	ctxs := []context.Context{
		context.Background(),
		context.TODO(),
		context.WithValue(context.Background(), ctxKey("k"), "v"),
	}

	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	ctxs = append(ctxs, canceled)

	for i, ctx := range ctxs {
		if got := p.GetGreeting(ctx); got != Message {
			t.Fatalf("ctx %d: got %q, want %q", i, got, Message)
		}
	}
}

func TestGetGreeting_Concurrent(t *testing.T) {
	p := New()
	ctx := context.Background()

	const goroutines = 100
	results := make([]string, goroutines)

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx] = p.GetGreeting(ctx)
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		if got != Message {
			t.Fatalf("goroutine %d: got %q, want %q", i, got, Message)
		}
	}
}

func TestNamespace(t *testing.T) {
	if ns := New().Namespace(); ns != "hello:greeter/provider" {
		t.Fatalf("namespace = %q, want %q", ns, "hello:greeter/provider")
	}
}
