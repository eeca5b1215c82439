package feeds

import (
	"context"
	"testing"
	"time"
)

func TestRateLimiter_AllowsUpToBurstImmediately(t *testing.T) {
	rl := NewRateLimiter(60, 3)
	for i := 0; i < 3; i++ {
		if !rl.Allow("oracle") {
			t.Fatalf("call %d: expected allowed within burst", i)
		}
	}
	if rl.Allow("oracle") {
		t.Fatalf("expected the 4th call to exceed the burst")
	}
}

func TestRateLimiter_ProvidersAreIndependent(t *testing.T) {
	rl := NewRateLimiter(60, 1)
	if !rl.Allow("oracle") {
		t.Fatalf("expected oracle's first call to be allowed")
	}
	if !rl.Allow("narrative") {
		t.Fatalf("expected narrative's bucket to be independent of oracle's")
	}
}

func TestRateLimiter_RefillsOverTime(t *testing.T) {
	rl := NewRateLimiter(60, 1) // 1 token/sec
	if !rl.Allow("oracle") {
		t.Fatalf("expected first call allowed")
	}
	if rl.Allow("oracle") {
		t.Fatalf("expected second immediate call to be denied")
	}
	time.Sleep(1100 * time.Millisecond)
	if !rl.Allow("oracle") {
		t.Fatalf("expected a refilled token after waiting past the refill interval")
	}
}

func TestRateLimiter_WaitReturnsPromptlyWhenTokenAvailable(t *testing.T) {
	rl := NewRateLimiter(60, 1)
	if err := rl.Wait(context.Background(), "metadata"); err != nil {
		t.Fatalf("Wait: %v", err)
	}
}

func TestRateLimiter_WaitRespectsContextCancellation(t *testing.T) {
	rl := NewRateLimiter(1, 1) // 1 call/min, so the second call must wait ~60s
	if !rl.Allow("price") {
		t.Fatalf("expected first call allowed")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := rl.Wait(ctx, "price"); err == nil {
		t.Fatalf("expected Wait to return an error once ctx's deadline passed")
	}
}
