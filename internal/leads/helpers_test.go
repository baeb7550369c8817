package leads

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/wolfman30/lead-intake/pkg/logging"
)

type fakeNotifier struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (f *fakeNotifier) Send(ctx context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, text)
	return nil
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fakeStore struct {
	countCalls int
	count      int
	countErr   error
	insertErr  error
	inserted   []Lead
}

func (f *fakeStore) CountByAddress(ctx context.Context, address string) (int, error) {
	f.countCalls++
	return f.count, f.countErr
}

func (f *fakeStore) Insert(ctx context.Context, lead *Lead) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, *lead)
	return nil
}

type fakeGuard struct {
	held       map[string]bool
	acquireErr error
	released   []string
}

func (g *fakeGuard) Acquire(ctx context.Context, address string) (string, bool, error) {
	if g.acquireErr != nil {
		return "", false, g.acquireErr
	}
	if g.held == nil {
		g.held = map[string]bool{}
	}
	if g.held[address] {
		return "", false, nil
	}
	g.held[address] = true
	return "token-" + address, true, nil
}

func (g *fakeGuard) Release(ctx context.Context, address, token string) error {
	if token != "token-"+address {
		return fmt.Errorf("unexpected token %q", token)
	}
	delete(g.held, address)
	g.released = append(g.released, address)
	return nil
}

func quietLogger() *logging.Logger {
	return logging.NewWithWriter("error", io.Discard)
}

func validBody(t *testing.T, overrides map[string]any) []byte {
	t.Helper()
	payload := map[string]any{
		"firstName": "Ivan",
		"lastName":  "Petrov",
		"email":     "ivan@example.com",
		"phone":     "+66812345678",
		"platform":  "web",
	}
	for k, v := range overrides {
		if v == nil {
			delete(payload, k)
			continue
		}
		payload[k] = v
	}
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	return body
}

func decodeJSON(t *testing.T, body string) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		t.Fatalf("response body %q is not JSON: %v", body, err)
	}
	return out
}
