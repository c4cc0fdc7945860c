package rpcclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// newTestServer returns a server that hands each decoded request to handle
// and writes whatever it returns as the JSON body.
func newTestServer(t *testing.T, handle func(req request) interface{}) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		body, _ := io.ReadAll(r.Body)
		var req request
		if err := json.Unmarshal(body, &req); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(handle(req))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCall_Result(t *testing.T) {
	srv := newTestServer(t, func(req request) interface{} {
		if req.Method != "suix_getReferenceGasPrice" {
			t.Errorf("method = %s", req.Method)
		}
		if req.JSONRPC != "2.0" {
			t.Errorf("jsonrpc = %s", req.JSONRPC)
		}
		return map[string]interface{}{"jsonrpc": "2.0", "id": req.ID, "result": "750"}
	})

	c := New(srv.URL)
	var price string
	if err := c.Call(context.Background(), "suix_getReferenceGasPrice", &price); err != nil {
		t.Fatalf("Call() error: %v", err)
	}
	if price != "750" {
		t.Errorf("result = %q, want 750", price)
	}
}

func TestCall_PositionalParams(t *testing.T) {
	var got []interface{}
	srv := newTestServer(t, func(req request) interface{} {
		got = req.Params
		return map[string]interface{}{"jsonrpc": "2.0", "id": req.ID, "result": nil}
	})

	c := New(srv.URL)
	if err := c.Call(context.Background(), "suix_getCoins", nil, "0x1", "0x2::sui::SUI", nil, 50); err != nil {
		t.Fatalf("Call() error: %v", err)
	}
	if len(got) != 4 || got[0] != "0x1" || got[2] != nil || got[3] != float64(50) {
		t.Errorf("params = %v", got)
	}
}

func TestCall_EmptyParamsIsArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]json.RawMessage
		json.NewDecoder(r.Body).Decode(&raw)
		if string(raw["params"]) != "[]" {
			t.Errorf("params = %s, want []", raw["params"])
		}
		w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":null}`))
	}))
	defer srv.Close()

	if err := New(srv.URL).Call(context.Background(), "rpc.discover", nil); err != nil {
		t.Fatalf("Call() error: %v", err)
	}
}

func TestCall_IDsIncrease(t *testing.T) {
	var ids []uint64
	srv := newTestServer(t, func(req request) interface{} {
		ids = append(ids, req.ID)
		return map[string]interface{}{"jsonrpc": "2.0", "id": req.ID, "result": 1}
	})
	c := New(srv.URL)
	for i := 0; i < 3; i++ {
		if err := c.Call(context.Background(), "m", nil); err != nil {
			t.Fatalf("Call() error: %v", err)
		}
	}
	if len(ids) != 3 || ids[0] >= ids[1] || ids[1] >= ids[2] {
		t.Errorf("ids = %v, want strictly increasing", ids)
	}
}

func TestCall_RPCError(t *testing.T) {
	srv := newTestServer(t, func(req request) interface{} {
		return map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"error":   map[string]interface{}{"code": -32602, "message": "Invalid params"},
		}
	})

	err := New(srv.URL).Call(context.Background(), "sui_getObject", nil, "bad")
	var rpcErr *RPCError
	if !errors.As(err, &rpcErr) {
		t.Fatalf("expected *RPCError, got %v", err)
	}
	if rpcErr.Code != -32602 || rpcErr.Message != "Invalid params" {
		t.Errorf("RPCError = %+v", rpcErr)
	}
}

func TestCall_HTTPStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	err := New(srv.URL).Call(context.Background(), "m", nil)
	if !errors.Is(err, ErrHTTPStatus) {
		t.Errorf("err = %v, want ErrHTTPStatus", err)
	}
}

func TestCall_ContextCanceled(t *testing.T) {
	// The handler reads the whole body so the server notices the client
	// hanging up, and release bounds it in case the close is never seen.
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		select {
		case <-r.Context().Done():
		case <-release:
		case <-time.After(5 * time.Second):
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := New(srv.URL).Call(ctx, "m", nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want context.DeadlineExceeded", err)
	}
}

func TestCall_ConnectionRefused(t *testing.T) {
	c := NewWithTimeout("http://127.0.0.1:1", time.Second)
	if err := c.Call(context.Background(), "m", nil); err == nil {
		t.Error("expected error for unreachable endpoint")
	}
}

func TestNewWithTimeout_Default(t *testing.T) {
	c := NewWithTimeout("http://x", 0)
	if c.http.Timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", c.http.Timeout, DefaultTimeout)
	}
	if c.Endpoint() != "http://x" {
		t.Errorf("Endpoint() = %s", c.Endpoint())
	}
}
