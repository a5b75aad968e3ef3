package grpcserver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap/zaptest"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"github.com/and161185/repairflow/internal/api"
	"github.com/and161185/repairflow/internal/errs"
	"github.com/and161185/repairflow/internal/metrics"
	"github.com/and161185/repairflow/internal/model"
)

type fakeAddr struct{ s string }

func (fakeAddr) Network() string  { return "tcp" }
func (a fakeAddr) String() string { return a.s }

func TestLoggingUnary_Passthrough(t *testing.T) {
	t.Parallel()

	log := zaptest.NewLogger(t)
	ic := LoggingUnary(log)

	ctx := peer.NewContext(context.Background(), &peer.Peer{Addr: fakeAddr{s: "127.0.0.1:12345"}})

	h := func(ctx context.Context, req any) (any, error) { return "ok", nil }
	info := &grpc.UnaryServerInfo{FullMethod: "/repairflow.v1.RepairFlow/Method"}

	resp, err := ic(ctx, "req", info, h)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if s, _ := resp.(string); s != "ok" {
		t.Fatalf("resp mismatch: %v", resp)
	}

	wantErr := status.Error(codes.Internal, "boom")
	hErr := func(ctx context.Context, req any) (any, error) { return nil, wantErr }
	_, err = ic(ctx, "req", info, hErr)
	if !errors.Is(err, wantErr) {
		t.Fatalf("want original error, got: %v", err)
	}
}

func TestRecoverUnary_CatchesPanic(t *testing.T) {
	t.Parallel()

	log := zaptest.NewLogger(t)
	ic := RecoverUnary(log)

	info := &grpc.UnaryServerInfo{FullMethod: "/repairflow.v1.RepairFlow/Panic"}
	panicH := func(ctx context.Context, req any) (any, error) {
		panic("oh no")
	}

	_, err := ic(context.Background(), "req", info, panicH)
	if err == nil {
		t.Fatalf("expected error from panic")
	}
	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.Internal {
		t.Fatalf("want codes.Internal, got: %v", err)
	}
}

func TestRecoverUnary_NoPanicPassThrough(t *testing.T) {
	t.Parallel()

	ic := RecoverUnary(zaptest.NewLogger(t))
	info := &grpc.UnaryServerInfo{FullMethod: "/repairflow.v1.RepairFlow/Ok"}
	h := func(ctx context.Context, req any) (any, error) { return 42, nil }

	resp, err := ic(context.Background(), "req", info, h)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if resp.(int) != 42 {
		t.Fatalf("resp mismatch: %v", resp)
	}
}

func TestMetricsUnary_CountsByCode(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(reg, reg)
	ic := MetricsUnary(m)
	info := &grpc.UnaryServerInfo{FullMethod: api.FullMethod(api.MethodMe)}

	_, _ = ic(context.Background(), nil, info, func(context.Context, any) (any, error) { return "ok", nil })
	_, _ = ic(context.Background(), nil, info, func(context.Context, any) (any, error) {
		return nil, status.Error(codes.NotFound, "nope")
	})

	if n, err := testutil.GatherAndCount(reg, "repairflow_grpc_requests_total"); err != nil || n != 2 {
		t.Fatalf("series: n=%d err=%v", n, err)
	}

	// nil metrics are a no-op
	if _, err := MetricsUnary(nil)(context.Background(), nil, info, func(context.Context, any) (any, error) { return 1, nil }); err != nil {
		t.Fatalf("nil metrics: %v", err)
	}
}

type stubAuth struct {
	tokens map[string]string
}

func (a *stubAuth) Login(context.Context, string, string, string) (model.Tokens, error) {
	return model.Tokens{}, errs.ErrUnauthorized
}

func (a *stubAuth) Authenticate(_ context.Context, tok string) (model.Identity, error) {
	if u, ok := a.tokens[tok]; ok {
		return model.Identity{Username: u}, nil
	}
	return model.Identity{}, errs.ErrUnauthorized
}

func TestAuthUnary(t *testing.T) {
	t.Parallel()

	ic := AuthUnary(&stubAuth{tokens: map[string]string{"good": "Mariano"}})
	var seen model.Identity
	h := func(ctx context.Context, req any) (any, error) {
		seen, _ = IdentityFromCtx(ctx)
		return "ok", nil
	}
	withTok := func(tok string) context.Context {
		return metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer "+tok))
	}
	me := &grpc.UnaryServerInfo{FullMethod: api.FullMethod(api.MethodMe)}

	if _, err := ic(withTok("good"), nil, me, h); err != nil || seen.Username != "Mariano" {
		t.Fatalf("valid token: seen=%+v err=%v", seen, err)
	}
	if _, err := ic(withTok("bad"), nil, me, h); status.Code(err) != codes.Unauthenticated {
		t.Fatalf("bad token: %v", err)
	}
	if _, err := ic(context.Background(), nil, me, h); status.Code(err) != codes.Unauthenticated {
		t.Fatalf("no token: %v", err)
	}

	// Login and foreign services pass through without a token.
	for _, m := range []string{api.FullMethod(api.MethodLogin), "/grpc.health.v1.Health/Check"} {
		if _, err := ic(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: m}, h); err != nil {
			t.Fatalf("%s must be public: %v", m, err)
		}
	}
}

func TestLoggingUnary_DurationFieldDoesNotBlock(t *testing.T) {
	t.Parallel()

	ic := LoggingUnary(zaptest.NewLogger(t))
	info := &grpc.UnaryServerInfo{FullMethod: "/repairflow.v1.RepairFlow/Sleep"}
	h := func(ctx context.Context, req any) (any, error) {
		time.Sleep(5 * time.Millisecond)
		return "done", nil
	}

	start := time.Now()
	resp, err := ic(context.Background(), "req", info, h)
	if err != nil || resp.(string) != "done" {
		t.Fatalf("unexpected result: %v, %v", resp, err)
	}
	if time.Since(start) < 5*time.Millisecond {
		t.Fatalf("duration should reflect handler time")
	}
}
