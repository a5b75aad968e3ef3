package main

import (
	"context"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/and161185/repairflow/internal/config"
	pkgcrypto "github.com/and161185/repairflow/internal/crypto"
	"github.com/and161185/repairflow/internal/model"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Auth.SigningKey = "k"
	return cfg
}

func TestOpenStore_Memory(t *testing.T) {
	cfg := testConfig(t)
	st, lim, err := openStore(context.Background(), cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("openStore: %v", err)
	}
	if st.Clients == nil || st.Equipment == nil || st.Orders == nil || st.Catalog == nil || st.Wiper == nil || lim == nil {
		t.Fatalf("incomplete store: %+v", st)
	}
}

func TestOpenStore_SQLitePersists(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.Store.Driver = config.StoreSQLite
	cfg.Store.Path = filepath.Join(t.TempDir(), "rf.db")

	st, _, err := openStore(ctx, cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("openStore: %v", err)
	}
	if err := st.Clients.Create(ctx, &model.Client{ID: "c1", Name: "Acme", TaxID: "B1"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	closeStore(st, zaptest.NewLogger(t))

	again, _, err := openStore(ctx, cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer closeStore(again, zaptest.NewLogger(t))
	c, err := again.Clients.GetByID(ctx, "c1")
	if err != nil || c.TaxID != "B1" {
		t.Fatalf("reloaded client: %+v %v", c, err)
	}
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.Store.Driver = "redis"
	if _, _, err := openStore(context.Background(), cfg, zaptest.NewLogger(t)); err == nil {
		t.Fatalf("expected error")
	}
}

func TestNewServices_Login(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	log := zaptest.NewLogger(t)
	st, lim, err := openStore(ctx, cfg, log)
	if err != nil {
		t.Fatalf("openStore: %v", err)
	}
	cred, err := pkgcrypto.NewCredential("pw")
	if err != nil {
		t.Fatalf("credential: %v", err)
	}
	svcs := newServices(cfg, st, map[string]pkgcrypto.Credential{"admin": cred}, lim, nil, log, nil)

	tok, err := svcs.Auth.Login(ctx, "admin", "pw", "127.0.0.1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	id, err := svcs.Auth.Authenticate(ctx, tok.AccessToken)
	if err != nil || !id.IsAdmin() {
		t.Fatalf("authenticate: %+v %v", id, err)
	}
}
