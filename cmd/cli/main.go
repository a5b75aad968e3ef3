// Command rfctl is a CLI client for the RepairFlow service.
package main

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/pflag"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/and161185/repairflow/internal/api"
)

// ---- config/token store ----

type tokenFile struct {
	Username    string    `json:"username"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func cfgDir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "repairflow")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "repairflow")
}

func tokenPath() string { return filepath.Join(cfgDir(), "token.json") }

func saveToken(tf tokenFile) error {
	if err := os.MkdirAll(cfgDir(), 0o700); err != nil {
		return err
	}
	f, err := os.OpenFile(tokenPath(), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(tf)
}

func loadToken() (string, error) {
	b, err := os.ReadFile(tokenPath())
	if err != nil {
		return "", errors.New("not logged in (run: rfctl login -u NAME -p PASSWORD)")
	}
	var tf tokenFile
	if err := json.Unmarshal(b, &tf); err != nil {
		return "", err
	}
	if tf.AccessToken == "" || time.Now().After(tf.ExpiresAt) {
		return "", errors.New("no valid token (login required)")
	}
	return tf.AccessToken, nil
}

func removeToken() error {
	err := os.Remove(tokenPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// ---- grpc dial ----

type bearerCreds struct {
	token  string
	secure bool
}

func (b bearerCreds) GetRequestMetadata(context.Context, ...string) (map[string]string, error) {
	return map[string]string{"authorization": "Bearer " + b.token}, nil
}
func (b bearerCreds) RequireTransportSecurity() bool { return b.secure }

type dialOptions struct {
	addr      string
	caPath    string
	insecure  bool // TLS without verification
	plaintext bool // no TLS at all
}

func loadTLS(caPath string, skipVerify bool) (credentials.TransportCredentials, error) {
	if skipVerify {
		return credentials.NewTLS(&tls.Config{InsecureSkipVerify: true}), nil
	}
	if caPath == "" {
		return credentials.NewClientTLSFromCert(nil, ""), nil
	}
	pem, err := os.ReadFile(caPath)
	if err != nil {
		return nil, err
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, errors.New("bad CA cert")
	}
	return credentials.NewTLS(&tls.Config{RootCAs: pool}), nil
}

func dial(o dialOptions, bearer string) (*grpc.ClientConn, error) {
	var creds credentials.TransportCredentials
	if o.plaintext {
		creds = insecure.NewCredentials()
	} else {
		c, err := loadTLS(o.caPath, o.insecure)
		if err != nil {
			return nil, err
		}
		creds = c
	}
	opts := []grpc.DialOption{grpc.WithTransportCredentials(creds)}
	if bearer != "" {
		opts = append(opts, grpc.WithPerRPCCredentials(bearerCreds{token: bearer, secure: !o.plaintext}))
	}
	return grpc.NewClient(o.addr, opts...)
}

// ---- utils ----

func readAll(p string) ([]byte, error) {
	if p == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(p)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func fail(err error) {
	if s, ok := status.FromError(err); ok && s.Code() != codes.OK {
		fmt.Fprintf(os.Stderr, "rpc error: code=%s msg=%s\n", s.Code(), s.Message())
		os.Exit(1)
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func usage() {
	fmt.Fprintf(os.Stderr, `rfctl - RepairFlow CLI
Usage:
  rfctl [--addr HOST:PORT] [--cacert file | --insecure | --plaintext] <cmd> [flags]

Commands:
`)
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(os.Stderr, "  %-22s %s\n", name, commands[name].usage)
	}
	fmt.Fprintf(os.Stderr, "  %-22s %s\n", "logout", "forget the saved token")
	fmt.Fprintf(os.Stderr, "  %-22s %s\n", "version", "print the client version")
}

// ---- app ----

// app runs one subcommand. connect is replaced in tests.
type app struct {
	out       io.Writer
	connect   func(bearer string) (grpc.ClientConnInterface, io.Closer, error)
	token     func() (string, error)
	saveToken func(tokenFile) error
}

func (a *app) run(ctx context.Context, name string, args []string) error {
	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("unknown command %q", name)
	}
	var bearer string
	if !cmd.public {
		tok, err := a.token()
		if err != nil {
			return err
		}
		bearer = tok
	}
	cc, closer, err := a.connect(bearer)
	if err != nil {
		return err
	}
	defer closer.Close()

	return cmd.run(ctx, &session{cl: api.NewRepairFlowClient(cc), out: a.out, saveToken: a.saveToken}, args)
}

// ---- main ----

var (
	version   = "dev"
	buildDate = "unknown"
)

// main dispatches subcommands and configures TLS/auth for RPC calls.
func main() {
	global := pflag.NewFlagSet("rfctl", pflag.ExitOnError)
	var o dialOptions
	global.StringVar(&o.addr, "addr", envOr("RFCTL_ADDR", "localhost:8443"), "server addr")
	global.StringVar(&o.caPath, "cacert", "", "CA cert (PEM)")
	global.BoolVar(&o.insecure, "insecure", false, "skip cert verify (dev)")
	global.BoolVar(&o.plaintext, "plaintext", false, "connect without TLS")
	global.SetInterspersed(false)
	global.Usage = usage
	_ = global.Parse(os.Args[1:])

	if global.NArg() < 1 {
		usage()
		os.Exit(2)
	}
	name, args := global.Arg(0), global.Args()[1:]

	switch name {
	case "version":
		fmt.Printf("rfctl %s (%s)\n", version, buildDate)
		return
	case "logout":
		if err := removeToken(); err != nil {
			fail(err)
		}
		fmt.Println("ok")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a := &app{
		out: os.Stdout,
		connect: func(bearer string) (grpc.ClientConnInterface, io.Closer, error) {
			cc, err := dial(o, bearer)
			if err != nil {
				return nil, nil, err
			}
			return cc, cc, nil
		},
		token:     loadToken,
		saveToken: saveToken,
	}
	if err := a.run(ctx, name, args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(2)
		}
		fail(err)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
