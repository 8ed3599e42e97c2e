// Command coachvault-server runs the admin API against a real versioned
// object store and identity endpoint.
//
// Configuration is environment driven:
//
//	COACHVAULT_OWNER        repository owner backing the object store (required)
//	COACHVAULT_REPO         repository name (required)
//	COACHVAULT_BRANCH       branch for writes (default "main")
//	COACHVAULT_LIST_TOKEN   credential used for public listing (required)
//	COACHVAULT_SIGNING_KEY  HMAC key for session tokens (required)
//	COACHVAULT_ADDR         listen address (default ":8080")
//	REDIS_ADDR              optional; enables login rate limiting
//
// A /metrics endpoint renders Prometheus text exposition when metrics are
// enabled (they are by default).
package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/redis/go-redis/v9"

	coachvault "github.com/futurepoint/coachvault"
	"github.com/futurepoint/coachvault/httpapi"
	"github.com/futurepoint/coachvault/identity"
	"github.com/futurepoint/coachvault/metrics/export/prometheus"
	"github.com/futurepoint/coachvault/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	owner := os.Getenv("COACHVAULT_OWNER")
	repo := os.Getenv("COACHVAULT_REPO")
	listToken := os.Getenv("COACHVAULT_LIST_TOKEN")
	signingKey := os.Getenv("COACHVAULT_SIGNING_KEY")
	if owner == "" || repo == "" || listToken == "" || signingKey == "" {
		return fmt.Errorf("COACHVAULT_OWNER, COACHVAULT_REPO, COACHVAULT_LIST_TOKEN and COACHVAULT_SIGNING_KEY are required")
	}

	addr := os.Getenv("COACHVAULT_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	storeClient, err := store.NewHTTPClient(store.Config{
		Owner:  owner,
		Repo:   repo,
		Branch: os.Getenv("COACHVAULT_BRANCH"),
	}, nil)
	if err != nil {
		return fmt.Errorf("store client: %w", err)
	}

	cfg := coachvault.DefaultConfig()
	cfg.Session.PrivateKey = []byte(signingKey)

	builder := coachvault.New().
		WithConfig(cfg).
		WithStore(storeClient).
		WithIdentity(identity.NewHTTPClient(identity.Config{}, nil)).
		WithAuditSink(coachvault.NewJSONWriterSink(os.Stdout))

	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
		defer rdb.Close()
		builder = builder.WithRedis(rdb)
		log.Printf("login rate limiting via redis at %s", redisAddr)
	} else {
		log.Print("REDIS_ADDR not set; login rate limiting disabled")
	}

	engine, err := builder.Build()
	if err != nil {
		return fmt.Errorf("engine build: %w", err)
	}
	defer engine.Close()

	mux := http.NewServeMux()
	mux.Handle("/api/", httpapi.NewHandler(engine, listToken).Routes())
	mux.Handle("/metrics", prometheus.NewPrometheusExporter(engine).Handler())

	log.Printf("listening on %s", addr)
	return http.ListenAndServe(addr, mux)
}
