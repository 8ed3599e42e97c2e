package coachvault

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/futurepoint/coachvault/identity"
	"github.com/futurepoint/coachvault/store"
)

var _ store.Client = (*fakeStore)(nil)

// fakeStore is an in-memory store.Client with real CAS semantics: every
// write bumps a version counter and a mismatched expected version fails
// with store.ErrConflict.
type fakeStore struct {
	mu      sync.Mutex
	objects map[string]fakeObject
	seq     int
	failAll error
}

type fakeObject struct {
	content []byte
	version string
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string]fakeObject)}
}

func (s *fakeStore) nextVersion() string {
	s.seq++
	return fmt.Sprintf("v%d", s.seq)
}

func (s *fakeStore) seed(path string, content []byte) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj := fakeObject{content: content, version: s.nextVersion()}
	s.objects[path] = obj
	return obj.version
}

func (s *fakeStore) version(path string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.objects[path].version
}

func (s *fakeStore) Get(ctx context.Context, path, credential string) (*store.Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll != nil {
		return nil, s.failAll
	}
	obj, ok := s.objects[path]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &store.Object{
		Entry: store.Entry{
			Name:    path[strings.LastIndex(path, "/")+1:],
			Path:    path,
			Type:    store.EntryFile,
			Size:    int64(len(obj.content)),
			Version: obj.version,
		},
		Content: append([]byte(nil), obj.content...),
	}, nil
}

func (s *fakeStore) List(ctx context.Context, dir, credential string) ([]store.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll != nil {
		return nil, s.failAll
	}

	prefix := dir + "/"
	seenDirs := make(map[string]bool)
	var entries []store.Entry
	for path, obj := range s.objects {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		rest := strings.TrimPrefix(path, prefix)
		if idx := strings.Index(rest, "/"); idx >= 0 {
			child := rest[:idx]
			if !seenDirs[child] {
				seenDirs[child] = true
				entries = append(entries, store.Entry{
					Name: child,
					Path: prefix + child,
					Type: store.EntryDir,
				})
			}
			continue
		}
		entries = append(entries, store.Entry{
			Name:    rest,
			Path:    path,
			Type:    store.EntryFile,
			Size:    int64(len(obj.content)),
			Version: obj.version,
		})
	}
	if len(entries) == 0 {
		return nil, store.ErrNotFound
	}
	return entries, nil
}

func (s *fakeStore) Put(ctx context.Context, path string, req store.PutRequest, credential string) (*store.PutResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll != nil {
		return nil, s.failAll
	}

	current, exists := s.objects[path]
	if exists && req.ExpectedVersion != current.version {
		return nil, store.ErrConflict
	}
	if !exists && req.ExpectedVersion != "" {
		return nil, store.ErrConflict
	}

	obj := fakeObject{content: append([]byte(nil), req.Content...), version: s.nextVersion()}
	s.objects[path] = obj

	return &store.PutResult{
		Object: store.Entry{
			Name:    path[strings.LastIndex(path, "/")+1:],
			Path:    path,
			Type:    store.EntryFile,
			Size:    int64(len(obj.content)),
			Version: obj.version,
		},
		Commit: store.Commit{Version: obj.version},
	}, nil
}

func (s *fakeStore) Delete(ctx context.Context, path string, req store.DeleteRequest, credential string) (store.Commit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll != nil {
		return store.Commit{}, s.failAll
	}

	current, exists := s.objects[path]
	if !exists {
		return store.Commit{}, store.ErrNotFound
	}
	if req.ExpectedVersion != current.version {
		return store.Commit{}, store.ErrConflict
	}

	delete(s.objects, path)
	return store.Commit{Version: s.nextVersion()}, nil
}

// fakeIdentity maps credentials to profiles and knows which usernames
// exist upstream.
type fakeIdentity struct {
	profiles  map[string]identity.Profile
	users     map[string]bool
	whoErr    error
	existsErr error
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{
		profiles: make(map[string]identity.Profile),
		users:    make(map[string]bool),
	}
}

func (f *fakeIdentity) addUser(username, credential string) {
	f.users[strings.ToLower(username)] = true
	if credential != "" {
		f.profiles[credential] = identity.Profile{Username: username}
	}
}

func (f *fakeIdentity) WhoAmI(ctx context.Context, credential string) (*identity.Profile, error) {
	if f.whoErr != nil {
		return nil, f.whoErr
	}
	profile, ok := f.profiles[credential]
	if !ok {
		return nil, identity.ErrInvalidCredential
	}
	return &profile, nil
}

func (f *fakeIdentity) Exists(ctx context.Context, username, credential string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	return f.users[strings.ToLower(username)], nil
}

type testEnv struct {
	engine   *Engine
	store    *fakeStore
	identity *fakeIdentity
}

// newTestEnv seeds a registry with one super admin ("root", credential
// "root-cred") and one admin ("alice", credential "alice-cred").
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	fs := newFakeStore()
	seedRegistry(t, fs, AdminRegistry{
		SuperAdmins: []string{"root"},
		Admins:      []string{"alice"},
	})

	fi := newFakeIdentity()
	fi.addUser("root", "root-cred")
	fi.addUser("alice", "alice-cred")

	cfg := DefaultConfig()
	cfg.Session.PrivateKey = []byte("test-secret")

	engine, err := New().
		WithConfig(cfg).
		WithStore(fs).
		WithIdentity(fi).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	return &testEnv{engine: engine, store: fs, identity: fi}
}

func seedRegistry(t *testing.T, fs *fakeStore, reg AdminRegistry) {
	t.Helper()
	data, err := json.Marshal(reg)
	if err != nil {
		t.Fatalf("marshal registry: %v", err)
	}
	fs.seed("admins/admins.json", data)
}

func adminSession(username string, role Role) *Session {
	now := time.Now()
	return &Session{
		Username:  username,
		Role:      role,
		SessionID: "test-sid",
		IssuedAt:  now,
		ExpiresAt: now.Add(2 * time.Hour),
	}
}
