package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/threadcraft/backend/internal/progress"
	"github.com/threadcraft/backend/internal/thread"
	"github.com/threadcraft/backend/internal/twitter"
	"github.com/threadcraft/backend/internal/vault"
)

type fakeVault struct {
	bundles   map[string]vault.Bundle
	nextID    string
	createErr error
	lookupErr error
	destroyed []string
}

func newFakeVault() *fakeVault {
	return &fakeVault{bundles: make(map[string]vault.Bundle), nextID: "session-1"}
}

func (v *fakeVault) Create(_ context.Context, bundle vault.Bundle) (string, error) {
	if v.createErr != nil {
		return "", v.createErr
	}
	v.bundles[v.nextID] = bundle
	return v.nextID, nil
}

func (v *fakeVault) Lookup(_ context.Context, sessionID string) (vault.Bundle, error) {
	if v.lookupErr != nil {
		return vault.Bundle{}, v.lookupErr
	}
	bundle, ok := v.bundles[sessionID]
	if !ok {
		return vault.Bundle{}, vault.ErrSessionNotFound
	}
	return bundle, nil
}

func (v *fakeVault) Destroy(_ context.Context, sessionID string) (bool, error) {
	v.destroyed = append(v.destroyed, sessionID)
	_, ok := v.bundles[sessionID]
	delete(v.bundles, sessionID)
	return ok, nil
}

type fakeProgress struct {
	records  map[string]progress.Record
	resetErr error
	deleted  []string
}

func newFakeProgress() *fakeProgress {
	return &fakeProgress{records: make(map[string]progress.Record)}
}

func (p *fakeProgress) Load(_ context.Context, sessionID string) progress.Record {
	return p.records[sessionID]
}

func (p *fakeProgress) Reset(_ context.Context, sessionID string) error {
	if p.resetErr != nil {
		return p.resetErr
	}
	p.records[sessionID] = progress.Record{}
	return nil
}

func (p *fakeProgress) Delete(_ context.Context, sessionID string) error {
	p.deleted = append(p.deleted, sessionID)
	delete(p.records, sessionID)
	return nil
}

type fakeTwitterClient struct {
	me    twitter.User
	meErr error
}

func (c *fakeTwitterClient) Me(context.Context) (twitter.User, error) {
	if c.meErr != nil {
		return twitter.User{}, c.meErr
	}
	return c.me, nil
}

func (c *fakeTwitterClient) CreateTweet(context.Context, string, twitter.CreateOptions) (twitter.Tweet, error) {
	return twitter.Tweet{}, nil
}

func (c *fakeTwitterClient) GetTweet(context.Context, string) (twitter.Tweet, error) {
	return twitter.Tweet{}, nil
}

func (c *fakeTwitterClient) SearchUserReplies(context.Context, string, string, int) ([]twitter.Tweet, error) {
	return nil, nil
}

func factoryFor(client twitter.Client) ClientFactory {
	return func(vault.Bundle) twitter.Client { return client }
}

type fakeThreadService struct {
	startResult thread.StartResult
	startErr    error
	postResult  thread.PostResult
	postErr     error
	preview     thread.Preview
}

func (s *fakeThreadService) Start(_ context.Context, _ twitter.Client, _, _ string) (thread.StartResult, error) {
	if s.startErr != nil {
		return thread.StartResult{}, s.startErr
	}
	return s.startResult, nil
}

func (s *fakeThreadService) PostNext(_ context.Context, _ twitter.Client, _, _, _ string) (thread.PostResult, error) {
	if s.postErr != nil {
		return thread.PostResult{}, s.postErr
	}
	return s.postResult, nil
}

func (s *fakeThreadService) PreviewNext(_ context.Context, _, _, _ string) thread.Preview {
	return s.preview
}

type fakeResolver struct {
	resolution thread.Resolution
	err        error
	lastInput  string
}

func (r *fakeResolver) Resolve(_ context.Context, _ twitter.Client, _, input string) (thread.Resolution, error) {
	r.lastInput = input
	if r.err != nil {
		return thread.Resolution{}, r.err
	}
	return r.resolution, nil
}

type allowAll struct{}

func (allowAll) Allow(string) bool { return true }

type denyAll struct{}

func (denyAll) Allow(string) bool { return false }

type responseEnvelope struct {
	Success   bool           `json:"success"`
	ErrorCode string         `json:"error_code"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) responseEnvelope {
	t.Helper()
	var resp responseEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}
