package backendapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/radiantlabs/cyberboy/internal/client/localdata"
	"github.com/radiantlabs/cyberboy/internal/model/account"
	"github.com/radiantlabs/cyberboy/internal/model/chat"
	"github.com/radiantlabs/cyberboy/internal/model/telemetry"
)

// anonymousUserID labels activity recorded before anyone logs in.
const anonymousUserID = "anonymous"

// Client talks to the telemetry backend. Session posting is best
// effort: callers log failures and move on.
type Client struct {
	baseURL string
	http    *http.Client
	local   localdata.Store
}

// New builds a client for the backend at baseURL, keeping identity
// and session state in the given local store.
func New(baseURL string, local localdata.Store) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		local:   local,
	}
}

// StoredIdentity returns the locally saved identity, if any.
func (c *Client) StoredIdentity() (account.Public, bool) {
	raw, ok, err := c.local.Get(localdata.KeyUser)
	if err != nil || !ok {
		return account.Public{}, false
	}
	var identity account.Public
	if err := json.Unmarshal([]byte(raw), &identity); err != nil {
		return account.Public{}, false
	}
	return identity, true
}

// Register creates an account. The identity is returned but not
// stored; registration flows into login.
func (c *Client) Register(ctx context.Context, email, password string) (account.Public, error) {
	var out struct {
		User account.Public `json:"user"`
	}
	err := c.post(ctx, "/api/auth/register", map[string]string{"email": email, "password": password}, &out)
	if err != nil {
		return account.Public{}, err
	}
	return out.User, nil
}

// Login authenticates, stores the identity locally and opens a fresh
// session document for the login itself.
func (c *Client) Login(ctx context.Context, email, password string) (account.Public, error) {
	var out struct {
		User account.Public `json:"user"`
	}
	err := c.post(ctx, "/api/auth/login", map[string]string{"email": email, "password": password}, &out)
	if err != nil {
		return account.Public{}, err
	}

	raw, err := json.Marshal(out.User)
	if err == nil {
		if err := c.local.Set(localdata.KeyUser, string(raw)); err != nil {
			log.Printf("[backendapi] failed to store identity: %v", err)
		}
	}

	var session telemetry.Session
	if err := c.post(ctx, "/api/sessions", map[string]string{"userId": out.User.ID}, &session); err != nil {
		log.Printf("[backendapi] failed to open login session: %v", err)
	} else if session.ID != "" {
		if err := c.local.Set(localdata.KeySessionID, session.ID); err != nil {
			log.Printf("[backendapi] failed to store session id: %v", err)
		}
	}

	return out.User, nil
}

// Logout best-effort ends the stored session and clears local
// identity state.
func (c *Client) Logout(ctx context.Context) {
	if id, ok, _ := c.local.Get(localdata.KeySessionID); ok && id != "" {
		endedAt := time.Now().UTC()
		patch := telemetry.SessionPatch{EndedAt: &endedAt}
		if err := c.put(ctx, "/api/sessions/"+id, patch, nil); err != nil {
			log.Printf("[backendapi] failed to end session: %v", err)
		}
	}

	if err := c.local.Delete(localdata.KeyUser); err != nil {
		log.Printf("[backendapi] failed to clear identity: %v", err)
	}
	if err := c.local.Delete(localdata.KeySessionID); err != nil {
		log.Printf("[backendapi] failed to clear session id: %v", err)
	}
}

// DeleteAccount removes the stored identity's account server-side and
// clears local state.
func (c *Client) DeleteAccount(ctx context.Context) error {
	identity, ok := c.StoredIdentity()
	if !ok {
		return fmt.Errorf("no stored identity")
	}

	if err := c.delete(ctx, "/api/auth/delete/"+identity.ID); err != nil {
		return err
	}

	c.Logout(ctx)
	return nil
}

type sessionPayload struct {
	UserID    string    `json:"userId"`
	Activity  []string  `json:"activity"`
	StartedAt time.Time `json:"startedAt"`
	SessionID string    `json:"sessionId,omitempty"`
}

// PostActivity records one message as a session document. The acting
// identity falls back to the stored email and then to "anonymous".
// The first created session id is kept so later posts can carry it;
// no retry on failure.
func (c *Client) PostActivity(ctx context.Context, msg chat.Message) (telemetry.Session, error) {
	userID := anonymousUserID
	if identity, ok := c.StoredIdentity(); ok {
		switch {
		case identity.ID != "":
			userID = identity.ID
		case identity.Email != "":
			userID = identity.Email
		}
	}

	payload := sessionPayload{
		UserID:    userID,
		Activity:  []string{msg.Text},
		StartedAt: time.Now().UTC(),
	}
	if id, ok, _ := c.local.Get(localdata.KeySessionID); ok {
		payload.SessionID = id
	}

	var session telemetry.Session
	if err := c.post(ctx, "/api/sessions", payload, &session); err != nil {
		return telemetry.Session{}, err
	}

	if payload.SessionID == "" && session.ID != "" {
		if err := c.local.Set(localdata.KeySessionID, session.ID); err != nil {
			log.Printf("[backendapi] failed to store session id: %v", err)
		}
	}

	return session, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	return c.do(ctx, http.MethodPost, path, payload, out)
}

func (c *Client) put(ctx context.Context, path string, payload, out any) error {
	return c.do(ctx, http.MethodPut, path, payload, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	var apiErr struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
		return fmt.Errorf("backend: %s", apiErr.Error)
	}
	return fmt.Errorf("backend: unexpected status %d", resp.StatusCode)
}
