package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/darrancebeh/ischedulr/remote"
	"github.com/darrancebeh/ischedulr/schedule"
)

const (
	defaultBaseURL = "https://www.googleapis.com/calendar/v3"
	userInfoURL    = "https://www.googleapis.com/oauth2/v2/userinfo"
)

var (
	// no credential was available; surfaced before any remote call
	ErrNoToken = errors.New("no calendar credential")
)

// RemoteError is a create or delete call the calendar service rejected.
type RemoteError struct {
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("calendar service answered %d: %s", e.StatusCode, e.Body)
}

// Client talks to the Google Calendar v3 api for the user's primary
// calendar. Every call is a single awaited request; batching is deliberately
// not used so event ids come back in creation order.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	userInfoURL string
	logger      *log.Entry
}

func NewClient(logger *log.Entry) *Client {
	limiter := remote.NewAdaptiveRateLimiter(rate.Every(250*time.Millisecond), 5, rate.Every(500*time.Millisecond))
	return &Client{
		httpClient:  remote.NewRetryClient(logger, limiter, nil),
		baseURL:     defaultBaseURL,
		userInfoURL: userInfoURL,
		logger:      logger,
	}
}

// NewClientForBase keeps the same behavior against a different endpoint,
// used by tests with a local server.
func NewClientForBase(logger *log.Entry, httpClient *http.Client, baseURL string, userInfo string) *Client {
	return &Client{
		httpClient:  httpClient,
		baseURL:     baseURL,
		userInfoURL: userInfo,
		logger:      logger,
	}
}

func (c *Client) do(ctx context.Context, token string, method string, url string, body []byte) ([]byte, int, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w %s %s: %s", remote.ErrTemporaryNetworkFailure, method, url, err)
	}
	defer res.Body.Close()
	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, res.StatusCode, fmt.Errorf("%w reading response: %s", remote.ErrTemporaryNetworkFailure, err)
	}
	return resBody, res.StatusCode, nil
}

// CreateEvent submits one event and returns the id the service assigned. A
// success response missing its id returns "" with no error: the event exists
// remotely but cannot be undone, so the caller should log and move on
// without recording it.
func (c *Client) CreateEvent(ctx context.Context, token string, event schedule.Event) (string, error) {
	if token == "" {
		return "", ErrNoToken
	}
	payload, err := wirePayload(event)
	if err != nil {
		return "", err
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	resBody, status, err := c.do(ctx, token, http.MethodPost, c.baseURL+"/calendars/primary/events", body)
	if err != nil {
		return "", err
	}
	if status >= 400 {
		return "", &RemoteError{StatusCode: status, Body: string(resBody)}
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resBody, &created); err != nil {
		return "", fmt.Errorf("decoding create response: %w", err)
	}
	if created.ID == "" {
		c.logger.Warnf("created event `%s` came back without an id", payload.Summary)
	}
	return created.ID, nil
}

// DeleteEvent removes one event by id. Events already gone from the remote
// calendar count as deleted.
func (c *Client) DeleteEvent(ctx context.Context, token string, eventID string) error {
	if token == "" {
		return ErrNoToken
	}
	resBody, status, err := c.do(ctx, token, http.MethodDelete, c.baseURL+"/calendars/primary/events/"+eventID, nil)
	if err != nil {
		return err
	}
	if status == http.StatusNotFound || status == http.StatusGone {
		c.logger.Warnf("event %s was already gone", eventID)
		return nil
	}
	if status >= 400 {
		return &RemoteError{StatusCode: status, Body: string(resBody)}
	}
	return nil
}

// Account identifies whose calendar a migration was created under.
type Account struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// UserInfo resolves the signed in account for the token. The account id is
// stored on every migration record so an undo can refuse to run against the
// wrong account.
func (c *Client) UserInfo(ctx context.Context, token string) (Account, error) {
	var account Account
	if token == "" {
		return account, ErrNoToken
	}
	resBody, status, err := c.do(ctx, token, http.MethodGet, c.userInfoURL, nil)
	if err != nil {
		return account, err
	}
	if status >= 400 {
		return account, &RemoteError{StatusCode: status, Body: string(resBody)}
	}
	if err := json.Unmarshal(resBody, &account); err != nil {
		return account, fmt.Errorf("decoding userinfo response: %w", err)
	}
	if account.ID == "" {
		return account, fmt.Errorf("userinfo response had no account id")
	}
	return account, nil
}
