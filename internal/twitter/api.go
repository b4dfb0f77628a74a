package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the production v2 API endpoint.
const DefaultBaseURL = "https://api.twitter.com/2"

const maxErrorBodyBytes = 4 << 10

// Credentials carries the five fields needed to act as a user. Reads use the
// bearer token; writes are signed with the OAuth 1.0a user context.
type Credentials struct {
	APIKey            string
	APISecret         string
	AccessToken       string
	AccessTokenSecret string
	BearerToken       string
}

// HTTPClient implements Client against the X/Twitter v2 REST API.
type HTTPClient struct {
	baseURL string
	creds   Credentials
	signer  *oauth1Signer
	client  *http.Client
}

// NewHTTPClient constructs a client for one credential set.
func NewHTTPClient(creds Credentials, baseURL string, timeout time.Duration) *HTTPClient {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		creds:   creds,
		signer:  newOAuth1Signer(creds.APIKey, creds.APISecret, creds.AccessToken, creds.AccessTokenSecret),
		client:  &http.Client{Timeout: timeout},
	}
}

// Me returns the authenticated user.
func (c *HTTPClient) Me(ctx context.Context) (User, error) {
	query := url.Values{"user.fields": {"profile_image_url,username,name"}}

	var payload struct {
		Data struct {
			ID              string `json:"id"`
			Username        string `json:"username"`
			Name            string `json:"name"`
			ProfileImageURL string `json:"profile_image_url"`
		} `json:"data"`
	}
	if err := c.get(ctx, "/users/me", query, &payload); err != nil {
		return User{}, err
	}

	return User{
		ID:              payload.Data.ID,
		Username:        payload.Data.Username,
		Name:            payload.Data.Name,
		ProfileImageURL: payload.Data.ProfileImageURL,
	}, nil
}

// CreateTweet posts a tweet, optionally as a reply with restricted reply
// settings. This is a write, so it is signed with the user context.
func (c *HTTPClient) CreateTweet(ctx context.Context, text string, opts CreateOptions) (Tweet, error) {
	body := map[string]any{"text": text}
	if opts.ReplySettings != "" {
		body["reply_settings"] = opts.ReplySettings
	}
	if opts.InReplyTo != "" {
		body["reply"] = map[string]string{"in_reply_to_tweet_id": opts.InReplyTo}
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return Tweet{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/tweets", bytes.NewReader(raw))
	if err != nil {
		return Tweet{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.signer.authorize(req)

	var payload struct {
		Data struct {
			ID   string `json:"id"`
			Text string `json:"text"`
		} `json:"data"`
	}
	if err := c.do(req, &payload); err != nil {
		return Tweet{}, err
	}

	return Tweet{ID: payload.Data.ID, Text: payload.Data.Text}, nil
}

// GetTweet fetches a tweet by identifier including its author.
func (c *HTTPClient) GetTweet(ctx context.Context, id string) (Tweet, error) {
	query := url.Values{"tweet.fields": {"author_id,created_at"}}

	var payload struct {
		Data struct {
			ID       string `json:"id"`
			Text     string `json:"text"`
			AuthorID string `json:"author_id"`
		} `json:"data"`
		Errors []struct {
			Title string `json:"title"`
		} `json:"errors"`
	}
	if err := c.get(ctx, "/tweets/"+url.PathEscape(id), query, &payload); err != nil {
		return Tweet{}, err
	}

	// The v2 API reports an unknown tweet id as a 200 with an errors array.
	if payload.Data.ID == "" {
		detail := "not found"
		if len(payload.Errors) > 0 {
			detail = payload.Errors[0].Title
		}
		return Tweet{}, &APIError{StatusCode: 404, Detail: detail}
	}

	return Tweet{ID: payload.Data.ID, Text: payload.Data.Text, AuthorID: payload.Data.AuthorID}, nil
}

// SearchUserReplies returns recent tweets by username inside the given
// conversation, newest first, bounded by maxResults.
func (c *HTTPClient) SearchUserReplies(ctx context.Context, conversationID, username string, maxResults int) ([]Tweet, error) {
	if maxResults <= 0 || maxResults > 100 {
		maxResults = 100
	}

	query := url.Values{
		"query":        {fmt.Sprintf("conversation_id:%s from:%s", conversationID, username)},
		"max_results":  {strconv.Itoa(maxResults)},
		"tweet.fields": {"created_at,text,author_id"},
	}

	var payload struct {
		Data []struct {
			ID       string `json:"id"`
			Text     string `json:"text"`
			AuthorID string `json:"author_id"`
		} `json:"data"`
	}
	if err := c.get(ctx, "/tweets/search/recent", query, &payload); err != nil {
		return nil, err
	}

	tweets := make([]Tweet, 0, len(payload.Data))
	for _, item := range payload.Data {
		tweets = append(tweets, Tweet{ID: item.ID, Text: item.Text, AuthorID: item.AuthorID})
	}
	return tweets, nil
}

func (c *HTTPClient) get(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.creds.BearerToken)

	return c.do(req, out)
}

func (c *HTTPClient) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("twitter request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return &APIError{StatusCode: resp.StatusCode, Detail: strings.TrimSpace(string(detail))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode twitter response: %w", err)
	}
	return nil
}

var _ Client = (*HTTPClient)(nil)
