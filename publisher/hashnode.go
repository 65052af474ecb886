package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"auto_blog_publisher/logger"
)

// Client publishes posts to a Hashnode publication over its GraphQL API.
// It holds no per-call state and is safe for concurrent use.
type Client struct {
	settings Settings
	client   *http.Client
	logger   logger.Logger
}

type graphqlRequest struct {
	Query string `json:"query"`
}

// statusError is a non-2xx answer from the GraphQL endpoint.
type statusError struct {
	StatusCode int
	Body       string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("HTTP error: %d - %s", e.StatusCode, e.Body)
}

// New creates a Client. A nil http.Client gets one with DefaultTimeout.
func New(settings Settings, client *http.Client, log logger.Logger) (*Client, error) {
	if settings.Token == "" || settings.PublicationID == "" {
		return nil, errors.New("hashnode token and publication id are required")
	}
	if settings.APIURL == "" {
		settings.APIURL = DefaultAPIURL
	}
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Client{settings: settings, client: client, logger: log}, nil
}

// Publish sends the publishPost mutation. Failures are reported in the
// Result with an error code, never as a Go error.
func (c *Client) Publish(ctx context.Context, req PublishRequest) Result {
	c.logger.Info("Publishing post to Hashnode", logger.String("title", req.Title))

	body, err := c.post(ctx, BuildMutation(req, c.settings.PublicationID))
	if err != nil {
		var se *statusError
		if errors.As(err, &se) {
			c.logger.Error("HTTP error publishing to Hashnode", logger.Int("status", se.StatusCode), logger.Error(err))
			return Result{Message: se.Error(), ErrorCode: CodeHTTPError}
		}
		c.logger.Error("Error publishing to Hashnode", logger.Error(err))
		return Result{Message: "Publishing failed: " + err.Error(), ErrorCode: CodeUnknownError}
	}

	// Any errors key counts, even an empty list.
	if errs := gjson.GetBytes(body, "errors"); errs.Exists() {
		msg := joinErrorMessages(errs)
		c.logger.Error("GraphQL errors", logger.String("errors", msg))
		return Result{Message: "GraphQL errors: " + msg, ErrorCode: CodeGraphQLError}
	}

	post := gjson.GetBytes(body, "data.publishPost.post")
	if !post.IsObject() || len(post.Map()) == 0 {
		return Result{Message: "No post data in response", ErrorCode: CodeEmptyResponse}
	}

	res := Result{
		Success: true,
		PostID:  post.Get("id").String(),
		PostURL: post.Get("url").String(),
		Message: "Post published successfully",
	}
	c.logger.Info("Post published successfully", logger.String("url", res.PostURL), logger.String("post_id", res.PostID))
	return res
}

// PublicationInfo looks up the configured publication. It is diagnostic only:
// any failure is logged and reported as nil.
func (c *Client) PublicationInfo(ctx context.Context) *PublicationInfo {
	body, err := c.post(ctx, BuildPublicationQuery(c.settings.PublicationID))
	if err != nil {
		c.logger.Error("Error fetching publication info", logger.Error(err))
		return nil
	}
	if errs := gjson.GetBytes(body, "errors"); errs.Exists() {
		c.logger.Error("Error fetching publication info", logger.String("errors", joinErrorMessages(errs)))
		return nil
	}

	raw := gjson.GetBytes(body, "data.publication")
	if !raw.IsObject() {
		return nil
	}
	var info PublicationInfo
	if err := json.Unmarshal([]byte(raw.Raw), &info); err != nil {
		c.logger.Error("Error decoding publication info", logger.Error(err))
		return nil
	}
	return &info
}

// post sends one GraphQL document and returns the validated JSON body.
func (c *Client) post(ctx context.Context, query string) ([]byte, error) {
	payload, err := json.Marshal(graphqlRequest{Query: query})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.settings.APIURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.settings.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &statusError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	if !gjson.ValidBytes(body) {
		return nil, errors.New("malformed JSON response")
	}
	return body, nil
}

func joinErrorMessages(errs gjson.Result) string {
	var msgs []string
	for _, e := range errs.Array() {
		msgs = append(msgs, e.Get("message").String())
	}
	return strings.Join(msgs, "; ")
}
