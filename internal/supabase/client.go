package supabase

import (
	"errors"
	"strings"

	"github.com/supabase-community/postgrest-go"
)

const (
	restPath      = "/rest/v1"
	defaultSchema = "public"
)

// Client wraps a PostgREST client for a hosted project, authenticated with
// the project's anon key
type Client struct {
	rest   *postgrest.Client
	apiKey string
}

// NewClient creates a REST client for the project at baseURL
func NewClient(baseURL, apiKey string) *Client {
	rest := postgrest.NewClient(strings.TrimRight(baseURL, "/")+restPath, defaultSchema, map[string]string{
		"apikey": apiKey,
	})
	return &Client{
		rest:   rest.SetAuthToken(apiKey),
		apiKey: apiKey,
	}
}

func (c *Client) from(table string) (*postgrest.QueryBuilder, error) {
	if c.rest.ClientError != nil {
		return nil, errors.New(c.scrub(c.rest.ClientError.Error()))
	}
	return c.rest.From(table), nil
}

// scrub removes the access key from messages that may reach logs or Sentry
func (c *Client) scrub(msg string) string {
	if c.apiKey == "" {
		return msg
	}
	return strings.ReplaceAll(msg, c.apiKey, "[REDACTED]")
}
