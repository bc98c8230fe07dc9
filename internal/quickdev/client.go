// Package quickdev is a small development client: it logs in over HTTP,
// keeps the rotating auth cookie in a jar and exercises the API end to end.
package quickdev

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"time"

	"github.com/Mal-back/cal-tracker/internal/common"
	"github.com/Mal-back/cal-tracker/internal/server/models"
)

// APIError is the decoded error envelope of a failed call.
type APIError struct {
	Status int
	Type   string
	ReqID  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d type=%s req_id=%s", e.Status, e.Type, e.ReqID)
}

type Client struct {
	base *url.URL
	http *http.Client
}

func NewClient(baseURL string) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("bad base url: %w", err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{base: u, http: &http.Client{Jar: jar, Timeout: 10 * time.Second}}, nil
}

// Token returns the auth-token currently held in the jar.
func (c *Client) Token() string {
	for _, ck := range c.http.Jar.Cookies(c.base) {
		if ck.Name == common.AuthTokenName {
			return ck.Value
		}
	}
	return ""
}

func (c *Client) call(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.JoinPath(path).String(), body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var env struct {
			Error struct {
				Type  string `json:"type"`
				ReqID string `json:"req_id"`
			} `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&env)
		return &APIError{Status: resp.StatusCode, Type: env.Error.Type, ReqID: env.Error.ReqID}
	}

	if out == nil {
		return nil
	}
	env := struct {
		Result any `json:"result"`
	}{Result: out}
	return json.NewDecoder(resp.Body).Decode(&env)
}

func (c *Client) Login(ctx context.Context, username, password string) error {
	in := map[string]string{"username": username, "password": password}
	return c.call(ctx, http.MethodPost, "/api/login/", in, nil)
}

func (c *Client) Logout(ctx context.Context) (bool, error) {
	var out struct {
		Logout bool `json:"logout"`
	}
	err := c.call(ctx, http.MethodPost, "/api/logout/", map[string]bool{"should_log_out": true}, &out)
	return out.Logout, err
}

func (c *Client) WhoAmI(ctx context.Context) (*models.FullUser, error) {
	out := &models.FullUser{}
	if err := c.call(ctx, http.MethodGet, "/api/users/", nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateMeal(ctx context.Context, in models.MealForCreate) (*models.Meal, error) {
	out := &models.Meal{}
	if err := c.call(ctx, http.MethodPost, "/api/meals/", in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListMeals(ctx context.Context) ([]*models.Meal, error) {
	var out []*models.Meal
	if err := c.call(ctx, http.MethodGet, "/api/meals/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeleteMeal(ctx context.Context, id int64) error {
	return c.call(ctx, http.MethodDelete, "/api/meals/"+strconv.FormatInt(id, 10), nil, nil)
}
