// Package client talks to a running fresh API server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"fresh/internal/models"
	"fresh/internal/planner"
)

// DefaultBaseURL is used when FRESH_API_URL is unset
const DefaultBaseURL = "http://localhost:8080"

// APIError is a non-2xx response carrying the server's error message
type APIError struct {
	Status   int
	Message  string
	Category string
}

func (e *APIError) Error() string {
	if e.Category != "" {
		return fmt.Sprintf("api error %d: %s (%s)", e.Status, e.Message, e.Category)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Client handles API requests to the fresh server
type Client struct {
	httpClient *http.Client
	BaseURL    string
	Token      string
	logger     *slog.Logger
}

// New creates a client. An empty baseURL falls back to FRESH_API_URL, then
// DefaultBaseURL.
func New(baseURL string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = os.Getenv("FRESH_API_URL")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		BaseURL:    baseURL,
		logger:     logger,
	}
}

// CheckHealth checks if the API is up and running
func (c *Client) CheckHealth(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

// Login authenticates and keeps the returned token for later calls
func (c *Client) Login(ctx context.Context, email, password string) (*models.User, error) {
	var resp struct {
		User  models.User `json:"user"`
		Token string      `json:"token"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/login", body, &resp); err != nil {
		return nil, err
	}
	c.Token = resp.Token
	return &resp.User, nil
}

// Recipes fetches the whole catalog. Failures are logged and yield an empty list.
func (c *Client) Recipes(ctx context.Context) []models.Recipe {
	return c.fetchRecipes(ctx, "/api/recipes")
}

// AIMenu fetches the recipes the caller's pantry covers. Failures are logged
// and yield an empty list.
func (c *Client) AIMenu(ctx context.Context) []models.Recipe {
	return c.fetchRecipes(ctx, "/api/ai-menu")
}

func (c *Client) fetchRecipes(ctx context.Context, path string) []models.Recipe {
	recipes := []models.Recipe{}
	if err := c.do(ctx, http.MethodGet, path, nil, &recipes); err != nil {
		c.logger.Error("Failed to fetch recipes", slog.String("path", path), slog.String("error", err.Error()))
		return []models.Recipe{}
	}
	return recipes
}

// MealPlan fetches the caller's current plan
func (c *Client) MealPlan(ctx context.Context) (*planner.WeeklyMealPlan, error) {
	plan := &planner.WeeklyMealPlan{}
	if err := c.do(ctx, http.MethodGet, "/api/mealplan", nil, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// Craft asks the server to craft a new week and returns it. An insufficient
// catalog comes back as an *APIError with Category set.
func (c *Client) Craft(ctx context.Context) (*planner.WeeklyMealPlan, error) {
	plan := &planner.WeeklyMealPlan{}
	if err := c.do(ctx, http.MethodPost, "/api/mealplan/craft", nil, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// Clear empties the caller's plan and returns it
func (c *Client) Clear(ctx context.Context) (*planner.WeeklyMealPlan, error) {
	plan := &planner.WeeklyMealPlan{}
	if err := c.do(ctx, http.MethodDelete, "/api/mealplan", nil, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload struct {
			Error    string `json:"error"`
			Category string `json:"category"`
		}
		if json.NewDecoder(resp.Body).Decode(&payload) == nil {
			apiErr.Message = payload.Error
			apiErr.Category = payload.Category
		}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
