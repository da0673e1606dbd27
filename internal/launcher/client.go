// Package launcher is the settings-panel side of the session.
//
// It owns no session state: every read and every trigger goes to the
// session API, and live updates arrive over the notification stream.
// Rendering is left to the panel shell; this package is the typed
// client it drives.
package launcher

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/gorilla/websocket"

	"github.com/blue-environment/blued/internal/settings"
	"github.com/blue-environment/blued/internal/supervisor"
	"github.com/blue-environment/blued/internal/window"
)

// Client is a stateless consumer of the session API.
type Client struct {
	http    *resty.Client
	baseURL string
}

// NewClient creates a client for the session API at baseURL
// (e.g. "http://127.0.0.1:7015").
func NewClient(baseURL string) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(10 * time.Second),
		baseURL: baseURL,
	}
}

// State fetches the current settings snapshot.
func (c *Client) State(ctx context.Context) (settings.State, error) {
	var state settings.State
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&state).
		Get("/state")
	if err != nil {
		return settings.State{}, fmt.Errorf("fetch state: %w", err)
	}
	if resp.IsError() {
		return settings.State{}, fmt.Errorf("fetch state: %s", resp.Status())
	}
	return state, nil
}

// Apps fetches the tracked app processes.
func (c *Client) Apps(ctx context.Context) ([]supervisor.Process, error) {
	var result struct {
		Apps []supervisor.Process `json:"apps"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&result).
		Get("/apps")
	if err != nil {
		return nil, fmt.Errorf("fetch apps: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch apps: %s", resp.Status())
	}
	return result.Apps, nil
}

// LaunchOutcome is the session's answer to a launch trigger.
type LaunchOutcome struct {
	Outcome string `json:"outcome"`
	App     string `json:"app"`
	Error   string `json:"error"`
}

// Launch triggers an app launch by logical name.
func (c *Client) Launch(ctx context.Context, name string) (LaunchOutcome, error) {
	var outcome LaunchOutcome
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&outcome).
		SetError(&outcome).
		Post("/apps/" + url.PathEscape(name) + "/launch")
	if err != nil {
		return LaunchOutcome{}, fmt.Errorf("launch %s: %w", name, err)
	}
	if resp.IsError() && outcome.Outcome == "" {
		return LaunchOutcome{}, fmt.Errorf("launch %s: %s", name, resp.Status())
	}
	return outcome, nil
}

// Windows fetches the window stack, frontmost last.
func (c *Client) Windows(ctx context.Context) ([]window.Window, error) {
	var result struct {
		Windows []window.Window `json:"windows"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&result).
		Get("/windows")
	if err != nil {
		return nil, fmt.Errorf("fetch windows: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch windows: %s", resp.Status())
	}
	return result.Windows, nil
}

// ShowDesktop asks the session to restore every window to normal.
func (c *Client) ShowDesktop(ctx context.Context) error {
	return c.post(ctx, "/desktop/show", nil)
}

// AdjustBrightness sends a brightness delta.
func (c *Client) AdjustBrightness(ctx context.Context, delta float64) error {
	return c.post(ctx, "/settings/brightness", map[string]float64{"delta": delta})
}

// AdjustVolume sends a volume delta.
func (c *Client) AdjustVolume(ctx context.Context, delta float64) error {
	return c.post(ctx, "/settings/volume", map[string]float64{"delta": delta})
}

// ToggleWifi flips the wifi radio.
func (c *Client) ToggleWifi(ctx context.Context) error {
	return c.post(ctx, "/settings/wifi/toggle", nil)
}

// ToggleBluetooth flips the bluetooth radio.
func (c *Client) ToggleBluetooth(ctx context.Context) error {
	return c.post(ctx, "/settings/bluetooth/toggle", nil)
}

// SetTimezone changes the session timezone.
func (c *Client) SetTimezone(ctx context.Context, tz string) error {
	return c.post(ctx, "/settings/timezone", map[string]string{"timezone": tz})
}

// Clipboard reads the current clipboard content.
func (c *Client) Clipboard(ctx context.Context) (string, error) {
	var result struct {
		Content string `json:"content"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&result).
		Get("/clipboard")
	if err != nil {
		return "", fmt.Errorf("read clipboard: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("read clipboard: %s", resp.Status())
	}
	return result.Content, nil
}

// OpenPackageManager opens the distro's package manager.
func (c *Client) OpenPackageManager(ctx context.Context) error {
	return c.post(ctx, "/packages/open", nil)
}

// Notifications fetches the full notification log.
func (c *Client) Notifications(ctx context.Context) ([]string, error) {
	var result struct {
		Notifications []string `json:"notifications"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&result).
		Get("/notifications")
	if err != nil {
		return nil, fmt.Errorf("fetch notifications: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch notifications: %s", resp.Status())
	}
	return result.Notifications, nil
}

// ClearNotifications empties the session's notification log.
func (c *Client) ClearNotifications(ctx context.Context) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Delete("/notifications")
	if err != nil {
		return fmt.Errorf("clear notifications: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("clear notifications: %s", resp.Status())
	}
	return nil
}

// FollowNotifications streams notifications to fn until the context
// ends or the connection drops.
func (c *Client) FollowNotifications(ctx context.Context, fn func(message string)) error {
	streamURL, err := c.streamURL()
	if err != nil {
		return err
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, streamURL, nil)
	if err != nil {
		return fmt.Errorf("dial notification stream: %w", err)
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		var msg struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		}
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("notification stream: %w", err)
		}
		if msg.Type == "notification" {
			fn(msg.Message)
		}
	}
}

func (c *Client) streamURL() (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = "/stream"
	return u.String(), nil
}

func (c *Client) post(ctx context.Context, path string, body interface{}) error {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	resp, err := req.Post(path)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	if resp.IsError() {
		return fmt.Errorf("post %s: %s", path, resp.Status())
	}
	return nil
}
