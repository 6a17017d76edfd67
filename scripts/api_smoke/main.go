package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	transporthttp "github.com/vovakirdan/msgboard/internal/transport/http"
)

func main() {
	if err := run(); err != nil {
		log.Printf("api_smoke: %v", err)
		os.Exit(1)
	}
}

type client struct {
	base  string
	token string
	http  *http.Client
}

func run() error {
	addr := flag.String("addr", "http://localhost:8080", "API base address")
	user := flag.String("user", "tester", "username to register or log in with")
	password := flag.String("password", "tester-password", "password for the user")
	text := flag.String("text", "hello from smoke test", "message text to post")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	c := &client{base: *addr, http: &http.Client{}}

	creds := transporthttp.RegisterRequest{Username: *user, Password: *password}
	var auth transporthttp.AuthResponse
	status, err := c.call(ctx, http.MethodPost, "/auth/register", creds, &auth)
	if err != nil {
		return err
	}
	if status == http.StatusConflict {
		if _, err := c.call(ctx, http.MethodPost, "/auth/login", creds, &auth); err != nil {
			return err
		}
	}
	if auth.Token == "" {
		return fmt.Errorf("no token for %s (status %d)", *user, status)
	}
	c.token = auth.Token

	var created struct {
		Message transporthttp.MessageResponse `json:"message"`
	}
	if _, err := c.call(ctx, http.MethodPost, "/messages", map[string]string{"text": *text}, &created); err != nil {
		return err
	}
	fmt.Printf("created message id=%s\n", created.Message.ID)

	path := "/messages/" + created.Message.ID
	if _, err := c.call(ctx, http.MethodPost, path+"/likes", nil, nil); err != nil {
		return err
	}

	var got struct {
		Message *transporthttp.MessageResponse `json:"message"`
	}
	if _, err := c.call(ctx, http.MethodGet, path, nil, &got); err != nil {
		return err
	}
	if got.Message == nil || len(got.Message.Likes) != 1 {
		return fmt.Errorf("expected message with one like, got %+v", got.Message)
	}

	var deleted struct {
		ID string `json:"id"`
	}
	if _, err := c.call(ctx, http.MethodDelete, path, nil, &deleted); err != nil {
		return err
	}
	if deleted.ID != created.Message.ID {
		return fmt.Errorf("delete returned id %q", deleted.ID)
	}

	fmt.Println("smoke test passed")
	return nil
}

// call sends a JSON request and decodes the response into out when it is non-nil.
func (c *client) call(ctx context.Context, method, path string, body, out any) (int, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return 0, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, &buf)
	if err != nil {
		return 0, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read %s %s: %w", method, path, err)
	}
	fmt.Printf("%s %s -> %d\n", method, path, resp.StatusCode)

	if resp.StatusCode >= http.StatusBadRequest && resp.StatusCode != http.StatusConflict {
		return resp.StatusCode, fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, data)
	}
	if out != nil && resp.StatusCode < http.StatusBadRequest {
		if err := json.Unmarshal(data, out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode %s %s: %w", method, path, err)
		}
	}
	return resp.StatusCode, nil
}
