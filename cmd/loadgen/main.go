package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Code    string          `json:"code"`
}

type client struct {
	http    *http.Client
	baseURL string
	token   string
}

func (c *client) call(ctx context.Context, method, path string, body any, out any) (int, error) {
	var payload bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&payload).Encode(body); err != nil {
			return 0, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &payload)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNoContent {
		return resp.StatusCode, nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return resp.StatusCode, fmt.Errorf("%s %s: decode: %w", method, path, err)
	}
	if !env.Success {
		return resp.StatusCode, fmt.Errorf("%s %s: %d %s", method, path, resp.StatusCode, env.Code)
	}
	if out != nil {
		return resp.StatusCode, json.Unmarshal(env.Data, out)
	}
	return resp.StatusCode, nil
}

// checkout runs one shopper end to end: register, login, fill the cart
// and place an order built from it.
func checkout(ctx context.Context, base *client, productID string) error {
	email := fmt.Sprintf("load-%s@example.com", uuid.NewString()[:12])
	password := "load-password"

	c := &client{http: base.http, baseURL: base.baseURL}
	if _, err := c.call(ctx, http.MethodPost, "/api/auth/register", map[string]string{
		"email": email, "password": password, "displayName": "Load Tester",
	}, nil); err != nil {
		return err
	}

	var tokens struct {
		AccessToken string `json:"accessToken"`
	}
	if _, err := c.call(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email": email, "password": password,
	}, &tokens); err != nil {
		return err
	}
	c.token = tokens.AccessToken

	var cart struct {
		Items []struct {
			ProductID   string `json:"productId"`
			ProductName string `json:"productName"`
			Quantity    int    `json:"quantity"`
			UnitPrice   int64  `json:"unitPrice"`
		} `json:"items"`
	}
	if _, err := c.call(ctx, http.MethodPost, "/api/cart", map[string]any{
		"productId": productID, "colorId": "black", "sizeId": "M", "quantity": 1,
	}, &cart); err != nil {
		return err
	}

	if _, err := c.call(ctx, http.MethodPost, "/api/orders", map[string]any{"items": cart.Items}, nil); err != nil {
		return err
	}
	_, err := c.call(ctx, http.MethodDelete, "/api/cart", nil, nil)
	return err
}

func main() {
	gateway := flag.String("gateway", "http://localhost:8080", "gateway base URL")
	productID := flag.String("product", "P1", "product id to buy")
	shoppers := flag.Int("n", 50, "number of concurrent shoppers")
	timeout := flag.Duration("timeout", 30*time.Second, "overall timeout")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	base := &client{http: &http.Client{Timeout: 10 * time.Second}, baseURL: *gateway}

	var successCount atomic.Int32
	var failCount atomic.Int32

	var wg sync.WaitGroup
	start := time.Now()
	for i := 0; i < *shoppers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := checkout(ctx, base, *productID); err != nil {
				failCount.Add(1)
				log.Printf("checkout failed: %v", err)
				return
			}
			successCount.Add(1)
		}()
	}
	wg.Wait()
	elapsed := time.Since(start)

	fmt.Println("========== LOAD TEST RESULTS ==========")
	fmt.Printf("Shoppers:     %d\n", *shoppers)
	fmt.Printf("Checked out:  %d\n", successCount.Load())
	fmt.Printf("Failed:       %d\n", failCount.Load())
	fmt.Printf("Duration:     %v\n", elapsed)
	fmt.Println("=======================================")
}
