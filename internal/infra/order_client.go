package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"order-console/internal/domain"
)

var (
	ErrUnauthorized      = errors.New("order service: unauthorized")
	ErrRemoteUnavailable = errors.New("order service: unavailable")
	ErrOrderNotFound     = errors.New("order service: order not found")
)

const (
	ordersPath       = "/api/order/all"
	updateStatusPath = "/api/order/update-status"
)

type ordersEnvelope struct {
	Data    []*domain.Order `json:"data"`
	Message string          `json:"message"`
}

// OrderClient talks to the order service over HTTP. Concurrent identical
// fetches share one request and repeated transport failures open a breaker.
type OrderClient struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	fetches    singleflight.Group
	log        *zap.Logger
}

func NewOrderClient(baseURL string, timeout time.Duration, log *zap.Logger) *OrderClient {
	if log == nil {
		log = zap.NewNop()
	}
	return &OrderClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "order-service",
			MaxRequests: 1,
			Timeout:     15 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warn("circuit breaker state changed",
					zap.String("name", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()))
			},
		}),
		log: log,
	}
}

func (c *OrderClient) FetchOrders(ctx context.Context, token string, params domain.FetchParams) ([]*domain.Order, error) {
	q := url.Values{}
	if params.Status != "" {
		q.Set("status", string(params.Status))
	}
	if params.StartDate != "" {
		q.Set("startDate", params.StartDate)
	}
	if params.EndDate != "" {
		q.Set("endDate", params.EndDate)
	}
	target := c.baseURL + ordersPath
	if len(q) > 0 {
		target += "?" + q.Encode()
	}

	// The shared request must outlive any single waiter; the http client
	// timeout bounds it instead.
	shared := context.WithoutCancel(ctx)
	ch := c.fetches.DoChan(token+"|"+target, func() (any, error) {
		var env ordersEnvelope
		if err := c.do(shared, http.MethodGet, target, token, nil, &env); err != nil {
			return nil, err
		}
		c.logUndated(env.Data)
		return env.Data, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}
	orders, _ := res.Val.([]*domain.Order)
	if orders == nil {
		orders = []*domain.Order{}
	}
	return orders, nil
}

// logUndated reports records that carry no usable createdAt. They are kept
// and fall outside every date filter.
func (c *OrderClient) logUndated(orders []*domain.Order) {
	var ids []string
	for _, o := range orders {
		if o != nil && o.CreatedAt.IsZero() {
			ids = append(ids, o.OrderID)
		}
	}
	if len(ids) > 0 {
		c.log.Warn("orders without a usable createdAt",
			zap.Int("count", len(ids)),
			zap.Strings("order_ids", ids))
	}
}

func (c *OrderClient) UpdateStatus(ctx context.Context, token string, update domain.StatusUpdate) error {
	if update.Status != domain.StatusCancelled {
		update.CancelReason = ""
	}
	body, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("order service: encode update: %w", err)
	}
	return c.do(ctx, http.MethodPut, c.baseURL+updateStatusPath, token, body, nil)
}

// do sends one request through the breaker. Only transport failures and 5xx
// responses count against the breaker; client errors are returned as is.
func (c *OrderClient) do(ctx context.Context, method, target, token string, body []byte, out any) error {
	var clientErr error
	_, err := c.breaker.Execute(func() (any, error) {
		var rd io.Reader
		if body != nil {
			rd = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, target, rd)
		if err != nil {
			clientErr = fmt.Errorf("order service: build request: %w", err)
			return nil, nil
		}
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			clientErr = ErrUnauthorized
			return nil, nil
		case resp.StatusCode == http.StatusNotFound:
			clientErr = ErrOrderNotFound
			return nil, nil
		case resp.StatusCode >= http.StatusInternalServerError:
			return nil, fmt.Errorf("status %d", resp.StatusCode)
		case resp.StatusCode >= http.StatusBadRequest:
			clientErr = fmt.Errorf("order service returned status %d: %s", resp.StatusCode, remoteMessage(resp.Body))
			return nil, nil
		}

		if out == nil {
			return nil, nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			clientErr = fmt.Errorf("order service: decode response: %w", err)
		}
		return nil, nil
	})

	if err != nil {
		c.log.Warn("order service call failed",
			zap.String("method", method),
			zap.String("url", target),
			zap.Error(err))
		return fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	return clientErr
}

func remoteMessage(r io.Reader) string {
	var env ordersEnvelope
	raw, _ := io.ReadAll(io.LimitReader(r, 4096))
	if json.Unmarshal(raw, &env) == nil && env.Message != "" {
		return env.Message
	}
	return strings.TrimSpace(string(raw))
}
