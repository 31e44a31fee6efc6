// internal/common/camunda/client.go
package camunda

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"

	"careers-scheduling/internal/common/config"
	"careers-scheduling/internal/common/errors"
)

// Client wraps the Zeebe gRPC client. The wrapper verifies broker
// reachability on connect and maps transport failures into the standard
// error taxonomy so startup retry loops can tell transient from fatal.
type Client struct {
	zbc            zbc.Client
	connectTimeout time.Duration
}

// Connect dials the broker and verifies it with a topology request.
func Connect(cfg config.CamundaConfig) (*Client, error) {
	zeebeClient, err := zbc.NewClient(&zbc.ClientConfig{
		GatewayAddress:         cfg.BrokerAddress,
		UsePlaintextConnection: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create zeebe client: %w", err)
	}

	connectTimeout := 10 * time.Second
	if cfg.RequestTimeout > 0 {
		connectTimeout = time.Duration(cfg.RequestTimeout) * time.Millisecond
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if _, err := zeebeClient.NewTopologyCommand().Send(ctx); err != nil {
		zeebeClient.Close()
		return nil, mapBrokerError(err, cfg.BrokerAddress)
	}

	return &Client{zbc: zeebeClient, connectTimeout: connectTimeout}, nil
}

// Raw exposes the underlying Zeebe client for command builders.
func (c *Client) Raw() zbc.Client {
	return c.zbc
}

// HealthCheck sends a topology request under the connect timeout.
func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.connectTimeout)
	defer cancel()

	if _, err := c.zbc.NewTopologyCommand().Send(ctx); err != nil {
		return fmt.Errorf("zeebe health check failed: %w", err)
	}
	return nil
}

func (c *Client) Close() error {
	return c.zbc.Close()
}

func mapBrokerError(err error, address string) error {
	msg := strings.ToLower(err.Error())
	wrapped := fmt.Errorf("broker %s: %w", address, err)

	switch {
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline exceeded"):
		return errors.NewTimeoutError("zeebe", wrapped)
	default:
		return errors.NewExternalServiceError("zeebe", wrapped)
	}
}
