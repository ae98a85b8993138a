package tipsource

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/rs/zerolog"
)

// DefaultTipMethod is the JSON-RPC method queried for the node's tip.
const DefaultTipMethod = "chain_queryTip"

// RPCConfig configures the JSON-RPC tip source.
type RPCConfig struct {
	// Endpoint is the node's RPC endpoint (http, ws or ipc path).
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`
	// Method overrides the tip query method. Defaults to DefaultTipMethod.
	Method string `mapstructure:"method" yaml:"method"`
}

// Validate checks the config.
func (c *RPCConfig) Validate() error {
	if strings.TrimSpace(c.Endpoint) == "" {
		return fmt.Errorf("tipsource: endpoint is required")
	}
	return nil
}

// RPCClient queries a node's tip over JSON-RPC.
type RPCClient struct {
	c      *rpc.Client
	method string
	log    zerolog.Logger
}

// DialRPC connects to the node's RPC endpoint.
func DialRPC(ctx context.Context, cfg RPCConfig, log zerolog.Logger) (*RPCClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	method := cfg.Method
	if method == "" {
		method = DefaultTipMethod
	}

	c, err := rpc.DialContext(ctx, cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("tipsource: dial %s: %w", cfg.Endpoint, err)
	}

	return &RPCClient{
		c:      c,
		method: method,
		log:    log.With().Str("component", "tip-source").Logger(),
	}, nil
}

// Tip queries the node for its current tip.
func (c *RPCClient) Tip(ctx context.Context) (ChainTip, error) {
	var tip ChainTip
	if err := c.c.CallContext(ctx, &tip, c.method); err != nil {
		return ChainTip{}, fmt.Errorf("tipsource: query tip: %w", err)
	}

	c.log.Debug().
		Uint64("slot", uint64(tip.Slot)).
		Uint64("height", tip.Height).
		Str("hash", tip.Hash).
		Msg("tip fetched")

	return tip, nil
}

// Close releases the underlying RPC connection.
func (c *RPCClient) Close() {
	c.c.Close()
}
