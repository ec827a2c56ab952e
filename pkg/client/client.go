// Copyright 2025 The Localnet Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Package client is a minimal JSON-RPC client for a local node's status
// endpoint. It exists so the harness and its tests can observe the node
// from the outside; it is not a general RPC SDK.
package client

import (
	"context"
	"net/url"
	"time"

	"github.com/AccumulateNetwork/jsonrpc2/v15"
	"github.com/sethvargo/go-retry"
	"gitlab.com/nearlocal/localnetd/pkg/errors"
)

// Client queries a node's JSON-RPC endpoint.
type Client struct {
	jsonrpc2.Client
	server string
}

// New creates a client for the given server URL.
func New(server string) (*Client, error) {
	u, err := url.Parse(server)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.BadRequest.WithFormat("%q is not a valid server URL", server)
	}

	c := new(Client)
	c.Timeout = 15 * time.Second
	c.server = server
	return c, nil
}

// NodeStatus is the node's status response.
type NodeStatus struct {
	Version            VersionInfo `json:"version"`
	ChainID            string      `json:"chain_id"`
	SyncInfo           SyncInfo    `json:"sync_info"`
	ValidatorAccountID string      `json:"validator_account_id,omitempty"`
}

// VersionInfo identifies the node build.
type VersionInfo struct {
	Version string `json:"version"`
	Build   string `json:"build"`
}

// SyncInfo reports the node's view of the chain head.
type SyncInfo struct {
	LatestBlockHash   string    `json:"latest_block_hash"`
	LatestBlockHeight uint64    `json:"latest_block_height"`
	LatestBlockTime   time.Time `json:"latest_block_time"`
	Syncing           bool      `json:"syncing"`
}

// Status calls the node's status method.
func (c *Client) Status(ctx context.Context) (*NodeStatus, error) {
	resp := new(NodeStatus)
	err := c.Client.Request(ctx, c.server, "status", nil, resp)
	if err != nil {
		return nil, errors.UnknownError.Wrap(err)
	}
	return resp, nil
}

// WaitReady polls the status method at a constant interval until the node
// answers or the context expires.
func (c *Client) WaitReady(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}

	constRetry := retry.NewConstant(interval)
	return retry.Do(ctx, constRetry, func(ctx context.Context) error {
		_, err := c.Status(ctx)
		if err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}

// HeightObservation is a pair of chain-head samples taken across a
// window.
type HeightObservation struct {
	First  uint64
	Last   uint64
	Window time.Duration
}

// Advanced reports whether the height moved between the samples.
func (o *HeightObservation) Advanced() bool { return o.Last > o.First }

// ObserveHeight samples the chain height now and again after the window
// elapses.
func (c *Client) ObserveHeight(ctx context.Context, window time.Duration) (*HeightObservation, error) {
	first, err := c.Status(ctx)
	if err != nil {
		return nil, err
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(window):
	}

	last, err := c.Status(ctx)
	if err != nil {
		return nil, err
	}

	return &HeightObservation{
		First:  first.SyncInfo.LatestBlockHeight,
		Last:   last.SyncInfo.LatestBlockHeight,
		Window: window,
	}, nil
}

// HeightStable reports whether the chain height held still across the
// window. With empty-block production off and no traffic, it must.
func (c *Client) HeightStable(ctx context.Context, window time.Duration) (bool, error) {
	obs, err := c.ObserveHeight(ctx, window)
	if err != nil {
		return false, err
	}
	return !obs.Advanced(), nil
}
