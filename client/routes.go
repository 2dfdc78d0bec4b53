package client

import (
	"context"
	"encoding/json"
)

// Route planner operations.

// PlanRoute asks the planner for a route matching a free-text query. When
// req.CurrentRoute is set the backend treats the call as a modification of
// that plan instead of planning from scratch. The gateway does not
// interpret the result; a response without a route is returned as-is for
// the caller to judge.
func (c *Client) PlanRoute(ctx context.Context, req PlanRouteRequest) (*PlanRouteResponse, error) {
	var out PlanRouteResponse
	if err := c.post(ctx, "plan_route", "/llmRoutePlanner/planRoute", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Orchestrate sends the full UI state plus the triggering action to the
// backend orchestrator, which decides the next planning step. The state
// argument is serialized as-is; the response is opaque to the client.
func (c *Client) Orchestrate(ctx context.Context, state interface{}, action string) (json.RawMessage, error) {
	var out json.RawMessage
	req := struct {
		State  interface{} `json:"state"`
		Action string      `json:"action"`
	}{state, action}
	if err := c.post(ctx, "orchestrate", "/orchestrate", req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Render fetches pre-rendered display artifacts for a planned route.
func (c *Client) Render(ctx context.Context, routeID string) (json.RawMessage, error) {
	var out json.RawMessage
	req := struct {
		RouteID string `json:"routeId"`
	}{routeID}
	if err := c.post(ctx, "render", "/render", req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetGlobalStats returns platform-wide counters.
func (c *Client) GetGlobalStats(ctx context.Context, sessionToken string) (*GlobalStats, error) {
	var out GlobalStats
	req := struct {
		SessionToken string `json:"sessionToken,omitempty"`
	}{sessionToken}
	if err := c.post(ctx, "get_global_stats", "/llmRoutePlanner/getGlobalStats", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
