package store

import "errors"

// ErrNotAuthenticated is returned by session actions that require a live
// session before any network call is made.
var ErrNotAuthenticated = errors.New("not authenticated")

// ErrNoRoute is returned when the planner answered but produced no route.
var ErrNoRoute = errors.New("no route returned from backend")
