package controllers

import "context"

// Pinger matches the health-check surface of the infrastructure clients.
type Pinger interface {
	Ping(ctx context.Context) error
}
