// Package integration holds end-to-end tests against real Postgres and
// RabbitMQ containers. Run with -tags integration.
package integration
