package testutil

import (
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/andreasstove999/logistics-tracker/internal/events"
)

const rabbitImage = "rabbitmq:3.13-alpine"

// StartRabbitMQ launches a broker and returns an open connection to it. The
// connection and the container are closed through t.Cleanup.
func StartRabbitMQ(t *testing.T) *amqp.Connection {
	t.Helper()

	host, port := startContainer(t, testcontainers.ContainerRequest{
		Image:        rabbitImage,
		ExposedPorts: []string{"5672/tcp"},
		WaitingFor:   wait.ForListeningPort("5672/tcp").WithStartupTimeout(90 * time.Second),
	}, "5672/tcp")

	conn, err := events.DialRabbit("amqp://guest:guest@" + host + ":" + port + "/")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

// SubscribeEvents binds a throwaway queue to the tracker events exchange for
// routingKey and returns its deliveries. The exchange is declared with the
// same arguments the publisher uses, so either side may come up first.
func SubscribeEvents(t *testing.T, conn *amqp.Connection, routingKey string) <-chan amqp.Delivery {
	t.Helper()

	ch, err := conn.Channel()
	require.NoError(t, err)
	t.Cleanup(func() { _ = ch.Close() })

	require.NoError(t, ch.ExchangeDeclare(events.EventsExchange, "topic", true, false, false, false, nil))

	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	require.NoError(t, err)
	require.NoError(t, ch.QueueBind(q.Name, routingKey, events.EventsExchange, false, nil))

	deliveries, err := ch.Consume(q.Name, "", true, true, false, false, nil)
	require.NoError(t, err)
	return deliveries
}
