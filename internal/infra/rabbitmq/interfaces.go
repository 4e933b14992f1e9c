package rabbitmq

import "context"

const (
	RoutingStatusUpdated = "order.status_updated"
	RoutingOrdersExport  = "orders.exported"
)

type PublisherInterface interface {
	Publish(ctx context.Context, routingKey string, data any) error
}

var (
	_ PublisherInterface = (*Publisher)(nil)
	_ PublisherInterface = NoopPublisher{}
)
