package rabbitmq

import (
	"maps"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ExchangeDirect = amqp.ExchangeDirect
	ExchangeFanout = amqp.ExchangeFanout
	ExchangeTopic  = amqp.ExchangeTopic
)

type Exchange struct {
	Name       string                 `toml:"name"`
	Type       string                 `toml:"type"`
	Durable    bool                   `toml:"durable"`
	AutoDelete bool                   `toml:"auto_delete"`
	Internal   bool                   `toml:"internal"`
	Arguments  map[string]interface{} `toml:"arguments,omitempty"`
}

// Queue is bound to exactly one exchange.
type Queue struct {
	Name         string                 `toml:"name"`
	Exchange     Exchange               `toml:"exchange"`
	RoutingKey   string                 `toml:"routing_key"`
	Durable      bool                   `toml:"durable"`
	AutoDelete   bool                   `toml:"auto_delete"`
	Exclusive    bool                   `toml:"exclusive"`
	DeliveryMode uint8                  `toml:"delivery_mode"`
	Arguments    map[string]interface{} `toml:"arguments,omitempty"`
}

type Binding struct {
	Source      string                 `toml:"source"`
	Destination string                 `toml:"destination"`
	RoutingKey  string                 `toml:"routing_key"`
	Type        string                 `toml:"type"`
	Arguments   map[string]interface{} `toml:"arguments,omitempty"`
}

type Definition struct {
	Exchanges []Exchange `toml:"exchanges"`
	Queues    []Queue    `toml:"queues"`
	Bindings  []Binding  `toml:"bindings"`
}

func (e Exchange) clone() Exchange {
	e.Arguments = maps.Clone(e.Arguments)
	return e
}

func (q Queue) clone() Queue {
	q.Exchange = q.Exchange.clone()
	q.Arguments = maps.Clone(q.Arguments)
	return q
}

// Binding returns the binding of the queue to its exchange.
func (q Queue) Binding() Binding {
	return Binding{
		Source:      q.Exchange.Name,
		Destination: q.Name,
		RoutingKey:  q.RoutingKey,
		Type:        queueType,
	}
}

// Persistent reports whether messages routed to the queue are stored on disk.
func (q Queue) Persistent() bool {
	return q.DeliveryMode == amqp.Persistent
}

func (d *Definition) Empty() bool {
	return d == nil || len(d.Queues)+len(d.Exchanges)+len(d.Bindings) == 0
}
