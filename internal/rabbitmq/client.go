package rabbitmq

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"task_queues/internal/logger"
)

const (
	queueType    = "queue"
	exchangeType = "exchange"

	product = "task-queues"
	version = "v0.1.0"
)

var (
	ErrEmptyDefinition = errors.New("empty definition")
	errNotConnected    = errors.New("not connected to a server")
	errAlreadyClosed   = errors.New("already closed: not connected to the server")
)

// Channeler is the part of *amqp.Channel used to declare topology.
type Channeler interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
	ExchangeBind(destination, key, source string, noWait bool, args amqp.Table) error
	Close() error
}

type Connector interface {
	Channel() (Channeler, error)
	Close() error
	IsClosed() bool
}

type dialFunc func(url string, config amqp.Config) (Connector, error)

type amqpConnector struct {
	*amqp.Connection
}

func (c amqpConnector) Channel() (Channeler, error) {
	ch, err := c.Connection.Channel()
	if err != nil {
		return nil, err
	}
	return ch, nil
}

func dialAmqp(url string, config amqp.Config) (Connector, error) {
	conn, err := amqp.DialConfig(url, config)
	if err != nil {
		return nil, err
	}
	return amqpConnector{conn}, nil
}

// Client owns a single broker connection. It does not reconnect.
type Client struct {
	addr       string
	name       string
	connection Connector
	dial       dialFunc
	configAmqp amqp.Config
}

// New prepares a client for addr. The connection name gets a random suffix
// so several processes can be told apart in the management UI.
func New(name string, addr string) *Client {
	connName := fmt.Sprintf("%s-%s", name, uuid.NewString())

	configAmqp := amqp.Config{Properties: amqp.NewConnectionProperties()}
	configAmqp.Properties.SetClientConnectionName(connName)
	configAmqp.Properties["product"] = product
	configAmqp.Properties["version"] = version

	return &Client{addr: addr, name: connName, configAmqp: configAmqp, dial: dialAmqp}
}

// Dial creates a client and connects it.
func Dial(ctx context.Context, name string, addr string) (*Client, error) {
	client := New(name, addr)
	if err := client.Connect(ctx); err != nil {
		return nil, err
	}
	return client, nil
}

func (c *Client) Name() string {
	return c.name
}

func (c *Client) Connect(ctx context.Context) error {
	uri, err := amqp.ParseURI(c.addr)
	if err != nil {
		return fmt.Errorf("parse transport url: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	logger.Debug("connecting to %s:%d vhost %q as %s", uri.Host, uri.Port, uri.Vhost, c.name)

	conn, err := c.dial(c.addr, c.configAmqp)
	if err != nil {
		return fmt.Errorf("dial %s:%d: %w", uri.Host, uri.Port, err)
	}
	c.connection = conn

	logger.Info("connected to %s:%d", uri.Host, uri.Port)
	return nil
}

// Declare declares the queue's exchange, the queue and the binding between
// them. A queue on the default exchange is declared without a binding.
func Declare(ch Channeler, q Queue) error {
	if q.Exchange.Name != "" {
		if err := declareExchange(ch, q.Exchange); err != nil {
			return err
		}
	}

	if err := declareQueue(ch, q); err != nil {
		return err
	}

	if q.Exchange.Name == "" {
		return nil
	}
	return declareBinding(ch, q.Binding())
}

func declareExchange(ch Channeler, e Exchange) error {
	err := ch.ExchangeDeclare(e.Name, e.Type, e.Durable, e.AutoDelete, e.Internal, false, amqp.Table(e.Arguments))
	if err != nil {
		return fmt.Errorf("declare exchange %s: %w", e.Name, err)
	}
	logger.Debug("declared exchange %s (%s)", e.Name, e.Type)
	return nil
}

func declareQueue(ch Channeler, q Queue) error {
	_, err := ch.QueueDeclare(q.Name, q.Durable, q.AutoDelete, q.Exclusive, false, amqp.Table(q.Arguments))
	if err != nil {
		return fmt.Errorf("declare queue %s: %w", q.Name, err)
	}
	logger.Debug("declared queue %s", q.Name)
	return nil
}

func declareBinding(ch Channeler, b Binding) error {
	var err error
	switch b.Type {
	case "", queueType:
		err = ch.QueueBind(b.Destination, b.RoutingKey, b.Source, false, amqp.Table(b.Arguments))
	case exchangeType:
		err = ch.ExchangeBind(b.Destination, b.RoutingKey, b.Source, false, amqp.Table(b.Arguments))
	default:
		err = fmt.Errorf("unknown binding type %q", b.Type)
	}
	if err != nil {
		return fmt.Errorf("bind %s to %s: %w", b.Destination, b.Source, err)
	}
	logger.Debug("bound %s to %s with routing key %q", b.Destination, b.Source, b.RoutingKey)
	return nil
}

func (c *Client) channel() (Channeler, error) {
	if c.connection == nil || c.connection.IsClosed() {
		return nil, errNotConnected
	}
	ch, err := c.connection.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	return ch, nil
}

// DeclareQueue declares q on a fresh channel.
func (c *Client) DeclareQueue(ctx context.Context, q Queue) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	ch, err := c.channel()
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, ch.Close())
	}()

	return Declare(ch, q)
}

// CreateDefinitions declares every exchange, then every queue, then every
// binding of definition. It stops at the first failure.
func (c *Client) CreateDefinitions(ctx context.Context, definition *Definition) (err error) {
	if definition.Empty() {
		return ErrEmptyDefinition
	}
	ch, err := c.channel()
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, ch.Close())
	}()

	for _, e := range definition.Exchanges {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := declareExchange(ch, e); err != nil {
			return err
		}
	}

	for _, q := range definition.Queues {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := declareQueue(ch, q); err != nil {
			return err
		}
	}

	for _, b := range definition.Bindings {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := declareBinding(ch, b); err != nil {
			return err
		}
	}

	return nil
}

func (c *Client) Close() error {
	logger.Debug("closing connection %s", c.name)
	if c.connection == nil || c.connection.IsClosed() {
		return errAlreadyClosed
	}
	return c.connection.Close()
}
