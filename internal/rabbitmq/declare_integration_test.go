//go:build integration

package rabbitmq

import (
	"context"
	"fmt"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/suite"
	tContainer "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type DeclareTestSuite struct {
	suite.Suite
	ctx       context.Context
	container tContainer.Container
	url       string
}

func (s *DeclareTestSuite) SetupSuite() {
	s.ctx = context.Background()

	req := tContainer.ContainerRequest{
		Image:        "rabbitmq:3-management",
		ExposedPorts: []string{"5672/tcp"},
		WaitingFor:   wait.ForLog("Server startup complete"),
	}
	container, err := tContainer.GenericContainer(s.ctx, tContainer.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	s.Require().NoError(err)
	s.container = container

	host, err := container.Host(s.ctx)
	s.Require().NoError(err)

	port, err := container.MappedPort(s.ctx, "5672")
	s.Require().NoError(err)

	s.url = fmt.Sprintf("amqp://guest:guest@%s:%s//", host, port.Port())
}

func (s *DeclareTestSuite) TearDownSuite() {
	s.Require().NoError(s.container.Terminate(s.ctx))
}

func (s *DeclareTestSuite) TestCreateTaskDefinition() {
	client, err := Dial(s.ctx, "integration", s.url)
	s.Require().NoError(err)
	defer client.Close()

	s.Require().NoError(client.CreateDefinitions(s.ctx, TaskDefinition()))
	// declaring the same topology twice is accepted by the broker
	s.Require().NoError(client.CreateDefinitions(s.ctx, TaskDefinition()))

	conn, err := amqp.Dial(s.url)
	s.Require().NoError(err)
	defer conn.Close()

	ch, err := conn.Channel()
	s.Require().NoError(err)
	defer ch.Close()

	q := TaskQueue()
	s.Require().NoError(ch.ExchangeDeclarePassive(q.Exchange.Name, q.Exchange.Type, true, false, false, false, nil))

	declared, err := ch.QueueDeclarePassive(q.Name, true, false, false, false, nil)
	s.Require().NoError(err)
	s.Equal(0, declared.Messages)

	err = ch.PublishWithContext(s.ctx, q.Exchange.Name, q.RoutingKey, true, false, amqp.Publishing{
		DeliveryMode: q.DeliveryMode,
		Body:         []byte("ping"),
	})
	s.Require().NoError(err)

	msg, ok, err := ch.Get(q.Name, true)
	s.Require().NoError(err)
	s.Require().True(ok)
	s.Equal("ping", string(msg.Body))
	s.Equal(amqp.Persistent, msg.DeliveryMode)
}

func (s *DeclareTestSuite) TestDeclareQueue() {
	client, err := Dial(s.ctx, "integration", s.url)
	s.Require().NoError(err)
	defer client.Close()

	s.Require().NoError(client.DeclareQueue(s.ctx, TaskQueue()))
}

func TestDeclareSuite(t *testing.T) {
	suite.Run(t, new(DeclareTestSuite))
}
