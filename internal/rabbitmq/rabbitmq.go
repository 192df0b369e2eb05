package rabbitmq

import (
	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher is the outbound queue contract the services depend on. A worker
// outside this service consumes the queues and performs the actual delivery.
type Publisher interface {
	Publish(queue string, body []byte) error
}

type MQConn struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

func Dial(url string) (*MQConn, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	return &MQConn{
		conn:    conn,
		channel: channel,
	}, nil
}

func (c *MQConn) Publish(queue string, body []byte) error {
	if _, err := c.channel.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return err
	}

	return c.channel.Publish("", queue, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
}

func (c *MQConn) Close() error {
	if err := c.channel.Close(); err != nil {
		return err
	}
	return c.conn.Close()
}
