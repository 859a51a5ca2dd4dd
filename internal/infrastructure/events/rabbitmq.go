package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/jhoicas/stock-ledger-api/internal/application/ledger"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/pkg/config"
	"github.com/jhoicas/stock-ledger-api/pkg/logger"
)

var _ ledger.EventPublisher = (*AMQPPublisher)(nil)

const (
	exchangeType  = "topic"
	dialAttempts  = 5
	dialRetryWait = 2 * time.Second
)

// AMQPChannel subconjunto de *amqp.Channel que usa el publicador.
type AMQPChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPPublisher publica cada cambio de saldo en un exchange topic.
// Routing key: stock.<tipo> (stock.in, stock.out, stock.transfer_in...).
type AMQPPublisher struct {
	mu       sync.Mutex // *amqp.Channel no admite publicaciones concurrentes
	ch       AMQPChannel
	exchange string
	conn     *amqp.Connection
	log      *logger.Logger
}

// NewAMQPPublisher envuelve un canal ya abierto con el exchange declarado.
func NewAMQPPublisher(ch AMQPChannel, exchange string, log *logger.Logger) *AMQPPublisher {
	if log == nil {
		log = logger.NewNop()
	}
	return &AMQPPublisher{ch: ch, exchange: exchange, log: log}
}

// DialAMQP conecta al broker (con reintentos para el arranque en contenedores),
// abre un canal y declara el exchange durable.
func DialAMQP(ctx context.Context, cfg config.AMQPConfig, log *logger.Logger) (*AMQPPublisher, error) {
	if log == nil {
		log = logger.NewNop()
	}
	var conn *amqp.Connection
	var err error
	for i := 0; i < dialAttempts; i++ {
		conn, err = amqp.Dial(cfg.URL)
		if err == nil {
			break
		}
		log.Warn().Err(err).Int("attempt", i+1).Msg("no se pudo conectar a RabbitMQ")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(dialRetryWait):
		}
	}
	if err != nil {
		return nil, fmt.Errorf("conectar a RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("abrir canal: %w", err)
	}
	if err := ch.ExchangeDeclare(
		cfg.Exchange,
		exchangeType,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("declarar exchange %s: %w", cfg.Exchange, err)
	}

	p := NewAMQPPublisher(ch, cfg.Exchange, log)
	p.conn = conn
	return p, nil
}

// PublishStockChanged publica un mensaje persistente por cambio. Se detiene en el primer error.
func (p *AMQPPublisher) PublishStockChanged(ctx context.Context, changes []entity.StockChange) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, c := range changes {
		body, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("marshal stock change: %w", err)
		}
		err = p.ch.PublishWithContext(ctx,
			p.exchange,
			RoutingKey(c.Type),
			false, // mandatory
			false, // immediate
			amqp.Publishing{
				ContentType:   "application/json",
				DeliveryMode:  amqp.Persistent,
				MessageId:     c.TransactionID + ":" + c.CompanyID,
				CorrelationId: c.TransactionID,
				Timestamp:     c.OccurredAt,
				Type:          c.Type,
				Body:          body,
			},
		)
		if err != nil {
			return fmt.Errorf("publicar %s: %w", RoutingKey(c.Type), err)
		}
		p.log.Debug().Str("tx_id", c.TransactionID).Str("type", c.Type).Msg("evento de stock publicado")
	}
	return nil
}

// RoutingKey clave topic para un tipo de movimiento.
func RoutingKey(movementType string) string {
	return "stock." + movementType
}

// Close cierra la conexión si la abrió DialAMQP.
func (p *AMQPPublisher) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Close()
}
