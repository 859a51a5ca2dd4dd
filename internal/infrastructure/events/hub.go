package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"

	"github.com/jhoicas/stock-ledger-api/internal/application/ledger"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/pkg/logger"
)

var _ ledger.EventPublisher = (*Hub)(nil)

// Client conexión suscrita al hub. *websocket.Conn la implementa.
type Client interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Envelope mensaje que reciben los clientes WebSocket.
type Envelope struct {
	Event  string               `json:"event"`
	Data   []entity.StockChange `json:"data"`
	SentAt time.Time            `json:"sent_at"`
}

var (
	errHubStopped = errors.New("hub detenido")
	errHubBusy    = errors.New("hub saturado: evento descartado")
)

// EventStockChanged nombre del evento difundido tras cada movimiento confirmado.
const EventStockChanged = "stock.changed"

const (
	broadcastBuffer = 64
	clientBuffer    = 16
	writeWait       = 5 * time.Second
)

// deadlineSetter lo implementan las conexiones reales (*websocket.Conn).
type deadlineSetter interface {
	SetWriteDeadline(t time.Time) error
}

// subscriber cola de salida de un cliente; la vacía su propia goroutine writer.
type subscriber struct {
	conn Client
	send chan []byte
}

// Hub difunde los cambios de saldo a todos los clientes conectados.
// Run debe estar corriendo para que Register, Unregister y Broadcast avancen.
// Publicar nunca bloquea: si el hub o la cola de un cliente están llenos el mensaje
// se descarta y el cliente lento se da de baja.
type Hub struct {
	clients    map[Client]*subscriber
	register   chan Client
	unregister chan Client
	broadcast  chan []byte
	done       chan struct{}
	mu         sync.Mutex
	log        *logger.Logger
}

func NewHub(log *logger.Logger) *Hub {
	if log == nil {
		log = logger.NewNop()
	}
	return &Hub{
		clients:    make(map[Client]*subscriber),
		register:   make(chan Client),
		unregister: make(chan Client),
		broadcast:  make(chan []byte, broadcastBuffer),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run procesa altas, bajas y difusiones hasta que ctx termina; al salir cierra todos los clientes.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				h.drop(c)
			}
			h.mu.Unlock()
			return

		case c := <-h.register:
			sub := &subscriber{conn: c, send: make(chan []byte, clientBuffer)}
			h.mu.Lock()
			h.clients[c] = sub
			n := len(h.clients)
			h.mu.Unlock()
			go h.writePump(sub)
			h.log.Debug().Int("clients", n).Msg("cliente WS conectado")

		case c := <-h.unregister:
			h.mu.Lock()
			h.drop(c)
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.Lock()
			for c, sub := range h.clients {
				select {
				case sub.send <- msg:
				default:
					h.log.Warn().Msg("cliente WS lento descartado")
					h.drop(c)
				}
			}
			h.mu.Unlock()
		}
	}
}

// drop quita c del mapa, cierra su cola y la conexión. Requiere h.mu.
func (h *Hub) drop(c Client) {
	sub, ok := h.clients[c]
	if !ok {
		return
	}
	delete(h.clients, c)
	close(sub.send)
	_ = c.Close()
}

// writePump escribe la cola del cliente. Un error de escritura lo da de baja.
func (h *Hub) writePump(sub *subscriber) {
	for msg := range sub.send {
		if d, ok := sub.conn.(deadlineSetter); ok {
			_ = d.SetWriteDeadline(time.Now().Add(writeWait))
		}
		if err := sub.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.log.Warn().Err(err).Msg("cliente WS descartado")
			h.Unregister(sub.conn)
			for range sub.send {
			}
			return
		}
	}
}

// Register suscribe c. Devuelve false si el hub ya se detuvo.
func (h *Hub) Register(c Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// Unregister da de baja y cierra c.
func (h *Hub) Unregister(c Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Clients número de clientes conectados.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// PublishStockChanged encola changes como un único Envelope sin esperar a los clientes.
func (h *Hub) PublishStockChanged(_ context.Context, changes []entity.StockChange) error {
	msg, err := json.Marshal(Envelope{Event: EventStockChanged, Data: changes, SentAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	select {
	case <-h.done:
		return errHubStopped
	default:
	}
	select {
	case h.broadcast <- msg:
		return nil
	default:
		return errHubBusy
	}
}

// ServeConn mantiene registrada una conexión WebSocket hasta que el cliente se desconecta.
// Los mensajes entrantes se ignoran.
func (h *Hub) ServeConn(c *websocket.Conn) {
	if !h.Register(c) {
		_ = c.Close()
		return
	}
	defer h.Unregister(c)
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			return
		}
	}
}
