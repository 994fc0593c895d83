package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/ignatzorin/arbitration-backend/internal/domain/repository"
	"github.com/ignatzorin/arbitration-backend/internal/logger"
)

const broadcastBuffer = 256

// Hub управляет всеми WebSocket клиентами и рассылает события арбитража по аккаунтам.
type Hub struct {
	mu         sync.RWMutex
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan message
	done       chan struct{}
}

type message struct {
	principal string
	payload   []byte
}

// NewHub создаёт новый хаб.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan message, broadcastBuffer),
		done:       make(chan struct{}),
	}
}

// Run запускает главный цикл хаба до отмены контекста.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case msg := <-h.broadcast:
			h.send(msg.principal, msg.payload)
		}
	}
}

// Register добавляет клиента.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

// Unregister удаляет клиента.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Notify ставит событие в очередь рассылки. Если очередь заполнена, событие теряется.
func (h *Hub) Notify(principal string, event repository.Event) {
	raw, err := json.Marshal(event)
	if err != nil {
		logger.Component("ws").WithError(err).WithField("event", event.Type).Error("ws: не удалось сериализовать событие")
		return
	}

	select {
	case h.broadcast <- message{principal: principal, payload: raw}:
	default:
		logger.Component("ws").WithFields(map[string]interface{}{
			"principal": principal,
			"event":     event.Type,
		}).Warn("ws: очередь рассылки переполнена, событие отброшено")
	}
}

// Connected возвращает число открытых подключений аккаунта.
func (h *Hub) Connected(principal string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[principal])
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.principal]; !ok {
		h.clients[client.principal] = make(map[*Client]struct{})
	}
	h.clients[client.principal][client] = struct{}{}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(client)
}

// dropLocked закрывает канал отправки ровно один раз: клиент удаляется из карты вместе с закрытием.
func (h *Hub) dropLocked(client *Client) {
	clients, ok := h.clients[client.principal]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.clients, client.principal)
	}
}

func (h *Hub) send(principal string, payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients[principal] {
		select {
		case client.send <- payload:
		default:
			logger.Component("ws").WithField("principal", principal).Warn("ws: клиент не успевает читать, соединение закрыто")
			h.dropLocked(client)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, clients := range h.clients {
		for client := range clients {
			h.dropLocked(client)
		}
	}
}
