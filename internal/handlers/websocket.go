package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/enliven17/mineSomnia/internal/services"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	redisService *services.RedisService
	hub          *WebSocketHub
}

type WebSocketHub struct {
	clients    map[string]*websocket.Conn
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message
}

type Client struct {
	Address string
	Conn    *websocket.Conn
}

type Message struct {
	Type    string      `json:"type"`
	Address string      `json:"address,omitempty"`
	Data    interface{} `json:"data"`
}

func NewWebSocketHandler(redisService *services.RedisService) *WebSocketHandler {
	hub := &WebSocketHub{
		clients:    make(map[string]*websocket.Conn),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 100),
	}

	go hub.run()

	return &WebSocketHandler{
		redisService: redisService,
		hub:          hub,
	}
}

func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	address := c.GetString("address")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade to WebSocket: %v", err)
		return
	}

	client := &Client{
		Address: address,
		Conn:    conn,
	}

	h.hub.register <- client

	defer func() {
		h.hub.unregister <- client
		conn.Close()
	}()

	h.sendBalance(client)

	for {
		var msg Message
		err := conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		h.handleMessage(client, &msg)
	}
}

func (h *WebSocketHandler) handleMessage(client *Client, msg *Message) {
	switch msg.Type {
	case "PING":
		h.sendPong(client)
	case "GET_BALANCE":
		h.sendBalance(client)
	}
}

func (h *WebSocketHandler) sendBalance(client *Client) {
	wallet, err := h.redisService.GetWallet(client.Address)
	if err != nil {
		log.Printf("Failed to get wallet for WS: %v", err)
		return
	}

	msg := Message{
		Type: "BALANCE_UPDATE",
		Data: gin.H{
			"balance":       wallet.Balance,
			"total_wagered": wallet.TotalWagered,
			"total_won":     wallet.TotalWon,
		},
	}

	client.Conn.WriteJSON(msg)
}

func (h *WebSocketHandler) sendPong(client *Client) {
	msg := Message{
		Type: "PONG",
		Data: gin.H{
			"timestamp": time.Now().Unix(),
		},
	}

	client.Conn.WriteJSON(msg)
}

func (hub *WebSocketHub) run() {
	for {
		select {
		case client := <-hub.register:
			hub.clients[client.Address] = client.Conn
			log.Printf("Client registered: %s", client.Address)

		case client := <-hub.unregister:
			if _, ok := hub.clients[client.Address]; ok {
				delete(hub.clients, client.Address)
				log.Printf("Client unregistered: %s", client.Address)
			}

		case message := <-hub.broadcast:
			hub.broadcastMessage(message)
		}
	}
}

func (hub *WebSocketHub) broadcastMessage(message *Message) {
	if message.Address != "" {
		if conn, ok := hub.clients[message.Address]; ok {
			conn.WriteJSON(message)
		}
	} else {
		for _, conn := range hub.clients {
			conn.WriteJSON(message)
		}
	}
}

// BroadcastReveal pushes a reveal outcome to the owning player.
func (h *WebSocketHandler) BroadcastReveal(player string, tile int, isMine bool, revealedSafe int) {
	msg := &Message{
		Type:    "TILE_REVEALED",
		Address: player,
		Data: gin.H{
			"tile":          tile,
			"is_mine":       isMine,
			"revealed_safe": revealedSafe,
			"timestamp":     time.Now().Unix(),
		},
	}

	h.hub.broadcast <- msg
}

// BroadcastCashout pushes the settled payout to the owning player.
func (h *WebSocketHandler) BroadcastCashout(player string, payout, poolBalance int64) {
	msg := &Message{
		Type:    "CASHED_OUT",
		Address: player,
		Data: gin.H{
			"payout":       payout,
			"pool_balance": poolBalance,
			"timestamp":    time.Now().Unix(),
		},
	}

	h.hub.broadcast <- msg
}

// BroadcastPoolUpdate pushes the shared pool balance to every client.
func (h *WebSocketHandler) BroadcastPoolUpdate(balance int64) {
	msg := &Message{
		Type: "POOL_UPDATE",
		Data: gin.H{
			"pool_balance": balance,
			"timestamp":    time.Now().Unix(),
		},
	}

	h.hub.broadcast <- msg
}
