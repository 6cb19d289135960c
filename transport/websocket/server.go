package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/xo-engine/internal/entity"
)

type gameSession interface {
	State() entity.State
	MakeMove(ctx context.Context, cell int) (entity.State, error)
	Reset(ctx context.Context) (entity.State, error)
	Resize(ctx context.Context, size int) (entity.State, error)
	ClearScores(ctx context.Context) (entity.State, error)
	ClearAll(ctx context.Context) (entity.State, error)
	DarkMode(ctx context.Context) (bool, error)
	SetDarkMode(ctx context.Context, enabled bool) error
	ToggleDarkMode(ctx context.Context) (bool, error)
}

type handlerFunc func(ctx context.Context, message *Message, client *Client) error

// Server is both the input surface of the game and the sink of its
// notifications: every notification is broadcast to all connected clients.
type Server struct {
	logger  *slog.Logger
	session gameSession
	maxSize int

	upgrader websocket.Upgrader

	clientsMutex sync.Mutex
	clients      map[*Client]struct{}

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, session gameSession, maxSize int) *Server {
	server := &Server{
		logger:  logger.With("component", "websocket"),
		session: session,
		maxSize: maxSize,

		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},

		clients:  make(map[*Client]struct{}),
		handlers: make(map[string]handlerFunc),
	}

	server.handlers[actionGameState] = server.handleGameState
	server.handlers[actionGameMove] = server.handleGameMove
	server.handlers[actionGameReset] = server.handleGameReset
	server.handlers[actionGameResize] = server.handleGameResize
	server.handlers[actionScoresClear] = server.handleScoresClear
	server.handlers[actionDataClear] = server.handleDataClear
	server.handlers[actionDarkMode] = server.handleDarkMode

	return server
}

// Start - starts WebSocket server and stops it when ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     that.Handler(ctx),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
		that.closeClients()
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(writer http.ResponseWriter, req *http.Request) {
		that.upgradeToWebSocket(ctx, writer, req)
	})

	return mux
}

// Notify broadcasts an engine notification. It never blocks: a client whose
// queue is full is disconnected.
func (that *Server) Notify(notification entity.Notification) {
	action := actionGameUpdate
	payload := ResponsePayload{State: &notification.State, Cell: notification.Cell}

	if notification.IsIllegalMove() {
		action = actionIllegalMove
		payload.Error = notification.Reason
	}

	message, err := newMessage(action, payload)
	if err != nil {
		that.logger.Error("failed to marshal notification", "error", err)
		return
	}

	that.broadcast(message)
}

func (that *Server) upgradeToWebSocket(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	client := &Client{
		server: that,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
	}

	that.clientsMutex.Lock()
	that.clients[client] = struct{}{}
	that.clientsMutex.Unlock()

	log.Info("WebSocket connection established", "remote", req.RemoteAddr)

	go client.writePump()

	state := that.session.State()
	client.sendMessage(actionGameUpdate, ResponsePayload{State: &state})

	go client.readPump(ctx)
}

func (that *Server) broadcast(message []byte) {
	that.clientsMutex.Lock()
	defer that.clientsMutex.Unlock()

	for client := range that.clients {
		that.enqueueLocked(client, message)
	}
}

func (that *Server) enqueue(client *Client, message []byte) {
	that.clientsMutex.Lock()
	defer that.clientsMutex.Unlock()

	that.enqueueLocked(client, message)
}

func (that *Server) enqueueLocked(client *Client, message []byte) {
	if _, ok := that.clients[client]; !ok {
		return
	}

	select {
	case client.send <- message:
	default:
		that.logger.Warn("client is too slow, disconnecting")
		that.removeClientLocked(client)
	}
}

func (that *Server) removeClient(client *Client) {
	that.clientsMutex.Lock()
	defer that.clientsMutex.Unlock()

	that.removeClientLocked(client)
}

func (that *Server) removeClientLocked(client *Client) {
	if _, ok := that.clients[client]; !ok {
		return
	}

	delete(that.clients, client)
	close(client.send)
}

func (that *Server) closeClients() {
	that.clientsMutex.Lock()
	defer that.clientsMutex.Unlock()

	for client := range that.clients {
		that.removeClientLocked(client)
	}
}
