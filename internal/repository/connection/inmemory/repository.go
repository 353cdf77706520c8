package inmemory

import (
	"sync"

	"github.com/gorilla/websocket"
	"github.com/studyroom/lesson-server/internal/repository/connection"
)

// repo tracks the single active watch connection per viewer. The playback
// session exclusively owns its media surface, so a viewer may hold at most
// one connection at a time.
type repo struct {
	connList map[*websocket.Conn]string
	idList   map[string]*websocket.Conn
	mu       sync.RWMutex
}

func NewRepo() *repo {
	return &repo{
		connList: make(map[*websocket.Conn]string),
		idList:   make(map[string]*websocket.Conn),
	}
}

// Add registers the connection for the viewer and returns the previous
// connection if one was registered, so the caller can close it.
func (r *repo) Add(conn *websocket.Conn, viewerId string) (*websocket.Conn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.connList[conn] != "" {
		return nil, connection.ErrAlreadyExists
	}

	prev := r.idList[viewerId]
	if prev != nil {
		delete(r.connList, prev)
	}

	r.connList[conn] = viewerId
	r.idList[viewerId] = conn

	return prev, nil
}

func (r *repo) RemoveByConn(conn *websocket.Conn) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	viewerId, ok := r.connList[conn]
	if !ok {
		return connection.ErrNotFound
	}

	delete(r.connList, conn)
	if r.idList[viewerId] == conn {
		delete(r.idList, viewerId)
	}

	return nil
}

func (r *repo) GetConn(viewerId string) (*websocket.Conn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.idList[viewerId]
	if !ok {
		return nil, connection.ErrNotFound
	}

	return conn, nil
}
