package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"pilot_logbook/internal/debounce"
	"pilot_logbook/internal/middleware"
	"pilot_logbook/internal/store"
)

const (
	KindAirports      = "airports"
	KindAircraftTypes = "aircraft_types"

	searchDebounce = 300 * time.Millisecond
	writeWait      = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// SearchRequest is one keystroke-level query sent by an autocomplete client.
type SearchRequest struct {
	Kind  string `json:"kind"`
	Query string `json:"query"`
}

// SearchResponse answers the latest query of a kind. Superseded queries get no answer.
type SearchResponse struct {
	Kind    string      `json:"kind"`
	Query   string      `json:"query"`
	Results interface{} `json:"results,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// SearchSocketController streams airport and aircraft type suggestions.
type SearchSocketController struct {
	store *store.Store
	delay time.Duration
}

func NewSearchSocketController(s *store.Store) *SearchSocketController {
	return &SearchSocketController{store: s, delay: searchDebounce}
}

// WithDelay overrides the debounce window.
func (sc *SearchSocketController) WithDelay(d time.Duration) *SearchSocketController {
	sc.delay = d
	return sc
}

// socketWriter serializes writes; gorilla connections allow one writer at a time.
type socketWriter struct {
	mu   sync.Mutex
	conn *websocket.Conn
	log  *logrus.Entry
}

func (w *socketWriter) send(resp SearchResponse) {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := w.conn.WriteJSON(resp); err != nil {
		w.log.WithError(err).Warn("Search socket: write failed")
	}
}

func (sc *SearchSocketController) Serve(c *gin.Context) {
	log := middleware.Log(c)
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.WithError(err).Error("Failed to upgrade WebSocket connection.")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := &socketWriter{conn: conn, log: log}
	airports := debounce.New(ctx, sc.delay,
		func(ctx context.Context, q string) (interface{}, error) {
			return sc.store.SearchAirports(ctx, q)
		},
		w.reply(KindAirports))
	types := debounce.New(ctx, sc.delay,
		func(ctx context.Context, q string) (interface{}, error) {
			return sc.store.SearchAircraftTypes(ctx, q)
		},
		w.reply(KindAircraftTypes))
	defer airports.Stop()
	defer types.Stop()

	log.Info("Search socket connected")
	for {
		_, p, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Info("Search socket closed")
			} else {
				log.WithError(err).Warn("Search socket: read failed")
			}
			return
		}

		var req SearchRequest
		if err := json.Unmarshal(p, &req); err != nil {
			w.send(SearchResponse{Error: "invalid message"})
			continue
		}
		switch req.Kind {
		case KindAirports:
			airports.Input(req.Query)
		case KindAircraftTypes:
			types.Input(req.Query)
		default:
			w.send(SearchResponse{Kind: req.Kind, Query: req.Query, Error: "unknown kind"})
		}
	}
}

func (w *socketWriter) reply(kind string) func(string, interface{}, error) {
	return func(query string, results interface{}, err error) {
		if err != nil {
			w.log.WithError(err).WithField("kind", kind).Error("Search socket: lookup failed")
			w.send(SearchResponse{Kind: kind, Query: query, Error: "Server Error"})
			return
		}
		w.send(SearchResponse{Kind: kind, Query: query, Results: results})
	}
}
