// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package subscriptions streams settlement events over websocket.
package subscriptions

import (
	"context"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/vechain/jobstake/api/logs"
	"github.com/vechain/jobstake/api/utils"
	"github.com/vechain/jobstake/log"
	"github.com/vechain/jobstake/logdb"
	"github.com/vechain/jobstake/metrics"
	"github.com/vechain/jobstake/settlement"
)

var (
	logger = log.WithContext("pkg", "subscriptions")

	metricActiveWebsockets = metrics.LazyLoadGauge("api_active_websocket_count")
)

const (
	// revisions read per query when catching up
	readLimit = 64

	writeWait = 10 * time.Second
)

type Subscriptions struct {
	engine       *settlement.Engine
	upgrader     *websocket.Upgrader
	pingInterval time.Duration
	done         chan struct{}
	closeOnce    sync.Once
	wg           sync.WaitGroup
}

// New creates the subscriptions handler. An empty origin list or "*" accepts any origin.
func New(engine *settlement.Engine, allowedOrigins []string, pingInterval time.Duration) *Subscriptions {
	if pingInterval <= 0 {
		pingInterval = 10 * time.Second
	}
	return &Subscriptions{
		engine: engine,
		upgrader: &websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := strings.ToLower(r.Header.Get("Origin"))
				if origin == "" || len(allowedOrigins) == 0 {
					return true
				}
				return slices.Contains(allowedOrigins, "*") || slices.Contains(allowedOrigins, origin)
			},
		},
		pingInterval: pingInterval,
		done:         make(chan struct{}),
	}
}

func (s *Subscriptions) handleSubscribeEvents(w http.ResponseWriter, req *http.Request) error {
	filter, err := logs.ParseCriteria(req.URL.Query())
	if err != nil {
		return err
	}
	published := s.engine.Published()
	pos, err := utils.Uint64Query(req, "pos", published)
	if err != nil {
		return err
	}
	// the engine stops committing at logdb.MaxRevision, so any published pos fits the log index
	if pos > published || pos > logdb.MaxRevision {
		return utils.BadRequest(errors.Errorf("pos: beyond published revision %d", published))
	}

	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		// the upgrader already replied
		logger.Debug("websocket upgrade failed", "err", err)
		return nil
	}
	s.wg.Add(1)
	defer s.wg.Done()
	defer conn.Close()
	metricActiveWebsockets().Add(1)
	defer metricActiveWebsockets().Add(-1)

	reader := newEventReader(s.engine.LogDB(), filter, uint32(pos), readLimit)
	if err := s.pipe(req.Context(), conn, reader); err != nil {
		logger.Debug("subscription closed", "err", err)
		msg := websocket.FormatCloseMessage(websocket.CloseInternalServerErr, err.Error())
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	}
	return nil
}

func (s *Subscriptions) pipe(ctx context.Context, conn *websocket.Conn, reader *eventReader) error {
	pongWait := s.pingInterval * 3
	conn.SetReadLimit(512)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return err
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// the peer is not expected to send data, reading only serves close and pong frames
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	ticker := s.engine.NewTicker()
	ping := time.NewTicker(s.pingInterval)
	defer ping.Stop()

	for {
		published := uint32(s.engine.Published())
		msgs, err := reader.Read(ctx, published)
		if err != nil {
			return err
		}
		for _, msg := range msgs {
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return err
			}
			if err := conn.WriteJSON(msg); err != nil {
				return err
			}
		}
		if reader.Behind(published) {
			continue
		}

		select {
		case <-s.done:
			msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutdown")
			return conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		case <-ctx.Done():
			return nil
		case <-closed:
			return nil
		case <-ticker.C():
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return err
			}
		}
	}
}

// Close ends all open subscriptions and waits for them to return.
func (s *Subscriptions) Close() {
	s.closeOnce.Do(func() { close(s.done) })
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/events").
		Methods(http.MethodGet).
		Name("WS /subscriptions/events").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubscribeEvents))
}
