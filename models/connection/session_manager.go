package connection

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

const defaultCleanupInterval = time.Minute * 20

var ErrSignalAbsent = errors.New("incoming req payload must contain 'code' field")

type SessionManager interface {
	GenerateNewSession(conn *websocket.Conn) *Session
	CleanupPeriodically(ctx context.Context)
	CountSessions() int
	TerminateSession(sessionId string)
	WriteToSessionConn(session *Session, msg interface{}, msgType uint8) error
	ReadFromSessionConn(session *Session) (int, []byte, error)
}

type BattleshipSessionManager struct {
	cleanupInterval time.Duration
	sessions        map[string]*Session
	mu              sync.RWMutex
}

// NewBattleshipSessionManager drops sessions older than cleanupInterval.
// Zero falls back to 20 minutes.
func NewBattleshipSessionManager(cleanupInterval time.Duration) *BattleshipSessionManager {
	initMapSize := 10
	if cleanupInterval <= 0 {
		cleanupInterval = defaultCleanupInterval
	}

	return &BattleshipSessionManager{
		sessions:        make(map[string]*Session, initMapSize),
		cleanupInterval: cleanupInterval,
	}
}

var _ SessionManager = (*BattleshipSessionManager)(nil)

func (bsm *BattleshipSessionManager) GenerateNewSession(conn *websocket.Conn) *Session {
	sessionId := base64.RawURLEncoding.EncodeToString([]byte(uuid.New().String()))
	session := NewSession(sessionId, conn)

	bsm.mu.Lock()
	bsm.sessions[sessionId] = session
	bsm.mu.Unlock()

	return session
}

func (bsm *BattleshipSessionManager) FindSession(sessionId string) (*Session, error) {
	bsm.mu.RLock()
	defer bsm.mu.RUnlock()

	session, prs := bsm.sessions[sessionId]
	if !prs {
		return nil, cerr.ErrSessionNotFound(sessionId)
	}

	if session == nil {
		return nil, cerr.ErrSessionIsNil(sessionId)
	}

	return session, nil
}

func (bsm *BattleshipSessionManager) TerminateSession(sessionId string) {
	bsm.mu.Lock()
	delete(bsm.sessions, sessionId)
	bsm.mu.Unlock()
}

func (bsm *BattleshipSessionManager) CountSessions() int {
	bsm.mu.RLock()
	defer bsm.mu.RUnlock()
	return len(bsm.sessions)
}

// CleanupPeriodically removes sessions that outlived the cleanup interval
// and closes their connections, which ends their read loops.
func (bsm *BattleshipSessionManager) CleanupPeriodically(ctx context.Context) {
	ticker := time.NewTicker(bsm.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			removed := bsm.removeStale(now)
			log.Printf("Clean up sessions: removed %d", len(removed))
		}
	}
}

func (bsm *BattleshipSessionManager) removeStale(now time.Time) []string {
	assumedClosedConns := 10
	toDelete := make([]string, 0, assumedClosedConns)
	stale := make([]*Session, 0, assumedClosedConns)

	bsm.mu.Lock()
	for id, session := range bsm.sessions {
		if now.Sub(session.createdAt) > bsm.cleanupInterval {
			toDelete = append(toDelete, id)
			stale = append(stale, session)
		}
	}
	for _, id := range toDelete {
		delete(bsm.sessions, id)
	}
	bsm.mu.Unlock()

	for _, session := range stale {
		if session.conn == nil {
			continue
		}
		if err := session.conn.Close(); err != nil {
			log.Printf("close stale session %s: %v", session.id, err)
		}
	}
	return toDelete
}

func (bsm *BattleshipSessionManager) WriteToSessionConn(session *Session, msg interface{}, msgType uint8) error {
	err := session.writeToConnWithRetry(msg, msgType)
	if err == nil {
		return nil
	}

	var connErr ConnErr
	if !errors.As(err, &connErr) {
		return err
	}

	// With a single player there is no one to notify; an abnormal
	// closure ends the session and the game waits in the store.
	if connErr.Code() == ConnLoopAbnormalClosure {
		log.Printf("session %s closed abnormally, game %s kept for resume", session.id, session.gameUuid)
	}
	return connErr
}

func (bsm *BattleshipSessionManager) ReadFromSessionConn(session *Session) (int, []byte, error) {
	var retries uint8

	for {
		messageType, payload, err := session.conn.ReadMessage()
		if err == nil {
			return messageType, payload, nil
		}

		switch session.handleReadFromConnErr(err, retries) {
		case ConnLoopContinue:
			retries++
			continue

		case ConnLoopAbnormalClosure:
			log.Printf("session %s closed abnormally, game %s kept for resume", session.id, session.gameUuid)
			return -1, []byte{}, NewConnErr(ConnLoopAbnormalClosure).AddDesc(err.Error())

		default:
			return -1, []byte{}, err
		}
	}
}

func FetchCodeFromMsg(payload []byte) (uint8, error) {
	var signal Signal
	const randomInvalidCode uint8 = 255

	if err := json.Unmarshal(payload, &signal); err != nil {
		return randomInvalidCode, err
	}
	if signal.Code == nil {
		return randomInvalidCode, ErrSignalAbsent
	}

	return *signal.Code, nil
}
