package api

import (
	"context"
	"log"
	"math/rand/v2"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sqlc-dev/pqtype"

	"github.com/saeidalz13/battleship-solo/db/sqlc"
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
	mc "github.com/saeidalz13/battleship-solo/models/connection"
)

const (
	URLQueryGameUuidKeyword string = "gameUuid"
)

var (
	upgrader = websocket.Upgrader{

		// good average time since this is not a high-latency operation such as video streaming
		HandshakeTimeout: time.Second * 5,

		// probably more that enough but this is a good average size
		ReadBufferSize:  2048,
		WriteBufferSize: 2048,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}
)

// globalRand draws from the math/rand/v2 top-level source, which is safe
// for concurrent sessions.
type globalRand struct{}

func (globalRand) IntN(n int) int {
	return rand.IntN(n)
}

type RequestProcessor struct {
	sessionManager mc.SessionManager
	gameManager    mb.GameManager
	analytics      *sqlc.AnalyticsManager
	ipnet          net.IPNet
	rng            mb.Rand
}

type RequestProcessorOption func(*RequestProcessor)

// WithRand replaces the random source of the PC fleet and the AI.
func WithRand(rng mb.Rand) RequestProcessorOption {
	return func(rp *RequestProcessor) {
		rp.rng = rng
	}
}

// NewRequestProcessor wires the websocket endpoint. analytics may be nil.
func NewRequestProcessor(
	sessionManager mc.SessionManager,
	gameManager mb.GameManager,
	analytics *sqlc.AnalyticsManager,
	opts ...RequestProcessorOption,
) RequestProcessor {
	rp := RequestProcessor{
		sessionManager: sessionManager,
		gameManager:    gameManager,
		analytics:      analytics,
		rng:            globalRand{},
	}
	for _, opt := range opts {
		opt(&rp)
	}

	rp.ipnet = getServerIpNet()
	return rp
}

// getServerIpNet returns the first non-loopback IPv4 network of this
// host. Hosts without one, such as CI sandboxes, report loopback.
func getServerIpNet() net.IPNet {
	loopback := net.IPNet{IP: net.IPv4(127, 0, 0, 1), Mask: net.CIDRMask(8, 32)}

	ifaces, err := net.Interfaces()
	if err != nil {
		log.Println("failed to list interfaces:", err)
		return loopback
	}

	for _, iface := range ifaces {
		// If the flag is down
		if iface.Flags&net.FlagUp == 0 {
			continue
		}

		if iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			log.Println(err)
			continue
		}

		for _, addr := range addrs {
			ipnet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}

			if ipnet.IP.To4() != nil && !ipnet.IP.IsLoopback() {
				return *ipnet
			}
		}
	}

	log.Println("no ipv4 network found, using loopback")
	return loopback
}

// Expose this method to use it in testing
func (rp RequestProcessor) GetIpNet() net.IPNet {
	return rp.ipnet
}

// ServerIp is the network the analytics counters are keyed by, in CIDR form.
func (rp RequestProcessor) ServerIp() string {
	return rp.ipnet.String()
}

func (rp RequestProcessor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// use Upgrade method to make a websocket connection
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client
		log.Println(err)
		return
	}

	log.Println("a new connection established\tRemote Addr: ", conn.RemoteAddr().String())
	session := rp.sessionManager.GenerateNewSession(conn)
	rp.processSessionRequests(session, r.URL.Query().Get(URLQueryGameUuidKeyword))
}

func (rp RequestProcessor) processSessionRequests(session *mc.Session, resumeGameUuid string) {
	defer func() {
		if session.GameUuid() != "" {
			rp.gameManager.TerminateGame(session.GameUuid())
		}
		if session.Conn() != nil {
			session.Conn().Close()
		}
		rp.sessionManager.TerminateSession(session.Id())
	}()

	resp := mc.NewMessage[mc.RespSessionId](mc.CodeSessionID)
	resp.AddPayload(mc.RespSessionId{SessionID: session.Id()})
	if err := rp.sessionManager.WriteToSessionConn(session, resp, mc.MessageTypeJSON); err != nil {
		return
	}

	if resumeGameUuid != "" && !rp.resumeGame(session, resumeGameUuid) {
		return
	}

	for {
		// A WebSocket frame can be one of 6 types: text=1, binary=2, ping=9, pong=10, close=8 and continuation=0
		// https://www.rfc-editor.org/rfc/rfc6455.html#section-11.8
		_, payload, err := rp.sessionManager.ReadFromSessionConn(session)
		if err != nil {
			// This error happens after retries. If it's not nil,
			// then something was wrong with the session connection
			// and couldn't be resolved
			return
		}

		if !rp.handleSignal(session, payload) {
			return
		}
	}
}

func (rp RequestProcessor) resumeGame(session *mc.Session, gameUuid string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), sqlc.QuerierCtxTimeout)
	defer cancel()

	respMsg := NewRequest().HandleResumeGame(ctx, rp.gameManager, gameUuid)
	if !respMsg.Failed() {
		session.SetGameUuid(gameUuid)
		log.Printf("session %s resumed game %s\n", session.Id(), gameUuid)
	}
	return rp.write(session, respMsg)
}

func (rp RequestProcessor) write(session *mc.Session, msg interface{}) bool {
	return rp.sessionManager.WriteToSessionConn(session, msg, mc.MessageTypeJSON) == nil
}

// handleSignal answers one incoming frame. It returns false when the
// session connection is no longer writable.
func (rp RequestProcessor) handleSignal(session *mc.Session, payload []byte) bool {
	code, err := mc.FetchCodeFromMsg(payload)
	if err != nil {
		msg := mc.NewMessage[mc.NoPayload](mc.CodeSignalAbsent)
		msg.AddError(mc.ErrSignalAbsent.Error(), "")
		return rp.write(session, msg)
	}

	ctx, cancel := context.WithTimeout(context.Background(), sqlc.QuerierCtxTimeout)
	defer cancel()

	req := NewRequest(payload)
	gameUuid := session.GameUuid()

	switch code {
	case mc.CodeCreateGame:
		snapshot, respMsg := req.HandleCreateGame(ctx, rp.gameManager)
		if !respMsg.Failed() {
			// A session plays one game; the previous one stays in the store.
			if gameUuid != "" {
				rp.gameManager.TerminateGame(gameUuid)
			}
			session.SetGameUuid(snapshot.GameUuid)
			rp.recordAnalytics(ctx, (*sqlc.AnalyticsManager).IncrementGamesCreatedCount)
		}
		return rp.write(session, respMsg)

	case mc.CodeGetSnapshot:
		return rp.write(session, req.HandleGetSnapshot(ctx, rp.gameManager, gameUuid))

	case mc.CodeUpdateSettings:
		return rp.write(session, req.HandleUpdateSettings(ctx, rp.gameManager, gameUuid))

	case mc.CodeUpdateScreen:
		return rp.write(session, req.HandleUpdateScreen(ctx, rp.gameManager, gameUuid))

	case mc.CodePlaceShip:
		return rp.write(session, req.HandlePlaceShip(ctx, rp.gameManager, gameUuid))

	case mc.CodeRotateAvailableShip:
		return rp.write(session, req.HandleRotateAvailableShip(ctx, rp.gameManager, gameUuid))

	case mc.CodeHandleActiveShip:
		return rp.write(session, req.HandleActiveShip(ctx, rp.gameManager, gameUuid))

	case mc.CodeRemoveActiveShip:
		return rp.write(session, req.HandleRemoveActiveShip(ctx, rp.gameManager, gameUuid))

	case mc.CodeRotateActiveShip:
		return rp.write(session, req.HandleRotateActiveShip(ctx, rp.gameManager, gameUuid))

	case mc.CodeClearGrid:
		return rp.write(session, req.HandleClearGrid(ctx, rp.gameManager, gameUuid))

	case mc.CodeResetPlanning:
		return rp.write(session, req.HandleResetPlanning(ctx, rp.gameManager, gameUuid))

	case mc.CodeShipColors:
		return rp.write(session, req.HandleShipColors(ctx, rp.gameManager, gameUuid))

	case mc.CodeStartGame:
		return rp.write(session, req.HandleStartGame(ctx, rp.gameManager, gameUuid, rp.rng))

	// The PC answers every player shot that leaves the game running.
	// Whoever sinks the last ship ends the game for both.
	case mc.CodeAttack:
		snapshot, respMsg := req.HandleAttack(ctx, rp.gameManager, gameUuid)
		if !rp.write(session, respMsg) {
			return false
		}
		if respMsg.Failed() {
			return true
		}
		if snapshot.Match.State.GameOver {
			return rp.endGame(ctx, session, snapshot)
		}

		snapshot, pcMsg := NewRequest().HandlePcAttack(ctx, rp.gameManager, gameUuid, rp.rng)
		if !rp.write(session, pcMsg) {
			return false
		}
		if !pcMsg.Failed() && snapshot.Match.State.GameOver {
			return rp.endGame(ctx, session, snapshot)
		}
		return true

	case mc.CodeNewRound:
		return rp.write(session, req.HandleNewRound(ctx, rp.gameManager, gameUuid))

	default:
		respInvalidSignal := mc.NewMessage[mc.NoPayload](mc.CodeInvalidSignal)
		respInvalidSignal.AddError("", "invalid code in the incoming payload")
		return rp.write(session, respInvalidSignal)
	}
}

func (rp RequestProcessor) endGame(ctx context.Context, session *mc.Session, snapshot mb.Snapshot) bool {
	rp.recordAnalytics(ctx, (*sqlc.AnalyticsManager).IncrementGamesFinishedCount)

	resp := mc.NewMessage[mc.RespEndGame](mc.CodeEndGame)
	if winner := snapshot.Match.State.Winner; winner != nil {
		resp.AddPayload(mc.RespEndGame{Winner: *winner})
	}
	return rp.write(session, resp)
}

// recordAnalytics never fails the request; the counters are best effort.
func (rp RequestProcessor) recordAnalytics(ctx context.Context, increment func(*sqlc.AnalyticsManager, context.Context, pqtype.Inet) error) {
	if rp.analytics == nil {
		return
	}

	serverPqtypeInet := pqtype.Inet{IPNet: rp.ipnet, Valid: true}
	if err := increment(rp.analytics, ctx, serverPqtypeInet); err != nil {
		log.Println(err)
	}
}
