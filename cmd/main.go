package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/saeidalz13/battleship-solo/api"
	"github.com/saeidalz13/battleship-solo/db"
	"github.com/saeidalz13/battleship-solo/db/sqlc"
	"github.com/saeidalz13/battleship-solo/internal/config"
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
	mc "github.com/saeidalz13/battleship-solo/models/connection"
)

func main() {
	cfg := config.MustLoad()

	conn := db.MustConnectToDb(cfg.DbDriver, cfg.DatabaseUrl)
	defer conn.Close()

	mux := newMux(context.Background(), cfg, sqlc.NewDbManager(sqlc.New(conn)))

	log.Printf("Listening to port %d (stage: %s, db: %s)\n", cfg.Port, cfg.Stage, cfg.DbDriver)
	log.Fatalln(http.ListenAndServe(fmt.Sprintf("0.0.0.0:%d", cfg.Port), mux))
}

// newMux wires the managers and routes. Session cleanup runs until ctx
// is done.
func newMux(ctx context.Context, cfg config.Config, dbManager sqlc.DbManager) *http.ServeMux {
	gameManager := mb.NewBattleshipGameManager(dbManager.Snapshots)
	sessionManager := mc.NewBattleshipSessionManager(cfg.SessionCleanupInterval)
	go sessionManager.CleanupPeriodically(ctx)

	rp := api.NewRequestProcessor(sessionManager, gameManager, dbManager.Analytics)
	log.Println("server ip:", rp.ServerIp())

	mux := http.NewServeMux()
	mux.Handle("GET /battleship", rp)
	mux.Handle("GET /status", api.NewStatusHandler(cfg.Stage, gameManager, sessionManager))
	return mux
}
