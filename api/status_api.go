package api

import (
	"encoding/json"
	"log"
	"net/http"

	mb "github.com/saeidalz13/battleship-solo/models/battleship"
	mc "github.com/saeidalz13/battleship-solo/models/connection"
)

const Version = "1.0.0"

type RespStatus struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Stage    string `json:"stage"`
	Games    int    `json:"games"`
	Sessions int    `json:"sessions"`
}

type StatusHandler struct {
	stage          string
	gameManager    mb.GameManager
	sessionManager mc.SessionManager
}

func NewStatusHandler(stage string, gameManager mb.GameManager, sessionManager mc.SessionManager) StatusHandler {
	return StatusHandler{stage: stage, gameManager: gameManager, sessionManager: sessionManager}
}

func (sh StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(RespStatus{
		Status:   "ok",
		Version:  Version,
		Stage:    sh.stage,
		Games:    sh.gameManager.CountGames(),
		Sessions: sh.sessionManager.CountSessions(),
	})
	if err != nil {
		log.Println(err)
	}
}
