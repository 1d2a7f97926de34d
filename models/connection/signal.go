package connection

const (
	CodeSessionID uint8 = iota
	CodeCreateGame
	CodeGetSnapshot
	CodeUpdateSettings
	CodeUpdateScreen

	// Planning screen
	CodePlaceShip
	CodeRotateAvailableShip
	CodeHandleActiveShip
	CodeRemoveActiveShip
	CodeRotateActiveShip
	CodeClearGrid
	CodeResetPlanning
	CodeShipColors

	CodeStartGame
	CodeAttack

	// Sent by the server after it played the PC turn
	CodePcAttack
	CodeEndGame
	CodeNewRound

	CodeInvalidSignal

	// if the req msg does not contain "code" field
	CodeSignalAbsent
)

// Signal is the part every incoming frame must carry. Code is a pointer
// so a missing code can be told apart from code 0.
type Signal struct {
	Code *uint8 `json:"code"`
}
