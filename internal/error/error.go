package error

import (
	"errors"
	"fmt"
)

// Error kinds returned by the rules engine. Every one of them is a
// deterministic logic violation, so callers must not retry.
var (
	ErrOutOfBounds        = errors.New("footprint exceeds grid bounds")
	ErrOverlap            = errors.New("ship placement overlaps with existing ship")
	ErrCollision          = errors.New("rotated ship collides with another ship")
	ErrNotFound           = errors.New("ship not found")
	ErrNoActiveShip       = errors.New("no active ship")
	ErrAlreadyAttacked    = errors.New("position already attacked")
	ErrGameOver           = errors.New("game is over")
	ErrNotYourTurn        = errors.New("not your turn")
	ErrNoTargetsAvailable = errors.New("no targets available")
	ErrPlacementFailed    = errors.New("could not place ship")
	ErrPlanningIncomplete = errors.New("not all ships are placed")
	ErrGameNotStarted     = errors.New("game has not started")
	ErrGameInProgress     = errors.New("game is in progress")
	ErrInvalidSetting     = errors.New("invalid setting")
)

var kinds = []struct {
	err  error
	name string
}{
	{ErrOutOfBounds, "OutOfBounds"},
	{ErrOverlap, "Overlap"},
	{ErrCollision, "Collision"},
	{ErrNotFound, "NotFound"},
	{ErrNoActiveShip, "NoActiveShip"},
	{ErrAlreadyAttacked, "AlreadyAttacked"},
	{ErrGameOver, "GameOver"},
	{ErrNotYourTurn, "NotYourTurn"},
	{ErrNoTargetsAvailable, "NoTargetsAvailable"},
	{ErrPlacementFailed, "PlacementFailed"},
	{ErrPlanningIncomplete, "PlanningIncomplete"},
	{ErrGameNotStarted, "GameNotStarted"},
	{ErrGameInProgress, "GameInProgress"},
	{ErrInvalidSetting, "InvalidSetting"},
}

// Kind returns the taxonomy name of err, or "Internal" when err does
// not wrap any of the rules engine errors.
func Kind(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "Internal"
}

func ErrFootprintOutOfBounds(row, col, size, rotation int) error {
	return fmt.Errorf("%w\trow: %d\tcol: %d\tsize: %d\trotation: %d", ErrOutOfBounds, row, col, size, rotation)
}

func ErrXorYOutOfGridBound(row, col int) error {
	return fmt.Errorf("%w\trow: %d\tcol: %d", ErrOutOfBounds, row, col)
}

func ErrFootprintOverlap(row, col int, occupant string) error {
	return fmt.Errorf("%w\trow: %d\tcol: %d\toccupied by: %s", ErrOverlap, row, col, occupant)
}

func ErrRotationCollision(row, col int, occupant string) error {
	return fmt.Errorf("%w\trow: %d\tcol: %d\toccupied by: %s", ErrCollision, row, col, occupant)
}

func ErrShipNotFound(shipId string) error {
	return fmt.Errorf("%w, id: %s", ErrNotFound, shipId)
}

func ErrAttackPositionAlreadyFilled(row, col int) error {
	return fmt.Errorf("%w\trow: %d\tcol: %d", ErrAlreadyAttacked, row, col)
}

func ErrPcShipPlacement(shipName string, attempts int) error {
	return fmt.Errorf("%w: %s after %d attempts", ErrPlacementFailed, shipName, attempts)
}

func ErrInvalidBoard(board string) error {
	return fmt.Errorf("%w: unknown board %q", ErrInvalidSetting, board)
}

func ErrInvalidScreen(screen string) error {
	return fmt.Errorf("%w: unknown screen %q", ErrInvalidSetting, screen)
}

// ErrGameNotFound is returned by the game manager and the storage layer.
// It is not a rules engine error and thus has no Kind.
var ErrGameNotFound = errors.New("game with this uuid does not exist")

func ErrGameNotExists(gameUuid string) error {
	return fmt.Errorf("%w, uuid: %s", ErrGameNotFound, gameUuid)
}

func ErrSessionNotFound(sessionId string) error {
	return fmt.Errorf("session with this id does not exist, id: %s", sessionId)
}

func ErrSessionIsNil(sessionId string) error {
	return fmt.Errorf("session is nil, id: %s", sessionId)
}
