package connection

type ReqUpdateSettings struct {
	SelectedBoard string `json:"selectedBoard"`
}

type ReqUpdateScreen struct {
	Screen string `json:"current_screen"`
}

type ReqPlaceShip struct {
	ShipId string `json:"ship_id"`
	Row    int    `json:"row"`
	Col    int    `json:"col"`
}

type ReqRotateAvailableShip struct {
	ShipId string `json:"ship_id"`
}

type ReqHandleActiveShip struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type ReqAttack struct {
	Row int `json:"row"`
	Col int `json:"col"`
}
