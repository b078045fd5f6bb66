package entity

// Tally is the number of games each player has won.
type Tally struct {
	PlayerOne int `json:"player1"`
	PlayerTwo int `json:"player2"`
}

func (that *Tally) Add(winner string) {
	switch winner {
	case PlayerOne:
		that.PlayerOne++
	case PlayerTwo:
		that.PlayerTwo++
	}
}
