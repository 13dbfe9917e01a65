package entity

// Player is a mark on the board. EmptyCell marks a free square.
type Player string

const (
	PlayerX Player = "X"
	PlayerO Player = "O"

	EmptyCell Player = ""
)

// Opponent returns the other mark.
func (that Player) Opponent() Player {
	if that == PlayerX {
		return PlayerO
	}
	return PlayerX
}

func (that Player) IsEmpty() bool {
	return that == EmptyCell
}

// winStatus maps a winning mark to its terminal status.
func (that Player) winStatus() Status {
	if that == PlayerX {
		return StatusWinX
	}
	return StatusWinO
}
