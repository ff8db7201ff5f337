package game

// nextEligibleSeat returns the next seat clockwise from fromSeat whose
// player can still make a betting decision: in the hand, not folded,
// not all-in, with chips behind. Returns 0 when no seat qualifies,
// which signals the betting round must end.
func (r *Round) nextEligibleSeat(fromSeat uint32) uint32 {
	seatNo := fromSeat
	for i := uint32(1); i <= r.MaxSeats; i++ {
		seatNo++
		if seatNo > r.MaxSeats {
			seatNo = 1
		}
		state, ok := r.Players[seatNo]
		if !ok {
			continue
		}
		if !state.canAct() {
			continue
		}
		return seatNo
	}
	return 0
}

// nextOccupiedSeat walks clockwise over every seat that has a hand
// state, regardless of fold/all-in status. Used for blind placement.
func nextOccupiedSeat(players map[uint32]*PlayerHandState, maxSeats uint32, fromSeat uint32) uint32 {
	seatNo := fromSeat
	for i := uint32(1); i <= maxSeats; i++ {
		seatNo++
		if seatNo > maxSeats {
			seatNo = 1
		}
		if _, ok := players[seatNo]; ok {
			return seatNo
		}
	}
	return 0
}

// computeBlindSeats places the blinds relative to the dealer button.
// With three or more players the small blind is the seat after the
// dealer and the big blind the seat after that. Heads-up the dealer
// posts the small blind and the other player the big blind.
func computeBlindSeats(players map[uint32]*PlayerHandState, maxSeats uint32, dealerSeat uint32) (uint32, uint32) {
	if len(players) == 2 {
		smallBlind := dealerSeat
		bigBlind := nextOccupiedSeat(players, maxSeats, dealerSeat)
		return smallBlind, bigBlind
	}
	smallBlind := nextOccupiedSeat(players, maxSeats, dealerSeat)
	bigBlind := nextOccupiedSeat(players, maxSeats, smallBlind)
	return smallBlind, bigBlind
}

// firstToAct determines which seat opens the betting for the current
// street. Preflop the seat after the big blind opens, except heads-up
// where the small blind (the dealer) opens. Postflop the first
// eligible seat after the dealer opens, which heads-up is the big
// blind. Returns 0 when nobody can act.
func (r *Round) firstToAct() uint32 {
	if r.Stage == StagePreflop {
		if r.HeadsUp {
			if state, ok := r.Players[r.SmallBlindSeat]; ok && state.canAct() {
				return r.SmallBlindSeat
			}
		}
		return r.nextEligibleSeat(r.BigBlindSeat)
	}
	return r.nextEligibleSeat(r.DealerSeat)
}

// NextDealerSeat rotates the dealer button to the next active seat
// with chips for the following hand.
func NextDealerSeat(players []SeatedPlayer, maxSeats uint32, dealerSeat uint32) uint32 {
	bySeat := make(map[uint32]bool, len(players))
	for _, player := range players {
		if player.Active && player.Stack > 0 {
			bySeat[player.SeatNo] = true
		}
	}
	seatNo := dealerSeat
	for i := uint32(1); i <= maxSeats; i++ {
		seatNo++
		if seatNo > maxSeats {
			seatNo = 1
		}
		if bySeat[seatNo] {
			return seatNo
		}
	}
	return 0
}
