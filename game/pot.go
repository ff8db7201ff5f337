package game

import "sort"

// calculatePots rebuilds the main/side pot decomposition from scratch
// out of the hand commitments. Layering: take the smallest remaining
// commitment m among players still owing; every such player puts m
// into a new layer; eligibility for the layer is every contributor who
// has not folded; subtract m and repeat. Side pots appear exactly when
// players are all-in for different amounts.
func calculatePots(players map[uint32]*PlayerHandState) []*Pot {
	type contribution struct {
		seatNo    uint32
		remaining int64
		folded    bool
	}

	contributions := make([]*contribution, 0, len(players))
	for seatNo, state := range players {
		if state.Committed <= 0 {
			continue
		}
		contributions = append(contributions, &contribution{
			seatNo:    seatNo,
			remaining: state.Committed,
			folded:    state.Folded,
		})
	}
	sort.Slice(contributions, func(i, j int) bool {
		if contributions[i].remaining == contributions[j].remaining {
			return contributions[i].seatNo < contributions[j].seatNo
		}
		return contributions[i].remaining < contributions[j].remaining
	})

	pots := make([]*Pot, 0)
	for len(contributions) > 0 {
		layerAmount := contributions[0].remaining
		pot := &Pot{Seats: make([]uint32, 0, len(contributions))}
		for _, c := range contributions {
			pot.Amount += layerAmount
			c.remaining -= layerAmount
			if !c.folded {
				pot.Seats = append(pot.Seats, c.seatNo)
			}
		}
		// folded commitments create layer boundaries without changing
		// eligibility; merge those so side pots exist exactly when
		// players are all-in for different amounts
		if n := len(pots); n > 0 && sameSeats(pots[n-1].Seats, pot.Seats) {
			pots[n-1].Amount += pot.Amount
		} else {
			pots = append(pots, pot)
		}

		stillOwing := contributions[:0]
		for _, c := range contributions {
			if c.remaining > 0 {
				stillOwing = append(stillOwing, c)
			}
		}
		contributions = stillOwing
	}

	if len(pots) == 0 {
		pots = append(pots, &Pot{Seats: make([]uint32, 0)})
	}
	return pots
}

func sameSeats(a []uint32, b []uint32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// distributePot splits a pot among the winning seats. A single winner
// takes the whole amount. Ties split with integer division; the
// remainder goes one chip at a time to winners ordered by clockwise
// seat distance from the dealer, so the earliest-acting winner after
// the dealer receives the extra chip. The tie-break is fixed and
// reproducible, never arbitrary.
func distributePot(pot *Pot, winners []uint32, dealerSeat uint32, maxSeats uint32) map[uint32]int64 {
	payouts := make(map[uint32]int64, len(winners))
	if len(winners) == 0 {
		return payouts
	}
	if len(winners) == 1 {
		payouts[winners[0]] = pot.Amount
		return payouts
	}

	share := pot.Amount / int64(len(winners))
	remainder := pot.Amount % int64(len(winners))

	ordered := make([]uint32, len(winners))
	copy(ordered, winners)
	sort.Slice(ordered, func(i, j int) bool {
		return seatDistance(dealerSeat, ordered[i], maxSeats) < seatDistance(dealerSeat, ordered[j], maxSeats)
	})

	for _, seatNo := range ordered {
		payouts[seatNo] = share
	}
	for i := int64(0); i < remainder; i++ {
		payouts[ordered[i]]++
	}
	return payouts
}

// seatDistance is the number of clockwise steps from the dealer to the
// seat. The dealer's own seat has distance 0.
func seatDistance(dealerSeat uint32, seatNo uint32, maxSeats uint32) uint32 {
	return (seatNo + maxSeats - dealerSeat) % maxSeats
}
