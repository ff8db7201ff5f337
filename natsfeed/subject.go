package natsfeed

import (
	"fmt"
)

func GetLedgerDeltaSubject(tableCode string) string {
	return fmt.Sprintf("ledger.%s.deltas", tableCode)
}

func GetHandSettledSubject(tableCode string) string {
	return fmt.Sprintf("hand.%s.settled", tableCode)
}
