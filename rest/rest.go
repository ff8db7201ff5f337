package rest

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"cardroom.io/server/game"
	"cardroom.io/server/table"
)

var restLogger = log.With().Str("logger_name", "rest::rest").Logger()
var tableManager *table.Manager

//
// APP error definition
//
type appError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
}

type newTablePayload struct {
	MaxSeats   uint32 `json:"maxSeats"`
	SmallBlind int64  `json:"smallBlind"`
	BigBlind   int64  `json:"bigBlind"`
}

type sitPayload struct {
	PlayerID uint64 `json:"playerId"`
	SeatNo   uint32 `json:"seatNo"`
	Stack    int64  `json:"stack"`
}

type seatPayload struct {
	SeatNo uint32 `json:"seatNo"`
}

type actionPayload struct {
	Version uint64 `json:"version"`
	SeatNo  uint32 `json:"seatNo"`
	Action  string `json:"action"`
	Amount  int64  `json:"amount"`
}

type revealPayload struct {
	Version uint64 `json:"version"`
}

type showdownPayload struct {
	Version      uint64     `json:"version"`
	WinnersByPot [][]uint32 `json:"winnersByPot"`
}

// actions are rate limited per table so a misbehaving client cannot
// spin the engine
var (
	limiterLock sync.Mutex
	limiters    = make(map[string]*rate.Limiter)
)

func tableLimiter(tableCode string) *rate.Limiter {
	limiterLock.Lock()
	defer limiterLock.Unlock()
	limiter, ok := limiters[tableCode]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(20), 40)
		limiters[tableCode] = limiter
	}
	return limiter
}

func rateLimit(c *gin.Context) {
	tableCode := c.Param("code")
	if !tableLimiter(tableCode).Allow() {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, appError{
			Code:    http.StatusTooManyRequests,
			Message: fmt.Sprintf("Too many requests for table %s", tableCode),
		})
	}
}

// RunRestServer starts the coordinator's HTTP surface.
func RunRestServer(manager *table.Manager, port int) error {
	tableManager = manager
	r := gin.Default()

	r.POST("/new-table", newTable)
	r.GET("/table/:code", getTable)
	r.POST("/table/:code/sit", sit)
	r.POST("/table/:code/leave", leave)
	r.POST("/table/:code/new-hand", newHand)
	r.POST("/table/:code/action", rateLimit, playerAction)
	r.POST("/table/:code/force-action", rateLimit, forceAction)
	r.POST("/table/:code/reveal", reveal)
	r.POST("/table/:code/showdown", showdown)
	r.GET("/table/:code/cards", holeCards)
	r.POST("/table/:code/end", endTable)

	return r.Run(fmt.Sprintf(":%d", port))
}

func newTable(c *gin.Context) {
	var payload newTablePayload
	if err := c.BindJSON(&payload); err != nil {
		reportError(c, err)
		return
	}
	t, err := tableManager.NewTable(table.Config{
		MaxSeats:   payload.MaxSeats,
		SmallBlind: payload.SmallBlind,
		BigBlind:   payload.BigBlind,
	})
	if err != nil {
		reportError(c, err)
		return
	}
	restLogger.Info().Msgf("New table %s created", t.Code())
	c.JSON(http.StatusOK, t.Snapshot())
}

func getTable(c *gin.Context) {
	t, err := tableManager.GetTable(c.Param("code"))
	if err != nil {
		reportError(c, err)
		return
	}
	c.JSON(http.StatusOK, t.Snapshot())
}

func sit(c *gin.Context) {
	t, err := tableManager.GetTable(c.Param("code"))
	if err != nil {
		reportError(c, err)
		return
	}
	var payload sitPayload
	if err := c.BindJSON(&payload); err != nil {
		reportError(c, err)
		return
	}
	if err := t.Sit(payload.PlayerID, payload.SeatNo, payload.Stack); err != nil {
		reportError(c, err)
		return
	}
	c.JSON(http.StatusOK, t.Snapshot())
}

func leave(c *gin.Context) {
	t, err := tableManager.GetTable(c.Param("code"))
	if err != nil {
		reportError(c, err)
		return
	}
	var payload seatPayload
	if err := c.BindJSON(&payload); err != nil {
		reportError(c, err)
		return
	}
	if err := t.Leave(payload.SeatNo); err != nil {
		reportError(c, err)
		return
	}
	c.JSON(http.StatusOK, t.Snapshot())
}

func newHand(c *gin.Context) {
	t, err := tableManager.GetTable(c.Param("code"))
	if err != nil {
		reportError(c, err)
		return
	}
	snapshot, err := t.StartHand()
	if err != nil {
		reportError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func playerAction(c *gin.Context) {
	t, err := tableManager.GetTable(c.Param("code"))
	if err != nil {
		reportError(c, err)
		return
	}
	var payload actionPayload
	if err := c.BindJSON(&payload); err != nil {
		reportError(c, err)
		return
	}
	snapshot, err := t.SubmitAction(payload.Version, payload.SeatNo, game.Action(payload.Action), payload.Amount)
	if err != nil {
		reportError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func forceAction(c *gin.Context) {
	t, err := tableManager.GetTable(c.Param("code"))
	if err != nil {
		reportError(c, err)
		return
	}
	var payload actionPayload
	if err := c.BindJSON(&payload); err != nil {
		reportError(c, err)
		return
	}
	snapshot, err := t.ForceAction(payload.Version, payload.SeatNo)
	if err != nil {
		reportError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func reveal(c *gin.Context) {
	t, err := tableManager.GetTable(c.Param("code"))
	if err != nil {
		reportError(c, err)
		return
	}
	var payload revealPayload
	if err := c.BindJSON(&payload); err != nil {
		reportError(c, err)
		return
	}
	snapshot, err := t.Reveal(payload.Version)
	if err != nil {
		reportError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func showdown(c *gin.Context) {
	t, err := tableManager.GetTable(c.Param("code"))
	if err != nil {
		reportError(c, err)
		return
	}
	var payload showdownPayload
	if err := c.BindJSON(&payload); err != nil {
		reportError(c, err)
		return
	}
	snapshot, err := t.ResolveShowdown(payload.Version, payload.WinnersByPot)
	if err != nil {
		reportError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func holeCards(c *gin.Context) {
	t, err := tableManager.GetTable(c.Param("code"))
	if err != nil {
		reportError(c, err)
		return
	}
	seatNo, err := strconv.ParseUint(c.Query("seatNo"), 10, 32)
	if err != nil {
		reportError(c, fmt.Errorf("invalid seatNo: %s", c.Query("seatNo")))
		return
	}
	cards, err := t.HoleCards(uint32(seatNo))
	if err != nil {
		reportError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"seatNo": seatNo, "cards": cards})
}

func endTable(c *gin.Context) {
	tableCode := c.Param("code")
	tableManager.EndTable(tableCode)
	c.JSON(http.StatusOK, gin.H{"status": "ENDED"})
}

// reportError maps engine errors onto HTTP statuses: rejections are
// client errors, state inconsistencies are server errors.
func reportError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	reason := ""

	switch e := err.(type) {
	case game.TurnViolationError:
		status = http.StatusConflict
	case game.IllegalActionError:
		status = http.StatusBadRequest
		reason = e.Reason
	case game.InsufficientPlayersError:
		status = http.StatusBadRequest
	case game.StateInconsistencyError:
		restLogger.Error().Msgf("State inconsistency: %s", e.Error())
		status = http.StatusInternalServerError
	default:
		if err == table.ErrStaleAction {
			status = http.StatusConflict
		} else {
			status = http.StatusBadRequest
		}
	}

	c.JSON(status, appError{
		Code:    status,
		Message: err.Error(),
		Reason:  reason,
	})
}
