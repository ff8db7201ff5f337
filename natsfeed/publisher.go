package natsfeed

import (
	jsoniter "github.com/json-iterator/go"
	natsgo "github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"cardroom.io/server/game"
	"cardroom.io/server/logging"
)

var natsLogger = log.With().Str("logger_name", "natsfeed::publisher").Logger()

// DeltaReport is the payload sent to the external chip ledger. The
// coordinator never mutates stacks itself; every deduction and credit
// goes out through this report and the ledger applies it atomically.
type DeltaReport struct {
	TableCode string           `json:"tableCode"`
	HandNum   uint32           `json:"handNum"`
	Version   uint64           `json:"version"`
	Deltas    []game.ChipDelta `json:"deltas"`
}

// SettleReport announces a settled hand: final pots and payout deltas.
type SettleReport struct {
	TableCode string           `json:"tableCode"`
	HandNum   uint32           `json:"handNum"`
	Stage     game.HandStage   `json:"stage"`
	Pots      []*game.Pot      `json:"pots"`
	Deltas    []game.ChipDelta `json:"deltas"`
}

// Publisher pushes ledger reports over NATS.
type Publisher struct {
	nc *natsgo.Conn
}

func NewPublisher(natsURL string) (*Publisher, error) {
	nc, err := natsgo.Connect(natsURL)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to connect to nats server at %s", natsURL)
	}
	return &Publisher{nc: nc}, nil
}

func (p *Publisher) PublishDeltas(report *DeltaReport) error {
	if len(report.Deltas) == 0 {
		return nil
	}
	data, err := jsoniter.Marshal(report)
	if err != nil {
		return errors.Wrap(err, "Failed to marshal delta report")
	}
	err = p.nc.Publish(GetLedgerDeltaSubject(report.TableCode), data)
	if err != nil {
		return errors.Wrap(err, "Failed to publish delta report")
	}
	natsLogger.Debug().
		Str(logging.TableCodeKey, report.TableCode).
		Uint32(logging.HandNumKey, report.HandNum).
		Int("numDeltas", len(report.Deltas)).
		Msg("Published ledger deltas")
	return nil
}

func (p *Publisher) PublishSettled(report *SettleReport) error {
	data, err := jsoniter.Marshal(report)
	if err != nil {
		return errors.Wrap(err, "Failed to marshal settle report")
	}
	err = p.nc.Publish(GetHandSettledSubject(report.TableCode), data)
	if err != nil {
		return errors.Wrap(err, "Failed to publish settle report")
	}
	return nil
}

func (p *Publisher) Close() {
	p.nc.Close()
}
