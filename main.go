package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"cardroom.io/server/logging"
	"cardroom.io/server/natsfeed"
	"cardroom.io/server/rest"
	"cardroom.io/server/store"
	"cardroom.io/server/table"
	"cardroom.io/server/util"
)

var mainLogger = logging.GetZeroLogger("main::main", nil)

var defaultsFile *string

func init() {
	defaultsFile = flag.String("table-defaults", "", "YAML file containing table defaults")
}

func main() {
	err := run()
	if err != nil {
		mainLogger.Error().Msg(err.Error())
		os.Exit(1)
	}
}

func run() error {
	flag.Parse()
	zerolog.SetGlobalLevel(util.Env.GetZeroLogLogLevel())

	defaults, err := util.ParseTableDefaults(*defaultsFile)
	if err != nil {
		return err
	}

	var persist store.PersistTableState
	switch util.Env.GetPersistMethod() {
	case "redis":
		redisAddr := fmt.Sprintf("%s:%d", util.Env.GetRedisHost(), util.Env.GetRedisPort())
		persist = store.NewRedisTableTracker(redisAddr, util.Env.GetRedisPW(), util.Env.GetRedisDB())
		mainLogger.Info().Msgf("Persisting tables to redis at %s", redisAddr)
	default:
		persist = store.NewMemoryTableTracker()
		mainLogger.Info().Msg("Persisting tables in memory")
	}

	var feed table.Feed = table.NopFeed{}
	natsURL := util.Env.GetNatsURL()
	if natsURL != "" {
		publisher, err := natsfeed.NewPublisher(natsURL)
		if err != nil {
			return err
		}
		defer publisher.Close()
		feed = publisher
		mainLogger.Info().Msgf("Reporting chip deltas to nats at %s", natsURL)
	}

	manager := table.NewManager(persist, feed, table.Config{
		MaxSeats:   defaults.MaxSeats,
		SmallBlind: defaults.SmallBlind,
		BigBlind:   defaults.BigBlind,
		MinPlayers: defaults.MinPlayers,
	})

	port := util.Env.GetHTTPPort()
	mainLogger.Info().Msgf("Starting coordinator REST server on port %d", port)
	return rest.RunRestServer(manager, port)
}
