package util

import (
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var environmentLogger = log.With().Str("logger_name", "util::environment").Logger()

type coordinatorEnvironment struct {
	PersistMethod string
	RedisHost     string
	RedisPort     string
	RedisPW       string
	RedisDB       string
	NatsURL       string
	HTTPPort      string
	LogLevel      string
}

// Env is a helper object for accessing environment variables.
var Env = &coordinatorEnvironment{
	PersistMethod: "PERSIST_METHOD",
	RedisHost:     "REDIS_HOST",
	RedisPort:     "REDIS_PORT",
	RedisPW:       "REDIS_PW",
	RedisDB:       "REDIS_DB",
	NatsURL:       "NATS_URL",
	HTTPPort:      "HTTP_PORT",
	LogLevel:      "LOG_LEVEL",
}

// GetPersistMethod selects the table store backend. Defaults to the
// in-memory tracker.
func (c *coordinatorEnvironment) GetPersistMethod() string {
	method := os.Getenv(c.PersistMethod)
	if method == "" {
		return "memory"
	}
	return method
}

func (c *coordinatorEnvironment) GetRedisHost() string {
	host := os.Getenv(c.RedisHost)
	if host == "" {
		msg := fmt.Sprintf("%s is not defined", c.RedisHost)
		environmentLogger.Error().Msg(msg)
		panic(msg)
	}
	return host
}

func (c *coordinatorEnvironment) GetRedisPort() int {
	portStr := os.Getenv(c.RedisPort)
	if portStr == "" {
		msg := fmt.Sprintf("%s is not defined", c.RedisPort)
		environmentLogger.Error().Msg(msg)
		panic(msg)
	}
	portNum, err := strconv.Atoi(portStr)
	if err != nil {
		msg := fmt.Sprintf("Invalid Redis port %s", portStr)
		environmentLogger.Error().Msg(msg)
		panic(msg)
	}
	return portNum
}

func (c *coordinatorEnvironment) GetRedisPW() string {
	return os.Getenv(c.RedisPW)
}

func (c *coordinatorEnvironment) GetRedisDB() int {
	dbStr := os.Getenv(c.RedisDB)
	if dbStr == "" {
		return 0
	}
	dbNum, err := strconv.Atoi(dbStr)
	if err != nil {
		msg := fmt.Sprintf("Invalid Redis db %s", dbStr)
		environmentLogger.Error().Msg(msg)
		panic(msg)
	}
	return dbNum
}

func (c *coordinatorEnvironment) GetNatsURL() string {
	return os.Getenv(c.NatsURL)
}

func (c *coordinatorEnvironment) GetHTTPPort() int {
	portStr := os.Getenv(c.HTTPPort)
	if portStr == "" {
		return 8080
	}
	portNum, err := strconv.Atoi(portStr)
	if err != nil {
		msg := fmt.Sprintf("Invalid HTTP port %s", portStr)
		environmentLogger.Error().Msg(msg)
		panic(msg)
	}
	return portNum
}

func (c *coordinatorEnvironment) GetZeroLogLogLevel() zerolog.Level {
	levelStr := os.Getenv(c.LogLevel)
	if levelStr == "" {
		return zerolog.InfoLevel
	}
	level, err := zerolog.ParseLevel(levelStr)
	if err != nil {
		environmentLogger.Warn().Msgf("Unknown log level %s. Using info", levelStr)
		return zerolog.InfoLevel
	}
	return level
}
