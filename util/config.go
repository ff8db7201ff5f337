package util

import (
	"io/ioutil"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

/*
	max-seats: 9
	min-players: 2
	sb: 1
	bb: 2
*/

// TableDefaults are the server-wide defaults applied to tables created
// without explicit parameters.
type TableDefaults struct {
	MaxSeats   uint32 `yaml:"max-seats"`
	MinPlayers int    `yaml:"min-players"`
	SmallBlind int64  `yaml:"sb"`
	BigBlind   int64  `yaml:"bb"`
}

// ParseTableDefaults reads the defaults YAML. A missing file name
// yields the built-in defaults.
func ParseTableDefaults(fileName string) (*TableDefaults, error) {
	defaults := &TableDefaults{
		MaxSeats:   9,
		MinPlayers: 2,
		SmallBlind: 1,
		BigBlind:   2,
	}
	if fileName == "" {
		return defaults, nil
	}
	data, err := ioutil.ReadFile(fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "Error reading table defaults file [%s]", fileName)
	}
	err = yaml.Unmarshal(data, defaults)
	if err != nil {
		return nil, errors.Wrapf(err, "Error parsing table defaults file [%s]", fileName)
	}
	return defaults, nil
}
