// Package config reads house rules and service settings from the environment
// and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	engine "github.com/jason-s-yu/yaniv/engine"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Settings is everything the service reads at startup.
type Settings struct {
	Rules    engine.HouseRules
	LogLevel logrus.Level
}

// Environment keys. Process environment wins over the .env file.
const (
	KeyCardsAtStart        = "YANIV_CARDS_AT_START"
	KeyCallThreshold       = "YANIV_CALL_THRESHOLD"
	KeyAssafPenalty        = "YANIV_ASSAF_PENALTY"
	KeyExtraAssafPenalty   = "YANIV_EXTRA_ASSAF_PENALTY"
	KeyScoreLimit          = "YANIV_SCORE_LIMIT"
	KeyReductionMultiple   = "YANIV_REDUCTION_MULTIPLE"
	KeyReductionIsHalf     = "YANIV_REDUCTION_HALF"
	KeyAllowSlapdown       = "YANIV_ALLOW_SLAPDOWN"
	KeyAllowJokerSwap      = "YANIV_ALLOW_JOKER_SWAP"
	KeyAllowTakeFromMiddle = "YANIV_ALLOW_TAKE_FROM_MIDDLE"
	KeyMinPlayers          = "YANIV_MIN_PLAYERS"
	KeyMaxPlayers          = "YANIV_MAX_PLAYERS"
	KeyLogLevel            = "YANIV_LOG_LEVEL"
)

// Load reads settings starting from the default house rules. path names a
// .env file; a missing file is not an error, an empty path skips it.
func Load(path string) (Settings, error) {
	file := map[string]string{}
	if path != "" {
		m, err := godotenv.Read(path)
		switch {
		case err == nil:
			file = m
		case errors.Is(err, fs.ErrNotExist):
			logrus.Debugf("config: %s not found, using environment only", path)
		default:
			return Settings{}, fmt.Errorf("read %s: %w", path, err)
		}
	}
	return load(func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := file[key]
		return v, ok
	})
}

// LoadHouseRules is Load for callers that only need the rules.
func LoadHouseRules(path string) (engine.HouseRules, error) {
	s, err := Load(path)
	return s.Rules, err
}

func load(lookup func(string) (string, bool)) (Settings, error) {
	s := Settings{Rules: engine.DefaultHouseRules(), LogLevel: logrus.InfoLevel}
	r := &s.Rules

	ints := []struct {
		key string
		dst *int
	}{
		{KeyCardsAtStart, &r.CardsAtStart},
		{KeyCallThreshold, &r.CallThreshold},
		{KeyAssafPenalty, &r.AssafPenalty},
		{KeyExtraAssafPenalty, &r.ExtraAssafPenalty},
		{KeyScoreLimit, &r.ScoreLimit},
		{KeyReductionMultiple, &r.ReductionMultiple},
		{KeyMinPlayers, &r.MinPlayers},
		{KeyMaxPlayers, &r.MaxPlayers},
	}
	for _, f := range ints {
		v, ok := lookup(f.key)
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return Settings{}, fmt.Errorf("%s: %w", f.key, err)
		}
		*f.dst = n
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{KeyReductionIsHalf, &r.ReductionIsHalf},
		{KeyAllowSlapdown, &r.AllowSlapdown},
		{KeyAllowJokerSwap, &r.AllowJokerSwap},
		{KeyAllowTakeFromMiddle, &r.AllowTakeFromMiddle},
	}
	for _, f := range bools {
		v, ok := lookup(f.key)
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return Settings{}, fmt.Errorf("%s: %w", f.key, err)
		}
		*f.dst = b
	}

	if v, ok := lookup(KeyLogLevel); ok && v != "" {
		lvl, err := logrus.ParseLevel(v)
		if err != nil {
			return Settings{}, fmt.Errorf("%s: %w", KeyLogLevel, err)
		}
		s.LogLevel = lvl
	}

	if err := s.Rules.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}
