// Package main runs batches of bot-only Yaniv games and reports how often each
// seat became champion.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	engine "github.com/jason-s-yu/yaniv/engine"
	"github.com/jason-s-yu/yaniv/service/internal/config"
	"github.com/jason-s-yu/yaniv/service/internal/game"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// CLI flags
var (
	games    int
	players  int
	seed     uint64
	workers  int
	envPath  string
	maxTurns int
	verbose  bool
)

func init() {
	flag.IntVar(&games, "games", 100, "Number of games to play")
	flag.IntVar(&players, "players", 4, "Players per game")
	flag.Uint64Var(&seed, "seed", 0, "Base random seed; game i uses seed+i (0 = use current time)")
	flag.IntVar(&workers, "workers", 0, "Concurrent games (0 = CPU count)")
	flag.StringVar(&envPath, "env", ".env", "Optional .env file with YANIV_* house rules")
	flag.IntVar(&maxTurns, "max-turns", 100000, "Turn cap per game")
	flag.BoolVar(&verbose, "v", false, "Log every action")
}

type tally struct {
	mu        sync.Mutex
	wins      []int
	rounds    int
	truncated int
}

func main() {
	flag.Parse()

	settings, err := config.Load(envPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	logrus.SetLevel(settings.LogLevel)
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	t, err := run(ctx, settings.Rules)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%d games, %d players, seed %d, %s\n", games, players, seed, time.Since(start).Round(time.Millisecond))
	fmt.Printf("rounds played: %d (%.1f per game)\n", t.rounds, float64(t.rounds)/float64(max(games, 1)))
	if t.truncated > 0 {
		fmt.Printf("games stopped at the turn cap: %d\n", t.truncated)
	}
	for i, w := range t.wins {
		fmt.Printf("  seat %d: %4d wins (%.1f%%)\n", i, w, 100*float64(w)/float64(max(games, 1)))
	}
}

func run(ctx context.Context, rules engine.HouseRules) (*tally, error) {
	seats := make([]engine.PlayerConfig, players)
	for i := range seats {
		seats[i] = engine.PlayerConfig{Name: fmt.Sprintf("bot-%d", i), Automated: true}
	}

	t := &tally{wins: make([]int, players)}
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i := 0; i < games; i++ {
		gameSeed := seed + uint64(i)
		eg.Go(func() error {
			g, err := game.Configure(rules, seats, gameSeed)
			if err != nil {
				return err
			}
			rounds := 0
			g.OnRoundEnd = func(uuid.UUID, game.RoundSummary) { rounds++ }

			champion, err := g.PlayOut(ctx, maxTurns)
			t.mu.Lock()
			defer t.mu.Unlock()
			t.rounds += rounds
			switch {
			case game.IsTurnLimit(err):
				g.Log.Warnf("Game %s: Stopped after %d turns (seed %d).", g.ID, maxTurns, gameSeed)
				t.truncated++
				return nil
			case err != nil:
				return fmt.Errorf("game seed %d: %w", gameSeed, err)
			}
			for seat, p := range g.Players {
				if p.ID == champion {
					t.wins[seat]++
				}
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return t, nil
}
