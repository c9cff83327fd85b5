// fibergamed runs a self-contained demo of a full game between two local
// players against an in-process Oracle, settling over a mock Fiber
// backend. It exists to exercise oracle, player, games, and fiber end to
// end without standing up real Fiber nodes.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/btcsuite/btclog"
	"github.com/jessevdk/go-flags"

	"github.com/lightningnetwork/fibergame/fiber"
	"github.com/lightningnetwork/fibergame/games"
	"github.com/lightningnetwork/fibergame/oracle"
	"github.com/lightningnetwork/fibergame/player"
	"github.com/lightningnetwork/fibergame/protocol"
)

// config holds fibergamed's command-line options.
type config struct {
	Stake   uint64 `long:"stake" description:"stake amount in shannon for the demo game" default:"1000"`
	Balance uint64 `long:"balance" description:"starting balance for the shared mock Fiber backend" default:"20000"`
	Debug   bool   `short:"d" long:"debug" description:"enable debug-level logging"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fibergamed:", err)
		os.Exit(1)
	}
}

func run() error {
	var cfg config
	if _, err := flags.Parse(&cfg); err != nil {
		if flags.WroteHelp(err) {
			return nil
		}
		return err
	}

	setupLogging(cfg.Debug)

	oracleSvc, err := oracle.NewService()
	if err != nil {
		return fmt.Errorf("unable to start oracle: %w", err)
	}

	backend := fiber.NewMockClient(cfg.Balance)
	alice := player.NewService("alice", oracleSvc, backend)
	bob := player.NewService("bob", oracleSvc, backend)

	gameID, err := alice.CreateGame(games.RockPaperScissors, cfg.Stake)
	if err != nil {
		return fmt.Errorf("create game: %w", err)
	}
	if err := bob.JoinGame(gameID); err != nil {
		return fmt.Errorf("join game: %w", err)
	}

	// Alice goes first: her own invoice is created and submitted, but
	// Bob hasn't submitted his yet, so this first call only advances
	// her half of the exchange.
	if err := playRetrying(alice, gameID, games.Rock); err != nil {
		return fmt.Errorf("alice play: %w", err)
	}
	if err := bob.Play(gameID, games.Scissors); err != nil {
		return fmt.Errorf("bob play: %w", err)
	}
	if err := playRetrying(alice, gameID, games.Rock); err != nil {
		return fmt.Errorf("alice replay: %w", err)
	}

	if err := alice.Settle(gameID); err != nil {
		return fmt.Errorf("alice settle: %w", err)
	}
	if err := bob.Settle(gameID); err != nil {
		return fmt.Errorf("bob settle: %w", err)
	}

	view, err := oracleSvc.GetResult(gameID, protocol.PlayerA)
	if err != nil {
		return fmt.Errorf("get result: %w", err)
	}

	fmt.Printf("game %s result=%s final balance=%d\n", gameID, *view.Result, backend.Balance())
	return nil
}

// playRetrying calls Play once, tolerating the retryable
// ErrOpponentNotReady a player sees when it's the first to reach the
// invoice-exchange step in a new game.
func playRetrying(svc *player.Service, gameID protocol.GameID, action games.Action) error {
	err := svc.Play(gameID, action)
	if errors.Is(err, player.ErrOpponentNotReady) {
		return nil
	}
	return err
}

func setupLogging(debug bool) {
	backend := btclog.NewBackend(os.Stdout)
	level := btclog.LevelInfo
	if debug {
		level = btclog.LevelDebug
	}

	oracleLog := backend.Logger("ORCL")
	oracleLog.SetLevel(level)
	oracle.UseLogger(oracleLog)

	playerLog := backend.Logger("PLYR")
	playerLog.SetLevel(level)
	player.UseLogger(playerLog)

	fiberLog := backend.Logger("FIBR")
	fiberLog.SetLevel(level)
	fiber.UseLogger(fiberLog)
}
