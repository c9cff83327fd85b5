// fiberescrowd runs a self-contained demo of the escrow order engine: a
// seller lists a product, a buyer funds it, the seller ships, and the
// order settles either by buyer confirmation or by a simulated-clock
// tick past the shipped-order timeout. It exists to exercise escrow and
// fiber end to end without standing up real Fiber nodes.
package main

import (
	"fmt"
	"os"

	"github.com/btcsuite/btclog"
	"github.com/jessevdk/go-flags"

	"github.com/lightningnetwork/fibergame/crypto"
	"github.com/lightningnetwork/fibergame/escrow"
	"github.com/lightningnetwork/fibergame/fiber"
)

// config holds fiberescrowd's command-line options.
type config struct {
	Price      uint64 `long:"price" description:"product price in shannon" default:"1000"`
	Balance    uint64 `long:"balance" description:"starting balance for the mock Fiber backend" default:"10000"`
	AutoExpire bool   `long:"auto-expire" description:"skip buyer confirmation and settle via Tick past the order timeout instead"`
	Debug      bool   `short:"d" long:"debug" description:"enable debug-level logging"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fiberescrowd:", err)
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

	backend := fiber.NewMockClient(cfg.Balance)
	svc := escrow.NewService(backend)
	svc.SetPollParams(3, 0)

	seller := svc.RegisterUser("seller")
	buyer := svc.RegisterUser("buyer")

	product, err := svc.CreateProduct(seller.ID, "Demo Widget", "A widget sold over hold invoices", cfg.Price)
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}

	preimage, err := crypto.RandomPreimage()
	if err != nil {
		return fmt.Errorf("generate preimage: %w", err)
	}

	order, err := svc.CreateOrder(buyer.ID, product.ID, preimage)
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}

	if err := svc.PayOrder(order.ID, buyer.ID); err != nil {
		return fmt.Errorf("pay order: %w", err)
	}
	if err := svc.ShipOrder(order.ID, seller.ID); err != nil {
		return fmt.Errorf("ship order: %w", err)
	}

	if cfg.AutoExpire {
		expired := svc.Tick(90_000)
		fmt.Printf("order %s auto-settled via tick: %v\n", order.ID, expired)
	} else if _, err := svc.ConfirmOrder(order.ID, buyer.ID); err != nil {
		return fmt.Errorf("confirm order: %w", err)
	}

	final, err := svc.GetOrder(order.ID)
	if err != nil {
		return fmt.Errorf("get order: %w", err)
	}

	fmt.Printf("order %s status=%s final balance=%d\n", order.ID, final.Status, backend.Balance())
	return nil
}

func setupLogging(debug bool) {
	logBackend := btclog.NewBackend(os.Stdout)
	level := btclog.LevelInfo
	if debug {
		level = btclog.LevelDebug
	}

	escrowLog := logBackend.Logger("ESCW")
	escrowLog.SetLevel(level)
	escrow.UseLogger(escrowLog)

	fiberLog := logBackend.Logger("FIBR")
	fiberLog.SetLevel(level)
	fiber.UseLogger(fiberLog)
}
