// cmd/filexfer/main.go
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/tamzrod/filexfer/internal/config"
	"github.com/tamzrod/filexfer/internal/register/modbus"
	"github.com/tamzrod/filexfer/internal/store"
	"github.com/tamzrod/filexfer/internal/transfer"
)

const usage = `usage:
  filexfer <config.yaml> read  <device-file> <local-path>
  filexfer <config.yaml> write <local-path>  <device-file>`

func main() {
	if len(os.Args) != 5 {
		log.Fatal(usage)
	}

	cfgPath, cmd := os.Args[1], os.Args[2]

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}

	config.Normalize(cfg)

	// --------------------
	// Build device + engine
	// --------------------

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	engine, err := transfer.Build(cfg.Transfer, logger, nil)
	if err != nil {
		log.Fatalf("engine build failed: %v", err)
	}

	dev, closeDevice, err := modbus.Build(cfg.Device)
	if err != nil {
		log.Fatalf("device connect failed (endpoint=%s): %v", cfg.Device.Endpoint, err)
	}
	defer closeDevice()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --------------------
	// Run
	// --------------------

	switch cmd {
	case "read":
		err = runRead(ctx, engine, dev, os.Args[3], os.Args[4])
	case "write":
		err = runWrite(ctx, engine, dev, os.Args[3], os.Args[4])
	default:
		closeDevice()
		log.Fatalf("unknown command %q\n%s", cmd, usage)
	}

	if err != nil {
		closeDevice()
		log.Fatalf("%s failed (kind=%s): %v", cmd, transfer.KindOf(err), err)
	}
}

func runRead(ctx context.Context, e *transfer.Engine, dev *modbus.Device, deviceFile, localPath string) error {
	s, name, err := store.ForPath(localPath)
	if err != nil {
		return err
	}

	data, err := e.ReadFile(ctx, dev, deviceFile)
	if err != nil {
		return err
	}

	if err := s.Save(name, data); err != nil {
		return err
	}
	log.Printf("read %s -> %s (%d bytes)", deviceFile, localPath, len(data))
	return nil
}

func runWrite(ctx context.Context, e *transfer.Engine, dev *modbus.Device, localPath, deviceFile string) error {
	s, name, err := store.ForPath(localPath)
	if err != nil {
		return err
	}

	data, err := s.Load(name)
	if err != nil {
		return err
	}

	if err := e.WriteFile(ctx, dev, deviceFile, data); err != nil {
		return err
	}
	log.Printf("wrote %s -> %s (%d bytes)", localPath, deviceFile, len(data))
	return nil
}
