// cmd/gripper/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.bug.st/serial/enumerator"

	"github.com/tamzrod/modbus-gripper/internal/codec"
	"github.com/tamzrod/modbus-gripper/internal/config"
	"github.com/tamzrod/modbus-gripper/internal/gripper"
	"github.com/tamzrod/modbus-gripper/internal/status"
	"github.com/tamzrod/modbus-gripper/internal/writer"
)

const usage = `usage:
  gripper ports
  gripper <config.yaml> status
  gripper <config.yaml> init
  gripper <config.yaml> grip [gap]
  gripper <config.yaml> release [gap]
  gripper <config.yaml> move <gap>        (zimmer)
  gripper <config.yaml> home-outside      (zimmer)
  gripper <config.yaml> home-inside       (zimmer)
  gripper <config.yaml> vacuum on|off     (koras)
  gripper <config.yaml> watch`

// commandTimeout bounds one-shot CLI verbs.
const commandTimeout = 30 * time.Second

func main() {
	if len(os.Args) == 2 && os.Args[1] == "ports" {
		if err := listPorts(); err != nil {
			log.Fatalf("port enumeration failed: %v", err)
		}
		return
	}

	if len(os.Args) < 3 {
		log.Fatal(usage)
	}

	cfgPath := os.Args[1]
	verb := os.Args[2]
	args := os.Args[3:]

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
	g := cfg.Gripper

	// --------------------
	// Build + connect device
	// --------------------

	opts := options(g)
	if verb != "watch" {
		opts.Logger = gripper.QuietLogger()
	}

	var dev device
	switch g.Device {
	case config.DeviceKoras:
		dev = gripper.NewKoras(opts)
	default:
		dev = gripper.NewZimmer(opts)
	}

	if err := dev.Connect(); err != nil {
		log.Fatalf("connect failed (gripper=%s): %v", g.ID, err)
	}
	defer dev.Disconnect()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if verb == "watch" {
		watch(ctx, g, dev)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	if err := firstPoll(ctx, dev); err != nil {
		log.Fatalf("no status from gripper (gripper=%s): %v", g.ID, err)
	}

	switch d := dev.(type) {
	case *gripper.Zimmer:
		err = runZimmer(ctx, d, verb, args)
	case *gripper.Koras:
		err = runKoras(ctx, d, verb, args)
	}
	if err != nil {
		log.Fatalf("%s failed (gripper=%s): %v", verb, g.ID, err)
	}
}

// firstPoll waits until the poller has delivered one good block.
func firstPoll(ctx context.Context, dev device) error {
	t := time.NewTicker(5 * time.Millisecond)
	defer t.Stop()

	for {
		s := dev.Snapshot()
		if s.Health == status.HealthOK {
			return nil
		}
		select {
		case <-ctx.Done():
			if s.LastError != "" {
				return errors.New(s.LastError)
			}
			return ctx.Err()
		case <-t.C:
		}
	}
}

// ---- zimmer ----

func runZimmer(ctx context.Context, z *gripper.Zimmer, verb string, args []string) error {
	switch verb {
	case "status":
		printZimmer(z)
		return nil

	case "init":
		if err := z.Init(ctx); err != nil {
			return err
		}
		return waitIdle(ctx, z)

	case "grip", "release", "move":
		gap, err := gapArg(verb, args)
		if err != nil {
			return err
		}
		if err := z.Init(ctx); err != nil {
			return err
		}
		if err := waitIdle(ctx, z); err != nil {
			return err
		}
		switch verb {
		case "grip":
			err = z.Grip(ctx, gap, true)
		case "release":
			err = z.Release(ctx, gap, true)
		default:
			err = z.CustomPosition(ctx, gap, true)
		}
		if err != nil {
			return err
		}
		printZimmer(z)
		return nil

	case "home-outside", "home-inside":
		var err error
		if verb == "home-outside" {
			err = z.OutsideHoming(ctx)
		} else {
			err = z.InsideHoming(ctx)
		}
		if err != nil {
			return err
		}
		// Homing is asynchronous: see it start, then see it finish.
		if err := waitArmed(ctx, z, true); err != nil {
			return err
		}
		if err := waitIdle(ctx, z); err != nil {
			return err
		}
		printZimmer(z)
		return nil
	}
	return fmt.Errorf("unknown verb %q for zimmer\n%s", verb, usage)
}

// waitIdle waits until no handshake sequence is outstanding.
func waitIdle(ctx context.Context, z *gripper.Zimmer) error {
	return waitArmed(ctx, z, false)
}

func waitArmed(ctx context.Context, z *gripper.Zimmer, armed bool) error {
	t := time.NewTicker(5 * time.Millisecond)
	defer t.Stop()

	for z.Snapshot().Armed != armed {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
	return nil
}

func gapArg(verb string, args []string) (int, error) {
	if len(args) == 0 {
		if verb == "move" {
			return 0, errors.New("move requires a gap")
		}
		return -1, nil
	}
	gap, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("gap %q: %w", args[0], err)
	}
	return gap, nil
}

var statusBitNames = [16]string{
	"", "MoveToWorkPending", "MoveToBasePending", "DataTransferOK",
	"", "AtWork", "", "AtBase",
	"", "PLCActive", "", "",
	"MovementComplete", "InMotion", "MotorOn", "HomingOK",
}

func printZimmer(z *gripper.Zimmer) {
	raw, bits := z.StatusWord()
	code, text := z.Diagnosis()
	base, shift, work := z.Positions()

	fmt.Printf("position:    %d (%.2f mm)\n", z.ActualPosition(), float64(z.ActualPosition())/100)
	fmt.Printf("status word: 0x%04X\n", raw)
	for i, on := range bits {
		if on && statusBitNames[i] != "" {
			fmt.Printf("  %s\n", statusBitNames[i])
		}
	}
	fmt.Printf("diagnosis:   0x%04X %s\n", code, text)
	fmt.Printf("initialized: %v\n", z.Initialized())
	fmt.Printf("commanded:   base=%d shift=%d work=%d\n", base, shift, work)
}

// ---- koras ----

func runKoras(_ context.Context, k *gripper.Koras, verb string, args []string) error {
	switch verb {
	case "status":
		printKoras(k)
		return nil

	case "init":
		return k.Init()

	case "grip", "release":
		dist, err := gapArg(verb, args)
		if err != nil {
			return err
		}
		if verb == "grip" {
			return k.Grip(dist)
		}
		return k.Release(dist)

	case "vacuum":
		if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
			return errors.New("vacuum requires on|off")
		}
		return k.Vacuum(args[0] == "on")
	}
	return fmt.Errorf("unknown verb %q for koras\n%s", verb, usage)
}

func printKoras(k *gripper.Koras) {
	s := k.Status()
	fmt.Printf("position:    %.2f mm\n", k.Position())
	fmt.Printf("finger:      %d\n", s.FingerPosition)
	fmt.Printf("current:     %d mA\n", s.MotorCurrent)
	fmt.Printf("velocity:    %d rpm\n", s.MotorVelocity)
	fmt.Printf("bus voltage: %d V\n", s.BusVoltage)
	fmt.Printf("status:      0x%04X enabled=%v initialized=%v closing=%v fault=%v\n",
		s.Raw, s.MotorEnabled, s.Initialized, s.Closing, s.MotorFault)
}

// ---- watch ----

// watch logs state changes and mirrors the snapshot into status memory until ctx ends.
func watch(ctx context.Context, g config.GripperConfig, dev device) {
	var sw writer.StatusWriter
	if g.StatusMemory != nil {
		w, closeWriter, err := writer.Build(g.StatusMemory)
		if err != nil {
			log.Fatalf("status writer failed (gripper=%s): %v", g.ID, err)
		}
		defer closeWriter()
		sw = w
	}

	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()

	var last status.Snapshot

	for {
		select {
		case <-ctx.Done():
			return

		case now := <-tick.C:
			s := dev.Snapshot()

			if s.Health != last.Health || s.StatusWord != last.StatusWord || s.Diagnosis != last.Diagnosis {
				log.Printf("gripper=%s health=%d status=0x%04X diag=0x%04X (%s) pos=%d step=%d armed=%v",
					g.ID, s.Health, s.StatusWord, s.Diagnosis, codec.Diagnosis(s.Diagnosis), s.Position, s.Step, s.Armed)
			}
			last = s

			if sw == nil {
				continue
			}
			if err := sw.WriteStatus(s, now); err != nil {
				log.Printf("status write failed (gripper=%s): %v", g.ID, err)
			}
		}
	}
}

// ---- ports ----

func listPorts() error {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return err
	}
	if len(ports) == 0 {
		fmt.Println("no serial ports found")
		return nil
	}
	for _, p := range ports {
		if p.IsUSB {
			fmt.Printf("%s  usb %s:%s serial=%s %s\n", p.Name, p.VID, p.PID, p.SerialNumber, p.Product)
			continue
		}
		fmt.Printf("%s\n", p.Name)
	}
	return nil
}
