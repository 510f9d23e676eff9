// absmap - absolute axis gesture mapper
// Turns swipes on a touch strip or wheel axis into key presses or commands.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"absmap/internal/action"
	"absmap/internal/autostart"
	"absmap/internal/config"
	"absmap/internal/engine"
	"absmap/internal/input"
	"absmap/internal/tray"
)

var (
	version   = "0.1.0"
	showVer   = flag.Bool("version", false, "Show version")
	listDevs  = flag.Bool("list", false, "List input devices and their absolute axes")
	debugMode = flag.Bool("debug", false, "Log every detected gesture with velocity and acceleration")
	withTray  = flag.Bool("tray", false, "Show a system tray icon with pause and quit")
	autoStart = flag.String("autostart", "", "Manage the systemd user service: enable, disable or status")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] [config.yaml]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVer {
		fmt.Printf("absmap version %s\n", version)
		return
	}

	// Handle --list flag
	if *listDevs {
		listDevices()
		return
	}

	if flag.NArg() > 1 {
		flag.Usage()
		os.Exit(1)
	}

	cfgMgr, err := config.NewManager(flag.Arg(0))
	if err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}

	// Handle --autostart flag
	if *autoStart != "" {
		handleAutostart(*autoStart, cfgMgr.Path())
		return
	}

	os.Exit(run(cfgMgr))
}

func listDevices() {
	devices, err := input.ListDevices()
	if err != nil {
		log.Fatalf("Failed to list devices: %v", err)
	}

	fmt.Println("Input Devices:")
	fmt.Println("--------------")
	for _, dev := range devices {
		fmt.Printf("%s\n", dev.Path)
		fmt.Printf("  Name: %s\n", dev.Name)
		if len(dev.Axes) > 0 {
			fmt.Printf("  Axes: %v\n", dev.Axes)
		}
		fmt.Println()
	}
}

func handleAutostart(mode, configPath string) {
	switch mode {
	case "enable":
		if err := autostart.Enable(configPath); err != nil {
			log.Fatalf("Failed to enable autostart: %v", err)
		}
		unit, _ := autostart.UnitPath()
		fmt.Printf("Wrote %s\nRun: systemctl --user enable --now %s\n", unit, autostart.UnitName)
	case "disable":
		if err := autostart.Disable(); err != nil {
			log.Fatalf("Failed to disable autostart: %v", err)
		}
		fmt.Printf("Removed %s. Run: systemctl --user daemon-reload\n", autostart.UnitName)
	case "status":
		fmt.Printf("autostart enabled: %v\n", autostart.IsEnabled())
	default:
		log.Fatalf("Unknown autostart mode %q (use enable, disable or status)", mode)
	}
}

// run sets everything up, runs the loop and returns the exit code.
// Resources acquired here are released by defers on every return path.
func run(cfgMgr *config.Manager) int {
	if err := cfgMgr.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	cfg := cfgMgr.Get()

	if errs := cfg.Validate(); len(errs) > 0 {
		fmt.Fprintf(os.Stderr, "Error loading config from path: %s\n", cfgMgr.Path())
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "  - %s\n", e)
		}
		return 1
	}

	axis, err := input.ParseAxis(cfg.Axis)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		return 1
	}

	bindings, errs := action.FromConfig(cfg)
	if len(errs) > 0 {
		fmt.Fprintf(os.Stderr, "Error loading config from path: %s\n", cfgMgr.Path())
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "  - %s\n", e)
		}
		return 1
	}

	devicePath, err := input.Find(cfg.Device.Path, cfg.Device.Name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Device error: %v\n", err)
		return 1
	}
	device, err := input.OpenDevice(devicePath, axis)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Device error: %v\n", err)
		return 1
	}
	defer func() {
		if err := device.Close(); err != nil {
			log.Printf("Device: close: %v", err)
		}
	}()

	// Virtual keyboard for key actions
	var emitter input.KeyEmitter
	if codes := bindings.KeyCodes(); len(codes) > 0 {
		injector, err := input.NewInjector(input.DefaultInjectorName, codes)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Device error: %v\n", err)
			return 1
		}
		defer injector.Close()
		emitter = injector
	}

	s := cfg.Settings
	if s.Grab {
		if err := device.Grab(); err != nil {
			fmt.Fprintf(os.Stderr, "Device error: %v\n", err)
			return 1
		}
		log.Printf("Grabbed exclusive access to %s", device.Name())
	}

	log.Printf("Listening to %s on axis %s", device.Name(), axis)
	fmt.Println("Settings: ")
	fmt.Printf("         velocity threshold: %v\n", s.VelocityThreshold)
	fmt.Printf("         acceleration      : %v\n", s.Acceleration)
	fmt.Printf("         cooldown in ms    : %d\n", s.Cooldown)
	fmt.Printf("         key delay in ms   : %d\n", s.KeyDelay)
	fmt.Printf("         history size      : %d\n", s.HistorySize)
	fmt.Printf("         grab              : %v\n", s.Grab)
	for _, g := range []string{config.GestureUp, config.GestureDown} {
		if gc, ok := cfg.Gestures[g]; ok && gc != nil {
			fmt.Printf("         %-18s: bound\n", g)
		}
	}

	loop := engine.New(engine.Options{
		VelocityThreshold: s.VelocityThreshold,
		Acceleration:      s.Acceleration,
		HistorySize:       s.HistorySize,
		Cooldown:          s.CooldownDuration(),
		KeyDelay:          s.KeyDelayDuration(),
		Debug:             *debugMode,
	}, bindings, action.NewExecutor(emitter, s.CommandTimeoutDuration()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Closing the device is what unblocks the pending read
	shutdown := func() {
		cancel()
		device.Close()
	}

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			fmt.Println("\nExiting...")
			shutdown()
		case <-ctx.Done():
		}
	}()

	var loopErr error
	if *withTray {
		loopErr = runWithTray(ctx, loop, device, shutdown)
	} else {
		loopErr = loop.Run(ctx, device)
	}

	st := loop.Stats()
	log.Printf("Engine: %d samples, %d gestures dispatched, %d suppressed by cooldown, %d unbound, %d action errors",
		st.Samples, st.Dispatched, st.Suppressed, st.Unbound, st.ActionErrors)

	if loopErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", loopErr)
		return 1
	}
	return 0
}

// runWithTray runs the loop in the background while the tray owns the
// main thread.
func runWithTray(ctx context.Context, loop *engine.Loop, src input.SampleSource, shutdown func()) error {
	t := tray.New("absmap", "absmap - gesture mapper")

	var pauseID int
	pauseID = t.AddMenuItem("Pause gestures", func() {
		paused := !loop.Paused()
		loop.SetPaused(paused)
		t.SetItemChecked(pauseID, paused)
		log.Printf("Tray: gestures paused: %v", paused)
	})
	t.AddSeparator()
	t.AddMenuItem("Quit", func() {
		shutdown()
	})

	errCh := make(chan error, 1)
	go func() {
		err := loop.Run(ctx, src)
		errCh <- err
		t.Stop()
	}()

	go func() {
		<-ctx.Done()
		t.Stop()
	}()

	t.Run()

	select {
	case err := <-errCh:
		return err
	default:
	}
	// tray exited on its own; stop the loop and wait for it
	shutdown()
	return <-errCh
}
