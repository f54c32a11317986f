// Command etherrelay boots the thread lifecycle runtime described in
// SPEC_FULL.md: MAIN, LOGGER, WATCHDOG, and a SERVER or CLIENT thread,
// wired from an INI config file.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/relaymesh/etherrelay/internal/config"
	"github.com/relaymesh/etherrelay/internal/connector"
	"github.com/relaymesh/etherrelay/internal/fileseed"
	"github.com/relaymesh/etherrelay/internal/listener"
	"github.com/relaymesh/etherrelay/internal/logging"
	"github.com/relaymesh/etherrelay/internal/registry"
	"github.com/relaymesh/etherrelay/internal/supervisor"
	"github.com/relaymesh/etherrelay/internal/watchdog"
)

const version = "0.1.0"

// Exit codes, per spec.md §6.
const (
	exitSuccess       = 0
	exitGenericFail   = 1
	exitConfigError   = 2
	exitLoggerInitErr = 3
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath = flag.String("config", "etherrelay.ini", "path to the INI configuration file")
		mode       = flag.String("mode", "server", "\"server\" or \"client\"")
		verbose    = flag.Bool("v", false, "verbose (debug-level) logging")
		showVer    = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVer {
		fmt.Printf("etherrelay %s\n", version)
		return exitSuccess
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		return exitConfigError
	}

	logCfg := logging.DefaultConfig()
	if *verbose {
		logCfg.Level = logging.LevelDebug
	}
	log := logging.New(logCfg)

	reg := registry.New()
	sup := supervisor.New(reg, log.For("SUPERVISOR"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// MAIN represents this goroutine itself: it never runs through the
	// supervisor's create_thread/run_wrapper sequence (there is nothing to
	// spawn), so it is registered and moved straight to Running here.
	mainCfg := supervisor.NewConfig(supervisor.MainLabel, supervisor.BaseHooks{})
	if err := reg.Register(mainCfg, false); err != nil {
		fmt.Fprintf(os.Stderr, "startup error: %v\n", err)
		return exitGenericFail
	}
	if err := reg.UpdateState(supervisor.MainLabel, registry.StateRunning); err != nil {
		fmt.Fprintf(os.Stderr, "startup error: %v\n", err)
		return exitGenericFail
	}

	loggerCfg := supervisor.NewConfig(supervisor.LoggerLabel, &logging.Worker{Log: log})
	loggerCfg.Essential = true
	if err := sup.CreateThread(ctx, loggerCfg); err != nil {
		fmt.Fprintf(os.Stderr, "logger initialisation error: %v\n", err)
		return exitLoggerInitErr
	}
	time.Sleep(20 * time.Millisecond)
	if state := reg.GetState(supervisor.LoggerLabel); state == registry.StateFailed || state == registry.StateUnknown {
		fmt.Fprintln(os.Stderr, "logger initialisation error: logger exited immediately")
		return exitLoggerInitErr
	}

	impulse := watchdog.NewImpulse()
	watchdogCfg := supervisor.NewConfig("WATCHDOG", &watchdog.Hooks{
		Reg: reg, Log: log.For("WATCHDOG"), Impulse: impulse,
	})
	watchdogCfg.Essential = true

	sendFile := cfg.SendFile()

	var networkCfg *supervisor.Config
	switch *mode {
	case "server":
		srv := cfg.Server()
		networkCfg = supervisor.NewConfig("SERVER", &listener.Hooks{
			Sup: sup,
			Log: log.For("SERVER"),
			Cfg: listener.Config{
				Port:              srv.Port,
				Protocol:          srv.Protocol,
				BackoffMaxSeconds: srv.BackoffMaxSeconds,
				RetryLimit:        srv.RetryLimit,
				ThreadWaitMs:      srv.ThreadWaitMs,
				RelayEnabled:      srv.EnableRelay,
				PeerQueueLabel:    "CLIENT.RECEIVE",
				SeedFromFile:      sendFile != "",
			},
		})
		networkCfg.Essential = true
	case "client":
		cl := cfg.Client()
		networkCfg = supervisor.NewConfig("CLIENT", &connector.Hooks{
			Sup: sup,
			Log: log.For("CLIENT"),
			Cfg: connector.Config{
				Hostname:         cl.Hostname,
				Port:             cl.Port,
				BackoffInitialMs: cl.BackoffInitialMs,
				BackoffMaxMs:     cl.BackoffMaxMs,
				RetryLimit:       cl.RetryLimit,
				PeerQueueLabel:   "SERVER.CONN1.RECEIVE",
				RelayEnabled:     cl.EnableRelay,
				SeedFromFile:     sendFile != "",
			},
		})
		networkCfg.Essential = true
	default:
		fmt.Fprintf(os.Stderr, "configuration error: unknown mode %q\n", *mode)
		return exitConfigError
	}

	cfgs := []*supervisor.Config{watchdogCfg, networkCfg}
	if sendFile != "" {
		seedCfg := supervisor.NewConfig(fileseed.DefaultLabel, fileseed.New(reg, sendFile))
		cfgs = append(cfgs, seedCfg)
	}

	if err := sup.StartThreads(ctx, cfgs, cfg.SuppressThreads()); err != nil {
		log.Errorf("MAIN", "startup failed: %v", err)
		return exitGenericFail
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go watchdog.RunMainLoop(ctx, sup, log.For("MAIN"), impulse, "WATCHDOG")

	<-sigCh
	log.Infof("MAIN", "shutdown signal received")
	cancel()

	_ = reg.UpdateState(supervisor.MainLabel, registry.StateTerminated)
	_ = reg.Deregister(supervisor.MainLabel)

	done := make(chan struct{})
	go func() {
		_ = reg.WaitOthers(supervisor.LoggerLabel, 5000)
		_ = reg.WaitForThread(supervisor.LoggerLabel, 5000)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(6 * time.Second):
		log.Warnf("MAIN", "shutdown timed out waiting for threads to terminate")
	}

	return exitSuccess
}
