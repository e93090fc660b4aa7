package main

import (
	"flag"
	"log"
	"runtime"

	"retroport/internal/logger"
	"retroport/internal/util"
	"retroport/pkg/config"
	"retroport/pkg/engine"
	"retroport/pkg/video"
)

func init() {
	// GLFW requires the program to be running on the main thread
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", config.DefaultPath, "Path to configuration file")
	flag.Parse()

	logLevel := "info"
	logFile := ""
	logColors := true

	store := config.NewStore()
	store.RegisterString("Log.Level", &logLevel, 16)
	store.RegisterString("Log.File", &logFile, 256)
	store.RegisterBool("Log.Colors", &logColors)

	session := video.NewSession(video.Options{})
	session.RegisterConfig(store)

	// a broken file still leaves every well-formed key applied
	loadErr := store.Load(*configPath)

	appLog := logger.NewLogger(logLevel)
	if logFile != "" {
		multi, err := logger.NewMultiLogger(logLevel, logFile)
		if err != nil {
			appLog.Warnf("cannot open log file %s: %v", logFile, err)
		} else {
			// escape codes would end up in the file
			multi.EnableColors(false)
			appLog = multi
		}
	}
	if !logColors {
		appLog.EnableColors(false)
	}
	defer appLog.Close()

	if err := store.Err(); err != nil {
		appLog.Warnf("config registration: %v", err)
	}
	if loadErr != nil {
		appLog.Warnf("config %s: %v", *configPath, loadErr)
	} else if !util.FileExists(*configPath) {
		appLog.Infof("no config at %s, using defaults", *configPath)
	}
	appLog.Infof("Starting on %s platform profile...", session.Platform().Name)

	session.SetLogger(appLog)

	game := engine.NewEngine(session, appLog)
	if err := game.Init(); err != nil {
		log.Fatalf("Failed to initialize game engine: %v", err)
	}

	appLog.Info("Engine initialized, starting game loop...")
	game.Run()
	game.Close()

	if err := store.Save(*configPath); err != nil {
		appLog.Errorf("Failed to save configuration: %v", err)
	}
}
