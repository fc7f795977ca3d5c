// Ninja is a small legged robot with wheel feet. This binary assembles
// the full stack: I2C servo board, gait controller, ultrasonic obstacle
// monitor, Gemini command interpreter, and the web dashboard.
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/ninjabotics/ninja/internal/config"
	"github.com/ninjabotics/ninja/internal/log"
	"github.com/ninjabotics/ninja/pkg/board"
	"github.com/ninjabotics/ninja/pkg/brain"
	"github.com/ninjabotics/ninja/pkg/calibration"
	"github.com/ninjabotics/ninja/pkg/gemini"
	"github.com/ninjabotics/ninja/pkg/movement"
	"github.com/ninjabotics/ninja/pkg/sensor"
	"github.com/ninjabotics/ninja/pkg/web"
)

func main() {
	configPath := flag.String("config", "ninja.yaml", "Path to the YAML config file")
	port := flag.String("port", "", "Dashboard port (overrides config)")
	mock := flag.Bool("mock", false, "Run against an in-memory board (no hardware)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("config load failed", "err", err)
		os.Exit(1)
	}
	if *port != "" {
		cfg.WebPort = *port
	}
	log.Init(cfg.LogLevel)

	b, err := openBoard(cfg, *mock)
	if err != nil {
		log.Error("servo board unavailable", "err", err)
		os.Exit(1)
	}

	cal, err := calibration.Load(cfg.CalibrationFile)
	if err != nil {
		log.Error("calibration load failed", "file", cfg.CalibrationFile, "err", err)
		os.Exit(1)
	}

	move, err := movement.New(b, cal, movement.Channels{
		LeftLeg:   cfg.Servos.LeftLeg,
		RightLeg:  cfg.Servos.RightLeg,
		LeftFoot:  cfg.Servos.LeftFoot,
		RightFoot: cfg.Servos.RightFoot,
	})
	if err != nil {
		log.Error("movement controller init failed", "err", err)
		os.Exit(1)
	}
	defer move.Close()

	opts := peripheralOptions(cfg, *mock)
	robot := brain.New(move, opts...)

	server := web.NewServer(cfg.WebPort, robot)
	server.StartAsync()
	server.AddLog("info", "ninja is up")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info("shutting down")
	if err := server.Shutdown(); err != nil {
		log.Warn("web shutdown failed", "err", err)
	}
	robot.Shutdown()
}

func openBoard(cfg config.Config, mock bool) (board.Board, error) {
	if mock {
		log.Info("using mock servo board")
		return board.NewMock(), nil
	}
	return board.Open(cfg.I2CDevice, cfg.BoardAddr)
}

// peripheralOptions probes the optional hardware. A missing sensor or
// API key degrades the robot, it does not stop it.
func peripheralOptions(cfg config.Config, mock bool) []brain.Option {
	var opts []brain.Option
	if mock {
		return opts
	}

	ranger, err := sensor.NewUltrasonic(cfg.TrigPin, cfg.EchoPin)
	if err != nil {
		log.Warn("ultrasonic sensor unavailable, obstacle avoidance off", "err", err)
	} else {
		opts = append(opts, brain.WithObstacleMonitor(
			sensor.NewObstacleMonitor(ranger, cfg.ObstacleThresholdCM)))
	}

	buzzer, err := sensor.NewBuzzer(cfg.BuzzerPin)
	if err != nil {
		log.Warn("buzzer unavailable", "err", err)
	} else {
		opts = append(opts, brain.WithBeeper(buzzer))
	}

	if cfg.GeminiAPIKey != "" {
		interp, err := gemini.New(cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Warn("gemini interpreter unavailable", "err", err)
		} else {
			opts = append(opts, brain.WithInterpreter(interp))
		}
	} else {
		log.Info("no GEMINI_API_KEY, free-text commands disabled")
	}
	return opts
}
