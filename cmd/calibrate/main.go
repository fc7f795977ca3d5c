// Calibrate is an interactive tool for measuring servo calibration
// triples. It drives one servo at a time to raw physical angles and
// records the min/center/max positions into the calibration file the
// robot loads at startup.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ninjabotics/ninja/internal/config"
	"github.com/ninjabotics/ninja/internal/log"
	"github.com/ninjabotics/ninja/pkg/board"
	"github.com/ninjabotics/ninja/pkg/calibration"
)

type session struct {
	board   board.Board
	table   calibration.Table
	file    string
	channel int
	angle   int
	dirty   bool
}

func main() {
	configPath := flag.String("config", "ninja.yaml", "Path to the YAML config file")
	mock := flag.Bool("mock", false, "Run against an in-memory board (no hardware)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("config load failed", "err", err)
		os.Exit(1)
	}
	log.Init(cfg.LogLevel)

	var b board.Board
	if *mock {
		b = board.NewMock()
	} else {
		b, err = board.Open(cfg.I2CDevice, cfg.BoardAddr)
		if err != nil {
			log.Error("servo board unavailable", "err", err)
			os.Exit(1)
		}
	}
	defer b.Close()

	if err := b.EnablePWM(); err != nil {
		log.Error("enable PWM failed", "err", err)
		os.Exit(1)
	}
	if err := b.SetPWMFrequency(50); err != nil {
		log.Error("set frequency failed", "err", err)
		os.Exit(1)
	}

	table, err := calibration.Load(cfg.CalibrationFile)
	if err != nil {
		log.Error("calibration load failed", "err", err)
		os.Exit(1)
	}

	s := &session{board: b, table: table, file: cfg.CalibrationFile, angle: 90}
	s.drive(s.angle)

	fmt.Println("servo calibration - type 'help' for commands")
	s.printChannel()

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		if !s.handle(strings.Fields(strings.TrimSpace(scanner.Text()))) {
			break
		}
		fmt.Print("> ")
	}

	if s.dirty {
		fmt.Println("warning: unsaved changes discarded")
	}
}

// handle runs one command line; returns false to exit.
func (s *session) handle(args []string) bool {
	if len(args) == 0 {
		return true
	}

	switch args[0] {
	case "help":
		printHelp()

	case "ch":
		if len(args) < 2 {
			fmt.Println("usage: ch <0-3>")
			return true
		}
		ch, err := strconv.Atoi(args[1])
		if err != nil || ch < 0 || ch >= board.NumChannels {
			fmt.Println("channel must be 0..3")
			return true
		}
		s.channel = ch
		s.angle = s.table.Entry(ch).Center
		s.drive(s.angle)
		s.printChannel()

	case "+", "-":
		step := 1
		if len(args) > 1 {
			if n, err := strconv.Atoi(args[1]); err == nil {
				step = n
			}
		}
		if args[0] == "-" {
			step = -step
		}
		s.drive(s.angle + step)

	case "min", "center", "max":
		entry := s.table.Entry(s.channel)
		switch args[0] {
		case "min":
			entry.Min = s.angle
		case "center":
			entry.Center = s.angle
		case "max":
			entry.Max = s.angle
		}
		s.table[s.channel] = entry
		s.dirty = true
		fmt.Printf("channel %d %s = %d\n", s.channel, args[0], s.angle)

	case "show":
		for ch := 0; ch < board.NumChannels; ch++ {
			e := s.table.Entry(ch)
			fmt.Printf("channel %d: min=%d center=%d max=%d\n", ch, e.Min, e.Center, e.Max)
		}

	case "save":
		if err := s.table.Save(s.file); err != nil {
			fmt.Println("save failed:", err)
			return true
		}
		s.dirty = false
		fmt.Println("saved", s.file)

	case "quit", "exit", "q":
		return false

	default:
		// A bare number drives the servo there.
		if angle, err := strconv.Atoi(args[0]); err == nil {
			s.drive(angle)
		} else {
			fmt.Println("unknown command, type 'help'")
		}
	}
	return true
}

// drive moves the selected servo to a raw physical angle, bypassing the
// logical-angle mapping: this tool measures the mapping.
func (s *session) drive(angle int) {
	if angle < 0 {
		angle = 0
	}
	if angle > 180 {
		angle = 180
	}
	s.angle = angle

	duty := calibration.AngleToDuty(angle)
	if err := s.board.SetPWMDuty(s.channel, duty); err != nil {
		fmt.Println("servo write failed:", err)
		return
	}
	fmt.Printf("channel %d at %d\n", s.channel, angle)
}

func (s *session) printChannel() {
	e := s.table.Entry(s.channel)
	fmt.Printf("channel %d selected (min=%d center=%d max=%d)\n", s.channel, e.Min, e.Center, e.Max)
}

func printHelp() {
	fmt.Println(`commands:
  ch <n>      select channel 0..3
  <angle>     drive the servo to a physical angle (0..180)
  + / - [n]   nudge the angle by n degrees (default 1)
  min         record the current angle as this channel's minimum
  center      record the current angle as this channel's center
  max         record the current angle as this channel's maximum
  show        print the calibration table
  save        write the calibration file
  quit        exit`)
}
