package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/patience/cards"
	"github.com/domino14/patience/config"
	"github.com/domino14/patience/game"
	"github.com/domino14/patience/move"
	"github.com/domino14/patience/solver"
)

var (
	cfgPath     = flag.String("config", "", "path to a config file")
	profilePath = flag.String("profilepath", "", "path for CPU profile")
)

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

type shell struct {
	cfg          *config.Config
	game         *game.Game
	seed         uint32
	lastSolution []move.MoveSpec
}

func (sh *shell) recycleLimit() uint {
	if rl := sh.cfg.GetInt(config.KeyRecycleLimit); rl >= 0 {
		return uint(rl)
	}
	return game.UnlimitedRecycles
}

func (sh *shell) deal(seed uint32) error {
	g, err := game.New(cards.NumberedDeal(seed),
		uint(sh.cfg.GetInt(config.KeyDraw)), sh.recycleLimit())
	if err != nil {
		return err
	}
	sh.game = g
	sh.seed = seed
	sh.lastSolution = nil
	fmt.Printf("deal %d (fingerprint %x)\n%s", seed, g.Fingerprint(), g)
	return nil
}

func (sh *shell) solve() error {
	if sh.game == nil {
		return fmt.Errorf("no deal loaded; use deal <seed>")
	}
	s := solver.New(sh.game)
	s.SetMoveTreeLimit(sh.cfg.GetInt(config.KeyMoveTreeLimit))
	s.SetThreads(sh.cfg.GetInt(config.KeyThreads))
	s.SetStrictChecks(sh.cfg.GetBool(config.KeyDebug))
	res := s.Solve(context.Background())

	fmt.Printf("%v: %d moves, %d positions examined, move tree %d, fringe %d\n",
		res.Code, move.Count(res.Solution), res.ClosedCount,
		res.MoveTreeSize, res.FinalFringeSize)
	sh.lastSolution = res.Solution
	if len(res.Solution) > 0 {
		if !sh.game.ReplaySolution(res.Solution) {
			return fmt.Errorf("solution failed to validate")
		}
		sh.game.Deal()
		fmt.Println("use moves to list the solution")
	}
	return nil
}

func (sh *shell) moves() error {
	if sh.game == nil || len(sh.lastSolution) == 0 {
		return fmt.Errorf("no solution yet; use solve")
	}
	for _, xm := range move.Expand(sh.lastSolution, sh.game.DrawSetting()) {
		flip := ""
		if xm.Flip {
			flip = " flip"
		}
		fmt.Printf("%3d. %s>%s x%d%s\n", xm.MoveNum, xm.From, xm.To, xm.NCards, flip)
	}
	return nil
}

func (sh *shell) setInt(key, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return err
	}
	sh.cfg.Set(key, n)
	return nil
}

func usage(w io.Writer) {
	io.WriteString(w, "commands:\n")
	io.WriteString(w, "deal <seed> - deal game number <seed>\n")
	io.WriteString(w, "draw <n> - set cards drawn per stock draw (takes effect at next deal)\n")
	io.WriteString(w, "recycles <n> - set the waste recycle limit; -1 for unlimited (next deal)\n")
	io.WriteString(w, "limit <n> - set the move-tree size limit\n")
	io.WriteString(w, "threads <n> - set the worker count; 0 for one per hardware thread\n")
	io.WriteString(w, "show - show the current position\n")
	io.WriteString(w, "set <key> <value> - change any other setting (e.g. debug)\n")
	io.WriteString(w, "solve - search the current deal for a minimum-move win\n")
	io.WriteString(w, "moves - list the last solution as elementary moves\n")
	io.WriteString(w, "exit - quit\n")
}

func (sh *shell) execute(line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	switch fields[0] {
	case "deal":
		if len(fields) != 2 {
			return false, fmt.Errorf("need a seed number")
		}
		seed, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil {
			return false, err
		}
		return false, sh.deal(uint32(seed))
	case "draw":
		if len(fields) != 2 {
			return false, fmt.Errorf("usage: draw <n>")
		}
		return false, sh.setInt(config.KeyDraw, fields[1])
	case "recycles":
		if len(fields) != 2 {
			return false, fmt.Errorf("usage: recycles <n>")
		}
		return false, sh.setInt(config.KeyRecycleLimit, fields[1])
	case "limit":
		if len(fields) != 2 {
			return false, fmt.Errorf("usage: limit <n>")
		}
		return false, sh.setInt(config.KeyMoveTreeLimit, fields[1])
	case "threads":
		if len(fields) != 2 {
			return false, fmt.Errorf("usage: threads <n>")
		}
		return false, sh.setInt(config.KeyThreads, fields[1])
	case "moves":
		return false, sh.moves()
	case "show":
		if sh.game == nil {
			return false, fmt.Errorf("no deal loaded")
		}
		fmt.Print(sh.game)
		return false, nil
	case "set":
		if len(fields) != 3 {
			return false, fmt.Errorf("usage: set <key> <value>")
		}
		sh.cfg.Set(fields[1], fields[2])
		return false, nil
	case "solve":
		return false, sh.solve()
	case "help":
		usage(os.Stdout)
		return false, nil
	case "exit", "quit":
		return true, nil
	}
	return false, fmt.Errorf("unknown command %q; try help", fields[0])
}

func main() {
	flag.Parse()

	cfg, err := config.New(*cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("loading config")
	}

	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	var logger zerolog.Logger
	if cfg.GetBool(config.KeyDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		logger = zerolog.New(output).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		logger = zerolog.New(output).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	}
	log.Logger = logger
	log.Info().Interface("settings", cfg.Settings()).Msg("loaded-config")

	if *profilePath != "" {
		f, err := os.Create(*profilePath)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create CPU profile")
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	l, err := readline.NewEx(&readline.Config{
		Prompt:              "patience> ",
		HistoryFile:         "/tmp/readline-patience.tmp",
		EOFPrompt:           "exit",
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	defer l.Close()

	sh := &shell{cfg: cfg}
	for {
		line, err := l.Readline()
		if err == readline.ErrInterrupt {
			continue
		} else if err == io.EOF {
			break
		}
		quit, err := sh.execute(strings.TrimSpace(line))
		if err != nil {
			fmt.Println("error:", err)
		}
		if quit {
			break
		}
	}
}
