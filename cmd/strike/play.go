package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/star-strike/internal/core"
	"github.com/vovakirdan/star-strike/internal/engine"
	"github.com/vovakirdan/star-strike/internal/platform/tui"
	"github.com/vovakirdan/star-strike/internal/platform/web"
)

var (
	flagMap        string
	flagConfig     string
	flagDifficulty string
	flagSpectate   string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Pick a map and play",
	Long: `Start the game. Without --map a map picker opens first; after a run
you return to it with B.

Controls:
  WASD/Arrows  - Move (hold)
  Space        - Fire (hold)
  E/X          - Charge shot when the meter is full
  1/2/3        - Pick an upgrade between rounds
  P            - Pause
  B/Esc        - Back to maps (paused or game over)
  R            - Restart (after game over)
  Ctrl+S       - Save a screenshot
  Q/Ctrl+C     - Quit

Difficulty options:
  easy   - More lives, slower spawns
  normal - Configured values
  hard   - Fewer lives, faster spawns

Examples:
  strike play
  strike play --map nebula
  strike play --difficulty hard
  strike play --config ./my-strike.yaml
  strike play --spectate :8080`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagMap, "map", "", "Map to play (skips the map picker)")
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	playCmd.Flags().StringVar(&flagSpectate, "spectate", "", "Serve a WebSocket spectator feed on this address")
}

func runPlay(_ *cobra.Command, _ []string) {
	logger, closeLog := newLogger("strike", io.Discard)
	defer closeLog()

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	cfg, preset := loadGameConfig(flagConfig, flagDifficulty, store)
	eng := newEngine(cfg, store, logger)

	runtime := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		runtime.ScreenW = w
		runtime.ScreenH = h
	}
	if flagFPS > 0 {
		runtime.TickRate = flagFPS
	}
	runtime.Seed = flagSeed

	opts := tui.GameOptions{
		Bell:   storedSetting(store, engine.SettingBell) == "on",
		Logger: logger,
	}
	if flagSpectate != "" {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		ch := startSpectatorFeed(ctx, flagSpectate, logger).Channel("local")
		defer ch.Close()
		opts.Publisher = ch
	}

	mapID := flagMap
	lastMap := storedSetting(store, engine.SettingLastMap)
	for {
		if mapID == "" {
			menuResult, err := tui.RunMenu(eng, runtime, string(preset), lastMap)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return
			}
			runtime = menuResult.Config

			if menuResult.Quit {
				return
			}
			if menuResult.WantsScoreboard {
				goBack, sbErr := tui.RunScoreboard(store, cfg.Maps, flagFPS, runtime.ScreenW, runtime.ScreenH)
				if sbErr != nil {
					fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
				}
				if goBack {
					continue // Back to menu
				}
				return
			}
			mapID = menuResult.MapID
		}

		opts.Runtime = runtime
		backToMenu, err := tui.Run(eng, mapID, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
			if flagMap != "" {
				// A bad --map should not drop into the picker.
				return
			}
		}
		if err == nil && !backToMenu {
			return
		}
		lastMap, mapID = mapID, ""
	}
}

// startSpectatorFeed serves the WebSocket feed in the background until ctx ends.
func startSpectatorFeed(ctx context.Context, addr string, logger *log.Logger) *web.Hub {
	hub := web.NewHub(web.WithLogger(logger.WithPrefix("spectate")))
	go func() {
		if err := hub.ListenAndServe(ctx, addr); err != nil {
			logger.Error("spectator feed stopped", "address", addr, "err", err)
		}
	}()
	return hub
}
