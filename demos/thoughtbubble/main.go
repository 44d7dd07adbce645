// thoughtbubble walks a character around with a springy thought bubble over
// its head. Space sends the bubble to the top of the screen, where it holds,
// bursts, and fires its ideas at the targets on screen.
//
//	go run ./demos/thoughtbubble --ideas 16 --seed 42
//
// Keys: Left/Right walk, Space starts the flight, S shrinks the bubble,
// R restarts.
package main

import (
	"fmt"
	"image/color"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/phanxgames/bubble"
)

const (
	screenW    = 1280
	screenH    = 720
	worldW     = 2400
	groundY    = 620
	walkSpeed  = 4.0
	heroRadius = 18
	targetRing = 22
)

var (
	cfgFile    string
	scriptFile string
)

var rootCmd = &cobra.Command{
	Use:   "thoughtbubble",
	Short: "Thought bubble and idea swarm demo.",
	RunE: func(cmd *cobra.Command, args []string) error {
		v := viper.New()
		v.SetEnvPrefix("BUBBLE")
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
		v.AutomaticEnv()
		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return err
		}

		logger, err := newLogger(v.GetBool("debug"))
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck

		cfg, err := loadConfig(v, cfgFile)
		if err != nil {
			return err
		}

		g, err := newGame(cfg, v.GetInt("ideas"), v.GetInt("targets"), v.GetUint64("seed"), logger)
		if err != nil {
			return err
		}
		g.stage.SetDebugMode(v.GetBool("debug"))
		if scriptFile != "" {
			data, err := os.ReadFile(scriptFile)
			if err != nil {
				return fmt.Errorf("read script: %w", err)
			}
			script, err := bubble.LoadScript(data)
			if err != nil {
				return err
			}
			g.stage.SetScript(script)
		}

		ebiten.SetWindowSize(screenW, screenH)
		ebiten.SetWindowTitle("Bubble \u2014 Thought Bubble")
		return ebiten.RunGame(g)
	},
}

func init() {
	rootCmd.Flags().StringVarP(&cfgFile, "config", "c", "", "bubble config file (json, yaml, or toml)")
	rootCmd.Flags().StringVar(&scriptFile, "script", "", "scenario script to play (json)")
	rootCmd.Flags().Int("ideas", 12, "number of ideas in the bubble")
	rootCmd.Flags().Int("targets", 3, "number of on-screen targets")
	rootCmd.Flags().Uint64("seed", 0, "random seed (0 picks one)")
	rootCmd.Flags().Bool("debug", false, "log per-frame stats")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	zc := zap.NewDevelopmentConfig()
	if !debug {
		zc.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return zc.Build()
}

// loadConfig overlays the config file, if any, on the stock tuning.
func loadConfig(v *viper.Viper, path string) (bubble.Config, error) {
	cfg := bubble.DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	return cfg, cfg.Validate()
}

// hero is the walking character. It stands on the ground line.
type hero struct {
	pos bubble.Vec2
}

func (h *hero) GroundPosition() bubble.Vec2 { return h.pos }

// Position is what the camera follows: a little above the feet.
func (h *hero) Position() bubble.Vec2 { return h.pos.Add(bubble.Vec2{Y: -200}) }

type ideaSprite struct {
	pos     bubble.Vec2
	scale   float64
	visible bool
	color   color.RGBA
}

type target struct {
	bubble.Target
	hit bool
}

type game struct {
	cfg     bubble.Config
	ideaN   int
	targetN int
	rng     *rand.Rand
	log     *zap.Logger

	stage   *bubble.Stage
	cam     *bubble.Camera
	hero    *hero
	ideas   []ideaSprite
	targets []target

	bubbleVisible bool
	fired         bool
}

func newGame(cfg bubble.Config, ideas, targets int, seed uint64, logger *zap.Logger) (*game, error) {
	if seed == 0 {
		seed = rand.Uint64()
	}
	g := &game{
		cfg:     cfg,
		ideaN:   ideas,
		targetN: targets,
		rng:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		log:     logger,
	}
	logger.Info("starting", zap.Int("ideas", ideas), zap.Uint64("seed", seed))
	return g, g.reset()
}

func (g *game) reset() error {
	g.hero = &hero{pos: bubble.Vec2{X: worldW / 2, Y: groundY}}
	g.cam = bubble.NewCamera(bubble.Rect{Width: screenW, Height: screenH})
	g.cam.Position = g.hero.Position()
	g.cam.SetBounds(bubble.Rect{Width: worldW, Height: screenH})
	g.cam.Follow(g.hero, bubble.Vec2{}, 0.08)

	g.ideas = g.ideas[:0]
	g.targets = g.targets[:0]
	g.bubbleVisible = true
	g.fired = false

	stage, err := bubble.NewStage(g.cfg, g.hero, g.cam, g, g.rng)
	if err != nil {
		return err
	}
	stage.SetLogger(g.log)
	stage.SetEventSink(bubble.EventSinkFunc(g.onEvent))
	stage.AddIdeas(g.ideaN)
	g.stage = stage
	return nil
}

func (g *game) onEvent(e bubble.Event) {
	switch e.Type {
	case bubble.EventIdeaArrived:
		if !e.Targeted {
			return
		}
		for i := range g.targets {
			if g.targets[i].ID == e.Target {
				g.targets[i].hit = true
			}
		}
	case bubble.EventExplodeRequested:
		g.log.Info("pop", zap.Float64("x", e.Position.X), zap.Float64("y", e.Position.Y))
	}
}

// fire freezes the camera and hands the swarm a fresh set of targets.
func (g *game) fire() {
	g.fired = true
	g.cam.Unfollow()

	targets := make([]bubble.Target, g.targetN)
	for i := range targets {
		targets[i] = bubble.Target{
			ID: bubble.TargetID(uuid.NewString()),
			Position: bubble.Vec2{
				X: 80 + g.rng.Float64()*(screenW-160),
				Y: 360 + g.rng.Float64()*(screenH-440),
			},
		}
		g.targets = append(g.targets, target{Target: targets[i]})
	}
	g.stage.SetTargets(targets)
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		return g.reset()
	}

	if g.stage.State() == bubble.GameStatePlaying {
		if ebiten.IsKeyPressed(ebiten.KeyLeft) {
			g.hero.pos.X -= walkSpeed
		}
		if ebiten.IsKeyPressed(ebiten.KeyRight) {
			g.hero.pos.X += walkSpeed
		}
		g.hero.pos.X = max(heroRadius, min(worldW-heroRadius, g.hero.pos.X))

		if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
			g.stage.SetState(bubble.GameStateBubbleFlight)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.stage.Bubble().Shrink(0.1)
	}

	g.stage.Update(1.0 / float64(ebiten.TPS()))

	if g.stage.State() == bubble.GameStateExploding && !g.fired {
		g.fire()
	}
	if g.stage.State() == bubble.GameStateExploding && g.stage.AllArrived() {
		g.stage.SetState(bubble.GameStateEnding)
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 0x14, G: 0x16, B: 0x22, A: 0xff})

	ground := g.cam.WorldToScreen(bubble.Vec2{Y: groundY})
	vector.DrawFilledRect(screen, 0, float32(ground.Y), screenW, float32(screenH-ground.Y), color.RGBA{R: 0x2a, G: 0x30, B: 0x3e, A: 0xff}, false)

	feet := g.cam.WorldToScreen(g.hero.pos)
	vector.DrawFilledCircle(screen, float32(feet.X), float32(feet.Y-heroRadius), heroRadius, color.RGBA{R: 0xf2, G: 0xa6, B: 0x5a, A: 0xff}, true)

	zoom := g.cam.Zoom
	if g.bubbleVisible {
		b := g.stage.Bubble()
		for _, c := range b.Circles() {
			p := g.cam.WorldToScreen(b.Center().Add(c.Center))
			vector.DrawFilledCircle(screen, float32(p.X), float32(p.Y), float32(c.Radius*zoom), c.Color.RGBA(), true)
		}
	}

	for _, t := range g.targets {
		clr := color.RGBA{R: 0xe0, G: 0x50, B: 0x50, A: 0xff}
		if t.hit {
			clr = color.RGBA{R: 0x50, G: 0xe0, B: 0x70, A: 0xff}
		}
		vector.StrokeCircle(screen, float32(t.Position.X), float32(t.Position.Y), targetRing, 3, clr, true)
	}

	ideaR := g.cfg.Bubble.IdeaRadius
	for _, s := range g.ideas {
		if !s.visible {
			continue
		}
		p := g.cam.WorldToScreen(s.pos)
		vector.DrawFilledCircle(screen, float32(p.X), float32(p.Y), float32(ideaR*s.scale*zoom), s.color, true)
	}

	b := g.stage.Bubble()
	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"state: %s  phase: %s  k: %.0f\nFPS: %.0f  TPS: %.0f\n[Left/Right] walk  [Space] fly  [S] shrink  [R] restart",
		g.stage.State(), b.Phase(), b.SpringConstant(), ebiten.ActualFPS(), ebiten.ActualTPS()))
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenW, screenH
}

// --- bubble.Renderer ---

func (g *game) slot(i int) *ideaSprite {
	for len(g.ideas) <= i {
		g.ideas = append(g.ideas, ideaSprite{scale: 1})
	}
	return &g.ideas[i]
}

func (g *game) SetIdeaPosition(i int, pos bubble.Vec2, scale float64) {
	s := g.slot(i)
	s.pos = pos
	s.scale = scale
}

func (g *game) SetIdeaVisible(i int, visible bool) { g.slot(i).visible = visible }
func (g *game) SetIdeaColor(i int, c bubble.Color) { g.slot(i).color = c.RGBA() }
func (g *game) SetBubbleVisible(visible bool)      { g.bubbleVisible = visible }
