// Command fantasy is the text-mode league simulator: create or load a
// league, play it one match day at a time, and carry it across seasons
// with promotion and relegation.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fpessolano/fantasyfootball/internal/domain/league"
	"github.com/fpessolano/fantasyfootball/internal/domain/team"
	"github.com/fpessolano/fantasyfootball/internal/events"
	"github.com/fpessolano/fantasyfootball/internal/game"
	"github.com/fpessolano/fantasyfootball/internal/projections"
	boltstore "github.com/fpessolano/fantasyfootball/internal/storage/bolt"
	"github.com/fpessolano/fantasyfootball/internal/storage/postgres"
)

type config struct {
	SavePath    string
	DatabaseURL string
	Seed        int64
}

func loadConfig() config {
	cfg := config{
		SavePath:    os.Getenv("FANTASY_SAVE_PATH"),
		DatabaseURL: os.Getenv("FANTASY_DATABASE_URL"),
		Seed:        time.Now().UnixNano(),
	}
	if cfg.SavePath == "" {
		cfg.SavePath = "fantasyfootball.db"
	}
	if seed := os.Getenv("FANTASY_SEED"); seed != "" {
		if v, err := strconv.ParseInt(seed, 10, 64); err == nil {
			cfg.Seed = v
		}
	}
	return cfg
}

func main() {
	cfg := loadConfig()
	ctx := context.Background()

	var store game.SaveStore
	if cfg.DatabaseURL != "" {
		pg, err := postgres.NewStore(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("connect postgres: %v", err)
		}
		defer pg.Close()
		store = pg
	} else {
		bs, err := boltstore.Open(cfg.SavePath)
		if err != nil {
			log.Fatalf("open save file: %v", err)
		}
		defer bs.Close()
		store = bs
	}

	g := game.New(game.Dependencies{
		Store: store,
		Rand:  rand.New(rand.NewSource(cfg.Seed)),
	})

	g.Bus().Subscribe(events.MatchDayPlayed, func(_ context.Context, e events.Event) error {
		if res, ok := e.Payload.(league.MatchDayResult); ok {
			printMatchDay(res)
		}
		return nil
	})

	ui := &console{in: bufio.NewScanner(os.Stdin)}
	if err := ui.run(ctx, g); err != nil {
		log.Fatalf("session ended: %v", err)
	}
}

type console struct {
	in *bufio.Scanner
}

func (c *console) run(ctx context.Context, g *game.Game) error {
	fmt.Println("Fantasy Football League")
	for {
		fmt.Println("\n1) new game  2) load game  3) quit")
		switch c.prompt("> ") {
		case "1":
			if err := c.newGame(ctx, g); err != nil {
				fmt.Println(err)
				continue
			}
			c.playLoop(ctx, g)
		case "2":
			if err := c.loadGame(ctx, g); err != nil {
				fmt.Println(err)
				continue
			}
			c.playLoop(ctx, g)
		case "3", "q", "":
			return nil
		}
	}
}

func (c *console) newGame(ctx context.Context, g *game.Game) error {
	name := c.prompt("league name: ")
	if name == "" {
		name = "Fantasy League"
	}

	fmt.Println("teams: 1) existing clubs  2) random  3) custom")
	mode := c.prompt("> ")
	n := c.promptInt("number of teams: ", 8)

	var (
		teams []*team.Team
		err   error
	)
	switch mode {
	case "2":
		teams, err = game.RandomTeams(n, rand.New(rand.NewSource(time.Now().UnixNano())))
	case "3":
		entries := make([]game.CustomTeam, 0, n)
		for i := 0; i < n; i++ {
			entries = append(entries, game.CustomTeam{
				Name:  c.prompt(fmt.Sprintf("team %d name: ", i+1)),
				Stars: c.promptFloat(fmt.Sprintf("team %d stars (0.5-5): ", i+1), 2.5),
			})
		}
		teams, err = game.CustomTeams(entries)
	default:
		teams, err = game.ExistingTeams(n, rand.New(rand.NewSource(time.Now().UnixNano())))
	}
	if err != nil {
		return err
	}

	zone := c.promptInt("relegation zone size: ", 0)
	userTeam := ""
	fmt.Println("available teams:")
	for _, t := range teams {
		fmt.Printf("  %-20s %.1f stars\n", t.Name, t.Stars)
	}
	if pick := c.prompt("your team (blank to spectate): "); pick != "" {
		userTeam = pick
	}

	return g.NewLeague(ctx, game.NewLeagueConfig{
		Name:           name,
		Teams:          teams,
		RelegationZone: zone,
		UserTeam:       userTeam,
	})
}

func (c *console) loadGame(ctx context.Context, g *game.Game) error {
	names, err := g.Saves(ctx)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return fmt.Errorf("no saved games")
	}
	fmt.Println("saved games:")
	for _, n := range names {
		fmt.Printf("  %s\n", n)
	}
	return g.Load(ctx, c.prompt("load which: "))
}

func (c *console) playLoop(ctx context.Context, g *game.Game) {
	for {
		lg := g.League()
		fmt.Printf("\n%s - season %d, week %d/%d\n", lg.Name, lg.Season, lg.Week, lg.Calendar.Weeks())
		fmt.Println("1) play week  2) finish season  3) standings  4) title odds  5) save  6) save and quit")
		switch c.prompt("> ") {
		case "1":
			if _, err := g.PlayWeek(ctx); err != nil {
				fmt.Println(err)
			}
		case "2":
			if _, err := g.FinishSeason(ctx); err != nil {
				fmt.Println(err)
			}
		case "3":
			printStandings(lg)
		case "4":
			printProjections(g)
		case "5":
			c.save(ctx, g)
		case "6", "q":
			c.save(ctx, g)
			return
		}

		if g.League().Complete() {
			printStandings(g.League())
			if !c.rollover(ctx, g) {
				return
			}
		}
	}
}

func (c *console) save(ctx context.Context, g *game.Game) {
	name := c.prompt("save name: ")
	if name == "" {
		name = g.League().Name
	}
	if !g.Save(ctx, name) {
		fmt.Println("could not save the game")
		return
	}
	fmt.Printf("saved as %q\n", name)
}

// rollover handles the end of a season; returns false when the user quits.
func (c *console) rollover(ctx context.Context, g *game.Game) bool {
	lg := g.League()
	fmt.Printf("\nseason %d complete\n", lg.Season)
	if c.prompt("start next season? (y/n) ") != "y" {
		c.save(ctx, g)
		return false
	}

	var promoted []*team.Team
	if lg.RelegationZone > 0 {
		fmt.Printf("%d teams are relegated; name their replacements (blank keeps the relegated team)\n", lg.RelegationZone)
		for i := 0; i < lg.RelegationZone; i++ {
			name := c.prompt(fmt.Sprintf("promoted team %d name: ", i+1))
			if name == "" {
				continue
			}
			stars := c.promptFloat(fmt.Sprintf("promoted team %d stars (0.5-5): ", i+1), 1.5)
			t := team.New(name, 1500)
			t.SetRatingFromStars(stars, true)
			promoted = append(promoted, t)
		}
	}

	if err := g.StartNewSeason(ctx, promoted); err != nil {
		fmt.Println(err)
		return false
	}
	return true
}

func printMatchDay(res league.MatchDayResult) {
	fmt.Printf("\nweek %d results:\n", res.Week)
	for _, f := range res.Fixtures {
		fmt.Printf("  %-20s %d - %d %s\n", f.Home, f.Score.Home, f.Score.Away, f.Away)
	}
	for _, name := range res.Resting {
		fmt.Printf("  %-20s rests\n", name)
	}
	switch res.UserOutcome {
	case league.OutcomeWin:
		fmt.Println("  your team won!")
	case league.OutcomeDraw:
		fmt.Println("  your team drew")
	case league.OutcomeLoss:
		fmt.Println("  your team lost")
	}
}

func printProjections(g *game.Game) {
	preds, err := projections.NewService(2000).Project(g.League(), rand.New(rand.NewSource(time.Now().UnixNano())))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("\n%-20s %7s %7s %7s\n", "Team", "Title%", "ExpPts", "+/-")
	for _, p := range preds {
		fmt.Printf("%-20s %6.1f%% %7.1f %7.1f\n", p.Team, p.TitleOdds, p.MeanPoints, p.StdDevPoints)
	}
}

func printStandings(lg *league.League) {
	fmt.Printf("\n%-4s %-20s %3s %3s %3s %3s %4s %4s %4s %4s %5s\n",
		"Pos", "Team", "P", "W", "D", "L", "GF", "GA", "GD", "Pts", "Stars")
	for _, row := range lg.Standings() {
		fmt.Printf("%-4d %-20s %3d %3d %3d %3d %4d %4d %4d %4d %5.1f\n",
			row.Position, row.Name, row.Played, row.Wins, row.Draws, row.Losses,
			row.GoalsFor, row.GoalsAgainst, row.GoalDiff, row.Points, row.Stars)
	}
}

func (c *console) prompt(label string) string {
	fmt.Print(label)
	if !c.in.Scan() {
		return ""
	}
	return strings.TrimSpace(c.in.Text())
}

func (c *console) promptInt(label string, fallback int) int {
	v, err := strconv.Atoi(c.prompt(label))
	if err != nil {
		return fallback
	}
	return v
}

func (c *console) promptFloat(label string, fallback float64) float64 {
	v, err := strconv.ParseFloat(c.prompt(label), 64)
	if err != nil {
		return fallback
	}
	return v
}
