package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/meltforce/gymcoach/internal/config"
	"github.com/meltforce/gymcoach/internal/i18n"
	"github.com/meltforce/gymcoach/internal/models"
	"github.com/meltforce/gymcoach/internal/playback"
	"github.com/meltforce/gymcoach/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	planID := flag.String("plan", "", "ID of the plan to play")
	list := flag.Bool("list", false, "list stored plans and exit")
	lang := flag.String("lang", "en", "display language (en or ar)")
	seconds := flag.Int("seconds", 0, "seconds per exercise (default from config)")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("gymcoach-play", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	if err := config.LoadEnvFile(".env"); err != nil {
		log.Error("failed to load .env", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	kv, err := storage.Open(ctx, cfg.Storage.Driver, cfg.Storage.SQLite.Path, cfg.Storage.Database.DSN())
	if err != nil {
		log.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	plans := storage.NewPlanStore(kv)
	defer plans.Close()

	loc := i18n.Parse(*lang)

	if *list {
		all, err := plans.List(ctx)
		if err != nil {
			log.Error("failed to list plans", "error", err)
			os.Exit(1)
		}
		printPlans(os.Stdout, all, loc)
		return
	}

	if *planID == "" {
		fmt.Fprintf(os.Stderr, "Usage: gymcoach-play -plan <ID> [-lang ar] [-seconds N]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	plan, err := plans.Get(ctx, *planID)
	if err != nil {
		if msg, ok := notFoundMessage(err, *planID, loc); ok {
			fmt.Fprintln(os.Stderr, msg)
		} else {
			log.Error("failed to load plan", "id", *planID, "error", err)
		}
		os.Exit(1)
	}

	duration := cfg.Playback.ExerciseSeconds
	if *seconds > 0 {
		duration = *seconds
	}
	session, err := playback.NewSession(plan, duration)
	if err != nil {
		log.Error("failed to create session", "error", err)
		os.Exit(1)
	}

	driver := playback.NewDriver(session, time.Second)
	defer driver.Close()
	updates := driver.Subscribe()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	p := &player{out: os.Stdout, loc: loc, plan: plan, last: -1}
	p.header()
	p.render(driver.Start())

	for {
		select {
		case <-quit:
			fmt.Fprintln(os.Stdout)
			p.render(driver.Pause())
			fmt.Fprintln(os.Stdout)
			return
		case st, ok := <-updates:
			if !ok {
				return
			}
			p.render(st)
			if st.Complete {
				fmt.Fprintf(os.Stdout, "\n%s\n", i18n.Resolve("Complete", loc))
				return
			}
		}
	}
}

// player writes a session to a terminal, one status line per tick.
type player struct {
	out  io.Writer
	loc  i18n.Locale
	plan models.Plan
	last int
}

func (p *player) t(key string) string {
	return i18n.Resolve(key, p.loc)
}

func (p *player) header() {
	fmt.Fprintf(p.out, "%s: %s\n", p.t("Workout Plan"), p.plan.Name)
	if p.plan.ClientName != "" {
		fmt.Fprintf(p.out, "%s %s\n", p.t("For"), p.plan.ClientName)
	}
	if p.plan.Notes != "" {
		fmt.Fprintf(p.out, "%s: %s\n", p.t("Notes"), p.plan.Notes)
	}
}

func (p *player) render(st playback.State) {
	if st.CurrentIndex != p.last {
		p.last = st.CurrentIndex
		ex := st.Exercise
		fmt.Fprintf(p.out, "\n%s %d %s %d: %s\n", p.t("Exercise"), st.CurrentIndex+1, p.t("of"), st.Total, ex.Name)
		fmt.Fprintf(p.out, "  %d %s x %d %s | %s | %s\n", ex.SetCount(), p.t("sets"), ex.RepCount(), p.t("reps"), ex.Target, ex.Equipment)
		for i, step := range ex.Instructions {
			fmt.Fprintf(p.out, "  %d. %s\n", i+1, step)
		}
	}
	state := p.t("Pause")
	if !st.Running {
		state = p.t("Start")
	}
	fmt.Fprintf(p.out, "\r  %s %s  %3d%% %s  [%s]%s",
		p.t("Time Left"), st.RemainingClock, st.Progress, p.t("Complete"), state, strings.Repeat(" ", 4))
}

// notFoundMessage returns the localized not-found line when err means the
// plan does not exist. Any other error is reported as false.
func notFoundMessage(err error, id string, loc i18n.Locale) (string, bool) {
	if !errors.Is(err, storage.ErrPlanNotFound) {
		return "", false
	}
	return i18n.Resolve("Workout Not Found", loc) + ": " + id, true
}

func printPlans(w io.Writer, plans []models.Plan, loc i18n.Locale) {
	if len(plans) == 0 {
		fmt.Fprintln(w, i18n.Resolve("No workout plans yet", loc))
		return
	}
	for _, p := range plans {
		client := ""
		if p.ClientName != "" {
			client = " (" + i18n.Resolve("For", loc) + " " + p.ClientName + ")"
		}
		fmt.Fprintf(w, "%s  %s%s  %d %s  %s %s\n",
			p.ID, p.Name, client, len(p.Exercises), i18n.Resolve("exercises", loc),
			i18n.Resolve("Created", loc), p.CreatedAt.Local().Format("2006-01-02"))
	}
}
