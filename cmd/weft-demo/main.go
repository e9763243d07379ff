// Command weft-demo renders a small dashboard: a header, a live clock fed
// from a background ticker, an event log, and a help overlay. It exists to
// exercise the engine end to end against a real terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/weftui/weft"
)

type config struct {
	EscapeTimeoutMS int          `toml:"escape_timeout_ms"`
	Mouse           bool         `toml:"mouse"`
	Colors          colorsConfig `toml:"colors"`
}

type colorsConfig struct {
	Header string `toml:"header"`
	Accent string `toml:"accent"`
}

func defaultConfig() config {
	return config{
		EscapeTimeoutMS: 50,
		Mouse:           true,
		Colors: colorsConfig{
			Header: "#5f87ff",
			Accent: "#ffaf00",
		},
	}
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

func main() {
	configPath := flag.String("config", "", "path to a TOML config file")
	logPath := flag.String("log", "", "write diagnostics to this file")
	flag.Parse()

	if err := run(*configPath, *logPath); err != nil {
		fmt.Fprintln(os.Stderr, "weft-demo:", err)
		os.Exit(1)
	}
}

func run(configPath, logPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	// Diagnostics must not write to the terminal the session renders to.
	logger := log.New(io.Discard)
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logger = log.NewWithOptions(f, log.Options{ReportTimestamp: true})
		logger.SetLevel(log.DebugLevel)
	}

	headerColor, err := weft.HexColor(cfg.Colors.Header)
	if err != nil {
		return err
	}
	accentColor, err := weft.HexColor(cfg.Colors.Accent)
	if err != nil {
		return err
	}

	term := weft.NewANSITerminal(os.Stdout, os.Stdin)
	opts := []weft.SessionOption{
		weft.WithLogger(logger),
		weft.WithDecoder(weft.WithEscapeTimeout(time.Duration(cfg.EscapeTimeoutMS) * time.Millisecond)),
	}
	if cfg.Mouse {
		opts = append(opts, weft.WithMouse())
	}
	sess := weft.NewSession(term, opts...)

	tree := sess.Tree()
	headerStyle := weft.NewStyle().Foreground(weft.BrightWhite).Background(headerColor).Bold()
	_, err = tree.Insert(tree.Root(), weft.Node{
		Kind:    weft.KindText,
		Content: []string{" weft demo — q quits, ? toggles help"},
		Style:   headerStyle,
		Layout:  weft.LayoutStyle{Width: weft.Fill(), Height: weft.Fixed(1)},
	})
	if err != nil {
		return err
	}

	body, err := tree.Insert(tree.Root(), weft.Node{
		Kind: weft.KindBox,
		Layout: weft.LayoutStyle{
			Width:     weft.Fill(),
			Height:    weft.Fill(),
			Direction: weft.Row,
		},
	})
	if err != nil {
		return err
	}

	clock, err := tree.Insert(body, weft.Node{
		Kind:    weft.KindText,
		Content: []string{"", "  starting..."},
		Style:   weft.NewStyle().Foreground(accentColor),
		Layout:  weft.LayoutStyle{Width: weft.Percent(30), Height: weft.Fill()},
	})
	if err != nil {
		return err
	}

	events, err := tree.Insert(body, weft.Node{
		Kind:    weft.KindText,
		Content: []string{"", "  waiting for input"},
		Layout:  weft.LayoutStyle{Width: weft.Fill(), Height: weft.Fill()},
	})
	if err != nil {
		return err
	}

	status, err := tree.Insert(tree.Root(), weft.Node{
		Kind:    weft.KindText,
		Content: []string{" ready"},
		Style:   weft.NewStyle().Reverse(),
		Layout:  weft.LayoutStyle{Width: weft.Fill(), Height: weft.Fixed(1)},
	})
	if err != nil {
		return err
	}

	var (
		recent []string
		help   weft.Handle
		shown  bool
	)
	logEvent := func(line string) {
		recent = append(recent, "  "+line)
		if len(recent) > 8 {
			recent = recent[len(recent)-8:]
		}
		tree.UpdateContent(events, append([]string{"", "  recent events:"}, recent...))
	}

	sess.OnEvent(func(ev weft.Event) {
		switch e := ev.(type) {
		case weft.KeyEvent:
			switch {
			case e.Is(weft.KeyCtrlC), e.IsRune() && e.Rune == 'q':
				sess.Stop()
			case e.IsRune() && e.Rune == '?':
				if shown {
					sess.Overlays().Pop(help)
				} else {
					help = sess.Overlays().Push(weft.Overlay{
						Anchor: weft.NewRect(4, 2, 36, 6),
						Z:      10,
						Style:  weft.NewStyle().Foreground(weft.Black).Background(accentColor),
						Content: []string{
							"",
							"  q / Ctrl+C  quit",
							"  ?           toggle this help",
							"  click       report position",
						},
					})
				}
				shown = !shown
			case e.Is(weft.KeyEscape) && shown:
				sess.Overlays().Pop(help)
				shown = false
			default:
				logEvent(fmt.Sprintf("key %s %q", e.Key, e.Rune))
			}
		case weft.MouseEvent:
			if e.Action == weft.MousePress {
				tree.UpdateContent(status, []string{fmt.Sprintf(" click at (%d, %d)", e.X, e.Y)})
			}
		case weft.PasteEvent:
			logEvent(fmt.Sprintf("pasted %d bytes", len(e.Text)))
		case weft.ResizeEvent:
			tree.UpdateContent(status, []string{fmt.Sprintf(" resized to %dx%d", e.Width, e.Height)})
		case weft.ErrorEvent:
			logger.Warn("decode error", "err", e.Err)
		}
	})

	src := weft.NewStdinSource(os.Stdin)
	defer src.Close()

	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		return sess.Run(src)
	})

	// Background producer: feeds clock updates through the session's queue.
	g.Go(func() error {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case now := <-ticker.C:
				sess.Post(func() {
					tree.UpdateContent(clock, []string{
						"",
						"  " + now.Format("15:04:05"),
						"",
						"  local time",
					})
				})
			}
		}
	})

	return g.Wait()
}
