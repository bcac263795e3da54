// Command xferctl is a thin CLI front end for the xfer engine: download
// a resource by ranged chunks with a fallback to a single payload GET,
// or upload a file with a single PUT.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/arashidev/xfer"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

func main() {
	app := &cli.App{
		Name:  "xferctl",
		Usage: "chunked HTTP/S3 file transfer",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "path to a YAML config file"},
			&cli.IntFlag{Name: "timeout", Value: 0, Usage: "per-request timeout in seconds (0 = config default)"},
			&cli.Int64Flag{Name: "chunk-size", Value: 0, Usage: "max ranged-fetch chunk size in bytes (0 = config default)"},
			&cli.StringFlag{Name: "log-file", Usage: "rotate engine logs to this file instead of stderr"},
		},
		Before: setupLogging,
		Commands: []*cli.Command{
			downloadCommand(),
			uploadCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, failStyle.Render("error:"), err)
		os.Exit(1)
	}
}

func setupLogging(c *cli.Context) error {
	var cfg xfer.Config
	if p := c.String("config"); p != "" {
		cfg, _ = xfer.LoadConfig(p)
	}

	path := c.String("log-file")
	if path == "" {
		path = cfg.LogFile
	}
	if path == "" {
		return nil
	}

	maxSize, maxBackups := 10, 3
	if cfg.LogMaxSizeMB > 0 {
		maxSize = cfg.LogMaxSizeMB
	}
	if cfg.LogMaxBackups > 0 {
		maxBackups = cfg.LogMaxBackups
	}
	xfer.SetLogWriter(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSize,
		MaxBackups: maxBackups,
	})
	return nil
}

func loadConfig(c *cli.Context) xfer.Config {
	cfg := xfer.DefaultConfig()
	if path := c.String("config"); path != "" {
		if loaded, err := xfer.LoadConfig(path); err == nil {
			cfg = loaded
		} else {
			fmt.Fprintln(os.Stderr, warnStyle.Render("warn:"), "could not read config, using defaults:", err)
		}
	}
	if t := c.Int("timeout"); t > 0 {
		cfg.TimeoutSeconds = t
	}
	if s := c.Int64("chunk-size"); s > 0 {
		cfg.MaxChunkSize = s
	}
	return cfg
}

func transportFor(ctx context.Context, rawURL string) (xfer.Transport, error) {
	if strings.HasPrefix(rawURL, "s3://") {
		return xfer.NewS3Transport(ctx)
	}
	return nil, nil // nil: the caller passes no WithTransport, so NewEngine keeps its default http transport
}

func isInteractive() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func downloadCommand() *cli.Command {
	return &cli.Command{
		Name:      "download",
		Usage:     "download a resource to a local file",
		ArgsUsage: "<url>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Required: true, Usage: "destination file path"},
			&cli.BoolFlag{Name: "force-payload", Usage: "skip the ranged probe and fetch in one request"},
		},
		Action: func(c *cli.Context) error {
			url := c.Args().First()
			if url == "" {
				return cli.Exit("a download url is required", 1)
			}

			cfg := loadConfig(c)
			dest := c.String("out")

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			transport, err := transportFor(ctx, url)
			if err != nil {
				return cli.Exit(err, 1)
			}

			var opts []xfer.Option
			if transport != nil {
				opts = append(opts, xfer.WithTransport(transport))
			}
			engine := xfer.NewEngine(opts...)

			go func() {
				<-ctx.Done()
				engine.Cancel()
			}()

			loc := xfer.ResourceLocator{
				URL:            url,
				Headers:        cfg.Headers,
				TimeoutSeconds: cfg.TimeoutSeconds,
			}

			progress, transferred, finish := newBar(isInteractive(), filepath.Base(dest))
			defer finish()

			outcome := xfer.DownloadToFile(ctx, engine, loc, dest, cfg.MaxChunkSize, c.Bool("force-payload"), progress)

			return reportOutcome("download", outcome.String(), *transferred)
		},
	}
}

func uploadCommand() *cli.Command {
	return &cli.Command{
		Name:      "upload",
		Usage:     "upload a local file with a single PUT",
		ArgsUsage: "<url>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Required: true, Usage: "source file path"},
			&cli.StringFlag{Name: "content-type", Usage: "Content-Type header to send"},
		},
		Action: func(c *cli.Context) error {
			url := c.Args().First()
			if url == "" {
				return cli.Exit("an upload url is required", 1)
			}

			cfg := loadConfig(c)
			src := c.String("file")

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			transport, err := transportFor(ctx, url)
			if err != nil {
				return cli.Exit(err, 1)
			}

			var opts []xfer.Option
			if transport != nil {
				opts = append(opts, xfer.WithTransport(transport))
			}
			engine := xfer.NewEngine(opts...)

			go func() {
				<-ctx.Done()
				engine.Cancel()
			}()

			loc := xfer.ResourceLocator{
				URL:            url,
				Headers:        cfg.Headers,
				ContentType:    c.String("content-type"),
				TimeoutSeconds: cfg.TimeoutSeconds,
			}

			progress, transferred, finish := newBar(isInteractive(), filepath.Base(src))
			defer finish()

			result := xfer.UploadFromFile(ctx, engine, loc, src, progress)

			return reportOutcome("upload", result.Outcome.String(), *transferred)
		},
	}
}

// newBar returns a ProgressFunc wired to an mpb bar when stdout is a
// terminal (a no-op otherwise so redirected/piped output stays clean),
// plus a pointer the caller can read after the transfer completes for
// a humanized summary.
func newBar(interactive bool, label string) (progress xfer.ProgressFunc, transferred *int64, finish func()) {
	transferred = new(int64)

	if !interactive {
		fn := func(n, _ int64) { *transferred = n }
		return fn, transferred, func() {}
	}

	p := mpb.New(mpb.WithWidth(60))
	bar := p.New(0,
		mpb.BarStyle().Lbound("╢").Filler("█").Tip("█").Padding("░").Rbound("╟"),
		mpb.PrependDecorators(
			decor.Name(label, decor.WC{W: len(label) + 1, C: decor.DindentRight}),
		),
		mpb.AppendDecorators(
			decor.CountersKibiByte("% .2f / % .2f"),
			decor.Name(" "),
			decor.EwmaSpeed(decor.SizeB1024(0), "% .2f/s", 30),
		),
	)

	var sawTotal int64
	fn := func(n, total int64) {
		*transferred = n
		if total > 0 && total != sawTotal {
			bar.SetTotal(total, false)
			sawTotal = total
		}
		bar.SetCurrent(n)
	}

	return fn, transferred, func() { bar.SetTotal(sawTotal, true); p.Wait() }
}

func reportOutcome(op, outcome string, bytes int64) error {
	summary := fmt.Sprintf("%s: %s (%s)", op, outcome, humanize.Bytes(uint64(bytes)))
	switch outcome {
	case "Success", "SucceededByPayload":
		fmt.Println(successStyle.Render(summary))
		return nil
	case "NotModified":
		fmt.Println(warnStyle.Render(summary))
		return nil
	default:
		fmt.Println(failStyle.Render(summary))
		return cli.Exit("", 1)
	}
}
