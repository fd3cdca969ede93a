package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/korunadevi/comfyui-nunchaku-sage-v1/internal/engine/progress"
	"github.com/korunadevi/comfyui-nunchaku-sage-v1/internal/engine/stage"
	"github.com/korunadevi/comfyui-nunchaku-sage-v1/internal/logging"
	"github.com/korunadevi/comfyui-nunchaku-sage-v1/internal/server"
	"github.com/korunadevi/comfyui-nunchaku-sage-v1/internal/services/manifest"
	"github.com/korunadevi/comfyui-nunchaku-sage-v1/internal/ui"
)

var (
	Version   = "dev"
	GitCommit = "none"
	BuildDate = "unknown"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	os.Exit(run(ctx, os.Args[1:]))
}

func run(ctx context.Context, args []string) int {
	cmd := "serve"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd = strings.ToLower(strings.TrimSpace(args[0]))
		args = args[1:]
	}

	switch cmd {
	case "version", "--version", "-v":
		fmt.Printf("waitpage %s (%s, %s)\n", Version, GitCommit, BuildDate)
		return 0
	case "help", "--help", "-h":
		printUsage()
		return 0
	case "serve":
		return runServe(ctx, args)
	case "watch":
		return runWatch(ctx, args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		return 2
	}
}

type commonFlags struct {
	logPath   string
	tailBytes int64
	pipeline  string
	manifest  string
	envFile   string
	logLevel  string
}

func registerCommon(fs *flag.FlagSet, c *commonFlags) {
	fs.StringVar(&c.logPath, "log", "/server.log", "Provisioning log file to tail")
	fs.Int64Var(&c.tailBytes, "tail-bytes", 200_000, "Trailing log bytes considered per poll")
	fs.StringVar(&c.pipeline, "pipeline", "comfy", "Stage pipeline: "+strings.Join(stage.PipelineNames(), "|"))
	fs.StringVar(&c.manifest, "manifest", "/workspace/.backup_tmp/hf_pull/ComfyUI/custom_nodes_snapshot.yaml", "Backup snapshot manifest path")
	fs.StringVar(&c.envFile, "env-file", "", "Optional .env file loaded before reading environment facts")
	fs.StringVar(&c.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}

func buildEngine(c commonFlags) (*progress.Engine, error) {
	facts, err := loadFacts(c.envFile)
	if err != nil {
		return nil, err
	}
	return progress.New(progress.Options{
		LogPath:   c.logPath,
		TailBytes: c.tailBytes,
		Pipeline:  c.pipeline,
		Manifest:  manifest.NewCache(c.manifest),
		Facts:     facts,
	})
}

func runServe(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var c commonFlags
	registerCommon(fs, &c)
	port := fs.Int("port", 8188, "Port to listen on")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	engine, err := buildEngine(c)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	log := logging.New(c.logLevel)
	srv := server.New(engine, logging.Component(log, "http"))

	addr := fmt.Sprintf(":%d", *port)
	log.Info("wait page listening", "addr", addr, "log", c.logPath, "pipeline", c.pipeline)
	if err := srv.ListenAndServe(ctx, addr); err != nil {
		log.Error("server stopped", "err", err)
		return 1
	}
	return 0
}

func runWatch(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var c commonFlags
	registerCommon(fs, &c)
	interval := fs.Duration("interval", 2*time.Second, "Refresh interval")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	engine, err := buildEngine(c)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	if err := ui.Run(ctx, engine, *interval); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func printUsage() {
	fmt.Println("waitpage serves a splash page with live progress while a provisioning script runs.")
	fmt.Println("")
	fmt.Println("Usage:")
	fmt.Println("  waitpage serve [flags]   Serve the wait page over HTTP (default)")
	fmt.Println("  waitpage watch [flags]   Render progress in the terminal")
	fmt.Println("  waitpage version         Print version")
	fmt.Println("")
	fmt.Println("Common flags:")
	fmt.Println("  --log=<path>             Provisioning log file to tail")
	fmt.Println("  --pipeline=<name>        Stage pipeline (comfy, ai-toolkit)")
	fmt.Println("  --manifest=<path>        Backup snapshot manifest")
	fmt.Println("  --tail-bytes=<n>         Trailing log bytes considered per poll")
	fmt.Println("  --env-file=<path>        Load environment facts from a .env file")
	fmt.Println("  --port=<n>               Listen port (serve)")
	fmt.Println("  --interval=<dur>         Refresh interval (watch)")
}
