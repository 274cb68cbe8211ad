package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"evmfmt/pkg/config"
	"evmfmt/pkg/models"
	"evmfmt/pkg/numfmt"
	"evmfmt/pkg/rpc"
	"evmfmt/pkg/server"
	"evmfmt/pkg/tui"
	"evmfmt/pkg/utils"
	"evmfmt/pkg/watcher"

	"github.com/guptarohit/asciigraph"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Version should be set during build
var Version = "dev"

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// options carries the parsed global flags.
type options struct {
	json       bool
	markdown   bool
	configPath string
	cfg        config.Config
	precision  int
	decimals   int
	noGroup    bool
	hexLength  int
	port       int
	samples    int
	interval   time.Duration
}

func main() {
	_ = godotenv.Load()
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func usage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintf(w, "Usage: evmfmt [flags] <command> [args...]\n\n")
	fmt.Fprintf(w, "Format commands:  %s\n", strings.Join(kindNames(), " "))
	fmt.Fprintf(w, "Chain commands:   gas, balance <address>..., tx <hash>...\n")
	fmt.Fprintf(w, "Other commands:   serve, tui, config [init|show|restore|path]\n\nFlags:\n")
	fs.PrintDefaults()
}

func kindNames() []string {
	names := make([]string, len(numfmt.Kinds))
	for i, k := range numfmt.Kinds {
		names[i] = string(k)
	}
	return names
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("evmfmt", flag.ContinueOnError)
	fs.SetOutput(stderr)
	jsonFlag := fs.Bool("json", false, "Output results as JSON")
	markdownFlag := fs.Bool("markdown", false, "Escape text output for Telegram MarkdownV2")
	configFlag := fs.String("config", "", "Path to configuration file")
	rpcFlag := fs.String("rpc", "", "Comma separated RPC URLs (overrides config)")
	precisionFlag := fs.Int("precision", -1, "Fraction digits for 'big' (default from config)")
	decimalsFlag := fs.Int("decimals", -1, "Fraction digits for 'number' (default from config)")
	noGroupFlag := fs.Bool("no-group", false, "Disable thousands separators for 'number'")
	lengthFlag := fs.Int("length", 0, "Target length for 'hex' (default from config)")
	portFlag := fs.Int("port", 8080, "Port for the API server")
	samplesFlag := fs.Int("samples", 1, "Gas price readings to take")
	intervalFlag := fs.Duration("interval", 2*time.Second, "Delay between gas price readings")
	verboseFlag := fs.Bool("v", false, "Verbose logging")
	versionFlag := fs.Bool("version", false, "Print version and exit")
	fs.Usage = func() { usage(stderr, fs) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	if *versionFlag {
		fmt.Fprintf(stdout, "evmfmt version %s\n", Version)
		return exitOK
	}

	level := zerolog.WarnLevel
	if *verboseFlag {
		level = zerolog.DebugLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: stderr, NoColor: true}).
		Level(level).With().Timestamp().Logger()

	if fs.NArg() == 0 {
		usage(stderr, fs)
		return exitUsage
	}

	path, err := config.GetConfigPath(*configFlag)
	if err != nil {
		log.Error().Err(err).Msg("determining config path")
		return exitError
	}
	cfg, err := config.LoadConfigFromFile(path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("loading config")
		return exitUsage
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		log.Error().Err(err).Msg("applying environment")
		return exitUsage
	}

	opts := options{
		json:       *jsonFlag,
		markdown:   *markdownFlag,
		configPath: path,
		precision:  *precisionFlag,
		decimals:   *decimalsFlag,
		noGroup:    *noGroupFlag,
		hexLength:  *lengthFlag,
		port:       *portFlag,
		samples:    *samplesFlag,
		interval:   *intervalFlag,
	}
	if *rpcFlag != "" {
		cfg.RPCURLs = config.SplitList(*rpcFlag)
	}
	opts.cfg = cfg

	fmtOpts, err := cfg.FormatterOptions()
	if err != nil {
		log.Error().Err(err).Msg("building formatter")
		return exitUsage
	}
	if opts.precision >= 0 {
		fmtOpts.MagnitudePrecision = opts.precision
	}
	if opts.decimals >= 0 {
		fmtOpts.Decimals = opts.decimals
	}
	if opts.noGroup {
		fmtOpts.Grouping = false
	}
	if opts.hexLength > 0 {
		fmtOpts.HexLength = opts.hexLength
	}
	f := numfmt.New(fmtOpts)
	p := numfmt.NewParser(log.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	if kind, err := numfmt.ParseKind(cmd); err == nil {
		return runFormat(f, p, kind, rest, opts, stdout)
	}

	switch cmd {
	case "gas":
		return runGas(ctx, f, opts, stdout)
	case "balance":
		return runBalance(ctx, f, rest, opts, stdout)
	case "tx":
		return runTx(ctx, rest, opts, stdout)
	case "serve":
		srv := server.NewServer(f, p, log.Logger)
		if err := srv.Start(opts.port); err != nil {
			log.Error().Err(err).Msg("server error")
			return exitError
		}
		return exitOK
	case "tui":
		if err := tui.Start(f, p, Version); err != nil {
			fmt.Fprintf(stderr, "Alas, there's been an error: %v\n", err)
			return exitError
		}
		return exitOK
	case "config":
		return runConfig(rest, opts, stdout)
	}

	fmt.Fprintf(stderr, "unknown command %q\n", cmd)
	usage(stderr, fs)
	return exitUsage
}

func writeJSON(w io.Writer, v interface{}) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func runFormat(f *numfmt.Formatter, p *numfmt.Parser, kind numfmt.Kind, inputs []string, opts options, stdout io.Writer) int {
	if len(inputs) == 0 {
		log.Error().Str("command", string(kind)).Msg("no values given")
		return exitUsage
	}

	code := exitOK
	results := make([]models.FormatResult, 0, len(inputs))
	for _, in := range inputs {
		res := models.FormatResult{Kind: string(kind), Input: in}
		out, err := numfmt.Render(f, p, kind, in)
		if err != nil {
			res.Error = err.Error()
			code = exitError
		} else {
			res.Output = out
		}
		results = append(results, res)
	}

	if opts.json {
		writeJSON(stdout, results)
		return code
	}
	for _, res := range results {
		if res.Error != "" {
			log.Error().Str("input", res.Input).Msg(res.Error)
			continue
		}
		if opts.markdown {
			fmt.Fprintln(stdout, utils.EscapeMarkdownV2(res.Output))
			continue
		}
		fmt.Fprintln(stdout, res.Output)
	}
	return code
}

func requireRPC(opts options) ([]string, bool) {
	urls, err := opts.cfg.RequireRPC()
	if err != nil {
		log.Error().Err(err).Msg("set -rpc, rpc_urls in the config file, or " + config.EnvRPCURLs)
		return nil, false
	}
	return urls, true
}

func runGas(ctx context.Context, f *numfmt.Formatter, opts options, stdout io.Writer) int {
	urls, ok := requireRPC(opts)
	if !ok {
		return exitUsage
	}

	if opts.samples <= 1 {
		data, err := rpc.FetchGasPrice(ctx, urls)
		if err != nil {
			log.Error().Err(err).Strs("failed_rpcs", data.FailedRPCs).Msg("fetching gas price")
			return exitError
		}
		if opts.json {
			writeJSON(stdout, map[string]string{"wei": data.Price.String(), "display": numfmt.FormatGasPrice(data.Price)})
			return exitOK
		}
		fmt.Fprintln(stdout, numfmt.FormatGasPrice(data.Price))
		return exitOK
	}

	sampler := watcher.NewGasSampler(urls, opts.interval)
	sampler.SetLogger(log.Logger)
	samples, err := sampler.Sample(ctx, opts.samples)
	if err != nil && len(samples) == 0 {
		log.Error().Err(err).Msg("sampling gas price")
		return exitError
	}
	if opts.json {
		writeJSON(stdout, samples)
		return exitOK
	}

	values := watcher.Values(samples)
	if len(values) > 1 {
		fmt.Fprintln(stdout, asciigraph.Plot(values,
			asciigraph.Height(10),
			asciigraph.Precision(2),
			asciigraph.Caption("gas price (gwei)"),
		))
	}
	fmt.Fprintln(stdout, gasSummary(f, samples))
	return exitOK
}

// gasSummary describes the latest reading and its change since the first.
func gasSummary(f *numfmt.Formatter, samples []models.GasSample) string {
	first, last := samples[0], samples[len(samples)-1]
	summary := fmt.Sprintf("latest: %s gwei at %s over %d samples",
		f.Number(last.Gwei, 2, true), utils.FormatDate(last.Timestamp.Unix(), nil), len(samples))
	if len(samples) > 1 && first.Gwei != 0 {
		summary += fmt.Sprintf(" (%+.2f%%)", utils.PercentChange(first.Gwei, last.Gwei))
	}
	return summary
}

func runBalance(ctx context.Context, f *numfmt.Formatter, addrs []string, opts options, stdout io.Writer) int {
	urls, ok := requireRPC(opts)
	if !ok {
		return exitUsage
	}
	if len(addrs) == 0 {
		log.Error().Msg("no addresses given")
		return exitUsage
	}

	code := exitOK
	for _, addr := range addrs {
		data, err := rpc.FetchBalance(ctx, urls, addr)
		if err != nil {
			log.Error().Err(err).Str("address", addr).Msg("fetching balance")
			code = exitError
			continue
		}
		if opts.json {
			writeJSON(stdout, map[string]string{
				"address": data.Address,
				"wei":     data.Balance.String(),
				"eth":     f.Eth(data.Balance),
			})
			continue
		}
		fmt.Fprintf(stdout, "%s  %s ETH\n", utils.FormatAddress(data.Address, 6, 4), f.Eth(data.Balance))
	}
	return code
}

func runTx(ctx context.Context, hashes []string, opts options, stdout io.Writer) int {
	urls, ok := requireRPC(opts)
	if !ok {
		return exitUsage
	}
	if len(hashes) == 0 {
		log.Error().Msg("no transaction hashes given")
		return exitUsage
	}

	code := exitOK
	for _, h := range hashes {
		status, err := rpc.FetchTxStatus(ctx, urls, h)
		if err != nil {
			log.Error().Err(err).Str("tx", h).Msg("fetching receipt")
			code = exitError
			continue
		}
		if opts.json {
			writeJSON(stdout, map[string]interface{}{"tx": h, "status": int(status), "display": status.String()})
			continue
		}
		fmt.Fprintf(stdout, "%s  %s\n", utils.FormatAddress(h, 10, 8), status)
	}
	return code
}

func runConfig(args []string, opts options, stdout io.Writer) int {
	sub := "show"
	if len(args) > 0 {
		sub = args[0]
	}
	switch sub {
	case "path":
		fmt.Fprintln(stdout, opts.configPath)
	case "show":
		writeJSON(stdout, opts.cfg)
	case "init":
		if err := config.SaveConfig(opts.cfg, opts.configPath); err != nil {
			log.Error().Err(err).Msg("saving config")
			return exitError
		}
		fmt.Fprintf(stdout, "Configuration saved to %s\n", opts.configPath)
	case "restore":
		if err := config.RestoreLastBackup(opts.configPath); err != nil {
			log.Error().Err(err).Msg("restoring config")
			return exitError
		}
		fmt.Fprintf(stdout, "Configuration restored at %s\n", opts.configPath)
	default:
		log.Error().Str("subcommand", sub).Msg("unknown config subcommand")
		return exitUsage
	}
	return exitOK
}
