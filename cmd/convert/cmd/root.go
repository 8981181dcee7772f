package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"peasydeal-link-converter/cache"
	"peasydeal-link-converter/config"
	"peasydeal-link-converter/internal/affiliate"
	"peasydeal-link-converter/internal/convert"
	"peasydeal-link-converter/internal/envutil"
	"peasydeal-link-converter/internal/logs"
	"peasydeal-link-converter/internal/metrics"
	"peasydeal-link-converter/internal/resolver"
)

type options struct {
	text        string
	asJSON      bool
	noAffiliate bool
	timeout     time.Duration
}

func newRootCmd() *cobra.Command {
	var opts options

	rootCmd := &cobra.Command{
		Use:           "convert",
		Short:         "Rewrite marketplace links in text into canonical or affiliate links",
		Long:          "Reads text from --text or stdin, converts every Shopee link in it and prints the result.",
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			text := opts.text
			if text == "" {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				text = string(b)
			}
			if strings.TrimSpace(text) == "" {
				_ = cmd.Help()
				return errUsage
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			ctx, cancel := context.WithTimeout(ctx, opts.timeout)
			defer cancel()

			return run(ctx, cmd.OutOrStdout(), text, opts)
		},
	}

	rootCmd.Flags().StringVar(&opts.text, "text", "", "Text to convert (reads stdin when empty)")
	rootCmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print the per-URL conversions as JSON")
	rootCmd.Flags().DurationVar(&opts.timeout, "timeout", envutil.Duration(os.Getenv, "LINKCONV_TIMEOUT", time.Minute), "Deadline for the whole conversion")
	rootCmd.Flags().BoolVar(&opts.noAffiliate, "no-affiliate", envutil.Bool(os.Getenv, "LINKCONV_NO_AFFILIATE", false), "Skip affiliate signing even when credentials are set")

	return rootCmd
}

func run(ctx context.Context, out io.Writer, text string, opts options) error {
	cfg, err := config.NewConfig(config.NewViper())
	if err != nil {
		return err
	}

	zl, err := logs.NewLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = zl.Sync() }()
	log := zl.Sugar()

	svc, closeFn := newService(cfg, log, opts.noAffiliate)
	defer closeFn()

	res, err := svc.ProcessDetailed(ctx, text)
	if err != nil {
		return err
	}

	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	_, err = io.WriteString(out, res.Text)
	if err == nil && !strings.HasSuffix(res.Text, "\n") {
		_, err = io.WriteString(out, "\n")
	}
	return err
}

func newService(cfg *config.Config, log *zap.SugaredLogger, noAffiliate bool) (*convert.Service, func()) {
	rec := metrics.Noop{}
	closeFn := func() {}

	r := resolver.New(resolver.OptionsFromConfig(cfg), rec, log)

	var signer convert.Signer
	if !noAffiliate && cfg.AffiliateEnabled() {
		signerOpts := []affiliate.Option{affiliate.WithRecorder(rec)}
		if strings.TrimSpace(cfg.Redis.Host) != "" {
			client := redis.NewClient(cache.NewRedisOptions(cfg.Redis))
			closeFn = func() { _ = client.Close() }
			signerOpts = append(signerOpts, affiliate.WithCache(cache.NewShortLinks(client, cfg.Redis.ShortLinkTTL)))
		}
		signer = affiliate.NewSigner(affiliate.ConfigFromApp(cfg), log, signerOpts...)
	}

	return convert.NewService(r, signer, convert.OptionsFromConfig(cfg), rec, log), closeFn
}
