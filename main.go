package main

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"auto_blog_publisher/blog"
	"auto_blog_publisher/config"
	"auto_blog_publisher/generator"
	"auto_blog_publisher/logger"
	"auto_blog_publisher/metrics"
	"auto_blog_publisher/publisher"
	"auto_blog_publisher/server"
)

var envFile string

func main() {
	root := &cobra.Command{
		Use:           "auto_blog_publisher",
		Short:         "Generate blog posts with an LLM and publish them to Hashnode",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "path to .env file")
	root.AddCommand(serveCmd(), generateCmd(), publishCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app is the fully wired component graph shared by every subcommand.
type app struct {
	cfg     config.Config
	log     logger.Logger
	metrics *metrics.Metrics
	svc     *blog.Service
}

func buildApp() (*app, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.LogLevel, cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	llm, err := buildLLM(cfg)
	if err != nil {
		return nil, err
	}
	gen, err := generator.New(llm, cfg.LLM.Timeout, log)
	if err != nil {
		return nil, err
	}
	pub, err := publisher.New(publisher.Settings{
		APIURL:        cfg.Hashnode.APIURL,
		Token:         cfg.Hashnode.Token,
		PublicationID: cfg.Hashnode.PublicationID,
	}, &http.Client{Timeout: cfg.Hashnode.Timeout}, log)
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	svc, err := blog.NewService(gen, pub, log, m)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, log: log, metrics: m, svc: svc}, nil
}

func buildLLM(cfg config.Config) (generator.LLMClient, error) {
	return generator.NewLLMFromSettings(generator.LLMSettings{
		Provider:  cfg.LLM.Provider,
		Model:     cfg.LLM.Model,
		APIKey:    cfg.LLM.APIKey,
		BaseURL:   cfg.LLM.BaseURL,
		MaxTokens: cfg.LLM.MaxTokens,
	})
}

func serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and web UI",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			defer func() { _ = a.log.Sync() }()

			if addr != "" {
				host, port, err := splitAddr(addr)
				if err != nil {
					return err
				}
				a.cfg.Host, a.cfg.Port = host, port
			}

			srv, err := server.New(a.svc, a.cfg, a.log, a.metrics)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			a.log.Info("Starting application",
				logger.String("app_name", a.cfg.AppName),
				logger.String("version", a.cfg.AppVersion),
				logger.String("llm_provider", a.cfg.LLM.Provider),
				logger.String("llm_model", a.cfg.LLM.Model),
			)
			return srv.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address host:port (overrides HOST/PORT)")
	return cmd
}

func generateCmd() *cobra.Command {
	var (
		req  blog.Request
		tags string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a post and print its markdown",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			defer func() { _ = a.log.Sync() }()

			req.Tags = splitTags(tags)
			req, err = req.Normalize(blog.Limits{
				MaxTitleLength: a.cfg.Limits.MaxTitleLength,
				MaxNotesLength: a.cfg.Limits.MaxNotesLength,
			})
			if err != nil {
				return err
			}

			out := a.svc.Generate(cmd.Context(), req)
			if !out.Success {
				return errors.New(out.Message)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# %s\n\n%s\n", out.BlogPost.Title, out.BlogPost.Content)
			fmt.Fprintf(cmd.ErrOrStderr(), "%s (%.1fs)\n", out.Message, out.GenerationTimeSeconds)
			if out.HashnodeURL != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), out.HashnodeURL)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Title, "title", "", "post title")
	cmd.Flags().StringVar(&req.Notes, "notes", "", "notes the post is written from")
	cmd.Flags().StringVar(&tags, "tags", "", "comma-separated tags")
	cmd.Flags().BoolVar(&req.PublishImmediately, "publish", false, "publish to Hashnode after generating")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("notes")
	return cmd
}

func publishCmd() *cobra.Command {
	var (
		mdPath string
		req    publisher.PublishRequest
		tags   string
	)
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish an existing markdown file to Hashnode",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			defer func() { _ = a.log.Sync() }()

			data, err := os.ReadFile(mdPath)
			if err != nil {
				return fmt.Errorf("read markdown: %w", err)
			}
			req.ContentMarkdown = string(data)
			req.Tags = splitTags(tags)

			res, err := a.svc.PublishExisting(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.PostURL)
			return nil
		},
	}
	cmd.Flags().StringVar(&mdPath, "md", "", "path to markdown file")
	cmd.Flags().StringVar(&req.Title, "title", "", "post title")
	cmd.Flags().StringVar(&tags, "tags", "", "comma-separated tags")
	cmd.Flags().StringVar(&req.CoverImageURL, "cover", "", "cover image URL")
	_ = cmd.MarkFlagRequired("md")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func splitTags(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func splitAddr(addr string) (string, int, error) {
	host, p, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid listen address %q: %w", addr, err)
	}
	port, err := strconv.Atoi(p)
	if err != nil {
		return "", 0, fmt.Errorf("invalid port in %q: %w", addr, err)
	}
	return host, port, nil
}
