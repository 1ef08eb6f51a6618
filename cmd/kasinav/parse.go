package main

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"

	"github.com/kasinav/kasi-nav/internal/core/ports"
	"github.com/kasinav/kasi-nav/internal/core/service"
	"github.com/kasinav/kasi-nav/internal/infrastructure/genai"
	"github.com/kasinav/kasi-nav/internal/pkg/config"
	"github.com/kasinav/kasi-nav/pkg/logger"
)

var errNoLandmark = errors.New("could not understand the landmark description")

var parseCmd = &cobra.Command{
	Use:     "parse <description>",
	Short:   "Turn a free-text landmark description into structured JSON",
	Example: `  kasinav parse "behind the blue container next to Ma-Zulu's spaza"`,
	Args:    cobra.MinimumNArgs(1),
	RunE:    runParse,
}

func envLookuper() envconfig.Lookuper {
	return envconfig.OsLookuper()
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFrom(envLookuper())
	if err != nil {
		return err
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Output: cmd.ErrOrStderr()})
	if cfg.Gemini.APIKey == "" {
		log.Warn().Msg("GEMINI_API_KEY not set")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Gemini.Timeout+5*time.Second)
	defer cancel()

	completer, err := genai.New(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		return err
	}
	return parseDescription(ctx, cmd, service.NewAssistantService(completer, cfg.Gemini.Timeout, log), strings.Join(args, " "), log)
}

func parseDescription(ctx context.Context, cmd *cobra.Command, assistant ports.AssistantService, text string, log zerolog.Logger) error {
	parsed := assistant.Parse(ctx, text)
	if parsed == nil {
		return errNoLandmark
	}
	log.Debug().Str("description", parsed.Describe()).Msg("parsed")

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(parsed)
}
