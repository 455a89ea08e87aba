package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"safariconverter/config"
	"safariconverter/converter"
	"safariconverter/rules"
)

func main() {
	var (
		configPath string
		inputs     []string
		output     string
		limit      int
		optimize   bool
		verbosity  int
	)

	root := &cobra.Command{
		Use:   "safariconverter",
		Short: "Convert AdGuard filter lists into Safari content blocker JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogger(verbosity)

			cfg := &config.Config{}
			if _, err := os.Stat(configPath); err == nil {
				cfg, err = config.Load(configPath)
				if err != nil {
					return err
				}
			} else if len(inputs) == 0 {
				return fmt.Errorf("no --input given and no config file at %s", configPath)
			}

			// Flags override the config file.
			if len(inputs) > 0 {
				cfg.Sources = nil
				for _, in := range inputs {
					cfg.Sources = append(cfg.Sources, config.Source{Name: in, Path: in})
				}
			}
			if cmd.Flags().Changed("output") || cfg.Output == "" {
				cfg.Output = output
			}
			if cmd.Flags().Changed("limit") {
				cfg.Limit = limit
			}
			if cmd.Flags().Changed("optimize") {
				cfg.Optimize = optimize
			}
			if len(cfg.Sources) == 0 {
				return fmt.Errorf("no filter list sources configured")
			}

			var lines []string
			for _, src := range cfg.Sources {
				srcLines, err := rules.LoadLines(src.Path)
				if err != nil {
					return fmt.Errorf("failed to load source %q: %w", src.Name, err)
				}
				log.Info().Str("source", src.Name).Int("lines", len(srcLines)).Msg("loaded filter list")
				lines = append(lines, srcLines...)
			}

			result := converter.ConvertLines(lines, cfg.Limit, cfg.Optimize)

			if cfg.Output == "-" {
				fmt.Println(result.Converted)
			} else {
				if err := os.WriteFile(cfg.Output, []byte(result.Converted), 0644); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
			}

			fmt.Fprintf(cmd.ErrOrStderr(),
				"Converted %d rules (%d total, %d errors, over limit: %v)\n",
				result.ConvertedCount, result.TotalConvertedCount,
				result.ErrorsCount, result.OverLimit)
			return nil
		},
	}

	root.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "path to configuration file")
	root.Flags().StringArrayVarP(&inputs, "input", "i", nil, "filter list file (repeatable, overrides config sources)")
	root.Flags().StringVarP(&output, "output", "o", "blockerList.json", "output file, or - for stdout")
	root.Flags().IntVarP(&limit, "limit", "l", 0, "maximum number of rules to emit, 0 disables the cap")
	root.Flags().BoolVar(&optimize, "optimize", false, "discard wide generic CSS rules")
	root.Flags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "safariconverter:", err)
		os.Exit(1)
	}
}

func setupLogger(verbosity int) {
	switch verbosity {
	case 0:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case 1:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
	}).With().Timestamp().Logger()
}
