package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"caveman_article_agent/config"
	"caveman_article_agent/generator"
	"caveman_article_agent/imagery"
)

// version is set at build time via ldflags.
var version = "dev"

// rootFlags are shared by every subcommand.
type rootFlags struct {
	configFile string
	envFile    string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:   "article-agent",
		Short: "Generate an article with outline, header image and resources",
		Long: `article-agent turns a title and a word-count range into a finished article:
an outline, a body written from it, a header image (stock search first, DALL-E
as fallback) and five suggested resources. Run it as a web app with "serve" or
once from the terminal with "generate".`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&flags.configFile, "config", "", "optional config file (yaml, json or toml)")
	cmd.PersistentFlags().StringVar(&flags.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable info logs")

	cmd.AddCommand(newServeCmd(flags), newGenerateCmd(flags), newVersionCmd())
	return cmd
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig(flags *rootFlags, mock bool) (config.Config, error) {
	cfg, err := config.Load(config.Options{EnvFile: flags.envFile, ConfigFile: flags.configFile})
	if err != nil {
		return config.Config{}, err
	}
	if mock {
		return cfg, nil
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// buildAgent wires the text model and the image state machine. mock swaps
// both for offline placeholders.
func buildAgent(cfg config.Config, mock, verbose bool, logger *log.Logger) (*generator.Agent, error) {
	if mock {
		logger.Printf("[cli] mock mode: no API calls will be made")
		return generator.NewAgent(generator.MockLLM{}, generator.MockImages{}, verbose, logger)
	}

	llm, err := generator.NewOpenAILLMFromConfig(&generator.LLMSettings{
		Model:   cfg.LLM.Model,
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
	})
	if err != nil {
		return nil, err
	}

	var primary imagery.Searcher
	if cfg.HasFreepik() {
		fp, err := imagery.NewFreepik(cfg.Freepik.APIKey, cfg.Freepik.BaseURL, nil)
		if err != nil {
			return nil, err
		}
		primary = fp
	} else {
		logger.Printf("[cli] FREEPIK_API_KEY not set; header images will be generated")
	}
	dalle, err := imagery.NewDallE(cfg.LLM.APIKey, cfg.LLM.ImageModel, cfg.LLM.BaseURL)
	if err != nil {
		return nil, err
	}
	images, err := imagery.NewSourcer(primary, dalle, logger)
	if err != nil {
		return nil, err
	}
	return generator.NewAgent(llm, images, verbose, logger)
}
