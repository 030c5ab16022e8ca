package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"caveman_article_agent/export"
	"caveman_article_agent/generator"
)

func newGenerateCmd(flags *rootFlags) *cobra.Command {
	var (
		title     string
		wordRange string
		out       string
		mock      bool
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one article and write it as Markdown",
		Long: `Generate runs outline, article, header image and resources for a single
title and writes the Markdown document to --out. The default file name is
derived from the title; "-" writes to stdout.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := generator.NewRequest(title, wordRange)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(flags, mock)
			if err != nil {
				return err
			}
			agent, err := buildAgent(cfg, mock, flags.verbose, log.Default())
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout)
			defer cancel()
			log.Printf("[cli] generating title=%q range=%s", req.Title, req.WordRange())
			art, err := agent.Generate(ctx, req, nil)
			if err != nil {
				return err
			}

			doc := export.Markdown(art)
			if out == "-" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), doc)
				return err
			}
			if out == "" {
				out = export.Filename(art.Title)
			}
			if err := os.WriteFile(out, []byte(doc), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", out, err)
			}
			log.Printf("[cli] wrote %s (%d words)", out, art.WordCount)
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "article title")
	cmd.Flags().StringVar(&wordRange, "range", "800-1000", "word count range, e.g. 800-1000")
	cmd.Flags().StringVar(&out, "out", "", `output file ("-" for stdout)`)
	cmd.Flags().BoolVar(&mock, "mock", false, "use offline placeholder models")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}
