package main

import (
	"log"
	"net/http"

	"github.com/spf13/cobra"

	"caveman_article_agent/server"
)

func newServeCmd(flags *rootFlags) *cobra.Command {
	var (
		addr string
		mock bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web app",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags, mock)
			if err != nil {
				return err
			}
			agent, err := buildAgent(cfg, mock, flags.verbose, log.Default())
			if err != nil {
				return err
			}
			srv, err := server.New(agent, server.Options{Timeout: cfg.Timeout})
			if err != nil {
				return err
			}
			listen := cfg.ServerAddr
			if addr != "" {
				listen = addr
			}
			log.Printf("Starting web server on %s", listen)
			return http.ListenAndServe(listen, srv.Routes())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides PORT / ARTICLE_AGENT_ADDR)")
	cmd.Flags().BoolVar(&mock, "mock", false, "use offline placeholder models")
	return cmd
}
