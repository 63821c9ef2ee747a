package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mischadiehm/muka/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis pipeline as a tool-calling HTTP API",
	Long: `serve starts an HTTP service exposing the analysis tools: GET /tools
lists the catalog, POST /tools/<name> invokes a tool with a JSON argument
object. All tools operate on one shared dataset session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := cfg.ListenAddr
		if serveAddr != "" {
			addr = serveAddr
		}

		session := server.NewSession(cfg, log)
		router := server.NewRouter(session, log)

		fmt.Printf("✓ Session %s listening on %s\n", session.ID, addr)
		return router.Run(addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "listen address (default from config)")
}
