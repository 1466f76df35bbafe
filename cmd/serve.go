package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/ytgrab-cli/ytgrab/color"
	"github.com/ytgrab-cli/ytgrab/icon"
	"github.com/ytgrab-cli/ytgrab/key"
	"github.com/ytgrab-cli/ytgrab/style"
	"github.com/ytgrab-cli/ytgrab/web"
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("addr", "a", "", "Listen address")
	lo.Must0(viper.BindPFlag(key.ServeAddr, serveCmd.Flags().Lookup("addr")))

	serveCmd.Flags().StringP("backend", "b", "", "Backend the /api routes are forwarded to")
	lo.Must0(viper.BindPFlag(key.ServeBackend, serveCmd.Flags().Lookup("backend")))
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the /api proxy and a job overview page",
	Long: `Serve the download service under /api on a local address, the way the web front end does.
Clients configured with the default api.base_url talk to this proxy.
The root page lists all downloads and /healthz reports the proxy itself.`,
	Run: func(cmd *cobra.Command, args []string) {
		addr := viper.GetString(key.ServeAddr)
		backend := viper.GetString(key.ServeBackend)

		app, err := web.NewApp(backend)
		handleErr(err)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Printf(
			"%s serving %s on %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Purple)(backend),
			style.Fg(color.Yellow)(addr),
		)

		handleErr(web.ListenAndServe(ctx, addr, app.Router()))
	},
}
