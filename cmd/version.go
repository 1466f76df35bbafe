package cmd

import (
	"context"
	"os"
	"runtime"
	"strings"
	"text/template"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/ytgrab-cli/ytgrab/color"
	"github.com/ytgrab-cli/ytgrab/constant"
	"github.com/ytgrab-cli/ytgrab/log"
	"github.com/ytgrab-cli/ytgrab/style"
	"github.com/ytgrab-cli/ytgrab/version"
)

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.SetOut(os.Stdout)
	versionCmd.Flags().BoolP("short", "s", false, "Only print the version number")
	versionCmd.Flags().BoolP("latest", "l", false, "Also look up the latest release")
}

var versionTemplate = lo.Must(template.New("version").Funcs(map[string]any{
	"faint":   style.Faint,
	"bold":    style.Bold,
	"magenta": style.Fg(color.Purple),
	"green":   style.Fg(color.Green),
}).Parse(`{{ magenta "▇▇▇" }} {{ magenta .App }}

  {{ faint "Version" }}         {{ bold .Version }}
  {{ faint "Git Commit" }}      {{ bold .Revision }}
  {{ faint "Build Date" }}      {{ bold .BuiltAt }}
  {{ faint "Built By" }}        {{ bold .BuiltBy }}
  {{ faint "Platform" }}        {{ bold .OS }}/{{ bold .Arch }}
  {{ faint "User Agent" }}      {{ bold .UserAgent }}
{{- if .Latest }}
  {{ faint "Latest" }}          {{ green .Latest }}
{{- end }}
`))

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and build information",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("short")) {
			cmd.Println(constant.Version)
			return
		}

		info := struct {
			App, Version, Revision, BuiltAt, BuiltBy string
			OS, Arch, UserAgent, Latest              string
		}{
			App:       constant.App,
			Version:   constant.Version,
			Revision:  constant.Revision,
			BuiltAt:   strings.TrimSpace(constant.BuiltAt),
			BuiltBy:   constant.BuiltBy,
			OS:        runtime.GOOS,
			Arch:      runtime.GOARCH,
			UserAgent: constant.UserAgent,
		}

		if lo.Must(cmd.Flags().GetBool("latest")) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			latest, err := version.Latest(ctx)
			if err != nil {
				log.Warnf("latest release: %s", err)
			}
			info.Latest = latest
		} else {
			defer version.Notify()
		}

		handleErr(versionTemplate.Execute(cmd.OutOrStdout(), info))
	},
}
