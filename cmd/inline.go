package cmd

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/ytgrab-cli/ytgrab/api"
	"github.com/ytgrab-cli/ytgrab/config"
	"github.com/ytgrab-cli/ytgrab/filesystem"
	"github.com/ytgrab-cli/ytgrab/inline"
	"github.com/ytgrab-cli/ytgrab/query"
)

func init() {
	rootCmd.AddCommand(inlineCmd)

	inlineCmd.PersistentFlags().BoolP("json", "j", false, "Format the command output as JSON")
	inlineCmd.PersistentFlags().StringP("output", "o", "", "Write the output to this file")
}

var inlineCmd = &cobra.Command{
	Use:   "inline",
	Short: "Run lookups, downloads and listings without the TUI",
	Long: `Run the client non-interactively, for scripts.

Format selectors (--format, --video, --audio):
  first  - first format of the list
  last   - last format of the list
  [n]    - format at index n (starting from 0)
  <id>   - format with this id

--format picks among formats carrying both streams. --video and --audio pick
among the separate streams and cannot be mixed with --format. --best asks for
the best video and audio instead.`,
}

// inlineOptions collects the flags shared by the inline subcommands.
func inlineOptions(cmd *cobra.Command) (*inline.Options, func()) {
	client, err := api.FromConfig()
	handleErr(err)

	loc, err := config.Location()
	handleErr(err)

	var (
		out    io.Writer = os.Stdout
		closer           = func() {}
	)
	if output := lo.Must(cmd.Flags().GetString("output")); output != "" {
		file, err := filesystem.API().Create(output)
		handleErr(err)
		out = file
		closer = func() { _ = file.Close() }
	}

	return &inline.Options{
		Out:      out,
		Client:   client,
		Location: loc,
		Json:     lo.Must(cmd.Flags().GetBool("json")),
	}, closer
}

func addURLFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("url", "u", "", "Video URL")
	lo.Must0(cmd.MarkFlagRequired("url"))
	lo.Must0(cmd.RegisterFlagCompletionFunc("url", func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return query.SuggestMany(toComplete), cobra.ShellCompDirectiveNoFileComp
	}))
}

func addSelectorFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", "", "Selector for a format with both streams")
	cmd.Flags().StringP("video", "V", "", "Selector for the video stream")
	cmd.Flags().StringP("audio", "A", "", "Selector for the audio stream")
	cmd.Flags().BoolP("best", "b", false, "Use the best video and audio")
	cmd.MarkFlagsMutuallyExclusive("format", "video")
	cmd.MarkFlagsMutuallyExclusive("format", "audio")
	cmd.MarkFlagsMutuallyExclusive("best", "format")
	cmd.MarkFlagsMutuallyExclusive("best", "video")
	cmd.MarkFlagsMutuallyExclusive("best", "audio")
}

func selector(cmd *cobra.Command, name string) mo.Option[inline.FormatPicker] {
	value := lo.Must(cmd.Flags().GetString(name))
	if value == "" {
		return mo.None[inline.FormatPicker]()
	}

	picker, err := inline.ParseFormatPicker(value)
	handleErr(err)
	return mo.Some(picker)
}

func applySelectors(cmd *cobra.Command, options *inline.Options) {
	options.URL = lo.Must(cmd.Flags().GetString("url"))
	options.Format = selector(cmd, "format")
	options.Video = selector(cmd, "video")
	options.Audio = selector(cmd, "audio")
	options.Best = lo.Must(cmd.Flags().GetBool("best"))
}

func init() {
	inlineCmd.AddCommand(inlineFormatsCmd)
	addURLFlag(inlineFormatsCmd)
	inlineFormatsCmd.Flags().StringP("kind", "k", "all", "Which formats to list: all, combined, video or audio")
	lo.Must0(inlineFormatsCmd.RegisterFlagCompletionFunc("kind", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"all", "combined", "video", "audio"}, cobra.ShellCompDirectiveNoFileComp
	}))
}

var inlineFormatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List the formats available for a URL",
	Run: func(cmd *cobra.Command, args []string) {
		options, done := inlineOptions(cmd)
		defer done()

		kind, err := inline.ParseKind(lo.Must(cmd.Flags().GetString("kind")))
		handleErr(err)

		options.URL = lo.Must(cmd.Flags().GetString("url"))
		options.Kind = kind
		handleErr(inline.Formats(context.Background(), options))
	},
}

func init() {
	inlineCmd.AddCommand(inlineDownloadCmd)
	addURLFlag(inlineDownloadCmd)
	addSelectorFlags(inlineDownloadCmd)
}

var inlineDownloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Start a download now",
	Run: func(cmd *cobra.Command, args []string) {
		options, done := inlineOptions(cmd)
		defer done()

		applySelectors(cmd, options)
		handleErr(inline.Download(context.Background(), options))
	},
}

func init() {
	inlineCmd.AddCommand(inlineScheduleCmd)
	addURLFlag(inlineScheduleCmd)
	addSelectorFlags(inlineScheduleCmd)

	inlineScheduleCmd.Flags().StringP("date", "d", "", "Local date, YYYY-MM-DD")
	inlineScheduleCmd.Flags().StringP("time", "t", "", "Local time, HH:MM or HH:MM:SS")
	lo.Must0(inlineScheduleCmd.MarkFlagRequired("date"))
	lo.Must0(inlineScheduleCmd.MarkFlagRequired("time"))
}

var inlineScheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Schedule a download for a local date and time",
	Long: `Schedule a download for a local date and time.
The time is read in schedule.timezone and sent to the service in UTC.
Streams without a selector default to the best available.`,
	Run: func(cmd *cobra.Command, args []string) {
		options, done := inlineOptions(cmd)
		defer done()

		applySelectors(cmd, options)
		options.Date = lo.Must(cmd.Flags().GetString("date"))
		options.Time = lo.Must(cmd.Flags().GetString("time"))
		handleErr(inline.Schedule(context.Background(), options))
	},
}

func init() {
	inlineCmd.AddCommand(inlineJobsCmd)
	inlineJobsCmd.Flags().StringP("tab", "t", "all", "Which downloads to list: all, completed or scheduled")
}

var inlineJobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List downloads",
	Run: func(cmd *cobra.Command, args []string) {
		options, done := inlineOptions(cmd)
		defer done()

		tab, err := inline.ParseTab(lo.Must(cmd.Flags().GetString("tab")))
		handleErr(err)

		options.Tab = tab
		handleErr(inline.Jobs(context.Background(), options))
	},
}

func init() {
	inlineCmd.AddCommand(inlineSchemaCmd)
}

var inlineSchemaCmd = &cobra.Command{
	Use:       "schema [formats|submit|jobs]",
	Short:     "Print the JSON schema of an inline output",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: inline.Schemas,
	Run: func(cmd *cobra.Command, args []string) {
		name := "formats"
		if len(args) > 0 {
			name = args[0]
		}

		schema, err := inline.Schema(name)
		handleErr(err)
		handleErr(json.NewEncoder(os.Stdout).Encode(schema))
	},
}
