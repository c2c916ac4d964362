package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"dubsync/internal/config"
	"dubsync/internal/dubbing"
	"dubsync/internal/manifest"
	"dubsync/internal/media/ffprobe"
	"dubsync/internal/timeline"
)

func newMergeCommand(ctx *commandContext) *cobra.Command {
	var strategy string

	cmd := &cobra.Command{
		Use:   "merge <video> <manifest> <output>",
		Short: "Place dubbed clips on a video's timeline",
		Long: "Merge reads a JSON or YAML manifest of replacement clips and writes a video\n" +
			"whose audio follows them. auto_speedup mixes tempo-adjusted clips over the\n" +
			"original video; frame_blend, freeze_frame and rife rebuild the video around\n" +
			"each clip's length.",
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEngine(func(_ *config.Config, engine *dubbing.Engine) error {
				res := engine.MergeVideo(cmd.Context(), dubbing.MergeRequest{
					Video:    args[0],
					Manifest: args[1],
					Output:   args[2],
					Strategy: strategy,
				})
				return writeResult(ctx, cmd, "Merge", res)
			})
		},
	}
	cmd.Flags().StringVarP(&strategy, "strategy", "s", "", "Re-timing strategy (auto_speedup, frame_blend, freeze_frame, rife)")
	return cmd
}

func newAlignCommand(ctx *commandContext) *cobra.Command {
	var duration float64

	cmd := &cobra.Command{
		Use:   "align <input> <output>",
		Short: "Re-time an audio clip to a target duration",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if duration <= 0 {
				return fmt.Errorf("--duration must be positive")
			}
			return ctx.withEngine(func(_ *config.Config, engine *dubbing.Engine) error {
				res := engine.AlignAudio(cmd.Context(), args[0], args[1], duration)
				return writeResult(ctx, cmd, "Align", res)
			})
		},
	}
	cmd.Flags().Float64VarP(&duration, "duration", "d", 0, "Target duration in seconds")
	_ = cmd.MarkFlagRequired("duration")
	return cmd
}

func newSubtitlesCommand(ctx *commandContext) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "subtitles <segments.json>",
		Short: "Build an SRT file from recogniser segments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEngine(func(_ *config.Config, engine *dubbing.Engine) error {
				res := engine.GenerateSubtitles(cmd.Context(), args[0], output)
				return writeResult(ctx, cmd, "Subtitles", res)
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination SRT path (defaults beside the input)")
	return cmd
}

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var strategy string

	cmd := &cobra.Command{
		Use:   "plan <video> <manifest>",
		Short: "Show the chunk layout a merge would render",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			segments, err := manifest.Load(args[1])
			if err != nil {
				return err
			}
			return ctx.withEngine(func(_ *config.Config, engine *dubbing.Engine) error {
				report, err := engine.Plan(cmd.Context(), args[0], segments, strategy)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, report)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Video: %s (%.3fs)\nStrategy: %s\n", report.Video, report.Total, report.Strategy)
				fmt.Fprintln(out, renderTable(planColumns, planRows(report.Chunks)))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&strategy, "strategy", "s", "", "Re-timing strategy (defaults to sync.strategy)")
	return cmd
}

func planRows(chunks []timeline.Chunk) [][]string {
	rows := make([][]string, 0, len(chunks))
	for _, c := range chunks {
		clip := ""
		if c.Segment != nil {
			clip = c.Segment.Path
		}
		rows = append(rows, []string{
			strconv.Itoa(c.Index),
			string(c.Kind),
			fmt.Sprintf("%.3f", c.SourceStart),
			fmt.Sprintf("%.3f", c.SourceEnd()),
			fmt.Sprintf("%.3f", c.SourceDuration),
			clip,
		})
	}
	return rows
}

func newProbeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "probe <media>",
		Short: "Report container format, duration and codecs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			info, err := ffprobe.NewCLI(cfg.FFprobeBinary()).Analyze(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, info)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Format:    %s\n", info.FormatName)
			fmt.Fprintf(out, "Duration:  %.3fs\n", info.Duration)
			if info.VideoCodec != "" {
				fmt.Fprintf(out, "Video:     %s %dx%d @ %.3f fps\n", info.VideoCodec, info.Width, info.Height, info.FrameRate)
			}
			if info.AudioCodec != "" {
				fmt.Fprintf(out, "Audio:     %s\n", info.AudioCodec)
			}
			return nil
		},
	}
}
