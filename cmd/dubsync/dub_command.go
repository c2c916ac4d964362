package main

import (
	"strings"

	"github.com/spf13/cobra"

	"dubsync/internal/config"
	"dubsync/internal/dubbing"
)

func newDubCommand(ctx *commandContext) *cobra.Command {
	var targetLang string
	var sourceLang string
	var strategy string
	var srtPath string

	cmd := &cobra.Command{
		Use:   "dub <video> <output>",
		Short: "Transcribe, translate, voice and merge a video end to end",
		Long: "Dub transcribes the video with WhisperX, translates each line with the\n" +
			"configured chat model, voices it with the [tts] command using a reference\n" +
			"clip of the original speaker, and merges the result. Intermediate files are\n" +
			"kept in <output>_segments/.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEngine(func(cfg *config.Config, engine *dubbing.Engine) error {
				source := strings.TrimSpace(sourceLang)
				if source == "" {
					source = cfg.WhisperX.Language
				}
				pipeline := dubbing.NewPipeline(cfg, engine, targetLang)
				res := pipeline.Dub(cmd.Context(), dubbing.DubRequest{
					Video:          args[0],
					Output:         args[1],
					SourceLanguage: source,
					TargetLanguage: targetLang,
					Strategy:       strategy,
					Subtitles:      srtPath,
				})
				return writeResult(ctx, cmd, "Dub", res)
			})
		},
	}
	cmd.Flags().StringVarP(&targetLang, "lang", "l", "", "Target language for the dubbed audio")
	cmd.Flags().StringVar(&sourceLang, "source-lang", "", "Spoken language of the source (defaults to whisperx.language, empty auto-detects)")
	cmd.Flags().StringVarP(&strategy, "strategy", "s", "", "Re-timing strategy (defaults to sync.strategy)")
	cmd.Flags().StringVar(&srtPath, "subtitles", "", "Existing source-language SRT to dub instead of transcribing")
	_ = cmd.MarkFlagRequired("lang")
	return cmd
}
