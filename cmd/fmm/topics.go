package fmm

import (
	"embed"
	"io/fs"

	"github.com/fossmodmanager/fmm/pkg/cobrax/topics"
	"github.com/fossmodmanager/fmm/pkg/logging"
	"github.com/spf13/cobra"
)

//go:embed topics/*.md
var topicFiles embed.FS

// initHelpTopics adds the embedded topics to rootCmd's help command
func initHelpTopics(rootCmd *cobra.Command) {
	source, err := fs.Sub(topicFiles, "topics")
	if err != nil {
		logger := logging.GetLogger("cmd.topics")
		logger.Warn().Err(err).Msg("Help topics unavailable")
		return
	}

	var renderer topics.Renderer = &topics.PlainRenderer{}
	if stdoutIsTerminal() {
		renderer = topics.NewGlamourRenderer()
	}
	if _, err := topics.Initialize(rootCmd, source, topics.Options{Renderer: renderer}); err != nil {
		logger := logging.GetLogger("cmd.topics")
		logger.Warn().Err(err).Msg("Help topics unavailable")
	}
}
