package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"cscript/internal/buildpipeline"
	"cscript/internal/ui"
)

// runBuildsWithUI запускает run в фоне, скармливая его события прогресс-модели
// bubbletea. Канал закрывает продюсер; модель завершает программу на doneMsg.
func runBuildsWithUI(ctx context.Context, title string, units []string, run func(context.Context, buildpipeline.ProgressSink) error) error {
	events := make(chan buildpipeline.Event, 256)
	done := make(chan error, 1)

	go func() {
		done <- run(ctx, buildpipeline.ChannelSink{Ch: events})
		close(events)
	}()

	model := ui.NewProgressModel(title, units, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	runErr := <-done
	if uiErr != nil {
		return uiErr
	}
	return runErr
}
