// Package tui is the full-screen front-end built on termui.
package tui

import (
	"context"
	"fmt"
	"log/slog"

	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"
	"github.com/webitel/im-room-client/internal/domain/model"
	"github.com/webitel/im-room-client/internal/domain/output"
	"github.com/webitel/im-room-client/internal/service"
)

var fieldTitles = [2]string{"Create room", "Join room"}

type Screen struct {
	commander service.Commander
	lines     *output.Log
	logger    *slog.Logger

	form   form
	status string
}

func New(commander service.Commander, lines *output.Log, logger *slog.Logger) *Screen {
	return &Screen{
		commander: commander,
		lines:     lines,
		logger:    logger,
	}
}

// Run owns the terminal until Esc/Ctrl-C or ctx cancellation.
func (s *Screen) Run(ctx context.Context) error {
	if err := ui.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer ui.Close()

	list := widgets.NewList()
	list.WrapText = true

	inputs := [2]*widgets.Paragraph{widgets.NewParagraph(), widgets.NewParagraph()}

	grid := ui.NewGrid()
	grid.Set(
		ui.NewRow(0.85, list),
		ui.NewRow(0.15,
			ui.NewCol(0.5, inputs[0]),
			ui.NewCol(0.5, inputs[1]),
		),
	)
	w, h := ui.TerminalDimensions()
	grid.SetRect(0, 0, w, h)

	// [COALESCING] Lines arrive from the bus goroutine; one pending redraw is enough.
	redraw := make(chan struct{}, 1)
	unsubscribe := s.lines.Subscribe(func(output.Line) {
		select {
		case redraw <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	render := func() {
		list.Rows = s.lines.Texts()
		list.ScrollBottom()
		list.Title = "Output"
		if s.status != "" {
			list.Title = "Output | " + s.status
		}
		for i, p := range inputs {
			p.Title = fieldTitles[i]
			p.Text = s.form.value(i)
			p.BorderStyle = ui.NewStyle(ui.ColorWhite)
			if i == s.form.focus {
				p.BorderStyle = ui.NewStyle(ui.ColorYellow)
				p.Text += "_"
			}
		}
		ui.Render(grid)
	}
	render()

	events := ui.PollEvents()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-redraw:
			render()
		case e := <-events:
			switch e.Type {
			case ui.ResizeEvent:
				size := e.Payload.(ui.Resize)
				grid.SetRect(0, 0, size.Width, size.Height)
				ui.Clear()
			case ui.KeyboardEvent:
				cmd, submitted, quit := s.form.handle(e.ID)
				if quit {
					return nil
				}
				if submitted {
					s.submit(ctx, cmd)
				}
			}
			render()
		}
	}
}

func (s *Screen) submit(ctx context.Context, cmd model.RoomCommand) {
	var err error
	switch cmd.Action {
	case model.ActionCreate:
		err = s.commander.Create(ctx, cmd.Room)
	case model.ActionJoin:
		err = s.commander.Join(ctx, cmd.Room)
	}

	s.status = ""
	if err != nil {
		s.status = err.Error()
	}
}
