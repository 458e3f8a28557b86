// Package console is the default line-oriented front-end: commands on stdin,
// output lines on stdout.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/webitel/im-room-client/internal/domain/output"
	"github.com/webitel/im-room-client/internal/domain/registry"
	"github.com/webitel/im-room-client/internal/service"
)

const helpText = `commands:
  create <name>  create a room
  join <name>    join a room
  rooms          list rooms known to this client
  quit           disconnect and exit`

type Console struct {
	in  io.Reader
	out io.Writer

	commander service.Commander
	lines     *output.Log
	directory registry.Directorier
	logger    *slog.Logger

	outMu   sync.Mutex
	printed uint64
}

type Option func(*Console)

// WithIO replaces stdin/stdout.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(c *Console) {
		c.in = in
		c.out = out
	}
}

func New(commander service.Commander, lines *output.Log, directory registry.Directorier, logger *slog.Logger, opts ...Option) *Console {
	c := &Console{
		in:        os.Stdin,
		out:       os.Stdout,
		commander: commander,
		lines:     lines,
		directory: directory,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run mirrors the output log and executes commands until quit, EOF or ctx cancellation.
func (c *Console) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	unsubscribe := c.mirror()
	defer unsubscribe()

	input := make(chan string)
	go func() {
		defer close(input)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case input <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			c.logger.Warn("CONSOLE_READ_FAILED", "err", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-input:
			if !ok {
				return nil
			}
			if quit := c.execute(ctx, line); quit {
				return nil
			}
		}
	}
}

// mirror prints the history once and every later line, without gaps or repeats.
func (c *Console) mirror() func() {
	c.outMu.Lock()
	defer c.outMu.Unlock()

	unsubscribe := c.lines.Subscribe(func(l output.Line) {
		c.outMu.Lock()
		defer c.outMu.Unlock()
		c.emit(l)
	})
	for _, l := range c.lines.Lines() {
		c.emit(l)
	}
	return unsubscribe
}

// emit must be called with outMu held.
func (c *Console) emit(l output.Line) {
	if l.Seq <= c.printed {
		return
	}
	c.printed = l.Seq
	fmt.Fprintln(c.out, l.Text)
}

func (c *Console) println(text string) {
	c.outMu.Lock()
	defer c.outMu.Unlock()
	fmt.Fprintln(c.out, text)
}

func (c *Console) execute(ctx context.Context, line string) (quit bool) {
	verb, arg := parseCommand(line)

	var err error
	switch verb {
	case "":
		return false
	case "create":
		err = c.commander.Create(ctx, arg)
	case "join":
		err = c.commander.Join(ctx, arg)
	case "rooms":
		c.printRooms()
	case "help", "?":
		c.println(helpText)
	case "quit", "exit":
		return true
	default:
		c.println(fmt.Sprintf("unknown command %q, type help", verb))
	}

	if err != nil {
		c.println("! " + err.Error())
	}
	return false
}

func (c *Console) printRooms() {
	names := c.directory.Names()
	if len(names) == 0 {
		c.println("(no known rooms)")
		return
	}
	c.println(strings.Join(names, "\n"))
}

// parseCommand splits "verb rest of line"; the room name keeps its inner spaces.
func parseCommand(line string) (verb, arg string) {
	line = strings.TrimSpace(line)
	verb, arg, _ = strings.Cut(line, " ")
	return strings.ToLower(verb), strings.TrimSpace(arg)
}
