package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/radiantlabs/cyberboy/internal/client/backendapi"
	"github.com/radiantlabs/cyberboy/internal/client/localdata"
	"github.com/radiantlabs/cyberboy/internal/client/transcript"
	"github.com/radiantlabs/cyberboy/internal/client/usage"
	"github.com/radiantlabs/cyberboy/internal/model/chat"
	"github.com/radiantlabs/cyberboy/internal/model/telemetry"
)

// App is the terminal chat shell: plain lines are chat messages,
// slash-prefixed lines are commands.
type App struct {
	controller *transcript.Controller
	usage      *usage.Store
	api        *backendapi.Client
	local      localdata.Store

	in  *bufio.Reader
	out io.Writer

	printMu sync.Mutex
	printed int
}

// NewApp wires the shell to its services and seeds the transcript.
func NewApp(generator transcript.Generator, usageStore *usage.Store, api *backendapi.Client, local localdata.Store, revealInterval time.Duration) *App {
	a := &App{
		usage: usageStore,
		api:   api,
		local: local,
		in:    bufio.NewReader(os.Stdin),
		out:   os.Stdout,
	}
	a.controller = transcript.New(generator, usageStore, transcript.Options{
		RevealInterval: revealInterval,
		OnDelta:        a.printDelta,
	})
	return a
}

// Run starts the read-eval loop. It returns on EOF, /quit, or context
// cancellation.
func (a *App) Run(ctx context.Context) {
	defer a.controller.Close()

	fmt.Fprintln(a.out, "Cyber Boy — neural assistant terminal")
	if identity, ok := a.api.StoredIdentity(); ok {
		fmt.Fprintf(a.out, "logged in as %s\n", identity.Email)
	}
	if msg, ok := a.controller.LastMessage(); ok {
		fmt.Fprintf(a.out, "\nbot> %s\n", msg.Text)
	}
	fmt.Fprintln(a.out, `type a message, or /help for commands`)

	for {
		fmt.Fprint(a.out, "\nyou> ")
		line, err := a.in.ReadString('\n')
		if err != nil {
			if line == "" {
				return
			}
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if quit := a.runCommand(ctx, line); quit {
				return
			}
			continue
		}

		a.send(ctx, line)

		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

func (a *App) send(ctx context.Context, text string) {
	a.printMu.Lock()
	a.printed = 0
	a.printMu.Unlock()

	task, err := a.controller.Submit(ctx, text)
	if err != nil {
		switch {
		case errors.Is(err, transcript.ErrEmptyMessage):
			return
		case errors.Is(err, transcript.ErrBusy):
			fmt.Fprintln(a.out, "still thinking, hold on...")
			return
		default:
			fmt.Fprintf(a.out, "error: %v\n", err)
			return
		}
	}

	fmt.Fprint(a.out, "bot> ")

	select {
	case <-task.Done():
	case <-ctx.Done():
		task.Cancel()
	}

	// Error replies skip the reveal loop; print them whole.
	if msg, ok := a.controller.LastMessage(); ok && msg.IsError {
		fmt.Fprint(a.out, msg.Text)
	}
	fmt.Fprintln(a.out)
}

// printDelta writes only the yet-unprinted tail of the revealed text,
// giving the typewriter effect.
func (a *App) printDelta(msg chat.Message) {
	a.printMu.Lock()
	defer a.printMu.Unlock()

	if len(msg.Text) <= a.printed {
		return
	}
	fmt.Fprint(a.out, msg.Text[a.printed:])
	a.printed = len(msg.Text)
}

func (a *App) runCommand(ctx context.Context, line string) (quit bool) {
	fields := strings.Fields(line)
	cmd := fields[0]

	switch cmd {
	case "/help":
		fmt.Fprintln(a.out, "commands: /login /register /logout /delete-account /stats /clear /theme [dark|light] /quit")

	case "/login":
		a.login(ctx)

	case "/register":
		a.register(ctx)

	case "/logout":
		a.api.Logout(ctx)
		fmt.Fprintln(a.out, "logged out")

	case "/delete-account":
		a.deleteAccount(ctx)

	case "/stats":
		a.printStats()

	case "/clear":
		a.controller.Reset()
		if msg, ok := a.controller.LastMessage(); ok {
			fmt.Fprintf(a.out, "bot> %s\n", msg.Text)
		}

	case "/theme":
		a.theme(fields[1:])

	case "/quit", "/exit":
		return true

	default:
		fmt.Fprintf(a.out, "unknown command %s, try /help\n", cmd)
	}
	return false
}

func (a *App) login(ctx context.Context) {
	email, err := a.promptLine("Email: ")
	if err != nil {
		return
	}
	password, err := a.promptPassword("Password: ")
	if err != nil {
		return
	}

	identity, err := a.api.Login(ctx, email, password)
	if err != nil {
		fmt.Fprintf(a.out, "login failed: %v\n", err)
		return
	}
	fmt.Fprintf(a.out, "welcome back, %s\n", identity.Email)
}

func (a *App) register(ctx context.Context) {
	email, err := a.promptLine("Email: ")
	if err != nil {
		return
	}
	password, err := a.promptPassword("Password: ")
	if err != nil {
		return
	}

	if _, err := a.api.Register(ctx, email, password); err != nil {
		fmt.Fprintf(a.out, "registration failed: %v\n", err)
		return
	}
	fmt.Fprintln(a.out, "account created, use /login to sign in")
}

func (a *App) deleteAccount(ctx context.Context) {
	answer, err := a.promptLine("Delete your account? This cannot be undone. [y/N]: ")
	if err != nil || !strings.EqualFold(answer, "y") {
		fmt.Fprintln(a.out, "cancelled")
		return
	}

	if err := a.api.DeleteAccount(ctx); err != nil {
		fmt.Fprintf(a.out, "delete failed: %v\n", err)
		return
	}
	fmt.Fprintln(a.out, "account deleted")
}

func (a *App) theme(args []string) {
	if len(args) == 0 {
		current, ok, _ := a.local.Get(localdata.KeyTheme)
		if !ok {
			current = "dark"
		}
		fmt.Fprintf(a.out, "theme: %s\n", current)
		return
	}

	mode := args[0]
	if mode != "dark" && mode != "light" {
		fmt.Fprintln(a.out, "usage: /theme dark|light")
		return
	}
	if err := a.local.Set(localdata.KeyTheme, mode); err != nil {
		fmt.Fprintf(a.out, "failed to save theme: %v\n", err)
		return
	}
	fmt.Fprintf(a.out, "theme set to %s\n", mode)
}

func (a *App) printStats() {
	agg := a.usage.Read()

	errorCount := 0
	for _, entry := range agg.RecentActivity {
		if entry.Kind == telemetry.ActivityError {
			errorCount++
		}
	}
	successRate := 100.0
	if agg.TotalQueries > 0 {
		successRate = float64(agg.TotalQueries-errorCount) / float64(agg.TotalQueries) * 100
	}

	fmt.Fprintf(a.out, "Total queries:  %d\n", agg.TotalQueries)
	fmt.Fprintf(a.out, "Total messages: %d\n", agg.TotalMessages)
	fmt.Fprintf(a.out, "User messages:  %d\n", agg.TotalUserMessages)
	fmt.Fprintf(a.out, "Bot messages:   %d\n", agg.TotalBotMessages)
	fmt.Fprintf(a.out, "Success rate:   %.1f%%\n", successRate)

	if agg.LastUpdated != nil {
		fmt.Fprintf(a.out, "Last updated:   %s\n", usage.FormatRelativeTime(*agg.LastUpdated))
	} else {
		fmt.Fprintln(a.out, "Last updated:   Never")
	}

	if len(agg.RecentActivity) == 0 {
		return
	}
	fmt.Fprintln(a.out, "\nRecent activity:")
	shown := agg.RecentActivity
	if len(shown) > 10 {
		shown = shown[:10]
	}
	for _, entry := range shown {
		fmt.Fprintf(a.out, "  [%-7s] %s (%s)\n", entry.Kind, entry.Action, usage.FormatRelativeTime(entry.Time))
	}
}
