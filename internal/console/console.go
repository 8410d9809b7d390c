// Package console is a line-oriented terminal front end for the check-in API.
// It keeps one active view (the event list or one event's details), refreshes
// it on a timer while it is active and reloads it after every mutation.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"event-checkin/internal/client"
	"event-checkin/internal/model"
	"event-checkin/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DefaultRefreshInterval = 60 * time.Second

type Mode string

const (
	ModeAdmin Mode = "admin"
	ModeUser  Mode = "user"
)

// API is the part of client.Client the console drives.
type API interface {
	ListEvents(ctx context.Context) ([]*model.Event, error)
	GetEvent(ctx context.Context, eventID uuid.UUID) (*model.Event, error)
	CreateEvent(ctx context.Context, req model.CreateEventRequest) (*model.Event, error)
	DeleteEvent(ctx context.Context, eventID uuid.UUID) error
	UploadCSV(ctx context.Context, eventID uuid.UUID, filename string, r io.Reader) (*client.UploadResult, error)
	RemovePerson(ctx context.Context, eventID, personID uuid.UUID) (string, error)
	CheckIn(ctx context.Context, eventID, personID uuid.UUID) (string, error)
	Toggle(ctx context.Context, eventID, personID uuid.UUID) (*client.ToggleResult, error)
	Status(ctx context.Context, eventID uuid.UUID) (*model.CheckInStatus, error)
	Activity(ctx context.Context, eventID uuid.UUID, limit int) ([]*model.CheckinActivity, error)
}

type view int

const (
	viewEvents view = iota
	viewDetails
)

type attendeeFilter string

const (
	filterAll          attendeeFilter = "all"
	filterCheckedIn    attendeeFilter = "in"
	filterNotCheckedIn attendeeFilter = "out"
)

type Options struct {
	Mode            Mode
	RefreshInterval time.Duration
	// OpenFile opens CSV files for upload. Defaults to os.Open.
	OpenFile func(name string) (io.ReadCloser, error)
}

type App struct {
	api      API
	mode     Mode
	interval time.Duration
	openFile func(name string) (io.ReadCloser, error)
	in       *bufio.Scanner
	poller   *client.Poller
	log      *zap.Logger

	// mu guards the view state below and serializes writes to out.
	mu      sync.Mutex
	out     io.Writer
	gen     uint64
	view    view
	eventID uuid.UUID
	events  []*model.Event
	listed  []*model.Event
	current *model.Event
	filter  attendeeFilter
}

func NewApp(api API, in io.Reader, out io.Writer, opts Options) *App {
	if opts.Mode == "" {
		opts.Mode = ModeUser
	}
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = DefaultRefreshInterval
	}
	if opts.OpenFile == nil {
		opts.OpenFile = func(name string) (io.ReadCloser, error) { return os.Open(name) }
	}
	return &App{
		api:      api,
		mode:     opts.Mode,
		interval: opts.RefreshInterval,
		openFile: opts.OpenFile,
		in:       bufio.NewScanner(in),
		poller:   client.NewPoller(),
		log:      logger.WithComponent("console"),
		out:      out,
		filter:   filterAll,
	}
}

// Run shows the event list and processes commands until quit, EOF or ctx cancellation.
func (a *App) Run(ctx context.Context) error {
	defer a.poller.Stop()

	a.printf("Event check-in console (%s mode). Type 'help' for commands.\n", a.mode)
	a.showEvents(ctx)

	for {
		a.printf("> ")
		line, ok := a.readLine()
		if !ok {
			a.printf("\n")
			return a.in.Err()
		}
		if ctx.Err() != nil {
			return nil
		}
		if quit := a.dispatch(ctx, line); quit {
			return nil
		}
	}
}

func (a *App) readLine() (string, bool) {
	if !a.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(a.in.Text()), true
}

func (a *App) printf(format string, args ...interface{}) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fmt.Fprintf(a.out, format, args...)
}

// notice reports a failed call. Nothing is retried.
func (a *App) notice(action string, err error) {
	a.log.Warn("request failed", zap.String("action", action), zap.Error(err))
	a.printf("! %s failed: %s\n", action, sanitize(err.Error()))
}

// confirm asks a yes/no question on the input stream. Anything but y/yes is a no.
func (a *App) confirm(question string) bool {
	a.printf("%s [y/N] ", question)
	answer, ok := a.readLine()
	if !ok {
		return false
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes"
}

// enter switches the active view and restarts its refresh loop. Responses issued
// for an earlier view carry an older generation and are dropped by load.
func (a *App) enter(ctx context.Context, v view, eventID uuid.UUID) {
	a.poller.Stop()

	a.mu.Lock()
	a.gen++
	gen := a.gen
	a.view = v
	a.eventID = eventID
	a.current = nil
	a.filter = filterAll
	a.mu.Unlock()

	a.poller.Start(ctx, a.interval, func(ctx context.Context) { a.load(ctx, gen) })
}

func (a *App) showEvents(ctx context.Context) {
	a.enter(ctx, viewEvents, uuid.Nil)
}

// reload refreshes the active view immediately.
func (a *App) reload(ctx context.Context) {
	a.mu.Lock()
	gen := a.gen
	a.mu.Unlock()
	a.load(ctx, gen)
}

func (a *App) load(ctx context.Context, gen uint64) {
	a.mu.Lock()
	v, eventID := a.view, a.eventID
	a.mu.Unlock()

	switch v {
	case viewEvents:
		events, err := a.api.ListEvents(ctx)
		if err != nil {
			if ctx.Err() == nil {
				a.notice("load events", err)
			}
			return
		}
		a.mu.Lock()
		defer a.mu.Unlock()
		if a.gen != gen {
			return
		}
		a.events = events
		a.renderEvents(events)

	case viewDetails:
		event, err := a.api.GetEvent(ctx, eventID)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if client.IsNotFound(err) {
				a.printf("! event no longer exists; type 'events' to go back\n")
				return
			}
			a.notice("load event", err)
			return
		}
		a.mu.Lock()
		defer a.mu.Unlock()
		if a.gen != gen {
			return
		}
		a.current = event
		a.renderDetails(event)
	}
}

// snapshot returns the state commands act on.
func (a *App) snapshot() (view, uuid.UUID, *model.Event, []*model.Event) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.view, a.eventID, a.current, a.events
}

// resolveEvent accepts an event id or a 1-based position in the last listed events.
func (a *App) resolveEvent(arg string) (uuid.UUID, error) {
	if id, err := uuid.Parse(arg); err == nil {
		return id, nil
	}
	a.mu.Lock()
	listed := a.listed
	a.mu.Unlock()
	var n int
	if _, err := fmt.Sscanf(arg, "%d", &n); err == nil && n >= 1 && n <= len(listed) {
		return listed[n-1].ID, nil
	}
	return uuid.Nil, fmt.Errorf("%q is not an event id or list number", arg)
}
