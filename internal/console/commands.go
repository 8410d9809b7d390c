package console

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"event-checkin/internal/client"
	"event-checkin/internal/model"

	"github.com/google/uuid"
)

type command struct {
	usage   string
	admin   bool
	user    bool
	details bool // only valid in the event details view
	run     func(a *App, ctx context.Context, arg string)
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"help":     {usage: "help", admin: true, user: true, run: (*App).cmdHelp},
		"events":   {usage: "events", admin: true, user: true, run: (*App).cmdEvents},
		"open":     {usage: "open <event id | number>", admin: true, user: true, run: (*App).cmdOpen},
		"refresh":  {usage: "refresh", admin: true, user: true, run: (*App).cmdRefresh},
		"search":   {usage: "search <text>", admin: true, user: true, run: (*App).cmdSearch},
		"status":   {usage: "status", admin: true, user: true, details: true, run: (*App).cmdStatus},
		"checkin":  {usage: "checkin <person id>", user: true, details: true, run: (*App).cmdCheckIn},
		"create":   {usage: "create <name> | <date, e.g. 2026-06-01 19:00> | <description>", admin: true, run: (*App).cmdCreate},
		"delete":   {usage: "delete <event id | number>", admin: true, run: (*App).cmdDelete},
		"upload":   {usage: "upload <file.csv>", admin: true, details: true, run: (*App).cmdUpload},
		"toggle":   {usage: "toggle <person id>", admin: true, details: true, run: (*App).cmdToggle},
		"remove":   {usage: "remove <person id>", admin: true, details: true, run: (*App).cmdRemove},
		"filter":   {usage: "filter all|in|out", admin: true, details: true, run: (*App).cmdFilter},
		"activity": {usage: "activity [limit]", admin: true, details: true, run: (*App).cmdActivity},
	}
}

var commandOrder = []string{
	"help", "events", "open", "refresh", "search", "status", "checkin",
	"create", "delete", "upload", "toggle", "remove", "filter", "activity",
}

func (c command) allowed(mode Mode) bool {
	if mode == ModeAdmin {
		return c.admin
	}
	return c.user
}

// dispatch runs one input line and reports whether the user asked to quit.
func (a *App) dispatch(ctx context.Context, line string) bool {
	if line == "" {
		return false
	}
	name, arg, _ := strings.Cut(line, " ")
	name = strings.ToLower(name)
	arg = strings.TrimSpace(arg)

	if name == "quit" || name == "exit" {
		return true
	}
	cmd, ok := commands[name]
	if !ok || !cmd.allowed(a.mode) {
		a.printf("unknown command %q, type 'help'\n", sanitize(name))
		return false
	}
	if v, _, _, _ := a.snapshot(); cmd.details && v != viewDetails {
		a.printf("open an event first\n")
		return false
	}
	cmd.run(a, ctx, arg)
	return false
}

func (a *App) cmdHelp(context.Context, string) {
	var b strings.Builder
	b.WriteString("commands:\n")
	for _, name := range commandOrder {
		if cmd := commands[name]; cmd.allowed(a.mode) {
			fmt.Fprintf(&b, "  %s\n", cmd.usage)
		}
	}
	b.WriteString("  quit\n")
	a.printf("%s", b.String())
}

func (a *App) cmdEvents(ctx context.Context, _ string) {
	a.showEvents(ctx)
}

func (a *App) cmdOpen(ctx context.Context, arg string) {
	eventID, err := a.resolveEvent(arg)
	if err != nil {
		a.printf("! %s\n", sanitize(err.Error()))
		return
	}
	a.enter(ctx, viewDetails, eventID)
}

func (a *App) cmdRefresh(ctx context.Context, _ string) {
	a.reload(ctx)
}

func (a *App) cmdSearch(_ context.Context, arg string) {
	v, _, current, events := a.snapshot()
	if v == viewEvents {
		matches := client.SearchEvents(events, arg, a.mode == ModeUser)
		a.mu.Lock()
		defer a.mu.Unlock()
		a.renderEvents(matches)
		return
	}

	if strings.TrimSpace(arg) == "" {
		a.printf("enter a name or email to search\n")
		return
	}
	matches := client.SearchPeopleInEvent(current, arg)
	if len(matches) == 0 {
		a.printf("no attendees match %q\n", sanitize(arg))
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.renderPeople(matches)
}

func (a *App) cmdStatus(ctx context.Context, _ string) {
	_, eventID, _, _ := a.snapshot()
	status, err := a.api.Status(ctx, eventID)
	if err != nil {
		a.notice("status", err)
		return
	}
	a.printf("%s: %d of %d checked in, %d remaining\n",
		sanitize(status.EventName), status.CheckedInCount, status.TotalPeople, status.NotCheckedInCount)
}

func (a *App) cmdCheckIn(ctx context.Context, arg string) {
	personID, ok := a.parsePerson(arg)
	if !ok {
		return
	}
	_, eventID, current, _ := a.snapshot()
	if p := findPerson(current, personID); p != nil && p.CheckedIn {
		a.printf("%s is already checked in\n", sanitize(p.Name))
		return
	}
	msg, err := a.api.CheckIn(ctx, eventID, personID)
	if err != nil {
		a.notice("check-in", err)
	} else {
		a.printf("%s\n", sanitize(msg))
	}
	a.reload(ctx)
}

func (a *App) cmdCreate(ctx context.Context, arg string) {
	parts := strings.SplitN(arg, "|", 3)
	for len(parts) < 3 {
		parts = append(parts, "")
	}
	name := strings.TrimSpace(parts[0])
	if name == "" {
		a.printf("usage: %s\n", commands["create"].usage)
		return
	}
	date, ok := parseDate(strings.TrimSpace(parts[1]))
	if !ok {
		a.printf("could not read the date, using the current time\n")
	}

	created, err := a.api.CreateEvent(ctx, model.CreateEventRequest{
		Name:        name,
		Date:        date,
		Description: strings.TrimSpace(parts[2]),
	})
	if err != nil {
		a.notice("create event", err)
		a.reload(ctx)
		return
	}
	a.printf("created %s\n", created.ID)
	a.enter(ctx, viewDetails, created.ID)
}

func (a *App) cmdDelete(ctx context.Context, arg string) {
	eventID, err := a.resolveEvent(arg)
	if err != nil {
		a.printf("! %s\n", sanitize(err.Error()))
		return
	}
	if !a.confirm("Delete this event?") {
		a.printf("cancelled\n")
		return
	}
	if err := a.api.DeleteEvent(ctx, eventID); err != nil {
		a.notice("delete event", err)
	} else {
		a.printf("event deleted\n")
	}
	a.showEvents(ctx)
}

func (a *App) cmdUpload(ctx context.Context, arg string) {
	if arg == "" {
		a.printf("usage: %s\n", commands["upload"].usage)
		return
	}
	f, err := a.openFile(arg)
	if err != nil {
		a.notice("open file", err)
		return
	}
	defer f.Close()

	_, eventID, _, _ := a.snapshot()
	result, err := a.api.UploadCSV(ctx, eventID, filepath.Base(arg), f)
	if err != nil {
		a.notice("upload", err)
	} else {
		a.printf("%s\n", sanitize(result.Message))
	}
	a.reload(ctx)
}

func (a *App) cmdToggle(ctx context.Context, arg string) {
	personID, ok := a.parsePerson(arg)
	if !ok {
		return
	}
	_, eventID, _, _ := a.snapshot()
	result, err := a.api.Toggle(ctx, eventID, personID)
	if err != nil {
		a.notice("toggle", err)
	} else {
		a.printf("%s\n", sanitize(result.Message))
	}
	a.reload(ctx)
}

func (a *App) cmdRemove(ctx context.Context, arg string) {
	personID, ok := a.parsePerson(arg)
	if !ok {
		return
	}
	if !a.confirm("Are you sure you want to remove this person?") {
		a.printf("cancelled\n")
		return
	}
	_, eventID, _, _ := a.snapshot()
	msg, err := a.api.RemovePerson(ctx, eventID, personID)
	if err != nil {
		a.notice("remove person", err)
	} else {
		a.printf("%s\n", sanitize(msg))
	}
	a.reload(ctx)
}

func (a *App) cmdFilter(_ context.Context, arg string) {
	f := attendeeFilter(strings.ToLower(arg))
	switch f {
	case filterAll, filterCheckedIn, filterNotCheckedIn:
	default:
		a.printf("usage: %s\n", commands["filter"].usage)
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.filter = f
	if a.current != nil {
		a.renderDetails(a.current)
	}
}

func (a *App) cmdActivity(ctx context.Context, arg string) {
	limit := 0
	if arg != "" {
		if _, err := fmt.Sscanf(arg, "%d", &limit); err != nil || limit < 1 {
			a.printf("usage: %s\n", commands["activity"].usage)
			return
		}
	}
	_, eventID, _, _ := a.snapshot()
	list, err := a.api.Activity(ctx, eventID, limit)
	if err != nil {
		a.notice("activity", err)
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.renderActivity(list)
}

func (a *App) parsePerson(arg string) (uuid.UUID, bool) {
	id, err := uuid.Parse(arg)
	if err != nil {
		a.printf("! %q is not a person id\n", sanitize(arg))
		return uuid.Nil, false
	}
	return id, true
}

func findPerson(event *model.Event, personID uuid.UUID) *model.Person {
	if event == nil {
		return nil
	}
	for _, p := range event.People {
		if p.ID == personID {
			return p
		}
	}
	return nil
}

var dateLayouts = []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02T15:04", "2006-01-02"}

// parseDate reads a local date, falling back to now when value is blank or unreadable.
func parseDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Now(), true
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, true
		}
	}
	return time.Now(), false
}
