package console

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"
	"unicode"

	"event-checkin/internal/model"
)

const (
	dateLayout         = "Mon Jan 2 2006 15:04"
	maxDescriptionCell = 50
)

// sanitize makes server-supplied text safe to print: control characters,
// including terminal escapes, are dropped and line breaks become spaces.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			return ' '
		case unicode.IsControl(r), unicode.Is(unicode.Cf, r):
			return -1
		}
		return r
	}, s)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

// The render helpers expect a.mu to be held.

// renderEvents prints the list and remembers its order for "open <number>".
func (a *App) renderEvents(events []*model.Event) {
	a.listed = events
	if len(events) == 0 {
		fmt.Fprintln(a.out, "no events")
		return
	}

	list := events
	if a.mode == ModeUser {
		list = append([]*model.Event(nil), events...)
		sort.SliceStable(list, func(i, j int) bool { return list[i].Date.Before(list[j].Date) })
		a.listed = list
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tDATE\tDESCRIPTION\tCHECKED IN\tID")
	for i, e := range list {
		checkedIn, _ := model.PartitionByCheckIn(e.People)
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d / %d\t%s\n",
			i+1,
			sanitize(e.Name),
			e.Date.Local().Format(dateLayout),
			sanitize(truncate(e.Description, maxDescriptionCell)),
			len(checkedIn), len(e.People),
			e.ID,
		)
	}
	tw.Flush()
}

func (a *App) renderDetails(event *model.Event) {
	fmt.Fprintf(a.out, "Event: %s\n", sanitize(event.Name))
	fmt.Fprintf(a.out, "Date: %s\n", event.Date.Local().Format(dateLayout))
	if event.Description != "" {
		fmt.Fprintf(a.out, "Description: %s\n", sanitize(event.Description))
	}
	fmt.Fprintf(a.out, "Attendees: %d\n", len(event.People))

	people := event.People
	checkedIn, notCheckedIn := model.PartitionByCheckIn(people)
	switch a.filter {
	case filterCheckedIn:
		people = checkedIn
	case filterNotCheckedIn:
		people = notCheckedIn
	}
	if len(people) == 0 {
		switch a.filter {
		case filterCheckedIn:
			fmt.Fprintln(a.out, "No checked-in attendees found.")
		case filterNotCheckedIn:
			fmt.Fprintln(a.out, "No non-checked-in attendees found.")
		default:
			fmt.Fprintln(a.out, "No attendees.")
		}
		return
	}
	a.renderPeople(people)
}

func (a *App) renderPeople(people []*model.Person) {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tEMAIL\tSTATUS\tCHECK-IN TIME\tID")
	for _, p := range people {
		status, at := "Not Checked In", "-"
		if p.CheckedIn {
			status = "Checked In"
			if p.CheckInTime != nil {
				at = p.CheckInTime.Local().Format("Jan 2 15:04")
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", sanitize(p.Name), sanitize(p.Email), status, at, p.ID)
	}
	tw.Flush()
}

func (a *App) renderActivity(list []*model.CheckinActivity) {
	if len(list) == 0 {
		fmt.Fprintln(a.out, "no activity yet")
		return
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tACTION\tWHO")
	for _, entry := range list {
		who := sanitize(entry.PersonName)
		if entry.Action == model.ActivityRosterReplaced {
			who = fmt.Sprintf("%d people", entry.Count)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", entry.OccurredAt.Local().Format("Jan 2 15:04:05"), entry.Action, who)
	}
	tw.Flush()
}
