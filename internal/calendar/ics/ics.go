// internal/calendar/ics/ics.go
package ics

import (
	"fmt"
	"strings"
	"time"

	"careers-scheduling/internal/models"
)

// FallbackProdID identifies invites produced without any provider backing.
const FallbackProdID = "-//Careers Platform//Interview//EN"

const (
	dateLayout  = "20060102T150405Z"
	contentType = "text/calendar"
)

// Formatter renders a CalendarEvent as an iCalendar document. It is pure:
// for a fixed event, two invocations produce byte-identical output except
// for the DTSTAMP line. Adapters and the fallback path share one Formatter
// so the base format never diverges between the two call sites.
type Formatter struct {
	ProdID string
	Now    func() time.Time // DTSTAMP source, defaults to time.Now
}

// NewFormatter returns a Formatter with the given PRODID, or the plain
// fallback PRODID when empty.
func NewFormatter(prodID string) *Formatter {
	if prodID == "" {
		prodID = FallbackProdID
	}
	return &Formatter{ProdID: prodID}
}

// Format renders the event. Empty optional properties are omitted entirely
// rather than emitted blank.
func (f *Formatter) Format(event models.CalendarEvent) models.Invite {
	now := time.Now
	if f.Now != nil {
		now = f.Now
	}

	var b strings.Builder
	writeLine := func(line string) {
		b.WriteString(line)
		b.WriteString("\r\n")
	}

	writeLine("BEGIN:VCALENDAR")
	writeLine("VERSION:2.0")
	writeLine("PRODID:" + f.ProdID)
	writeLine("CALSCALE:GREGORIAN")
	writeLine("METHOD:REQUEST")
	writeLine("BEGIN:VEVENT")
	writeLine("UID:" + event.UID)
	writeLine("DTSTAMP:" + now().UTC().Format(dateLayout))
	writeLine("DTSTART:" + event.StartDate.UTC().Format(dateLayout))
	writeLine("DTEND:" + event.EndDate.UTC().Format(dateLayout))
	writeLine("SUMMARY:" + escapeText(event.Title))

	if desc := DescriptionWithMeetingInfo(event); desc != "" {
		writeLine("DESCRIPTION:" + escapeText(desc))
	}
	if event.Location != "" {
		writeLine("LOCATION:" + escapeText(event.Location))
	}
	if event.Organizer != "" {
		writeLine("ORGANIZER:mailto:" + event.Organizer)
	}

	for _, a := range event.Attendees {
		role := a.Role
		if role == "" {
			role = "REQ-PARTICIPANT"
		}
		line := fmt.Sprintf("ATTENDEE;ROLE=%s;PARTSTAT=NEEDS-ACTION;RSVP=TRUE", role)
		if a.Name != "" {
			line += ";CN=" + escapeParam(a.Name)
		}
		line += ":mailto:" + a.Email
		writeLine(line)
	}

	writeLine("BEGIN:VALARM")
	writeLine("TRIGGER:-PT15M")
	writeLine("ACTION:DISPLAY")
	writeLine("DESCRIPTION:Reminder")
	writeLine("END:VALARM")
	writeLine("END:VEVENT")
	writeLine("END:VCALENDAR")

	return models.Invite{
		Content:     b.String(),
		ContentType: contentType,
		Filename:    "invite.ics",
	}
}

// DescriptionWithMeetingInfo appends ad-hoc meeting credentials to the event
// description as free text; iCalendar has no dedicated property for them.
func DescriptionWithMeetingInfo(event models.CalendarEvent) string {
	parts := make([]string, 0, 4)
	if event.Description != "" {
		parts = append(parts, event.Description)
	}
	if event.OnlineMeetingURL != "" {
		parts = append(parts, "Meeting link: "+event.OnlineMeetingURL)
	}
	if event.MeetingID != "" {
		parts = append(parts, "Meeting ID: "+event.MeetingID)
	}
	if event.MeetingPassword != "" {
		parts = append(parts, "Meeting password: "+event.MeetingPassword)
	}
	return strings.Join(parts, "\n")
}

// escapeText escapes property text per RFC 5545: backslash first, then
// commas, semicolons, and newlines as literal \n.
func escapeText(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, ";", `\;`)
	s = strings.ReplaceAll(s, ",", `\,`)
	s = strings.ReplaceAll(s, "\r\n", `\n`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return s
}

// escapeParam makes a value safe for use inside a property parameter.
func escapeParam(s string) string {
	if strings.ContainsAny(s, ";:,") {
		s = strings.ReplaceAll(s, `"`, "")
		return `"` + s + `"`
	}
	return s
}
