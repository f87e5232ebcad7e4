package messages

import (
	"fmt"
	"strings"
	"time"

	"max.ks1230/expenses-bot/internal/entity/expense"
	"max.ks1230/expenses-bot/internal/model/period"
)

const dateLayout = "02.01.2006"

const commandParts = 2

func location(tz string) *time.Location {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}

func parseCommand(text string) (cmd, arg string) {
	text = strings.TrimSpace(text)
	split := strings.SplitN(text, " ", commandParts)

	if len(split) == commandParts {
		return split[0], split[1]
	}
	if strings.HasPrefix(text, "/") {
		return text, ""
	}
	return "", text
}

func formatRecordLine(rec expense.Record) string {
	line := fmt.Sprintf("[%d] %s - %s - %s",
		rec.ID, rec.Created.Format(dateLayout), rec.Category, rec.Amount)
	if rec.Description != "" {
		line += fmt.Sprintf(" (%s)", rec.Description)
	}
	return line
}

func periodHeading(tag string) string {
	switch tag {
	case period.Today:
		return "today"
	case period.Week:
		return "this week"
	case period.Month:
		return "this month"
	case period.Year:
		return "this year"
	}
	return tag
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
