package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"

	"github.com/FleetPro/service-dashboard/internal/application"
)

var (
	headerColor  = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed, color.Bold)
	dimColor     = color.New(color.Faint)
)

func newSpinner(w io.Writer, message string) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = " " + message
	return s
}

func statusColor(status string) *color.Color {
	switch status {
	case "active", "open", "approved":
		return successColor
	case "scheduled", "pending", "acknowledged", "on_leave":
		return warnColor
	case "cancelled", "rejected":
		return errorColor
	default:
		return dimColor
	}
}

func printRoutes(w io.Writer, routes []application.RouteDTO) {
	if len(routes) == 0 {
		_, _ = warnColor.Fprintln(w, "no routes found")
		return
	}
	for _, r := range routes {
		_, _ = headerColor.Fprintf(w, "#%d %s -> %s", r.ID, r.From, r.To)
		fmt.Fprint(w, "  ")
		_, _ = statusColor(r.Status).Fprintln(w, strings.ToUpper(r.Status))
		fmt.Fprintf(w, "   departs %s, %s | %s %s (%s) | driver %s\n",
			r.DepartureTime, r.Duration, r.VehicleIcon, r.VehicleType, r.VehicleNumber, r.DriverName)
		seats := fmt.Sprintf("%d/%d seats available", r.AvailableSeats, r.TotalSeats)
		if r.AvailableSeats == 0 {
			_, _ = errorColor.Fprint(w, "   "+seats)
		} else {
			_, _ = successColor.Fprint(w, "   "+seats)
		}
		_, _ = dimColor.Fprintf(w, " | %d%% match\n", r.Confidence)
	}
}

func printAlerts(w io.Writer, alerts []application.SOSAlertDTO) {
	if len(alerts) == 0 {
		_, _ = successColor.Fprintln(w, "no sos alerts")
		return
	}
	for _, a := range alerts {
		_, _ = headerColor.Fprintf(w, "%s ", a.AlertNumber)
		_, _ = statusColor(a.Status).Fprintf(w, "[%s] ", a.Status)
		fmt.Fprintf(w, "%s priority, %s at %s\n", a.Priority, a.VehicleNumber, a.Location)
		if a.Message != "" {
			_, _ = dimColor.Fprintf(w, "   %s\n", a.Message)
		}
	}
}
