// Package chat selects canned assistant replies for the AI Assistant page.
package chat

import (
	"fmt"
	"strings"
)

// Topic identifies which canned block answered a message.
type Topic string

const (
	TopicActiveRides        Topic = "active_rides"
	TopicRoutingDetails     Topic = "routing_details"
	TopicCancellations      Topic = "cancellations"
	TopicSOSAlerts          Topic = "sos_alerts"
	TopicPerformance        Topic = "performance"
	TopicVehicleUtilization Topic = "vehicle_utilization"
	TopicHelp               Topic = "help"
	TopicThanks             Topic = "thanks"
	TopicFallback           Topic = "fallback"
)

type cannedReply struct {
	key   string
	topic Topic
	text  string
}

// Keys are disjoint in practice; the order only makes the choice deterministic.
var cannedReplies = []cannedReply{
	{
		key:   "active rides",
		topic: TopicActiveRides,
		text: `There are currently 24 active rides across all locations.

Noida - Gurgaon corridor: 11 rides, average occupancy 3.2 of 4 seats.
Whitefield - Electronic City: 8 rides, 2 running 10+ minutes behind schedule.
Andheri - BKC: 5 rides, all on time.

Would you like the driver list for any of these corridors?`,
	},
	{
		key:   "routing details",
		topic: TopicRoutingDetails,
		text: `Here are today's routing details:

Route 1: Sector 62, Noida to Cyber City, Gurgaon via DND Flyway, 1h 15m.
Route 2: Whitefield to Electronic City via Outer Ring Road, 1h 30m.
Route 3: Andheri East to BKC via Western Express Highway, 45m.

Traffic on Outer Ring Road is heavier than usual; consider a 15 minute earlier pickup for Route 2.`,
	},
	{
		key:   "cancellations",
		topic: TopicCancellations,
		text: `Cancellation summary for today:

7 ride requests were cancelled (4.8% of all requests).
Top reasons: change of plans (3), work from home (2), driver delay (2).

Cancellations are 1.2 points lower than last week's average.`,
	},
	{
		key:   "sos alerts",
		topic: TopicSOSAlerts,
		text: `SOS alert status:

1 open alert - vehicle DL 01 AB 1234 near Sector 62, Noida (high priority).
2 alerts acknowledged and being handled by the security desk.
5 alerts resolved in the last 24 hours, average response time 3m 40s.

Open the SOS Alerts page to acknowledge or resolve an alert.`,
	},
	{
		key:   "performance",
		topic: TopicPerformance,
		text: `Fleet performance this week:

On-time pickups: 94.2%
Average trip rating: 4.6 / 5
Average trip duration: 52 minutes (down 3 minutes from last week)

The Andheri - BKC corridor is the best performer with 98% on-time pickups.`,
	},
	{
		key:   "vehicle utilization",
		topic: TopicVehicleUtilization,
		text: `Vehicle utilization overview:

Sedans: 87% seat utilization across 42 vehicles.
SUVs: 78% seat utilization across 18 vehicles.
Tempo Travellers: 64% seat utilization across 6 vehicles.

Consolidating the two lowest-occupancy Tempo Traveller routes would free one vehicle.`,
	},
}

const helpText = `I can help you with fleet operations. Try asking about:

- active rides
- routing details
- cancellations
- sos alerts
- performance
- vehicle utilization`

const thanksText = `You're welcome! Let me know if there is anything else I can help you with.`

const fallbackFormat = `I understand you're asking about "%s".

I don't have specific information on that yet. Try asking about active rides, routing details, cancellations, SOS alerts, performance or vehicle utilization, or type "help" for the full list.`

// Reply is a canned answer and the topic that produced it.
type Reply struct {
	Topic Topic
	Text  string
}

// Respond returns the first canned block whose key occurs in message, then
// the help, thanks and generic fallbacks in that order.
func Respond(message string) Reply {
	text := strings.ToLower(message)

	for _, r := range cannedReplies {
		if strings.Contains(text, r.key) {
			return Reply{Topic: r.topic, Text: r.text}
		}
	}

	switch {
	case strings.Contains(text, "help"):
		return Reply{Topic: TopicHelp, Text: helpText}
	case strings.Contains(text, "thank"):
		return Reply{Topic: TopicThanks, Text: thanksText}
	default:
		return Reply{Topic: TopicFallback, Text: fmt.Sprintf(fallbackFormat, message)}
	}
}
