package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StoriesCreated counts successful story creations.
	StoriesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "snapbite_stories_created_total",
		Help: "Number of stories created.",
	})

	// ViewsRecorded counts accepted view registrations (including repeat
	// views, which refresh the ledger row).
	ViewsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "snapbite_story_views_recorded_total",
		Help: "Number of story views recorded.",
	})

	// StoriesSwept counts stories deactivated by the expiry sweep.
	StoriesSwept = promauto.NewCounter(prometheus.CounterOpts{
		Name: "snapbite_stories_swept_total",
		Help: "Number of expired stories deactivated by the sweep.",
	})

	// ViewEventsConsumed counts analytics events persisted by the JetStream
	// consumer.
	ViewEventsConsumed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "snapbite_view_events_consumed_total",
		Help: "Number of view analytics events persisted.",
	})
)
