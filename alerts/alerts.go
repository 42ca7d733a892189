// Package alerts emits the manual-verification signal for problem stores.
// Delivery (email, chat, pager) is an external concern; the default notifier
// just logs the signal so an operator-side integration can pick it up.
package alerts

import (
	"github.com/juanlopolicaarpio/cocopan-monitor-3.0/logger"
)

// ProblemStore is one store whose latest resolution needs a human look.
type ProblemStore struct {
	StoreID  uint   `json:"store_id"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	Platform string `json:"platform"`
	Status   string `json:"status"`
	Evidence string `json:"evidence"`
}

type Notifier interface {
	NotifyProblemStores(stores []ProblemStore)
}

// LogNotifier is the placeholder delivery channel.
type LogNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log.With("component", "alerts")}
}

func (n *LogNotifier) NotifyProblemStores(stores []ProblemStore) {
	if len(stores) == 0 {
		return
	}
	n.log.Warn("stores need manual verification", "count", len(stores))
	for _, s := range stores {
		n.log.Warn("problem store",
			"store_id", s.StoreID,
			"name", s.Name,
			"platform", s.Platform,
			"status", s.Status,
			"evidence", s.Evidence,
		)
	}
}
