// Package report implements the read-only query engines of the risk-analysis
// reporting layer: schedule comparison, country risk heatmap aggregation, and
// the recent-conversation index. All engines read the warehouse and never
// write to it.
package report

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/logestic/risklake/pkg/duck"
)

// DefaultDeliveryMilestone is the milestone activity the schedule comparison
// restricts its output to unless configured otherwise.
const DefaultDeliveryMilestone = "Delivery to Site"

type Config struct {
	Logger *slog.Logger
	Clock  clockwork.Clock
	DB     duck.DB

	// DeliveryMilestone overrides the milestone activity filter of the
	// schedule comparison. Empty means DefaultDeliveryMilestone.
	DeliveryMilestone string
}

func (c *Config) Validate() error {
	if c.Logger == nil {
		return errors.New("logger is required")
	}
	if c.DB == nil {
		return errors.New("db is required")
	}
	if c.Clock == nil {
		c.Clock = clockwork.NewRealClock()
	}
	if c.DeliveryMilestone == "" {
		c.DeliveryMilestone = DefaultDeliveryMilestone
	}
	return nil
}

type Engine struct {
	log               *slog.Logger
	clock             clockwork.Clock
	db                duck.DB
	deliveryMilestone string
}

func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}
	return &Engine{
		log:               cfg.Logger,
		clock:             cfg.Clock,
		db:                cfg.DB,
		deliveryMilestone: cfg.DeliveryMilestone,
	}, nil
}
