package instrumentation

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus/push"
)

// PushJob is the Pushgateway job label used for sync runs.
const PushJob = "scriptsync"

// Push sends the collected metrics to the configured Pushgateway.
// It is a no-op unless the prometheus exporter is active and
// PushgatewayURL is set.
func (p *Provider) Push(ctx context.Context) error {
	if p == nil || !p.enabled || p.registry == nil || p.config.PushgatewayURL == "" {
		return nil
	}

	pusher := push.New(p.config.PushgatewayURL, PushJob).
		Gatherer(p.registry).
		Grouping("instance", p.instanceLabel())

	if err := pusher.PushContext(ctx); err != nil {
		return fmt.Errorf("failed to push metrics to %s: %w", p.config.PushgatewayURL, err)
	}
	return nil
}

func (p *Provider) instanceLabel() string {
	if p.config.ServiceInstanceID != "" {
		return p.config.ServiceInstanceID
	}
	return p.config.ServiceName
}
