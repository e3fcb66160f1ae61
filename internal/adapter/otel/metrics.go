package otel

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "agentrelay"

// Metrics holds all AgentRelay metric instruments.
type Metrics struct {
	RPCRequests    metric.Int64Counter
	TasksCreated   metric.Int64Counter
	BridgeFailures metric.Int64Counter
}

// NewMetrics creates all metric instruments.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.RPCRequests, err = meter.Int64Counter("agentrelay.rpc.requests",
		metric.WithDescription("Number of JSON-RPC requests dispatched"))
	if err != nil {
		return nil, err
	}

	m.TasksCreated, err = meter.Int64Counter("agentrelay.tasks.created",
		metric.WithDescription("Number of tasks created"))
	if err != nil {
		return nil, err
	}

	m.BridgeFailures, err = meter.Int64Counter("agentrelay.bridge.failures",
		metric.WithDescription("Number of semantic responder bridge failures"))
	if err != nil {
		return nil, err
	}

	return m, nil
}
