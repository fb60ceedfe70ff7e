// Package services wires the orgmatchd service graph into a single
// registry handed to the transport layer.
package services

import (
	"github.com/fernwerk/orgmatch/internal/matching"
	"github.com/fernwerk/orgmatch/internal/telemetry"
)

// Registry provides access to the orgmatchd services.
type Registry interface {
	Resolver() *matching.Resolver
	Telemetry() *telemetry.Telemetry
}

// Options configures the registry with service instances.
type Options struct {
	Resolver  *matching.Resolver
	Telemetry *telemetry.Telemetry
}

type registry struct {
	resolver  *matching.Resolver
	telemetry *telemetry.Telemetry
}

// NewRegistry creates a new service registry.
func NewRegistry(opts Options) Registry {
	return &registry{
		resolver:  opts.Resolver,
		telemetry: opts.Telemetry,
	}
}

func (r *registry) Resolver() *matching.Resolver    { return r.resolver }
func (r *registry) Telemetry() *telemetry.Telemetry { return r.telemetry }
