package codeimport

import (
	"time"

	"github.com/goliatone/go-codeimport/pkg/interfaces"
)

// NoOpMetrics returns a metrics recorder that drops every observation.
func NoOpMetrics() interfaces.ImportMetrics {
	return noopMetrics{}
}

type noopMetrics struct{}

func (noopMetrics) ObserveFetchDuration(interfaces.ImportOutcome, time.Duration) {}

func (noopMetrics) IncrementDirective(interfaces.ImportOutcome) {}
