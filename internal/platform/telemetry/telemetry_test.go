package telemetry

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

func TestSetup_NoEndpointInstallsPropagator(t *testing.T) {
	shutdown, err := Setup(context.Background(), "order", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer shutdown(context.Background())

	carrier := propagation.MapCarrier{}
	fields := otel.GetTextMapPropagator().Fields()
	if len(fields) == 0 {
		t.Fatal("expected a propagator to be installed")
	}
	otel.GetTextMapPropagator().Inject(context.Background(), carrier)
}
