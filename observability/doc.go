// Package observability provides OpenTelemetry tracing and metrics for
// augmentation runs.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, &cfg.Tracing)
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, "deform.bypass")
//	defer span.End()
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, &cfg.Metrics)
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter("augment"))
//	metrics.RecordStage(ctx, "bypass", "ok", duration)
package observability
