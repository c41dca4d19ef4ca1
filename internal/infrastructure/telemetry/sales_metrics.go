package telemetry

import (
	"context"
	"fmt"

	"github.com/erp/ecocare/internal/domain/catalog"
	"github.com/erp/ecocare/internal/domain/shared"
	"github.com/erp/ecocare/internal/domain/trade"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys.
var (
	AttrTenantID = attribute.Key("tenant_id")
	AttrSource   = attribute.Key("source")
	AttrFilter   = attribute.Key("filter")
	AttrChange   = attribute.Key("change")
)

// SalesMetrics turns sales domain events into counters.
type SalesMetrics struct {
	quotationsCreated     metric.Int64Counter
	requestsValidated     metric.Int64Counter
	requestLinesGenerated metric.Int64Counter
	exclusivityChanges    metric.Int64Counter
}

// NewSalesMetrics creates the counters on meter.
func NewSalesMetrics(meter metric.Meter) (*SalesMetrics, error) {
	m := &SalesMetrics{}
	var err error
	if m.quotationsCreated, err = meter.Int64Counter("ecocare_quotations_created_total",
		metric.WithDescription("Quotations created"),
		metric.WithUnit("{quotation}"),
	); err != nil {
		return nil, fmt.Errorf("create quotations counter: %w", err)
	}
	if m.requestsValidated, err = meter.Int64Counter("ecocare_sale_order_requests_validated_total",
		metric.WithDescription("Sale order requests turned into a quotation"),
		metric.WithUnit("{request}"),
	); err != nil {
		return nil, fmt.Errorf("create validated requests counter: %w", err)
	}
	if m.requestLinesGenerated, err = meter.Int64Counter("ecocare_request_lines_generated_total",
		metric.WithDescription("Lines generated when a sale order request starts"),
		metric.WithUnit("{line}"),
	); err != nil {
		return nil, fmt.Errorf("create request lines counter: %w", err)
	}
	if m.exclusivityChanges, err = meter.Int64Counter("ecocare_exclusivity_changes_total",
		metric.WithDescription("Changes to the exclusive customers of a product"),
		metric.WithUnit("{change}"),
	); err != nil {
		return nil, fmt.Errorf("create exclusivity counter: %w", err)
	}
	return m, nil
}

func (m *SalesMetrics) EventTypes() []string {
	return []string{
		trade.EventTypeSalesOrderCreated,
		trade.EventTypeSaleOrderRequestValidated,
		trade.EventTypeRequestLinesGenerated,
		catalog.EventTypeProductExclusivityChanged,
	}
}

func (m *SalesMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	tenant := AttrTenantID.String(event.TenantID().String())
	switch e := event.(type) {
	case *trade.SalesOrderCreatedEvent:
		source := "direct"
		if e.RequestID != nil {
			source = "request"
		}
		m.quotationsCreated.Add(ctx, 1, metric.WithAttributes(tenant, AttrSource.String(source)))
	case *trade.SaleOrderRequestValidatedEvent:
		m.requestsValidated.Add(ctx, 1, metric.WithAttributes(tenant))
	case *trade.RequestLinesGeneratedEvent:
		m.requestLinesGenerated.Add(ctx, int64(e.LineCount),
			metric.WithAttributes(tenant, AttrFilter.String(string(e.Filter))))
	case *catalog.ProductExclusivityChangedEvent:
		change := "partners"
		switch {
		case e.ExclusiveOk && !e.WasExclusive:
			change = "became_exclusive"
		case !e.ExclusiveOk && e.WasExclusive:
			change = "became_open"
		}
		m.exclusivityChanges.Add(ctx, 1, metric.WithAttributes(tenant, AttrChange.String(change)))
	}
	return nil
}

var _ shared.EventHandler = (*SalesMetrics)(nil)
