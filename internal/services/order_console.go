package services

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"order-console/internal/domain"
	"order-console/internal/export"
	"order-console/internal/infra"
	rabbit "order-console/internal/infra/rabbitmq"
	"order-console/internal/metrics"
	"order-console/internal/orderview"
	"order-console/internal/repository"
)

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrStatusRequired = errors.New("a known payment status is required")
)

const (
	sessionIdleTTL    = 30 * time.Minute
	exportListLimit   = 50
	publishTimeout    = 3 * time.Second
	journalTimeout    = 3 * time.Second
	invalidateTimeout = 2 * time.Second
)

// workspace is one operator session: the raw collection from the latest
// completed fetch and the view state derived over it.
type workspace struct {
	mu         sync.Mutex
	raw        []*domain.Order
	loaded     bool
	state      orderview.State
	generation uint64
	lastSeen   time.Time
	// credential is the hash of the token the raw collection was fetched with.
	credential [sha256.Size]byte
}

// OrderConsole serves the order-management view. Each session holds its own
// raw collection; views are derived from it on every call.
type OrderConsole struct {
	source    infra.OrderSource
	cache     infra.SnapshotCache
	publisher rabbit.PublisherInterface
	exports   repository.ExportRepository
	renderer  *export.Renderer
	metrics   *metrics.Metrics
	log       *zap.Logger
	loc       *time.Location
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*workspace
}

// NewOrderConsole wires the console. exports may be nil when no journal
// database is configured.
func NewOrderConsole(
	source infra.OrderSource,
	publisher rabbit.PublisherInterface,
	exports repository.ExportRepository,
	renderer *export.Renderer,
	m *metrics.Metrics,
	log *zap.Logger,
	loc *time.Location,
) *OrderConsole {
	if publisher == nil {
		publisher = rabbit.NoopPublisher{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}
	return &OrderConsole{
		source:    source,
		publisher: publisher,
		exports:   exports,
		renderer:  renderer,
		metrics:   m,
		log:       log,
		loc:       loc,
		now:       time.Now,
		sessions:  make(map[string]*workspace),
	}
}

func (c *OrderConsole) SetSnapshotCache(cache infra.SnapshotCache) {
	c.cache = cache
}

// workspace returns the session's workspace bound to token. A different token
// drops the held collection so the order service judges the new credential
// before anything is served; in-flight fetches under the old token are
// superseded.
func (c *OrderConsole) workspace(session, token string) *workspace {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	ws, ok := c.sessions[session]
	if !ok {
		for id, other := range c.sessions {
			other.mu.Lock()
			idle := now.Sub(other.lastSeen) > sessionIdleTTL
			other.mu.Unlock()
			if idle {
				delete(c.sessions, id)
			}
		}
		ws = &workspace{state: orderview.DefaultState()}
		c.sessions[session] = ws
	}
	credential := sha256.Sum256([]byte(token))
	ws.mu.Lock()
	ws.lastSeen = now
	if ws.credential != credential {
		if ws.loaded {
			c.log.Info("session credential changed, discarding held orders", zap.String("session", session))
		}
		ws.credential = credential
		ws.raw = nil
		ws.loaded = false
		ws.generation++
	}
	ws.mu.Unlock()
	return ws
}

// View returns the current view, loading the raw collection on first use.
func (c *OrderConsole) View(ctx context.Context, session, token string) (orderview.View, error) {
	ws := c.workspace(session, token)
	if err := c.ensureLoaded(ctx, ws, token); err != nil {
		return c.derive(ws), err
	}
	return c.derive(ws), nil
}

// Dispatch applies one operator intent. A rejected intent leaves filters,
// sort and page untouched; a rejected date range records the inline message.
// Changing fetch filters reloads the raw collection.
func (c *OrderConsole) Dispatch(ctx context.Context, session, token string, in orderview.Intent) (orderview.View, error) {
	ws := c.workspace(session, token)
	if err := c.ensureLoaded(ctx, ws, token); err != nil {
		return c.derive(ws), err
	}

	ws.mu.Lock()
	prev := ws.state
	next, err := orderview.Reduce(prev, in)
	ws.state = next
	ws.mu.Unlock()
	if err != nil {
		return c.derive(ws), err
	}

	if orderview.FiltersChanged(prev, next) {
		if err := c.load(ctx, ws, token, next.Filters.FetchParams(), true); err != nil {
			return c.derive(ws), err
		}
	}
	return c.derive(ws), nil
}

// Refresh re-fetches the raw collection from the order service, bypassing
// the snapshot cache.
func (c *OrderConsole) Refresh(ctx context.Context, session, token string) (orderview.View, error) {
	ws := c.workspace(session, token)
	err := c.load(ctx, ws, token, c.fetchParams(ws), false)
	return c.derive(ws), err
}

// UpdateStatus changes an order's payment status remotely and then reloads
// the whole raw collection. An empty status means paid; a cancel reason is
// only sent with a cancellation.
func (c *OrderConsole) UpdateStatus(ctx context.Context, session, token, orderID string, status domain.PaymentStatus, reason string) (orderview.View, error) {
	ws := c.workspace(session, token)
	if orderID == "" {
		return c.derive(ws), fmt.Errorf("%w: empty order id", ErrOrderNotFound)
	}
	switch status {
	case "":
		status = domain.StatusPaid
	case domain.StatusPending, domain.StatusPaid, domain.StatusCancelled:
	default:
		return c.derive(ws), fmt.Errorf("%w: %q", ErrStatusRequired, status)
	}
	update := domain.StatusUpdate{OrderID: orderID, Status: status}
	if status == domain.StatusCancelled {
		update.CancelReason = reason
	}

	err := c.source.UpdateStatus(ctx, token, update)
	c.metrics.RecordRemoteCall("update_status", err)
	if err != nil {
		return c.derive(ws), fmt.Errorf("update status of %s: %w", orderID, err)
	}

	c.invalidateSnapshots(ctx)
	c.publish(ctx, rabbit.RoutingStatusUpdated, domain.OrderStatusUpdatedEvent{
		OrderID:      update.OrderID,
		Status:       update.Status,
		CancelReason: update.CancelReason,
		UpdatedAt:    c.now().UTC(),
	})

	if err := c.load(ctx, ws, token, c.fetchParams(ws), false); err != nil {
		return c.derive(ws), err
	}
	return c.derive(ws), nil
}

// ExportSpreadsheet renders the entire filtered-and-sorted collection.
func (c *OrderConsole) ExportSpreadsheet(ctx context.Context, session, token string) (export.Artifact, error) {
	return c.exportList(ctx, session, token, domain.ExportSpreadsheet, c.renderer.Spreadsheet)
}

// ExportPDF renders the entire filtered-and-sorted collection as a list PDF.
func (c *OrderConsole) ExportPDF(ctx context.Context, session, token string) (export.Artifact, error) {
	return c.exportList(ctx, session, token, domain.ExportPDF, c.renderer.ListPDF)
}

// PrintOrder renders the printable invoice of one order in the session's raw
// collection, matched by document id or order id.
func (c *OrderConsole) PrintOrder(ctx context.Context, session, token, id string) (export.Artifact, error) {
	ws := c.workspace(session, token)
	if err := c.ensureLoaded(ctx, ws, token); err != nil {
		return export.Artifact{}, err
	}

	ws.mu.Lock()
	var found *domain.Order
	for _, o := range ws.raw {
		if o != nil && (o.ID == id || o.OrderID == id) {
			found = o
			break
		}
	}
	ws.mu.Unlock()
	if found == nil {
		return export.Artifact{}, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}

	art, err := c.renderer.PrintDocument(found)
	c.metrics.RecordExport(string(domain.ExportPrint), err)
	if err != nil {
		return export.Artifact{}, fmt.Errorf("print %s: %w", id, err)
	}
	c.recordExport(ctx, session, domain.ExportPrint, art, found.Amount().String())
	return art, nil
}

// ListExports returns the session's most recent export journal entries.
func (c *OrderConsole) ListExports(ctx context.Context, session string) ([]domain.ExportRecord, error) {
	if c.exports == nil {
		return []domain.ExportRecord{}, nil
	}
	return c.exports.ListRecent(ctx, session, exportListLimit)
}

func (c *OrderConsole) exportList(ctx context.Context, session, token string, kind domain.ExportKind, render func([]*domain.Order) (export.Artifact, error)) (export.Artifact, error) {
	ws := c.workspace(session, token)
	if err := c.ensureLoaded(ctx, ws, token); err != nil {
		return export.Artifact{}, err
	}
	v := c.derive(ws)

	art, err := render(v.Sorted)
	c.metrics.RecordExport(string(kind), err)
	if err != nil {
		c.log.Error("export failed", zap.String("kind", string(kind)), zap.Error(err))
		return export.Artifact{}, fmt.Errorf("export %s: %w", kind, err)
	}
	c.recordExport(ctx, session, kind, art, v.Summary.Revenue.String())
	return art, nil
}

// recordExport journals and announces a produced artifact. Neither step can
// fail the export.
func (c *OrderConsole) recordExport(ctx context.Context, session string, kind domain.ExportKind, art export.Artifact, revenue string) {
	if c.exports != nil {
		jctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), journalTimeout)
		err := c.exports.Save(jctx, &domain.ExportRecord{
			Kind:      kind,
			FileName:  art.FileName,
			Rows:      art.Rows,
			Revenue:   revenue,
			SessionID: session,
		})
		cancel()
		if err != nil {
			c.log.Warn("export journal write failed", zap.String("file", art.FileName), zap.Error(err))
		}
	}
	c.publish(ctx, rabbit.RoutingOrdersExport, domain.OrdersExportedEvent{
		Kind:      kind,
		FileName:  art.FileName,
		Rows:      art.Rows,
		SessionID: session,
		CreatedAt: c.now().UTC(),
	})
}

func (c *OrderConsole) publish(ctx context.Context, routingKey string, evt any) {
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := c.publisher.Publish(pctx, routingKey, evt); err != nil {
		c.log.Warn("event publish failed", zap.String("routing_key", routingKey), zap.Error(err))
	}
}

func (c *OrderConsole) invalidateSnapshots(ctx context.Context) {
	if c.cache == nil {
		return
	}
	ictx, cancel := context.WithTimeout(context.WithoutCancel(ctx), invalidateTimeout)
	defer cancel()
	if err := c.cache.Invalidate(ictx); err != nil {
		c.log.Warn("snapshot invalidation failed", zap.Error(err))
	}
}

func (c *OrderConsole) fetchParams(ws *workspace) domain.FetchParams {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.state.Filters.FetchParams()
}

func (c *OrderConsole) ensureLoaded(ctx context.Context, ws *workspace, token string) error {
	ws.mu.Lock()
	loaded := ws.loaded
	params := ws.state.Filters.FetchParams()
	ws.mu.Unlock()
	if loaded {
		return nil
	}
	return c.load(ctx, ws, token, params, true)
}

// load fetches a raw collection and installs it unless a newer fetch was
// started in the meantime, in which case the result is dropped. A failed
// fetch leaves the previous collection in place.
func (c *OrderConsole) load(ctx context.Context, ws *workspace, token string, params domain.FetchParams, useCache bool) error {
	ws.mu.Lock()
	ws.generation++
	gen := ws.generation
	ws.mu.Unlock()

	orders, err := c.fetch(ctx, token, params, useCache)

	ws.mu.Lock()
	defer ws.mu.Unlock()
	if gen != ws.generation {
		c.metrics.StaleFetches.Inc()
		c.log.Debug("dropping superseded fetch result",
			zap.Uint64("generation", gen),
			zap.Uint64("latest", ws.generation))
		return nil
	}
	if err != nil {
		return err
	}
	ws.raw = orders
	ws.loaded = true
	return nil
}

func (c *OrderConsole) fetch(ctx context.Context, token string, params domain.FetchParams, useCache bool) ([]*domain.Order, error) {
	if useCache && c.cache != nil {
		orders, hit, err := c.cache.Get(ctx, token, params)
		if err != nil {
			c.log.Warn("snapshot cache read failed", zap.Error(err))
		} else {
			c.metrics.RecordCache(hit)
			if hit {
				return orders, nil
			}
		}
	}

	orders, err := c.source.FetchOrders(ctx, token, params)
	c.metrics.RecordRemoteCall("fetch", err)
	if err != nil {
		return nil, fmt.Errorf("fetch orders: %w", err)
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, token, params, orders); err != nil {
			c.log.Warn("snapshot cache write failed", zap.Error(err))
		}
	}
	return orders, nil
}

// derive builds the view for the session's current state and persists the
// clamped page. Filter failures degrade to the unfiltered collection.
func (c *OrderConsole) derive(ws *workspace) orderview.View {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	v, err := orderview.Derive(ws.raw, ws.state, c.loc)
	c.metrics.ViewDerivations.Inc()
	if err != nil {
		c.metrics.FilterFallbacks.Inc()
		c.log.Warn("filter failed, showing unfiltered orders", zap.Error(err))
	}
	ws.state = v.State
	return v
}
