package order

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ecocollect/internal/api"
	"ecocollect/internal/auth"
	"ecocollect/internal/logger"
	"ecocollect/internal/notify"
	"ecocollect/internal/session"

	"go.uber.org/zap"
)

// Partition groups the cached orders into the three dashboard buckets.
// Cancelled orders land in Completed alongside finished ones.
type Partition struct {
	Pending   []*Order
	Accepted  []*Order
	Completed []*Order
}

type Service interface {
	Refresh(ctx context.Context) error
	Orders() []*Order
	Get(ctx context.Context, id uint) (*Order, error)
	Create(ctx context.Context, materials []OrderMaterial, notes string) (*Order, error)
	Accept(ctx context.Context, id uint) error
	MarkCollected(ctx context.Context, id uint, collectorNotes string) error
	Transfer(ctx context.Context, id uint, collectorNotes string) error
	Complete(ctx context.Context, id uint, adminNotes string) error
	Cancel(ctx context.Context, id uint, reason string) error
	PatchStatus(ctx context.Context, id uint, newStatus OrderStatus) error
	Partition() Partition
	LastError() string
	ClearError()
}

// service keeps the locally cached order list. The cache is mutated
// only after the backend confirmed a call; a failed call leaves it
// untouched and fills the error slot instead.
type service struct {
	repo   Repository
	sess   *session.Session
	queue  *notify.Queue
	now    func() time.Time

	mu      sync.RWMutex
	orders  []*Order
	lastErr string
}

func NewService(repo Repository, sess *session.Session, queue *notify.Queue) Service {
	return &service{
		repo:  repo,
		sess:  sess,
		queue: queue,
		now:   time.Now,
	}
}

func (s *service) Refresh(ctx context.Context) error {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return s.fail(ctx, "refresh orders", err)
	}

	s.mu.Lock()
	s.orders = orders
	s.mu.Unlock()
	return nil
}

func (s *service) Orders() []*Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Order, len(s.orders))
	copy(out, s.orders)
	return out
}

func (s *service) Get(ctx context.Context, id uint) (*Order, error) {
	o, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, "get order", err)
	}

	s.mu.Lock()
	s.put(o)
	s.mu.Unlock()
	return o, nil
}

func (s *service) Create(ctx context.Context, materials []OrderMaterial, notes string) (*Order, error) {
	if s.sess.Role() != auth.RoleUser {
		return nil, fmt.Errorf("%w: only citizens create orders", ErrForbidden)
	}
	if len(materials) == 0 {
		return nil, ErrNoMaterials
	}
	for _, m := range materials {
		if m.Quantity <= 0 {
			return nil, fmt.Errorf("%w: %s", ErrInvalidQuantity, m.MaterialName)
		}
	}

	created, err := s.repo.Create(ctx, CreateOrderRequest{
		Materials: materials,
		Notes:     notes,
		Status:    StatusPending,
	})
	if err != nil {
		return nil, s.fail(ctx, "create order", err)
	}

	s.mu.Lock()
	s.put(created)
	s.mu.Unlock()

	logger.FromCtx(ctx).Info("order created",
		zap.Uint("order_id", created.ID),
		zap.Float64("total_quantity", created.TotalQuantity),
	)
	return created, nil
}

func (s *service) Accept(ctx context.Context, id uint) error {
	return s.transition(ctx, id, StatusAccepted, "", func(ctx context.Context) error {
		return s.repo.Accept(ctx, id)
	}, func(o *Order) {
		o.Collector = s.participant()
	})
}

func (s *service) MarkCollected(ctx context.Context, id uint, collectorNotes string) error {
	return s.transition(ctx, id, StatusCollected, collectorNotes, func(ctx context.Context) error {
		return s.repo.MarkCollected(ctx, id, collectorNotes)
	}, func(o *Order) {
		if collectorNotes != "" {
			o.CollectorNotes = collectorNotes
		}
	})
}

func (s *service) Transfer(ctx context.Context, id uint, collectorNotes string) error {
	return s.transition(ctx, id, StatusTransferred, collectorNotes, func(ctx context.Context) error {
		return s.repo.Transfer(ctx, id, collectorNotes)
	}, func(o *Order) {
		if collectorNotes != "" {
			o.CollectorNotes = collectorNotes
		}
	})
}

func (s *service) Complete(ctx context.Context, id uint, adminNotes string) error {
	return s.transition(ctx, id, StatusCompleted, adminNotes, func(ctx context.Context) error {
		return s.repo.Complete(ctx, id, adminNotes)
	}, func(o *Order) {
		o.Admin = s.participant()
		if adminNotes != "" {
			o.AdminNotes = adminNotes
		}
	})
}

func (s *service) Cancel(ctx context.Context, id uint, reason string) error {
	return s.transition(ctx, id, StatusCancelled, reason, func(ctx context.Context) error {
		return s.repo.Cancel(ctx, id, reason)
	}, nil)
}

func (s *service) PatchStatus(ctx context.Context, id uint, newStatus OrderStatus) error {
	return s.transition(ctx, id, newStatus, "", func(ctx context.Context) error {
		return s.repo.PatchStatus(ctx, id, newStatus)
	}, nil)
}

// transition validates the step against the state machine and the
// session role, asks the backend, and only then applies the change to
// the cached order.
func (s *service) transition(ctx context.Context, id uint, to OrderStatus, remark string, call func(context.Context) error, attach func(*Order)) error {
	o, err := s.local(ctx, id)
	if err != nil {
		return err
	}

	if !CanTransition(o.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, o.Status, to)
	}
	if !RoleMayTransition(s.sess.Role(), o.Status, to) {
		return fmt.Errorf("%w: %s may not set %s", ErrForbidden, s.sess.Role(), to)
	}

	if err := call(ctx); err != nil {
		return s.fail(ctx, "update order status", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := o.Apply(to, s.actor(), remark, s.now()); err != nil {
		return err
	}
	if attach != nil {
		attach(o)
	}

	logger.FromCtx(ctx).Info("order status updated",
		zap.Uint("order_id", o.ID),
		zap.String("status", string(to)),
	)
	return nil
}

// local returns the cached order, fetching it once when the list has
// not been loaded yet.
func (s *service) local(ctx context.Context, id uint) (*Order, error) {
	s.mu.RLock()
	for _, o := range s.orders {
		if o.ID == id {
			s.mu.RUnlock()
			return o, nil
		}
	}
	s.mu.RUnlock()

	o, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, "get order", err)
	}

	s.mu.Lock()
	s.put(o)
	s.mu.Unlock()
	return o, nil
}

// put inserts or replaces an order in the cache. Callers hold s.mu.
func (s *service) put(o *Order) {
	for i, existing := range s.orders {
		if existing.ID == o.ID {
			s.orders[i] = o
			return
		}
	}
	s.orders = append(s.orders, o)
}

func (s *service) Partition() Partition {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var p Partition
	for _, o := range s.orders {
		switch o.Status {
		case StatusPending:
			p.Pending = append(p.Pending, o)
		case StatusAccepted, StatusInProgress, StatusCollected, StatusTransferred:
			p.Accepted = append(p.Accepted, o)
		case StatusCompleted, StatusCancelled:
			p.Completed = append(p.Completed, o)
		}
	}
	return p
}

func (s *service) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *service) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = ""
}

// fail records the failure in the error slot, pushes a transient
// notification, and hands the original error back to the caller. The
// cache is never touched on failure.
func (s *service) fail(ctx context.Context, op string, err error) error {
	msg := api.UserMessage(err)

	s.mu.Lock()
	s.lastErr = msg
	s.mu.Unlock()

	if s.queue != nil {
		s.queue.Push(notify.LevelError, msg)
	}
	logger.FromCtx(ctx).Error(op, zap.Error(err))
	return err
}

// actor names the current user for history entries.
func (s *service) actor() string {
	claims := s.sess.Claims()
	if claims == nil {
		return string(s.sess.Role())
	}
	if claims.Name != "" {
		return claims.Name
	}
	return claims.Email
}

// participant builds the collector/admin reference attached on accept
// and complete.
func (s *service) participant() *Participant {
	claims := s.sess.Claims()
	if claims == nil {
		return nil
	}
	return &Participant{
		ID:   claims.UserID,
		Name: s.actor(),
	}
}
