package order

import (
	"context"
	"fmt"
	"net/http"

	"ecocollect/internal/api"
)

// CreateOrderRequest is the POST /Order payload.
type CreateOrderRequest struct {
	Materials []OrderMaterial `json:"materials"`
	Notes     string          `json:"notes,omitempty"`
	Status    OrderStatus     `json:"status"`
}

// Repository is the Order API surface. Creation and reads return the
// backend's copy; transition calls return no body and the caller
// patches the cached order once they succeed.
type Repository interface {
	Create(ctx context.Context, req CreateOrderRequest) (*Order, error)
	List(ctx context.Context) ([]*Order, error)
	Get(ctx context.Context, id uint) (*Order, error)
	Accept(ctx context.Context, id uint) error
	MarkCollected(ctx context.Context, id uint, collectorNotes string) error
	Transfer(ctx context.Context, id uint, collectorNotes string) error
	Complete(ctx context.Context, id uint, adminNotes string) error
	Cancel(ctx context.Context, id uint, reason string) error
	PatchStatus(ctx context.Context, id uint, newStatus OrderStatus) error
}

type repository struct {
	client *api.Client
}

func NewRepository(client *api.Client) Repository {
	return &repository{client: client}
}

func (r *repository) Create(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	var created Order
	if err := r.client.Post(ctx, "/Order", req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *repository) List(ctx context.Context) ([]*Order, error) {
	var orders []*Order
	if err := r.client.Get(ctx, "/Order", &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) Get(ctx context.Context, id uint) (*Order, error) {
	var o Order
	err := r.client.Get(ctx, fmt.Sprintf("/Order/%d", id), &o)
	if err != nil {
		if api.StatusOf(err) == http.StatusNotFound {
			return nil, fmt.Errorf("%w: id %d", ErrOrderNotFound, id)
		}
		return nil, err
	}
	return &o, nil
}

func (r *repository) Accept(ctx context.Context, id uint) error {
	return r.client.Put(ctx, fmt.Sprintf("/Order/%d/accept", id), nil, nil)
}

func (r *repository) MarkCollected(ctx context.Context, id uint, collectorNotes string) error {
	body := map[string]string{}
	if collectorNotes != "" {
		body["collectorNotes"] = collectorNotes
	}
	return r.client.Put(ctx, fmt.Sprintf("/Order/%d/collected", id), body, nil)
}

func (r *repository) Transfer(ctx context.Context, id uint, collectorNotes string) error {
	body := map[string]string{}
	if collectorNotes != "" {
		body["collectorNotes"] = collectorNotes
	}
	return r.client.Put(ctx, fmt.Sprintf("/Order/%d/transfer", id), body, nil)
}

func (r *repository) Complete(ctx context.Context, id uint, adminNotes string) error {
	body := map[string]string{}
	if adminNotes != "" {
		body["adminNotes"] = adminNotes
	}
	return r.client.Put(ctx, fmt.Sprintf("/Order/%d/complete", id), body, nil)
}

func (r *repository) Cancel(ctx context.Context, id uint, reason string) error {
	body := map[string]string{}
	if reason != "" {
		body["reason"] = reason
	}
	return r.client.Put(ctx, fmt.Sprintf("/Order/%d/cancel", id), body, nil)
}

func (r *repository) PatchStatus(ctx context.Context, id uint, newStatus OrderStatus) error {
	body := map[string]OrderStatus{"newStatus": newStatus}
	return r.client.Patch(ctx, fmt.Sprintf("/collector/orders/%d/status", id), body, nil)
}
