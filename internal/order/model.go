package order

import (
	"fmt"
	"time"
)

// Participant identifies one of the three parties attached to an
// order. Address is only populated for the citizen, phone only for
// citizen and collector.
type Participant struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

type OrderMaterial struct {
	MaterialID      uint     `json:"materialId"`
	MaterialName    string   `json:"materialName"`
	MaterialType    string   `json:"materialType"`
	Quantity        float64  `json:"quantity"`
	Unit            string   `json:"unit"`
	EstimatedWeight *float64 `json:"estimatedWeight,omitempty"`
}

// StatusHistory is one entry of the append-only audit trail. The last
// entry always mirrors the order's current status.
type StatusHistory struct {
	Status    OrderStatus `json:"status"`
	ChangedAt time.Time   `json:"changedAt"`
	ChangedBy string      `json:"changedBy"`
	Remark    string      `json:"remark,omitempty"`
}

type Order struct {
	ID uint `json:"id"`

	Citizen   Participant  `json:"citizen"`
	Collector *Participant `json:"collector,omitempty"`
	Admin     *Participant `json:"admin,omitempty"`

	Materials       []OrderMaterial `json:"materials"`
	TotalQuantity   float64         `json:"totalQuantity"`
	EstimatedWeight *float64        `json:"estimatedWeight,omitempty"`

	Status        OrderStatus     `json:"status"`
	StatusHistory []StatusHistory `json:"statusHistory"`

	CitizenNotes   string `json:"citizenNotes,omitempty"`
	CollectorNotes string `json:"collectorNotes,omitempty"`
	AdminNotes     string `json:"adminNotes,omitempty"`

	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	CollectedAt   *time.Time `json:"collectedAt,omitempty"`
	TransferredAt *time.Time `json:"transferredAt,omitempty"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
}

// NewOrder builds a fresh PENDING order for a citizen, seeding the
// history with its first entry.
func NewOrder(citizen Participant, materials []OrderMaterial, notes string, now time.Time) *Order {
	var total float64
	var weight float64
	hasWeight := false
	for _, m := range materials {
		total += m.Quantity
		if m.EstimatedWeight != nil {
			weight += *m.EstimatedWeight
			hasWeight = true
		}
	}

	o := &Order{
		Citizen:       citizen,
		Materials:     materials,
		TotalQuantity: total,
		Status:        StatusPending,
		CitizenNotes:  notes,
		CreatedAt:     now,
		UpdatedAt:     now,
		StatusHistory: []StatusHistory{
			{Status: StatusPending, ChangedAt: now, ChangedBy: citizen.Name},
		},
	}
	if hasWeight {
		o.EstimatedWeight = &weight
	}
	return o
}

// Apply moves the order to a new status after the backend confirmed
// the transition. It appends exactly one history entry, bumps
// updatedAt, and sets the milestone timestamp of the target status the
// first time it is reached.
func (o *Order) Apply(to OrderStatus, actor, remark string, now time.Time) error {
	if !CanTransition(o.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, o.Status, to)
	}

	o.Status = to
	o.UpdatedAt = now

	switch to {
	case StatusCollected:
		if o.CollectedAt == nil {
			ts := now
			o.CollectedAt = &ts
		}
	case StatusTransferred:
		if o.TransferredAt == nil {
			ts := now
			o.TransferredAt = &ts
		}
	case StatusCompleted:
		if o.CompletedAt == nil {
			ts := now
			o.CompletedAt = &ts
		}
	}

	o.StatusHistory = append(o.StatusHistory, StatusHistory{
		Status:    to,
		ChangedAt: now,
		ChangedBy: actor,
		Remark:    remark,
	})
	return nil
}
