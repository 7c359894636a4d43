package out

import (
	"rehab/internal/modules/assessment/domain"
	"rehab/internal/platform/slot"
)

type SlotBoard struct {
	slot *slot.Slot[domain.Snapshot]
}

func NewSlotBoard() *SlotBoard {
	return &SlotBoard{slot: slot.New[domain.Snapshot]()}
}

func (b *SlotBoard) Publish(s domain.Snapshot)               { b.slot.Set(s) }
func (b *SlotBoard) Current() (domain.Snapshot, bool)        { return b.slot.Get() }
func (b *SlotBoard) Watch() (<-chan domain.Snapshot, func()) { return b.slot.Subscribe() }
