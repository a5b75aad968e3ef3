package model

import "time"

// PurchaseOrder is the ledger entry of an order number: every equipment id ever
// assigned to it, without duplicates.
type PurchaseOrder struct {
	ID           string
	Number       string
	EquipmentIDs []string
	CreatedAt    time.Time
}

// MergeIDs appends the ids not yet present in dst, preserving first-seen order.
func MergeIDs(dst []string, ids ...string) []string {
	seen := make(map[string]struct{}, len(dst)+len(ids))
	for _, id := range dst {
		seen[id] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		dst = append(dst, id)
	}
	return dst
}
