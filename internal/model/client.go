package model

import (
	"strings"
	"time"
)

// Client is a customer owning equipment. TaxID (CIF) is unique across clients.
type Client struct {
	ID          string
	Name        string
	TaxID       string
	Phone       string
	Email       *string
	WorkCenters []WorkCenter // embedded, ordered; stored verbatim including invalid entries
	CreatedAt   time.Time
}

// WorkCenter is a sub-location of a client. It has no existence outside its client.
type WorkCenter struct {
	ID      string
	Name    string
	Address *string
	Phone   *string
}

// Valid reports whether the work center can be offered to callers.
func (w WorkCenter) Valid() bool { return w.ID != "" && w.Name != "" }

// SelectableWorkCenters returns the entries with a non-empty id and name, in stored order.
func SelectableWorkCenters(wcs []WorkCenter) []WorkCenter {
	out := make([]WorkCenter, 0, len(wcs))
	for _, wc := range wcs {
		if wc.Valid() {
			out = append(out, wc)
		}
	}
	return out
}

// FindWorkCenter returns the work center with the given id.
func (c *Client) FindWorkCenter(id string) (WorkCenter, bool) {
	for _, wc := range c.WorkCenters {
		if wc.ID == id {
			return wc, true
		}
	}
	return WorkCenter{}, false
}

// ClientInput carries the fields of a new client.
type ClientInput struct {
	Name        string
	TaxID       string
	Phone       string
	Email       string
	WorkCenters []WorkCenter
}

// ClientUpdate is a partial replace: nil fields keep the stored value.
// An empty WorkCenters list keeps the stored list; a non-empty one replaces it.
type ClientUpdate struct {
	Name        *string
	TaxID       *string
	Phone       *string
	Email       *string // pointer to "" clears the email
	WorkCenters []WorkCenter
}

// Apply merges the update into c.
func (u ClientUpdate) Apply(c *Client) {
	if u.Name != nil {
		c.Name = strings.TrimSpace(*u.Name)
	}
	if u.TaxID != nil {
		c.TaxID = strings.TrimSpace(*u.TaxID)
	}
	if u.Phone != nil {
		c.Phone = strings.TrimSpace(*u.Phone)
	}
	if u.Email != nil {
		c.Email = OptionalString(*u.Email)
	}
	if len(u.WorkCenters) > 0 {
		c.WorkCenters = append([]WorkCenter(nil), u.WorkCenters...)
	}
}
