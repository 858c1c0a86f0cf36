package alerts

import "time"

// Record is the read status of one alert for one recipient.
type Record struct {
	Read        bool       `json:"read"`
	DeliveredAt time.Time  `json:"delivered_at"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
}

// markRead flips the record to read. The first read time is kept.
func (r *Record) markRead(now time.Time) {
	if r.Read {
		return
	}
	r.Read = true
	r.ReadAt = &now
}
