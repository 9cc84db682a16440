package provision

import (
	"sync"
	"time"

	"kitreport/pkg/dates"
)

// DefaultLookbackDays is how far back the start date defaults to.
const DefaultLookbackDays = 30

// DefaultBannerTTL is how long an alert banner stays up.
const DefaultBannerTTL = 5 * time.Second

// Banner is one dismissible alert. Severity is the style class
// ("success", "error", "info").
type Banner struct {
	Message  string
	Severity string
}

// Form is the report form: the date range inputs plus the stack of
// alert banners shown above it.
type Form struct {
	StartDate string
	EndDate   string

	// BannerTTL overrides the auto-removal delay; zero means
	// DefaultBannerTTL.
	BannerTTL time.Duration

	mu      sync.Mutex
	banners []*Banner
}

func NewForm() *Form {
	return &Form{}
}

// ApplyDefaultDates sets the range to (now − 30 days, now). Runs once
// per page build; there are no user edits to preserve at that point.
func (f *Form) ApplyDefaultDates(now time.Time) {
	f.StartDate, f.EndDate = dates.DefaultRange(now, DefaultLookbackDays)
}

// ShowAlert inserts a banner ahead of any existing ones and schedules
// its removal after the TTL. Repeated calls stack banners; each is
// removed on its own timer.
func (f *Form) ShowAlert(message, severity string) *Banner {
	b := &Banner{Message: message, Severity: severity}

	f.mu.Lock()
	f.banners = append([]*Banner{b}, f.banners...)
	f.mu.Unlock()

	time.AfterFunc(f.ttl(), func() { f.removeBanner(b) })
	return b
}

// Banners returns a snapshot of the current banner stack, newest
// first.
func (f *Form) Banners() []*Banner {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*Banner, len(f.banners))
	copy(out, f.banners)
	return out
}

func (f *Form) removeBanner(b *Banner) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, cur := range f.banners {
		if cur == b {
			f.banners = append(f.banners[:i], f.banners[i+1:]...)
			return
		}
	}
}

func (f *Form) ttl() time.Duration {
	if f.BannerTTL > 0 {
		return f.BannerTTL
	}
	return DefaultBannerTTL
}
