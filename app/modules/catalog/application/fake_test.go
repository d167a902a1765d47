package catalogservice

import (
	"context"
	"time"

	catalogdomain "github.com/Black-And-White-Club/poptrivia/app/modules/catalog/domain"
	"github.com/Black-And-White-Club/poptrivia/app/modules/catalog/infrastructure/filecache"
)

// ------------------------
// Fake Client
// ------------------------

// FakeClient provides a programmable stub for the Client interface.
type FakeClient struct {
	calls        int
	FetchAllFunc func(ctx context.Context) (catalogdomain.Document, error)
}

func (f *FakeClient) FetchAll(ctx context.Context) (catalogdomain.Document, error) {
	f.calls++
	if f.FetchAllFunc != nil {
		return f.FetchAllFunc(ctx)
	}
	return nil, nil
}

// ------------------------
// Fake Cache
// ------------------------

// FakeCache provides a programmable stub for the Cache interface.
type FakeCache struct {
	trace []string

	LoadFunc  func() (*filecache.Entry, error)
	StoreFunc func(entry filecache.Entry) error
	Stored    []filecache.Entry
}

// Trace returns the sequence of method calls made to the fake.
func (f *FakeCache) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeCache) Load() (*filecache.Entry, error) {
	f.trace = append(f.trace, "Load")
	if f.LoadFunc != nil {
		return f.LoadFunc()
	}
	return nil, filecache.ErrMiss
}

func (f *FakeCache) Store(entry filecache.Entry) error {
	f.trace = append(f.trace, "Store")
	f.Stored = append(f.Stored, entry)
	if f.StoreFunc != nil {
		return f.StoreFunc(entry)
	}
	return nil
}

// fixedClock always reports the same instant.
type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

var (
	_ Client = (*FakeClient)(nil)
	_ Cache  = (*FakeCache)(nil)
)
