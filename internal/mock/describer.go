package mock

import (
	"sync"

	"github.com/aoip-tools/sourcescan-go/pkg/discovery"
)

// DescribeCall records one Describe invocation.
type DescribeCall struct {
	Path string
	Addr string
	Port string
}

// Describer is a scriptable discovery.Describer.
type Describer struct {
	// Description and Err are returned from every Describe call.
	Description string
	Err         error

	mu    sync.Mutex
	calls []DescribeCall
}

func (d *Describer) Describe(path, addr, port string) (string, error) {
	d.mu.Lock()
	d.calls = append(d.calls, DescribeCall{Path: path, Addr: addr, Port: port})
	d.mu.Unlock()
	return d.Description, d.Err
}

// Calls returns a snapshot of the recorded invocations.
func (d *Describer) Calls() []DescribeCall {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]DescribeCall(nil), d.calls...)
}

// Compile-time interface satisfaction check.
var _ discovery.Describer = (*Describer)(nil)
