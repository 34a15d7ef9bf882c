// Package catalog provides the lookups the resolver needs from outside the
// query text: stored datamodel queries by name and the OTL of prior jobs by
// sid.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrNotFound is returned when a datamodel or job does not exist, or the job
// belongs to another source address.
var ErrNotFound = errors.New("catalog: not found")

// Catalog resolves datamodels and prior jobs.
type Catalog interface {
	// Datamodel returns the stored query text of the named datamodel.
	Datamodel(ctx context.Context, name string) (string, error)
	// JobOTL returns the original OTL of job sid as seen from sourceIP.
	JobOTL(ctx context.Context, sid, sourceIP string) (string, error)
}

// Lister is implemented by catalogs that can enumerate datamodel names.
type Lister interface {
	DatamodelNames(ctx context.Context) ([]string, error)
}

// DatamodelRecord is a stored datamodel.
type DatamodelRecord struct {
	Name    string `cbor:"1,keyasint" json:"name"`
	Query   string `cbor:"2,keyasint" json:"query"`
	Updated int64  `cbor:"3,keyasint,omitempty" json:"updated,omitempty"`
}

// JobRecord is the OTL of a dispatched job. SourceIP, when set, restricts
// lookups to that address.
type JobRecord struct {
	SID      string `cbor:"1,keyasint" json:"sid"`
	OTL      string `cbor:"2,keyasint" json:"otl"`
	SourceIP string `cbor:"3,keyasint,omitempty" json:"source_ip,omitempty"`
	Created  int64  `cbor:"4,keyasint,omitempty" json:"created,omitempty"`
}

func (j JobRecord) visibleFrom(sourceIP string) bool {
	return j.SourceIP == "" || j.SourceIP == sourceIP
}

func datamodelNotFound(name string) error {
	return fmt.Errorf("%w: datamodel %q", ErrNotFound, name)
}

func jobNotFound(sid string) error {
	return fmt.Errorf("%w: job %q", ErrNotFound, sid)
}

// Memory is a map-backed Catalog. The zero value is ready to use.
type Memory struct {
	mu         sync.RWMutex
	datamodels map[string]string
	jobs       map[string]JobRecord
}

// NewMemory returns an empty Memory catalog.
func NewMemory() *Memory {
	return &Memory{}
}

// PutDatamodel stores or replaces a datamodel.
func (m *Memory) PutDatamodel(name, query string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.datamodels == nil {
		m.datamodels = make(map[string]string)
	}
	m.datamodels[name] = query
}

// PutJob stores or replaces a job.
func (m *Memory) PutJob(sid, otl, sourceIP string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.jobs == nil {
		m.jobs = make(map[string]JobRecord)
	}
	m.jobs[sid] = JobRecord{SID: sid, OTL: otl, SourceIP: sourceIP}
}

func (m *Memory) Datamodel(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	q, ok := m.datamodels[name]
	if !ok {
		return "", datamodelNotFound(name)
	}
	return q, nil
}

func (m *Memory) JobOTL(ctx context.Context, sid, sourceIP string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	j, ok := m.jobs[sid]
	if !ok || !j.visibleFrom(sourceIP) {
		return "", jobNotFound(sid)
	}
	return j.OTL, nil
}

func (m *Memory) DatamodelNames(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.datamodels))
	for n := range m.datamodels {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}
