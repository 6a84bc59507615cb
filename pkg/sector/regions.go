package sector

import (
	"github.com/pkg/errors"
)

type span struct {
	offset int
	length int
}

// Regions holds every logical region in one buffer, addressed by name.
// Accessors copy in and out so no caller ever holds a slice of the buffer.
type Regions struct {
	buf   []byte
	spans map[string]span
	order []string
}

func newRegions() *Regions {
	return &Regions{spans: make(map[string]span)}
}

func (r *Regions) add(name string, length int) {
	r.spans[name] = span{offset: len(r.buf), length: length}
	r.order = append(r.order, name)
	r.buf = append(r.buf, make([]byte, length)...)
}

// Names lists regions in layout order.
func (r *Regions) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

func (r *Regions) Has(name string) bool {
	_, ok := r.spans[name]
	return ok
}

// Len returns the size of a region.
func (r *Regions) Len(name string) (int, error) {
	s, err := r.lookup(name)
	if err != nil {
		return 0, err
	}
	return s.length, nil
}

// Region returns a copy of a whole region.
func (r *Regions) Region(name string) ([]byte, error) {
	s, err := r.lookup(name)
	if err != nil {
		return nil, err
	}
	return r.Read(name, 0, s.length)
}

// Read copies n bytes starting at offset within a region.
func (r *Regions) Read(name string, offset, n int) ([]byte, error) {
	start, err := r.bounds(name, offset, n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, r.buf[start:start+n])
	return out, nil
}

// Write copies data into a region at offset.
func (r *Regions) Write(name string, offset int, data []byte) error {
	start, err := r.bounds(name, offset, len(data))
	if err != nil {
		return err
	}
	copy(r.buf[start:start+len(data)], data)
	return nil
}

// SetRegion replaces a whole region; data must match its length.
func (r *Regions) SetRegion(name string, data []byte) error {
	s, err := r.lookup(name)
	if err != nil {
		return err
	}
	if len(data) != s.length {
		return errors.Wrapf(ErrOutOfRange, "region %s is %d bytes, got %d", name, s.length, len(data))
	}
	return r.Write(name, 0, data)
}

func (r *Regions) lookup(name string) (span, error) {
	s, ok := r.spans[name]
	if !ok {
		return span{}, errors.Wrap(ErrUnknownRegion, name)
	}
	return s, nil
}

func (r *Regions) bounds(name string, offset, n int) (int, error) {
	s, err := r.lookup(name)
	if err != nil {
		return 0, err
	}
	if offset < 0 || n < 0 || offset+n > s.length {
		return 0, errors.Wrapf(ErrOutOfRange, "%s[%d:%d] exceeds %d bytes", name, offset, offset+n, s.length)
	}
	return s.offset + offset, nil
}
