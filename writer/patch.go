package writer

import (
	"fmt"

	"github.com/arloliu/starbin/errs"
	"github.com/arloliu/starbin/format"
)

// Patch is a single-use handle to a reserved slot in the stream.
type Patch struct {
	w        *Writer
	offset   int64
	kind     format.PatchKind
	scalar   format.ScalarKind
	resolved bool
}

// Offset returns the stream offset of the reserved bytes.
func (p *Patch) Offset() int64 {
	return p.offset
}

// Kind returns the patch kind.
func (p *Patch) Kind() format.PatchKind {
	return p.kind
}

// Scalar returns the storage kind of the reserved slot.
func (p *Patch) Scalar() format.ScalarKind {
	return p.scalar
}

// Resolved reports whether the patch has been written.
func (p *Patch) Resolved() bool {
	return p.resolved
}

// Link resolves a pointer patch against the current cursor.
//
// AbsolutePointer32 stores the cursor itself: call it right before writing the region
// being pointed at. RelativePointer16 stores cursor minus the patch offset: call it
// right after writing the region that follows the slot. A delta above 65535 fails with
// errs.ErrDeltaOverflow and leaves the patch unresolved.
func (p *Patch) Link() error {
	if err := p.check(); err != nil {
		return err
	}

	here := p.w.Offset()
	var (
		bits uint64
		err  error
	)

	switch p.kind {
	case format.AbsolutePointer32:
		bits, err = format.U32.FromInt(here)
		if err != nil {
			return fmt.Errorf("pointer at offset %d: %w", p.offset, err)
		}
	case format.RelativePointer16:
		delta := here - p.offset
		if delta > 0xFFFF {
			return fmt.Errorf("%w: delta %d from offset %d", errs.ErrDeltaOverflow, delta, p.offset)
		}
		bits = uint64(delta) //nolint:gosec
	default:
		return fmt.Errorf("%w: Link on %s", errs.ErrPatchKind, p.kind)
	}

	return p.resolve(bits)
}

// SetInt resolves a DeferredScalar patch with v.
func (p *Patch) SetInt(v int64) error {
	if err := p.checkScalar(); err != nil {
		return err
	}

	bits, err := p.scalar.FromInt(v)
	if err != nil {
		return fmt.Errorf("patch at offset %d: %w", p.offset, err)
	}

	return p.resolve(bits)
}

// SetUint resolves a DeferredScalar patch with v.
func (p *Patch) SetUint(v uint64) error {
	if err := p.checkScalar(); err != nil {
		return err
	}

	bits, err := p.scalar.FromUint(v)
	if err != nil {
		return fmt.Errorf("patch at offset %d: %w", p.offset, err)
	}

	return p.resolve(bits)
}

// SetFloat resolves a DeferredScalar patch with v, using the same truncation and range
// rules as Writer.EmitScalar.
func (p *Patch) SetFloat(v float64) error {
	if err := p.checkScalar(); err != nil {
		return err
	}

	bits, err := p.scalar.FromFloat(v)
	if err != nil {
		return fmt.Errorf("patch at offset %d: %w", p.offset, err)
	}

	return p.resolve(bits)
}

func (p *Patch) check() error {
	if p.resolved {
		return fmt.Errorf("%w: %s at offset %d", errs.ErrPatchResolved, p.kind, p.offset)
	}

	return nil
}

func (p *Patch) checkScalar() error {
	if err := p.check(); err != nil {
		return err
	}
	if p.kind != format.DeferredScalar {
		return fmt.Errorf("%w: Set on %s", errs.ErrPatchKind, p.kind)
	}

	return nil
}

func (p *Patch) resolve(bits uint64) error {
	var b [8]byte
	p.scalar.Put(p.w.engine, b[:], bits)
	if err := p.w.writeAt(p.offset, b[:p.scalar.Width()]); err != nil {
		return err
	}

	p.resolved = true
	delete(p.w.outstanding, p.offset)

	return nil
}
