// Package writer implements the sequential big-endian byte-stream emitter used by every
// starbin encoder.
//
// A Writer appends fixed-width scalars and NUL-terminated strings to an io.WriteSeeker.
// Values that are not known when their slot is written (forward pointers, element
// counts) are handled with deferred patches: Reserve* writes a sentinel placeholder and
// returns a *Patch, and a later Link or Set* call overwrites the placeholder in place.
//
// # Patch Kinds
//
//	Kind               | Width | Resolved with | Stored value
//	-------------------|-------|---------------|-------------------------------------------
//	AbsolutePointer32  | 4     | Link()        | stream offset at the moment of Link
//	RelativePointer16  | 2     | Link()        | Link offset minus the patch's own offset
//	DeferredScalar     | any   | Set*(v)       | v, encoded with the reserved scalar kind
//
// A patch may be resolved once. Close reports every patch still unresolved with
// errs.ErrUnresolvedPatch; their bytes keep the 0xDEADBEEF fill so they are easy to spot
// in a hex dump.
//
// # Buffering
//
// The writer keeps the not-yet-flushed tail of the stream in a pooled buffer. Patches that
// land in the tail are rewritten in memory; patches into flushed bytes seek the sink,
// write, and seek back to the end. Either way the cursor seen by the caller does not
// move, so resolution is transparent to subsequent writes.
//
// # Usage
//
//	w, err := writer.New(file)
//	count, _ := w.ReserveScalar(format.U16)
//	for _, e := range entries {
//	    _ = w.WriteFloat32(e.Value)
//	}
//	_ = count.SetInt(int64(len(entries)))
//	err = w.Close()
//
// # Thread Safety
//
// A Writer is NOT thread-safe. The format relies on a single cursor, so one goroutine
// owns a Writer for its whole lifetime.
package writer
