// Package props implements the typed property dictionary that frames and
// services hang their out-of-band state on.
//
// A Properties instance maps string keys to integer, float, string, or
// opaque data values. Reads convert between scalar kinds on demand, so a
// value stored as "25" can be read back as the int 25. Data values may
// carry a destructor that runs exactly once when the value is replaced,
// deleted, or the dictionary is closed.
//
// Properties are reference counted. IncRef and Close are safe to call from
// any goroutine; the key/value operations themselves follow the pipeline's
// single-owner discipline and are not internally locked.
package props
