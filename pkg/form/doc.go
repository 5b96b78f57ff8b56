// Package form implements a reusable form state container: field values,
// per-field errors and touched flags, declarative validation rules, debounced
// real-time validation, and a submit lifecycle guarded against duplicate
// submissions.
//
// UI adapters translate their input events into FieldChange values and bind
// the callbacks returned by HandleChange and HandleBlur. Validation failures
// are data stored in the Errors map; only the submit callback can fail, and its
// errors are reported through the Notifier and the error hook rather than
// returned.
package form
