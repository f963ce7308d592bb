// Package billing implements the patient and payment sync feature.
//
// It reconciles batches of externally sourced records against the local
// patients and payments tables with idempotent insert/update/soft-delete
// semantics, and serves the read side of the same schema.
//
// # Components
//
//   - Transform: pure normalization of raw external records
//     (NormalizePatient, NormalizePayment), failing per record with a
//     MalformedRecordError that names the offending field.
//   - Adapters: entity-specific implementations of the core/reconcile
//     Adapter interface (load existing rows, reference filtering for
//     payments, insert/update/soft-delete mutations).
//   - Service: orchestrates imports through the reconcile engine, archives
//     accepted raw batches to object storage when configured, and serves
//     the patient/payment queries.
//   - Handler: exposes the HTTP endpoints.
//   - Feature: registers everything with the application loader.
//
// # HTTP Endpoints
//
//   - POST /patients : reconcile a batch of patient records
//   - GET  /patients?payment_min=&payment_max= : list live patients,
//     optionally bounded by summed live-payment amount
//   - POST /payments : reconcile a batch of payment records
//   - GET  /payments?external_id= : list live payments, optionally for one
//     patient's external id
package billing
