// Package billing provides the invoice domain model for a multi-tenant
// business suite.
//
// An Invoice lives on two orthogonal axes. The type axis moves one way,
// PROFORMA to FINAL, and only after the proforma has been validated; the
// conversion mints a brand-new number from the final numbering scope. The
// status axis tracks handling: DRAFT, SENT, PAID, OVERDUE, CANCELLED.
//
// Line items are owned by the invoice and totals (subtotal HT, tax, TTC)
// are always recomputed from the full line set, never edited directly.
package billing
