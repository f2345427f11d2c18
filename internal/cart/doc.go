// Package cart holds the shopping cart state for a storefront session.
//
// A Store owns the current Cart snapshot and is the only way to mutate it.
// Mutations validate against remote stock through a Catalog, persist the
// resulting snapshot through a Storage, publish it to subscribers, and report
// one outcome per call to a Notifier. Either the full persist+publish
// sequence completes or the cart is left exactly as it was.
package cart
