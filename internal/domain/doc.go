// Package domain contains the core model of the propertizer.
//
// It classifies environment variables into destination buckets, rewrites their
// names into property keys and carries the ordered property mappings and audit
// reports produced by a run. The domain does not touch the filesystem, the
// process environment or any secrets backend; infra adapters map into/from
// these types.
package domain
