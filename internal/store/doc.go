// Package store persists job applications, their stage ledgers, and
// follow-up reminders in SQLite.
//
// The Store manages database connections, schema initialization, the
// duplicate guard on (owner, company, role), stage-history queries, and the
// reminder queue the dispatcher drains. Stage entries are append-only; an
// application's current stage is always derived from its newest entry rather
// than stored separately, so history and status can never disagree.
//
// Timestamps are stored as fixed-width UTC text so string comparison matches
// chronological order. Schema changes bump the version in schema.go; users
// delete the database to adopt the new schema.
package store
