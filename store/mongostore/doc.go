// Package mongostore implements store.Repository on MongoDB collections.
// A Mapping describes how a domain value becomes a document and which filter
// fields are queryable.
package mongostore
