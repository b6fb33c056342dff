// Package requestid assigns ids to connections and requests and carries them
// through context so log records can be correlated.
//
// FromHeader keeps a well-formed X-Request-Id sent by the client and
// generates one otherwise. LoggerExtractor and ConnExtractor plug into
// logger.WithContextExtractors.
package requestid
