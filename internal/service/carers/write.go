package carers

// Review write targets.
const (
	targetEmbedded = "embedded"
	targetDocument = "document"
)

// WriteResult is the outcome of one independent write.
type WriteResult struct {
	Target string
	Err    error
}

// OK reports whether the write succeeded.
func (r WriteResult) OK() bool {
	return r.Err == nil
}

// atLeastOne is the acceptance policy for review writes. The writes are not atomic:
// when one fails the other stays committed and nothing is rolled back. A transactional
// batch write would be needed for the two copies to always agree. The local append that
// follows acceptance is serialized against reloads by Directory.syncMu.
func atLeastOne(results ...WriteResult) bool {
	for _, r := range results {
		if r.OK() {
			return true
		}
	}
	return false
}
