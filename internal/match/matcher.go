package match

import "sort"

// Matcher pairs JPEGs to RAW files. Matching is a pure function of its
// inputs: same JPEG records and same indexes always produce the same results,
// independent of call order or prior invocations.
type Matcher struct {
	logger Logger
}

// NewMatcher creates a Matcher.
func NewMatcher(logger Logger) *Matcher {
	return &Matcher{logger: logger}
}

// FindMatches resolves each JPEG against the candidate indexes using the
// two-stage rule: case-folded basename lookup, then exact capture-timestamp
// confirmation. A JPEG without a capture timestamp can never be confirmed and
// yields no match. When several candidates survive (duplicate RAW copies in
// different indexed sources), one Result per candidate is emitted, ordered by
// RAW path; downstream copy logic decides how to handle them.
func (m *Matcher) FindMatches(jpegs []JPEGRecord, indexes []*RawIndex) []Result {
	var results []Result

	for _, jpeg := range jpegs {
		// Stage one: basename candidates. Stage two: intersect with the
		// timestamp view, which never contains timestamp-less records.
		var candidates, survivors []*RawFileRecord
		for _, ix := range indexes {
			named := ix.FindByBasename(jpeg.Basename)
			candidates = append(candidates, named...)
			if jpeg.CaptureTimestamp == nil || len(named) == 0 {
				continue
			}
			sameInstant := ix.FindByTimestamp(*jpeg.CaptureTimestamp)
			for _, rec := range named {
				for _, hit := range sameInstant {
					if hit == rec {
						survivors = append(survivors, rec)
						break
					}
				}
			}
		}
		if len(candidates) == 0 {
			continue
		}

		if jpeg.CaptureTimestamp == nil {
			m.logger.Debug("jpeg has no capture timestamp, cannot confirm match",
				"path", jpeg.Path, "candidates", len(candidates))
			continue
		}
		if len(survivors) == 0 {
			m.logger.Debug("basename matched but no timestamp match", "path", jpeg.Path)
			continue
		}

		sort.Slice(survivors, func(i, j int) bool { return survivors[i].Path < survivors[j].Path })
		if len(survivors) > 1 {
			m.logger.Warn("multiple raw files match", "path", jpeg.Path, "count", len(survivors))
		}
		for _, rec := range survivors {
			results = append(results, Result{
				JPEGPath: jpeg.Path,
				RawPath:  rec.Path,
				Method:   MethodBasenameTimestamp,
			})
		}
	}

	return results
}
