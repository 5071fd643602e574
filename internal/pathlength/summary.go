package pathlength

import "iter"

// Summary describes a result set.
type Summary struct {
	Count    int
	Shortest int
	Longest  int
}

// Add folds one result into the summary.
func (s *Summary) Add(info PathInfo) {
	if s.Count == 0 || info.Length < s.Shortest {
		s.Shortest = info.Length
	}
	if s.Count == 0 || info.Length > s.Longest {
		s.Longest = info.Length
	}
	s.Count++
}

// Summarize consumes seq. An empty result gives a zero Summary.
func Summarize(seq iter.Seq2[PathInfo, error]) (Summary, error) {
	var s Summary
	for info, err := range seq {
		if err != nil {
			return s, err
		}
		s.Add(info)
	}
	return s, nil
}

// SummarizeSlice summarizes an already collected result set.
func SummarizeSlice(paths []PathInfo) Summary {
	var s Summary
	for _, p := range paths {
		s.Add(p)
	}
	return s
}
