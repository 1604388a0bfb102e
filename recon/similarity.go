package recon

// SimilarityThreshold classifies a scored candidate as "similar".
const SimilarityThreshold = 0.6

// Similarity scores how much of the query's token set the candidate covers:
// shared tokens divided by the query's distinct token count. Directional;
// candidate names are often supersets of the query. Returns 0 when either
// side normalizes to nothing.
func Similarity(query string, candidate string) float64 {
	querySet := tokenSet(query)
	candidateSet := tokenSet(candidate)
	if len(querySet) == 0 || len(candidateSet) == 0 {
		return 0
	}

	shared := 0
	for tok := range querySet {
		if _, ok := candidateSet[tok]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(querySet))
}
